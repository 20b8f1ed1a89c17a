package service

import (
	"context"
	"sort"

	"shop-service/internal/errs"
	"shop-service/internal/models"
	"shop-service/internal/store"

	"github.com/shopspring/decimal"
)

// memStore is an in-memory stand-in for *store.Store with the same guard
// semantics: stock decrements have a floor, soft-deleted rows disappear,
// duplicate unique keys conflict.
type memStore struct {
	clients   map[string]*models.Client
	products  map[string]*models.Product
	orders    map[string]*models.Order
	cartItems map[string]*models.CartItem
	users     map[string]*models.User
	roles     map[string]*models.Role
	userRoles []models.UserRole
}

func newMemStore() *memStore {
	return &memStore{
		clients:   make(map[string]*models.Client),
		products:  make(map[string]*models.Product),
		orders:    make(map[string]*models.Order),
		cartItems: make(map[string]*models.CartItem),
		users:     make(map[string]*models.User),
		roles:     make(map[string]*models.Role),
	}
}

func (m *memStore) addClient(c models.Client) *models.Client {
	m.clients[c.ID] = &c
	return &c
}

func (m *memStore) addProduct(p models.Product) *models.Product {
	m.products[p.ID] = &p
	return &p
}

// --- clients ---

func (m *memStore) CreateClient(_ context.Context, client *models.Client) error {
	for _, existing := range m.clients {
		if existing.Name == client.Name || existing.Email == client.Email {
			return errs.Conflict("Client already exists")
		}
	}
	cp := *client
	m.clients[client.ID] = &cp
	return nil
}

func (m *memStore) GetClientByID(_ context.Context, id string) (*models.Client, error) {
	client, ok := m.clients[id]
	if !ok {
		return nil, errs.NotFound("Client not found")
	}
	cp := *client
	return &cp, nil
}

func (m *memStore) ListClients(_ context.Context) ([]models.Client, error) {
	out := make([]models.Client, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) UpdateClient(_ context.Context, client *models.Client) error {
	if _, ok := m.clients[client.ID]; !ok {
		return errs.NotFound("Client not found")
	}
	cp := *client
	m.clients[client.ID] = &cp
	return nil
}

func (m *memStore) DeleteClient(_ context.Context, id string) error {
	if _, ok := m.clients[id]; !ok {
		return errs.NotFound("Client not found")
	}
	delete(m.clients, id)
	return nil
}

// --- products ---

func (m *memStore) CreateProduct(_ context.Context, product *models.Product) error {
	for _, existing := range m.products {
		if existing.Name == product.Name {
			return errs.Conflict("Product already exists")
		}
	}
	cp := *product
	m.products[product.ID] = &cp
	return nil
}

func (m *memStore) GetProductByID(_ context.Context, id string) (*models.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, errs.NotFound("Product not found")
	}
	cp := *product
	return &cp, nil
}

func (m *memStore) ListProducts(_ context.Context) ([]models.Product, error) {
	out := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) UpdateProduct(_ context.Context, product *models.Product) error {
	if _, ok := m.products[product.ID]; !ok {
		return errs.NotFound("Product not found")
	}
	cp := *product
	m.products[product.ID] = &cp
	return nil
}

func (m *memStore) UpdateProductDiscount(_ context.Context, id string, discount decimal.Decimal) error {
	product, ok := m.products[id]
	if !ok {
		return errs.NotFound("Product not found")
	}
	product.Discount = discount
	return nil
}

func (m *memStore) DeleteProduct(_ context.Context, id string) error {
	if _, ok := m.products[id]; !ok {
		return errs.NotFound("Product not found")
	}
	delete(m.products, id)
	return nil
}

// --- orders ---

func (m *memStore) decrementStock(productID string, qty int) error {
	product, ok := m.products[productID]
	if !ok {
		return errs.NotFound("Product not found: %s", productID)
	}
	if product.Stock < qty {
		return errs.Invalid("Insufficient stock for product %s", productID)
	}
	product.Stock -= qty
	return nil
}

func (m *memStore) restoreStock(productID string, qty int) {
	if product, ok := m.products[productID]; ok {
		product.Stock += qty
	}
}

func (m *memStore) CreateOrder(_ context.Context, order *models.Order, lines []models.OrderProduct, cartItemIDs []string) error {
	applied := make([]models.OrderProduct, 0, len(lines))
	for _, line := range lines {
		if err := m.decrementStock(line.ProductID, line.Quantity); err != nil {
			for _, a := range applied {
				m.restoreStock(a.ProductID, a.Quantity)
			}
			return err
		}
		applied = append(applied, line)
	}

	cp := *order
	cp.Lines = make([]models.OrderProduct, len(lines))
	copy(cp.Lines, lines)
	for i := range cp.Lines {
		cp.Lines[i].OrderID = order.ID
	}
	m.orders[order.ID] = &cp

	for _, id := range cartItemIDs {
		delete(m.cartItems, id)
	}
	return nil
}

func (m *memStore) GetOrderByID(_ context.Context, id string) (*models.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, errs.NotFound("Order not found: %s", id)
	}
	cp := *order
	cp.Lines = make([]models.OrderProduct, len(order.Lines))
	copy(cp.Lines, order.Lines)
	for i := range cp.Lines {
		if product, ok := m.products[cp.Lines[i].ProductID]; ok {
			pcp := *product
			cp.Lines[i].Product = &pcp
		}
	}
	if client, ok := m.clients[order.ClientID]; ok {
		ccp := *client
		cp.Client = &ccp
	}
	return &cp, nil
}

func (m *memStore) ListOrders(_ context.Context, filter store.OrderFilter) ([]models.Order, error) {
	out := make([]models.Order, 0, len(m.orders))
	for id, order := range m.orders {
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		if filter.ClientID != "" && order.ClientID != filter.ClientID {
			continue
		}
		if filter.UserID != "" && (!order.UserID.Valid || order.UserID.String != filter.UserID) {
			continue
		}
		full, _ := m.GetOrderByID(context.Background(), id)
		out = append(out, *full)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) ListOrderLines(_ context.Context) ([]models.OrderProduct, error) {
	ids := make([]string, 0, len(m.orders))
	for id := range m.orders {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []models.OrderProduct
	for _, id := range ids {
		full, _ := m.GetOrderByID(context.Background(), id)
		out = append(out, full.Lines...)
	}
	return out, nil
}

func (m *memStore) UpdateOrderStatus(_ context.Context, orderID, status string) error {
	order, ok := m.orders[orderID]
	if !ok {
		return errs.NotFound("Order not found: %s", orderID)
	}
	order.Status = status
	return nil
}

func (m *memStore) ReplaceOrderLines(_ context.Context, orderID string, oldLines, newLines []models.OrderProduct, total decimal.Decimal) error {
	order, ok := m.orders[orderID]
	if !ok {
		return errs.NotFound("Order not found: %s", orderID)
	}

	for _, line := range oldLines {
		m.restoreStock(line.ProductID, line.Quantity)
	}
	applied := make([]models.OrderProduct, 0, len(newLines))
	for _, line := range newLines {
		if err := m.decrementStock(line.ProductID, line.Quantity); err != nil {
			for _, a := range applied {
				m.restoreStock(a.ProductID, a.Quantity)
			}
			for _, old := range oldLines {
				_ = m.decrementStock(old.ProductID, old.Quantity)
			}
			return err
		}
		applied = append(applied, line)
	}

	order.Lines = make([]models.OrderProduct, len(newLines))
	copy(order.Lines, newLines)
	for i := range order.Lines {
		order.Lines[i].OrderID = orderID
	}
	order.TotalPrice = total
	return nil
}

func (m *memStore) DeleteOrder(_ context.Context, orderID string, lines []models.OrderProduct) error {
	if _, ok := m.orders[orderID]; !ok {
		return errs.NotFound("Order not found: %s", orderID)
	}
	for _, line := range lines {
		m.restoreStock(line.ProductID, line.Quantity)
	}
	delete(m.orders, orderID)
	return nil
}

// --- cart ---

func (m *memStore) CreateCartItem(_ context.Context, item *models.CartItem) error {
	cp := *item
	m.cartItems[item.ID] = &cp
	return nil
}

func (m *memStore) GetCartItemByID(_ context.Context, id string) (*models.CartItem, error) {
	item, ok := m.cartItems[id]
	if !ok {
		return nil, errs.NotFound("Item not found in the cart")
	}
	cp := *item
	return &cp, nil
}

func (m *memStore) GetCartItemByClientProduct(_ context.Context, clientID, productID string) (*models.CartItem, error) {
	for _, item := range m.cartItems {
		if item.ClientID == clientID && item.ProductID == productID {
			cp := *item
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListCartItems(_ context.Context) ([]models.CartItem, error) {
	out := make([]models.CartItem, 0, len(m.cartItems))
	for _, item := range m.cartItems {
		cp := *item
		if product, ok := m.products[item.ProductID]; ok {
			pcp := *product
			cp.Product = &pcp
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) UpdateCartItem(_ context.Context, item *models.CartItem) error {
	if _, ok := m.cartItems[item.ID]; !ok {
		return errs.NotFound("Item not found in the cart")
	}
	cp := *item
	m.cartItems[item.ID] = &cp
	return nil
}

func (m *memStore) DeleteCartItem(_ context.Context, id string) error {
	if _, ok := m.cartItems[id]; !ok {
		return errs.NotFound("Item not found in the cart")
	}
	delete(m.cartItems, id)
	return nil
}

// --- users and roles ---

func (m *memStore) CreateUser(_ context.Context, user *models.User) error {
	for _, existing := range m.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return errs.Conflict("User already exists")
		}
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memStore) rolesOf(userID string) []models.Role {
	var roles []models.Role
	for _, link := range m.userRoles {
		if link.UserID != userID {
			continue
		}
		if role, ok := m.roles[link.RoleID]; ok {
			roles = append(roles, *role)
		}
	}
	return roles
}

func (m *memStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, errs.NotFound("User not found")
	}
	cp := *user
	cp.Roles = m.rolesOf(id)
	return &cp, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for id, user := range m.users {
		if user.Email == email {
			cp := *user
			cp.Roles = m.rolesOf(id)
			return &cp, nil
		}
	}
	return nil, errs.NotFound("User not found")
}

func (m *memStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	for id, user := range m.users {
		if user.Username == username {
			cp := *user
			cp.Roles = m.rolesOf(id)
			return &cp, nil
		}
	}
	return nil, errs.NotFound("User not found")
}

func (m *memStore) ListUsers(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(m.users))
	for id, user := range m.users {
		cp := *user
		cp.Roles = m.rolesOf(id)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) UpdateUser(_ context.Context, user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return errs.NotFound("User not found")
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memStore) UpdateUserPassword(_ context.Context, id, hash string) error {
	user, ok := m.users[id]
	if !ok {
		return errs.NotFound("User not found")
	}
	user.Password = hash
	return nil
}

func (m *memStore) DeleteUser(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return errs.NotFound("User not found")
	}
	kept := m.userRoles[:0]
	for _, link := range m.userRoles {
		if link.UserID != id {
			kept = append(kept, link)
		}
	}
	m.userRoles = kept
	delete(m.users, id)
	return nil
}

func (m *memStore) CreateRole(_ context.Context, role *models.Role) error {
	for _, existing := range m.roles {
		if existing.Name == role.Name {
			return errs.Conflict("Role already exists")
		}
	}
	cp := *role
	m.roles[role.ID] = &cp
	return nil
}

func (m *memStore) ListRoles(_ context.Context) ([]models.Role, error) {
	out := make([]models.Role, 0, len(m.roles))
	for _, role := range m.roles {
		out = append(out, *role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) GetRoleByName(_ context.Context, name string) (*models.Role, error) {
	for _, role := range m.roles {
		if role.Name == name {
			cp := *role
			return &cp, nil
		}
	}
	return nil, errs.NotFound("Role not found")
}

func (m *memStore) DeleteRole(_ context.Context, id string) error {
	if _, ok := m.roles[id]; !ok {
		return errs.NotFound("Role not found")
	}
	delete(m.roles, id)
	return nil
}

func (m *memStore) LinkUserRole(_ context.Context, link *models.UserRole) error {
	m.userRoles = append(m.userRoles, *link)
	return nil
}

// fakePublisher records published events and can be forced to fail.
type fakePublisher struct {
	events []*models.OrderStatusChangedEvent
	err    error
}

func (p *fakePublisher) PublishOrderStatusChanged(_ context.Context, event *models.OrderStatusChangedEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}
