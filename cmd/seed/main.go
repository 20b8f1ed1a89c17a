// Command seed populates a fresh database with the base roles, a few staff
// users, sample clients and a starter catalog.
package main

import (
	"context"
	"log"

	"shop-service/config"
	"shop-service/internal/errs"
	"shop-service/internal/models"
	"shop-service/internal/service"
	"shop-service/internal/store"
	"shop-service/internal/util"

	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	users := service.NewUserService(db)
	clients := service.NewClientService(db)
	products := service.NewProductService(db, nil)

	seedRoles(ctx, users)
	seedUsers(ctx, users)
	seedClients(ctx, clients)
	seedProducts(ctx, products)

	log.Println("Seed completed")
}

func seedRoles(ctx context.Context, users *service.UserService) {
	for _, name := range []string{models.RoleAdmin, models.RoleSeller} {
		if _, err := users.CreateRole(ctx, name); err != nil {
			if errs.KindOf(err) == errs.KindConflict {
				continue
			}
			log.Fatalf("Failed to seed role %s: %v", name, err)
		}
	}
}

func seedUsers(ctx context.Context, users *service.UserService) {
	seed := []service.CreateUserRequest{
		{Username: "John Doe", Email: "john.doe@example.com", Password: "Password@123", Role: models.RoleAdmin},
		{Username: "Jane Doe", Email: "jane.doe@example.com", Password: "Password@123", Role: models.RoleAdmin},
		{Username: "Seller 1", Email: "seller1@example.com", Password: "Password@123", Role: models.RoleSeller},
		{Username: "Seller 2", Email: "seller2@example.com", Password: "Password@123", Role: models.RoleSeller},
	}

	for _, req := range seed {
		if _, err := users.Create(ctx, req); err != nil {
			if errs.KindOf(err) == errs.KindConflict {
				continue
			}
			log.Fatalf("Failed to seed user %s: %v", req.Email, err)
		}
	}
}

func seedClients(ctx context.Context, clients *service.ClientService) {
	seed := []service.ClientRequest{
		{Name: "Acme Corp", Email: "purchasing@acme.example.com", Phone: "+1-555-0100"},
		{Name: "Globex", Email: "orders@globex.example.com", Phone: "+1-555-0101"},
	}

	for _, req := range seed {
		if _, err := clients.Create(ctx, req); err != nil {
			if errs.KindOf(err) == errs.KindConflict {
				continue
			}
			log.Fatalf("Failed to seed client %s: %v", req.Name, err)
		}
	}
}

func seedProducts(ctx context.Context, products *service.ProductService) {
	seed := []service.CreateProductRequest{
		{Name: "Standing Desk", Description: "Adjustable standing desk", Price: decimal.RequireFromString("499.90"), Stock: 25, Category: "furniture"},
		{Name: "Ergonomic Chair", Description: "Mesh office chair", Price: decimal.RequireFromString("189.00"), Stock: 60, Category: "furniture"},
		{Name: "USB-C Dock", Description: "11-in-1 docking station", Price: decimal.RequireFromString("79.50"), Stock: 140, Category: "electronics"},
	}

	for _, req := range seed {
		if _, err := products.Create(ctx, models.Actor{}, req); err != nil {
			if errs.KindOf(err) == errs.KindConflict {
				continue
			}
			log.Fatalf("Failed to seed product %s: %v", req.Name, err)
		}
	}
}
