package service

import (
	"context"
	"net/mail"

	"shop-service/internal/errs"
	"shop-service/internal/models"
	"shop-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientStore is the storage surface the client directory needs.
type ClientStore interface {
	CreateClient(ctx context.Context, client *models.Client) error
	GetClientByID(ctx context.Context, id string) (*models.Client, error)
	ListClients(ctx context.Context) ([]models.Client, error)
	UpdateClient(ctx context.Context, client *models.Client) error
	DeleteClient(ctx context.Context, id string) error
}

// ClientService handles customer directory business logic
type ClientService struct {
	store  ClientStore
	logger *zap.Logger
}

// NewClientService creates a new client service
func NewClientService(store ClientStore) *ClientService {
	return &ClientService{store: store, logger: util.GetLogger()}
}

// ClientRequest carries client data for create and update
type ClientRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
	Phone string `json:"phone"`
}

// UpdateClientRequest is a partial client update
type UpdateClientRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// Create persists a new client; duplicate name or email is a conflict.
func (s *ClientService) Create(ctx context.Context, req ClientRequest) (*models.Client, error) {
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, errs.Invalid("Email is invalid")
	}

	client := &models.Client{
		ID:    uuid.New().String(),
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}
	if err := s.store.CreateClient(ctx, client); err != nil {
		return nil, err
	}

	s.logger.Info("Client created", zap.String("client_id", client.ID))
	return client, nil
}

// Get retrieves a client by ID
func (s *ClientService) Get(ctx context.Context, id string) (*models.Client, error) {
	return s.store.GetClientByID(ctx, id)
}

// List retrieves all clients
func (s *ClientService) List(ctx context.Context) ([]models.Client, error) {
	return s.store.ListClients(ctx)
}

// Update merges partial fields into an existing client
func (s *ClientService) Update(ctx context.Context, id string, req UpdateClientRequest) (*models.Client, error) {
	client, err := s.store.GetClientByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Email != nil {
		if _, err := mail.ParseAddress(*req.Email); err != nil {
			return nil, errs.Invalid("Email is invalid")
		}
		client.Email = *req.Email
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}

	if err := s.store.UpdateClient(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Delete removes a client
func (s *ClientService) Delete(ctx context.Context, id string) error {
	if _, err := s.store.GetClientByID(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteClient(ctx, id)
}
