package api

import (
	"context"
	"fmt"

	"github.com/feldhaus/einkauf/internal/models"
)

// UsersService covers the admin user endpoints.
type UsersService struct {
	client *Client
}

// List returns all accounts. Admin only.
func (s *UsersService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.client.get(ctx, "/api/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Pending returns accounts waiting for approval. Admin only.
func (s *UsersService) Pending(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.client.get(ctx, "/api/users/pending", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Approve activates a pending account. Admin only.
func (s *UsersService) Approve(ctx context.Context, id int) (*models.User, error) {
	var approved models.User
	if err := s.client.post(ctx, fmt.Sprintf("/api/users/%d/approve", id), nil, &approved); err != nil {
		return nil, err
	}
	return &approved, nil
}
