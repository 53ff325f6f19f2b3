package api

import (
	"context"
	"fmt"

	"github.com/feldhaus/einkauf/internal/models"
)

// UnitsService manages the quantity units offered by the item form.
type UnitsService struct {
	client *Client
}

// List returns all units ordered by sort order.
func (s *UnitsService) List(ctx context.Context) ([]models.Unit, error) {
	var units []models.Unit
	if err := s.client.get(ctx, "/api/units", nil, &units); err != nil {
		return nil, err
	}
	return units, nil
}

// Create adds a unit.
func (s *UnitsService) Create(ctx context.Context, unit models.UnitCreate) (*models.Unit, error) {
	var created models.Unit
	if err := s.client.post(ctx, "/api/units", unit, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update changes unit fields; nil fields are left unchanged.
func (s *UnitsService) Update(ctx context.Context, id int, update models.UnitUpdate) (*models.Unit, error) {
	var updated models.Unit
	if err := s.client.put(ctx, fmt.Sprintf("/api/units/%d", id), update, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a unit.
func (s *UnitsService) Delete(ctx context.Context, id int) error {
	return s.client.delete(ctx, fmt.Sprintf("/api/units/%d", id))
}
