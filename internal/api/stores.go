package api

import (
	"context"
	"fmt"

	"github.com/feldhaus/einkauf/internal/models"
)

// StoresService manages stores and their departments.
type StoresService struct {
	client *Client
}

// List returns all stores ordered by sort order.
func (s *StoresService) List(ctx context.Context) ([]models.Store, error) {
	var stores []models.Store
	if err := s.client.get(ctx, "/api/stores", nil, &stores); err != nil {
		return nil, err
	}
	return stores, nil
}

// Create adds a new store.
func (s *StoresService) Create(ctx context.Context, store models.StoreCreate) (*models.Store, error) {
	var created models.Store
	if err := s.client.post(ctx, "/api/stores", store, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update changes store fields; nil fields are left unchanged.
func (s *StoresService) Update(ctx context.Context, id int, update models.StoreUpdate) (*models.Store, error) {
	var updated models.Store
	if err := s.client.put(ctx, fmt.Sprintf("/api/stores/%d", id), update, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a store with its departments and products.
func (s *StoresService) Delete(ctx context.Context, id int) error {
	return s.client.delete(ctx, fmt.Sprintf("/api/stores/%d", id))
}

// Departments returns a store's departments in walk-through order.
func (s *StoresService) Departments(ctx context.Context, storeID int) ([]models.Department, error) {
	var departments []models.Department
	if err := s.client.get(ctx, fmt.Sprintf("/api/stores/%d/departments", storeID), nil, &departments); err != nil {
		return nil, err
	}
	return departments, nil
}

// CreateDepartment adds a department to a store.
func (s *StoresService) CreateDepartment(ctx context.Context, storeID int, dept models.DepartmentCreate) (*models.Department, error) {
	var created models.Department
	if err := s.client.post(ctx, fmt.Sprintf("/api/stores/%d/departments", storeID), dept, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateDepartment changes department fields; nil fields are left unchanged.
func (s *StoresService) UpdateDepartment(ctx context.Context, departmentID int, update models.DepartmentUpdate) (*models.Department, error) {
	var updated models.Department
	if err := s.client.put(ctx, fmt.Sprintf("/api/departments/%d", departmentID), update, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteDepartment removes a department and all of its products.
func (s *StoresService) DeleteDepartment(ctx context.Context, departmentID int) error {
	return s.client.delete(ctx, fmt.Sprintf("/api/departments/%d", departmentID))
}
