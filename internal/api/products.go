package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/feldhaus/einkauf/internal/models"
)

// ProductsService manages the product catalog.
type ProductsService struct {
	client *Client
}

// ListByStore returns all products of one store.
func (s *ProductsService) ListByStore(ctx context.Context, storeID int) ([]models.Product, error) {
	var products []models.Product
	if err := s.client.get(ctx, fmt.Sprintf("/api/stores/%d/products", storeID), nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Search fuzzy-matches q against a store's product names and returns the best
// match, or nil when nothing scores above the server's threshold.
func (s *ProductsService) Search(ctx context.Context, storeID int, q string) (*models.Product, error) {
	query := url.Values{"q": {q}}
	var match *models.Product
	if err := s.client.get(ctx, fmt.Sprintf("/api/stores/%d/products/search", storeID), query, &match); err != nil {
		return nil, err
	}
	return match, nil
}

// Create adds a product to the catalog.
func (s *ProductsService) Create(ctx context.Context, product models.ProductCreate) (*models.Product, error) {
	var created models.Product
	if err := s.client.post(ctx, "/api/products", product, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update changes product fields; nil fields are left unchanged.
func (s *ProductsService) Update(ctx context.Context, id int, update models.ProductUpdate) (*models.Product, error) {
	var updated models.Product
	if err := s.client.put(ctx, fmt.Sprintf("/api/products/%d", id), update, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a product from the catalog.
func (s *ProductsService) Delete(ctx context.Context, id int) error {
	return s.client.delete(ctx, fmt.Sprintf("/api/products/%d", id))
}
