package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/feldhaus/einkauf/internal/models"
)

// ItemsService works with the shared shopping list.
type ItemsService struct {
	client *Client
}

// List returns all items with department info for grouping.
func (s *ItemsService) List(ctx context.Context) ([]models.ItemWithDepartment, error) {
	var items []models.ItemWithDepartment
	if err := s.client.get(ctx, "/api/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListByDate returns items planned for one shopping date (ISO, YYYY-MM-DD).
func (s *ItemsService) ListByDate(ctx context.Context, date string) ([]models.ItemWithDepartment, error) {
	query := url.Values{"shopping_date": {date}}
	var items []models.ItemWithDepartment
	if err := s.client.get(ctx, "/api/items/by-date", query, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Add creates an item. The server merges it into an existing entry with a
// matching name and sums the quantities, so the returned item may carry a
// different id than the request.
func (s *ItemsService) Add(ctx context.Context, item models.Item) (*models.ItemWithDepartment, error) {
	var created models.ItemWithDepartment
	if err := s.client.post(ctx, "/api/items", item, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Delete removes an item by id.
func (s *ItemsService) Delete(ctx context.Context, id string) error {
	return s.client.delete(ctx, "/api/items/"+url.PathEscape(id))
}

// DeleteBefore removes all items dated strictly before the given ISO date.
func (s *ItemsService) DeleteBefore(ctx context.Context, beforeDate string) error {
	return s.client.delete(ctx, "/api/items/by-date/"+url.PathEscape(beforeDate))
}

// ConvertToProduct turns a free-text item into a catalog product in the given
// department and returns the updated item.
func (s *ItemsService) ConvertToProduct(ctx context.Context, itemID string, departmentID int) (*models.ItemWithDepartment, error) {
	body := map[string]int{"department_id": departmentID}
	path := fmt.Sprintf("/api/items/%s/convert-to-product", url.PathEscape(itemID))

	var updated models.ItemWithDepartment
	if err := s.client.post(ctx, path, body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
