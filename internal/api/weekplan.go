package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/feldhaus/einkauf/internal/models"
)

// WeekplanService manages the shared meal plan.
type WeekplanService struct {
	client *Client
}

// Entries returns all entries for the week starting at weekStart (the Monday,
// ISO format YYYY-MM-DD).
func (s *WeekplanService) Entries(ctx context.Context, weekStart string) ([]models.WeekplanEntry, error) {
	query := url.Values{"week_start": {weekStart}}
	var entries []models.WeekplanEntry
	if err := s.client.get(ctx, "/api/weekplan/entries", query, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// CreateEntry adds a meal to the plan.
func (s *WeekplanService) CreateEntry(ctx context.Context, entry models.WeekplanEntryCreate) (*models.WeekplanEntry, error) {
	var created models.WeekplanEntry
	if err := s.client.post(ctx, "/api/weekplan/entries", entry, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteEntry removes a meal from the plan.
func (s *WeekplanService) DeleteEntry(ctx context.Context, id int) error {
	return s.client.delete(ctx, fmt.Sprintf("/api/weekplan/entries/%d", id))
}
