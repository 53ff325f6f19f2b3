package api

import (
	"context"
	"fmt"

	"github.com/feldhaus/einkauf/internal/models"
)

// TemplatesService manages reusable shopping templates.
type TemplatesService struct {
	client *Client
}

// List returns all templates with their items.
func (s *TemplatesService) List(ctx context.Context) ([]models.Template, error) {
	var templates []models.Template
	if err := s.client.get(ctx, "/api/templates", nil, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// Get returns one template by id.
func (s *TemplatesService) Get(ctx context.Context, id int) (*models.Template, error) {
	var tmpl models.Template
	if err := s.client.get(ctx, fmt.Sprintf("/api/templates/%d", id), nil, &tmpl); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// Create adds a template with its items.
func (s *TemplatesService) Create(ctx context.Context, tmpl models.TemplateCreate) (*models.Template, error) {
	var created models.Template
	if err := s.client.post(ctx, "/api/templates", tmpl, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update changes template fields; a non-nil Items slice replaces all lines.
func (s *TemplatesService) Update(ctx context.Context, id int, update models.TemplateUpdate) (*models.Template, error) {
	var updated models.Template
	if err := s.client.put(ctx, fmt.Sprintf("/api/templates/%d", id), update, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a template with its items.
func (s *TemplatesService) Delete(ctx context.Context, id int) error {
	return s.client.delete(ctx, fmt.Sprintf("/api/templates/%d", id))
}
