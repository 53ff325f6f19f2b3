package api

import (
	"context"
	"fmt"

	"github.com/feldhaus/einkauf/internal/models"
)

// WebDAVService manages the server-side WebDAV recipe import settings.
type WebDAVService struct {
	client *Client
}

// List returns all configured WebDAV sources.
func (s *WebDAVService) List(ctx context.Context) ([]models.WebDAVSettings, error) {
	var settings []models.WebDAVSettings
	if err := s.client.get(ctx, "/api/webdav", nil, &settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// Get returns one WebDAV source by id.
func (s *WebDAVService) Get(ctx context.Context, id int) (*models.WebDAVSettings, error) {
	var settings models.WebDAVSettings
	if err := s.client.get(ctx, fmt.Sprintf("/api/webdav/%d", id), nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Create adds a WebDAV source.
func (s *WebDAVService) Create(ctx context.Context, create models.WebDAVSettingsCreate) (*models.WebDAVSettings, error) {
	var created models.WebDAVSettings
	if err := s.client.post(ctx, "/api/webdav", create, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update changes WebDAV source fields; nil fields are left unchanged.
func (s *WebDAVService) Update(ctx context.Context, id int, update models.WebDAVSettingsUpdate) (*models.WebDAVSettings, error) {
	var updated models.WebDAVSettings
	if err := s.client.put(ctx, fmt.Sprintf("/api/webdav/%d", id), update, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a WebDAV source.
func (s *WebDAVService) Delete(ctx context.Context, id int) error {
	return s.client.delete(ctx, fmt.Sprintf("/api/webdav/%d", id))
}
