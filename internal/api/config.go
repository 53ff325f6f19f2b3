package api

import (
	"context"

	"github.com/feldhaus/einkauf/internal/models"
)

// ConfigService reads the server-side shopping-day configuration.
type ConfigService struct {
	client *Client
}

// Get returns the configured shopping days (0=Monday through 6=Sunday).
func (s *ConfigService) Get(ctx context.Context) (*models.ServerConfig, error) {
	var cfg models.ServerConfig
	if err := s.client.get(ctx, "/api/config", nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
