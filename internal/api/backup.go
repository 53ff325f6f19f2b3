package api

import (
	"context"

	"github.com/feldhaus/einkauf/internal/models"
)

// BackupService downloads and restores full database dumps. Admin only.
type BackupService struct {
	client *Client
}

// Download fetches a full dump of the server database.
func (s *BackupService) Download(ctx context.Context) (*models.BackupData, error) {
	var data models.BackupData
	if err := s.client.get(ctx, "/api/backup", nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Restore replaces the server database with the given dump.
func (s *BackupService) Restore(ctx context.Context, data *models.BackupData) error {
	return s.client.post(ctx, "/api/backup/restore", data, nil)
}
