package storage

import (
	"context"
	"errors"

	"github.com/linesmerrill/crime-report-api/models"
)

// ErrNotConfigured is returned by Unconfigured for operations that need a real store
var ErrNotConfigured = errors.New("blob storage is not configured")

// Unconfigured stands in for blob storage when no provider is set up, so the rest of the
// api keeps serving. Evidence still lists, without download urls.
type Unconfigured struct{}

// GenerateUploadURL always fails
func (Unconfigured) GenerateUploadURL(ctx context.Context) (*models.UploadTicket, error) {
	return nil, ErrNotConfigured
}

// GetURL returns no url
func (Unconfigured) GetURL(ctx context.Context, ref string) (string, error) {
	return "", nil
}

// Delete always fails so evidence records are never orphaned from their files
func (Unconfigured) Delete(ctx context.Context, ref string) error {
	return ErrNotConfigured
}
