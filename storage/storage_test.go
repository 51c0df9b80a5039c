package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnconfigured(t *testing.T) {
	var s Unconfigured

	_, err := s.GenerateUploadURL(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)

	url, err := s.GetURL(context.Background(), "image/evidence/abc")
	assert.NoError(t, err)
	assert.Empty(t, url)

	assert.ErrorIs(t, s.Delete(context.Background(), "image/evidence/abc"), ErrNotConfigured)
}
