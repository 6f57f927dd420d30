package storage

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/landscape/backend/internal/domain/shared"
	"github.com/landscape/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testS3Config() config.StorageConfig {
	return config.StorageConfig{
		Bucket:          "landscape-docs",
		Region:          "us-west-2",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		UsePathStyle:    true,
		PresignExpiry:   10 * time.Minute,
	}
}

func TestNewS3Storage_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("missing bucket returns error", func(t *testing.T) {
		cfg := testS3Config()
		cfg.Bucket = ""
		_, err := NewS3Storage(ctx, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("half of a key pair returns error", func(t *testing.T) {
		cfg := testS3Config()
		cfg.SecretAccessKey = ""
		_, err := NewS3Storage(ctx, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be set together")
	})

	t.Run("valid config", func(t *testing.T) {
		s, err := NewS3Storage(ctx, testS3Config())
		require.NoError(t, err)
		assert.Equal(t, "landscape-docs", s.Bucket())
		assert.Equal(t, 10*time.Minute, s.expiry)
	})

	t.Run("default expiry", func(t *testing.T) {
		cfg := testS3Config()
		cfg.PresignExpiry = 0
		s, err := NewS3Storage(ctx, cfg)
		require.NoError(t, err)
		assert.Equal(t, 15*time.Minute, s.expiry)
	})

	t.Run("option overrides expiry", func(t *testing.T) {
		s, err := NewS3Storage(ctx, testS3Config(), WithPresignExpiry(time.Minute))
		require.NoError(t, err)
		assert.Equal(t, time.Minute, s.expiry)
	})
}

func TestS3Storage_PresignUpload(t *testing.T) {
	s, err := NewS3Storage(context.Background(), testS3Config())
	require.NoError(t, err)
	fixed := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	key := "projects/p1/documents/d1/psa.pdf"
	p, err := s.PresignUpload(context.Background(), key, "application/pdf", 2048)
	require.NoError(t, err)

	u, err := url.Parse(p.URL)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/landscape-docs/"+key, u.Path)
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	assert.Equal(t, "PUT", p.Method)
	assert.Equal(t, "application/pdf", p.Headers["Content-Type"])
	assert.Equal(t, fixed.Add(10*time.Minute), p.ExpiresAt)

	_, err = s.PresignUpload(context.Background(), "", "application/pdf", 1)
	assert.Error(t, err)
}

func TestS3Storage_PresignDownload(t *testing.T) {
	s, err := NewS3Storage(context.Background(), testS3Config())
	require.NoError(t, err)

	p, err := s.PresignDownload(context.Background(), "projects/p1/documents/d1/psa.pdf", "Purchase Agreement.pdf")
	require.NoError(t, err)

	u, err := url.Parse(p.URL)
	require.NoError(t, err)
	assert.Equal(t, "GET", p.Method)
	assert.Equal(t, `attachment; filename="Purchase Agreement.pdf"`, u.Query().Get("response-content-disposition"))
}

func TestS3Storage_ValidationOnly(t *testing.T) {
	s, err := NewS3Storage(context.Background(), testS3Config())
	require.NoError(t, err)

	_, err = s.Stat(context.Background(), "")
	assert.Error(t, err)
	assert.Error(t, s.Delete(context.Background(), ""))
}

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStorage("http://files.local/")

	p, err := m.PresignUpload(ctx, "projects/p1/documents/d1/a.pdf", "application/pdf", 3)
	require.NoError(t, err)
	assert.Contains(t, p.URL, "http://files.local/projects/p1/documents/d1/a.pdf?expires=")

	_, err = m.Stat(ctx, "projects/p1/documents/d1/a.pdf")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	m.Put("projects/p1/documents/d1/a.pdf", []byte("pdf"), "application/pdf")
	info, err := m.Stat(ctx, "projects/p1/documents/d1/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, int64(3), info.Size)

	require.NoError(t, m.Delete(ctx, "projects/p1/documents/d1/a.pdf"))
	_, err = m.Stat(ctx, "projects/p1/documents/d1/a.pdf")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
