package dms

import (
	"context"
	"time"
)

// PresignedURL is a time-limited URL granting one object operation
type PresignedURL struct {
	URL       string            `json:"url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers,omitempty"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// ObjectInfo describes a stored object
type ObjectInfo struct {
	Size        int64
	ContentType string
}

// ObjectStorage is the document blob store. Stat returns shared.ErrNotFound
// for a missing object.
type ObjectStorage interface {
	PresignUpload(ctx context.Context, key, contentType string, size int64) (*PresignedURL, error)
	PresignDownload(ctx context.Context, key, fileName string) (*PresignedURL, error)
	Stat(ctx context.Context, key string) (*ObjectInfo, error)
	Delete(ctx context.Context, key string) error
}
