package storage

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	dmsapp "github.com/landscape/backend/internal/application/dms"
	"github.com/landscape/backend/internal/domain/shared"
)

var _ dmsapp.ObjectStorage = (*MemoryStorage)(nil)

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryStorage keeps objects in process. It backs local development when
// no bucket is configured and tests that need to simulate uploads.
type MemoryStorage struct {
	BaseURL string
	Expiry  time.Duration

	mu      sync.RWMutex
	objects map[string]memoryObject
}

// NewMemoryStorage creates an empty MemoryStorage
func NewMemoryStorage(baseURL string) *MemoryStorage {
	if baseURL == "" {
		baseURL = "http://localhost:8080/_storage"
	}
	return &MemoryStorage{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Expiry:  15 * time.Minute,
		objects: make(map[string]memoryObject),
	}
}

// Put stores data under key, as a client upload would
func (m *MemoryStorage) Put(key string, data []byte, contentType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{data: append([]byte(nil), data...), contentType: contentType}
}

// PresignUpload returns a fake upload URL
func (m *MemoryStorage) PresignUpload(_ context.Context, key, contentType string, _ int64) (*dmsapp.PresignedURL, error) {
	if key == "" {
		return nil, errors.New("storage key is required")
	}
	return m.presign(http.MethodPut, key, map[string]string{"Content-Type": contentType}), nil
}

// PresignDownload returns a fake download URL
func (m *MemoryStorage) PresignDownload(_ context.Context, key, _ string) (*dmsapp.PresignedURL, error) {
	if key == "" {
		return nil, errors.New("storage key is required")
	}
	return m.presign(http.MethodGet, key, nil), nil
}

// Stat reports a stored object
func (m *MemoryStorage) Stat(_ context.Context, key string) (*dmsapp.ObjectInfo, error) {
	m.mu.RLock()
	obj, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return nil, shared.NewNotFoundError("stored object")
	}
	return &dmsapp.ObjectInfo{Size: int64(len(obj.data)), ContentType: obj.contentType}, nil
}

// Delete removes an object
func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) presign(method, key string, headers map[string]string) *dmsapp.PresignedURL {
	expiresAt := time.Now().Add(m.Expiry)
	u := m.BaseURL + "/" + strings.TrimLeft(key, "/") + "?expires=" + url.QueryEscape(expiresAt.UTC().Format(time.RFC3339))
	return &dmsapp.PresignedURL{URL: u, Method: method, Headers: headers, ExpiresAt: expiresAt}
}
