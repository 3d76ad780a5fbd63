// Package storage provides object storage implementations for document blobs.
package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	appdocument "github.com/StephaneWamba/InvoiceFlow/internal/application/document"
)

// InMemoryObjectStorage keeps blobs in a map. Use it for development and
// tests where a real S3 backend is not available.
type InMemoryObjectStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewInMemoryObjectStorage creates an empty InMemoryObjectStorage
func NewInMemoryObjectStorage() *InMemoryObjectStorage {
	return &InMemoryObjectStorage{
		objects: make(map[string][]byte),
	}
}

// Ensure InMemoryObjectStorage implements ObjectStorage
var _ appdocument.ObjectStorage = (*InMemoryObjectStorage)(nil)

// Upload stores the blob under the given key, replacing any previous value
func (s *InMemoryObjectStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

// Download returns a reader over the stored blob
func (s *InMemoryObjectStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if key == "" {
		return nil, errors.New("storage key is required")
	}

	s.mu.RLock()
	data, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.New("object not found: " + key)
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes the blob. Deleting a missing key is not an error.
func (s *InMemoryObjectStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// Exists checks if a blob is stored under the key
func (s *InMemoryObjectStorage) Exists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.New("storage key is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok, nil
}

// Len returns the number of stored blobs
func (s *InMemoryObjectStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
