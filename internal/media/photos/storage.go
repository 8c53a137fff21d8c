// Package photos provides member photo processing and disk storage.
package photos

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage manages photo filesystem operations.
// Thread-safe for concurrent operations.
type Storage struct {
	basePath string
	mu       sync.RWMutex // Protects file operations
}

// NewStorage creates a new Storage instance for member photos.
// basePath should be the data directory (e.g., ~/Mokjang/data).
// Photos are stored in {basePath}/photos/.
func NewStorage(basePath string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	storagePath := filepath.Join(basePath, "photos")

	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create photos directory: %w", err)
	}

	return &Storage{
		basePath: storagePath,
	}, nil
}

// Save stores photo data under a key.
// Filename format: {key}.jpg.
func (s *Storage) Save(key string, imgData []byte) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	if len(imgData) == 0 {
		return fmt.Errorf("photo data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.Path(key), imgData, 0644); err != nil {
		return fmt.Errorf("failed to write photo file: %w", err)
	}

	return nil
}

// Get retrieves photo data for a key.
func (s *Storage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("photo not found for %s: %w", key, err)
		}
		return nil, fmt.Errorf("failed to read photo file: %w", err)
	}

	return data, nil
}

// Exists checks if a photo exists for a key.
func (s *Storage) Exists(key string) bool {
	if key == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.Path(key))
	return err == nil
}

// Delete removes a photo. Deleting a missing photo is not an error.
func (s *Storage) Delete(key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path(key)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete photo file: %w", err)
	}

	return nil
}

// Hash computes the SHA256 hash of a photo.
// Returns hex-encoded string for ETag/cache validation.
func (s *Storage) Hash(key string) (string, error) {
	data, err := s.Get(key)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// Path returns the full filesystem path for a photo key.
func (s *Storage) Path(key string) string {
	return filepath.Join(s.basePath, fmt.Sprintf("%s.jpg", key))
}
