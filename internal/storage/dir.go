package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// DirStore stores objects under a local directory. Returned URLs are
// baseURL-prefixed when a base URL is configured, file:// URLs otherwise.
type DirStore struct {
	root    string
	baseURL string
}

// NewDirStore creates a store rooted at dir, creating it if needed.
func NewDirStore(dir, baseURL string) (*DirStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &DirStore{root: abs, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Upload writes data below the store root and returns its URL.
func (s *DirStore) Upload(_ context.Context, objectPath string, data []byte) (string, error) {
	name, err := cleanObjectPath(objectPath)
	if err != nil {
		return "", err
	}

	target := filepath.Join(s.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", &UploadError{Path: name, Message: "failed to create directory", Cause: err}
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", &UploadError{Path: name, Message: "failed to write object", Cause: err}
	}

	if s.baseURL != "" {
		return s.baseURL + "/" + name, nil
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(target)}).String(), nil
}
