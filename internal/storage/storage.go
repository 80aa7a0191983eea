// Package storage stages binary objects (uploaded documents, profile photos) and returns fetchable URLs.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ObjectStore uploads a blob at an owner-scoped path and returns a publicly fetchable URL.
type ObjectStore interface {
	Upload(ctx context.Context, objectPath string, data []byte) (string, error)
}

// ObjectPath builds the owner-scoped path "{ownerID}/{filename}".
// Directory components in filename are discarded.
func ObjectPath(ownerID uuid.UUID, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == ".." || name == "" {
		name = "upload"
	}
	return ownerID.String() + "/" + name
}

// ContentType sniffs the MIME type of data.
func ContentType(data []byte) string {
	return mimetype.Detect(data).String()
}

func cleanObjectPath(objectPath string) (string, error) {
	cleaned := path.Clean("/" + objectPath)
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." {
		return "", &UploadError{Path: objectPath, Message: "object path is empty"}
	}
	return cleaned, nil
}

// UploadError is returned when an object cannot be staged.
type UploadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *UploadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("upload %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("upload %s: %s", e.Path, e.Message)
}

func (e *UploadError) Unwrap() error {
	return e.Cause
}
