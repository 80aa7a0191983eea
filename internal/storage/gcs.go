package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gcs "google.golang.org/api/storage/v1"
)

// PublicBaseURL is the host serving public Cloud Storage objects.
const PublicBaseURL = "https://storage.googleapis.com"

// GCSStore stores objects in a Google Cloud Storage bucket through the JSON API.
type GCSStore struct {
	service *gcs.Service
	bucket  string
	baseURL string
}

// NewGCSStore creates a store for bucket. Credentials come from opts or the
// application default credentials.
func NewGCSStore(ctx context.Context, bucket string, opts ...option.ClientOption) (*GCSStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	service, err := gcs.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage service: %w", err)
	}

	return &GCSStore{
		service: service,
		bucket:  bucket,
		baseURL: PublicBaseURL,
	}, nil
}

// WithPublicBaseURL overrides the host used to build returned URLs.
func (s *GCSStore) WithPublicBaseURL(baseURL string) *GCSStore {
	s.baseURL = strings.TrimSuffix(baseURL, "/")
	return s
}

// Upload inserts data at objectPath and returns its public URL.
func (s *GCSStore) Upload(ctx context.Context, objectPath string, data []byte) (string, error) {
	name, err := cleanObjectPath(objectPath)
	if err != nil {
		return "", err
	}

	object := &gcs.Object{
		Name:        name,
		ContentType: ContentType(data),
	}

	_, err = s.service.Objects.Insert(s.bucket, object).
		Media(bytes.NewReader(data), googleapi.ContentType(object.ContentType)).
		Context(ctx).
		Do()
	if err != nil {
		return "", &UploadError{Path: name, Message: "failed to insert object", Cause: err}
	}

	return s.PublicURL(name), nil
}

// PublicURL returns the public URL of an object in the bucket.
func (s *GCSStore) PublicURL(objectPath string) string {
	segments := strings.Split(objectPath, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, strings.Join(segments, "/"))
}
