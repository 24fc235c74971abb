package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

var (
	ErrObjectNotFound         = errors.New("object not found in storage")
	ErrUnsupportedContentType = errors.New("unsupported content type")
)

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows PUT requests
	// for uploading an object directly to the storage provider.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for viewing an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// ObjectExists reports whether the upload actually landed.
	ObjectExists(ctx context.Context, objectKey string) (bool, error)

	DeleteObject(ctx context.Context, objectKey string) error
}

var videoExtensions = map[string]string{
	"video/mp4":       "mp4",
	"video/quicktime": "mov",
	"video/webm":      "webm",
	"video/x-m4v":     "m4v",
	"video/mpeg":      "mpeg",
}

// VideoExtension returns the file extension for an accepted video content type.
func VideoExtension(contentType string) (string, error) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	ext, ok := videoExtensions[ct]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
	}
	return ext, nil
}

// VideoObjectKey builds uploads/<userId>/<exerciseId>/<uuid>.<ext>.
func VideoObjectKey(userID, exerciseID, contentType string) (string, error) {
	ext, err := VideoExtension(contentType)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("uploads/%s/%s/%s.%s", userID, exerciseID, uuid.NewString(), ext), nil
}

// KeyBelongsTo reports whether key was issued for this user and exercise.
func KeyBelongsTo(key, userID, exerciseID string) bool {
	prefix := fmt.Sprintf("uploads/%s/%s/", userID, exerciseID)
	return strings.HasPrefix(key, prefix) && len(key) > len(prefix) && !strings.Contains(key[len(prefix):], "/")
}
