package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"alcyxob/fitness-routines/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoObjectKey(t *testing.T) {
	key, err := VideoObjectKey("u1", "e1", "video/mp4")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "uploads/u1/e1/"))
	assert.True(t, strings.HasSuffix(key, ".mp4"))
	assert.True(t, KeyBelongsTo(key, "u1", "e1"))
	assert.False(t, KeyBelongsTo(key, "u2", "e1"))
	assert.False(t, KeyBelongsTo("uploads/u1/e1/../../x.mp4", "u1", "e1"))

	_, err = VideoObjectKey("u1", "e1", "image/png")
	assert.ErrorIs(t, err, ErrUnsupportedContentType)

	ext, err := VideoExtension("Video/QuickTime; codecs=avc1")
	require.NoError(t, err)
	assert.Equal(t, "mov", ext)
}

type fakeS3 struct {
	mu       sync.Mutex
	requests []string
	objects  map[string]bool
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	switch r.Method {
	case http.MethodHead:
		if f.objects[r.URL.Path] {
			w.Header().Set("Content-Length", "0")
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	case http.MethodDelete:
		delete(f.objects, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestStorage(t *testing.T, endpoint string) FileStorage {
	t.Helper()
	store, err := NewS3Storage(context.Background(), config.S3Config{
		Endpoint:        endpoint,
		Region:          "us-east-1",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		BucketName:      "videos",
	})
	require.NoError(t, err)
	return store
}

func TestS3Storage_Presign(t *testing.T) {
	store := newTestStorage(t, "http://localhost:9000")

	raw, err := store.GeneratePresignedUploadURL(context.Background(), "uploads/u/e/x.mp4", "video/mp4", time.Minute)
	require.NoError(t, err)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/videos/uploads/u/e/x.mp4", u.Path)
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	assert.Equal(t, "60", u.Query().Get("X-Amz-Expires"))

	raw, err = store.GeneratePresignedDownloadURL(context.Background(), "uploads/u/e/x.mp4", 0)
	require.NoError(t, err)
	u, err = url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
}

func TestS3Storage_ExistsAndDelete(t *testing.T) {
	fake := &fakeS3{objects: map[string]bool{"/videos/uploads/u/e/x.mp4": true}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	store := newTestStorage(t, srv.URL)
	ctx := context.Background()

	ok, err := store.ObjectExists(ctx, "uploads/u/e/x.mp4")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.DeleteObject(ctx, "uploads/u/e/x.mp4"))

	ok, err = store.ObjectExists(ctx, "uploads/u/e/x.mp4")
	require.NoError(t, err)
	assert.False(t, ok)
}
