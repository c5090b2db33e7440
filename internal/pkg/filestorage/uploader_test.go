package filestorage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/TiebenDepaepe/Stepoutx/internal/app/models"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	putErr  error
	puts    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (f *fakeStore) Put(_ context.Context, key, contentType string, body io.Reader, _ int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.putErr != nil {
		return f.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = data
	f.types[key] = contentType
	return nil
}

func (f *fakeStore) SignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://signed.example/" + key, nil
}

func bytesFile(name, contentType string, data []byte) *File {
	return &File{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Open:        func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

func TestUploaderStoresUnderGeneratedKey(t *testing.T) {
	store := newFakeStore()
	u := NewUploader(store, zerolog.Nop())

	key, err := u.Upload(context.Background(), bytesFile("me.png", "image/png", []byte("png-bytes")), models.MediaPhoto)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasPrefix(key, "photos/") || !strings.HasSuffix(key, ".png") {
		t.Errorf("key = %q", key)
	}
	if got := string(store.objects[key]); got != "png-bytes" {
		t.Errorf("stored %q", got)
	}
	if store.types[key] != "image/png" {
		t.Errorf("content type = %q", store.types[key])
	}
}

func TestUploaderFailureIsSingleAttempt(t *testing.T) {
	store := newFakeStore()
	store.putErr = errors.New("storage quota exceeded for bucket uploads")
	u := NewUploader(store, zerolog.Nop())

	key, err := u.Upload(context.Background(), bytesFile("clip.mp4", "video/mp4", []byte("v")), models.MediaVideo)
	if key != "" {
		t.Errorf("key = %q, want empty", key)
	}

	var uploadErr *UploadError
	if !errors.As(err, &uploadErr) {
		t.Fatalf("err = %T, want *UploadError", err)
	}
	if uploadErr.Category != models.MediaVideo || !strings.HasPrefix(uploadErr.Key, "videos/") {
		t.Errorf("upload error = %+v", uploadErr)
	}
	if !errors.Is(err, store.putErr) || !errors.Is(err, apperrors.ErrUploadFailed) {
		t.Error("upload error should wrap the transport error and match ErrUploadFailed")
	}
	if store.puts != 1 {
		t.Errorf("puts = %d, want 1", store.puts)
	}
}

func TestUploaderOpenFailure(t *testing.T) {
	store := newFakeStore()
	u := NewUploader(store, zerolog.Nop())
	file := &File{Name: "x.jpg", ContentType: "image/jpeg", Open: func() (io.ReadCloser, error) {
		return nil, errors.New("gone")
	}}

	if _, err := u.Upload(context.Background(), file, models.MediaPhoto); !errors.Is(err, apperrors.ErrUploadFailed) {
		t.Errorf("err = %v", err)
	}
	if store.puts != 0 {
		t.Errorf("puts = %d, want 0", store.puts)
	}
}
