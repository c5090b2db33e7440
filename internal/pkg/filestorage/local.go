package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/auth"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/logger"
)

// ErrInvalidKey is returned for keys that would escape the storage root
var ErrInvalidKey = errors.New("invalid storage key")

// LocalStorage keeps objects on the local filesystem. Signed URLs point at the
// API's /media route and carry a short-lived token.
type LocalStorage struct {
	basePath string // root directory of the store
	baseURL  string // public base URL of the API
	signer   *auth.MediaSigner
}

// NewLocalStorage creates a new LocalStorage rooted at basePath
func NewLocalStorage(basePath, baseURL string, signer *auth.MediaSigner) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o750); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
		signer:   signer,
	}, nil
}

// Put writes body to basePath/key, creating the category folder as needed
func (ls *LocalStorage) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	dstPath, err := ls.FullPath(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dstPath), 0o750); err != nil {
		return fmt.Errorf("failed to create subdirectory: %w", err)
	}

	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}

	written, err := io.Copy(dst, body)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err == nil && size > 0 && written != size {
		err = fmt.Errorf("wrote %d of %d bytes", written, size)
	}
	if err != nil {
		_ = os.Remove(dstPath)
		return fmt.Errorf("failed to save file content: %w", err)
	}
	return nil
}

// SignedURL returns {baseURL}/media/{key}?token=...
func (ls *LocalStorage) SignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	if _, err := ls.FullPath(key); err != nil {
		return "", err
	}
	token, err := ls.signer.Sign(key, ttl)
	if err != nil {
		return "", fmt.Errorf("sign media token: %w", err)
	}
	return ls.baseURL + "/media/" + escapeKey(key) + "?token=" + url.QueryEscape(token), nil
}

func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}

// Open verifies token for key and opens the stored file
func (ls *LocalStorage) Open(key, token string) (*os.File, error) {
	fullPath, err := ls.FullPath(key)
	if err != nil {
		return nil, err
	}
	if err := ls.signer.Verify(token, key); err != nil {
		return nil, err
	}
	return os.Open(fullPath)
}

// FullPath maps a storage key onto the filesystem, rejecting traversal
func (ls *LocalStorage) FullPath(key string) (string, error) {
	cleaned := path.Clean("/" + key)
	if key == "" || cleaned == "/" || cleaned[1:] != key {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(key)), nil
}
