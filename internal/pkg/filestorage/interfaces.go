package filestorage

import (
	"context"
	"io"
	"time"
)

// DefaultSignedURLTTL is the lifetime of links handed to the admin dashboard
const DefaultSignedURLTTL = time.Hour

// File is an applicant-selected file waiting to be uploaded
type File struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`

	// Open returns the file content; it is not part of the serialized form state
	Open func() (io.ReadCloser, error) `json:"-"`
}

// URLSigner creates time-limited read links for private objects
type URLSigner interface {
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// ObjectStore is a private bucket: objects are written by key and only ever read
// through signed URLs
type ObjectStore interface {
	URLSigner

	// Put stores size bytes from body under key
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
}
