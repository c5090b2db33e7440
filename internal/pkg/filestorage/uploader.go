package filestorage

import (
	"context"
	"fmt"
	"time"

	"github.com/TiebenDepaepe/Stepoutx/internal/app/models"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// UploadError reports a rejected write. Err carries the transport error and is
// meant for operators only.
type UploadError struct {
	Category models.MediaCategory
	Key      string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s %q: %v", e.Category, e.Key, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, apperrors.ErrUploadFailed) match any upload failure
func (e *UploadError) Is(target error) bool {
	return target == apperrors.ErrUploadFailed
}

// Uploader names and writes applicant media into the object store
type Uploader struct {
	store  ObjectStore
	logger zerolog.Logger
	now    func() time.Time
}

// NewUploader creates a new Uploader
func NewUploader(store ObjectStore, logger zerolog.Logger) *Uploader {
	return &Uploader{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Upload stores file under a freshly generated key and returns that key.
// Exactly one write is attempted.
func (u *Uploader) Upload(ctx context.Context, file *File, category models.MediaCategory) (string, error) {
	key := NewKey(category, file.Name, file.ContentType, u.now())

	if file.Open == nil {
		return "", &UploadError{Category: category, Key: key, Err: fmt.Errorf("file %q has no content", file.Name)}
	}
	body, err := file.Open()
	if err != nil {
		return "", &UploadError{Category: category, Key: key, Err: fmt.Errorf("open %q: %w", file.Name, err)}
	}
	defer body.Close()

	start := u.now()
	if err := u.store.Put(ctx, key, file.ContentType, body, file.Size); err != nil {
		u.logger.Error().Err(err).
			Str("category", string(category)).
			Str("key", key).
			Int64("size", file.Size).
			Msg("Upload rejected by object store")
		return "", &UploadError{Category: category, Key: key, Err: err}
	}

	u.logger.Info().
		Str("category", string(category)).
		Str("key", key).
		Int64("size", file.Size).
		Dur("took", u.now().Sub(start)).
		Msg("File uploaded")
	return key, nil
}
