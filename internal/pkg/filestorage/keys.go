package filestorage

import (
	"mime"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/TiebenDepaepe/Stepoutx/internal/app/models"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	suffixLength   = 6
	suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// preferred extensions for the accepted media types; mime.ExtensionsByType
// returns them alphabetically, which yields e.g. ".jfif" for JPEG
var extensionByType = map[string]string{
	"image/jpeg":      "jpg",
	"image/png":       "png",
	"image/webp":      "webp",
	"image/gif":       "gif",
	"video/mp4":       "mp4",
	"video/webm":      "webm",
	"video/quicktime": "mov",
}

// NewKey builds a storage key of the form {photos|videos}/{unix-ms}_{suffix}.{ext}
func NewKey(category models.MediaCategory, filename, contentType string, now time.Time) string {
	return category.Folder() + "/" +
		strconv.FormatInt(now.UnixMilli(), 10) + "_" + randomSuffix() + "." +
		Extension(filename, contentType)
}

// Extension returns the lowercased extension of filename without the dot,
// reduced to [a-z0-9]. Names without a usable one fall back to the content type.
func Extension(filename, contentType string) string {
	if ext := sanitizeExtension(filepath.Ext(filename)); ext != "" {
		return ext
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "bin"
	}
	if ext, ok := extensionByType[mediaType]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
		if ext := sanitizeExtension(exts[0]); ext != "" {
			return ext
		}
	}
	return "bin"
}

func sanitizeExtension(ext string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return -1
		}
	}, strings.ToLower(ext))
}

func randomSuffix() string {
	return gonanoid.MustGenerate(suffixAlphabet, suffixLength)
}
