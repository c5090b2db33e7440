package controllers

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/TiebenDepaepe/Stepoutx/internal/app/models/dto"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/apperrors"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/filestorage"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// MediaOpener opens a locally stored object after checking its token
type MediaOpener interface {
	Open(key, token string) (*os.File, error)
}

// MediaController serves media from the local store to signed URLs
type MediaController struct {
	store  MediaOpener
	logger zerolog.Logger
}

// NewMediaController creates a new MediaController
func NewMediaController(store MediaOpener, logger zerolog.Logger) *MediaController {
	return &MediaController{
		store:  store,
		logger: logger,
	}
}

// Serve streams the object named by the path when the token matches it
// @Summary Download media
// @Tags media
// @Param key path string true "Storage key"
// @Param token query string true "Signed token"
// @Success 200 {file} file
// @Failure 403 {object} dto.ErrorResponse "Missing, expired or foreign token"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /media/{key} [get]
func (c *MediaController) Serve(ctx *gin.Context) {
	key := strings.TrimPrefix(ctx.Param("key"), "/")

	file, err := c.store.Open(key, ctx.Query("token"))
	if err != nil {
		switch {
		case errors.Is(err, filestorage.ErrInvalidKey), errors.Is(err, fs.ErrNotExist):
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Media not found")))
		case apperrors.Is(err, apperrors.ErrPermissionDenied, apperrors.ErrTokenExpired, apperrors.ErrTokenInvalid, apperrors.ErrInvalidFormat):
			ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeForbidden, "Invalid or expired media link")))
		default:
			c.logger.Error().Err(err).Str("key", key).Msg("Failed to open media")
			ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
		}
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		c.logger.Error().Err(err).Str("key", key).Msg("Failed to stat media")
		ctx.Status(http.StatusInternalServerError)
		return
	}

	ctx.Header("Cache-Control", "private, max-age=300")
	http.ServeContent(ctx.Writer, ctx.Request, info.Name(), info.ModTime(), file)
}
