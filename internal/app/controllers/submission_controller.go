// Package controllers handles HTTP request handling
package controllers

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/TiebenDepaepe/Stepoutx/internal/app/models"
	"github.com/TiebenDepaepe/Stepoutx/internal/app/models/dto"
	"github.com/TiebenDepaepe/Stepoutx/internal/app/services"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/filestorage"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// MsgSignupReceived confirms a stored submission
const MsgSignupReceived = "Bedankt voor je inschrijving! We nemen snel contact met je op."

// Submitter runs the signup pipeline
type Submitter interface {
	Submit(ctx context.Context, form *services.SignupForm, observe services.ProgressObserver) services.Result
}

// SubmissionController handles the public signup endpoints
type SubmissionController struct {
	submitter      Submitter
	maxUploadBytes int64
	logger         zerolog.Logger
}

// NewSubmissionController creates a new SubmissionController
func NewSubmissionController(submitter Submitter, maxUploadBytes int64, logger zerolog.Logger) *SubmissionController {
	return &SubmissionController{
		submitter:      submitter,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Options godoc
// @Summary Signup form option catalogs
// @Description Returns the selectable answers, selection caps and media limits of the signup form
// @Tags signup
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.SignupOptionsResponse}
// @Router /signup/options [get]
func (c *SubmissionController) Options(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SignupOptionsResponse{
		Availability: models.AvailabilityOptions,
		Goals:        models.GoalOptions,
		Traits:       models.TraitOptions,
		GroupRoles:   models.GroupRoleOptions,
		MostExciting: models.ExcitementOptions,
		MaxGoals:     models.MaxGoals,
		MaxTraits:    models.MaxTraits,
		MaxPhotoSize: models.MaxPhotoBytes,
		MaxVideoSize: models.MaxVideoBytes,
		PhotoTypes:   models.PhotoTypes,
		VideoTypes:   models.VideoTypes,
	}, ""))
}

// Signup godoc
// @Summary Submit a signup
// @Description Validates the form, uploads the optional photo and video, then stores the submission
// @Tags signup
// @Accept multipart/form-data
// @Produce json
// @Param foto formData file false "Photo (max 10MB)"
// @Param video formData file false "Video (max 50MB)"
// @Success 201 {object} dto.APIResponse{data=dto.SignupResponse}
// @Failure 400 {object} dto.APIResponse "Malformed request"
// @Failure 422 {object} dto.APIResponse "Field errors in error.details"
// @Failure 429 {object} dto.APIResponse "Too many submissions"
// @Failure 500 {object} dto.APIResponse "Upload or insert failed"
// @Router /signups [post]
func (c *SubmissionController) Signup(ctx *gin.Context) {
	if c.maxUploadBytes > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxUploadBytes)
	}

	var form services.SignupForm
	if err := ctx.ShouldBind(&form); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid signup request payload")
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Request too large")
			ctx.JSON(http.StatusRequestEntityTooLarge, dto.NewFailureResponse(errorDetail))
			return
		}
		ctx.JSON(http.StatusBadRequest, dto.NewFailureResponse(dto.HandleValidationError(err)))
		return
	}

	var err error
	if form.Photo, err = formFile(ctx, "foto"); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewFailureResponse(dto.HandleValidationError(err)))
		return
	}
	if form.Video, err = formFile(ctx, "video"); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewFailureResponse(dto.HandleValidationError(err)))
		return
	}

	// A client that disconnects mid-upload does not abort the pipeline
	result := c.submitter.Submit(context.WithoutCancel(ctx.Request.Context()), &form, func(state services.SubmissionState) {
		c.logger.Debug().
			Str("phase", string(state.Phase)).
			Int("photo", state.Progress.Photo).
			Int("video", state.Progress.Video).
			Msg("Submission progress")
	})

	switch result.Outcome {
	case services.OutcomeSuccess:
		ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.SignupResponse{
			ID:        result.Submission.ID,
			CreatedAt: result.Submission.CreatedAt,
			Message:   MsgSignupReceived,
		}, MsgSignupReceived))

	case services.OutcomeValidationFailed:
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, result.Message).
			WithDetails(result.Fields.Messages()).
			WithSeverity(dto.ErrorSeverityWarning)
		if len(result.Fields) == 1 {
			for field := range result.Fields {
				errorDetail.WithField(string(field))
			}
		}
		ctx.JSON(http.StatusUnprocessableEntity, dto.NewFailureResponse(errorDetail))

	case services.OutcomeUploadFailed:
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUploadFailed, result.Message)
		ctx.JSON(http.StatusBadGateway, dto.NewFailureResponse(errorDetail))

	default:
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInsertFailed, result.Message)
		ctx.JSON(http.StatusInternalServerError, dto.NewFailureResponse(errorDetail))
	}
}

// formFile turns an optional multipart file into a storable File. A form that
// is not multipart carries no files.
func formFile(ctx *gin.Context, field string) (*filestorage.File, error) {
	header, err := ctx.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return fileFromHeader(header), nil
}

func fileFromHeader(header *multipart.FileHeader) *filestorage.File {
	return &filestorage.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Open: func() (io.ReadCloser, error) {
			return header.Open()
		},
	}
}
