package controllers

import (
	"context"
	"net/http"

	"github.com/TiebenDepaepe/Stepoutx/internal/app/models"
	"github.com/TiebenDepaepe/Stepoutx/internal/app/models/dto"
	"github.com/TiebenDepaepe/Stepoutx/internal/middleware"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SubmissionAdmin is the dashboard's view of the submissions
type SubmissionAdmin interface {
	ListSubmissions(ctx context.Context, filter models.SubmissionFilter) (*dto.SubmissionListResponse, error)
	GetSubmission(ctx context.Context, id uuid.UUID) (*dto.SubmissionResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReviewStatus) error
	UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error
}

// AdminController handles the dashboard endpoints
type AdminController struct {
	adminService SubmissionAdmin
	logger       zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService SubmissionAdmin, logger zerolog.Logger) *AdminController {
	return &AdminController{
		adminService: adminService,
		logger:       logger,
	}
}

// ListSubmissions godoc
// @Summary List submissions
// @Description Newest first; media keys are exchanged for signed URLs
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search in name, email and city"
// @Param status query string false "Review status" Enums(nieuw, beoordeeld, goedgekeurd, afgewezen)
// @Success 200 {object} dto.APIResponse{data=dto.SubmissionListResponse}
// @Failure 400 {object} dto.APIResponse "Invalid status filter"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /admin/submissions [get]
func (c *AdminController) ListSubmissions(ctx *gin.Context) {
	filter := models.SubmissionFilter{
		Query:  ctx.Query("q"),
		Status: models.ReviewStatus(ctx.Query("status")),
	}

	list, err := c.adminService.ListSubmissions(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(list, ""))
}

// GetSubmission godoc
// @Summary Get one submission
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Success 200 {object} dto.APIResponse{data=dto.SubmissionResponse}
// @Failure 400 {object} dto.APIResponse "Invalid id"
// @Failure 404 {object} dto.APIResponse "Submission not found"
// @Router /admin/submissions/{id} [get]
func (c *AdminController) GetSubmission(ctx *gin.Context) {
	id, ok := c.parseID(ctx)
	if !ok {
		return
	}

	submission, err := c.adminService.GetSubmission(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(submission, ""))
}

// UpdateStatus godoc
// @Summary Change the review status
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Param request body dto.UpdateStatusRequest true "New status"
// @Success 200 {object} dto.UpdateResult
// @Failure 400 {object} dto.UpdateResult "Invalid status"
// @Failure 404 {object} dto.UpdateResult "Submission not found"
// @Router /admin/submissions/{id}/status [patch]
func (c *AdminController) UpdateStatus(ctx *gin.Context) {
	id, ok := c.parseID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.UpdateResult{Error: dto.HandleValidationError(err)})
		return
	}

	c.respondUpdate(ctx, id, c.adminService.UpdateStatus(ctx.Request.Context(), id, req.Status))
}

// UpdateNotes godoc
// @Summary Replace the internal notes
// @Description An empty string clears the notes
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Param request body dto.UpdateNotesRequest true "Notes"
// @Success 200 {object} dto.UpdateResult
// @Failure 404 {object} dto.UpdateResult "Submission not found"
// @Router /admin/submissions/{id}/notes [patch]
func (c *AdminController) UpdateNotes(ctx *gin.Context) {
	id, ok := c.parseID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateNotesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.UpdateResult{Error: dto.HandleValidationError(err)})
		return
	}

	c.respondUpdate(ctx, id, c.adminService.UpdateNotes(ctx.Request.Context(), id, req.Notes))
}

func (c *AdminController) respondUpdate(ctx *gin.Context, id uuid.UUID, err error) {
	if err != nil {
		status, detail := middleware.ErrorStatus(err)
		if status >= http.StatusInternalServerError {
			c.logger.Error().Err(err).Str("submissionID", id.String()).Msg("Failed to update submission")
		}
		ctx.JSON(status, dto.UpdateResult{Error: detail})
		return
	}
	ctx.JSON(http.StatusOK, dto.UpdateResult{Success: true})
}

func (c *AdminController) parseID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Invalid submission id"))
		return uuid.Nil, false
	}
	return id, true
}
