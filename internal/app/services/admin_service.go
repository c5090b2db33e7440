package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/TiebenDepaepe/Stepoutx/internal/app/models"
	"github.com/TiebenDepaepe/Stepoutx/internal/app/models/dto"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/apperrors"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/filestorage"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AdminService is the dashboard's read/update boundary over submissions
type AdminService struct {
	repo   SubmissionRepository
	signer filestorage.URLSigner
	events EventPublisher
	ttl    time.Duration
	logger zerolog.Logger
}

// NewAdminService creates a new admin service. A zero ttl uses the default.
func NewAdminService(repo SubmissionRepository, signer filestorage.URLSigner, events EventPublisher, ttl time.Duration, logger zerolog.Logger) *AdminService {
	if ttl <= 0 {
		ttl = filestorage.DefaultSignedURLTTL
	}
	return &AdminService{
		repo:   repo,
		signer: signer,
		events: events,
		ttl:    ttl,
		logger: logger,
	}
}

// ListSubmissions returns matching submissions newest first with signed media URLs
func (s *AdminService) ListSubmissions(ctx context.Context, filter models.SubmissionFilter) (*dto.SubmissionListResponse, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidStatus, filter.Status)
	}

	submissions, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	out := make([]*dto.SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		out = append(out, s.toResponse(ctx, submission))
	}
	return &dto.SubmissionListResponse{Submissions: out, Total: len(out)}, nil
}

// GetSubmission returns one submission with signed media URLs
func (s *AdminService) GetSubmission(ctx context.Context, id uuid.UUID) (*dto.SubmissionResponse, error) {
	submission, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, submission), nil
}

// UpdateStatus sets the review status of exactly one submission
func (s *AdminService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReviewStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidStatus, status)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	metrics.AdminUpdatesTotal.WithLabelValues("status").Inc()
	s.logger.Info().Str("submissionID", id.String()).Str("status", string(status)).Msg("Submission status updated")
	s.publishUpdate(id, map[string]interface{}{"status": status, "status_label": status.Label()})
	return nil
}

// UpdateNotes replaces the internal notes of one submission; blank notes clear them
func (s *AdminService) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error {
	stored := optionalString(notes)
	if err := s.repo.UpdateNotes(ctx, id, stored); err != nil {
		return err
	}

	metrics.AdminUpdatesTotal.WithLabelValues("notes").Inc()
	s.logger.Info().Str("submissionID", id.String()).Bool("cleared", stored == nil).Msg("Submission notes updated")
	s.publishUpdate(id, map[string]interface{}{"notities": stored})
	return nil
}

// StatusLabel returns the Dutch display label of a status
func StatusLabel(status models.ReviewStatus) string {
	return status.Label()
}

func (s *AdminService) publishUpdate(id uuid.UUID, changes map[string]interface{}) {
	if s.events == nil {
		return
	}
	changes["id"] = id
	s.events.Publish(EventSubmissionUpdated, changes)
}

func (s *AdminService) toResponse(ctx context.Context, submission *models.Submission) *dto.SubmissionResponse {
	resp := dto.NewSubmissionResponse(submission)
	resp.PhotoURL = s.sign(ctx, submission.PhotoKey)
	resp.VideoURL = s.sign(ctx, submission.VideoKey)
	return resp
}

// sign exchanges a storage key for a signed URL. A failed signature drops the
// link instead of failing the whole listing.
func (s *AdminService) sign(ctx context.Context, key *string) *string {
	if key == nil || *key == "" {
		return nil
	}
	signed, err := s.signer.SignedURL(ctx, *key, s.ttl)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.logger.Warn().Err(err).Str("key", *key).Msg("Failed to sign media URL")
		}
		return nil
	}
	return &signed
}
