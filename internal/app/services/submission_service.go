package services

import (
	"context"
	"fmt"
	"time"

	"github.com/TiebenDepaepe/Stepoutx/internal/app/models"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/apperrors"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/filestorage"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Event types pushed to connected admin dashboards
const (
	EventSubmissionCreated = "submission.created"
	EventSubmissionUpdated = "submission.updated"
)

// SubmissionRepository persists submissions
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	List(ctx context.Context, filter models.SubmissionFilter) ([]*models.Submission, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Submission, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReviewStatus) error
	UpdateNotes(ctx context.Context, id uuid.UUID, notes *string) error
}

// MediaUploader stores one file and returns its storage key
type MediaUploader interface {
	Upload(ctx context.Context, file *filestorage.File, category models.MediaCategory) (string, error)
}

// EventPublisher fans events out to admin dashboards
type EventPublisher interface {
	Publish(eventType string, payload interface{})
}

// Phase is the coarse state of a submission attempt
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseSuccess    Phase = "success"
	PhaseFailed     Phase = "failed"
)

// Upload progress steps; not byte accurate
const (
	ProgressNone     = 0
	ProgressStarted  = 30
	ProgressFinished = 100
)

// Progress holds per-file upload percentages
type Progress struct {
	Photo int `json:"foto"`
	Video int `json:"video"`
}

// SubmissionState is the observable state of one attempt
type SubmissionState struct {
	Phase    Phase       `json:"phase"`
	Progress Progress    `json:"progress"`
	Message  string      `json:"message,omitempty"`
	Fields   FieldErrors `json:"fields,omitempty"`
}

// ProgressObserver receives every state transition
type ProgressObserver func(SubmissionState)

// Outcome discriminates the result of Submit
type Outcome string

const (
	OutcomeSuccess          Outcome = "success"
	OutcomeValidationFailed Outcome = "validation_failed"
	OutcomeUploadFailed     Outcome = "upload_failed"
	OutcomeInsertFailed     Outcome = "insert_failed"
)

// Result is the outcome of one Submit call. Err holds the raw cause and is for
// operators only; Message is safe to show.
type Result struct {
	Outcome    Outcome
	State      SubmissionState
	Message    string
	Fields     FieldErrors
	Submission *models.Submission
	Err        error
}

// SubmissionService runs the signup pipeline: validate, upload photo, upload
// video, insert. Steps run strictly one after another.
type SubmissionService struct {
	repo     SubmissionRepository
	uploader MediaUploader
	events   EventPublisher
	logger   zerolog.Logger
	now      func() time.Time
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(repo SubmissionRepository, uploader MediaUploader, events EventPublisher, logger zerolog.Logger) *SubmissionService {
	return &SubmissionService{
		repo:     repo,
		uploader: uploader,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

type pipeline struct {
	state   SubmissionState
	observe ProgressObserver
}

func (p *pipeline) emit() {
	if p.observe != nil {
		p.observe(p.state)
	}
}

// Submit validates form and, if valid, uploads its media and stores it.
// Validation failures never reach the network. An upload failure stops the
// pipeline before the insert; an insert failure leaves uploaded files behind.
func (s *SubmissionService) Submit(ctx context.Context, form *SignupForm, observe ProgressObserver) Result {
	p := &pipeline{state: SubmissionState{Phase: PhaseIdle}, observe: observe}
	p.emit()

	submission, fieldErrs := ValidateSignup(form)
	if len(fieldErrs) > 0 {
		return s.fail(p, OutcomeValidationFailed, &ValidationError{Fields: fieldErrs}, nil)
	}

	p.state.Phase = PhaseSubmitting
	p.emit()

	var uploaded []string
	if form.Photo != nil {
		key, err := s.upload(ctx, p, form.Photo, models.MediaPhoto)
		if err != nil {
			return s.fail(p, OutcomeUploadFailed, err, uploaded)
		}
		submission.PhotoKey = &key
		uploaded = append(uploaded, key)
	}
	if form.Video != nil {
		key, err := s.upload(ctx, p, form.Video, models.MediaVideo)
		if err != nil {
			return s.fail(p, OutcomeUploadFailed, err, uploaded)
		}
		submission.VideoKey = &key
		uploaded = append(uploaded, key)
	}

	if err := s.repo.Create(ctx, submission); err != nil {
		return s.fail(p, OutcomeInsertFailed, fmt.Errorf("%w: %w", apperrors.ErrInsertFailed, err), uploaded)
	}

	p.state.Phase = PhaseSuccess
	p.emit()

	metrics.SubmissionsTotal.WithLabelValues(string(OutcomeSuccess)).Inc()
	s.logger.Info().
		Str("submissionID", submission.ID.String()).
		Bool("photo", submission.PhotoKey != nil).
		Bool("video", submission.VideoKey != nil).
		Msg("Submission stored")

	if s.events != nil {
		s.events.Publish(EventSubmissionCreated, map[string]interface{}{
			"id":         submission.ID,
			"naam":       submission.Name,
			"created_at": submission.CreatedAt,
		})
	}

	return Result{Outcome: OutcomeSuccess, State: p.state, Submission: submission}
}

func (s *SubmissionService) upload(ctx context.Context, p *pipeline, file *filestorage.File, category models.MediaCategory) (string, error) {
	setProgress := func(v int) {
		if category == models.MediaVideo {
			p.state.Progress.Video = v
		} else {
			p.state.Progress.Photo = v
		}
		p.emit()
	}

	setProgress(ProgressStarted)
	start := s.now()
	key, err := s.uploader.Upload(ctx, file, category)
	metrics.UploadDuration.WithLabelValues(string(category)).Observe(s.now().Sub(start).Seconds())
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(string(category), "error").Inc()
		return "", err
	}
	metrics.UploadsTotal.WithLabelValues(string(category), "ok").Inc()
	setProgress(ProgressFinished)
	return key, nil
}

// fail moves the attempt to Failed. Progress resets so the form can be retried
// from scratch.
func (s *SubmissionService) fail(p *pipeline, outcome Outcome, err error, orphaned []string) Result {
	classification := ClassifyError(err)

	p.state = SubmissionState{
		Phase:   PhaseFailed,
		Message: classification.Message,
		Fields:  classification.Fields,
	}
	p.emit()

	metrics.SubmissionsTotal.WithLabelValues(string(outcome)).Inc()

	if outcome == OutcomeValidationFailed {
		s.logger.Debug().Int("fields", len(classification.Fields)).Msg("Submission rejected by validation")
	} else {
		event := s.logger.Error().Err(err).Str("outcome", string(outcome))
		if len(orphaned) > 0 {
			event = event.Strs("orphanedKeys", orphaned)
		}
		event.Msg("Submission failed")
	}

	return Result{
		Outcome: outcome,
		State:   p.state,
		Message: classification.Message,
		Fields:  classification.Fields,
		Err:     err,
	}
}
