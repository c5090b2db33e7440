package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/TiebenDepaepe/Stepoutx/internal/app/models"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/apperrors"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/dberrors"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const submissionsTable = "inschrijvingen"

var submissionColumns = []string{
	"id", "created_at",
	"naam", "leeftijd", "woonplaats", "gsm", "email", "instagram",
	"beschikbaarheid", "motivatie", "doelen", "persoonlijkheid", "groepsrol",
	"spannendst", "ongemakkelijk", "waarom_passen", "wat_spreekt_aan",
	"sportiviteit", "sociale_interactie", "zelfstandigheid",
	"medisch", "medisch_uitleg", "noodcontact_naam", "noodcontact_gsm",
	"foto_url", "video_url", "status", "notities",
}

// SubmissionRepository handles database operations for signup submissions
type SubmissionRepository struct {
	db *pgxpool.Pool
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) selectQuery() squirrel.SelectBuilder {
	return squirrel.Select(submissionColumns...).
		From(submissionsTable).
		PlaceholderFormat(squirrel.Dollar)
}

func scanSubmission(row pgx.Row) (*models.Submission, error) {
	var s models.Submission
	err := row.Scan(
		&s.ID, &s.CreatedAt,
		&s.Name, &s.Age, &s.City, &s.Phone, &s.Email, &s.Instagram,
		&s.Availability, &s.Motivation, &s.Goals, &s.Traits, &s.GroupRole,
		&s.MostExciting, &s.Uncomfortable, &s.WhyFit, &s.AppealsMost,
		&s.Fitness, &s.SocialPreference, &s.Independence,
		&s.HasMedical, &s.MedicalNotes, &s.EmergencyName, &s.EmergencyPhone,
		&s.PhotoKey, &s.VideoKey, &s.Status, &s.Notes,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// buildInsert renders the insert of one submission; id and created_at come
// from the database
func buildInsert(s *models.Submission) (string, []interface{}, error) {
	return squirrel.Insert(submissionsTable).
		Columns(submissionColumns[2:]...).
		Values(
			s.Name, s.Age, s.City, s.Phone, s.Email, s.Instagram,
			s.Availability, s.Motivation, s.Goals, s.Traits, s.GroupRole,
			s.MostExciting, s.Uncomfortable, s.WhyFit, s.AppealsMost,
			s.Fitness, s.SocialPreference, s.Independence,
			s.HasMedical, s.MedicalNotes, s.EmergencyName, s.EmergencyPhone,
			s.PhotoKey, s.VideoKey, s.Status, s.Notes,
		).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

// Create inserts one submission and fills in its id and creation time
func (r *SubmissionRepository) Create(ctx context.Context, s *models.Submission) error {
	if s.Status == "" {
		s.Status = models.StatusNew
	}

	sql, args, err := buildInsert(s)
	if err != nil {
		logger.Error().Err(err).Msg("Error building create submission SQL")
		return err
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.CreatedAt); err != nil {
		logger.Error().Err(err).Msg("Error executing create submission query")
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// buildList renders the admin list query, newest first
func (r *SubmissionRepository) buildList(filter models.SubmissionFilter) (string, []interface{}, error) {
	builder := r.selectQuery()

	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := "%" + escapeLike(q) + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"naam": pattern},
			squirrel.ILike{"email": pattern},
			squirrel.ILike{"woonplaats": pattern},
		})
	}
	if filter.Status != "" {
		builder = builder.Where(squirrel.Eq{"status": filter.Status})
	}

	return builder.OrderBy("created_at DESC", "id DESC").ToSql()
}

// List returns the submissions matching filter, newest first
func (r *SubmissionRepository) List(ctx context.Context, filter models.SubmissionFilter) ([]*models.Submission, error) {
	sqlStr, args, err := r.buildList(filter)
	if err != nil {
		logger.Error().Err(err).Msg("Error building list submissions SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list submissions query")
		return nil, err
	}
	defer rows.Close()

	submissions := make([]*models.Submission, 0)
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		submissions = append(submissions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return submissions, nil
}

// GetByID retrieves a single submission
func (r *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	sqlStr, args, err := r.selectQuery().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	s, err := scanSubmission(r.db.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrSubmissionNotFound
		}
		logger.Error().Err(err).Str("submissionID", id.String()).Msg("Error retrieving submission")
		return nil, err
	}
	return s, nil
}

// UpdateStatus sets the review status of one submission
func (r *SubmissionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReviewStatus) error {
	err := r.updateOne(ctx, squirrel.Update(submissionsTable).Set("status", status).Where(squirrel.Eq{"id": id}))
	if dberrors.IsCheckViolation(err) {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidStatus, status)
	}
	return err
}

// UpdateNotes replaces the notes of one submission; nil stores NULL
func (r *SubmissionRepository) UpdateNotes(ctx context.Context, id uuid.UUID, notes *string) error {
	return r.updateOne(ctx, squirrel.Update(submissionsTable).Set("notities", notes).Where(squirrel.Eq{"id": id}))
}

func (r *SubmissionRepository) updateOne(ctx context.Context, builder squirrel.UpdateBuilder) error {
	sqlStr, args, err := builder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing submission update")
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSubmissionNotFound
	}
	return nil
}

// escapeLike neutralizes LIKE wildcards in user input
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
