package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/TiebenDepaepe/Stepoutx/internal/app/models"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/apperrors"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/dberrors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AdminRepository handles database operations for dashboard accounts
type AdminRepository struct {
	db *pgxpool.Pool
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{db: db}
}

// GetByEmail retrieves an admin by email
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	sqlStr, args, err := squirrel.Select("id", "email", "password_hash", "created_at").
		From("admins").
		Where(squirrel.Eq{"email": email}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var admin models.Admin
	err = r.db.QueryRow(ctx, sqlStr, args...).Scan(&admin.ID, &admin.Email, &admin.PasswordHash, &admin.CreatedAt)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("admin not found")
		}
		return nil, fmt.Errorf("error retrieving admin: %w", err)
	}
	return &admin, nil
}

// Create inserts a new admin
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	sqlStr, args, err := squirrel.Insert("admins").
		Columns("email", "password_hash").
		Values(admin.Email, admin.PasswordHash).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	err = r.db.QueryRow(ctx, sqlStr, args...).Scan(&admin.ID, &admin.CreatedAt)
	if dberrors.IsDuplicateConstraintError(err, "admins_email_key") {
		return apperrors.NewCustomError(apperrors.ErrConflict, "admin email already exists")
	}
	return err
}

// Count returns the number of admins
func (r *AdminRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT count(*) FROM admins").Scan(&count)
	return count, err
}
