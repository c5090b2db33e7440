package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	SubmissionRepository *SubmissionRepository
	AdminRepository      *AdminRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		SubmissionRepository: NewSubmissionRepository(db),
		AdminRepository:      NewAdminRepository(db),
	}
}
