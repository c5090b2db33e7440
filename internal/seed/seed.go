package seed

import (
	"context"

	"github.com/rs/zerolog"
)

// AdminProvisioner creates the first dashboard account
type AdminProvisioner interface {
	EnsureDefaultAdmin(ctx context.Context, email, password string) error
}

// DefaultAdmin holds the configured bootstrap credentials
type DefaultAdmin struct {
	Email    string
	Password string
}

// CreateDefaultData creates the default admin account if none exists yet.
func CreateDefaultData(ctx context.Context, provisioner AdminProvisioner, admin DefaultAdmin, lgr zerolog.Logger) error {
	if admin.Email == "" {
		lgr.Info().Msg("No default admin configured, skipping seed")
		return nil
	}

	lgr.Info().Msg("Checking/Creating default admin account...")
	if err := provisioner.EnsureDefaultAdmin(ctx, admin.Email, admin.Password); err != nil {
		lgr.Error().Err(err).Msg("Error creating default admin")
		return err
	}
	return nil
}
