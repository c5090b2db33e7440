package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/TiebenDepaepe/Stepoutx/internal/app/models"
	"github.com/TiebenDepaepe/Stepoutx/internal/app/models/dto"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/apperrors"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/auth"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// AdminRepository persists dashboard accounts
type AdminRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	Create(ctx context.Context, admin *models.Admin) error
	Count(ctx context.Context) (int, error)
}

// AuthService handles admin authentication
type AuthService struct {
	adminRepo  AdminRepository
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(adminRepo AdminRepository, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		adminRepo:  adminRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Login checks the credentials and issues a session token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if !validation.IsEmail(email) || req.Password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			// same answer as a wrong password
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up admin: %w", err)
	}

	if !auth.CheckPassword(admin.PasswordHash, req.Password) {
		s.logger.Warn().Str("email", email).Msg("Admin login with wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, expiresIn, err := s.jwtService.GenerateAccessToken(admin)
	if err != nil {
		return nil, err
	}
	claims, err := s.jwtService.ValidateToken(accessToken)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("adminID", admin.ID.String()).Msg("Admin logged in")
	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: accessToken,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
		Session: Session(claims),
	}, nil
}

// Session describes the session behind validated claims
func Session(claims *auth.Claims) dto.SessionResponse {
	session := dto.SessionResponse{
		AdminID: claims.AdminID,
		Email:   claims.Email,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session
}

// EnsureDefaultAdmin creates the configured admin when no account exists yet.
// It does nothing when email is empty or any admin is present.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" {
		return nil
	}

	count, err := s.adminRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := &models.Admin{Email: email, PasswordHash: hash}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("create default admin: %w", err)
	}

	s.logger.Info().Str("email", email).Msg("Default admin account created")
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
