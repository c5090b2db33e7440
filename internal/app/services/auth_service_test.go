package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/TiebenDepaepe/Stepoutx/internal/app/models"
	"github.com/TiebenDepaepe/Stepoutx/internal/app/models/dto"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/apperrors"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/auth"
	"github.com/rs/zerolog"
)

func newTestAuthService(t *testing.T) (*AuthService, *fakeAdminRepo, *auth.JWTService) {
	t.Helper()
	repo := &fakeAdminRepo{admins: map[string]*models.Admin{}}
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", AccessTokenExp: time.Hour, TokenIssuer: "stepout.admin"})
	return NewAuthService(repo, jwtService, zerolog.Nop()), repo, jwtService
}

func TestLoginWithSeededAdmin(t *testing.T) {
	svc, repo, jwtService := newTestAuthService(t)
	ctx := context.Background()

	if err := svc.EnsureDefaultAdmin(ctx, " Team@StepOut.be ", "wachtwoord123"); err != nil {
		t.Fatal(err)
	}
	if len(repo.admins) != 1 {
		t.Fatalf("admins = %d", len(repo.admins))
	}

	resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "team@stepout.be", Password: "wachtwoord123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token.TokenType != "Bearer" || resp.Token.ExpiresIn != 3600 || resp.Session.Email != "team@stepout.be" {
		t.Errorf("resp = %+v", resp)
	}
	if _, err := jwtService.ValidateToken(resp.Token.AccessToken); err != nil {
		t.Errorf("issued token invalid: %v", err)
	}
}

func TestLoginFailures(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()
	if err := svc.EnsureDefaultAdmin(ctx, "team@stepout.be", "wachtwoord123"); err != nil {
		t.Fatal(err)
	}

	for _, req := range []dto.LoginRequest{
		{Email: "team@stepout.be", Password: "fout"},
		{Email: "iemand@stepout.be", Password: "wachtwoord123"},
		{Email: "geen-email", Password: "x"},
	} {
		if _, err := svc.Login(ctx, &req); !errors.Is(err, apperrors.ErrInvalidCredentials) {
			t.Errorf("Login(%s) err = %v", req.Email, err)
		}
	}
}

func TestEnsureDefaultAdminIsIdempotent(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	ctx := context.Background()

	if err := svc.EnsureDefaultAdmin(ctx, "", "x"); err != nil || len(repo.admins) != 0 {
		t.Fatalf("empty email should be a no-op: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := svc.EnsureDefaultAdmin(ctx, "team@stepout.be", "wachtwoord123"); err != nil {
			t.Fatal(err)
		}
	}
	if err := svc.EnsureDefaultAdmin(ctx, "other@stepout.be", "wachtwoord123"); err != nil {
		t.Fatal(err)
	}
	if len(repo.admins) != 1 {
		t.Errorf("admins = %d, want 1", len(repo.admins))
	}
}
