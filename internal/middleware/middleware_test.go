package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/TiebenDepaepe/Stepoutx/internal/app/models"
	"github.com/TiebenDepaepe/Stepoutx/internal/app/models/dto"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/apperrors"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWT(ttl time.Duration) *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: ttl, TokenIssuer: "stepout.test"})
}

func protectedRouter(jwt *auth.JWTService) *gin.Engine {
	echoEmail := func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, claims.Email)
	}

	m := NewAuthMiddleware(jwt)
	r := gin.New()
	r.GET("/admin", m.JWTAuth(), echoEmail)
	r.GET("/admin/events", m.JWTAuthQuery(), echoEmail)
	return r
}

func decodeError(t *testing.T, body []byte) *dto.ErrorDetail {
	t.Helper()
	var resp struct {
		Error *dto.ErrorDetail `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode body %s: %v", body, err)
	}
	if resp.Error == nil {
		t.Fatalf("no error in body %s", body)
	}
	return resp.Error
}

func TestJWTAuth(t *testing.T) {
	jwt := newJWT(time.Hour)
	admin := &models.Admin{ID: uuid.New(), Email: "team@stepout.be"}
	token, _, err := jwt.GenerateAccessToken(admin)
	if err != nil {
		t.Fatal(err)
	}
	expired, _, err := newJWT(-time.Minute).GenerateAccessToken(admin)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		path     string
		header   string
		query    string
		want     int
		wantCode dto.ErrorCode
	}{
		{name: "bearer header", path: "/admin", header: "Bearer " + token, want: http.StatusOK},
		{name: "query token ignored on api routes", path: "/admin", query: token, want: http.StatusUnauthorized, wantCode: dto.ErrorCodeUnauthorized},
		{name: "query token on event stream", path: "/admin/events", query: token, want: http.StatusOK},
		{name: "header on event stream", path: "/admin/events", header: "Bearer " + token, want: http.StatusOK},
		{name: "missing", path: "/admin", want: http.StatusUnauthorized, wantCode: dto.ErrorCodeUnauthorized},
		{name: "garbage", path: "/admin", header: "Bearer nope", want: http.StatusUnauthorized, wantCode: dto.ErrorCodeUnauthorized},
		{name: "expired", path: "/admin", header: "Bearer " + expired, want: http.StatusUnauthorized, wantCode: dto.ErrorCodeExpiredToken},
		{name: "expired query token", path: "/admin/events", query: expired, want: http.StatusUnauthorized, wantCode: dto.ErrorCodeExpiredToken},
	}

	r := protectedRouter(jwt)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := tt.path
			if tt.query != "" {
				target += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
			if tt.want == http.StatusOK {
				if w.Body.String() != admin.Email {
					t.Errorf("body = %q", w.Body.String())
				}
				return
			}
			if got := decodeError(t, w.Body.Bytes()).Code; got != tt.wantCode {
				t.Errorf("code = %s, want %s", got, tt.wantCode)
			}
		})
	}
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("get: %w", apperrors.ErrSubmissionNotFound), http.StatusNotFound},
		{apperrors.NewResourceNotFoundError("admin not found"), http.StatusNotFound},
		{fmt.Errorf("%w: %q", apperrors.ErrInvalidStatus, "x"), http.StatusBadRequest},
		{apperrors.NewBadRequestError("bad id"), http.StatusBadRequest},
		{apperrors.ErrPermissionDenied, http.StatusForbidden},
		{apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{apperrors.ErrTokenExpired, http.StatusUnauthorized},
		{apperrors.ErrInvalidFormat, http.StatusUnauthorized},
		{apperrors.NewCustomError(apperrors.ErrConflict, "email taken"), http.StatusConflict},
		{apperrors.ErrValidationFailed, http.StatusUnprocessableEntity},
		{apperrors.ErrTooManyRequests, http.StatusTooManyRequests},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got, _ := ErrorStatus(tt.err); got != tt.want {
			t.Errorf("ErrorStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestHandleAPIErrorHidesServerErrors(t *testing.T) {
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		HandleAPIError(c, errors.New("pq: relation inschrijvingen does not exist"))
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if detail := decodeError(t, w.Body.Bytes()); detail.Message != "Internal server error" {
		t.Errorf("message = %q", detail.Message)
	}
}

func TestIPRateLimiter(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	ctx := context.Background()
	if !l.Allow(ctx, "a") || !l.Allow(ctx, "a") {
		t.Fatal("burst should be allowed")
	}
	if l.Allow(ctx, "a") {
		t.Fatal("third request in window should be limited")
	}
	if !l.Allow(ctx, "b") {
		t.Fatal("other key should have its own bucket")
	}

	now = now.Add(30 * time.Second)
	if !l.Allow(ctx, "a") {
		t.Fatal("one token should have refilled after half a window")
	}
}

func TestIPRateLimiterSweepsIdleVisitors(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(1, time.Minute)
	l.now = func() time.Time { return now }

	l.Allow(context.Background(), "a")
	now = now.Add(2 * time.Minute)
	l.Allow(context.Background(), "b")

	if _, ok := l.visitors["a"]; ok {
		t.Error("idle visitor should be forgotten")
	}
}

type fixedLimiter struct {
	allow bool
	keys  []string
}

func (f *fixedLimiter) Allow(_ context.Context, key string) bool {
	f.keys = append(f.keys, key)
	return f.allow
}

func TestRateLimitMiddleware(t *testing.T) {
	for _, allow := range []bool{true, false} {
		limiter := &fixedLimiter{allow: allow}
		r := gin.New()
		r.POST("/signups", RateLimit(limiter, "signup", zerolog.Nop()), func(c *gin.Context) {
			c.Status(http.StatusCreated)
		})

		req := httptest.NewRequest(http.MethodPost, "/signups", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if allow && w.Code != http.StatusCreated {
			t.Errorf("allowed request got %d", w.Code)
		}
		if !allow {
			if w.Code != http.StatusTooManyRequests {
				t.Fatalf("limited request got %d", w.Code)
			}
			if detail := decodeError(t, w.Body.Bytes()); detail.Message != MsgRateLimited {
				t.Errorf("message = %q", detail.Message)
			}
		}
		if len(limiter.keys) != 1 || limiter.keys[0] != "signup:203.0.113.7" {
			t.Errorf("keys = %v", limiter.keys)
		}
	}
}

func TestRedisLimiterFailsOpenWithoutClient(t *testing.T) {
	var l *RedisLimiter
	if !l.Allow(context.Background(), "x") {
		t.Error("nil limiter should allow")
	}
}

func corsRequest(r *gin.Engine, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/", nil)
	req.Header.Set("Origin", origin)
	if method == http.MethodOptions {
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name            string
		allowed         []string
		method          string
		origin          string
		wantStatus      int
		wantOrigin      string
		wantCredentials string
	}{
		{name: "listed origin", allowed: []string{"https://stepout.be"}, method: http.MethodGet, origin: "https://stepout.be", wantStatus: http.StatusOK, wantOrigin: "https://stepout.be", wantCredentials: "true"},
		{name: "foreign origin", allowed: []string{"https://stepout.be"}, method: http.MethodGet, origin: "https://evil.example", wantStatus: http.StatusForbidden},
		{name: "preflight", allowed: []string{"https://stepout.be"}, method: http.MethodOptions, origin: "https://stepout.be", wantStatus: http.StatusNoContent, wantOrigin: "https://stepout.be", wantCredentials: "true"},
		{name: "wildcard has no credentials", allowed: []string{"*"}, method: http.MethodGet, origin: "https://evil.example", wantStatus: http.StatusOK, wantOrigin: "*"},
		{name: "empty list allows none", allowed: nil, method: http.MethodGet, origin: "https://stepout.be", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(CORS(tt.allowed))
			r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

			w := corsRequest(r, tt.method, tt.origin)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if got := w.Header().Get("Access-Control-Allow-Credentials"); got != tt.wantCredentials {
				t.Errorf("Access-Control-Allow-Credentials = %q, want %q", got, tt.wantCredentials)
			}
		})
	}
}
