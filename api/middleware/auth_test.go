package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgauth "github.com/SachinNic1502/lapkart-backend/pkg/auth"
	"github.com/SachinNic1502/lapkart-backend/pkg/config"
	"github.com/SachinNic1502/lapkart-backend/pkg/enums"
	"github.com/SachinNic1502/lapkart-backend/pkg/logger"
)

type stubSessionChecker struct {
	active map[string]bool
}

func (s *stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return s.active[accessID], nil
}

func authTestConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "middleware-secret",
		Issuer:            "lapkart",
		ExpirationMinutes: 30,
	}
}

func mintToken(t *testing.T, userID uuid.UUID, role enums.UserRole, jti string) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(authTestConfig(), time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: userID,
		Role:   role,
		JTI:    jti,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestAuthSeedsContext(t *testing.T) {
	userID := uuid.New()
	jti := uuid.NewString()
	token := mintToken(t, userID, enums.UserRoleCustomer, jti)
	checker := &stubSessionChecker{active: map[string]bool{jti: true}}
	logg := logger.New(logger.Options{ServiceName: "auth-mw-test", Output: io.Discard})

	var gotUser uuid.UUID
	var gotRole, gotAccessID string
	handler := Auth(authTestConfig(), checker, logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
		gotAccessID = AccessIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotUser != userID {
		t.Fatalf("expected user %s in context, got %s", userID, gotUser)
	}
	if gotRole != string(enums.UserRoleCustomer) {
		t.Fatalf("expected customer role, got %q", gotRole)
	}
	if gotAccessID != jti {
		t.Fatalf("expected access id %s, got %s", jti, gotAccessID)
	}
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "auth-mw-test", Output: io.Discard})
	handler := Auth(authTestConfig(), nil, logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	jti := uuid.NewString()
	token := mintToken(t, uuid.New(), enums.UserRoleCustomer, jti)
	checker := &stubSessionChecker{active: map[string]bool{}}
	logg := logger.New(logger.Options{ServiceName: "auth-mw-test", Output: io.Discard})

	handler := Auth(authTestConfig(), checker, logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRoleBlocksCustomer(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "auth-mw-test", Output: io.Discard})
	handler := RequireRole("admin", logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil)
	req = req.WithContext(WithRole(req.Context(), "customer"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
