package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	pkgAuth "github.com/modelmart/modelmart-backend/pkg/auth"
	"github.com/modelmart/modelmart-backend/pkg/logger"
)

type stubVerifier struct {
	identity *pkgAuth.Identity
	err      error
	token    string
}

func (s *stubVerifier) Verify(ctx context.Context, token string) (*pkgAuth.Identity, error) {
	s.token = token
	return s.identity, s.err
}

func middlewareLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func TestAuthMiddleware(t *testing.T) {
	logg := middlewareLogger()
	identity := &pkgAuth.Identity{UserID: uuid.New(), Email: "buyer@example.com"}

	t.Run("missing header rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
		rec := httptest.NewRecorder()
		Auth(&stubVerifier{identity: identity}, logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		})).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("verifier failure rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		rec := httptest.NewRecorder()
		Auth(&stubVerifier{err: errors.New("expired")}, logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		})).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("valid token seeds context", func(t *testing.T) {
		verifier := &stubVerifier{identity: identity}
		req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rec := httptest.NewRecorder()

		var gotUserID, gotEmail string
		Auth(verifier, logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUserID = UserIDFromContext(r.Context())
			gotEmail = UserEmailFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if verifier.token != "good-token" {
			t.Fatalf("expected bearer prefix stripped, got %q", verifier.token)
		}
		if gotUserID != identity.UserID.String() {
			t.Fatalf("expected user id in context, got %q", gotUserID)
		}
		if gotEmail != identity.Email {
			t.Fatalf("expected email in context, got %q", gotEmail)
		}
	})

	t.Run("raw token accepted without bearer prefix", func(t *testing.T) {
		verifier := &stubVerifier{identity: identity}
		req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
		req.Header.Set("Authorization", "raw-token")
		rec := httptest.NewRecorder()
		Auth(verifier, logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if verifier.token != "raw-token" {
			t.Fatalf("expected raw token forwarded, got %q", verifier.token)
		}
	})
}
