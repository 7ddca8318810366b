package middleware

import (
	"net/http"
	"strings"

	"github.com/modelmart/modelmart-backend/api/responses"
	pkgAuth "github.com/modelmart/modelmart-backend/pkg/auth"
	pkgerrors "github.com/modelmart/modelmart-backend/pkg/errors"
	"github.com/modelmart/modelmart-backend/pkg/logger"
)

// Auth validates a bearer credential against the identity verifier and seeds
// the request context with the caller identity.
func Auth(verifier pkgAuth.Verifier, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			if verifier == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity verifier unavailable"))
				return
			}

			identity, err := verifier.Verify(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithUserID(r.Context(), identity.UserID.String())
			ctx = WithUserEmail(ctx, identity.Email)

			if logg != nil {
				ctx = logg.WithUserID(ctx, identity.UserID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
