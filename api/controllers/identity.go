package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/modelmart/modelmart-backend/api/middleware"
	pkgAuth "github.com/modelmart/modelmart-backend/pkg/auth"
	pkgerrors "github.com/modelmart/modelmart-backend/pkg/errors"
)

// identityFromRequest rebuilds the verified caller identity the auth
// middleware stored on the context.
func identityFromRequest(r *http.Request) (pkgAuth.Identity, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return pkgAuth.Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return pkgAuth.Identity{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}

	email := middleware.UserEmailFromContext(r.Context())
	if email == "" {
		return pkgAuth.Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user email missing")
	}

	return pkgAuth.Identity{UserID: uid, Email: email}, nil
}
