package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is the verified caller the rest of the system trusts. Buyer and
// owner checks key off UserID; Email only matters for legacy ownership rows.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

// IdentityClaims is the typed JWT issued by the identity service.
type IdentityClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}

func (c *IdentityClaims) Identity() Identity {
	return Identity{UserID: c.UserID, Email: c.Email}
}
