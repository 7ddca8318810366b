package listings

import (
	"strings"

	"github.com/google/uuid"
	"github.com/modelmart/modelmart-backend/pkg/db/models"
)

// OwnershipDecision is the result of resolving mutation rights on a listing.
// MigrateOwnerID tells the caller to persist owner_id = caller id alongside
// the requested mutation; it is only ever true for legacy rows that matched
// by email.
type OwnershipDecision struct {
	Owner          bool
	MigrateOwnerID bool
}

// ResolveOwnership decides whether the caller may mutate the listing.
//
// When owner_id is set it is the only thing that matters. When it is not
// (rows created before unique-id tracking), the owner email decides, and a
// match triggers the one-time id migration. No match either way denies.
func ResolveOwnership(listing *models.ModelListing, callerID uuid.UUID, callerEmail string) OwnershipDecision {
	if listing == nil {
		return OwnershipDecision{}
	}

	if listing.OwnerID != nil {
		return OwnershipDecision{Owner: *listing.OwnerID == callerID}
	}

	if listing.OwnerEmail != "" && strings.EqualFold(listing.OwnerEmail, callerEmail) {
		return OwnershipDecision{Owner: true, MigrateOwnerID: true}
	}

	return OwnershipDecision{}
}
