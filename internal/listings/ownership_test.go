package listings

import (
	"testing"

	"github.com/google/uuid"
	"github.com/modelmart/modelmart-backend/pkg/db/models"
)

func TestResolveOwnershipByID(t *testing.T) {
	ownerID := uuid.New()
	listing := &models.ModelListing{
		ID:         uuid.New(),
		OwnerID:    &ownerID,
		OwnerEmail: "dev@example.com",
	}

	t.Run("id match grants ownership", func(t *testing.T) {
		decision := ResolveOwnership(listing, ownerID, "someone-else@example.com")
		if !decision.Owner {
			t.Fatal("expected owner")
		}
		if decision.MigrateOwnerID {
			t.Fatal("migration must not trigger when owner_id is already set")
		}
	})

	t.Run("email match alone does not override owner_id", func(t *testing.T) {
		decision := ResolveOwnership(listing, uuid.New(), "dev@example.com")
		if decision.Owner {
			t.Fatal("expected denial when ids differ")
		}
	})
}

func TestResolveOwnershipLegacyEmailFallback(t *testing.T) {
	listing := &models.ModelListing{
		ID:         uuid.New(),
		OwnerEmail: "Dev@Example.com",
	}

	t.Run("case-insensitive email match migrates", func(t *testing.T) {
		decision := ResolveOwnership(listing, uuid.New(), "dev@example.com")
		if !decision.Owner {
			t.Fatal("expected owner via email fallback")
		}
		if !decision.MigrateOwnerID {
			t.Fatal("expected migration flag for legacy row")
		}
	})

	t.Run("email mismatch denies", func(t *testing.T) {
		decision := ResolveOwnership(listing, uuid.New(), "other@example.com")
		if decision.Owner || decision.MigrateOwnerID {
			t.Fatalf("expected denial, got %+v", decision)
		}
	})
}

func TestResolveOwnershipEdgeCases(t *testing.T) {
	if decision := ResolveOwnership(nil, uuid.New(), "dev@example.com"); decision.Owner {
		t.Fatal("nil listing must deny")
	}

	empty := &models.ModelListing{ID: uuid.New()}
	if decision := ResolveOwnership(empty, uuid.New(), ""); decision.Owner {
		t.Fatal("listing without owner fields must deny")
	}
}
