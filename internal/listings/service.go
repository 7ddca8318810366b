package listings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/modelmart/modelmart-backend/pkg/auth"
	"github.com/modelmart/modelmart-backend/pkg/db/models"
	pkgerrors "github.com/modelmart/modelmart-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes model listing management operations.
type Service interface {
	CreateListing(ctx context.Context, caller auth.Identity, input CreateListingInput) (*models.ModelListing, error)
	GetListing(ctx context.Context, id uuid.UUID) (*models.ModelListing, error)
	ListListings(ctx context.Context, filters ListFilters) ([]models.ModelListing, error)
	UpdateListing(ctx context.Context, caller auth.Identity, id uuid.UUID, input UpdateListingInput) (*models.ModelListing, error)
	DeleteListing(ctx context.Context, caller auth.Identity, id uuid.UUID) error
}

// CreateListingInput holds the validated payload to create a listing.
type CreateListingInput struct {
	Name           string
	Category       string
	Description    string
	ImageURL       string
	Tags           []string
	Price          *decimal.Decimal
	DeveloperEmail string
}

// UpdateListingInput holds optional mutation values. Owner fields and the
// purchase counter are deliberately absent; only the purchase orchestrator
// moves the counter, and ownership never transfers.
type UpdateListingInput struct {
	Name        *string
	Category    *string
	Description *string
	ImageURL    *string
	Tags        *[]string
	Price       *decimal.Decimal
}

type listingStore interface {
	Create(ctx context.Context, listing *models.ModelListing) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ModelListing, error)
	List(ctx context.Context, filters ListFilters) ([]models.ModelListing, error)
	UpdateFields(ctx context.Context, id uuid.UUID, patch map[string]any) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type service struct {
	repo listingStore
}

// NewService constructs a listing service instance.
func NewService(repo listingStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("listing repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateListing(ctx context.Context, caller auth.Identity, input CreateListingInput) (*models.ModelListing, error) {
	if caller.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "caller identity required")
	}
	if !strings.EqualFold(strings.TrimSpace(input.DeveloperEmail), caller.Email) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "developer_email must match the authenticated caller")
	}

	price := decimal.Zero
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		price = *input.Price
	}

	ownerID := caller.UserID
	listing := &models.ModelListing{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(input.Name),
		Category:    strings.TrimSpace(input.Category),
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Tags:        pq.StringArray(input.Tags),
		Price:       price,
		OwnerEmail:  caller.Email,
		OwnerID:     &ownerID,
	}

	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create listing")
	}
	return listing, nil
}

func (s *service) GetListing(ctx context.Context, id uuid.UUID) (*models.ModelListing, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "model not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
	}
	return listing, nil
}

func (s *service) ListListings(ctx context.Context, filters ListFilters) ([]models.ModelListing, error) {
	rows, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list listings")
	}
	return rows, nil
}

func (s *service) UpdateListing(ctx context.Context, caller auth.Identity, id uuid.UUID, input UpdateListingInput) (*models.ModelListing, error) {
	listing, err := s.authorizeMutation(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	patch := map[string]any{}
	if input.Name != nil {
		patch["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Category != nil {
		patch["category"] = strings.TrimSpace(*input.Category)
	}
	if input.Description != nil {
		patch["description"] = *input.Description
	}
	if input.ImageURL != nil {
		patch["image_url"] = *input.ImageURL
	}
	if input.Tags != nil {
		patch["tags"] = pq.StringArray(*input.Tags)
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		patch["price"] = *input.Price
	}

	// Email-matched legacy row: persist the caller's id with this mutation.
	// The migration happens exactly once; afterwards owner_id gates access.
	if listing.OwnerID == nil {
		patch["owner_id"] = caller.UserID
	}

	if len(patch) == 0 {
		return listing, nil
	}

	matched, err := s.repo.UpdateFields(ctx, id, patch)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update listing")
	}
	if matched == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "model not found")
	}

	return s.GetListing(ctx, id)
}

func (s *service) DeleteListing(ctx context.Context, caller auth.Identity, id uuid.UUID) error {
	if _, err := s.authorizeMutation(ctx, caller, id); err != nil {
		return err
	}

	matched, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete listing")
	}
	if matched == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "model not found")
	}
	return nil
}

func (s *service) authorizeMutation(ctx context.Context, caller auth.Identity, id uuid.UUID) (*models.ModelListing, error) {
	if caller.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "caller identity required")
	}

	listing, err := s.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}

	decision := ResolveOwnership(listing, caller.UserID, caller.Email)
	if !decision.Owner {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "caller does not own this model")
	}
	return listing, nil
}
