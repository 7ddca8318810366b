package listings

import (
	"context"

	"github.com/google/uuid"
	"github.com/modelmart/modelmart-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository is the record store adapter for model listings.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// ListFilters narrows the public listing query.
type ListFilters struct {
	OwnerEmail string
	Category   string
	Skip       int
	Limit      int
}

// Create inserts a new listing row.
func (r *Repository) Create(ctx context.Context, listing *models.ModelListing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

// FindByID loads a single listing.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ModelListing, error) {
	var listing models.ModelListing
	if err := r.db.WithContext(ctx).First(&listing, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// List returns listings newest-first, optionally filtered and paginated.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]models.ModelListing, error) {
	qb := r.db.WithContext(ctx).Model(&models.ModelListing{})
	if filters.OwnerEmail != "" {
		qb = qb.Where("owner_email = ?", filters.OwnerEmail)
	}
	if filters.Category != "" {
		qb = qb.Where("category = ?", filters.Category)
	}
	if filters.Skip > 0 {
		qb = qb.Offset(filters.Skip)
	}
	if filters.Limit > 0 {
		qb = qb.Limit(filters.Limit)
	}

	var rows []models.ModelListing
	if err := qb.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateFields applies a partial column patch and reports how many rows
// matched. A zero count means the listing vanished between load and write.
func (r *Repository) UpdateFields(ctx context.Context, id uuid.UUID, patch map[string]any) (int64, error) {
	if len(patch) == 0 {
		return 1, nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.ModelListing{}).
		Where("id = ?", id).
		Updates(patch)
	return result.RowsAffected, result.Error
}

// Delete removes a listing by ID and reports how many rows matched.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ModelListing{})
	return result.RowsAffected, result.Error
}

// IncrementPurchaseCount adjusts the purchase counter by delta, but only when
// a row with that id exists. Negative deltas never push the counter below
// zero. Returns the matched-row count; the caller treats zero as not-found.
func (r *Repository) IncrementPurchaseCount(ctx context.Context, id uuid.UUID, delta int) (int64, error) {
	qb := r.db.WithContext(ctx).
		Model(&models.ModelListing{}).
		Where("id = ?", id)
	if delta < 0 {
		qb = qb.Where("purchase_count + ? >= 0", delta)
	}
	result := qb.UpdateColumn("purchase_count", gorm.Expr("purchase_count + ?", delta))
	return result.RowsAffected, result.Error
}
