package purchases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/modelmart/modelmart-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository is the ledger store adapter for purchase history. The ledger is
// append-only; there is no update or delete path.
type Repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByBuyerAndModel returns the prior purchase for the pair, or nil when
// the buyer has not purchased the model.
func (r *Repository) FindByBuyerAndModel(ctx context.Context, buyerID, modelID uuid.UUID) (*models.PurchaseRecord, error) {
	var record models.PurchaseRecord
	err := r.db.WithContext(ctx).
		Where("buyer_id = ? AND model_id = ?", buyerID, modelID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Insert appends a purchase record.
func (r *Repository) Insert(ctx context.Context, record *models.PurchaseRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// ListByBuyer returns the buyer's purchase history, newest first.
func (r *Repository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.PurchaseRecord, error) {
	var records []models.PurchaseRecord
	if err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("purchased_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
