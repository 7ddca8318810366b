package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PurchaseRecord is the append-only ledger row written once per purchase.
// Rows are never mutated or deleted. The (buyer_id, model_id) pair is unique,
// both by orchestrator check and by index.
type PurchaseRecord struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ModelID     uuid.UUID       `gorm:"column:model_id;type:uuid;not null;uniqueIndex:idx_purchase_buyer_model" json:"model_id"`
	BuyerID     uuid.UUID       `gorm:"column:buyer_id;type:uuid;not null;uniqueIndex:idx_purchase_buyer_model" json:"buyer_id"`
	Metadata    json.RawMessage `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	PurchasedAt time.Time       `gorm:"column:purchased_at;not null" json:"purchased_at"`
}

func (PurchaseRecord) TableName() string {
	return "purchase_records"
}
