package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// ModelListing is the canonical record-store row for a listed AI model.
//
// OwnerID is nullable on purpose: rows created before unique-id tracking only
// carry OwnerEmail, and the ownership policy backfills OwnerID on the first
// successful mutation by the matching email. Once set it never changes.
type ModelListing struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name          string          `gorm:"column:name;not null" json:"name"`
	Category      string          `gorm:"column:category;not null" json:"category"`
	Description   string          `gorm:"column:description" json:"description"`
	ImageURL      string          `gorm:"column:image_url" json:"image_url"`
	Tags          pq.StringArray  `gorm:"column:tags;type:text[]" json:"tags,omitempty"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null;default:0" json:"price"`
	OwnerEmail    string          `gorm:"column:owner_email;not null" json:"owner_email"`
	OwnerID       *uuid.UUID      `gorm:"column:owner_id;type:uuid" json:"owner_id,omitempty"`
	PurchaseCount int             `gorm:"column:purchase_count;not null;default:0" json:"purchase_count"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ModelListing) TableName() string {
	return "model_listings"
}
