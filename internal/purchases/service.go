package purchases

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/modelmart/modelmart-backend/pkg/db"
	"github.com/modelmart/modelmart-backend/pkg/db/models"
	pkgerrors "github.com/modelmart/modelmart-backend/pkg/errors"
	"github.com/modelmart/modelmart-backend/pkg/metrics"
	"go.uber.org/multierr"
)

const ledgerUniqueConstraint = "idx_purchase_buyer_model"

// Service orchestrates the cross-store purchase flow.
type Service interface {
	Purchase(ctx context.Context, buyerID, modelID uuid.UUID, metadata json.RawMessage) (*PurchaseResult, error)
	ListPurchases(ctx context.Context, buyerID uuid.UUID) ([]models.PurchaseRecord, error)
}

// PurchaseResult carries the persisted ledger record and the counter state
// after the increment.
type PurchaseResult struct {
	Record        *models.PurchaseRecord
	PurchaseCount int
}

type ledgerStore interface {
	FindByBuyerAndModel(ctx context.Context, buyerID, modelID uuid.UUID) (*models.PurchaseRecord, error)
	Insert(ctx context.Context, record *models.PurchaseRecord) error
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.PurchaseRecord, error)
}

type recordStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.ModelListing, error)
	IncrementPurchaseCount(ctx context.Context, id uuid.UUID, delta int) (int64, error)
}

type service struct {
	ledger  ledgerStore
	records recordStore
	metrics *metrics.PurchaseMetrics
	now     func() time.Time
}

// NewService wires the purchase orchestrator. Metrics may be nil.
func NewService(ledger ledgerStore, records recordStore, purchaseMetrics *metrics.PurchaseMetrics) (Service, error) {
	if ledger == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if records == nil {
		return nil, fmt.Errorf("record repository required")
	}
	return &service{
		ledger:  ledger,
		records: records,
		metrics: purchaseMetrics,
		now:     time.Now,
	}, nil
}

// Purchase runs duplicate-check, counter increment, and ledger write in
// order. The two stores share no transaction: a ledger failure after the
// increment is compensated by reversing the counter, and a failed reversal is
// the one state reported as a partial failure.
func (s *service) Purchase(ctx context.Context, buyerID, modelID uuid.UUID, metadata json.RawMessage) (*PurchaseResult, error) {
	start := s.now()

	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer identity required")
	}
	if modelID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "model id is required")
	}

	existing, err := s.ledger.FindByBuyerAndModel(ctx, buyerID, modelID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check purchase history")
	}
	if existing != nil {
		s.observe(metrics.OutcomeConflict, start)
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "model already purchased")
	}

	matched, err := s.records.IncrementPurchaseCount(ctx, modelID, 1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment purchase counter")
	}
	if matched == 0 {
		s.observe(metrics.OutcomeNotFound, start)
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "model not found")
	}

	record := &models.PurchaseRecord{
		ID:          uuid.New(),
		ModelID:     modelID,
		BuyerID:     buyerID,
		Metadata:    metadata,
		PurchasedAt: s.now().UTC(),
	}

	if insertErr := s.ledger.Insert(ctx, record); insertErr != nil {
		// The counter already moved; reverse it before reporting anything.
		if _, compErr := s.records.IncrementPurchaseCount(ctx, modelID, -1); compErr != nil {
			s.observe(metrics.OutcomePartialFailure, start)
			return nil, pkgerrors.Wrap(
				pkgerrors.CodePartialFailure,
				multierr.Append(insertErr, compErr),
				"purchase counter incremented but ledger write and reversal failed",
			).WithDetails(map[string]any{"model_id": modelID.String(), "step": "ledger_insert"})
		}

		if db.IsUniqueViolation(insertErr, ledgerUniqueConstraint) {
			s.observe(metrics.OutcomeConflict, start)
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, insertErr, "model already purchased")
		}

		s.observe(metrics.OutcomeReversed, start)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, insertErr, "record purchase")
	}

	result := &PurchaseResult{Record: record}
	// Counter state is a read-after-write convenience; the purchase itself is
	// already durable in both stores.
	if listing, readErr := s.records.FindByID(ctx, modelID); readErr == nil {
		result.PurchaseCount = listing.PurchaseCount
	}

	s.observe(metrics.OutcomeCompleted, start)
	return result, nil
}

func (s *service) ListPurchases(ctx context.Context, buyerID uuid.UUID) ([]models.PurchaseRecord, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer identity required")
	}
	records, err := s.ledger.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list purchases")
	}
	return records, nil
}

func (s *service) observe(outcome string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.Observe(outcome, s.now().Sub(start))
}
