package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/modelmart/modelmart-backend/api/responses"
	"github.com/modelmart/modelmart-backend/api/validators"
	purchasesvc "github.com/modelmart/modelmart-backend/internal/purchases"
	"github.com/modelmart/modelmart-backend/pkg/db/models"
	pkgerrors "github.com/modelmart/modelmart-backend/pkg/errors"
	"github.com/modelmart/modelmart-backend/pkg/logger"
)

type purchaseModelRequest struct {
	ModelID string `json:"model_id" validate:"required"`
	// Metadata is opaque to the server; it is copied verbatim onto the
	// ledger record.
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

type purchaseModelResponse struct {
	Acknowledged  bool                   `json:"acknowledged"`
	Purchase      *models.PurchaseRecord `json:"purchase,omitempty"`
	PurchaseCount int                    `json:"purchase_count,omitempty"`
}

// PurchaseModel runs the cross-store purchase flow for the authenticated buyer.
func PurchaseModel(svc purchasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase service unavailable"))
			return
		}

		caller, err := identityFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload purchaseModelRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		modelID, err := uuid.Parse(payload.ModelID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid model id"))
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithModelID(ctx, modelID.String())
		}

		result, err := svc.Purchase(ctx, caller.UserID, modelID, payload.Metadata)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, purchaseModelResponse{
			Acknowledged:  true,
			Purchase:      result.Record,
			PurchaseCount: result.PurchaseCount,
		})
	}
}

// ListPurchases serves the authenticated buyer's purchase history.
func ListPurchases(svc purchasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase service unavailable"))
			return
		}

		caller, err := identityFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := svc.ListPurchases(r.Context(), caller.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, records)
	}
}
