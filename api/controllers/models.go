package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/modelmart/modelmart-backend/api/responses"
	"github.com/modelmart/modelmart-backend/api/validators"
	listingsvc "github.com/modelmart/modelmart-backend/internal/listings"
	pkgerrors "github.com/modelmart/modelmart-backend/pkg/errors"
	"github.com/modelmart/modelmart-backend/pkg/logger"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

// ListModels serves the public catalogue, newest first.
func ListModels(svc listingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listing service unavailable"))
			return
		}

		skip, err := validators.QueryInt(r, "skip", 0)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.QueryInt(r, "limit", defaultListLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		// latest=N is the legacy shorthand for "the N newest listings".
		latest, err := validators.QueryInt(r, "latest", 0)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if latest > 0 {
			limit = latest
			skip = 0
		}
		if limit > maxListLimit {
			limit = maxListLimit
		}

		rows, err := svc.ListListings(r.Context(), listingsvc.ListFilters{
			OwnerEmail: validators.QueryString(r, "email"),
			Category:   validators.QueryString(r, "category"),
			Skip:       skip,
			Limit:      limit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// GetModel serves a single listing by id.
func GetModel(svc listingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listing service unavailable"))
			return
		}

		id, err := modelIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.GetListing(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listing)
	}
}

// CreateModel registers a new listing owned by the authenticated caller.
func CreateModel(svc listingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listing service unavailable"))
			return
		}

		caller, err := identityFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createModelRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.CreateListing(r.Context(), caller, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, listing)
	}
}

// UpdateModel applies a partial update after the ownership check.
func UpdateModel(svc listingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listing service unavailable"))
			return
		}

		caller, err := identityFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := modelIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateModelRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.UpdateListing(r.Context(), caller, id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listing)
	}
}

// DeleteModel removes a listing after the ownership check.
func DeleteModel(svc listingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listing service unavailable"))
			return
		}

		caller, err := identityFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := modelIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteListing(r.Context(), caller, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func modelIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "modelId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid model id")
	}
	return id, nil
}

type createModelRequest struct {
	Name           string           `json:"name" validate:"required"`
	Category       string           `json:"category" validate:"required"`
	Description    string           `json:"description,omitempty"`
	ImageURL       string           `json:"image_url,omitempty" validate:"omitempty,url"`
	Tags           []string         `json:"tags,omitempty"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	DeveloperEmail string           `json:"developer_email" validate:"required,email"`
}

func (r createModelRequest) toInput() listingsvc.CreateListingInput {
	return listingsvc.CreateListingInput{
		Name:           r.Name,
		Category:       r.Category,
		Description:    r.Description,
		ImageURL:       r.ImageURL,
		Tags:           r.Tags,
		Price:          r.Price,
		DeveloperEmail: r.DeveloperEmail,
	}
}

type updateModelRequest struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=1"`
	Category    *string          `json:"category,omitempty" validate:"omitempty,min=1"`
	Description *string          `json:"description,omitempty"`
	ImageURL    *string          `json:"image_url,omitempty" validate:"omitempty,url"`
	Tags        *[]string        `json:"tags,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
}

func (r updateModelRequest) toInput() listingsvc.UpdateListingInput {
	return listingsvc.UpdateListingInput{
		Name:        r.Name,
		Category:    r.Category,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Tags:        r.Tags,
		Price:       r.Price,
	}
}
