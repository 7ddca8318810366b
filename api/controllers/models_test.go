package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/modelmart/modelmart-backend/api/middleware"
	listingsvc "github.com/modelmart/modelmart-backend/internal/listings"
	pkgauth "github.com/modelmart/modelmart-backend/pkg/auth"
	"github.com/modelmart/modelmart-backend/pkg/db/models"
	"github.com/modelmart/modelmart-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func authedContext(userID uuid.UUID, email string) context.Context {
	ctx := middleware.WithUserID(context.Background(), userID.String())
	return middleware.WithUserEmail(ctx, email)
}

func withModelParam(ctx context.Context, id string) context.Context {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("modelId", id)
	return context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
}

type stubListingService struct {
	listing *models.ModelListing
	rows    []models.ModelListing
	err     error

	createInput *listingsvc.CreateListingInput
	updateInput *listingsvc.UpdateListingInput
	filters     *listingsvc.ListFilters
	deleted     bool
}

func (s *stubListingService) CreateListing(ctx context.Context, caller pkgauth.Identity, input listingsvc.CreateListingInput) (*models.ModelListing, error) {
	s.createInput = &input
	return s.listing, s.err
}

func (s *stubListingService) GetListing(ctx context.Context, id uuid.UUID) (*models.ModelListing, error) {
	return s.listing, s.err
}

func (s *stubListingService) ListListings(ctx context.Context, filters listingsvc.ListFilters) ([]models.ModelListing, error) {
	s.filters = &filters
	return s.rows, s.err
}

func (s *stubListingService) UpdateListing(ctx context.Context, caller pkgauth.Identity, id uuid.UUID, input listingsvc.UpdateListingInput) (*models.ModelListing, error) {
	s.updateInput = &input
	return s.listing, s.err
}

func (s *stubListingService) DeleteListing(ctx context.Context, caller pkgauth.Identity, id uuid.UUID) error {
	s.deleted = true
	return s.err
}

func TestListModelsQueryHandling(t *testing.T) {
	logg := testLogger()

	t.Run("defaults", func(t *testing.T) {
		stub := &stubListingService{}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/models", nil)
		rec := httptest.NewRecorder()
		ListModels(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if stub.filters == nil || stub.filters.Limit != defaultListLimit || stub.filters.Skip != 0 {
			t.Fatalf("unexpected filters: %+v", stub.filters)
		}
	})

	t.Run("latest shorthand overrides paging", func(t *testing.T) {
		stub := &stubListingService{}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/models?latest=5&skip=20&limit=90", nil)
		rec := httptest.NewRecorder()
		ListModels(stub, logg).ServeHTTP(rec, req)
		if stub.filters.Limit != 5 || stub.filters.Skip != 0 {
			t.Fatalf("expected latest shorthand, got %+v", stub.filters)
		}
	})

	t.Run("limit capped", func(t *testing.T) {
		stub := &stubListingService{}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/models?limit=500", nil)
		rec := httptest.NewRecorder()
		ListModels(stub, logg).ServeHTTP(rec, req)
		if stub.filters.Limit != maxListLimit {
			t.Fatalf("expected limit cap %d, got %d", maxListLimit, stub.filters.Limit)
		}
	})

	t.Run("negative paging rejected", func(t *testing.T) {
		stub := &stubListingService{}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/models?skip=-1", nil)
		rec := httptest.NewRecorder()
		ListModels(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for negative skip, got %d", rec.Code)
		}
	})

	t.Run("owner email filter forwarded", func(t *testing.T) {
		stub := &stubListingService{}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/models?email=dev%40example.com&category=vision", nil)
		rec := httptest.NewRecorder()
		ListModels(stub, logg).ServeHTTP(rec, req)
		if stub.filters.OwnerEmail != "dev@example.com" || stub.filters.Category != "vision" {
			t.Fatalf("unexpected filters: %+v", stub.filters)
		}
	})
}

func TestGetModelInvalidID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/models/not-a-uuid", nil)
	req = req.WithContext(withModelParam(req.Context(), "not-a-uuid"))
	rec := httptest.NewRecorder()
	GetModel(&stubListingService{}, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid id, got %d", rec.Code)
	}
}

func TestCreateModel(t *testing.T) {
	logg := testLogger()
	userID := uuid.New()

	t.Run("missing identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/models", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		CreateModel(&stubListingService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("invalid body rejected", func(t *testing.T) {
		body := `{"name":"","category":"vision","developer_email":"not-an-email"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/models", strings.NewReader(body))
		req = req.WithContext(authedContext(userID, "dev@example.com"))
		rec := httptest.NewRecorder()
		CreateModel(&stubListingService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown fields rejected", func(t *testing.T) {
		body := `{"name":"m","category":"vision","developer_email":"dev@example.com","purchase_count":99}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/models", strings.NewReader(body))
		req = req.WithContext(authedContext(userID, "dev@example.com"))
		rec := httptest.NewRecorder()
		CreateModel(&stubListingService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		stub := &stubListingService{listing: &models.ModelListing{ID: uuid.New(), Name: "m"}}
		body := `{"name":"m","category":"vision","developer_email":"dev@example.com","tags":["cv"]}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/models", strings.NewReader(body))
		req = req.WithContext(authedContext(userID, "dev@example.com"))
		rec := httptest.NewRecorder()
		CreateModel(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.createInput == nil || stub.createInput.Name != "m" {
			t.Fatalf("expected create input forwarded, got %+v", stub.createInput)
		}
		var envelope struct {
			Data models.ModelListing `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if envelope.Data.ID != stub.listing.ID {
			t.Fatalf("expected listing in envelope, got %+v", envelope.Data)
		}
	})
}

func TestUpdateModel(t *testing.T) {
	logg := testLogger()
	userID := uuid.New()
	modelID := uuid.New()

	t.Run("success", func(t *testing.T) {
		stub := &stubListingService{listing: &models.ModelListing{ID: modelID, Name: "renamed"}}
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/models/"+modelID.String(), strings.NewReader(`{"name":"renamed"}`))
		ctx := withModelParam(authedContext(userID, "dev@example.com"), modelID.String())
		req = req.WithContext(ctx)
		rec := httptest.NewRecorder()
		UpdateModel(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.updateInput == nil || stub.updateInput.Name == nil || *stub.updateInput.Name != "renamed" {
			t.Fatalf("expected update input forwarded, got %+v", stub.updateInput)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/models/bad", strings.NewReader(`{"name":"x"}`))
		req = req.WithContext(withModelParam(authedContext(userID, "dev@example.com"), "bad"))
		rec := httptest.NewRecorder()
		UpdateModel(&stubListingService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestDeleteModel(t *testing.T) {
	logg := testLogger()
	userID := uuid.New()
	modelID := uuid.New()

	t.Run("missing identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/models/"+modelID.String(), nil)
		req = req.WithContext(withModelParam(context.Background(), modelID.String()))
		rec := httptest.NewRecorder()
		DeleteModel(&stubListingService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		stub := &stubListingService{}
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/models/"+modelID.String(), nil)
		req = req.WithContext(withModelParam(authedContext(userID, "dev@example.com"), modelID.String()))
		rec := httptest.NewRecorder()
		DeleteModel(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if !stub.deleted {
			t.Fatal("expected DeleteListing to be invoked")
		}
	})
}
