package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/modelmart/modelmart-backend/api/controllers"
	"github.com/modelmart/modelmart-backend/api/middleware"
	listingsvc "github.com/modelmart/modelmart-backend/internal/listings"
	purchasesvc "github.com/modelmart/modelmart-backend/internal/purchases"
	pkgauth "github.com/modelmart/modelmart-backend/pkg/auth"
	"github.com/modelmart/modelmart-backend/pkg/config"
	"github.com/modelmart/modelmart-backend/pkg/db"
	"github.com/modelmart/modelmart-backend/pkg/logger"
	"github.com/modelmart/modelmart-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	recordsP db.Pinger,
	ledgerP db.Pinger,
	redisClient *redis.Client,
	verifier pkgauth.Verifier,
	listingService listingsvc.Service,
	purchaseService purchasesvc.Service,
	metricsGatherer prometheus.Gatherer,
) http.Handler {
	// A nil client must stay nil once it becomes an interface value, otherwise
	// the middlewares' nil checks stop working.
	var idemStore redis.IdempotencyStore
	var limiter interface {
		FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
	}
	var cachePinger redis.Pinger
	if redisClient != nil {
		idemStore = redisClient
		limiter = redisClient
		cachePinger = redisClient
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, recordsP, ledgerP, cachePinger))
	})

	if metricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	// The catalogue reads are public; everything that writes or touches the
	// ledger requires a verified identity.
	r.Route("/api/v1/models", func(r chi.Router) {
		r.Get("/", controllers.ListModels(listingService, logg))
		r.Get("/{modelId}", controllers.GetModel(listingService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(verifier, logg))
			r.Use(middleware.Idempotency(idemStore, logg))
			r.Post("/", controllers.CreateModel(listingService, logg))
			r.Patch("/{modelId}", controllers.UpdateModel(listingService, logg))
			r.Delete("/{modelId}", controllers.DeleteModel(listingService, logg))
		})
	})

	r.Route("/api/v1/purchases", func(r chi.Router) {
		r.Use(middleware.Auth(verifier, logg))
		r.Get("/", controllers.ListPurchases(purchaseService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Idempotency(idemStore, logg))
			r.Use(middleware.PurchaseRateLimit(cfg.PurchaseRate, limiter, logg))
			r.Post("/", controllers.PurchaseModel(purchaseService, logg))
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(verifier, logg))
		r.Get("/ping", controllers.PrivatePing())
	})

	return r
}
