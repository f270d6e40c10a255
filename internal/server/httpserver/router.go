package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/yndnr/teataster-go/internal/core/service"
	"github.com/yndnr/teataster-go/internal/server/httpserver/handler"
	"github.com/yndnr/teataster-go/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	Accounts *service.AccountService
	Catalog  *service.CatalogService
	Notes    *service.NotesService

	Logger  *slog.Logger
	Metrics *metric.Registry

	// RateLimit is the per-IP request rate (requests/second). Zero
	// disables limiting.
	RateLimit int

	// CORSAllowedOrigins is the list of allowed CORS origins (empty = allow all).
	CORSAllowedOrigins []string

	// Latency delays every API response.
	Latency time.Duration
}

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metric.Global()
	}
	h := handler.New(cfg.Accounts, cfg.Catalog, cfg.Notes, cfg.Logger)

	// Order: Recover -> RequestID -> CORS -> AccessLog -> Metrics -> RateLimit -> Latency [-> Auth] -> Handler
	api := []Middleware{
		Recover(cfg.Logger),
		RequestID(),
		CORS(cfg.CORSAllowedOrigins),
		AccessLog(cfg.Logger),
		Metrics(cfg.Metrics),
	}
	if cfg.RateLimit > 0 {
		api = append(api, RateLimit(service.NewRateLimiterRegistry(), cfg.RateLimit))
	}
	api = append(api, Latency(cfg.Latency))

	publicHandler := Chain(h, api...)
	businessHandler := Chain(h, append(api, Auth(cfg.Accounts))...)

	mux := http.NewServeMux()

	// Operational endpoints skip the API chain.
	mux.Handle("GET /health", Chain(h, Recover(cfg.Logger), RequestID()))
	mux.Handle("GET /metrics", cfg.Metrics.Handler())

	mux.Handle("POST /login", publicHandler)
	mux.Handle("POST /logout", publicHandler)

	mux.Handle("GET /users/current", businessHandler)
	mux.Handle("GET /tea-categories", businessHandler)
	mux.Handle("GET /user-tasting-notes", businessHandler)
	mux.Handle("POST /user-tasting-notes", businessHandler)
	mux.Handle("POST /user-tasting-notes/{id}", businessHandler)
	mux.Handle("DELETE /user-tasting-notes/{id}", businessHandler)

	// Browser preflight requests carry no credentials.
	mux.Handle("OPTIONS /", publicHandler)

	return mux
}
