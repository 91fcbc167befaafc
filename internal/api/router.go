package api

import (
	"context"
	"net/http"
	"parcel-sorting-service/internal/api/handlers"
	"parcel-sorting-service/internal/domain"
	"parcel-sorting-service/internal/platform/metrics"
	"parcel-sorting-service/internal/ports"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies the API needs. Source, Syncer and Store back sorting runs;
// HealthChecks are probed by /health.
type RouterDeps struct {
	Depots       []*domain.Depot
	Source       ports.ParcelSource
	Syncer       ports.RouteSyncer
	Store        ports.DepotStore
	HealthChecks map[string]func(ctx context.Context) error
	Logger       *zap.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()

	healthHandler := &handlers.HealthHandler{Checks: deps.HealthChecks}
	depotHandler := &handlers.DepotHandler{Depots: deps.Depots}
	parcelHandler := &handlers.ParcelHandler{Source: deps.Source}
	runHandler := &handlers.RunHandler{
		Source: deps.Source,
		Syncer: deps.Syncer,
		Store:  deps.Store,
		Depots: deps.Depots,
		Logger: logger,
	}

	routes := map[string]http.Handler{
		"/health":   http.HandlerFunc(healthHandler.Health),
		"/depots":   http.HandlerFunc(depotHandler.List),
		"/coverage": http.HandlerFunc(depotHandler.Coverage),
		"/parcels":  http.HandlerFunc(parcelHandler.List),
		"/runs":     http.HandlerFunc(runHandler.Run),
		"/metrics":  promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
	}

	known := make(map[string]struct{}, len(routes))
	for path, h := range routes {
		mux.Handle(path, h)
		known[path] = struct{}{}
	}

	return loggingMiddleware(logger, known, mux)
}
