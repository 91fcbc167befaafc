package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service
	Registry = prometheus.NewRegistry()

	// RouteFetches counts route detail fetch attempts by outcome (success, retryable, terminal)
	RouteFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_fetch_attempts_total", Help: "Route detail fetch attempts by outcome."},
		[]string{"outcome"},
	)
	// RouteFetchRetries counts re-attempts scheduled after a retryable failure
	RouteFetchRetries = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "route_fetch_retries_total", Help: "Route detail fetches re-attempted after a transient failure."},
	)
	// RouteFetchInFlight is the number of route detail requests currently holding an admission slot
	RouteFetchInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "route_fetch_in_flight", Help: "Route detail requests currently in flight."},
	)
	// RouteFetchDuration records single fetch latencies in seconds
	RouteFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "route_fetch_duration_seconds", Help: "Route detail fetch duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"outcome"},
	)

	// ParcelsAllocated counts parcel allocations per depot
	ParcelsAllocated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "parcels_allocated_total", Help: "Parcels allocated to a depot."},
		[]string{"depot"},
	)
	// ParcelsUnallocated counts parcels no depot covers
	ParcelsUnallocated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "parcels_unallocated_total", Help: "Parcels whose destination no depot covers."},
	)

	// HTTPRequests counts API requests by method, path and status code
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "HTTP requests served."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records API request latencies in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path"},
	)
)

// RegisterDefault registers the service collectors on Registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(RouteFetches)
		Registry.MustRegister(RouteFetchRetries)
		Registry.MustRegister(RouteFetchInFlight)
		Registry.MustRegister(RouteFetchDuration)
		Registry.MustRegister(ParcelsAllocated)
		Registry.MustRegister(ParcelsUnallocated)
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
