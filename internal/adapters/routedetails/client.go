// Package routedetails enriches parcels with route and ETA data from the
// remote route-detail service.
//
// A Client admits at most its concurrency limit of outstanding requests,
// shared by every Sync call made on it, and retries transient failures
// (connection resets, timeouts, 5xx responses) with a fixed backoff.
package routedetails

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"parcel-sorting-service/internal/domain"
	"parcel-sorting-service/internal/platform/metrics"
	"parcel-sorting-service/internal/platform/obs"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

const (
	DefaultMaxAttempts = 10
	DefaultBackoff     = time.Second
	DefaultHTTPTimeout = 10 * time.Second
)

// RetryFunc is notified before a failed fetch is re-attempted.
// attempt is the number of the attempt that just failed, starting at 1.
type RetryFunc func(parcelID int, err error, attempt int)

type Option func(*Client)

// WithHTTPClient replaces the default http.Client (10s timeout).
func WithHTTPClient(session *http.Client) Option {
	return func(c *Client) { c.session = session }
}

func WithMaxAttempts(n int) Option {
	return func(c *Client) { c.maxAttempts = n }
}

func WithBackoff(d time.Duration) Option {
	return func(c *Client) { c.backoff = d }
}

func WithOnRetry(fn RetryFunc) Option {
	return func(c *Client) { c.onRetry = fn }
}

// WithRateLimit caps request starts per second. Zero or less disables it.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		burst := int(perSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// Client fetches route details per parcel. It is safe for concurrent use.
type Client struct {
	session *http.Client
	token   string
	baseURL string

	limit    int
	slots    *semaphore.Weighted
	inFlight atomic.Int64

	maxAttempts int
	backoff     time.Duration
	limiter     *rate.Limiter
	onRetry     RetryFunc
	logger      *zap.Logger
}

func NewClient(baseURL, token string, concurrency int, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("new route details client: base url is empty")
	}
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("new route details client: token is empty")
	}
	if concurrency < 1 {
		return nil, fmt.Errorf("new route details client: concurrency must be positive, got %d", concurrency)
	}

	c := &Client{
		session:     &http.Client{Timeout: DefaultHTTPTimeout},
		token:       token,
		baseURL:     baseURL,
		limit:       concurrency,
		slots:       semaphore.NewWeighted(int64(concurrency)),
		maxAttempts: DefaultMaxAttempts,
		backoff:     DefaultBackoff,
		logger:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.maxAttempts < 1 {
		return nil, fmt.Errorf("new route details client: max attempts must be positive, got %d", c.maxAttempts)
	}
	if c.backoff < 0 {
		return nil, fmt.Errorf("new route details client: negative backoff %s", c.backoff)
	}
	if c.session == nil {
		return nil, errors.New("new route details client: http client is nil")
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.onRetry == nil {
		c.onRetry = c.logRetry
	}

	return c, nil
}

// Limit is the concurrency ceiling.
func (c *Client) Limit() int { return c.limit }

// InFlight is the number of fetches currently holding an admission slot.
func (c *Client) InFlight() int { return int(c.inFlight.Load()) }

// Sync fetches route details for every parcel concurrently and records them
// on the parcels. It returns nil once all parcels are updated, or the first
// terminal failure as soon as one is observed.
//
// Parcel tasks are detached: after a failure the remaining tasks keep
// running and their results are dropped. ctx bounds admission and backoff
// waits as well as the requests themselves.
func (c *Client) Sync(ctx context.Context, parcels []*domain.Parcel) (err error) {
	defer obs.Time(ctx, c.logger, "routedetails.Sync")(&err)

	if len(parcels) == 0 {
		return nil
	}

	for i, p := range parcels {
		if p == nil {
			return domain.NewValidationError("parcels", fmt.Sprintf("parcel at index %d is nil", i))
		}
	}

	// Buffered to len(parcels) so detached tasks never block on send.
	results := make(chan error, len(parcels))
	for _, p := range parcels {
		go func(p *domain.Parcel) {
			results <- c.syncParcel(ctx, p)
		}(p)
	}

	for range parcels {
		if err := <-results; err != nil {
			return err
		}
	}

	return nil
}

func (c *Client) syncParcel(ctx context.Context, parcel *domain.Parcel) error {
	for attempt := 1; ; attempt++ {
		err := c.attempt(ctx, parcel)
		if err == nil {
			return nil
		}

		if !c.shouldRetry(err, attempt) {
			return &ParcelSyncError{ParcelID: parcel.ID, Attempts: attempt, Err: err}
		}

		metrics.RouteFetchRetries.Inc()
		c.onRetry(parcel.ID, err, attempt)

		if werr := wait(ctx, c.backoff); werr != nil {
			return &ParcelSyncError{ParcelID: parcel.ID, Attempts: attempt, Err: fmt.Errorf("backoff: %w", werr)}
		}
	}
}

// attempt runs one fetch inside an admission slot.
func (c *Client) attempt(ctx context.Context, parcel *domain.Parcel) error {
	if err := c.acquire(ctx); err != nil {
		return err
	}
	defer c.release()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	start := time.Now()
	details, err := c.fetch(ctx, parcel.ID)

	outcome := "success"
	switch {
	case err == nil:
	case retryable(err):
		outcome = "retryable"
	default:
		outcome = "terminal"
	}
	metrics.RouteFetches.WithLabelValues(outcome).Inc()
	metrics.RouteFetchDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	if err != nil {
		return err
	}

	parcel.ApplyRouteDetails(details)
	return nil
}

func (c *Client) acquire(ctx context.Context) error {
	if err := c.slots.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("acquire admission slot: %w", err)
	}
	c.inFlight.Add(1)
	metrics.RouteFetchInFlight.Inc()
	return nil
}

func (c *Client) release() {
	c.inFlight.Add(-1)
	metrics.RouteFetchInFlight.Dec()
	c.slots.Release(1)
}

func (c *Client) logRetry(parcelID int, err error, attempt int) {
	c.logger.Warn("retrieving route details failed and will be re-attempted",
		zap.Int("parcel_id", parcelID),
		zap.Int("attempt", attempt),
		zap.Duration("backoff", c.backoff),
		zap.Error(err),
	)
}
