// Command sorter allocates the parcels due on a date to depots, enriches them
// with route details and saves every depot.
//
//	sorter <parcels.csv|-> <YYYY-MM-DD>
//
// "-" reads parcels from Postgres (DATABASE_URL). With SCHEDULE set the
// command instead runs every tick for the current day until interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"parcel-sorting-service/internal/app"
	"parcel-sorting-service/internal/config"
	"parcel-sorting-service/internal/jobs"
	"parcel-sorting-service/internal/platform/logging"
	"parcel-sorting-service/internal/platform/metrics"
	"parcel-sorting-service/internal/services"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const usage = "usage: sorter <parcels.csv|-> <YYYY-MM-DD>"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	dotenvErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		printError(stderr, "Could not load configuration.", err)
		return 1
	}

	logger, err := logging.New(cfg.LogLevel, stderr)
	if err != nil {
		printError(stderr, "Could not create logger.", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if dotenvErr != nil {
		logger.Debug("no .env file found (using environment variables)")
	}

	scheduled := cfg.Schedule != ""

	var date time.Time
	switch {
	case scheduled && len(args) == 1:
	case !scheduled && len(args) == 2:
		if date, err = parseDate(args[1]); err != nil {
			printError(stderr, "Invalid execution parameter.", err)
			return 2
		}
	default:
		fmt.Fprintln(stderr, usage)
		return 2
	}

	if cfg.MetricsAddr != "" {
		serveMetrics(cfg.MetricsAddr, logger)
	}

	comps, err := app.Build(ctx, cfg, args[0], logger)
	if err != nil {
		printError(stderr, "Could not set up the sorter.", err)
		return 1
	}
	defer func() { _ = comps.Close() }()

	if scheduled {
		job := jobs.NewSortingJob(comps.Source, comps.Syncer, comps.Store, comps.Depots, logger)
		if err := job.Start(cfg.Schedule); err != nil {
			printError(stderr, "Could not schedule the sorter.", err)
			return 1
		}
		<-ctx.Done()
		job.Stop()
		return 0
	}

	result, err := services.SortParcels(ctx, services.SortParcelsRequest{Date: date, Depots: comps.Depots},
		comps.Source, comps.Syncer, comps.Store, logger)
	if err != nil {
		printError(stderr, "Sorting run failed.", err)
		return 1
	}

	fmt.Fprintln(stdout, "Sorting completed. Depots were saved to:")
	for _, d := range result.Depots {
		fmt.Fprintf(stdout, "  %s\n", d.Location)
	}
	return 0
}

// parseDate accepts a calendar date in local time.
func parseDate(s string) (time.Time, error) {
	date, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not a valid date, please provide it in format YYYY-MM-DD", s)
	}
	return date, nil
}

// printError writes a headline followed by err and every error it wraps.
func printError(w io.Writer, headline string, err error) {
	fmt.Fprintln(w, headline)
	fmt.Fprintf(w, "  error: %v\n", err)
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		fmt.Fprintf(w, "  caused by: %v\n", cause)
	}
}

func serveMetrics(addr string, logger *zap.Logger) {
	metrics.RegisterDefault()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server stopped", zap.String("addr", addr), zap.Error(err))
		}
	}()
}
