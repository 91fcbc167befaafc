package jobs

import (
	"context"
	"fmt"
	"parcel-sorting-service/internal/domain"
	"parcel-sorting-service/internal/ports"
	"parcel-sorting-service/internal/services"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SortingJob runs a sorting pass for the current day on a cron schedule.
// A run still in progress when the next tick fires makes that tick a no-op.
type SortingJob struct {
	source ports.ParcelSource
	syncer ports.RouteSyncer
	store  ports.DepotStore
	depots []*domain.Depot
	cron   *cron.Cron
	logger *zap.Logger
	now    func() time.Time
}

func NewSortingJob(
	source ports.ParcelSource,
	syncer ports.RouteSyncer,
	store ports.DepotStore,
	depots []*domain.Depot,
	logger *zap.Logger,
) *SortingJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "sorting_job"))

	return &SortingJob{
		source: source,
		syncer: syncer,
		store:  store,
		depots: depots,
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger: logger,
		now:    time.Now,
	}
}

// Start schedules the job with a standard five-field cron expression or a
// descriptor such as "@daily".
func (j *SortingJob) Start(schedule string) error {
	_, err := j.cron.AddFunc(schedule, func() {
		if _, err := j.RunOnce(context.Background()); err != nil {
			j.logger.Error("scheduled sorting run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("sorting job: schedule %q: %w", schedule, err)
	}

	j.cron.Start()
	j.logger.Info("sorting job started", zap.String("schedule", schedule))
	return nil
}

// Stop stops scheduling and waits for a running pass to finish.
func (j *SortingJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("sorting job stopped")
}

// RunOnce sorts the parcels due today.
func (j *SortingJob) RunOnce(ctx context.Context) (*services.SortParcelsResult, error) {
	req := services.SortParcelsRequest{Date: j.now(), Depots: j.depots}
	return services.SortParcels(ctx, req, j.source, j.syncer, j.store, j.logger)
}
