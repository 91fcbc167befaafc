package services

import (
	"context"
	"errors"
	"fmt"
	"parcel-sorting-service/internal/domain"
	"parcel-sorting-service/internal/platform/obs"
	"parcel-sorting-service/internal/ports"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type SortParcelsRequest struct {
	// Date selects the parcels due that day.
	Date time.Time
	// Depots is the configured coverage. It is cloned per run and never mutated.
	Depots []*domain.Depot
}

// SortedDepot is one persisted depot of a run.
type SortedDepot struct {
	Name     string           `json:"name"`
	Location string           `json:"location"`
	Parcels  []*domain.Parcel `json:"parcels"`
}

type SortParcelsResult struct {
	RunID  string        `json:"runId"`
	Depots []SortedDepot `json:"depots"`
}

// SortParcels runs one sorting pass: list parcels, keep those due on the
// requested day, allocate them to depots, fetch route details for every depot
// concurrently, then persist each depot.
//
// The route sync for all depots shares the syncer's concurrency limit. A
// parcel held by several overlapping depots is fetched once. If any
// depot fails to sync the run fails with the first error and nothing is saved.
func SortParcels(
	ctx context.Context,
	req SortParcelsRequest,
	source ports.ParcelSource,
	syncer ports.RouteSyncer,
	store ports.DepotStore,
	logger *zap.Logger,
) (_ *SortParcelsResult, err error) {
	if source == nil || syncer == nil || store == nil {
		return nil, errors.New("sort parcels: source, syncer and store are required")
	}
	if req.Date.IsZero() {
		return nil, domain.NewValidationError("date", "date is required")
	}
	if len(req.Depots) == 0 {
		return nil, domain.NewValidationError("depots", "at least one depot is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	runID := uuid.NewString()
	ctx = obs.WithRunID(ctx, runID)
	defer obs.Time(ctx, logger, "services.SortParcels")(&err)

	parcels, err := source.ListParcels(ctx)
	if err != nil {
		return nil, fmt.Errorf("sort parcels: list parcels: %w", err)
	}

	due := FilterByDate(parcels, req.Date)

	depots := make([]*domain.Depot, 0, len(req.Depots))
	for i, d := range req.Depots {
		if d == nil {
			return nil, domain.NewValidationError("depots", fmt.Sprintf("depot at index %d is nil", i))
		}
		depots = append(depots, d.Clone())
	}

	if err := AllocateParcels(due, depots); err != nil {
		return nil, fmt.Errorf("sort parcels: %w", err)
	}

	logger.Info("parcels allocated",
		zap.String("run_id", runID),
		zap.String("date", req.Date.Format(time.DateOnly)),
		zap.Int("listed", len(parcels)),
		zap.Int("due", len(due)),
		zap.Int("depots", len(depots)),
	)

	// No shared cancellation: one depot failing leaves the others running.
	var g errgroup.Group
	for i, batch := range syncBatches(depots) {
		batch := batch
		d := depots[i]
		g.Go(func() error {
			if err := syncer.Sync(ctx, batch); err != nil {
				return fmt.Errorf("sync depot %s: %w", d.Name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("sort parcels: %w", err)
	}

	result := &SortParcelsResult{RunID: runID, Depots: make([]SortedDepot, 0, len(depots))}
	for _, d := range depots {
		location, err := store.SaveDepot(ctx, d)
		if err != nil {
			return nil, fmt.Errorf("sort parcels: save depot %s: %w", d.Name, err)
		}

		logger.Info("depot saved",
			zap.String("run_id", runID),
			zap.String("depot", d.Name),
			zap.Int("parcels", len(d.Parcels)),
			zap.String("location", location),
		)

		result.Depots = append(result.Depots, SortedDepot{
			Name:     d.Name,
			Location: location,
			Parcels:  d.Parcels,
		})
	}

	return result, nil
}

// syncBatches splits the allocated parcels into one batch per depot so that a
// parcel held by several depots is synced once, by the first depot holding it.
func syncBatches(depots []*domain.Depot) [][]*domain.Parcel {
	claimed := make(map[*domain.Parcel]struct{})
	batches := make([][]*domain.Parcel, len(depots))
	for i, d := range depots {
		batch := make([]*domain.Parcel, 0, len(d.Parcels))
		for _, p := range d.Parcels {
			if _, ok := claimed[p]; ok {
				continue
			}
			claimed[p] = struct{}{}
			batch = append(batch, p)
		}
		batches[i] = batch
	}
	return batches
}
