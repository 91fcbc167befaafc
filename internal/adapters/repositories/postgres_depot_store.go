package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"parcel-sorting-service/internal/domain"
	"parcel-sorting-service/internal/platform/obs"
)

// Postgres-backed implementation of the DepotStore port. Rows are keyed by
// (run_id, depot, parcel_id) so saving the same run twice is an upsert.
type PostgresDepotStore struct{ DB *sql.DB }

func NewPostgresDepotStore(db *sql.DB) *PostgresDepotStore {
	return &PostgresDepotStore{DB: db}
}

func (s *PostgresDepotStore) SaveDepot(ctx context.Context, depot *domain.Depot) (string, error) {
	if s.DB == nil {
		return "", errors.New("postgres depot store: DB is nil")
	}
	if depot == nil {
		return "", domain.NewValidationError("depot", "depot is nil")
	}

	runID := obs.RunID(ctx)
	if runID == "" {
		return "", domain.NewValidationError("ctx", "run id is required to save a depot")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("save depot %s: begin tx: %w", depot.Name, err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO depot_parcels (
		run_id,
		depot,
		parcel_id,
		postcode,
		delivery_date,
		route,
		eta
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (run_id, depot, parcel_id) DO UPDATE SET
		postcode = EXCLUDED.postcode,
		delivery_date = EXCLUDED.delivery_date,
		route = EXCLUDED.route,
		eta = EXCLUDED.eta,
		saved_at = now();
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return "", fmt.Errorf("save depot %s: prepare insert: %w", depot.Name, err)
	}
	defer stmt.Close()

	for _, p := range depot.Parcels {
		var route sql.NullString
		if p.Route != nil {
			route = sql.NullString{String: *p.Route, Valid: true}
		}
		var eta sql.NullTime
		if p.ETA != nil {
			eta = sql.NullTime{Time: *p.ETA, Valid: true}
		}

		_, err := stmt.ExecContext(ctx, runID, depot.Name, p.ID, p.Destination.String(), p.DeliveryDate, route, eta)
		if err != nil {
			return "", fmt.Errorf("save depot %s: insert parcel_id=%d: %w", depot.Name, p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("save depot %s: commit tx: %w", depot.Name, err)
	}

	return fmt.Sprintf("postgres:depot_parcels?run_id=%s&depot=%s", runID, depot.Name), nil
}

// CountDepotParcels returns how many parcels a run saved for a depot.
func (s *PostgresDepotStore) CountDepotParcels(ctx context.Context, runID, depotName string) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM depot_parcels WHERE run_id = $1 AND depot = $2;`,
		runID, depotName,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count depot parcels: %w", err)
	}
	return n, nil
}
