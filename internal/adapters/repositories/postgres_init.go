package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"parcel-sorting-service/internal/adapters/parcelsource"
	"parcel-sorting-service/internal/domain"
)

// Initialize the Postgres schema for parcels and sorted depot results.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createParcelsQuery := `
	CREATE TABLE IF NOT EXISTS parcels (
		parcel_id INTEGER PRIMARY KEY CHECK (parcel_id >= 0),
		delivery_date TIMESTAMPTZ NOT NULL,
		postcode TEXT NOT NULL
	);
	`

	createDepotParcelsQuery := `
	CREATE TABLE IF NOT EXISTS depot_parcels (
		run_id TEXT NOT NULL,
		depot TEXT NOT NULL,
		parcel_id INTEGER NOT NULL,
		postcode TEXT NOT NULL,
		delivery_date TIMESTAMPTZ NOT NULL,
		route TEXT,
		eta TIMESTAMPTZ,
		saved_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (run_id, depot, parcel_id)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_parcels_delivery_date
	ON parcels(delivery_date);
	`

	statements := []string{
		createParcelsQuery,
		createDepotParcelsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// SeedFromCSV loads parcels from a CSV file into the parcels table.
func SeedFromCSV(ctx context.Context, db *sql.DB, csvPath string) (int, error) {
	parcels, err := parcelsource.NewCSVFile(csvPath).ListParcels(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed parcels: %w", err)
	}

	if err := SeedParcels(ctx, db, parcels); err != nil {
		return 0, err
	}

	return len(parcels), nil
}

// SeedParcels upserts parcels by id.
func SeedParcels(ctx context.Context, db *sql.DB, parcels []*domain.Parcel) error {
	if db == nil {
		return errors.New("seed parcels: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed parcels: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO parcels (
		parcel_id,
		delivery_date,
		postcode
	)
	VALUES ($1, $2, $3)
	ON CONFLICT (parcel_id) DO UPDATE SET
		delivery_date = EXCLUDED.delivery_date,
		postcode = EXCLUDED.postcode;
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed parcels: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range parcels {
		if _, err := stmt.ExecContext(ctx, p.ID, p.DeliveryDate, p.Destination.String()); err != nil {
			return fmt.Errorf("seed parcels: insert parcel_id=%d: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed parcels: commit tx: %w", err)
	}

	return nil
}
