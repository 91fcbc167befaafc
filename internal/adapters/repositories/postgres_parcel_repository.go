package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"parcel-sorting-service/internal/domain"
	"time"
)

// Postgres-backed implementation of the ParcelSource port.
type PostgresParcelRepository struct {
	DB *sql.DB
	// Location delivery dates are converted to. Nil means time.Local.
	Location *time.Location
}

func NewPostgresParcelRepository(db *sql.DB) *PostgresParcelRepository {
	return &PostgresParcelRepository{DB: db}
}

// Return all parcels stored in the database, ordered by id.
func (r *PostgresParcelRepository) ListParcels(ctx context.Context) ([]*domain.Parcel, error) {
	if r.DB == nil {
		return nil, errors.New("postgres parcel repository: DB is nil")
	}

	loc := r.Location
	if loc == nil {
		loc = time.Local
	}

	query := `
	SELECT
		parcel_id,
		delivery_date,
		postcode
	FROM parcels
	ORDER BY parcel_id;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list parcels: query parcels table: %w", err)
	}
	defer rows.Close()

	parcels := make([]*domain.Parcel, 0, 64)
	for rows.Next() {
		var id int
		var date time.Time
		var postcode string
		if err := rows.Scan(&id, &date, &postcode); err != nil {
			return nil, fmt.Errorf("list parcels: scan row: %w", err)
		}

		dest, err := domain.ParseLiteralPostcode(postcode)
		if err != nil {
			return nil, fmt.Errorf("list parcels: parcel_id=%d: %w", id, err)
		}

		p, err := domain.NewParcel(id, date.In(loc), dest)
		if err != nil {
			return nil, fmt.Errorf("list parcels: parcel_id=%d: %w", id, err)
		}
		parcels = append(parcels, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list parcels: row iteration: %w", err)
	}

	return parcels, nil
}
