package ports

import (
	"context"
	"parcel-sorting-service/internal/domain"
)

// Port: a boundary for retrieving Parcel entities from a data source.
type ParcelSource interface {
	// Retrieve all parcels available for sorting.
	ListParcels(ctx context.Context) ([]*domain.Parcel, error)
}
