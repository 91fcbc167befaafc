package ports

import (
	"context"
	"parcel-sorting-service/internal/domain"
)

// Port: a boundary for persisting a sorted depot and its enriched parcels.
type DepotStore interface {
	// Persist the depot and return where it was stored (file path, key, table reference).
	SaveDepot(ctx context.Context, depot *domain.Depot) (string, error)
}
