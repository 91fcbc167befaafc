package ports

import (
	"context"
	"parcel-sorting-service/internal/domain"
)

// Contract for enriching parcels with live route details.
type RouteSyncer interface {
	// Fetch route details for every parcel and record them on the parcels in place.
	// Returns the first terminal failure; nil only if every parcel was updated.
	Sync(ctx context.Context, parcels []*domain.Parcel) error
}
