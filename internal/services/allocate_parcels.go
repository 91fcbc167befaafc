package services

import (
	"fmt"
	"parcel-sorting-service/internal/domain"
	"parcel-sorting-service/internal/platform/metrics"
	"time"
)

// FilterByDate keeps, in order, the parcels due on the same calendar day as
// date. Both sides are compared in date's location; time of day is ignored.
func FilterByDate(parcels []*domain.Parcel, date time.Time) []*domain.Parcel {
	due := make([]*domain.Parcel, 0, len(parcels))
	for _, p := range parcels {
		if p != nil && p.DueOn(date) {
			due = append(due, p)
		}
	}
	return due
}

// AllocateParcels appends every parcel to every depot whose coverage matches
// its destination. Parcels no depot covers are left out. Overlapping coverage
// puts a parcel in several depots; keep zones partitioned to avoid that.
//
// Allocation is not transactional: on error, parcels handled before the
// failing one stay assigned.
func AllocateParcels(parcels []*domain.Parcel, depots []*domain.Depot) error {
	for i, d := range depots {
		if d == nil {
			return domain.NewValidationError("depots", fmt.Sprintf("depot at index %d is nil", i))
		}
	}

	for i, p := range parcels {
		if p == nil {
			return domain.NewValidationError("parcels", fmt.Sprintf("parcel at index %d is nil", i))
		}

		allocated := false
		for _, d := range depots {
			ok, err := d.Covers(p.Destination)
			if err != nil {
				return fmt.Errorf("allocate parcels: parcel %d: %w", p.ID, err)
			}
			if !ok {
				continue
			}

			d.Assign(p)
			allocated = true
			metrics.ParcelsAllocated.WithLabelValues(d.Name).Inc()
		}

		if !allocated {
			metrics.ParcelsUnallocated.Inc()
		}
	}

	return nil
}
