package routedetails

import (
	"context"
	"testing"
	"time"

	"parcel-sorting-service/internal/domain"
)

func TestMockRouteSyncer(t *testing.T) {
	// build test data
	eta := time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC)
	syncer := NewMockRouteSyncer(map[int]domain.RouteDetails{
		0: {Route: "R1", ETA: eta},
	})
	parcels := newParcels(t, 2)

	// call the method under test
	err := syncer.Sync(context.Background(), parcels[:1])

	// verify behavior
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parcels[0].Route == nil || *parcels[0].Route != "R1" {
		t.Fatalf("route = %v, want R1", parcels[0].Route)
	}

	err = syncer.Sync(context.Background(), parcels)
	if err == nil {
		t.Fatalf("expected error for parcel without details")
	}
	if syncer.Calls() != 2 {
		t.Fatalf("calls = %d, want 2", syncer.Calls())
	}
}
