package routedetails

import (
	"context"
	"fmt"
	"parcel-sorting-service/internal/domain"
	"sync"
)

// MockRouteSyncer serves fixed route details by parcel id. Parcels without
// an entry fail the sync.
type MockRouteSyncer struct {
	mu      sync.Mutex
	details map[int]domain.RouteDetails
	calls   int
}

func NewMockRouteSyncer(details map[int]domain.RouteDetails) *MockRouteSyncer {
	m := make(map[int]domain.RouteDetails, len(details))
	for id, d := range details {
		m[id] = d
	}
	return &MockRouteSyncer{details: m}
}

func (s *MockRouteSyncer) Sync(ctx context.Context, parcels []*domain.Parcel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	for _, p := range parcels {
		d, ok := s.details[p.ID]
		if !ok {
			return &ParcelSyncError{
				ParcelID: p.ID,
				Attempts: 1,
				Err:      &RemoteServiceError{StatusCode: 404, URL: fmt.Sprintf("mock://%d", p.ID)},
			}
		}
		p.ApplyRouteDetails(d)
	}

	return nil
}

// Calls is the number of Sync invocations so far.
func (s *MockRouteSyncer) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
