package domain

import "time"

// Represents the live routing data reported for a single parcel.
// RouteDetails is produced by the remote route service and copied onto the
// parcel once a fetch succeeds.
type RouteDetails struct {
	Route string
	ETA   time.Time
}
