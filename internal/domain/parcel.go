package domain

import (
	"fmt"
	"time"
)

// Represents a single delivery unit handled by the system.
// A Parcel has a unique number within a batch, the day it is due for delivery
// and a literal destination postcode. Route and ETA stay nil until route
// details have been fetched for the parcel.
type Parcel struct {
	ID           int        `json:"number"`
	DeliveryDate time.Time  `json:"deliveryDate"`
	Destination  Postcode   `json:"postcode"`
	Route        *string    `json:"route"`
	ETA          *time.Time `json:"eta"`
}

func NewParcel(id int, deliveryDate time.Time, destination Postcode) (*Parcel, error) {
	if id < 0 {
		return nil, NewValidationError("id", fmt.Sprintf("parcel number must be a non-negative integer, got %d", id))
	}

	if deliveryDate.IsZero() {
		return nil, NewValidationError("deliveryDate", "delivery date must be set")
	}

	if !destination.IsLiteral() {
		return nil, NewValidationError("destination", fmt.Sprintf("%q is not a literal postcode", destination.String()))
	}

	return &Parcel{
		ID:           id,
		DeliveryDate: deliveryDate,
		Destination:  destination,
	}, nil
}

// DueOn reports whether the parcel is due on the calendar day of date.
// The delivery date is compared in date's location, ignoring time of day.
func (p *Parcel) DueOn(date time.Time) bool {
	dy, dm, dd := p.DeliveryDate.In(date.Location()).Date()
	y, m, d := date.Date()
	return dy == y && dm == m && dd == d
}

// ApplyRouteDetails records fetched route details on the parcel.
func (p *Parcel) ApplyRouteDetails(details RouteDetails) {
	route := details.Route
	eta := details.ETA
	p.Route = &route
	p.ETA = &eta
}
