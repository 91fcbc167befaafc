package domain

import (
	"fmt"
	"strings"
)

// Delivery depot aggregate: a named service area and the parcels allocated to it.
// Coverage zones may overlap with other depots; a parcel is then held by each
// of them. The depot references parcels but does not own them.
type Depot struct {
	Name     string    `json:"name"`
	Coverage []Zone    `json:"coveredPostcodes"`
	Parcels  []*Parcel `json:"parcels"`
}

func NewDepot(name string, coverage []Zone) (*Depot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("name", "depot name must not be empty")
	}

	for i, z := range coverage {
		if z.pattern.IsZero() {
			return nil, NewValidationError("coverage", fmt.Sprintf("zone at index %d is empty", i))
		}
	}

	return &Depot{
		Name:     name,
		Coverage: append([]Zone(nil), coverage...),
		Parcels:  []*Parcel{},
	}, nil
}

// Covers reports whether any coverage zone matches the postcode.
func (d *Depot) Covers(postcode Postcode) (bool, error) {
	for _, z := range d.Coverage {
		ok, err := z.Matches(postcode)
		if err != nil {
			return false, fmt.Errorf("depot %s: zone %s: %w", d.Name, z, err)
		}
		if ok {
			return true, nil
		}
	}

	return false, nil
}

// Assign appends a parcel to the depot.
func (d *Depot) Assign(parcel *Parcel) {
	d.Parcels = append(d.Parcels, parcel)
}

// Clear drops every assigned parcel.
func (d *Depot) Clear() {
	d.Parcels = []*Parcel{}
}

// Clone returns a depot with the same name and coverage and no parcels.
func (d *Depot) Clone() *Depot {
	return &Depot{
		Name:     d.Name,
		Coverage: append([]Zone(nil), d.Coverage...),
		Parcels:  []*Parcel{},
	}
}
