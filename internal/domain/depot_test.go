package domain

import (
	"errors"
	"testing"
	"time"
)

func TestDepotCovers(t *testing.T) {
	// build test data
	depot, err := NewDepot("Wakefield", []Zone{
		MustParseZone("WF1 ???"),
		MustParseZone("HD? ???"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		postcode string
		want     bool
	}{
		{"WF1 2AB", true},
		{"WF16 2AB", false},
		{"HD1 1AA", true},
		{"HD12 9ZZ", true},
		{"LS1 1AA", false},
	}

	for _, tc := range cases {
		p, err := ParseLiteralPostcode(tc.postcode)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.postcode, err)
		}

		// call the method under test
		got, err := depot.Covers(p)
		if err != nil {
			t.Fatalf("covers %q: unexpected error: %v", tc.postcode, err)
		}

		// verify behavior
		if got != tc.want {
			t.Errorf("Covers(%q) = %v, want %v", tc.postcode, got, tc.want)
		}
	}
}

func TestDepotCoversRejectsPattern(t *testing.T) {
	depot, err := NewDepot("Leeds", []Zone{MustParseZone("LS?? ???")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = depot.Covers(MustParseZone("LS1 ???").Pattern())
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestNewDepotRejectsEmptyName(t *testing.T) {
	_, err := NewDepot("  ", nil)

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if ve.ParamName != "name" {
		t.Errorf("ParamName = %q, want %q", ve.ParamName, "name")
	}
}

func TestDepotAssignAndClone(t *testing.T) {
	depot, err := NewDepot("Birmingham", []Zone{MustParseZone("B?? ???")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dest, _ := ParseLiteralPostcode("B12 3CD")
	parcel, err := NewParcel(7, time.Date(2020, 5, 1, 9, 0, 0, 0, time.UTC), dest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	depot.Assign(parcel)
	depot.Assign(parcel)
	if len(depot.Parcels) != 2 {
		t.Fatalf("len(Parcels) = %d, want 2", len(depot.Parcels))
	}

	clone := depot.Clone()
	if clone.Name != depot.Name || len(clone.Coverage) != 1 {
		t.Errorf("clone = %+v, want same name and coverage", clone)
	}
	if len(clone.Parcels) != 0 {
		t.Errorf("clone has %d parcels, want 0", len(clone.Parcels))
	}

	depot.Clear()
	if len(depot.Parcels) != 0 {
		t.Errorf("after Clear len(Parcels) = %d, want 0", len(depot.Parcels))
	}
}
