package domain

import (
	"fmt"
	"strings"
)

// Zone is a postcode pattern describing part of a depot service area.
// "B?? ???" covers every postcode in area B; "WF16 ???" covers district WF16 only.
type Zone struct {
	pattern Postcode
}

// ParseZone parses a zone pattern. Wildcards may only form a suffix.
func ParseZone(s string) (Zone, error) {
	p, err := ParsePostcode(s)
	if err != nil {
		return Zone{}, fmt.Errorf("parse zone: %w", err)
	}
	return Zone{pattern: p}, nil
}

// MustParseZone is like ParseZone but panics on error.
// It is intended for zone literals known at compile time.
func MustParseZone(s string) Zone {
	z, err := ParseZone(s)
	if err != nil {
		panic(err)
	}
	return z
}

// Pattern returns the postcode fields of the zone.
func (z Zone) Pattern() Postcode { return z.pattern }

func (z Zone) String() string { return z.pattern.String() }

// Matches reports whether the literal postcode candidate lies within the zone.
//
// Fields are compared from area down to unit. The area must be equal. For the
// remaining fields a wildcard on either side satisfies its position; when
// neither side of a field holds a wildcard the field lengths must agree.
// A candidate containing wildcards is rejected with a ValidationError.
func (z Zone) Matches(candidate Postcode) (bool, error) {
	if !candidate.IsLiteral() {
		return false, NewValidationError("candidate", fmt.Sprintf("%q is not a literal postcode", candidate.String()))
	}

	p := z.pattern
	if p.area != candidate.area {
		return false, nil
	}

	if !fieldMatches(p.district, candidate.district) {
		return false, nil
	}

	if !fieldMatches(p.sector, candidate.sector) {
		return false, nil
	}

	if !fieldMatches(p.unit, candidate.unit) {
		return false, nil
	}

	return true, nil
}

func (z Zone) MarshalText() ([]byte, error) {
	return z.pattern.MarshalText()
}

func (z *Zone) UnmarshalText(text []byte) error {
	parsed, err := ParseZone(string(text))
	if err != nil {
		return err
	}
	*z = parsed
	return nil
}

// fieldMatches compares one postcode field position by position up to the
// shorter length.
func fieldMatches(pattern, candidate string) bool {
	hasWildcard := strings.ContainsRune(pattern, Wildcard) || strings.ContainsRune(candidate, Wildcard)
	if !hasWildcard && len(pattern) != len(candidate) {
		return false
	}

	n := min(len(pattern), len(candidate))
	for i := 0; i < n; i++ {
		if pattern[i] == Wildcard || candidate[i] == Wildcard {
			continue
		}
		if pattern[i] != candidate[i] {
			return false
		}
	}

	return true
}
