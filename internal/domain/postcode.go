package domain

import (
	"regexp"
	"strings"
)

// Wildcard stands for "any character here and in every later position".
const Wildcard = '?'

var postcodeShape = regexp.MustCompile(`^([A-Z]{1,2})([0-9?]{1,2}) ?([0-9?])([A-Z?]{2})$`)

// Postcode is a UK-style postcode split into its hierarchical fields,
// from coarsest to finest: area, district, sector and unit.
//
// A Postcode may carry wildcard characters; such values are only useful as
// zone patterns (see Zone). A Postcode returned by ParsePostcode is always
// well formed.
type Postcode struct {
	area     string
	district string
	sector   string
	unit     string
}

// ParsePostcode normalizes s to upper case and splits it into fields.
// Wildcards are accepted, but once one appears every later character must be
// a wildcard as well.
func ParsePostcode(s string) (Postcode, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))

	m := postcodeShape.FindStringSubmatch(norm)
	if m == nil {
		return Postcode{}, NewFormatError(s, "not a valid postcode format")
	}

	p := Postcode{
		area:     m[1],
		district: m[2],
		sector:   m[3],
		unit:     m[4],
	}

	compact := p.area + p.district + p.sector + p.unit
	if i := strings.IndexRune(compact, Wildcard); i != -1 {
		if strings.Trim(compact[i:], string(Wildcard)) != "" {
			return Postcode{}, NewFormatError(s, "literal characters after a wildcard")
		}
	}

	return p, nil
}

// ParseLiteralPostcode parses s and rejects any wildcard characters.
func ParseLiteralPostcode(s string) (Postcode, error) {
	p, err := ParsePostcode(s)
	if err != nil {
		return Postcode{}, err
	}

	if !p.IsLiteral() {
		return Postcode{}, NewValidationError("postcode", "literal postcode must not contain wildcards: "+p.String())
	}

	return p, nil
}

func (p Postcode) Area() string     { return p.area }
func (p Postcode) District() string { return p.district }
func (p Postcode) Sector() string   { return p.sector }
func (p Postcode) Unit() string     { return p.unit }

// Outward returns area and district, the part before the separator.
func (p Postcode) Outward() string { return p.area + p.district }

// Inward returns sector and unit, the part after the separator.
func (p Postcode) Inward() string { return p.sector + p.unit }

// IsZero reports whether p is the zero value, i.e. was never parsed.
func (p Postcode) IsZero() bool { return p.area == "" }

// IsLiteral reports whether p is a parsed postcode without wildcards.
func (p Postcode) IsLiteral() bool {
	return !p.IsZero() && !strings.ContainsRune(p.Outward()+p.Inward(), Wildcard)
}

// String returns the canonical "OUTWARD INWARD" form.
func (p Postcode) String() string {
	if p.IsZero() {
		return ""
	}
	return p.Outward() + " " + p.Inward()
}

func (p Postcode) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Postcode) UnmarshalText(text []byte) error {
	parsed, err := ParsePostcode(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
