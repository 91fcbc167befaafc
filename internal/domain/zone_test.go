package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func literal(t *testing.T, s string) Postcode {
	t.Helper()
	p, err := ParseLiteralPostcode(s)
	require.NoError(t, err)
	return p
}

func TestZoneMatches(t *testing.T) {
	cases := []struct {
		zone      string
		candidate string
		want      bool
	}{
		{"B?? ???", "B12 3CD", true},
		{"B?? ???", "B99 1XY", true},
		{"B?? ???", "B1 1XY", true},
		{"B?? ???", "A12 3CD", false},
		{"B?? ???", "BD1 1AA", false},
		{"TF? ???", "TF1 2AB", true},
		{"TF? ???", "TF10 2AB", true},
		{"WF16 ???", "WF16 7QE", true},
		{"WF16 ???", "WF1 7QE", false},
		{"WF1 ???", "WF16 7QE", false},
		{"WF1 ???", "WF1 7QE", true},
		{"WF1 ???", "WF2 7QE", false},
		{"LS1 4??", "LS1 4AP", true},
		{"LS1 4??", "LS1 5AP", false},
		{"LS1 4A?", "LS1 4AP", true},
		{"LS1 4A?", "LS1 4BP", false},
		{"LS1 4AP", "LS1 4AP", true},
		{"LS1 4AP", "LS1 4AQ", false},
		{"LS1 4AP", "LS14 4AP", false},
	}

	for _, tc := range cases {
		t.Run(tc.zone+"/"+tc.candidate, func(t *testing.T) {
			z, err := ParseZone(tc.zone)
			require.NoError(t, err)

			got, err := z.Matches(literal(t, tc.candidate))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestZoneMatchesExactEqualityIffIdentical(t *testing.T) {
	postcodes := []string{"B12 3CD", "B1 3CD", "WF16 1AB", "WF1 1AB", "DY5 4XY", "HD1 9ZZ"}

	for _, a := range postcodes {
		z, err := ParseZone(a)
		require.NoError(t, err)

		for _, b := range postcodes {
			got, err := z.Matches(literal(t, b))
			require.NoError(t, err)
			assert.Equal(t, a == b, got, "zone %q candidate %q", a, b)
		}
	}
}

func TestZoneMatchesAreaMismatchAlwaysFails(t *testing.T) {
	for _, zone := range []string{"B?? ???", "B12 ???", "B12 3??", "B12 3C?", "B12 3CD"} {
		z, err := ParseZone(zone)
		require.NoError(t, err)

		got, err := z.Matches(literal(t, "A12 3CD"))
		require.NoError(t, err)
		assert.False(t, got, "zone %q", zone)
	}
}

func TestZoneMatchesRejectsWildcardCandidate(t *testing.T) {
	z := MustParseZone("B?? ???")

	_, err := z.Matches(MustParseZone("B12 ???").Pattern())

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "candidate", ve.ParamName)

	_, err = z.Matches(Postcode{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestParseZoneErrors(t *testing.T) {
	_, err := ParseZone("B?2 ???")
	assert.ErrorIs(t, err, ErrFormat)

	_, err = ParseZone("not a zone")
	assert.ErrorIs(t, err, ErrFormat)

	assert.Panics(t, func() { MustParseZone("B1? 2CD") })
}

func TestFieldMatchesSingleWildcardPosition(t *testing.T) {
	// A wildcard at one position accepts any literal there while the other
	// positions still have to agree.
	fields := []string{"12", "AB"}
	alphabet := map[string]string{"12": "0123456789", "AB": "ABCDEFGHIJKLMNOPQRSTUVWXYZ"}

	for _, field := range fields {
		for pos := 0; pos < len(field); pos++ {
			pattern := field[:pos] + string(Wildcard) + field[pos+1:]

			for _, c := range alphabet[field] {
				candidate := field[:pos] + string(c) + field[pos+1:]
				assert.True(t, fieldMatches(pattern, candidate), "pattern %q candidate %q", pattern, candidate)
			}

			other := []byte(field)
			other[1-pos] = '9'
			if field == "AB" {
				other[1-pos] = 'Z'
			}
			assert.False(t, fieldMatches(pattern, string(other)), "pattern %q candidate %q", pattern, string(other))
		}
	}
}

func TestFieldMatchesLengthRule(t *testing.T) {
	assert.False(t, fieldMatches("1", "12"))
	assert.False(t, fieldMatches("12", "1"))
	assert.True(t, fieldMatches("?", "12"))
	assert.True(t, fieldMatches("1?", "1"))
	assert.False(t, fieldMatches("2?", "1"))
}
