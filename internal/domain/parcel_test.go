package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParcel(t *testing.T) {
	dest := literal(t, "B12 3CD")
	date := time.Date(2020, 5, 1, 9, 0, 0, 0, time.UTC)

	t.Run("valid", func(t *testing.T) {
		p, err := NewParcel(0, date, dest)
		require.NoError(t, err)

		assert.Equal(t, 0, p.ID)
		assert.Nil(t, p.Route)
		assert.Nil(t, p.ETA)
	})

	t.Run("negative id", func(t *testing.T) {
		_, err := NewParcel(-1, date, dest)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("zero date", func(t *testing.T) {
		_, err := NewParcel(1, time.Time{}, dest)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("wildcard destination", func(t *testing.T) {
		_, err := NewParcel(1, date, MustParseZone("B?? ???").Pattern())
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestParcelDueOn(t *testing.T) {
	query := time.Date(2020, 5, 1, 1, 0, 0, 0, time.Local)
	dest := literal(t, "B12 3CD")

	late, err := NewParcel(1, time.Date(2020, 5, 1, 23, 0, 0, 0, time.Local), dest)
	require.NoError(t, err)
	assert.True(t, late.DueOn(query))

	nextDay, err := NewParcel(2, time.Date(2020, 5, 2, 0, 1, 0, 0, time.Local), dest)
	require.NoError(t, err)
	assert.False(t, nextDay.DueOn(query))
}

func TestParcelApplyRouteDetails(t *testing.T) {
	p, err := NewParcel(3, time.Now(), literal(t, "DY1 1AA"))
	require.NoError(t, err)

	eta := time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC)
	p.ApplyRouteDetails(RouteDetails{Route: "R1", ETA: eta})

	require.NotNil(t, p.Route)
	require.NotNil(t, p.ETA)
	assert.Equal(t, "R1", *p.Route)
	assert.True(t, p.ETA.Equal(eta))
}
