package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"parcel-sorting-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func syncedDepot(t *testing.T) *domain.Depot {
	t.Helper()

	depot, err := domain.NewDepot("Birmingham", []domain.Zone{domain.MustParseZone("B?? ???")})
	require.NoError(t, err)

	dest, err := domain.ParseLiteralPostcode("B12 3CD")
	require.NoError(t, err)

	parcel, err := domain.NewParcel(1, time.Date(2020, 5, 1, 9, 0, 0, 0, time.UTC), dest)
	require.NoError(t, err)
	parcel.ApplyRouteDetails(domain.RouteDetails{Route: "R1", ETA: time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC)})

	depot.Assign(parcel)
	return depot
}

func TestJSONFileStoreSaveDepot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	store, err := NewJSONFileStore(dir)
	require.NoError(t, err)

	path, err := store.SaveDepot(context.Background(), syncedDepot(t))
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, filepath.Join(store.Dir(), "Birmingham.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "Birmingham", doc["name"])
	assert.Equal(t, []any{"B?? ???"}, doc["coveredPostcodes"])

	parcels := doc["parcels"].([]any)
	require.Len(t, parcels, 1)
	p := parcels[0].(map[string]any)
	assert.Equal(t, float64(1), p["number"])
	assert.Equal(t, "B12 3CD", p["postcode"])
	assert.Equal(t, "R1", p["route"])
	assert.Equal(t, "2020-01-01T10:00:00Z", p["eta"])

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestJSONFileStoreOverwrites(t *testing.T) {
	store, err := NewJSONFileStore(t.TempDir())
	require.NoError(t, err)

	depot := syncedDepot(t)
	_, err = store.SaveDepot(context.Background(), depot)
	require.NoError(t, err)

	depot.Clear()
	path, err := store.SaveDepot(context.Background(), depot)
	require.NoError(t, err)

	var saved domain.Depot
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Empty(t, saved.Parcels)
}

func TestJSONFileStoreRejectsUnsafeNames(t *testing.T) {
	store, err := NewJSONFileStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"../escape", "a/b", ".."} {
		_, err := store.SaveDepot(context.Background(), &domain.Depot{Name: name})
		assert.ErrorIs(t, err, domain.ErrValidation, name)
	}

	_, err = store.SaveDepot(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
