package config

import (
	"os"
	"path/filepath"
	"testing"

	"parcel-sorting-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDepotsDefault(t *testing.T) {
	depots, err := LoadDepots("")
	require.NoError(t, err)
	require.Len(t, depots, 3)

	names := []string{depots[0].Name, depots[1].Name, depots[2].Name}
	assert.Equal(t, []string{"Birmingham", "Leeds", "Wakefield"}, names)

	wf16, err := domain.ParseLiteralPostcode("WF16 7QE")
	require.NoError(t, err)

	leeds, err := depots[1].Covers(wf16)
	require.NoError(t, err)
	assert.True(t, leeds)

	wakefield, err := depots[2].Covers(wf16)
	require.NoError(t, err)
	assert.False(t, wakefield)
}

func TestLoadDepotsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "depots.yaml")
	require.NoError(t, os.WriteFile(path, []byte("depots:\n  - name: Hull\n    zones: [\"HU? ???\"]\n"), 0o600))

	depots, err := LoadDepots(path)
	require.NoError(t, err)
	require.Len(t, depots, 1)
	assert.Equal(t, "Hull", depots[0].Name)
	assert.Equal(t, "HU? ???", depots[0].Coverage[0].String())
}

func TestParseDepotsErrors(t *testing.T) {
	cases := map[string]string{
		"empty":          "depots: []\n",
		"bad zone":       "depots:\n  - name: X\n    zones: [\"B?2 ???\"]\n",
		"no name":        "depots:\n  - name: \" \"\n    zones: [\"B?? ???\"]\n",
		"duplicate name": "depots:\n  - name: X\n    zones: []\n  - name: X\n    zones: []\n",
		"not yaml":       "depots: [",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDepots([]byte(body))
			assert.Error(t, err)
		})
	}

	_, err := ParseDepots([]byte("depots:\n  - name: X\n    zones: [\"B?2 ???\"]\n"))
	assert.ErrorIs(t, err, domain.ErrFormat)
}

func TestLoadDepotsMissingFile(t *testing.T) {
	_, err := LoadDepots(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
