package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"parcel-sorting-service/internal/domain"
	"path/filepath"
	"strings"
)

// JSONFileStore writes each depot to <dir>/<depot name>.json, replacing any
// earlier file for the same depot.
type JSONFileStore struct {
	dir string
}

func NewJSONFileStore(dir string) (*JSONFileStore, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("new json file store: resolve %q: %w", dir, err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("new json file store: create %q: %w", abs, err)
	}

	return &JSONFileStore{dir: abs}, nil
}

func (s *JSONFileStore) Dir() string { return s.dir }

// SaveDepot returns the absolute path of the written file.
func (s *JSONFileStore) SaveDepot(ctx context.Context, depot *domain.Depot) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if depot == nil {
		return "", domain.NewValidationError("depot", "depot is nil")
	}
	if strings.ContainsAny(depot.Name, `/\`) || depot.Name == "." || depot.Name == ".." {
		return "", domain.NewValidationError("depot", fmt.Sprintf("depot name %q cannot be used as a file name", depot.Name))
	}

	data, err := json.Marshal(depot)
	if err != nil {
		return "", fmt.Errorf("save depot %s: encode: %w", depot.Name, err)
	}

	path := filepath.Join(s.dir, depot.Name+".json")

	// Write then rename so readers never see a half-written file.
	tmp, err := os.CreateTemp(s.dir, "."+depot.Name+"-*.json")
	if err != nil {
		return "", fmt.Errorf("save depot %s: create temp file: %w", depot.Name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("save depot %s: write %q: %w", depot.Name, tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("save depot %s: close %q: %w", depot.Name, tmp.Name(), err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("save depot %s: rename to %q: %w", depot.Name, path, err)
	}

	return path, nil
}
