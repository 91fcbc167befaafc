package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"parcel-sorting-service/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed depots.yaml
var defaultDepots []byte

type DepotSpec struct {
	Name  string   `yaml:"name"`
	Zones []string `yaml:"zones"`
}

type depotsFile struct {
	Depots []DepotSpec `yaml:"depots"`
}

// LoadDepots reads depot coverage from path, or the built-in coverage when path is empty.
func LoadDepots(path string) ([]*domain.Depot, error) {
	data := defaultDepots
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load depots: read %q: %w", path, err)
		}
	}

	depots, err := ParseDepots(data)
	if err != nil {
		return nil, fmt.Errorf("load depots: %w", err)
	}
	return depots, nil
}

func ParseDepots(data []byte) ([]*domain.Depot, error) {
	var doc depotsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse depots yaml: %w", err)
	}

	if len(doc.Depots) == 0 {
		return nil, errors.New("parse depots: no depots defined")
	}

	seen := make(map[string]struct{}, len(doc.Depots))
	depots := make([]*domain.Depot, 0, len(doc.Depots))
	for i, spec := range doc.Depots {
		zones := make([]domain.Zone, 0, len(spec.Zones))
		for _, s := range spec.Zones {
			z, err := domain.ParseZone(s)
			if err != nil {
				return nil, fmt.Errorf("parse depots: depot #%d %q: %w", i+1, spec.Name, err)
			}
			zones = append(zones, z)
		}

		depot, err := domain.NewDepot(spec.Name, zones)
		if err != nil {
			return nil, fmt.Errorf("parse depots: depot #%d: %w", i+1, err)
		}

		if _, ok := seen[depot.Name]; ok {
			return nil, fmt.Errorf("parse depots: duplicate depot name %q", depot.Name)
		}
		seen[depot.Name] = struct{}{}

		depots = append(depots, depot)
	}

	return depots, nil
}
