// Package fixtures loads catalog seed data (star systems, stars and planets)
// from a YAML or JSON file and writes it through a ports.CatalogWriter.
package fixtures

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/codenameuriel/exo-intel/pkg/domain"
	"github.com/codenameuriel/exo-intel/pkg/ports"
	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of a catalog fixture.
type File struct {
	StarSystems []domain.StarSystem `yaml:"star_systems" json:"star_systems"`
	Stars       []domain.Star       `yaml:"stars" json:"stars"`
	Planets     []domain.Planet     `yaml:"planets" json:"planets"`
}

// Summary counts the records written by Apply.
type Summary struct {
	StarSystems int
	Stars       int
	Planets     int
}

// Load reads path, choosing the decoder by extension (.json, otherwise YAML),
// and validates the result.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to read fixture: %w", err)
	}

	var f File
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &f); err != nil {
			return File{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		if err := yaml.Unmarshal(data, &f); err != nil {
			return File{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// Validate checks identities inside the file. References may point at rows
// already in the target catalog, so they are only required to be set; the SQL
// store enforces them with foreign keys.
func (f File) Validate() error {
	var errs []error
	check := func(kind string, id int64, name string, seen map[int64]bool) {
		switch {
		case id <= 0:
			errs = append(errs, fmt.Errorf("%s %q: id must be positive", kind, name))
		case seen[id]:
			errs = append(errs, fmt.Errorf("%s %d: duplicate id", kind, id))
		case strings.TrimSpace(name) == "":
			errs = append(errs, fmt.Errorf("%s %d: name is required", kind, id))
		}
		seen[id] = true
	}

	seen := map[int64]bool{}
	for _, s := range f.StarSystems {
		check("star system", s.ID, s.Name, seen)
	}
	seen = map[int64]bool{}
	for _, s := range f.Stars {
		check("star", s.ID, s.Name, seen)
		if s.SystemID <= 0 {
			errs = append(errs, fmt.Errorf("star %d: system_id is required", s.ID))
		}
	}
	seen = map[int64]bool{}
	for _, p := range f.Planets {
		check("planet", p.ID, p.Name, seen)
		if p.HostStarID <= 0 {
			errs = append(errs, fmt.Errorf("planet %d: host_star_id is required", p.ID))
		}
	}
	return errors.Join(errs...)
}

// Apply writes systems, then stars, then planets so references resolve in
// order. It stops at the first failure.
func (f File) Apply(ctx context.Context, w ports.CatalogWriter) (Summary, error) {
	var sum Summary
	for _, s := range f.StarSystems {
		if err := w.PutStarSystem(ctx, s); err != nil {
			return sum, fmt.Errorf("failed to write star system %d: %w", s.ID, err)
		}
		sum.StarSystems++
	}
	for _, s := range f.Stars {
		if err := w.PutStar(ctx, s); err != nil {
			return sum, fmt.Errorf("failed to write star %d: %w", s.ID, err)
		}
		sum.Stars++
	}
	for _, p := range f.Planets {
		if err := w.PutPlanet(ctx, p); err != nil {
			return sum, fmt.Errorf("failed to write planet %d: %w", p.ID, err)
		}
		sum.Planets++
	}
	return sum, nil
}
