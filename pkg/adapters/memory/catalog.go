package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/codenameuriel/exo-intel/pkg/domain"
	"github.com/codenameuriel/exo-intel/pkg/habitability"
)

// Catalog implements ports.CatalogStore in memory.
// Safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	systems map[int64]domain.StarSystem
	stars   map[int64]domain.Star
	planets map[int64]domain.Planet
}

// NewCatalog creates an empty in-memory catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		systems: make(map[int64]domain.StarSystem),
		stars:   make(map[int64]domain.Star),
		planets: make(map[int64]domain.Planet),
	}
}

func (c *Catalog) PutStarSystem(ctx context.Context, system domain.StarSystem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.systems[system.ID] = system
	return nil
}

func (c *Catalog) PutStar(ctx context.Context, star domain.Star) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stars[star.ID] = star
	return nil
}

func (c *Catalog) PutPlanet(ctx context.Context, planet domain.Planet) error {
	planet.HostStar = nil
	planet.HabitabilityScore = nil

	c.mu.Lock()
	defer c.mu.Unlock()
	c.planets[planet.ID] = planet
	return nil
}

func (c *Catalog) StarSystem(ctx context.Context, id int64) (domain.StarSystem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.systems[id]
	if !ok {
		return domain.StarSystem{}, domain.ErrNotFound
	}
	return s, nil
}

func (c *Catalog) Star(ctx context.Context, id int64) (domain.Star, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.stars[id]
	if !ok {
		return domain.Star{}, domain.ErrNotFound
	}
	return s, nil
}

func (c *Catalog) Planet(ctx context.Context, id int64) (domain.Planet, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.planets[id]
	if !ok {
		return domain.Planet{}, domain.ErrNotFound
	}
	return c.annotate(p), nil
}

// annotate attaches the host star and habitability score. Caller holds mu.
func (c *Catalog) annotate(p domain.Planet) domain.Planet {
	if star, ok := c.stars[p.HostStarID]; ok {
		p.HostStar = &star
	}
	p.HabitabilityScore = habitability.Score(p.MassEarth, p.RadiusEarth, p.EquilibriumTemperatureK)
	return p
}

func (c *Catalog) ListStarSystems(ctx context.Context, page domain.Page) ([]domain.StarSystem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.StarSystem, 0, len(c.systems))
	for _, s := range c.systems {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b domain.StarSystem) int { return cmp.Compare(a.ID, b.ID) })
	return paginate(out, page), nil
}

func (c *Catalog) ListStars(ctx context.Context, page domain.Page) ([]domain.Star, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Star, 0, len(c.stars))
	for _, s := range c.stars {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b domain.Star) int { return cmp.Compare(a.ID, b.ID) })
	return paginate(out, page), nil
}

func (c *Catalog) ListPlanets(ctx context.Context, filter domain.PlanetFilter) ([]domain.Planet, error) {
	field, desc, err := domain.ParseOrdering(filter.Ordering)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	out := make([]domain.Planet, 0, len(c.planets))
	for _, p := range c.planets {
		p = c.annotate(p)
		if matches(p, filter) {
			out = append(out, p)
		}
	}
	c.mu.RUnlock()

	slices.SortFunc(out, func(a, b domain.Planet) int {
		if n := comparePlanets(a, b, field, desc); n != 0 {
			return n
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return paginate(out, filter.Page), nil
}

func matches(p domain.Planet, f domain.PlanetFilter) bool {
	if f.HabitabilityMin != nil && (p.HabitabilityScore == nil || *p.HabitabilityScore < *f.HabitabilityMin) {
		return false
	}
	if f.HabitabilityMax != nil && (p.HabitabilityScore == nil || *p.HabitabilityScore > *f.HabitabilityMax) {
		return false
	}
	if !inRange(p.RadiusEarth, f.RadiusMin, f.RadiusMax) || !inRange(p.MassEarth, f.MassMin, f.MassMax) {
		return false
	}
	if f.HostStarType != "" {
		if p.HostStar == nil || p.HostStar.SpectralType == nil {
			return false
		}
		if !strings.HasPrefix(strings.ToUpper(*p.HostStar.SpectralType), strings.ToUpper(f.HostStarType)) {
			return false
		}
	}
	return true
}

func inRange(v, lo, hi *float64) bool {
	if lo == nil && hi == nil {
		return true
	}
	if v == nil {
		return false
	}
	return (lo == nil || *v >= *lo) && (hi == nil || *v <= *hi)
}

// comparePlanets orders by field with nulls last in both directions.
func comparePlanets(a, b domain.Planet, field string, desc bool) int {
	if field == "name" {
		n := cmp.Compare(a.Name, b.Name)
		if desc {
			return -n
		}
		return n
	}
	if field == "id" {
		return 0
	}

	av, bv := sortKey(a, field), sortKey(b, field)
	switch {
	case av == nil && bv == nil:
		return 0
	case av == nil:
		return 1
	case bv == nil:
		return -1
	}
	n := cmp.Compare(*av, *bv)
	if desc {
		return -n
	}
	return n
}

func sortKey(p domain.Planet, field string) *float64 {
	switch field {
	case "habitability_score":
		if p.HabitabilityScore == nil {
			return nil
		}
		return domain.Float(float64(*p.HabitabilityScore))
	case "radius_earth":
		return p.RadiusEarth
	case "mass_earth":
		return p.MassEarth
	case "orbital_period_days":
		return p.OrbitalPeriodDays
	}
	return nil
}

func paginate[T any](items []T, page domain.Page) []T {
	page = page.Normalize()
	if page.Offset >= len(items) {
		return []T{}
	}
	end := min(page.Offset+page.Limit, len(items))
	return items[page.Offset:end]
}
