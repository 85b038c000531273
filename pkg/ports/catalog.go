package ports

import (
	"context"

	"github.com/codenameuriel/exo-intel/pkg/domain"
)

// CatalogReader resolves single catalog entities by ID.
// Lookups of unknown IDs return domain.ErrNotFound.
type CatalogReader interface {
	StarSystem(ctx context.Context, id int64) (domain.StarSystem, error)
	Star(ctx context.Context, id int64) (domain.Star, error)
	// Planet returns the planet with HostStar populated.
	Planet(ctx context.Context, id int64) (domain.Planet, error)
}

// Catalog is the read side of the exoplanet catalog.
type Catalog interface {
	CatalogReader

	ListStarSystems(ctx context.Context, page domain.Page) ([]domain.StarSystem, error)
	ListStars(ctx context.Context, page domain.Page) ([]domain.Star, error)
	// ListPlanets returns planets annotated with their habitability score.
	ListPlanets(ctx context.Context, filter domain.PlanetFilter) ([]domain.Planet, error)
}

// CatalogWriter upserts catalog entities by ID.
type CatalogWriter interface {
	PutStarSystem(ctx context.Context, system domain.StarSystem) error
	PutStar(ctx context.Context, star domain.Star) error
	PutPlanet(ctx context.Context, planet domain.Planet) error
}

// CatalogStore is a catalog that can also be loaded.
type CatalogStore interface {
	Catalog
	CatalogWriter
}
