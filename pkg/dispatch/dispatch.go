// Package dispatch maps simulation kinds to executable simulations.
//
// Each simulation decodes its loosely typed parameters (as received from JSON)
// into a typed input, loads the catalog entities it needs and hands them to the
// engine. Results come back as a flat domain.Result keyed by the engine's
// mapstructure tags.
package dispatch

import (
	"context"
	"fmt"

	"github.com/codenameuriel/exo-intel/pkg/domain"
	"github.com/codenameuriel/exo-intel/pkg/engine"
	"github.com/codenameuriel/exo-intel/pkg/ports"
)

// Simulation executes one simulation kind.
type Simulation func(ctx context.Context, params domain.Parameters) (domain.Result, error)

// TravelTimeInput is the parameter shape of TRAVEL_TIME.
type TravelTimeInput struct {
	StarSystemID    int64   `mapstructure:"star_system_id"`
	SpeedPercentage float64 `mapstructure:"speed_percentage"`
}

// PlanetInput is the parameter shape of SEASONAL_TEMPS and TIDAL_LOCKING.
type PlanetInput struct {
	PlanetID int64 `mapstructure:"planet_id"`
}

// StarInput is the parameter shape of STAR_LIFETIME.
type StarInput struct {
	StarID int64 `mapstructure:"star_id"`
}

// Dispatcher resolves kinds against a catalog.
type Dispatcher struct {
	catalog ports.CatalogReader
}

// New creates a dispatcher reading entities from catalog.
func New(catalog ports.CatalogReader) *Dispatcher {
	return &Dispatcher{catalog: catalog}
}

// Resolve returns the simulation for kind. Adding a Kind without a case here
// fails TestResolve_EveryKind.
func (d *Dispatcher) Resolve(kind domain.Kind) (Simulation, error) {
	switch kind {
	case domain.KindTravelTime:
		return d.travelTime, nil
	case domain.KindSeasonalTemps:
		return d.seasonalTemps, nil
	case domain.KindTidalLocking:
		return d.tidalLocking, nil
	case domain.KindStarLifetime:
		return d.starLifetime, nil
	}
	return nil, &domain.UnknownSimulationKindError{Kind: string(kind)}
}

// Run resolves kind and executes it.
func (d *Dispatcher) Run(ctx context.Context, kind domain.Kind, params domain.Parameters) (domain.Result, error) {
	sim, err := d.Resolve(kind)
	if err != nil {
		return nil, err
	}
	return sim(ctx, params)
}

func (d *Dispatcher) travelTime(ctx context.Context, params domain.Parameters) (domain.Result, error) {
	var in TravelTimeInput
	if err := decode(params, &in); err != nil {
		return nil, err
	}
	system, err := d.catalog.StarSystem(ctx, in.StarSystemID)
	if err != nil {
		return nil, fmt.Errorf("star system %d: %w", in.StarSystemID, err)
	}
	res, err := engine.TravelTime(system, in.SpeedPercentage)
	if err != nil {
		return nil, err
	}
	return toResult(res)
}

func (d *Dispatcher) seasonalTemps(ctx context.Context, params domain.Parameters) (domain.Result, error) {
	planet, star, err := d.planetWithHost(ctx, params)
	if err != nil {
		return nil, err
	}
	res, err := engine.SeasonalTemperatures(planet, star)
	if err != nil {
		return nil, err
	}
	return toResult(res)
}

func (d *Dispatcher) tidalLocking(ctx context.Context, params domain.Parameters) (domain.Result, error) {
	planet, star, err := d.planetWithHost(ctx, params)
	if err != nil {
		return nil, err
	}
	res, err := engine.TidalLocking(planet, star)
	if err != nil {
		return nil, err
	}
	return toResult(res)
}

func (d *Dispatcher) starLifetime(ctx context.Context, params domain.Parameters) (domain.Result, error) {
	var in StarInput
	if err := decode(params, &in); err != nil {
		return nil, err
	}
	star, err := d.catalog.Star(ctx, in.StarID)
	if err != nil {
		return nil, fmt.Errorf("star %d: %w", in.StarID, err)
	}
	res, err := engine.StarLifetime(star)
	if err != nil {
		return nil, err
	}
	return toResult(res)
}

func (d *Dispatcher) planetWithHost(ctx context.Context, params domain.Parameters) (domain.Planet, domain.Star, error) {
	var in PlanetInput
	if err := decode(params, &in); err != nil {
		return domain.Planet{}, domain.Star{}, err
	}
	planet, err := d.catalog.Planet(ctx, in.PlanetID)
	if err != nil {
		return domain.Planet{}, domain.Star{}, fmt.Errorf("planet %d: %w", in.PlanetID, err)
	}
	if planet.HostStar != nil {
		return planet, *planet.HostStar, nil
	}
	star, err := d.catalog.Star(ctx, planet.HostStarID)
	if err != nil {
		return domain.Planet{}, domain.Star{}, fmt.Errorf("host star %d: %w", planet.HostStarID, err)
	}
	return planet, star, nil
}
