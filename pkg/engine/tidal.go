package engine

import (
	"fmt"
	"math"

	"github.com/codenameuriel/exo-intel/pkg/domain"
	"github.com/codenameuriel/exo-intel/pkg/physics"
	"github.com/dustin/go-humanize"
)

// TidalLockingResult is the output of TidalLocking.
type TidalLockingResult struct {
	PlanetID              int64   `json:"planet_id" mapstructure:"planet_id"`
	PlanetName            string  `json:"planet_name" mapstructure:"planet_name"`
	IsLikelyTidallyLocked bool    `json:"is_likely_tidally_locked" mapstructure:"is_likely_tidally_locked"`
	LockingTimescaleYears float64 `json:"locking_timescale_years" mapstructure:"locking_timescale_years"`
	StarAgeYears          float64 `json:"star_age_years" mapstructure:"star_age_years"`
	Conclusion            string  `json:"conclusion" mapstructure:"conclusion"`
}

// TidalLocking estimates whether the planet has had time to become tidally
// locked to its host star, comparing a simplified locking timescale
//
//	t = k * a^6 * m / (M^2 * r^3)
//
// against the star's age.
func TidalLocking(planet domain.Planet, star domain.Star) (TidalLockingResult, error) {
	if err := domain.Require("planet",
		domain.F("mass_earth", planet.MassEarth),
		domain.F("radius_earth", planet.RadiusEarth),
		domain.F("semi_major_axis_au", planet.SemiMajorAxisAU),
		domain.F("host_star.mass_sun", star.MassSun),
		domain.F("host_star.age_gya", star.AgeGya),
	); err != nil {
		return TidalLockingResult{}, err
	}

	timescale, err := LockingTimescaleYears(*planet.MassEarth, *planet.RadiusEarth, *planet.SemiMajorAxisAU, *star.MassSun)
	if err != nil {
		return TidalLockingResult{}, err
	}

	age := *star.AgeGya
	if math.IsNaN(age) || age < 0 {
		return TidalLockingResult{}, domain.Invalid("age_gya", "must be non-negative")
	}
	ageYears := age * physics.YearsPerGigayear
	if err := finite("star_age_years", ageYears); err != nil {
		return TidalLockingResult{}, err
	}

	locked := timescale < ageYears
	return TidalLockingResult{
		PlanetID:              planet.ID,
		PlanetName:            planet.Name,
		IsLikelyTidallyLocked: locked,
		LockingTimescaleYears: timescale,
		StarAgeYears:          ageYears,
		Conclusion:            conclusion(locked, timescale, ageYears),
	}, nil
}

// LockingTimescaleYears evaluates the lumped tidal locking formula with
// masses in kg, the planet radius in meters and the orbit in meters.
func LockingTimescaleYears(massEarth, radiusEarth, semiMajorAxisAU, starMassSun float64) (float64, error) {
	switch {
	case math.IsNaN(massEarth) || massEarth < 0:
		return 0, domain.Invalid("mass_earth", "must be non-negative")
	case math.IsNaN(semiMajorAxisAU) || semiMajorAxisAU < 0:
		return 0, domain.Invalid("semi_major_axis_au", "must be non-negative")
	case math.IsNaN(radiusEarth) || radiusEarth < 0:
		return 0, domain.Invalid("radius_earth", "must be positive")
	case math.IsNaN(starMassSun) || starMassSun < 0:
		return 0, domain.Invalid("mass_sun", "must be positive")
	}
	if err := nonZero("radius_earth", radiusEarth); err != nil {
		return 0, err
	}
	if err := nonZero("mass_sun", starMassSun); err != nil {
		return 0, err
	}

	d := semiMajorAxisAU * physics.AstronomicalUnit
	m := massEarth * physics.EarthMass
	r := radiusEarth * physics.EarthRadius
	M := starMassSun * physics.SolarMass

	t := physics.TidalRigidityConstant * math.Pow(d, 6) * m / (M * M * r * r * r)
	if err := finite("locking_timescale_years", t); err != nil {
		return 0, err
	}
	return t, nil
}

func conclusion(locked bool, timescale, age float64) string {
	ts := humanize.Commaf(math.Round(timescale))
	ag := humanize.Commaf(math.Round(age))
	if locked {
		return fmt.Sprintf("Likely tidally locked: the locking timescale of %s years is shorter than the star's age of %s years.", ts, ag)
	}
	return fmt.Sprintf("Not likely tidally locked: the locking timescale of %s years exceeds the star's age of %s years.", ts, ag)
}
