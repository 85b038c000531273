package engine

import (
	"math"

	"github.com/codenameuriel/exo-intel/pkg/domain"
	"github.com/codenameuriel/exo-intel/pkg/physics"
)

// LuminositySource records how a star's luminosity was determined.
type LuminositySource string

const (
	LuminosityObserved        LuminositySource = "observed"
	LuminosityStefanBoltzmann LuminositySource = "stefan_boltzmann"
	LuminosityMassRelation    LuminositySource = "mass_luminosity_relation"
)

// SeasonalTemperaturesResult is the output of SeasonalTemperatures.
type SeasonalTemperaturesResult struct {
	PlanetID               int64            `json:"planet_id" mapstructure:"planet_id"`
	PlanetName             string           `json:"planet_name" mapstructure:"planet_name"`
	SemiMajorAxisAU        float64          `json:"semi_major_axis_au" mapstructure:"semi_major_axis_au"`
	OrbitalEccentricity    float64          `json:"orbital_eccentricity" mapstructure:"orbital_eccentricity"`
	PeriastronDistanceAU   float64          `json:"periastron_distance_au" mapstructure:"periastron_distance_au"`
	ApoastronDistanceAU    float64          `json:"apoastron_distance_au" mapstructure:"apoastron_distance_au"`
	StarLuminosityWatts    float64          `json:"star_luminosity_watts" mapstructure:"star_luminosity_watts"`
	LuminositySource       LuminositySource `json:"luminosity_source" mapstructure:"luminosity_source"`
	Albedo                 float64          `json:"albedo" mapstructure:"albedo"`
	PeriastronTempK        Kelvin           `json:"periastron_temp_k" mapstructure:"periastron_temp_k"`
	ApoastronTempK         Kelvin           `json:"apoastron_temp_k" mapstructure:"apoastron_temp_k"`
	SeasonalTempDifference Kelvin           `json:"seasonal_temp_difference_k" mapstructure:"seasonal_temp_difference_k"`
}

// StarLuminosity resolves the star's bolometric luminosity in watts.
// The log10 solar luminosity wins when present; otherwise radius and
// effective temperature feed the Stefan-Boltzmann law.
func StarLuminosity(star domain.Star) (float64, LuminositySource, error) {
	if star.LuminositySun != nil {
		l := math.Pow(10, *star.LuminositySun) * physics.SolarLuminosity
		if err := finite("luminosity_sun", l); err != nil {
			return 0, "", err
		}
		return l, LuminosityObserved, nil
	}

	if star.RadiusSun == nil || star.EffectiveTemperatureK == nil {
		// Luminosity is nil here, so it is always listed alongside the others.
		return 0, "", domain.Require("host star",
			domain.F("luminosity_sun", star.LuminositySun),
			domain.F("radius_sun", star.RadiusSun),
			domain.F("effective_temperature_k", star.EffectiveTemperatureK),
		)
	}

	radius := *star.RadiusSun * physics.SolarRadius
	temp := *star.EffectiveTemperatureK
	l := 4 * math.Pi * radius * radius * physics.StefanBoltzmann * math.Pow(temp, 4)
	if err := finite("star_luminosity_watts", l); err != nil {
		return 0, "", err
	}
	return l, LuminosityStefanBoltzmann, nil
}

// FluxAt is the stellar flux in W/m^2 at distance d meters.
// A non-positive distance yields +Inf.
func FluxAt(luminosity, d float64) float64 {
	if d <= 0 {
		return math.Inf(1)
	}
	return luminosity / (4 * math.Pi * d * d)
}

// EquilibriumTemperature converts an incident flux to a radiative-balance
// temperature with the fixed Bond albedo.
func EquilibriumTemperature(flux float64) float64 {
	if math.IsInf(flux, 1) {
		return math.Inf(1)
	}
	return math.Pow(flux*(1-physics.BondAlbedo)/(4*physics.StefanBoltzmann), 0.25)
}

// TemperatureAt is EquilibriumTemperature(FluxAt(luminosity, d)).
func TemperatureAt(luminosity, d float64) float64 {
	return EquilibriumTemperature(FluxAt(luminosity, d))
}

// SeasonalTemperatures computes the equilibrium temperature at the closest
// and farthest points of the planet's orbit.
func SeasonalTemperatures(planet domain.Planet, star domain.Star) (SeasonalTemperaturesResult, error) {
	if err := domain.Require("planet",
		domain.F("semi_major_axis_au", planet.SemiMajorAxisAU),
		domain.F("orbital_eccentricity", planet.OrbitalEccentricity),
	); err != nil {
		return SeasonalTemperaturesResult{}, err
	}

	a := *planet.SemiMajorAxisAU
	e := *planet.OrbitalEccentricity
	if math.IsNaN(a) || math.IsInf(a, 0) || a < 0 {
		return SeasonalTemperaturesResult{}, domain.Invalid("semi_major_axis_au", "must be a finite, non-negative number")
	}
	if math.IsNaN(e) || e < 0 || e >= 1 {
		return SeasonalTemperaturesResult{}, domain.Invalid("orbital_eccentricity", "must satisfy 0 <= e < 1")
	}

	luminosity, source, err := StarLuminosity(star)
	if err != nil {
		return SeasonalTemperaturesResult{}, err
	}

	periAU := a * (1 - e)
	apoAU := a * (1 + e)
	periM := periAU * physics.AstronomicalUnit
	apoM := apoAU * physics.AstronomicalUnit

	peri := TemperatureAt(luminosity, periM)
	apo := TemperatureAt(luminosity, apoM)
	if periM > 0 {
		if err := finite("periastron_temp_k", peri); err != nil {
			return SeasonalTemperaturesResult{}, err
		}
	}
	if apoM > 0 {
		if err := finite("apoastron_temp_k", apo); err != nil {
			return SeasonalTemperaturesResult{}, err
		}
	}

	diff := 0.0
	if peri != apo {
		diff = peri - apo
	}

	return SeasonalTemperaturesResult{
		PlanetID:               planet.ID,
		PlanetName:             planet.Name,
		SemiMajorAxisAU:        a,
		OrbitalEccentricity:    e,
		PeriastronDistanceAU:   periAU,
		ApoastronDistanceAU:    apoAU,
		StarLuminosityWatts:    luminosity,
		LuminositySource:       source,
		Albedo:                 physics.BondAlbedo,
		PeriastronTempK:        Kelvin(peri),
		ApoastronTempK:         Kelvin(apo),
		SeasonalTempDifference: Kelvin(diff),
	}, nil
}
