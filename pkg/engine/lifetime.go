package engine

import (
	"math"

	"github.com/codenameuriel/exo-intel/pkg/domain"
	"github.com/codenameuriel/exo-intel/pkg/physics"
)

// StarLifetimeResult is the output of StarLifetime.
type StarLifetimeResult struct {
	StarID           int64            `json:"star_id" mapstructure:"star_id"`
	StarName         string           `json:"star_name" mapstructure:"star_name"`
	MassSun          float64          `json:"mass_sun" mapstructure:"mass_sun"`
	LuminositySun    float64          `json:"luminosity_sun_linear" mapstructure:"luminosity_sun_linear"`
	LuminositySource LuminositySource `json:"luminosity_source" mapstructure:"luminosity_source"`
	LifetimeGyr      float64          `json:"main_sequence_lifetime_gyr" mapstructure:"main_sequence_lifetime_gyr"`
	LifetimeYears    float64          `json:"main_sequence_lifetime_years" mapstructure:"main_sequence_lifetime_years"`
	AgeGya           *float64         `json:"age_gya,omitempty" mapstructure:"age_gya,omitempty"`
	RemainingGyr     *float64         `json:"remaining_gyr,omitempty" mapstructure:"remaining_gyr,omitempty"`
	FractionElapsed  *float64         `json:"fraction_elapsed,omitempty" mapstructure:"fraction_elapsed,omitempty"`
}

// StarLifetime estimates the main-sequence lifetime of a star as
//
//	t = t_sun * (M / M_sun) / (L / L_sun)
//
// using the observed luminosity when known and L ~ M^3.5 otherwise.
// A missing or non-positive mass is reported as missing data; a negative age
// or a luminosity that drives any figure out of range is invalid input.
func StarLifetime(star domain.Star) (StarLifetimeResult, error) {
	if err := domain.Require("star", domain.F("mass_sun", star.MassSun)); err != nil {
		return StarLifetimeResult{}, err
	}
	mass := *star.MassSun
	if math.IsNaN(mass) || mass <= 0 {
		return StarLifetimeResult{}, &domain.MissingDataError{Entity: "star", Fields: []string{"mass_sun"}}
	}

	lum := math.Pow(mass, physics.MassLuminosityExponent)
	source := LuminosityMassRelation
	if star.LuminositySun != nil {
		lum = math.Pow(10, *star.LuminositySun)
		source = LuminosityObserved
	}
	if err := finite("luminosity_sun", lum); err != nil {
		return StarLifetimeResult{}, err
	}
	if err := nonZero("luminosity_sun", lum); err != nil {
		return StarLifetimeResult{}, err
	}

	gyr := physics.SolarMainSequenceLifetimeGyr * mass / lum
	if err := finite("main_sequence_lifetime_gyr", gyr); err != nil {
		return StarLifetimeResult{}, err
	}
	if err := nonZero("main_sequence_lifetime_gyr", gyr); err != nil {
		return StarLifetimeResult{}, err
	}
	years := gyr * physics.YearsPerGigayear
	if err := finite("main_sequence_lifetime_years", years); err != nil {
		return StarLifetimeResult{}, err
	}

	res := StarLifetimeResult{
		StarID:           star.ID,
		StarName:         star.Name,
		MassSun:          mass,
		LuminositySun:    lum,
		LuminositySource: source,
		LifetimeGyr:      gyr,
		LifetimeYears:    years,
	}

	if star.AgeGya != nil {
		age := *star.AgeGya
		if math.IsNaN(age) || age < 0 {
			return StarLifetimeResult{}, domain.Invalid("age_gya", "must be non-negative")
		}
		remaining := math.Max(0, gyr-age)
		elapsed := age / gyr
		if err := finite("fraction_elapsed", elapsed); err != nil {
			return StarLifetimeResult{}, err
		}
		res.AgeGya = &age
		res.RemainingGyr = &remaining
		res.FractionElapsed = &elapsed
	}
	return res, nil
}
