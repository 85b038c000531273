package engine

import (
	"math"

	"github.com/codenameuriel/exo-intel/pkg/domain"
	"github.com/codenameuriel/exo-intel/pkg/physics"
)

// TravelTimeResult is the output of TravelTime.
type TravelTimeResult struct {
	StarSystemID       int64   `json:"star_system_id" mapstructure:"star_system_id"`
	StarSystemName     string  `json:"star_system_name" mapstructure:"star_system_name"`
	DistanceParsecs    float64 `json:"distance_parsecs" mapstructure:"distance_parsecs"`
	DistanceLightYears float64 `json:"distance_light_years" mapstructure:"distance_light_years"`
	SpeedPercentageC   float64 `json:"travel_speed_percentage_c" mapstructure:"travel_speed_percentage_c"`
	TravelTimeYears    float64 `json:"travel_time_years" mapstructure:"travel_time_years"`
}

// TravelTime computes how long a trip to the system takes at speedPercentage
// of the speed of light. The result is rounded to two decimals.
func TravelTime(system domain.StarSystem, speedPercentage float64) (TravelTimeResult, error) {
	if err := domain.Require("star system", domain.F("distance_parsecs", system.DistanceParsecs)); err != nil {
		return TravelTimeResult{}, err
	}
	years, err := TravelTimeYears(*system.DistanceParsecs, speedPercentage)
	if err != nil {
		return TravelTimeResult{}, err
	}
	return TravelTimeResult{
		StarSystemID:       system.ID,
		StarSystemName:     system.Name,
		DistanceParsecs:    *system.DistanceParsecs,
		DistanceLightYears: *system.DistanceParsecs * physics.ParsecToLightYear,
		SpeedPercentageC:   speedPercentage,
		TravelTimeYears:    years,
	}, nil
}

// TravelTimeYears is the scalar core of TravelTime.
func TravelTimeYears(distanceParsecs, speedPercentage float64) (float64, error) {
	if math.IsNaN(distanceParsecs) || math.IsInf(distanceParsecs, 0) || distanceParsecs < 0 {
		return 0, domain.Invalid("distance_parsecs", "must be a finite, non-negative number")
	}
	if math.IsNaN(speedPercentage) || !(speedPercentage > 0 && speedPercentage <= 100) {
		return 0, domain.Invalid("speed_percentage", "must be greater than 0 and at most 100")
	}

	distanceLY := distanceParsecs * physics.ParsecToLightYear
	years := distanceLY / (speedPercentage / 100)
	if err := finite("travel_time_years", years); err != nil {
		return 0, err
	}
	return round(years, 2), nil
}
