package dispatch

import (
	"github.com/codenameuriel/exo-intel/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

const (
	MinSpeedPercentage = 1
	MaxSpeedPercentage = 100
)

// decode copies params into out, accepting JSON-ish input ("12" or 12.0 for
// an integer ID). Every tagged field of out is required.
func decode(params domain.Parameters, out any) error {
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Metadata:         &md,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(map[string]any(params)); err != nil {
		return &domain.InvalidInputError{Reason: err.Error()}
	}
	if len(md.Unset) > 0 {
		return domain.Invalid(md.Unset[0], "this field is required")
	}

	switch in := out.(type) {
	case *TravelTimeInput:
		return positiveID("star_system_id", in.StarSystemID)
	case *PlanetInput:
		return positiveID("planet_id", in.PlanetID)
	case *StarInput:
		return positiveID("star_id", in.StarID)
	}
	return nil
}

func positiveID(field string, id int64) error {
	if id <= 0 {
		return domain.Invalid(field, "must be a positive integer")
	}
	return nil
}

// Validate checks params for kind the way the public API does before a task is
// submitted. It is stricter than the engine: speed must lie in [1, 100].
func Validate(kind domain.Kind, params domain.Parameters) error {
	switch kind {
	case domain.KindTravelTime:
		var in TravelTimeInput
		if err := decode(params, &in); err != nil {
			return err
		}
		if in.SpeedPercentage < MinSpeedPercentage || in.SpeedPercentage > MaxSpeedPercentage {
			return domain.Invalid("speed_percentage", "must be between %d and %d", MinSpeedPercentage, MaxSpeedPercentage)
		}
		return nil
	case domain.KindSeasonalTemps, domain.KindTidalLocking:
		return decode(params, &PlanetInput{})
	case domain.KindStarLifetime:
		return decode(params, &StarInput{})
	}
	return &domain.UnknownSimulationKindError{Kind: string(kind)}
}

// toResult flattens an engine result into a domain.Result, dropping nil
// optional fields and dereferencing the rest.
func toResult(v any) (domain.Result, error) {
	out := map[string]any{}
	if err := mapstructure.Decode(v, &out); err != nil {
		return nil, err
	}
	for k, val := range out {
		if p, ok := val.(*float64); ok {
			if p == nil {
				delete(out, k)
				continue
			}
			out[k] = *p
		}
	}
	return domain.Result(out), nil
}
