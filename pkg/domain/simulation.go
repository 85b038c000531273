package domain

import (
	"strings"
)

// Kind tags a simulation type.
type Kind string

const (
	KindTravelTime    Kind = "TRAVEL_TIME"
	KindSeasonalTemps Kind = "SEASONAL_TEMPS"
	KindTidalLocking  Kind = "TIDAL_LOCKING"
	KindStarLifetime  Kind = "STAR_LIFETIME"
)

// Kinds returns every registered simulation kind.
func Kinds() []Kind {
	return []Kind{KindTravelTime, KindSeasonalTemps, KindTidalLocking, KindStarLifetime}
}

// Label is the human-readable name of the kind.
func (k Kind) Label() string {
	switch k {
	case KindTravelTime:
		return "Travel Time"
	case KindSeasonalTemps:
		return "Seasonal Temperatures"
	case KindTidalLocking:
		return "Tidal Locking"
	case KindStarLifetime:
		return "Star Lifetime"
	default:
		return string(k)
	}
}

// ParseKind normalizes s (case-insensitive, '-' accepted for '_') to a Kind.
func ParseKind(s string) (Kind, error) {
	norm := Kind(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	for _, k := range Kinds() {
		if k == norm {
			return k, nil
		}
	}
	return "", &UnknownSimulationKindError{Kind: s}
}

// Parameters are the input parameters of a simulation, captured verbatim.
type Parameters map[string]any

// Result is the structured output of a simulation.
type Result map[string]any

// Outcome is either a success carrying a Result or a failure carrying a reason.
// The zero value is not a valid Outcome.
type Outcome struct {
	result Result
	reason string
	ok     bool
}

// Succeeded builds a success outcome.
func Succeeded(result Result) Outcome {
	return Outcome{result: result, ok: true}
}

// Failed builds a failure outcome.
func Failed(reason string) Outcome {
	return Outcome{reason: reason}
}

// IsSuccess reports whether the outcome is a success.
func (o Outcome) IsSuccess() bool { return o.ok }

// Result returns a copy of the success result (nil for failures).
func (o Outcome) Result() Result {
	if !o.ok {
		return nil
	}
	out := make(Result, len(o.result))
	for k, v := range o.result {
		out[k] = v
	}
	return out
}

// Reason returns the failure reason (empty for successes).
func (o Outcome) Reason() string { return o.reason }

// Status maps the outcome to its terminal run status.
func (o Outcome) Status() RunStatus {
	if o.ok {
		return StatusSuccess
	}
	return StatusFailure
}

// Payload is what gets persisted: the result, or {"error": reason}.
func (o Outcome) Payload() Result {
	if o.ok {
		return o.Result()
	}
	return Result{"error": o.reason}
}
