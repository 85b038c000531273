package engine

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/codenameuriel/exo-intel/pkg/domain"
)

// Kelvin is a temperature that may legitimately be +Inf (zero orbital distance).
// It marshals infinities as the JSON string "Infinity".
type Kelvin float64

// MarshalJSON implements json.Marshaler.
func (k Kelvin) MarshalJSON() ([]byte, error) {
	v := float64(k)
	switch {
	case math.IsInf(v, 1):
		return []byte(`"Infinity"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Infinity"`), nil
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	}
	return json.Marshal(v)
}

// String formats the temperature with two decimals.
func (k Kelvin) String() string {
	return strconv.FormatFloat(float64(k), 'f', 2, 64) + " K"
}

func finite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return domain.Invalid(field, "computation produced a non-finite value")
	}
	return nil
}

func nonZero(field string, v float64) error {
	if v == 0 {
		return domain.Invalid(field, "must be non-zero")
	}
	return nil
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
