package domain

import (
	"slices"
	"strings"
)

// StarSystem is a read-only view of a star system record.
type StarSystem struct {
	ID              int64    `json:"id" yaml:"id" db:"id"`
	Name            string   `json:"name" yaml:"name" db:"name"`
	NumStars        *int     `json:"num_stars" yaml:"num_stars" db:"num_stars"`
	NumPlanets      *int     `json:"num_planets" yaml:"num_planets" db:"num_planets"`
	DistanceParsecs *float64 `json:"distance_parsecs" yaml:"distance_parsecs" db:"distance_parsecs"`
	RA              *float64 `json:"ra" yaml:"ra" db:"ra_deg"`
	Dec             *float64 `json:"dec" yaml:"dec" db:"dec_deg"`
}

// Star is a read-only view of a star record.
// LuminositySun is log10 of the luminosity in solar units.
type Star struct {
	ID                    int64    `json:"id" yaml:"id" db:"id"`
	SystemID              int64    `json:"system_id" yaml:"system_id" db:"system_id"`
	Name                  string   `json:"name" yaml:"name" db:"name"`
	SpectralType          *string  `json:"spectral_type" yaml:"spectral_type" db:"spectral_type"`
	MassSun               *float64 `json:"mass_sun" yaml:"mass_sun" db:"mass_sun"`
	RadiusSun             *float64 `json:"radius_sun" yaml:"radius_sun" db:"radius_sun"`
	EffectiveTemperatureK *float64 `json:"effective_temperature_k" yaml:"effective_temperature_k" db:"effective_temperature_k"`
	LuminositySun         *float64 `json:"luminosity_sun" yaml:"luminosity_sun" db:"luminosity_sun"`
	AgeGya                *float64 `json:"age_gya" yaml:"age_gya" db:"age_gya"`
}

// Planet is a read-only view of a planet record.
// HostStar is populated by catalogs that join the owning star.
type Planet struct {
	ID                      int64    `json:"id" yaml:"id" db:"id"`
	HostStarID              int64    `json:"host_star_id" yaml:"host_star_id" db:"host_star_id"`
	Name                    string   `json:"name" yaml:"name" db:"name"`
	MassEarth               *float64 `json:"mass_earth" yaml:"mass_earth" db:"mass_earth"`
	RadiusEarth             *float64 `json:"radius_earth" yaml:"radius_earth" db:"radius_earth"`
	EquilibriumTemperatureK *float64 `json:"equilibrium_temperature_k" yaml:"equilibrium_temperature_k" db:"equilibrium_temperature_k"`
	SemiMajorAxisAU         *float64 `json:"semi_major_axis_au" yaml:"semi_major_axis_au" db:"semi_major_axis_au"`
	OrbitalEccentricity     *float64 `json:"orbital_eccentricity" yaml:"orbital_eccentricity" db:"orbital_eccentricity"`
	OrbitalPeriodDays       *float64 `json:"orbital_period_days" yaml:"orbital_period_days" db:"orbital_period_days"`

	HostStar          *Star `json:"-" yaml:"-" db:"-"`
	HabitabilityScore *int  `json:"habitability_score" yaml:"-" db:"habitability_score"`
}

// PlanetFilter narrows planet listings. Nil bounds are ignored.
type PlanetFilter struct {
	HabitabilityMin *int
	HabitabilityMax *int
	RadiusMin       *float64
	RadiusMax       *float64
	MassMin         *float64
	MassMax         *float64
	// HostStarType matches the leading letter(s) of the host star's spectral type.
	HostStarType string
	// Ordering is one of PlanetOrderings; a leading '-' sorts descending.
	Ordering string
	Page
}

// PlanetOrderings lists the accepted PlanetFilter.Ordering fields.
var PlanetOrderings = []string{"habitability_score", "radius_earth", "mass_earth", "orbital_period_days", "name"}

// Float returns a pointer to v. Handy for building optional scalars.
func Float(v float64) *float64 { return &v }

// Field names one optional scalar for precondition checks.
type Field struct {
	Name  string
	Value *float64
}

// F builds a Field.
func F(name string, value *float64) Field {
	return Field{Name: name, Value: value}
}

// Require returns a *MissingDataError listing every nil field, or nil if all are present.
func Require(entity string, fields ...Field) error {
	var missing []string
	for _, f := range fields {
		if f.Value == nil {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &MissingDataError{Entity: entity, Fields: missing}
}

// Page bounds a listing. A zero Limit means the adapter default.
type Page struct {
	Limit  int
	Offset int
}

// DefaultPageSize is used when a listing does not specify a limit.
const DefaultPageSize = 100

// Normalize applies the default limit and clamps negatives.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// ParseOrdering splits an ordering such as "-habitability_score" into its
// field and direction. An empty ordering sorts by ID.
func ParseOrdering(s string) (field string, desc bool, err error) {
	if s == "" {
		return "id", false, nil
	}
	field, desc = strings.CutPrefix(s, "-")
	if !slices.Contains(PlanetOrderings, field) {
		return "", false, Invalid("ordering", "must be one of %s (optionally prefixed with '-')", strings.Join(PlanetOrderings, ", "))
	}
	return field, desc, nil
}
