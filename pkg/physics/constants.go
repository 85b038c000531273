// Package physics holds the fixed physical and unit-conversion constants
// used by the simulation engine. Values are SI unless stated otherwise.
package physics

const (
	// ParsecToLightYear converts parsecs to light-years.
	ParsecToLightYear = 3.26156

	// StefanBoltzmann is sigma in W m^-2 K^-4.
	StefanBoltzmann = 5.670374419e-8

	// SolarLuminosity is the nominal solar luminosity in watts.
	SolarLuminosity = 3.828e26
	// SolarRadius is the nominal solar radius in meters.
	SolarRadius = 6.957e8
	// SolarMass is the solar mass in kilograms.
	SolarMass = 1.98847e30

	// AstronomicalUnit in meters.
	AstronomicalUnit = 1.495978707e11

	// EarthMass in kilograms.
	EarthMass = 5.9722e24
	// EarthRadius is the mean Earth radius in meters.
	EarthRadius = 6.371e6

	// SecondsPerGigayear uses the Julian year (365.25 days).
	SecondsPerGigayear = 3.15576e16
	// YearsPerGigayear converts Gyr to years.
	YearsPerGigayear = 1e9
)

// Model parameters. These are not physical constants but are fixed for every run.
const (
	// BondAlbedo is the planetary albedo assumed by the temperature model.
	BondAlbedo = 0.3

	// TidalRigidityConstant lumps rigidity, dissipation and initial spin
	// into one factor for the simplified locking timescale.
	TidalRigidityConstant = 6e10

	// MassLuminosityExponent is the main-sequence relation L ~ M^3.5.
	MassLuminosityExponent = 3.5

	// SolarMainSequenceLifetimeGyr is the reference lifetime of the Sun.
	SolarMainSequenceLifetimeGyr = 10.0
)
