/*
Package domain contains the core domain model of exo-intel.

It defines the catalog entities the simulation engine reads (StarSystem, Star,
Planet), the simulation vocabulary (Kind, Parameters, Result, Outcome), and the
run lifecycle (SimulationRun, RunStatus, Task). The package is pure and free of
I/O so that every other layer can depend on it.

# Key Entities

  - Planet, Star, StarSystem: read-only records. Optional scalars are *float64.
  - Kind: the closed set of simulation kinds (TRAVEL_TIME, SEASONAL_TEMPS, TIDAL_LOCKING, STAR_LIFETIME).
  - Outcome: a tagged union of Succeeded(Result) and Failed(reason).
  - SimulationRun: a history record created PENDING that moves exactly once to SUCCESS or FAILURE.

# Errors

Typed errors (MissingDataError, InvalidInputError, UnknownSimulationKindError,
UserResolutionError) match their sentinels through errors.Is.
*/
package domain
