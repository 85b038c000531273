/*
Package engine implements the astrophysical simulations.

Every function is pure: entities are injected already fetched, nothing is
looked up or mutated, and failures are returned as typed domain errors
(MissingDataError, InvalidInputError). Results are finite-checked; the one
deliberate exception is a zero orbital distance, which yields an infinite
flux and temperature.

The four simulations are:

  - TravelTime: years to reach a star system at a fraction of c.
  - SeasonalTemperatures: equilibrium temperatures at periastron and apoastron.
  - TidalLocking: simplified locking timescale versus stellar age.
  - StarLifetime: main-sequence lifetime from the mass-luminosity relation.
*/
package engine
