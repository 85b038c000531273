/*
Package exointel is an exoplanet catalog with asynchronous astrophysics simulations.

It serves a read-only catalog of star systems, stars and planets (each planet
annotated with a habitability score) and runs four simulations in the
background: interstellar travel time, seasonal temperature swing, tidal
locking and stellar lifetime. Submissions return a task handle immediately;
workers execute the simulation, record the run in the caller's history and
publish the outcome for polling.

# Architecture

The physics lives in pure packages (pkg/engine, pkg/habitability) that take
catalog entities as arguments. pkg/dispatch maps a simulation kind to the
catalog lookups it needs, pkg/taskrunner drives one run through its
PENDING -> SUCCESS | FAILURE lifecycle, and pkg/queue moves tasks from the
HTTP API to a worker pool. Storage and transport sit behind the interfaces in
pkg/ports with in-memory, SQL and Redis adapters.

# Usage

Open a Service from a config and mount its handler and workers:

	cfg, err := config.Load("exointel.yaml")
	if err != nil {
		log.Fatal(err)
	}

	svc, err := exointel.Open(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer svc.Close()

	if err := svc.Migrate(ctx); err != nil {
		log.Fatal(err)
	}

	handler, err := svc.Handler()
	if err != nil {
		log.Fatal(err)
	}
	go svc.Worker().Run(ctx)
	log.Fatal(http.ListenAndServe(":8000", handler))

The exointel command wraps the same wiring: exointel serve, exointel worker
and exointel simulate.
*/
package exointel
