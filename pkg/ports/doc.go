/*
Package ports defines the driven ports (interfaces) of exo-intel.

These interfaces decouple the simulation core from storage and transport, so
the same runner works against in-memory adapters in tests and SQL or Redis
adapters in production.

# Key Interfaces

  - Catalog: read access to star systems, stars and planets (with habitability).
  - CatalogWriter: bulk loading of catalog fixtures.
  - RunHistory: the persistent record of every simulation run.
  - UserDirectory: user lookup and API-key authentication.
  - TaskBroker / ResultBackend: the asynchronous task queue and its status store.
  - DistributedLocker: cross-replica task claims.

Each interface ships a Run*Contract suite that adapters call from their tests.
*/
package ports
