// Package redis provides Redis-backed implementations of the task queue ports:
// a list-based TaskBroker, a key-per-task ResultBackend and a SET NX
// DistributedLocker.
package redis

import (
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by this package.
const DefaultPrefix = "exointel:"

// NewClient creates a client whose blocking calls honor context deadlines.
func NewClient(address, password string, db int) *backend.Client {
	return backend.NewClient(&backend.Options{
		Addr:                  address,
		Password:              password,
		DB:                    db,
		ContextTimeoutEnabled: true,
	})
}
