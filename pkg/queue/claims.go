package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/codenameuriel/exo-intel/pkg/ports"
)

// claimEntry holds the mutex for one task and the number of goroutines
// waiting on or holding it.
type claimEntry struct {
	mu   sync.Mutex
	refs int
}

// claims serializes work on a task ID within the process and, when a
// distributed locker is configured, across worker replicas.
type claims struct {
	mu      sync.Mutex
	entries map[string]*claimEntry

	locker ports.DistributedLocker
	ttl    time.Duration
	logger *slog.Logger
}

func newClaims(locker ports.DistributedLocker, ttl time.Duration, logger *slog.Logger) *claims {
	return &claims{
		entries: make(map[string]*claimEntry),
		locker:  locker,
		ttl:     ttl,
		logger:  logger,
	}
}

// acquire returns the entry for taskID with its reference count incremented.
// The caller locks entry.mu and calls release after unlocking.
func (c *claims) acquire(taskID string) *claimEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[taskID]
	if !ok {
		entry = &claimEntry{}
		c.entries[taskID] = entry
	}
	entry.refs++
	return entry
}

func (c *claims) release(taskID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[taskID]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(c.entries, taskID)
	}
}

// held reports how many task IDs currently have a live entry.
func (c *claims) held() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// with runs fn while holding the claim on taskID.
func (c *claims) with(ctx context.Context, taskID string, fn func(context.Context) error) error {
	entry := c.acquire(taskID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		c.release(taskID)
	}()

	if c.locker != nil {
		unlock, err := c.locker.Lock(ctx, "task:"+taskID, c.ttl)
		if err != nil {
			return fmt.Errorf("failed to claim task %s: %w", taskID, err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				c.logger.Warn("failed to release task claim (will expire via TTL)",
					"task_id", taskID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
