package queue

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/codenameuriel/exo-intel/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestClaims_SerializesSameTask(t *testing.T) {
	c := newClaims(nil, time.Minute, logging.NewNop())
	ctx := context.Background()

	var active, maxActive atomic.Int32
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := c.with(ctx, "t-1", func(context.Context) error {
				n := active.Add(1)
				for {
					m := maxActive.Load()
					if n <= m || maxActive.CompareAndSwap(m, n) {
						break
					}
				}
				time.Sleep(2 * time.Millisecond)
				active.Add(-1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxActive.Load())
	assert.Equal(t, 0, c.held(), "entries must be released once unused")
}

func TestClaims_DistinctTasksRunInParallel(t *testing.T) {
	c := newClaims(nil, time.Minute, logging.NewNop())
	ctx := context.Background()

	release := make(chan struct{})
	started := make(chan struct{}, 2)
	var wg sync.WaitGroup
	for _, id := range []string{"a", "b"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.with(ctx, id, func(context.Context) error {
				started <- struct{}{}
				<-release
				return nil
			})
		}()
	}

	for range 2 {
		select {
		case <-started:
		case <-time.After(time.Second):
			t.Fatal("claims on different tasks blocked each other")
		}
	}
	close(release)
	wg.Wait()
}
