package report

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"osa-stats/domain/osa"
)

// Runner produces a Result for a quarter. *Service implements it.
type Runner interface {
	Run(ctx context.Context, quarter time.Time) (*Result, error)
}

type entry struct {
	res     *Result
	expires time.Time
}

// Cache memoizes pipeline results per quarter label. A result is only ever stored under the
// quarter it was computed for, so a slow run for an old selection can never surface under a
// newer one. Concurrent requests for the same quarter share one run; failures are not stored.
type Cache struct {
	runner Runner
	ttl    time.Duration
	now    func() time.Time

	mu    sync.Mutex
	items map[string]entry
	group singleflight.Group
}

// NewCache wraps r. A ttl <= 0 disables expiry.
func NewCache(r Runner, ttl time.Duration) *Cache {
	return &Cache{runner: r, ttl: ttl, now: time.Now, items: map[string]entry{}}
}

// Get returns the cached result for the quarter containing quarter, running the pipeline
// on a miss. The run is detached from ctx cancellation so one impatient caller does not
// fail the others waiting on the same key.
func (c *Cache) Get(ctx context.Context, quarter time.Time) (*Result, error) {
	key := osa.QuarterLabel(quarter)
	if res, ok := c.lookup(key); ok {
		slog.Debug("report.cache.hit", "quarter", key)
		return res, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		res, err := c.runner.Run(context.WithoutCancel(ctx), quarter)
		if err != nil {
			return nil, err
		}
		c.store(key, res)
		return res, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*Result), nil
	}
}

// Invalidate drops the cached result for quarter.
func (c *Cache) Invalidate(quarter time.Time) {
	c.mu.Lock()
	delete(c.items, osa.QuarterLabel(quarter))
	c.mu.Unlock()
}

func (c *Cache) lookup(key string) (*Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && !c.now().Before(e.expires) {
		delete(c.items, key)
		return nil, false
	}
	return e.res, true
}

func (c *Cache) store(key string, res *Result) {
	c.mu.Lock()
	c.items[key] = entry{res: res, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
}
