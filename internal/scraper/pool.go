package scraper

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// collector is an append-only, order-independent result bag shared by workers
type collector[T any] struct {
	mu    sync.Mutex
	items []T
}

func (c *collector[T]) add(items ...T) {
	c.mu.Lock()
	c.items = append(c.items, items...)
	c.mu.Unlock()
}

func (c *collector[T]) list() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// forEachID runs task for every ID with at most s.concurrency tasks in flight. A task
// error or panic marks that ID failed and never reaches the other tasks. Every task is
// followed by the politeness pause. Returns the failed IDs in ascending order.
func (s *Scraper) forEachID(ctx context.Context, ids []int, task func(ctx context.Context, id int) error) []int {
	var failed collector[int]

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for _, id := range ids {
		g.Go(func() error {
			if err := runTask(ctx, id, task); err != nil {
				failed.add(id)
			}
			s.pause(ctx)
			return nil
		})
	}
	_ = g.Wait()

	out := failed.list()
	sort.Ints(out)
	return out
}

func runTask(ctx context.Context, id int, task func(ctx context.Context, id int) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return task(ctx, id)
}

// pause sleeps a random duration in [delayMin, delayMax) to go easy on the upstream site
func (s *Scraper) pause(ctx context.Context) {
	d := s.delayMin
	if span := s.delayMax - s.delayMin; span > 0 {
		d += time.Duration(rand.Int64N(int64(span)))
	}
	if d <= 0 {
		return
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
