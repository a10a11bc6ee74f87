// Package storetest provides deterministic collaborators for store tests.
package storetest

import (
	"context"
	"sync"
	"time"
)

type sleeper struct {
	until time.Time
	ctx   context.Context
	done  chan struct{}
}

// ManualClock only moves when Advance is called.
type ManualClock struct {
	mu       sync.Mutex
	now      time.Time
	sleepers []*sleeper
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}

	c.mu.Lock()
	s := &sleeper{until: c.now.Add(d), ctx: ctx, done: make(chan struct{})}
	c.sleepers = append(c.sleepers, s)
	c.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		c.remove(s)
		return ctx.Err()
	}
}

// Advance moves time forward and wakes sleepers whose deadline passed.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
	kept := c.sleepers[:0]
	for _, s := range c.sleepers {
		if !s.until.After(c.now) {
			close(s.done)
			continue
		}
		kept = append(kept, s)
	}
	c.sleepers = kept
}

// Sleepers counts goroutines blocked in Sleep whose context is still live.
func (c *ManualClock) Sleepers() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, s := range c.sleepers {
		if s.ctx.Err() == nil {
			n++
		}
	}
	return n
}

// BlockUntil waits until at least n live sleepers are registered or the
// timeout elapses. It reports whether the count was reached.
func (c *ManualClock) BlockUntil(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if c.Sleepers() >= n {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(time.Millisecond)
	}
}

func (c *ManualClock) remove(s *sleeper) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, x := range c.sleepers {
		if x == s {
			c.sleepers = append(c.sleepers[:i], c.sleepers[i+1:]...)
			return
		}
	}
}
