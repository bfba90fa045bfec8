package sequencer

import (
	"context"
	"sync"
	"time"
)

// Clock paces a session. Sleep must return early with ctx.Err() when ctx
// is cancelled.
type Clock interface {
	Now() time.Duration
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock waits on wall-clock timers.
type RealClock struct {
	start time.Time
}

func NewRealClock() *RealClock {
	return &RealClock{start: time.Now()}
}

func (c *RealClock) Now() time.Duration {
	return time.Since(c.start)
}

func (c *RealClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// VirtualClock advances instantly. It is used to render sessions to files
// and in tests.
type VirtualClock struct {
	mu  sync.Mutex
	now time.Duration
}

func (c *VirtualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *VirtualClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.now += d
	c.mu.Unlock()
	return nil
}
