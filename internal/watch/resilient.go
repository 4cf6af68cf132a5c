package watch

import (
	"context"
	"fmt"
	"time"

	"k8s.io/klog/v2"

	"github.com/flavio/dynwatch/internal/backoff"
)

// RunFunc runs one watch connection to completion. Session.Run satisfies it.
type RunFunc func(ctx context.Context, handle Handler) error

// Resilient wraps a session into a logically unbounded sequence: every
// terminal connection error is followed by a backoff delay and a fresh
// session, and every fresh session begins with a Restarted event so
// downstream state is reconciled to ground truth rather than assumed
// continuous.
type Resilient struct {
	run      RunFunc
	schedule *backoff.Schedule

	// sleep and now are injectable for tests; nil means real time.
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

func NewResilient(run RunFunc, schedule *backoff.Schedule) *Resilient {
	return &Resilient{
		run:      run,
		schedule: schedule,
		sleep:    sleepContext,
		now:      time.Now,
	}
}

// Run loops sessions until ctx is cancelled or the retry budget (unlimited
// by default) is exhausted. A connection that stayed healthy past the
// schedule's reset threshold drops the backoff back to its initial delay,
// so isolated blips do not accumulate.
func (r *Resilient) Run(ctx context.Context, handle Handler) error {
	for {
		started := r.now()
		err := r.run(ctx, handle)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if healthy := r.now().Sub(started); healthy >= r.schedule.ResetAfter() {
			r.schedule.Reset()
		}
		if r.schedule.Exhausted() {
			return fmt.Errorf("watch retry budget exhausted: %w", err)
		}

		delay := r.schedule.Next()
		klog.V(1).InfoS("watch connection lost, backing off", "delay", delay, "err", err)
		if serr := r.sleep(ctx, delay); serr != nil {
			return serr
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
