// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package clock provides an indirection over time.Now and time.Sleep so
// retry backoff and window arithmetic can be tested without waiting.
package clock

import (
	"context"
	"time"
)

var (
	nowFunc      = time.Now
	sleepFunc    = time.Sleep
	sleepCtxFunc = sleepContext
)

// Now returns the current time.
func Now() time.Time {
	return nowFunc()
}

// Sleep pauses the calling goroutine for the given duration.
func Sleep(d time.Duration) {
	sleepFunc(d)
}

// SleepContext pauses for d or until ctx is done, whichever comes
// first. Returns ctx.Err() when interrupted, nil after a full sleep.
func SleepContext(ctx context.Context, d time.Duration) error {
	return sleepCtxFunc(ctx, d)
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

// SetForTest overrides Now and/or Sleep. Either argument may be nil to
// leave the current implementation in place. A sleep override also
// covers SleepContext, which checks the context around the fake sleep.
// The returned function restores the previous implementations.
func SetForTest(now func() time.Time, sleep func(time.Duration)) func() {
	prevNow, prevSleep, prevSleepCtx := nowFunc, sleepFunc, sleepCtxFunc
	if now != nil {
		nowFunc = now
	}
	if sleep != nil {
		sleepFunc = sleep
		sleepCtxFunc = func(ctx context.Context, d time.Duration) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sleep(d)
			return ctx.Err()
		}
	}
	return func() {
		nowFunc, sleepFunc, sleepCtxFunc = prevNow, prevSleep, prevSleepCtx
	}
}
