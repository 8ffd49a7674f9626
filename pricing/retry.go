// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package pricing

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Backoff describes how a failing quote lookup is retried.
type Backoff struct {
	Attempts  int           // Maximum number of attempts, must be > 0
	BaseDelay time.Duration // Delay before the second attempt, doubled after each retry
	MaxDelay  time.Duration // Upper bound on a single delay, 0 means unbounded
}

// DefaultBackoff is three attempts starting at 200ms.
func DefaultBackoff() Backoff {
	return Backoff{Attempts: 3, BaseDelay: 200 * time.Millisecond, MaxDelay: 5 * time.Second}
}

// permanentError marks an error that must not be retried.
type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent wraps err so that Do returns it immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// delay returns the pause after the given failed attempt (1-based).
func (b Backoff) delay(attempt int) time.Duration {
	d := b.BaseDelay
	for i := 1; i < attempt; i++ {
		d *= 2
		if b.MaxDelay > 0 && d >= b.MaxDelay {
			return b.MaxDelay
		}
	}
	return d
}

// Do runs op until it succeeds, returns a permanent error, the attempts are
// used up or ctx ends. The error of the last attempt is returned unwrapped.
func (b Backoff) Do(ctx context.Context, op func(ctx context.Context) error) error {
	if b.Attempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= b.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op(ctx)
		if lastErr == nil {
			if attempt > 1 {
				slog.Debug("quote succeeded after retry", "attempt", attempt)
			}
			return nil
		}

		var perm *permanentError
		if errors.As(lastErr, &perm) {
			return perm.err
		}

		slog.Debug("quote failed, will retry", "attempt", attempt, "maxAttempts", b.Attempts, "err", lastErr)
		if attempt == b.Attempts {
			break
		}

		timer := time.NewTimer(b.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}
