package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"git.retroherna.org/rh/rhforum/src/oops"
)

// OrDefault picks def when v is its type's zero value. The config layer
// leans on this to let a partially-filled struct fall back to the global
// defaults field by field.
func OrDefault[T comparable](v T, def T) T {
	var zero T
	if v == zero {
		return def
	} else {
		return v
	}
}

func IntMin(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func IntMax(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// IntClamp bounds t to [min, max]. min must not exceed max.
func IntClamp(min, t, max int) int {
	return IntMax(min, IntMin(t, max))
}

/*
RecoverPanicAsError turns a panic into a returned error:

	err := func() (err error) {
		defer utils.RecoverPanicAsError(&err)
		...
	}()

Background job loops wrap each iteration this way so one bad pass cannot
kill the whole job. A panic overwrites any error already stored in err;
error chains cannot merge, and the panic is the thing worth reporting.
*/
func RecoverPanicAsError(err *error) {
	if r := recover(); r != nil {
		var recoveredErr error
		if rerr, ok := r.(error); ok {
			recoveredErr = rerr
		} else {
			recoveredErr = fmt.Errorf("panic with value: %v", r)
		}
		*err = oops.New(recoveredErr, "panic recovered as error")
	}
}

var ErrSleepInterrupted = errors.New("sleep interrupted by context cancellation")

// SleepContext sleeps for d unless the context ends first, in which case it
// returns ErrSleepInterrupted immediately. Periodic jobs use this instead
// of time.Sleep so that shutdown does not have to wait out the interval.
func SleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ErrSleepInterrupted
	case <-time.After(d):
		return nil
	}
}
