package task

import (
	"context"
	"time"

	"github.com/fwojciec/juxta"
	"golang.org/x/time/rate"
)

// Await polls the status of the named task at most once per interval
// until it reaches a terminal state. report, if non-nil, is called with
// the first snapshot and with every snapshot that differs from the one
// before. Returns ENOTFOUND if the task is not registered.
func Await(ctx context.Context, m juxta.TaskManager, name string, interval time.Duration, report func(juxta.TaskSnapshot)) (juxta.TaskSnapshot, error) {
	limiter := rate.NewLimiter(rate.Every(interval), 1)

	var last juxta.TaskSnapshot
	for first := true; ; first = false {
		if err := limiter.Wait(ctx); err != nil {
			return last, err
		}

		s := m.Status(name)
		if s.Status == juxta.TaskUnavailable {
			return s, juxta.Errorf(juxta.ENOTFOUND, "task %q not found", name)
		}
		if report != nil && (first || s != last) {
			report(s)
		}
		last = s

		if s.Status.Terminal() {
			return s, nil
		}
	}
}
