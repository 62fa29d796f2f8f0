package util

import "time"

// Bounded runs fn on its own goroutine and waits at most wait for the
// outcome. ok is false when the wait expires; fn keeps running, and its
// eventual outcome is handed to discard on fn's goroutine so the caller
// can reclaim whatever it produced. discard may be nil.
func Bounded[R any](fn func() (R, error), wait time.Duration, discard func(R, error)) (res R, err error, ok bool) {
	type outcome struct {
		res R
		err error
	}
	ch := make(chan outcome)
	abandoned := make(chan struct{})

	go func() {
		r, e := fn()
		select {
		case ch <- outcome{r, e}:
		case <-abandoned:
			if discard != nil {
				discard(r, e)
			}
		}
	}()

	select {
	case out := <-ch:
		return out.res, out.err, true
	case <-time.After(wait):
		close(abandoned)
		return res, err, false
	}
}
