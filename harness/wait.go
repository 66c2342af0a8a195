package harness

import (
	"context"
	"fmt"
	"time"
)

// DefaultPollInterval is how often Wait checks its condition unless configured otherwise.
const DefaultPollInterval = 200 * time.Millisecond

// Func is called once a wait condition has been satisfied; its result becomes the result of
// the wait.
type Func func() interface{}

// Predicate is a wait condition.
type Predicate func() bool

// Wait polls at the subject's poll interval until predicate returns true, or, if predicate is
// nil, until the subject is ready. It then calls fn exactly once and returns its result. If fn
// is nil, the result is the subject's ready state.
//
// The first check happens one interval after the call. There is no built-in limit on how long
// Wait polls: it returns early only if ctx is cancelled, in which case the error is ctx.Err().
func (s *Subject) Wait(ctx context.Context, fn Func, predicate Predicate) (interface{}, error) {
	if s.currentFrame() == nil {
		return nil, fmt.Errorf("%w: cannot wait", ErrNotInitialized)
	}
	if fn == nil {
		fn = func() interface{} { return s.GetReadyState() }
	}
	condition := predicate
	if condition == nil {
		condition = s.GetReadyState
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			if condition() {
				return fn(), nil
			}
		}
	}
}

// ExecuteFunction waits until the subject is ready, then calls fn and returns its result.
func (s *Subject) ExecuteFunction(ctx context.Context, fn Func) (interface{}, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: no function given", ErrInvalidArgument)
	}
	return s.Wait(ctx, fn, nil)
}

// PendingWait is a Wait running in the background.
type PendingWait struct {
	done   chan struct{}
	cancel context.CancelFunc
	result interface{}
	err    error
}

// WaitAsync starts the same wait as Wait on a separate goroutine and returns immediately.
func (s *Subject) WaitAsync(ctx context.Context, fn Func, predicate Predicate) *PendingWait {
	ctx, cancel := context.WithCancel(ctx)
	p := &PendingWait{done: make(chan struct{}), cancel: cancel}
	go func() {
		defer close(p.done)
		defer cancel()
		p.result, p.err = s.Wait(ctx, fn, predicate)
	}()
	return p
}

// Done is closed when the wait has finished, whether or not it succeeded.
func (p *PendingWait) Done() <-chan struct{} {
	return p.done
}

// Cancel abandons the wait. Result then reports context.Canceled unless the wait had
// already finished.
func (p *PendingWait) Cancel() {
	p.cancel()
}

// Result blocks until the wait has finished and returns its outcome.
func (p *PendingWait) Result() (interface{}, error) {
	<-p.done
	return p.result, p.err
}
