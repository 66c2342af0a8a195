package dom

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/frameharness/frame-harness/logging"
)

// Document owns an element tree rooted at its body and the event loop that dispatches frame
// lifecycle signals.
type Document struct {
	body      *Element
	fetcher   Fetcher
	logger    logging.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	queue     []func()
	wake      chan struct{}
	done      chan struct{}
	closed    bool
	lock      sync.Mutex
	closeOnce sync.Once
}

// NewDocument creates a Document and starts its event loop. Frames in the document load their
// content through fetcher; if it is nil, an HTTPFetcher with no base URL is used.
func NewDocument(fetcher Fetcher, logger logging.Logger) *Document {
	if fetcher == nil {
		fetcher = HTTPFetcher{}
	}
	if logger == nil {
		logger = logging.NullLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &Document{
		fetcher: fetcher,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	d.body = d.CreateElement("body")
	go d.loop()
	return d
}

// Body returns the default attachment point of the document.
func (d *Document) Body() *Element {
	return d.body
}

// Run executes task on the event loop and waits for it to finish. No lifecycle signal can be
// dispatched while the task is running.
//
// Run must not be called from a task or from a signal handler, since the loop would then be
// waiting for itself.
func (d *Document) Run(task func()) error {
	finished := make(chan error, 1)
	queued := d.post(func() {
		defer func() {
			if r := recover(); r != nil {
				finished <- fmt.Errorf("panic in document task: %+v", r)
				return
			}
			finished <- nil
		}()
		task()
	})
	if !queued {
		return ErrClosed
	}
	select {
	case err := <-finished:
		return err
	case <-d.done:
		select {
		case err := <-finished:
			return err
		default:
			return ErrClosed
		}
	}
}

// Sync waits until every task posted before the call has been dispatched.
func (d *Document) Sync() error {
	return d.Run(func() {})
}

// Close stops the event loop and cancels any document fetches that are still in flight.
// Pending signals are discarded.
func (d *Document) Close() {
	d.closeOnce.Do(func() {
		d.lock.Lock()
		d.closed = true
		d.queue = nil
		d.lock.Unlock()
		d.cancel()
		<-d.done
	})
}

func (d *Document) post(task func()) bool {
	d.lock.Lock()
	if d.closed {
		d.lock.Unlock()
		return false
	}
	d.queue = append(d.queue, task)
	d.lock.Unlock()
	select { // non-blocking wake-up; the loop drains the whole queue
	case d.wake <- struct{}{}:
	default:
	}
	return true
}

func (d *Document) next() func() {
	d.lock.Lock()
	defer d.lock.Unlock()
	if d.closed || len(d.queue) == 0 {
		return nil
	}
	task := d.queue[0]
	d.queue[0] = nil
	d.queue = d.queue[1:]
	return task
}

func (d *Document) loop() {
	defer close(d.done)
	for {
		select {
		case <-d.wake:
		case <-d.ctx.Done():
			return
		}
		for task := d.next(); task != nil; task = d.next() {
			d.dispatch(task)
		}
	}
}

func (d *Document) dispatch(task func()) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Printf("Unexpected panic in event loop task: %+v\n%s", r, string(debug.Stack()))
		}
	}()
	task()
}
