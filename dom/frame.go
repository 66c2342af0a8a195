package dom

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/frameharness/frame-harness/docdef"
)

// Frame is an embedded browsing context.
//
// A frame starts loading its source as soon as it has a parent, and again whenever its source
// changes or it is reloaded. When the document is ready the load handler is called on the
// event loop. Any navigation away from a loaded document, including removal of the frame from
// its parent, first queues the window's unload signal, so for a given document the load signal
// always precedes its unload signal.
type Frame struct {
	document   *Document
	window     *Window
	attrs      map[string]string
	parent     Container
	src        string
	onLoad     func()
	loaded     bool
	generation uint64
	cancel     context.CancelFunc
	lock       sync.Mutex
}

// CreateFrame creates a detached frame owned by the document.
func (d *Document) CreateFrame() *Frame {
	return &Frame{
		document: d,
		window:   newWindow(),
		attrs:    make(map[string]string),
	}
}

func (f *Frame) OwnerDocument() *Document {
	return f.document
}

func (f *Frame) ParentNode() Container {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.parent
}

func (f *Frame) SetAttribute(name, value string) {
	f.lock.Lock()
	f.attrs[strings.ToLower(name)] = value
	f.lock.Unlock()
}

func (f *Frame) GetAttribute(name string) (string, bool) {
	f.lock.Lock()
	defer f.lock.Unlock()
	value, ok := f.attrs[strings.ToLower(name)]
	return value, ok
}

func (f *Frame) Src() string {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.src
}

// SetSrc sets the source locator. If the frame is attached, it navigates to the new source.
func (f *Frame) SetSrc(uri string) {
	f.lock.Lock()
	f.src = uri
	attached := f.parent != nil
	f.lock.Unlock()
	if attached {
		f.navigate()
	}
}

// OnLoad sets the handler that is called on the event loop each time a document finishes
// loading. Setting it again replaces the previous handler.
func (f *Frame) OnLoad(handler func()) {
	f.lock.Lock()
	f.onLoad = handler
	f.lock.Unlock()
}

// ContentWindow returns the frame's window. It is the same object for the life of the frame.
func (f *Frame) ContentWindow() *Window {
	return f.window
}

// Loaded reports whether a document has signalled load and has not yet been unloaded.
func (f *Frame) Loaded() bool {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.loaded
}

// Reload navigates the frame to its current source again.
func (f *Frame) Reload() error {
	if f.ParentNode() == nil {
		return ErrNoParent
	}
	f.navigate()
	return nil
}

// Remove detaches the frame from its parent, which unloads its document.
func (f *Frame) Remove() error {
	parent := f.ParentNode()
	if parent == nil {
		return ErrNoParent
	}
	return parent.RemoveChild(f)
}

func (f *Frame) setParent(parent Container) {
	f.lock.Lock()
	f.parent = parent
	f.lock.Unlock()
	f.navigate()
}

func (f *Frame) navigate() {
	f.lock.Lock()
	defer f.lock.Unlock()

	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.generation++ // any load still in flight for the previous navigation is now stale
	if f.loaded {
		f.loaded = false
		f.document.post(f.window.dispatchUnload)
	}
	if f.parent == nil || f.src == "" {
		return
	}
	ctx, cancel := context.WithCancel(f.document.ctx)
	f.cancel = cancel
	go f.fetch(ctx, f.generation, f.src)
}

func (f *Frame) fetch(ctx context.Context, generation uint64, src string) {
	doc, err := f.document.fetcher.Fetch(ctx, src)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		// A frame whose document can't be fetched still loads, just with an empty scope.
		f.document.logger.Printf("Frame could not fetch %s: %s", src, err)
		doc = docdef.Document{}
	}
	if delay := doc.LoadDelay(); delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return
		}
	}
	f.document.post(func() {
		f.completeLoad(generation, src, doc)
	})
}

func (f *Frame) completeLoad(generation uint64, src string, doc docdef.Document) {
	f.lock.Lock()
	if generation != f.generation {
		f.lock.Unlock()
		return
	}
	f.loaded = true
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	handler := f.onLoad
	f.lock.Unlock()

	f.window.replace(src, doc)
	f.document.logger.Printf("Frame loaded %s", src)
	if handler != nil {
		handler()
	}
}
