package dom

import (
	"sort"
	"sync"

	"github.com/frameharness/frame-harness/docdef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const blankLocation = "about:blank"

// Window is the global scope of a frame. A frame keeps the same Window for its whole life;
// each document load replaces the scope's contents, and each unload clears them.
type Window struct {
	location string
	title    string
	globals  map[string]ldvalue.Value
	onUnload func()
	lock     sync.RWMutex
}

func newWindow() *Window {
	return &Window{
		location: blankLocation,
		globals:  make(map[string]ldvalue.Value),
	}
}

// Location is the locator of the currently loaded document.
func (w *Window) Location() string {
	w.lock.RLock()
	defer w.lock.RUnlock()
	return w.location
}

func (w *Window) Title() string {
	w.lock.RLock()
	defer w.lock.RUnlock()
	return w.title
}

// Lookup returns the value bound to name in the window's global scope.
func (w *Window) Lookup(name string) (ldvalue.Value, bool) {
	w.lock.RLock()
	defer w.lock.RUnlock()
	value, ok := w.globals[name]
	return value, ok
}

// Set binds name in the window's global scope, replacing any existing binding.
func (w *Window) Set(name string, value ldvalue.Value) {
	w.lock.Lock()
	w.globals[name] = value
	w.lock.Unlock()
}

// Names returns the names bound in the global scope, sorted.
func (w *Window) Names() []string {
	w.lock.RLock()
	names := make([]string, 0, len(w.globals))
	for name := range w.globals {
		names = append(names, name)
	}
	w.lock.RUnlock()
	sort.Strings(names)
	return names
}

// OnUnload sets the handler that is called on the event loop when the current document is
// unloaded. There is at most one handler; setting it again replaces the previous one.
func (w *Window) OnUnload(handler func()) {
	w.lock.Lock()
	w.onUnload = handler
	w.lock.Unlock()
}

func (w *Window) replace(location string, doc docdef.Document) {
	globals := make(map[string]ldvalue.Value, len(doc.Globals))
	for name, value := range doc.Globals {
		globals[name] = value
	}
	w.lock.Lock()
	w.location = location
	w.title = doc.Title
	w.globals = globals
	w.lock.Unlock()
}

func (w *Window) dispatchUnload() {
	w.lock.RLock()
	handler := w.onUnload
	w.lock.RUnlock()
	if handler != nil {
		handler()
	}
	w.replace(blankLocation, docdef.Document{})
}
