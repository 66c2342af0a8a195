package harness

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/frameharness/frame-harness/dom"
	"github.com/frameharness/frame-harness/logging"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// State is the lifecycle state of a Subject.
type State int

const (
	// StateUnbound is the state of a new Subject whose readiness handlers are not yet bound.
	StateUnbound State = iota
	StateNotReady
	StateReady
	// StateDestroyed is terminal: the subject's frame has been detached.
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateUnbound:
		return "unbound"
	case StateNotReady:
		return "not ready"
	case StateReady:
		return "ready"
	case StateDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Subject wraps one frame under test. The frame is owned exclusively by the Subject; nothing
// outside this package can reach it except through the document tree.
type Subject struct {
	document     *dom.Document
	frame        *dom.Frame
	logger       logging.Logger
	pollInterval time.Duration
	ready        bool
	bound        bool
	destroyed    bool
	lock         sync.Mutex
}

// NewSubject creates an uninitialized Subject. Most callers should use a Builder instead, which
// also takes care of initialization and binding.
func NewSubject(document *dom.Document, logger logging.Logger) *Subject {
	if logger == nil {
		logger = logging.NullLogger()
	}
	return &Subject{
		document:     document,
		logger:       logger,
		pollInterval: DefaultPollInterval,
	}
}

// Init creates the subject's frame, points it at uri, and attaches it to container. If
// container is not a usable attachment point in the subject's document, the frame is attached
// to the document body.
//
// The frame starts loading as soon as it is attached. To be sure of seeing the first load
// signal, call Init and BindReadyStateHandlers inside a single dom.Document.Run task.
func (s *Subject) Init(uri string, container dom.Container) error {
	if uri == "" {
		return fmt.Errorf("%w: subject resource locator is empty", ErrInvalidArgument)
	}
	if s.document == nil {
		return fmt.Errorf("%w: subject has no document", ErrInvalidArgument)
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	if s.frame != nil {
		return ErrAlreadyInitialized
	}

	parent := container
	if !dom.IsContainer(parent) || parent.OwnerDocument() != s.document {
		parent = s.document.Body()
	}
	frame := s.document.CreateFrame()
	frame.SetSrc(uri)
	if err := parent.AppendChild(frame); err != nil {
		return fmt.Errorf("%w: cannot attach subject: %s", ErrInvalidArgument, err)
	}
	// the frame is only kept once attached, so a failed Init can be retried
	s.frame = frame
	s.logger.Printf("Subject frame created for %s", uri)
	return nil
}

// BindReadyStateHandlers makes the frame's load signal set the subject ready and its unload
// signal set it not ready. It can only be done once per Subject, and cannot be undone.
func (s *Subject) BindReadyStateHandlers() error {
	s.lock.Lock()
	if s.frame == nil {
		s.lock.Unlock()
		return fmt.Errorf("%w: cannot bind ready state handlers", ErrNotInitialized)
	}
	if s.bound {
		s.lock.Unlock()
		return ErrAlreadyBound
	}
	s.bound = true
	frame := s.frame
	s.lock.Unlock()

	frame.OnLoad(func() {
		s.SetReadyState(true)
	})
	frame.ContentWindow().OnUnload(func() {
		s.SetReadyState(false)
	})
	return nil
}

// SetReadyState sets the readiness flag. It is normally called only by the bound handlers.
func (s *Subject) SetReadyState(state bool) {
	s.lock.Lock()
	changed := s.ready != state
	s.ready = state
	s.lock.Unlock()
	if changed {
		s.logger.Printf("Subject ready state changed to %t", state)
	}
}

func (s *Subject) GetReadyState() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.ready
}

func (s *Subject) State() State {
	s.lock.Lock()
	defer s.lock.Unlock()
	switch {
	case s.destroyed:
		return StateDestroyed
	case !s.bound:
		return StateUnbound
	case s.ready:
		return StateReady
	default:
		return StateNotReady
	}
}

// GetChildContext returns the value bound to namespace in the global scope of the document
// currently loaded in the subject's frame.
func (s *Subject) GetChildContext(namespace string) (ldvalue.Value, error) {
	frame := s.currentFrame()
	if frame == nil {
		return ldvalue.Null(), fmt.Errorf("%w: cannot look up %q", ErrNotInitialized, namespace)
	}
	if namespace == "" {
		return ldvalue.Null(), fmt.Errorf("%w: namespace is empty", ErrInvalidArgument)
	}
	value, ok := frame.ContentWindow().Lookup(namespace)
	if !ok {
		return ldvalue.Null(), fmt.Errorf("%w: namespace %q is not defined in the subject's global scope",
			ErrNotFound, namespace)
	}
	return value, nil
}

// Location returns the locator of the document currently loaded in the subject's frame.
func (s *Subject) Location() string {
	if frame := s.currentFrame(); frame != nil {
		return frame.ContentWindow().Location()
	}
	return ""
}

// Style returns the inline style applied to the subject's frame.
func (s *Subject) Style() string {
	if frame := s.currentFrame(); frame != nil {
		style, _ := frame.GetAttribute("style")
		return style
	}
	return ""
}

// Reload navigates the frame to its resource again. The subject becomes not ready when the
// current document unloads and ready again when the new one loads.
func (s *Subject) Reload() error {
	frame := s.currentFrame()
	if frame == nil {
		return fmt.Errorf("%w: cannot reload", ErrNotInitialized)
	}
	if err := frame.Reload(); err != nil {
		return translateDetachError(err)
	}
	return nil
}

// KillSubject detaches the frame from its parent. After that the Subject is inert.
func (s *Subject) KillSubject() error {
	frame := s.currentFrame()
	if frame == nil {
		return ErrDetachWithoutParent
	}
	if err := frame.Remove(); err != nil {
		return translateDetachError(err)
	}
	s.lock.Lock()
	s.destroyed = true
	s.lock.Unlock()
	s.logger.Printf("Subject frame detached")
	return nil
}

func (s *Subject) setStyle(style string) {
	if frame := s.currentFrame(); frame != nil && style != "" {
		frame.SetAttribute("style", style)
	}
}

func (s *Subject) currentFrame() *dom.Frame {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.frame
}

func translateDetachError(err error) error {
	if errors.Is(err, dom.ErrNoParent) {
		return ErrDetachWithoutParent
	}
	return err
}
