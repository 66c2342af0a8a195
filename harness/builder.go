package harness

import (
	"fmt"
	"sync"
	"time"

	"github.com/frameharness/frame-harness/dom"
	"github.com/frameharness/frame-harness/logging"
)

// BuilderState is the lifecycle state of a Builder.
type BuilderState int

const (
	BuilderConfiguring BuilderState = iota
	// BuilderBuilt is terminal: the Builder has produced its Subject.
	BuilderBuilt
)

func (s BuilderState) String() string {
	switch s {
	case BuilderConfiguring:
		return "configuring"
	case BuilderBuilt:
		return "built"
	default:
		return fmt.Sprintf("BuilderState(%d)", int(s))
	}
}

// Builder assembles a single Subject.
type Builder struct {
	document     *dom.Document
	oracle       ResourceOracle
	logger       logging.Logger
	uri          string
	container    dom.Container
	style        string
	pollInterval time.Duration
	state        BuilderState
	lock         sync.Mutex
}

// NewBuilder creates a Builder for subjects in document. The oracle is consulted by
// UsingResource.
func NewBuilder(document *dom.Document, oracle ResourceOracle, logger logging.Logger) *Builder {
	if logger == nil {
		logger = logging.NullLogger()
	}
	return &Builder{
		document:     document,
		oracle:       oracle,
		logger:       logger,
		pollInterval: DefaultPollInterval,
		state:        BuilderConfiguring,
	}
}

func (b *Builder) State() BuilderState {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.state
}

// UsingResource sets the resource to load into the subject. The resource must exist according
// to the builder's ResourceOracle; the probe happens synchronously.
func (b *Builder) UsingResource(uri string) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if err := b.requireConfiguring(); err != nil {
		return err
	}
	if uri == "" {
		return fmt.Errorf("%w: resource locator is empty", ErrInvalidArgument)
	}
	if b.oracle == nil {
		return fmt.Errorf("%w: builder has no resource oracle", ErrInvalidArgument)
	}
	exists, err := b.oracle.Exists(uri)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: resource %q", ErrNotFound, uri)
	}
	b.uri = uri
	return nil
}

// UsingContainer sets the element the subject's frame will be attached to. Without it, the
// frame is attached to the document body.
func (b *Builder) UsingContainer(container dom.Container) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if err := b.requireConfiguring(); err != nil {
		return err
	}
	if !dom.IsContainer(container) {
		return fmt.Errorf("%w: container is not an element that can hold children", ErrInvalidArgument)
	}
	if container.OwnerDocument() != b.document {
		return fmt.Errorf("%w: container belongs to a different document", ErrInvalidArgument)
	}
	b.container = container
	return nil
}

// UsingStyle sets an inline style for the subject's frame. It is applied verbatim.
func (b *Builder) UsingStyle(style string) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if err := b.requireConfiguring(); err != nil {
		return err
	}
	b.style = style
	return nil
}

// UsingPollInterval sets how often the subject's waits check their condition.
func (b *Builder) UsingPollInterval(interval time.Duration) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if err := b.requireConfiguring(); err != nil {
		return err
	}
	if interval <= 0 {
		return fmt.Errorf("%w: poll interval must be positive, got %s", ErrInvalidArgument, interval)
	}
	b.pollInterval = interval
	return nil
}

// BuildSubject creates the Subject, attaches its frame, and binds its readiness handlers.
// A Builder can only build one Subject; if BuildSubject fails, the Builder remains usable.
func (b *Builder) BuildSubject() (*Subject, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if err := b.requireConfiguring(); err != nil {
		return nil, err
	}
	if b.uri == "" {
		return nil, fmt.Errorf("%w: no resource was configured", ErrInvalidArgument)
	}
	if b.document == nil {
		return nil, fmt.Errorf("%w: builder has no document", ErrInvalidArgument)
	}

	subject := NewSubject(b.document, b.logger)
	subject.pollInterval = b.pollInterval

	// Initialization and binding run as one task so that no load signal can be dispatched
	// between them.
	var initErr error
	err := b.document.Run(func() {
		if initErr = subject.Init(b.uri, b.container); initErr != nil {
			return
		}
		subject.setStyle(b.style)
		initErr = subject.BindReadyStateHandlers()
	})
	if err != nil {
		return nil, err
	}
	if initErr != nil {
		return nil, initErr
	}

	b.state = BuilderBuilt
	b.logger.Printf("Built subject for %s", b.uri)
	return subject, nil
}

func (b *Builder) requireConfiguring() error {
	if b.state != BuilderConfiguring {
		return ErrAlreadyBuilt
	}
	return nil
}
