package frametests

import (
	"context"
	"net/http"
	"time"

	"github.com/frameharness/frame-harness/docdef"
	"github.com/frameharness/frame-harness/dom"
	"github.com/frameharness/frame-harness/framework"
	"github.com/frameharness/frame-harness/harness"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/require"
)

const awaitRequestTimeout = time.Second * 5

type environment struct {
	harness      *framework.TestHarness
	fixtures     []Fixture
	waitTimeout  time.Duration
	pollInterval time.Duration
}

// T represents a test or subtest in the frame harness test suite.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that is outside
// of the Go test runner, and with some extra features such as debug logging that are convenient for
// our use case. Those features are provided by our lower-level framework package.
//
// Each T has its own document, created on first use, and owns any mock endpoints it creates. They
// are all closed when the test finishes.
//
// To make test assertions, you can use the assert and require packages, passing the *T as if it were
// a *testing.T.
type T struct {
	context   *framework.Context
	env       *environment
	document  *dom.Document
	endpoints []*framework.MockEndpoint
}

func newTestScope(context *framework.Context, env *environment) *T {
	t := &T{context: context, env: env}
	context.Defer(t.close)
	return t
}

func (t *T) close() {
	if t.document != nil {
		t.document.Close()
	}
	for _, e := range t.endpoints {
		e.Close()
	}
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a subtest. This is equivalent to the Run method of testing.T.
//
// The specified function receives a new T instance, with its own document.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		action(newTestScope(c, t.env))
	})
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// Fixtures returns the configured fixtures.
func (t *T) Fixtures() []Fixture {
	return t.env.fixtures
}

// Document returns the test's document, creating it if necessary. Frames in it fetch documents
// from the test harness.
func (t *T) Document() *dom.Document {
	if t.document == nil {
		fetcher := dom.HTTPFetcher{BaseURL: t.env.harness.BaseURL()}
		t.document = dom.NewDocument(fetcher, t.context.DebugLogger())
	}
	return t.document
}

// Oracle returns a ResourceOracle that probes the test harness.
func (t *T) Oracle() harness.ResourceOracle {
	return harness.NewHTTPOracle(t.env.harness.BaseURL(), nil, t.context.DebugLogger())
}

// ServeDocument creates a mock endpoint that serves doc. Its BasePath is a locator that can be
// given to a Builder.
func (t *T) ServeDocument(description string, doc docdef.Document) *framework.MockEndpoint {
	handler := httphelpers.HandlerWithJSONResponse(doc, nil)
	return t.newEndpoint(handler, description)
}

// ServeHandler creates a mock endpoint that delegates to handler.
func (t *T) ServeHandler(description string, handler http.Handler) *framework.MockEndpoint {
	return t.newEndpoint(handler, description)
}

// ServeMissingResource creates a mock endpoint that responds to everything with a 404.
func (t *T) ServeMissingResource() *framework.MockEndpoint {
	return t.newEndpoint(httphelpers.HandlerWithStatus(http.StatusNotFound), "missing resource")
}

func (t *T) newEndpoint(handler http.Handler, description string) *framework.MockEndpoint {
	e := t.env.harness.NewMockEndpoint(handler, description, t.context.DebugLogger())
	t.endpoints = append(t.endpoints, e)
	return e
}

// NewBuilder returns a Builder for the test's document that probes the test harness.
func (t *T) NewBuilder() *harness.Builder {
	b := harness.NewBuilder(t.Document(), t.Oracle(), t.context.DebugLogger())
	require.NoError(t, b.UsingPollInterval(t.env.pollInterval))
	return b
}

// BuildSubject builds a subject for the resource at locator. The test fails and immediately
// exits if that is not possible.
func (t *T) BuildSubject(locator string) *harness.Subject {
	b := t.NewBuilder()
	require.NoError(t, b.UsingResource(locator))
	s, err := b.BuildSubject()
	require.NoError(t, err)
	return s
}

// BuildSubjectForFixture serves the fixture and builds a subject for it with the fixture's style.
func (t *T) BuildSubjectForFixture(f Fixture) *harness.Subject {
	e := t.ServeDocument(f.Name, f.Document)
	b := t.NewBuilder()
	require.NoError(t, b.UsingResource(e.BasePath()))
	require.NoError(t, b.UsingStyle(f.Style))
	s, err := b.BuildSubject()
	require.NoError(t, err)
	return s
}

// WaitContext returns a context that expires after the configured wait timeout, or when the test
// finishes.
func (t *T) WaitContext() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), t.env.waitTimeout)
	t.context.Defer(cancel)
	return ctx
}

// RequireReady waits for the subject to become ready. The test fails and immediately exits if
// it times out.
func (t *T) RequireReady(s *harness.Subject) {
	_, err := s.Wait(t.WaitContext(), nil, nil)
	require.NoError(t, err, "timed out waiting for subject to become ready")
}

// RequireNotReady waits for the subject to become not ready. The test fails and immediately
// exits if it times out.
func (t *T) RequireNotReady(s *harness.Subject) {
	_, err := s.Wait(t.WaitContext(), nil, func() bool { return !s.GetReadyState() })
	require.NoError(t, err, "timed out waiting for subject to become not ready")
}

// RequireFetched waits for a frame to request a document from the endpoint. Resource probes,
// which do not ask for the document content type, are ignored.
func (t *T) RequireFetched(e *framework.MockEndpoint) framework.IncomingRequestInfo {
	for {
		req, err := e.AwaitConnection(awaitRequestTimeout)
		require.NoError(t, err)
		if req.Headers.Get("Accept") == docdef.ContentType {
			return req
		}
		t.Debug("Ignoring %s request without document Accept header", req.Method)
	}
}
