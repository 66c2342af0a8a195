package dom

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/frameharness/frame-harness/docdef"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const signalTimeout = time.Second * 2

type lifecycleRecorder struct {
	events []string
	ch     chan string
	lock   sync.Mutex
}

func newLifecycleRecorder(f *Frame) *lifecycleRecorder {
	r := &lifecycleRecorder{ch: make(chan string, 10)}
	f.OnLoad(func() { r.record("load") })
	f.ContentWindow().OnUnload(func() { r.record("unload") })
	return r
}

func (r *lifecycleRecorder) record(event string) {
	r.lock.Lock()
	r.events = append(r.events, event)
	r.lock.Unlock()
	r.ch <- event
}

func (r *lifecycleRecorder) Events() []string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]string(nil), r.events...)
}

func (r *lifecycleRecorder) requireEvent(t *testing.T, expected string) {
	t.Helper()
	select {
	case event := <-r.ch:
		require.Equal(t, expected, event)
	case <-time.After(signalTimeout):
		require.Fail(t, "timed out waiting for frame signal", "expected %q", expected)
	}
}

func staticFetcher(doc docdef.Document) Fetcher {
	return FetcherFunc(func(context.Context, string) (docdef.Document, error) {
		return doc, nil
	})
}

func TestFrameLoadsDocumentOverHTTP(t *testing.T) {
	content := docdef.Document{
		Title:   "fixture",
		Globals: map[string]ldvalue.Value{"foo": ldvalue.Int(42)},
	}
	handler := httphelpers.HandlerForPath("/fixtures/ok.json",
		httphelpers.HandlerWithJSONResponse(content, nil),
		httphelpers.HandlerWithStatus(404))

	httphelpers.WithServer(handler, func(server *httptest.Server) {
		doc := NewDocument(HTTPFetcher{BaseURL: server.URL}, nil)
		defer doc.Close()

		frame := doc.CreateFrame()
		r := newLifecycleRecorder(frame)
		frame.SetSrc("/fixtures/ok.json")
		require.NoError(t, doc.Body().AppendChild(frame))

		r.requireEvent(t, "load")
		assert.True(t, frame.Loaded())

		value, ok := frame.ContentWindow().Lookup("foo")
		require.True(t, ok)
		assert.Equal(t, 42, value.IntValue())
		assert.Equal(t, "fixture", frame.ContentWindow().Title())
		assert.Equal(t, "/fixtures/ok.json", frame.ContentWindow().Location())
	})
}

func TestFrameDoesNotLoadUntilAttached(t *testing.T) {
	var calls int
	var lock sync.Mutex
	doc := NewDocument(FetcherFunc(func(context.Context, string) (docdef.Document, error) {
		lock.Lock()
		calls++
		lock.Unlock()
		return docdef.Document{}, nil
	}), nil)
	defer doc.Close()

	frame := doc.CreateFrame()
	frame.SetSrc("/ok.json")
	require.NoError(t, doc.Sync())

	lock.Lock()
	assert.Equal(t, 0, calls)
	lock.Unlock()
	assert.False(t, frame.Loaded())
	assert.Equal(t, blankLocation, frame.ContentWindow().Location())
}

func TestReloadSignalsUnloadBeforeNextLoad(t *testing.T) {
	doc := NewDocument(staticFetcher(docdef.Document{}), nil)
	defer doc.Close()

	frame := doc.CreateFrame()
	r := newLifecycleRecorder(frame)
	frame.SetSrc("/ok.json")
	require.NoError(t, doc.Body().AppendChild(frame))
	r.requireEvent(t, "load")

	require.NoError(t, frame.Reload())
	r.requireEvent(t, "unload")
	r.requireEvent(t, "load")

	assert.Equal(t, []string{"load", "unload", "load"}, r.Events())
}

func TestRemoveSignalsUnloadAndClearsScope(t *testing.T) {
	doc := NewDocument(staticFetcher(docdef.Document{
		Globals: map[string]ldvalue.Value{"foo": ldvalue.String("bar")},
	}), nil)
	defer doc.Close()

	frame := doc.CreateFrame()
	r := newLifecycleRecorder(frame)
	frame.SetSrc("/ok.json")
	require.NoError(t, doc.Body().AppendChild(frame))
	r.requireEvent(t, "load")

	require.NoError(t, frame.Remove())
	r.requireEvent(t, "unload")
	assert.False(t, frame.Loaded())
	assert.Nil(t, frame.ParentNode())

	require.NoError(t, doc.Sync())
	_, ok := frame.ContentWindow().Lookup("foo")
	assert.False(t, ok)
}

func TestRemoveWithoutParent(t *testing.T) {
	doc := NewDocument(nil, nil)
	defer doc.Close()

	frame := doc.CreateFrame()
	assert.Equal(t, ErrNoParent, frame.Remove())
	assert.Equal(t, ErrNoParent, frame.Reload())
}

func TestFrameIsNotAContainer(t *testing.T) {
	doc := NewDocument(nil, nil)
	defer doc.Close()

	_, ok := interface{}(doc.CreateFrame()).(Container)
	assert.False(t, ok)
}

func TestLoadDelayPostponesLoadSignal(t *testing.T) {
	doc := NewDocument(staticFetcher(docdef.Document{LoadDelayMS: ldvalue.NewOptionalInt(200)}), nil)
	defer doc.Close()

	frame := doc.CreateFrame()
	r := newLifecycleRecorder(frame)
	frame.SetSrc("/slow.json")
	require.NoError(t, doc.Body().AppendChild(frame))

	require.NoError(t, doc.Sync())
	assert.False(t, frame.Loaded())
	r.requireEvent(t, "load")
}

func TestFailedFetchStillSignalsLoad(t *testing.T) {
	doc := NewDocument(FetcherFunc(func(context.Context, string) (docdef.Document, error) {
		return docdef.Document{}, errors.New("sorry")
	}), nil)
	defer doc.Close()

	frame := doc.CreateFrame()
	r := newLifecycleRecorder(frame)
	frame.SetSrc("/broken.json")
	require.NoError(t, doc.Body().AppendChild(frame))

	r.requireEvent(t, "load")
	assert.Empty(t, frame.ContentWindow().Names())
}

func TestSupersededLoadIsNeverSignalled(t *testing.T) {
	release := make(chan struct{})
	var lock sync.Mutex
	var fetched []string
	doc := NewDocument(FetcherFunc(func(ctx context.Context, uri string) (docdef.Document, error) {
		lock.Lock()
		fetched = append(fetched, uri)
		lock.Unlock()
		if uri == "/first.json" {
			select {
			case <-release:
			case <-ctx.Done():
				return docdef.Document{}, ctx.Err()
			}
		}
		return docdef.Document{Title: uri}, nil
	}), nil)
	defer doc.Close()
	defer close(release)

	frame := doc.CreateFrame()
	r := newLifecycleRecorder(frame)
	frame.SetSrc("/first.json")
	require.NoError(t, doc.Body().AppendChild(frame))
	frame.SetSrc("/second.json")

	r.requireEvent(t, "load")
	require.NoError(t, doc.Sync())
	assert.Equal(t, []string{"load"}, r.Events())
	assert.Equal(t, "/second.json", frame.ContentWindow().Title())
}

func TestHTTPFetcherReportsErrorStatus(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithStatus(404), func(server *httptest.Server) {
		_, err := HTTPFetcher{BaseURL: server.URL}.Fetch(context.Background(), "/missing.json")
		assert.Error(t, err)
	})
}
