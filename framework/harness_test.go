package framework

import (
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHarness(t *testing.T) *TestHarness {
	h, err := NewTestHarness("localhost", 0, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func TestMockEndpointReceivesSubpath(t *testing.T) {
	h := startHarness(t)
	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(202))
	e := h.NewMockEndpoint(handler, "recorder", nil)
	assert.True(t, strings.HasPrefix(e.BaseURL(), h.BaseURL()+"/endpoints/"))

	resp, err := http.Post(e.BaseURL()+"/some/path?x=1", "text/plain", strings.NewReader("hi"))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, 202, resp.StatusCode)

	r := <-requests
	assert.Equal(t, "/some/path", r.Request.URL.Path)
	assert.Equal(t, "hi", string(r.Body))

	incoming, err := e.AwaitConnection(time.Second)
	require.NoError(t, err)
	assert.Equal(t, "POST", incoming.Method)
	assert.Equal(t, "/some/path", incoming.Path)
	assert.Equal(t, []byte("hi"), incoming.Body)
}

func TestMockEndpointServesJSON(t *testing.T) {
	h := startHarness(t)
	e := h.NewMockEndpoint(httphelpers.HandlerWithJSONResponse(map[string]int{"a": 1}, nil), "", nil)
	assert.Equal(t, "endpoint 1", e.Description())

	resp, err := http.Get(e.BaseURL())
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
	assert.JSONEq(t, `{"a":1}`, string(body))
}

func TestUnknownAndClosedEndpointsReturn404(t *testing.T) {
	h := startHarness(t)
	e := h.NewMockEndpoint(httphelpers.HandlerWithStatus(200), "", nil)
	url := e.BaseURL()
	e.Close()

	for _, u := range []string{url, h.BaseURL() + "/endpoints/99", h.BaseURL() + "/elsewhere"} {
		resp, err := http.Get(u)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, 404, resp.StatusCode, u)
	}

	_, err := e.AwaitConnection(time.Second)
	assert.Error(t, err)
}

func TestAwaitConnectionTimesOut(t *testing.T) {
	h := startHarness(t)
	e := h.NewMockEndpoint(httphelpers.HandlerWithStatus(200), "idle", nil)
	start := time.Now()
	_, err := e.AwaitConnection(time.Millisecond * 50)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}
