package framework

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/frameharness/frame-harness/logging"
)

const endpointPathPrefix = "/endpoints/"
const httpListenerTimeout = time.Second * 10

// TestHarness is an HTTP listener that hosts mock endpoints. Documents that subjects load
// during a test run are served from here.
type TestHarness struct {
	externalBaseURL string
	server          *http.Server
	endpoints       map[string]*MockEndpoint
	lastEndpointID  int
	logger          logging.Logger
	lock            sync.Mutex
}

// NewTestHarness starts an HTTP listener on the specified port. A port of zero means any free
// port. Endpoint URLs are built from testHarnessExternalHostname and the actual port.
func NewTestHarness(
	testHarnessExternalHostname string,
	testHarnessPort int,
	debugLogger logging.Logger,
) (*TestHarness, error) {
	if debugLogger == nil {
		debugLogger = logging.NullLogger()
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", testHarnessPort))
	if err != nil {
		return nil, fmt.Errorf("could not start test harness listener: %w", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port

	h := &TestHarness{
		externalBaseURL: fmt.Sprintf("http://%s:%d", testHarnessExternalHostname, port),
		endpoints:       make(map[string]*MockEndpoint),
		logger:          debugLogger,
	}
	h.server = &http.Server{Handler: http.HandlerFunc(h.serveHTTP)}
	go func() {
		if err := h.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.logger.Printf("Test harness listener stopped: %s", err)
		}
	}()

	if err := awaitListener(port); err != nil {
		_ = h.server.Close()
		return nil, err
	}
	return h, nil
}

// BaseURL returns the externally visible base URL of the listener.
func (h *TestHarness) BaseURL() string {
	return h.externalBaseURL
}

// Close shuts down every endpoint and then the listener.
func (h *TestHarness) Close() error {
	h.lock.Lock()
	endpoints := make([]*MockEndpoint, 0, len(h.endpoints))
	for _, e := range h.endpoints {
		endpoints = append(endpoints, e)
	}
	h.lock.Unlock()
	for _, e := range endpoints {
		e.Close()
	}
	return h.server.Close()
}

func (h *TestHarness) serveHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method == "HEAD" && req.URL.Path == "/" {
		w.WriteHeader(200) // we use this to test whether our own listener is active yet
		return
	}

	if !strings.HasPrefix(req.URL.Path, endpointPathPrefix) {
		h.logger.Printf("Received request for unrecognized URL path %s", req.URL.Path)
		w.WriteHeader(404)
		return
	}
	path := strings.TrimPrefix(req.URL.Path, endpointPathPrefix)
	var endpointID string
	slashPos := strings.Index(path, "/")
	if slashPos >= 0 {
		endpointID = path[0:slashPos]
		path = path[slashPos:]
	} else {
		endpointID = path
		path = ""
	}

	h.lock.Lock()
	e := h.endpoints[endpointID]
	h.lock.Unlock()
	if e == nil {
		h.logger.Printf("Received request for unrecognized endpoint %s", req.URL.Path)
		w.WriteHeader(404)
		return
	}

	var body []byte
	if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			h.logger.Printf("Unexpected error trying to read request body: %s", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		body = data
	}

	ctx, canceller := context.WithCancel(req.Context())
	defer canceller()
	cancellerPtr := &canceller

	incoming := IncomingRequestInfo{
		Headers: req.Header,
		Method:  req.Method,
		Path:    path,
		Body:    body,
		Context: ctx,
	}
	if !e.accept(incoming, cancellerPtr) {
		w.WriteHeader(404)
		return
	}
	e.logger.Printf("%s %s", req.Method, req.URL.Path)

	transformedReq := req.WithContext(ctx)
	url := *req.URL
	url.Path = path
	transformedReq.URL = &url
	if body != nil {
		transformedReq.Body = io.NopCloser(bytes.NewBuffer(body))
	}

	e.handler.ServeHTTP(w, transformedReq)

	e.release(cancellerPtr)
}

func awaitListener(port int) error {
	// Wait till the server is definitely listening for requests before we run any tests
	deadline := time.NewTimer(httpListenerTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(time.Millisecond * 10)
	defer ticker.Stop()
	for {
		select {
		case <-deadline.C:
			return fmt.Errorf("could not detect own listener on port %d", port)
		case <-ticker.C:
			resp, err := http.DefaultClient.Head(fmt.Sprintf("http://localhost:%d/", port))
			if err == nil {
				_ = resp.Body.Close()
				if resp.StatusCode == 200 {
					return nil
				}
			}
		}
	}
}
