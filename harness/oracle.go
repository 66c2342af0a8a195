package harness

import (
	"io"
	"fmt"
	"net/http"

	"github.com/frameharness/frame-harness/docdef"
	"github.com/frameharness/frame-harness/logging"
)

// ResourceOracle answers whether a resource exists. Exists fails only for a missing or
// malformed locator; a resource that can't be reached is reported as not existing.
type ResourceOracle interface {
	Exists(uri string) (bool, error)
}

// OracleFunc adapts a plain function to the ResourceOracle interface.
type OracleFunc func(uri string) bool

func (f OracleFunc) Exists(uri string) (bool, error) {
	if uri == "" {
		return false, fmt.Errorf("%w: resource locator is empty", ErrInvalidArgument)
	}
	return f(uri), nil
}

// HTTPOracle probes a resource with a single blocking GET request. The resource exists if and
// only if the response status is 200. There are no retries and no timeout other than the
// client's own.
type HTTPOracle struct {
	baseURL string
	client  *http.Client
	logger  logging.Logger
}

// NewHTTPOracle creates an HTTPOracle that resolves relative locators against baseURL. If
// client is nil, http.DefaultClient is used.
func NewHTTPOracle(baseURL string, client *http.Client, logger logging.Logger) *HTTPOracle {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = logging.NullLogger()
	}
	return &HTTPOracle{baseURL: baseURL, client: client, logger: logger}
}

func (o *HTTPOracle) Exists(uri string) (bool, error) {
	if uri == "" {
		return false, fmt.Errorf("%w: resource locator is empty", ErrInvalidArgument)
	}
	target, err := docdef.Resolve(o.baseURL, uri)
	if err != nil {
		return false, fmt.Errorf("%w: resource locator %q: %s", ErrInvalidArgument, uri, err)
	}
	resp, err := o.client.Get(target)
	if err != nil {
		o.logger.Printf("Resource probe for %s failed: %s", target, err)
		return false, nil
	}
	if resp.Body != nil {
		_, _ = io.Copy(io.Discard, resp.Body) // drain so the connection can be reused
		_ = resp.Body.Close()
	}
	o.logger.Printf("Resource probe for %s returned HTTP status %d", target, resp.StatusCode)
	return resp.StatusCode == 200, nil
}
