package dom

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/frameharness/frame-harness/docdef"
)

// Fetcher retrieves the document named by a frame's source locator.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (docdef.Document, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, uri string) (docdef.Document, error)

func (f FetcherFunc) Fetch(ctx context.Context, uri string) (docdef.Document, error) {
	return f(ctx, uri)
}

// HTTPFetcher fetches documents with a GET request. Relative locators are resolved against
// BaseURL. If Client is nil, http.DefaultClient is used.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

func (h HTTPFetcher) Fetch(ctx context.Context, uri string) (docdef.Document, error) {
	target, err := docdef.Resolve(h.BaseURL, uri)
	if err != nil {
		return docdef.Document{}, err
	}
	req, err := http.NewRequestWithContext(ctx, "GET", target, nil)
	if err != nil {
		return docdef.Document{}, err
	}
	req.Header.Set("Accept", docdef.ContentType)
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return docdef.Document{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != 200 {
		return docdef.Document{}, fmt.Errorf("%s returned HTTP status %d", target, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return docdef.Document{}, err
	}
	return docdef.Parse(data)
}
