// Package docdef defines the JSON representation of a document that can be loaded into a frame.
package docdef

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const ContentType = "application/json"

// Document is the content of a resource as seen by a frame. Globals become the frame window's
// global scope once the document has loaded.
type Document struct {
	Title       string                   `json:"title,omitempty"`
	Globals     map[string]ldvalue.Value `json:"globals,omitempty"`
	LoadDelayMS ldvalue.OptionalInt      `json:"loadDelayMs,omitempty"`
}

// LoadDelay is the time the frame spends "executing" the document before it signals load.
func (d Document) LoadDelay() time.Duration {
	if ms := d.LoadDelayMS.OrElse(0); ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return 0
}

// Parse decodes a document. A body that is not a JSON object is an error.
func Parse(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, fmt.Errorf("malformed document: %w", err)
	}
	return d, nil
}

// Resolve returns ref as an absolute URL, resolving it against base if it is relative. An empty
// base leaves ref unchanged.
func Resolve(base, ref string) (string, error) {
	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	if base == "" || r.IsAbs() {
		return r.String(), nil
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(r).String(), nil
}
