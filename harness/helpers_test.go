package harness

import (
	"context"
	"testing"
	"time"

	"github.com/frameharness/frame-harness/docdef"
	"github.com/frameharness/frame-harness/dom"

	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const (
	testPollInterval = time.Millisecond * 20
	testTimeout      = time.Second * 2
)

// gatedFetcher holds every fetch until the test releases it, so that load signals only happen
// when the test says so.
type gatedFetcher struct {
	doc     docdef.Document
	release chan struct{}
}

func newGatedFetcher(globals map[string]ldvalue.Value) *gatedFetcher {
	return &gatedFetcher{
		doc:     docdef.Document{Globals: globals},
		release: make(chan struct{}, 10),
	}
}

func (g *gatedFetcher) Fetch(ctx context.Context, uri string) (docdef.Document, error) {
	select {
	case <-g.release:
		return g.doc, nil
	case <-ctx.Done():
		return docdef.Document{}, ctx.Err()
	}
}

// signalLoad lets one pending (or future) fetch complete.
func (g *gatedFetcher) signalLoad() {
	g.release <- struct{}{}
}

func newTestDocument(t *testing.T, fetcher dom.Fetcher) *dom.Document {
	doc := dom.NewDocument(fetcher, nil)
	t.Cleanup(doc.Close)
	return doc
}

func existingResources(uris ...string) ResourceOracle {
	return OracleFunc(func(uri string) bool {
		for _, u := range uris {
			if u == uri {
				return true
			}
		}
		return false
	})
}

func buildTestSubject(t *testing.T, doc *dom.Document, uri string) *Subject {
	b := NewBuilder(doc, existingResources(uri), nil)
	require.NoError(t, b.UsingResource(uri))
	require.NoError(t, b.UsingPollInterval(testPollInterval))
	s, err := b.BuildSubject()
	require.NoError(t, err)
	return s
}

func requireReadyState(t *testing.T, s *Subject, expected bool) {
	t.Helper()
	require.Eventually(t, func() bool { return s.GetReadyState() == expected }, testTimeout, time.Millisecond*5,
		"timed out waiting for ready state %t", expected)
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	t.Cleanup(cancel)
	return ctx
}
