package frametests

import (
	"sort"

	"github.com/frameharness/frame-harness/docdef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// minimumObservableLoadDelayMS is long enough for a test to see a subject that has been built
// but has not loaded yet.
const minimumObservableLoadDelayMS = 250

// Fixture is a document that the suite loads into subjects.
type Fixture struct {
	Name     string
	Document docdef.Document
	Style    string
	Missing  []string
}

// GlobalNames returns the names defined by the fixture document, sorted.
func (f Fixture) GlobalNames() []string {
	ret := make([]string, 0, len(f.Document.Globals))
	for name := range f.Document.Globals {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// withObservableLoadDelay returns a copy of doc that takes at least minimumObservableLoadDelayMS
// to load.
func withObservableLoadDelay(doc docdef.Document) docdef.Document {
	if doc.LoadDelayMS.OrElse(0) < minimumObservableLoadDelayMS {
		doc.LoadDelayMS = ldvalue.NewOptionalInt(minimumObservableLoadDelayMS)
	}
	return doc
}

// placeholderFixture is used when no fixtures are configured, so that the fixture-independent
// tests still have something to load.
func placeholderFixture() Fixture {
	return Fixture{
		Name: "placeholder",
		Document: docdef.Document{
			Title: "placeholder",
			Globals: map[string]ldvalue.Value{
				"harness": ldvalue.ObjectBuild().Set("ready", ldvalue.Bool(true)).Build(),
			},
		},
		Missing: []string{"undefinedNamespace"},
	}
}
