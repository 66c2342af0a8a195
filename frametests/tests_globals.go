package frametests

import (
	"errors"

	"github.com/frameharness/frame-harness/docdef"
	"github.com/frameharness/frame-harness/harness"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func DoGlobalScopeTests(t *T) {
	for _, f := range t.Fixtures() {
		fixture := f
		t.Run(fixture.Name, func(t *T) {
			t.Run("defined names are visible", func(t *T) {
				s := t.BuildSubjectForFixture(fixture)
				t.RequireReady(s)
				for _, name := range fixture.GlobalNames() {
					value, err := s.GetChildContext(name)
					if assert.NoError(t, err, "name %q", name) {
						assert.JSONEq(t, fixture.Document.Globals[name].JSONString(), value.JSONString(),
							"name %q", name)
					}
				}
			})

			t.Run("names not in document are not found", func(t *T) {
				s := t.BuildSubjectForFixture(fixture)
				t.RequireReady(s)
				for _, name := range fixture.Missing {
					_, err := s.GetChildContext(name)
					assert.ErrorIs(t, err, harness.ErrNotFound, "name %q", name)
				}
			})
		})
	}

	t.Run("empty namespace is rejected", func(t *T) {
		e := t.ServeDocument("document", docdef.Document{})
		s := t.BuildSubject(e.BasePath())
		_, err := s.GetChildContext("")
		assert.ErrorIs(t, err, harness.ErrInvalidArgument)
	})

	t.Run("namespace is looked up in current document", func(t *T) {
		first := httphelpers.HandlerWithJSONResponse(docdef.Document{
			Globals: map[string]ldvalue.Value{"app": ldvalue.String("first")},
		}, nil)
		second := httphelpers.HandlerWithJSONResponse(docdef.Document{
			Globals: map[string]ldvalue.Value{"app": ldvalue.String("second")},
		}, nil)
		// the resource probe and the initial load get the first document, the reload the second
		e := t.ServeHandler("changing document", httphelpers.SequentialHandler(first, first, second))
		s := t.BuildSubject(e.BasePath())
		t.RequireReady(s)
		value, err := s.GetChildContext("app")
		require.NoError(t, err)
		assert.Equal(t, "first", value.StringValue())

		require.NoError(t, s.Reload())
		_, err = s.Wait(t.WaitContext(), nil, func() bool {
			v, err := s.GetChildContext("app")
			return err == nil && v.StringValue() == "second"
		})
		assert.NoError(t, err, "timed out waiting for reloaded document's value")
	})

	t.Run("scope is cleared when subject is killed", func(t *T) {
		e := t.ServeDocument("document", docdef.Document{
			Globals: map[string]ldvalue.Value{"app": ldvalue.Int(1)},
		})
		s := t.BuildSubject(e.BasePath())
		t.RequireReady(s)
		require.NoError(t, s.KillSubject())
		_, err := s.Wait(t.WaitContext(), nil, func() bool {
			_, err := s.GetChildContext("app")
			return errors.Is(err, harness.ErrNotFound)
		})
		assert.NoError(t, err, "timed out waiting for global scope to be cleared")
	})
}
