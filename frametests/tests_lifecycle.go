package frametests

import (
	"context"
	"time"

	"github.com/frameharness/frame-harness/docdef"
	"github.com/frameharness/frame-harness/harness"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func DoLifecycleTests(t *T) {
	for _, f := range t.Fixtures() {
		fixture := f
		t.Run(fixture.Name, func(t *T) {
			t.Run("subject is not ready before document loads", func(t *T) {
				e := t.ServeDocument(fixture.Name, withObservableLoadDelay(fixture.Document))
				s := t.BuildSubject(e.BasePath())
				assert.False(t, s.GetReadyState())
				assert.Equal(t, harness.StateNotReady, s.State())
				t.RequireReady(s)
				assert.Equal(t, harness.StateReady, s.State())
			})

			t.Run("wait returns ready state", func(t *T) {
				s := t.BuildSubjectForFixture(fixture)
				result, err := s.Wait(t.WaitContext(), nil, nil)
				require.NoError(t, err)
				assert.Equal(t, true, result)
			})

			t.Run("execute function runs once subject is ready", func(t *T) {
				s := t.BuildSubjectForFixture(fixture)
				calls := 0
				result, err := s.ExecuteFunction(t.WaitContext(), func() interface{} {
					calls++
					return s.Location()
				})
				require.NoError(t, err)
				assert.Equal(t, 1, calls)
				assert.NotEqual(t, "", result)
			})

			t.Run("reload makes subject not ready and then ready again", func(t *T) {
				e := t.ServeDocument(fixture.Name, withObservableLoadDelay(fixture.Document))
				s := t.BuildSubject(e.BasePath())
				t.RequireReady(s)
				require.NoError(t, s.Reload())
				t.RequireNotReady(s)
				t.RequireReady(s)
			})
		})
	}

	t.Run("execute function without function fails", func(t *T) {
		e := t.ServeDocument("document", docdef.Document{})
		s := t.BuildSubject(e.BasePath())
		_, err := s.ExecuteFunction(t.WaitContext(), nil)
		assert.ErrorIs(t, err, harness.ErrInvalidArgument)
	})

	t.Run("wait with custom predicate", func(t *T) {
		e := t.ServeDocument("document", docdef.Document{})
		s := t.BuildSubject(e.BasePath())
		deadline := time.Now().Add(time.Millisecond * 100)
		result, err := s.Wait(t.WaitContext(), func() interface{} { return "done" },
			func() bool { return time.Now().After(deadline) })
		require.NoError(t, err)
		assert.Equal(t, "done", result)
	})

	t.Run("pending wait can be cancelled", func(t *T) {
		e := t.ServeDocument("document", docdef.Document{})
		s := t.BuildSubject(e.BasePath())
		p := s.WaitAsync(t.WaitContext(), nil, func() bool { return false })
		p.Cancel()
		_, err := p.Result()
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("ready state can be set directly", func(t *T) {
		e := t.ServeDocument("document", docdef.Document{})
		s := t.BuildSubject(e.BasePath())
		t.RequireReady(s)
		s.SetReadyState(false)
		assert.False(t, s.GetReadyState())
		s.SetReadyState(true)
		assert.True(t, s.GetReadyState())
	})
}

func DoTeardownTests(t *T) {
	t.Run("kill subject makes it not ready", func(t *T) {
		e := t.ServeDocument("document", docdef.Document{})
		s := t.BuildSubject(e.BasePath())
		t.RequireReady(s)
		require.NoError(t, s.KillSubject())
		t.RequireNotReady(s)
		assert.Equal(t, harness.StateDestroyed, s.State())
		assert.Len(t, t.Document().Body().ChildNodes(), 0)
	})

	t.Run("kill subject twice fails", func(t *T) {
		e := t.ServeDocument("document", docdef.Document{})
		s := t.BuildSubject(e.BasePath())
		require.NoError(t, s.KillSubject())
		assert.ErrorIs(t, s.KillSubject(), harness.ErrDetachWithoutParent)
	})

	t.Run("killed subject cannot reload", func(t *T) {
		e := t.ServeDocument("document", docdef.Document{})
		s := t.BuildSubject(e.BasePath())
		require.NoError(t, s.KillSubject())
		assert.ErrorIs(t, s.Reload(), harness.ErrDetachWithoutParent)
	})

	t.Run("kill before load completes", func(t *T) {
		e := t.ServeDocument("document", withObservableLoadDelay(docdef.Document{}))
		s := t.BuildSubject(e.BasePath())
		require.NoError(t, s.KillSubject())
		assert.False(t, s.GetReadyState())
	})
}
