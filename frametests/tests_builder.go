package frametests

import (
	"github.com/frameharness/frame-harness/docdef"
	"github.com/frameharness/frame-harness/harness"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func DoBuilderTests(t *T) {
	t.Run("existing resource is accepted", func(t *T) {
		e := t.ServeDocument("document", docdef.Document{})
		b := t.NewBuilder()
		assert.NoError(t, b.UsingResource(e.BasePath()))
	})

	t.Run("missing resource is rejected", func(t *T) {
		e := t.ServeMissingResource()
		b := t.NewBuilder()
		assert.ErrorIs(t, b.UsingResource(e.BasePath()), harness.ErrNotFound)
	})

	t.Run("unknown endpoint is rejected", func(t *T) {
		b := t.NewBuilder()
		assert.ErrorIs(t, b.UsingResource("/endpoints/no-such-endpoint"), harness.ErrNotFound)
	})

	t.Run("empty resource is rejected", func(t *T) {
		b := t.NewBuilder()
		assert.ErrorIs(t, b.UsingResource(""), harness.ErrInvalidArgument)
	})

	t.Run("build without resource fails", func(t *T) {
		b := t.NewBuilder()
		_, err := b.BuildSubject()
		assert.ErrorIs(t, err, harness.ErrInvalidArgument)
		assert.Equal(t, harness.BuilderConfiguring, b.State())
	})

	t.Run("element that cannot hold children is rejected as container", func(t *T) {
		b := t.NewBuilder()
		assert.ErrorIs(t, b.UsingContainer(t.Document().CreateElement("img")), harness.ErrInvalidArgument)
		assert.ErrorIs(t, b.UsingContainer(nil), harness.ErrInvalidArgument)
	})

	t.Run("frame is attached to configured container", func(t *T) {
		e := t.ServeDocument("document", docdef.Document{})
		container := t.Document().CreateElement("div")
		require.NoError(t, t.Document().Body().AppendChild(container))

		b := t.NewBuilder()
		require.NoError(t, b.UsingResource(e.BasePath()))
		require.NoError(t, b.UsingContainer(container))
		s, err := b.BuildSubject()
		require.NoError(t, err)
		t.RequireReady(s)
		assert.Len(t, container.ChildNodes(), 1)
		assert.Len(t, t.Document().Body().ChildNodes(), 1) // just the container
	})

	t.Run("frame is attached to body by default", func(t *T) {
		e := t.ServeDocument("document", docdef.Document{})
		s := t.BuildSubject(e.BasePath())
		t.RequireReady(s)
		assert.Len(t, t.Document().Body().ChildNodes(), 1)
	})

	t.Run("builder builds only one subject", func(t *T) {
		e := t.ServeDocument("document", docdef.Document{})
		b := t.NewBuilder()
		require.NoError(t, b.UsingResource(e.BasePath()))
		_, err := b.BuildSubject()
		require.NoError(t, err)
		assert.Equal(t, harness.BuilderBuilt, b.State())

		_, err = b.BuildSubject()
		assert.ErrorIs(t, err, harness.ErrAlreadyBuilt)
		assert.ErrorIs(t, b.UsingResource(e.BasePath()), harness.ErrAlreadyBuilt)
		assert.ErrorIs(t, b.UsingStyle("display: none"), harness.ErrAlreadyBuilt)
	})

	for _, f := range t.Fixtures() {
		fixture := f
		t.Run(fixture.Name, func(t *T) {
			t.Run("style is applied to frame", func(t *T) {
				s := t.BuildSubjectForFixture(fixture)
				assert.Equal(t, fixture.Style, s.Style())
			})

			t.Run("frame fetches fixture document", func(t *T) {
				e := t.ServeDocument(fixture.Name, fixture.Document)
				t.BuildSubject(e.BasePath())
				req := t.RequireFetched(e)
				assert.Equal(t, "GET", req.Method)
			})
		})
	}
}
