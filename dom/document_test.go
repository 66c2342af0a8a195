package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunExecutesTasksInOrder(t *testing.T) {
	doc := NewDocument(nil, nil)
	defer doc.Close()

	var seen []int
	for i := 0; i < 5; i++ {
		n := i
		require.NoError(t, doc.Run(func() { seen = append(seen, n) }))
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, seen)
}

func TestRunReportsPanic(t *testing.T) {
	doc := NewDocument(nil, nil)
	defer doc.Close()

	err := doc.Run(func() { panic("boom") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	assert.NoError(t, doc.Sync(), "loop should survive a panicking task")
}

func TestRunAfterClose(t *testing.T) {
	doc := NewDocument(nil, nil)
	doc.Close()
	doc.Close()

	assert.Equal(t, ErrClosed, doc.Run(func() {}))
}
