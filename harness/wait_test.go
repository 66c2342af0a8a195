package harness

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitPollsPredicateThenReturnsReadyState(t *testing.T) {
	s := buildTestSubject(t, newTestDocument(t, newGatedFetcher(nil)), "/ok.json")

	var lock sync.Mutex
	var calls []time.Time
	predicate := func() bool {
		lock.Lock()
		defer lock.Unlock()
		calls = append(calls, time.Now())
		return len(calls) == 3
	}

	start := time.Now()
	result, err := s.Wait(testContext(t), nil, predicate)
	require.NoError(t, err)

	assert.Equal(t, false, result, "default function should report the ready state")
	require.Len(t, calls, 3)
	assert.GreaterOrEqual(t, int64(calls[0].Sub(start)), int64(testPollInterval-time.Millisecond*5),
		"first check should happen one interval after the call")
	assert.GreaterOrEqual(t, int64(calls[2].Sub(start)), int64(3*testPollInterval-time.Millisecond*5))
}

func TestWaitCallsFunctionExactlyOnce(t *testing.T) {
	s := buildTestSubject(t, newTestDocument(t, newGatedFetcher(nil)), "/ok.json")

	count := 0
	result, err := s.Wait(testContext(t), func() interface{} {
		count++
		return "done"
	}, func() bool { return true })

	require.NoError(t, err)
	assert.Equal(t, "done", result)
	assert.Equal(t, 1, count)
}

func TestWaitWithoutPredicateWaitsForReadyState(t *testing.T) {
	fetcher := newGatedFetcher(nil)
	s := buildTestSubject(t, newTestDocument(t, fetcher), "/ok.json")

	pending := s.WaitAsync(testContext(t), nil, nil)
	select {
	case <-pending.Done():
		require.Fail(t, "wait finished before the subject was ready")
	case <-time.After(testPollInterval * 3):
	}

	fetcher.signalLoad()
	result, err := pending.Result()
	require.NoError(t, err)
	assert.Equal(t, true, result)
}

func TestWaitStopsWhenContextIsCancelled(t *testing.T) {
	s := buildTestSubject(t, newTestDocument(t, newGatedFetcher(nil)), "/ok.json")

	ctx, cancel := context.WithTimeout(context.Background(), testPollInterval*3)
	defer cancel()
	result, err := s.Wait(ctx, nil, nil)

	assert.Nil(t, result)
	assert.Equal(t, context.DeadlineExceeded, err)
}

func TestPendingWaitCancel(t *testing.T) {
	s := buildTestSubject(t, newTestDocument(t, newGatedFetcher(nil)), "/ok.json")

	pending := s.WaitAsync(context.Background(), nil, func() bool { return false })
	pending.Cancel()

	select {
	case <-pending.Done():
	case <-time.After(testTimeout):
		require.Fail(t, "cancelled wait did not finish")
	}
	_, err := pending.Result()
	assert.Equal(t, context.Canceled, err)
}

func TestWaitBeforeInit(t *testing.T) {
	s := NewSubject(newTestDocument(t, nil), nil)

	_, err := s.Wait(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestExecuteFunctionRequiresFunction(t *testing.T) {
	s := buildTestSubject(t, newTestDocument(t, newGatedFetcher(nil)), "/ok.json")

	_, err := s.ExecuteFunction(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestExecuteFunctionRunsOnceReady(t *testing.T) {
	fetcher := newGatedFetcher(nil)
	s := buildTestSubject(t, newTestDocument(t, fetcher), "/ok.json")
	fetcher.signalLoad()

	result, err := s.ExecuteFunction(testContext(t), func() interface{} {
		return s.GetReadyState()
	})
	require.NoError(t, err)
	assert.Equal(t, true, result)
}
