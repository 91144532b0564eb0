package scheduler

import (
	"context"
	"testing"
	"time"

	"timeoutq/workerpool"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

func TestDeliver(t *testing.T) {
	exit := make(chan struct{})
	defer close(exit)

	delivered := make(chan Job, 1)
	handler := func(ctx context.Context, j Job) error {
		delivered <- j
		return nil
	}

	s := New(exit, handler, workerpool.NewPool(2, zap.NewExample()), zap.NewExample())

	start := time.Now()
	id, err := s.Schedule([]byte("hello"), 30*time.Millisecond)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	select {
	case j := <-delivered:
		require.Equal(t, id, j.Id)
		require.Equal(t, []byte("hello"), j.Payload)
		require.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond,
			"a job is never delivered before its delay elapses")
	case <-time.After(2 * time.Second):
		t.Fatal("job was not delivered")
	}
}

func TestDeliverImmediate(t *testing.T) {
	exit := make(chan struct{})
	defer close(exit)

	delivered := make(chan Job, 1)
	handler := func(ctx context.Context, j Job) error {
		delivered <- j
		return nil
	}

	s := New(exit, handler, workerpool.NewPool(2, zap.NewExample()), zap.NewExample())
	_, err := s.Schedule([]byte("now"), 0)
	require.NoError(t, err)

	select {
	case j := <-delivered:
		require.Equal(t, []byte("now"), j.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("zero-delay job was not delivered")
	}
}

func TestCancel(t *testing.T) {
	exit := make(chan struct{})
	defer close(exit)

	delivered := make(chan Job, 2)
	handler := func(ctx context.Context, j Job) error {
		delivered <- j
		return nil
	}

	s := New(exit, handler, workerpool.NewPool(2, zap.NewExample()), zap.NewExample())

	first, err := s.Schedule([]byte("cancel me"), 50*time.Millisecond)
	require.NoError(t, err)
	second, err := s.Schedule([]byte("keep me"), 60*time.Millisecond)
	require.NoError(t, err)
	s.Cancel(first)

	select {
	case j := <-delivered:
		require.Equal(t, second, j.Id)
	case <-time.After(2 * time.Second):
		t.Fatal("surviving job was not delivered")
	}

	select {
	case j := <-delivered:
		t.Fatalf("cancelled job %s was delivered", j.Id)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestRetry(t *testing.T) {
	exit := make(chan struct{})
	defer close(exit)

	calls := atomic.NewInt32(0)
	done := make(chan struct{})
	handler := func(ctx context.Context, j Job) error {
		if calls.Inc() == 1 {
			return errors.New("transient failure")
		}
		close(done)
		return nil
	}

	s := New(exit, handler, workerpool.NewPool(2, zap.NewExample()), zap.NewExample(),
		WithMaxAttempts(3))
	_, err := s.Schedule([]byte("retry"), 10*time.Millisecond)
	require.NoError(t, err)

	select {
	case <-done:
		require.Equal(t, int32(2), calls.Load())
	case <-time.After(10 * time.Second):
		t.Fatal("job was never retried")
	}
}

func TestScheduleAfterExit(t *testing.T) {
	exit := make(chan struct{})
	s := New(exit, func(context.Context, Job) error { return nil },
		workerpool.NewPool(1, zap.NewExample()), zap.NewExample())

	close(exit)
	time.Sleep(20 * time.Millisecond) // let the loop observe exit

	_, err := s.Schedule([]byte("late"), time.Millisecond)
	require.ErrorIs(t, err, ErrStopped)
}
