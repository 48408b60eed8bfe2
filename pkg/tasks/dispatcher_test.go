package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGoRunsAndWaitDrains(t *testing.T) {
	dispatcher := NewDispatcher(zap.NewNop(), time.Second)

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		dispatcher.Go("notify", func(ctx context.Context) error {
			ran.Add(1)
			return nil
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, dispatcher.Wait(ctx))
	assert.Equal(t, int32(5), ran.Load())
}

func TestGoSwallowsErrors(t *testing.T) {
	dispatcher := NewDispatcher(zap.NewNop(), time.Second)
	dispatcher.Go("failing", func(ctx context.Context) error {
		return errors.New("provider down")
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, dispatcher.Wait(ctx))
}

func TestTaskContextIsBounded(t *testing.T) {
	dispatcher := NewDispatcher(zap.NewNop(), 10*time.Millisecond)

	done := make(chan error, 1)
	dispatcher.Go("slow", func(ctx context.Context) error {
		<-ctx.Done()
		done <- ctx.Err()
		return ctx.Err()
	})

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(5 * time.Second):
		t.Fatal("task context never expired")
	}
}

func TestWaitHonorsContext(t *testing.T) {
	dispatcher := NewDispatcher(zap.NewNop(), time.Minute)

	release := make(chan struct{})
	dispatcher.Go("stuck", func(ctx context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, dispatcher.Wait(ctx), context.DeadlineExceeded)
	close(release)
}
