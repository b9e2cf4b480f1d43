package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/emojitopng/emojitopng-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReloader struct {
	calls atomic.Int32
}

func (r *countingReloader) Reload(_ context.Context) *Snapshot {
	r.calls.Add(1)
	return newSnapshot(&LoadResult{Records: []domain.EmojiRecord{}, Source: domain.SourceBundle})
}

func TestNewReloadScheduler_InvalidExpression(t *testing.T) {
	_, err := NewReloadScheduler(&countingReloader{}, "every tuesday")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "every tuesday")
}

func TestReloadScheduler_Next(t *testing.T) {
	s, err := NewReloadScheduler(&countingReloader{}, "*/30 * * * *")
	require.NoError(t, err)

	from := time.Date(2024, 5, 1, 10, 12, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC), s.Next(from))
}

func TestReloadScheduler_RunFiresAndStops(t *testing.T) {
	r := &countingReloader{}
	s, err := NewReloadScheduler(r, "@every 1s")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return r.calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
