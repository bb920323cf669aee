package util

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParallelProcessesAllInputs(t *testing.T) {
	inputs := []int{1, 2, 3, 4, 5}

	var mu sync.Mutex
	seen := map[int]bool{}

	err := Parallel(context.Background(), inputs, 3, func(_ context.Context, n int) error {
		mu.Lock()
		seen[n] = true
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, seen, len(inputs))
}

func TestParallelEmptyInputs(t *testing.T) {
	err := Parallel(context.Background(), nil, 3, func(_ context.Context, _ int) error {
		t.Fatal("fn should not be called")
		return nil
	})
	assert.NoError(t, err)
}

func TestParallelRespectsWorkerLimit(t *testing.T) {
	var active, peak atomic.Int32

	err := Parallel(context.Background(), make([]int, 50), 2, func(_ context.Context, _ int) error {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		active.Add(-1)
		return nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestParallelStopsOnFirstError(t *testing.T) {
	boom := errors.New("boom")
	var calls atomic.Int32

	err := Parallel(context.Background(), make([]int, 100), 1, func(_ context.Context, _ int) error {
		if calls.Add(1) == 3 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Less(t, calls.Load(), int32(100))
}

func TestParallelHonorsParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Parallel(ctx, make([]int, 100), 2, func(ctx context.Context, _ int) error {
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
