package utils

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapParallel_PreservesOrder(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	results, err := MapParallel(context.Background(), items, 3, func(ctx context.Context, n int) (int, error) {
		return n * n, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 4, 9, 16, 25, 36, 49}, results)
}

func TestMapParallel_RespectsLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	items := make([]int, 20)

	_, err := MapParallel(context.Background(), items, 2, func(ctx context.Context, _ int) (struct{}, error) {
		cur := inFlight.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		inFlight.Add(-1)
		return struct{}{}, nil
	})

	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestMapParallel_ReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")

	results, err := MapParallel(context.Background(), []string{"a", "b", "c"}, 0, func(ctx context.Context, s string) (string, error) {
		if s == "b" {
			return "", boom
		}
		return s, nil
	})

	assert.ErrorIs(t, err, boom)
	assert.Nil(t, results)
}

func TestMapParallel_Empty(t *testing.T) {
	results, err := MapParallel(context.Background(), []int(nil), 4, func(ctx context.Context, n int) (int, error) {
		t.Fatal("should not be called")
		return 0, nil
	})
	assert.NoError(t, err)
	assert.Nil(t, results)
}

func TestBatch(t *testing.T) {
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, Batch([]int{1, 2, 3, 4, 5}, 2))
	assert.Nil(t, Batch([]int{1}, 0))
	assert.Nil(t, Batch([]int{}, 3))
}
