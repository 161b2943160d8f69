package dataflow_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/hr_analytics_sample/pkg/dataflow"
)

func TestPipeline_MapWithRetry(t *testing.T) {
	ctx := context.Background()

	type Row struct {
		ID   string
		Name string
	}

	source := dataflow.From(ctx, "1,Alice", "2,Bob", "retry,Charlie", "broken")

	parsed := dataflow.Map(ctx, source, func(s string) (Row, error) {
		parts := strings.Split(s, ",")
		if len(parts) != 2 {
			return Row{}, fmt.Errorf("invalid format %q", s)
		}
		return Row{ID: parts[0], Name: parts[1]}, nil
	}, dataflow.WithWorkers(2))

	var attempts int32
	saved := dataflow.Map(ctx, parsed, func(row Row) (Row, error) {
		if row.ID == "retry" && atomic.AddInt32(&attempts, 1) < 3 {
			return Row{}, errors.New("transient error")
		}
		return row, nil
	}, dataflow.WithRetry(3, func(int) time.Duration { return time.Millisecond }))

	var ids []string
	err := dataflow.ForEach(ctx, saved, func(row Row) error {
		ids = append(ids, row.ID)
		return nil
	})
	require.NoError(t, err)

	sort.Strings(ids)
	assert.Equal(t, []string{"1", "2", "retry"}, ids)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestBatch(t *testing.T) {
	ctx := context.Background()
	items := make([]int, 7)
	for i := range items {
		items[i] = i
	}

	var sizes []int
	err := dataflow.ForEach(ctx, dataflow.Batch(ctx, dataflow.From(ctx, items...), 3), func(b []int) error {
		sizes = append(sizes, len(b))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3, 1}, sizes)
}

func TestForEach_ReturnsFirstError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	boom := errors.New("boom")
	var calls int32
	err := dataflow.ForEach(ctx, dataflow.From(ctx, 1, 2, 3, 4), func(n int) error {
		atomic.AddInt32(&calls, 1)
		if n == 2 {
			return boom
		}
		return nil
	}, dataflow.WithRetry(1, nil))

	assert.ErrorIs(t, err, boom)
	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(4))
}

func TestForEach_ErrorHandlerSkips(t *testing.T) {
	ctx := context.Background()
	var handled int32
	err := dataflow.ForEach(ctx, dataflow.From(ctx, 1, 2, 3), func(n int) error {
		if n%2 == 1 {
			return errors.New("odd")
		}
		return nil
	}, dataflow.WithErrorHandler(func(error) bool {
		atomic.AddInt32(&handled, 1)
		return true
	}))
	require.NoError(t, err)
	assert.Equal(t, int32(2), handled)
}

func TestExponentialBackoff(t *testing.T) {
	b := dataflow.ExponentialBackoff(10 * time.Millisecond)
	assert.Equal(t, 10*time.Millisecond, b(1))
	assert.Equal(t, 40*time.Millisecond, b(3))
}

func TestWithBufferSize(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	batches := dataflow.Batch(ctx, dataflow.From(ctx, 1, 2, 3, 4, 5), 1, dataflow.WithBufferSize(2))
	assert.Equal(t, 2, cap(batches))
	assert.Eventually(t, func() bool { return len(batches) == 2 }, time.Second, time.Millisecond)

	doubled := dataflow.Map(ctx, dataflow.From(ctx, 1, 2, 3), func(n int) (int, error) {
		return n * 2, nil
	}, dataflow.WithBufferSize(3))
	assert.Eventually(t, func() bool { return len(doubled) == 3 }, time.Second, time.Millisecond)

	var got []int
	require.NoError(t, dataflow.ForEach(ctx, doubled, func(n int) error {
		got = append(got, n)
		return nil
	}))
	assert.Equal(t, []int{2, 4, 6}, got)
}
