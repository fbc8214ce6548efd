package render

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchedulerCoalesces(t *testing.T) {
	requests := 0
	s := NewScheduler(func() { requests++ })

	for range 5 {
		s.Schedule()
	}
	require.Equal(t, 1, requests)
	require.True(t, s.Pending())

	painted := 0
	require.True(t, s.Frame(func() { painted++ }))
	require.False(t, s.Frame(func() { painted++ }))
	require.Equal(t, 1, painted)
	require.Equal(t, 1, s.Paints())

	s.Schedule()
	require.Equal(t, 2, requests)
}

func TestSchedulerBatchHoldsFrames(t *testing.T) {
	requests := 0
	s := NewScheduler(func() { requests++ })

	s.BeginBatch()
	s.BeginBatch()
	for range 100 {
		s.Schedule()
	}
	require.Equal(t, 0, requests)
	require.False(t, s.Frame(nil))

	s.EndBatch()
	require.Equal(t, 0, requests)
	s.EndBatch()
	require.Equal(t, 1, requests)

	require.True(t, s.Frame(nil))
	require.Equal(t, 1, s.Paints())

	// unbalanced end is ignored
	s.EndBatch()
	require.False(t, s.Frame(nil))
}

func TestSchedulerEmptyBatchRequestsNothing(t *testing.T) {
	requests := 0
	s := NewScheduler(func() { requests++ })
	s.BeginBatch()
	s.EndBatch()
	require.Equal(t, 0, requests)
	require.False(t, s.Pending())
}

func TestConvergeIsMonotonic(t *testing.T) {
	cur := 6.0
	prev := cur
	for i := 0; i < 20 && cur != 9; i++ {
		cur = Converge(cur, 9)
		require.GreaterOrEqual(t, cur, prev)
		require.LessOrEqual(t, cur, 9.0)
		prev = cur
	}
	require.Equal(t, 9.0, cur)

	cur = 12
	for i := 0; i < 20 && cur != 7; i++ {
		next := Converge(cur, 7)
		require.LessOrEqual(t, next, cur)
		require.GreaterOrEqual(t, next, 7.0)
		cur = next
	}
	require.Equal(t, 7.0, cur)
}

func TestRowHeaderTarget(t *testing.T) {
	require.Equal(t, 6, RowHeaderTarget(8, 6))
	require.Equal(t, 7, RowHeaderTarget(99998, 6))
	require.Equal(t, 10, RowHeaderTarget(9999999, 6))
}
