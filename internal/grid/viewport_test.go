package grid

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVisibleRangeCoversViewport(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	rows := NewSizeTrack(300, 20, 8)
	cols := NewSizeTrack(80, 90, 20)
	for i := 0; i < rows.Len(); i++ {
		rows.SetSize(i, 8+rng.IntN(60))
	}
	for i := 0; i < cols.Len(); i++ {
		cols.SetSize(i, 20+rng.IntN(200))
	}

	const width, height = 640, 480
	for _, overscan := range []int{0, 30} {
		for range 500 {
			sx := rng.IntN(cols.Total() - width + 1)
			sy := rng.IntN(rows.Total() - height + 1)
			r := ComputeVisibleRange(rows, cols, sx, sy, width, height, overscan)

			require.False(t, r.Empty())
			require.LessOrEqual(t, rows.Position(r.FirstRow), sy)
			require.GreaterOrEqual(t, rows.Position(r.LastRow)+rows.Size(r.LastRow), sy+height)
			require.LessOrEqual(t, cols.Position(r.FirstCol), sx)
			require.GreaterOrEqual(t, cols.Position(r.LastCol)+cols.Size(r.LastCol), sx+width)
		}
	}
}

func TestVisibleRangeStartsAtFirstTouchingTrack(t *testing.T) {
	rows := NewSizeTrack(100, 10, 1)
	cols := NewSizeTrack(100, 10, 1)

	r := ComputeVisibleRange(rows, cols, 0, 35, 50, 20, 0)
	require.Equal(t, 3, r.FirstRow)
	require.Equal(t, 5, r.LastRow)

	// overscan reaches one track further on each side
	r = ComputeVisibleRange(rows, cols, 0, 35, 50, 20, 10)
	require.Equal(t, 2, r.FirstRow)
	require.Equal(t, 6, r.LastRow)
}

func TestVisibleRangeEdgeCases(t *testing.T) {
	rows := NewSizeTrack(10, 10, 1)
	cols := NewSizeTrack(10, 10, 1)

	require.True(t, ComputeVisibleRange(rows, cols, 0, 0, 0, 100, 0).Empty())
	require.True(t, ComputeVisibleRange(rows, cols, 0, 0, 100, 0, 0).Empty())

	r := ComputeVisibleRange(rows, cols, 10_000, 10_000, 50, 50, 5)
	require.Equal(t, Range{FirstRow: 9, LastRow: 9, FirstCol: 9, LastCol: 9}, r)

	r = ComputeVisibleRange(rows, cols, -40, -40, 25, 25, 0)
	require.Equal(t, 0, r.FirstRow)
	require.Equal(t, 2, r.LastRow)
	require.True(t, r.Contains(1, 1))
	require.False(t, r.Contains(3, 1))

	empty := NewSizeTrack(0, 10, 1)
	require.True(t, ComputeVisibleRange(empty, cols, 0, 0, 50, 50, 0).Empty())
}
