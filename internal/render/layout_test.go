package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/gridsheet/internal/grid"
)

func TestBuildLayoutPlacesVisibleTracks(t *testing.T) {
	rows := grid.NewSizeTrack(1000, 1, 1)
	cols := grid.NewSizeTrack(50, 10, 3)
	v := View{Width: 46, Height: 12, RowHeaderWidth: 6, ColumnHeaderHeight: 1, ScrollX: 5, ScrollY: 3, Overscan: 2}

	l := BuildLayout(rows, cols, v)
	require.False(t, l.Empty())

	// column 0 is half scrolled off, column 4 starts at the right edge
	require.Equal(t, Span{Index: 0, Start: 1, Size: 10}, l.Cols[0])
	last := l.Cols[len(l.Cols)-1]
	require.Equal(t, 4, last.Index)
	require.Equal(t, 41, last.Start)

	require.Equal(t, Span{Index: 3, Start: 1, Size: 1}, l.Rows[0])
	require.Equal(t, 13, l.Rows[len(l.Rows)-1].Index)

	s, ok := l.ColAt(20)
	require.True(t, ok)
	require.Equal(t, 1, s.Index)
	_, ok = l.RowAt(50)
	require.False(t, ok)
}

func TestBuildLayoutEmptySurface(t *testing.T) {
	rows := grid.NewSizeTrack(10, 1, 1)
	cols := grid.NewSizeTrack(10, 10, 3)

	l := BuildLayout(rows, cols, View{Width: 6, Height: 10, RowHeaderWidth: 6, ColumnHeaderHeight: 1})
	require.True(t, l.Empty())
	require.Nil(t, l.Cols)
}

func TestBuildLayoutFollowsLiveResize(t *testing.T) {
	rows := grid.NewSizeTrack(10, 1, 1)
	cols := grid.NewSizeTrack(10, 10, 3)
	v := View{Width: 46, Height: 5, RowHeaderWidth: 6, ColumnHeaderHeight: 1}

	before := BuildLayout(rows, cols, v)
	cols.SetSize(0, 30)
	after := BuildLayout(rows, cols, v)

	require.Equal(t, 10, before.Cols[0].Size)
	require.Equal(t, 30, after.Cols[0].Size)
	require.Equal(t, 36, after.Cols[1].Start)
	require.Less(t, len(after.Cols), len(before.Cols))
}
