package grid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	st := Aggregate([][]string{
		{"1", "2", "text"},
		{"", "  ", "3.5"},
		{"1,000", "50%", "#DIV/0!"},
	})
	require.Equal(t, 7, st.Count)
	require.Equal(t, 5, st.Numeric)
	require.InDelta(t, 1007, st.Sum, 1e-9)
	require.InDelta(t, 201.4, st.Average, 1e-9)
	require.Equal(t, 0.5, st.Min)
	require.Equal(t, 1000.0, st.Max)
	require.True(t, st.HasNumbers())
}

func TestAggregateWithoutNumbers(t *testing.T) {
	st := Aggregate([][]string{{"a", "b"}, nil})
	require.Equal(t, 2, st.Count)
	require.False(t, st.HasNumbers())
	require.Zero(t, st.Sum)
	require.Zero(t, st.Average)

	require.Equal(t, Stats{}, Aggregate(nil))
}

func TestSelectionStats(t *testing.T) {
	g := newTestGrid(t, 10, 10)
	g.Import(0, 0, [][]string{
		{"4", "x"},
		{"6", "=A1+A2"},
	})
	g.Selection().SelectColumns(0)
	st := g.SelectionStats()
	require.Equal(t, 2, st.Count)
	require.Equal(t, 10.0, st.Sum)

	g.Selection().StartDrag(0, 0)
	g.Selection().UpdateDrag(1, 1)
	st = g.SelectionStats()
	require.Equal(t, 4, st.Count)
	require.Equal(t, 3, st.Numeric)
	require.Equal(t, 20.0, st.Sum)
}
