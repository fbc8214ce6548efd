package grid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSparseStoreScenario(t *testing.T) {
	g := newTestGrid(t, 5, 3)
	g.SetCellValue(0, 0, "hello")

	_, ok := g.Store().ReadIfExists(1, 1)
	require.False(t, ok)
	require.Equal(t, 1, g.CountCreatedCells())
	require.Equal(t, "hello", g.Store().ValueOrEmpty(0, 0))
}

func TestReadsNeverMaterialize(t *testing.T) {
	s := NewStore(DefaultFontSize)
	for r := 0; r < 50; r++ {
		for c := 0; c < 50; c++ {
			_, ok := s.ReadIfExists(r, c)
			require.False(t, ok)
			require.Equal(t, "", s.ValueOrEmpty(r, c))
		}
	}
	require.Empty(t, s.Row(3))
	require.Empty(t, s.Column(3))
	require.Equal(t, 0, s.Count())
}

func TestGetOrCreateIsStable(t *testing.T) {
	s := NewStore(14)
	a := s.GetOrCreate(2, 3)
	b := s.GetOrCreate(2, 3)
	require.Same(t, a, b)
	require.Equal(t, 1, s.Count())
	require.Equal(t, 14, a.FontSize())
	require.Equal(t, 2, a.Row())
	require.Equal(t, 3, a.Col())
}

func fill(s *Store, points ...Point) {
	for _, p := range points {
		s.GetOrCreate(p.Row, p.Col).SetValue(cellName(p.Row, p.Col))
	}
}

func TestShiftRows(t *testing.T) {
	s := NewStore(DefaultFontSize)
	fill(s, Point{0, 0}, Point{1, 0}, Point{2, 1}, Point{3, 0})
	moved, _ := s.ReadIfExists(2, 1)

	s.ShiftRows(1, +1)
	require.Equal(t, 4, s.Count())
	require.Equal(t, "A1", s.ValueOrEmpty(0, 0))
	require.Equal(t, "", s.ValueOrEmpty(1, 0))
	require.Equal(t, "A2", s.ValueOrEmpty(2, 0))
	require.Equal(t, "B3", s.ValueOrEmpty(3, 1))
	require.Equal(t, "A4", s.ValueOrEmpty(4, 0))
	require.Equal(t, 3, moved.Row())

	// shifting up from 2 drops the now-empty row 1 and closes the gap
	s.ShiftRows(2, -1)
	require.Equal(t, 4, s.Count())
	require.Equal(t, "A2", s.ValueOrEmpty(1, 0))
	require.Equal(t, "B3", s.ValueOrEmpty(2, 1))
	require.Equal(t, 2, moved.Row())

	// shifting up from 1 drops row 0's cells
	s.ShiftRows(1, -1)
	require.Equal(t, 3, s.Count())
	require.Equal(t, "A2", s.ValueOrEmpty(0, 0))
	require.Equal(t, "A4", s.ValueOrEmpty(2, 0))
}

func TestShiftColumns(t *testing.T) {
	s := NewStore(DefaultFontSize)
	fill(s, Point{0, 0}, Point{0, 1}, Point{1, 1}, Point{1, 2})

	s.ShiftColumns(1, +1)
	require.Equal(t, 4, s.Count())
	require.Equal(t, "A1", s.ValueOrEmpty(0, 0))
	require.Equal(t, "", s.ValueOrEmpty(0, 1))
	require.Equal(t, "B1", s.ValueOrEmpty(0, 2))
	require.Equal(t, "B2", s.ValueOrEmpty(1, 2))
	require.Equal(t, "C2", s.ValueOrEmpty(1, 3))

	s.ShiftColumns(1, -1)
	require.Equal(t, 3, s.Count())
	require.Equal(t, "B1", s.ValueOrEmpty(0, 1))
	require.Equal(t, "B2", s.ValueOrEmpty(1, 1))
	require.Equal(t, "C2", s.ValueOrEmpty(1, 2))
}

func TestRowColumnAndEachOrder(t *testing.T) {
	s := NewStore(DefaultFontSize)
	fill(s, Point{2, 5}, Point{0, 3}, Point{2, 1}, Point{1, 3})

	var names []string
	s.Each(func(c *Cell) { names = append(names, c.Value()) })
	require.Equal(t, []string{"D1", "D2", "B3", "F3"}, names)

	row := s.Row(2)
	require.Len(t, row, 2)
	require.Equal(t, 1, row[0].Col())
	require.Equal(t, 5, row[1].Col())

	col := s.Column(3)
	require.Len(t, col, 2)
	require.Equal(t, 0, col[0].Row())
	require.Equal(t, 1, col[1].Row())
}

func TestCellFormulaContract(t *testing.T) {
	c := newCell(0, 0, 0)
	require.Equal(t, DefaultFontSize, c.FontSize())

	c.SetFormula("=1+1")
	src, ok := c.Formula()
	require.True(t, ok)
	require.Equal(t, "=1+1", src)
	require.True(t, c.HasFormula())

	c.SetFormula("plain")
	require.False(t, c.HasFormula())

	c.SetFormula("=A1")
	c.RemoveFormula()
	_, ok = c.Formula()
	require.False(t, ok)

	c.SetFontSize(-3)
	require.Equal(t, 1, c.FontSize())
	c.SetBold(true)
	c.SetItalic(true)
	require.True(t, c.IsBold())
	require.True(t, c.IsItalic())

	require.False(t, IsFormula("="))
	require.True(t, IsFormula("=A1"))
}
