package grid

import (
	"testing"
)

func newTestGrid(t *testing.T, rows, cols int, opts ...Option) *Grid {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Rows = rows
	cfg.Columns = cols
	return New(cfg, opts...)
}

// gridState captures everything undo must restore.
type gridState struct {
	cells map[Point]cellState
	count int
	rows  []int
	cols  []int
}

func captureState(g *Grid) gridState {
	st := gridState{
		cells: make(map[Point]cellState),
		count: g.Store().Count(),
		rows:  g.Rows().Sizes(),
		cols:  g.Columns().Sizes(),
	}
	g.Store().Each(func(c *Cell) {
		st.cells[Point{Row: c.Row(), Col: c.Col()}] = c.state()
	})
	return st
}

type countingScheduler struct {
	schedules int
	batch     int
	renders   int
	pending   bool
}

func (s *countingScheduler) Schedule() {
	s.schedules++
	s.pending = true
	if s.batch == 0 {
		s.flush()
	}
}

func (s *countingScheduler) BeginBatch() { s.batch++ }

func (s *countingScheduler) EndBatch() {
	s.batch--
	if s.batch == 0 && s.pending {
		s.flush()
	}
}

func (s *countingScheduler) flush() {
	s.pending = false
	s.renders++
}
