package grid

import "slices"

// Store is the sparse cell mapping, row -> column -> cell. Only GetOrCreate
// materializes entries; reads never do.
type Store struct {
	rows     map[int]map[int]*Cell
	count    int
	fontSize int
}

func NewStore(defaultFontSize int) *Store {
	return &Store{rows: make(map[int]map[int]*Cell), fontSize: defaultFontSize}
}

// ReadIfExists returns the cell at (row, col) without creating it.
func (s *Store) ReadIfExists(row, col int) (*Cell, bool) {
	cols, ok := s.rows[row]
	if !ok {
		return nil, false
	}
	c, ok := cols[col]
	return c, ok
}

// GetOrCreate returns the cell at (row, col), creating an empty one on first use.
func (s *Store) GetOrCreate(row, col int) *Cell {
	if c, ok := s.ReadIfExists(row, col); ok {
		return c
	}
	c := newCell(row, col, s.fontSize)
	s.put(c)
	return c
}

// ValueOrEmpty returns the display value at (row, col), or "" when absent.
func (s *Store) ValueOrEmpty(row, col int) string {
	if c, ok := s.ReadIfExists(row, col); ok {
		return c.value
	}
	return ""
}

// Count returns the number of materialized cells.
func (s *Store) Count() int { return s.count }

// Row returns the cells stored in row, ordered by column.
func (s *Store) Row(row int) []*Cell {
	cols := s.rows[row]
	out := make([]*Cell, 0, len(cols))
	for _, c := range cols {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b *Cell) int { return a.col - b.col })
	return out
}

// Column returns the cells stored in col, ordered by row.
func (s *Store) Column(col int) []*Cell {
	var out []*Cell
	for _, cols := range s.rows {
		if c, ok := cols[col]; ok {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b *Cell) int { return a.row - b.row })
	return out
}

// Each calls fn for every stored cell in row-major order.
func (s *Store) Each(fn func(c *Cell)) {
	rows := sortedKeys(s.rows)
	for _, r := range rows {
		cols := sortedKeys(s.rows[r])
		for _, col := range cols {
			fn(s.rows[r][col])
		}
	}
}

// ShiftRows moves every cell with row >= from by dir (+1 or -1). Shifting
// down leaves row from empty; shifting up first drops the cells of row from-1.
func (s *Store) ShiftRows(from, dir int) {
	if dir == 0 {
		return
	}
	if dir < 0 {
		s.clearRow(from - 1)
	}
	keys := make([]int, 0, len(s.rows))
	for r := range s.rows {
		if r >= from {
			keys = append(keys, r)
		}
	}
	slices.Sort(keys)
	if dir > 0 {
		// highest first so no unmoved row is overwritten
		slices.Reverse(keys)
	}
	for _, r := range keys {
		cols := s.rows[r]
		delete(s.rows, r)
		dest := r + dir
		for _, c := range cols {
			c.row = dest
		}
		s.rows[dest] = cols
	}
}

// ShiftColumns moves every cell with col >= from by dir (+1 or -1), with the
// same ordering rules as ShiftRows.
func (s *Store) ShiftColumns(from, dir int) {
	if dir == 0 {
		return
	}
	if dir < 0 {
		s.clearColumn(from - 1)
	}
	for _, cols := range s.rows {
		keys := make([]int, 0, len(cols))
		for c := range cols {
			if c >= from {
				keys = append(keys, c)
			}
		}
		slices.Sort(keys)
		if dir > 0 {
			slices.Reverse(keys)
		}
		for _, k := range keys {
			c := cols[k]
			delete(cols, k)
			c.col = k + dir
			cols[c.col] = c
		}
	}
}

func (s *Store) put(c *Cell) {
	cols, ok := s.rows[c.row]
	if !ok {
		cols = make(map[int]*Cell)
		s.rows[c.row] = cols
	}
	if _, exists := cols[c.col]; !exists {
		s.count++
	}
	cols[c.col] = c
}

func (s *Store) remove(row, col int) {
	cols, ok := s.rows[row]
	if !ok {
		return
	}
	if _, ok := cols[col]; !ok {
		return
	}
	delete(cols, col)
	s.count--
	if len(cols) == 0 {
		delete(s.rows, row)
	}
}

func (s *Store) clearRow(row int) {
	if cols, ok := s.rows[row]; ok {
		s.count -= len(cols)
		delete(s.rows, row)
	}
}

func (s *Store) clearColumn(col int) {
	for r, cols := range s.rows {
		if _, ok := cols[col]; !ok {
			continue
		}
		delete(cols, col)
		s.count--
		if len(cols) == 0 {
			delete(s.rows, r)
		}
	}
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
