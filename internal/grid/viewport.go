package grid

// Range is an inclusive span of visible rows and columns. A range with
// first > last on either axis is empty and must not be drawn.
type Range struct {
	FirstRow int
	LastRow  int
	FirstCol int
	LastCol  int
}

func (r Range) Empty() bool {
	return r.FirstRow > r.LastRow || r.FirstCol > r.LastCol
}

// Contains reports whether (row, col) falls inside the range.
func (r Range) Contains(row, col int) bool {
	return row >= r.FirstRow && row <= r.LastRow && col >= r.FirstCol && col <= r.LastCol
}

// ComputeVisibleRange maps scroll offsets and a viewport size to the tracks
// that intersect the viewport grown by overscan on every side. It is cheap
// enough to recompute on every frame and callers must not cache it, since
// track sizes may change between frames.
func ComputeVisibleRange(rows, cols *SizeTrack, scrollX, scrollY, width, height, overscan int) Range {
	firstRow, lastRow := visibleSpan(rows, scrollY, height, overscan)
	firstCol, lastCol := visibleSpan(cols, scrollX, width, overscan)
	return Range{FirstRow: firstRow, LastRow: lastRow, FirstCol: firstCol, LastCol: lastCol}
}

func visibleSpan(t *SizeTrack, scroll, extent, overscan int) (int, int) {
	if extent <= 0 || t.Len() == 0 {
		return 0, -1
	}
	if overscan < 0 {
		overscan = 0
	}
	if scroll < 0 {
		scroll = 0
	}
	first := t.firstEndingAtOrAfter(scroll - overscan)
	last := t.IndexAt(scroll + extent + overscan)
	if last < first {
		last = first
	}
	return first, last
}
