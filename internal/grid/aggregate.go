package grid

import (
	"strings"

	"github.com/jask/gridsheet/internal/formula"
)

// Stats summarizes a block of cell values for the status bar. Count covers
// every non-empty entry; the numeric fields cover only entries that parse
// as numbers.
type Stats struct {
	Count   int
	Numeric int
	Sum     float64
	Average float64
	Min     float64
	Max     float64
}

// HasNumbers reports whether any numeric entry contributed.
func (s Stats) HasNumbers() bool { return s.Numeric > 0 }

// Aggregate computes Stats over values. Empty strings are ignored.
func Aggregate(values [][]string) Stats {
	var st Stats
	for _, line := range values {
		for _, v := range line {
			if strings.TrimSpace(v) == "" {
				continue
			}
			st.Count++
			n, ok := formula.ParseNumber(v)
			if !ok {
				continue
			}
			if st.Numeric == 0 {
				st.Min, st.Max = n, n
			} else {
				st.Min = min(st.Min, n)
				st.Max = max(st.Max, n)
			}
			st.Numeric++
			st.Sum += n
		}
	}
	if st.Numeric > 0 {
		st.Average = st.Sum / float64(st.Numeric)
	}
	return st
}
