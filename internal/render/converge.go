package render

import (
	"math"
	"strconv"
)

// convergeFactor is the share of the remaining gap closed per frame.
const convergeFactor = 0.5

// Converge moves current toward target by a fixed share of the gap and
// snaps once within half a unit. Successive calls approach target
// monotonically and never overshoot.
func Converge(current, target float64) float64 {
	next := current + (target-current)*convergeFactor
	if math.Abs(target-next) < 0.5 {
		return target
	}
	return next
}

// RowHeaderTarget is the width the row header needs to label row numbers up
// to lastRow (zero-based), never narrower than base.
func RowHeaderTarget(lastRow, base int) int {
	w := len(strconv.Itoa(lastRow+1)) + 2
	return max(w, base)
}
