package formula

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Error sentinels. The message of each doubles as the text a cell displays
// when its formula fails.
var (
	ErrSyntax  = errors.New("#ERROR!")
	ErrRef     = errors.New("#REF!")
	ErrName    = errors.New("#NAME?")
	ErrValue   = errors.New("#VALUE!")
	ErrDivZero = errors.New("#DIV/0!")
)

var sentinels = []error{ErrDivZero, ErrRef, ErrName, ErrValue, ErrSyntax}

// Sentinel maps an evaluation error to its display text.
func Sentinel(err error) string {
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return ErrSyntax.Error()
}

// sentinelError returns the sentinel a displayed value stands for, or nil.
func sentinelError(text string) error {
	for _, s := range sentinels {
		if text == s.Error() {
			return s
		}
	}
	return nil
}

// IsSentinel reports whether text is an error sentinel a failed formula
// displays.
func IsSentinel(text string) bool { return sentinelError(text) != nil }

// Value is an evaluation result: a number or text.
type Value struct {
	Num   float64
	Text  string
	IsNum bool
}

func Number(f float64) Value { return Value{Num: f, IsNum: true} }
func Text(s string) Value    { return Value{Text: s} }

func (v Value) String() string {
	if !v.IsNum {
		return v.Text
	}
	return FormatNumber(v.Num)
}

// FormatNumber renders f without trailing zeros; integral values have no
// decimal point.
func FormatNumber(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return ErrValue.Error()
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ParseNumber parses cell text as a number. Surrounding spaces, thousands
// separators and a trailing percent sign are accepted.
func ParseNumber(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false
	}
	pct := false
	if strings.HasSuffix(s, "%") {
		pct = true
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if pct {
		f /= 100
	}
	return f, true
}
