package formula

import (
	"fmt"
	"strconv"
	"strings"
)

// Ref is a zero-based cell coordinate.
type Ref struct {
	Row int
	Col int
}

func (r Ref) String() string {
	return ColumnName(r.Col) + strconv.Itoa(r.Row+1)
}

// Span is an inclusive rectangle of references. A single-cell reference is a
// span whose corners coincide.
type Span struct {
	From Ref
	To   Ref
}

func (s Span) Normalized() Span {
	return Span{
		From: Ref{Row: min(s.From.Row, s.To.Row), Col: min(s.From.Col, s.To.Col)},
		To:   Ref{Row: max(s.From.Row, s.To.Row), Col: max(s.From.Col, s.To.Col)},
	}
}

func (s Span) Contains(row, col int) bool {
	n := s.Normalized()
	return row >= n.From.Row && row <= n.To.Row && col >= n.From.Col && col <= n.To.Col
}

func (s Span) String() string {
	if s.From == s.To {
		return s.From.String()
	}
	return s.From.String() + ":" + s.To.String()
}

// ColumnName converts a zero-based column index to letters: 0 -> A, 26 -> AA.
func ColumnName(col int) string {
	if col < 0 {
		return ""
	}
	var b []byte
	for n := col + 1; n > 0; n = (n - 1) / 26 {
		b = append(b, byte('A'+(n-1)%26))
	}
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// ColumnIndex is the inverse of ColumnName. It returns -1 for invalid input.
func ColumnIndex(name string) int {
	if name == "" {
		return -1
	}
	n := 0
	for _, ch := range strings.ToUpper(name) {
		if ch < 'A' || ch > 'Z' {
			return -1
		}
		n = n*26 + int(ch-'A'+1)
		if n > 1<<24 {
			return -1
		}
	}
	return n - 1
}

// ParseRef parses an A1-style reference. Dollar signs are accepted and ignored.
func ParseRef(text string) (Ref, error) {
	s := strings.ReplaceAll(strings.TrimSpace(text), "$", "")
	i := 0
	for i < len(s) && isLetter(s[i]) {
		i++
	}
	if i == 0 || i == len(s) {
		return Ref{}, fmt.Errorf("%w: bad reference %q", ErrRef, text)
	}
	col := ColumnIndex(s[:i])
	row, err := strconv.Atoi(s[i:])
	if col < 0 || err != nil || row < 1 {
		return Ref{}, fmt.Errorf("%w: bad reference %q", ErrRef, text)
	}
	return Ref{Row: row - 1, Col: col}, nil
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// looksLikeRef reports whether an identifier has the letters-then-digits
// shape of a cell reference.
func looksLikeRef(ident string) bool {
	s := strings.ReplaceAll(ident, "$", "")
	i := 0
	for i < len(s) && isLetter(s[i]) {
		i++
	}
	if i == 0 || i == len(s) {
		return false
	}
	for j := i; j < len(s); j++ {
		if !isDigit(s[j]) {
			return false
		}
	}
	return true
}
