package tui

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCutCells(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		from, to int
		want     string
	}{
		{name: "middle", in: "abcdef", from: 1, to: 4, want: "bcd"},
		{name: "pads short text", in: "ab", from: 0, to: 4, want: "ab  "},
		{name: "past the end", in: "ab", from: 3, to: 5, want: "  "},
		{name: "wide rune kept whole", in: "a界b", from: 1, to: 3, want: "界"},
		{name: "wide rune split", in: "a界b", from: 2, to: 4, want: " b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, cutCells(tt.in, tt.from, tt.to))
		})
	}
}

func TestFitAndCenter(t *testing.T) {
	require.Equal(t, "ab   ", fit("ab", 5, false))
	require.Equal(t, "   ab", fit("ab", 5, true))
	require.Equal(t, "abcd…", fit("abcdefgh", 5, false))
	require.Equal(t, "a b  ", fit("a\tb", 5, false))
	require.Equal(t, "", fit("x", 0, false))

	require.Equal(t, "    A    ", center("A", 9))
	require.Equal(t, " AB ", center("AB", 4))
	require.Equal(t, "ABC", center("ABCD", 3))
}

func TestRevealScrollsTheLeastAmount(t *testing.T) {
	require.Equal(t, 0, reveal(0, 10, 3, 1))
	require.Equal(t, 5, reveal(10, 10, 5, 1))
	require.Equal(t, 11, reveal(0, 10, 20, 1))
	require.Equal(t, 15, reveal(15, 10, 20, 1))
}
