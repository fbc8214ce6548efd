package tui

import (
	"strings"

	"github.com/atotto/clipboard"
)

// Clipboard is the system clipboard as the app uses it.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// SystemClipboard returns the OS clipboard, or nil where none is available.
func SystemClipboard() Clipboard {
	if clipboard.Unsupported {
		return nil
	}
	return systemClipboard{}
}

// EncodeTSV joins a block of values with tabs and newlines, the format
// spreadsheets exchange on the clipboard. Tabs and newlines inside values
// become spaces.
func EncodeTSV(values [][]string) string {
	clean := strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")
	var b strings.Builder
	for i, line := range values {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, v := range line {
			if j > 0 {
				b.WriteByte('\t')
			}
			b.WriteString(clean.Replace(v))
		}
	}
	return b.String()
}

// DecodeTSV splits clipboard text into a block. A single trailing newline
// does not produce an empty last row.
func DecodeTSV(text string) [][]string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	out := make([][]string, len(lines))
	for i, line := range lines {
		out[i] = strings.Split(line, "\t")
	}
	return out
}
