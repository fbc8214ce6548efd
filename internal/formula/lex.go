package formula

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokString
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokComma
	tokColon
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func lex(src string) ([]token, error) {
	var out []token
	i := 0
	for i < len(src) {
		ch := src[i]
		switch {
		case ch == ' ' || ch == '\t':
			i++
		case isDigit(ch) || (ch == '.' && i+1 < len(src) && isDigit(src[i+1])):
			start := i
			for i < len(src) && (isDigit(src[i]) || src[i] == '.') {
				i++
			}
			if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
				j := i + 1
				if j < len(src) && (src[j] == '+' || src[j] == '-') {
					j++
				}
				if j < len(src) && isDigit(src[j]) {
					i = j
					for i < len(src) && isDigit(src[i]) {
						i++
					}
				}
			}
			out = append(out, token{kind: tokNumber, text: src[start:i], pos: start})
		case ch == '"':
			start := i
			i++
			var b strings.Builder
			closed := false
			for i < len(src) {
				if src[i] == '"' {
					if i+1 < len(src) && src[i+1] == '"' {
						b.WriteByte('"')
						i += 2
						continue
					}
					closed = true
					i++
					break
				}
				b.WriteByte(src[i])
				i++
			}
			if !closed {
				return nil, fmt.Errorf("%w: unterminated string at %d", ErrSyntax, start)
			}
			out = append(out, token{kind: tokString, text: b.String(), pos: start})
		case isLetter(ch) || ch == '$' || ch == '_':
			start := i
			for i < len(src) && (isLetter(src[i]) || isDigit(src[i]) || src[i] == '$' || src[i] == '_' || src[i] == '.') {
				i++
			}
			out = append(out, token{kind: tokIdent, text: src[start:i], pos: start})
		case strings.ContainsRune("+-*/^&", rune(ch)):
			out = append(out, token{kind: tokOp, text: string(ch), pos: i})
			i++
		case ch == '(':
			out = append(out, token{kind: tokLParen, text: "(", pos: i})
			i++
		case ch == ')':
			out = append(out, token{kind: tokRParen, text: ")", pos: i})
			i++
		case ch == ',' || ch == ';':
			out = append(out, token{kind: tokComma, text: ",", pos: i})
			i++
		case ch == ':':
			out = append(out, token{kind: tokColon, text: ":", pos: i})
			i++
		default:
			return nil, fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, ch, i)
		}
	}
	out = append(out, token{kind: tokEOF, pos: len(src)})
	return out, nil
}

// References lists the cells and ranges a formula reads, in source order.
// The leading marker is optional. Unparseable input yields nil.
func References(src string) []Span {
	toks, err := lex(strings.TrimPrefix(src, "="))
	if err != nil {
		return nil
	}
	var out []Span
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if t.kind != tokIdent || !looksLikeRef(t.text) {
			continue
		}
		from, err := ParseRef(t.text)
		if err != nil {
			continue
		}
		span := Span{From: from, To: from}
		if i+2 < len(toks) && toks[i+1].kind == tokColon && toks[i+2].kind == tokIdent {
			if to, err := ParseRef(toks[i+2].text); err == nil {
				span.To = to
				i += 2
			}
		}
		out = append(out, span.Normalized())
	}
	return out
}
