package problem

import (
	"strconv"
	"strings"

	"github.com/paveproof/ncsp/pkg/ncsperr"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokPunct // single-char punctuation/operators: + - * / ^ ( ) [ ] { } , ; =
	tokOp    // multi-char operators: == <= >= -> in is handled as ident "in"
)

type token struct {
	kind tokenKind
	text string
	num  float64
	line int
}

// lexer tokenizes the input-file grammar of §6: identifiers, numeric
// literals, the operator set `+ - * / ^ | | == <= >= < > in`, brackets,
// braces, commas, semicolons, `#` line comments.
type lexer struct {
	src  []rune
	pos  int
	line int
}

func newLexer(src string) *lexer {
	return &lexer{src: []rune(src), line: 1}
}

func (l *lexer) peekRune() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) advance() rune {
	r := l.peekRune()
	l.pos++
	if r == '\n' {
		l.line++
	}
	return r
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentCont(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func (l *lexer) skipTrivia() {
	for {
		r := l.peekRune()
		switch {
		case r == '#':
			for l.peekRune() != '\n' && l.peekRune() != 0 {
				l.advance()
			}
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			l.advance()
		default:
			return
		}
	}
}

// next returns the next token, or a ParseError on an unrecognized byte.
func (l *lexer) next() (token, error) {
	l.skipTrivia()
	line := l.line
	r := l.peekRune()
	if r == 0 {
		return token{kind: tokEOF, line: line}, nil
	}

	if isIdentStart(r) {
		var sb strings.Builder
		for isIdentCont(l.peekRune()) {
			sb.WriteRune(l.advance())
		}
		return token{kind: tokIdent, text: sb.String(), line: line}, nil
	}

	if isDigit(r) || (r == '.' && isDigit(l.runeAt(1))) {
		var sb strings.Builder
		for isDigit(l.peekRune()) {
			sb.WriteRune(l.advance())
		}
		if l.peekRune() == '.' {
			sb.WriteRune(l.advance())
			for isDigit(l.peekRune()) {
				sb.WriteRune(l.advance())
			}
		}
		if l.peekRune() == 'e' || l.peekRune() == 'E' {
			sb.WriteRune(l.advance())
			if l.peekRune() == '+' || l.peekRune() == '-' {
				sb.WriteRune(l.advance())
			}
			for isDigit(l.peekRune()) {
				sb.WriteRune(l.advance())
			}
		}
		v, err := strconv.ParseFloat(sb.String(), 64)
		if err != nil {
			return token{}, ncsperr.NewParseError(line, "malformed number "+sb.String())
		}
		return token{kind: tokNumber, text: sb.String(), num: v, line: line}, nil
	}

	two := string(r) + string(l.runeAt(1))
	switch two {
	case "==", "<=", ">=":
		l.advance()
		l.advance()
		return token{kind: tokOp, text: two, line: line}, nil
	}

	switch r {
	case '+', '-', '*', '/', '^', '(', ')', '[', ']', '{', '}', ',', ';', '=', '<', '>', '|':
		l.advance()
		return token{kind: tokPunct, text: string(r), line: line}, nil
	}

	return token{}, ncsperr.NewParseError(line, "unexpected character "+string(r))
}

func (l *lexer) runeAt(offset int) rune {
	i := l.pos + offset
	if i >= len(l.src) {
		return 0
	}
	return l.src[i]
}
