// Package lexer turns preprocessed C source into an indexable token
// sequence. It keeps the teacher's rune-buffer scanning style (New/read/peek)
// but replaces the minimal switch-per-punctuator body with a
// greedy-longest-match scan over the full punctuator table, and exposes the
// token stream through the indexable contract (current/consume/peek_next/
// advance/reset/has_current) the parser needs.
package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/aiven-lang/minicc/internal/diag"
	"github.com/aiven-lang/minicc/internal/token"
)

type scanner struct {
	src  []rune
	i    int
	ch   rune
	line int
	col  int
}

func newScanner(src string) *scanner {
	s := &scanner{src: []rune(src), line: 1}
	s.read()
	return s
}

func (s *scanner) read() {
	if s.i >= len(s.src) {
		s.ch = 0
		return
	}
	s.ch = s.src[s.i]
	s.i++
	if s.ch == '\n' {
		s.line++
		s.col = 0
	} else {
		s.col++
	}
}

func (s *scanner) peekAt(offset int) rune {
	idx := s.i - 1 + offset
	if idx < 0 || idx >= len(s.src) {
		return 0
	}
	return s.src[idx]
}

// contextWindow returns up to ~30 characters of source centered on the
// scanner's current byte position, for lex-error diagnostics.
func (s *scanner) contextWindow() string {
	const radius = 15
	start := s.i - 1 - radius
	if start < 0 {
		start = 0
	}
	end := s.i - 1 + radius
	if end > len(s.src) {
		end = len(s.src)
	}
	return strings.Map(func(r rune) rune {
		if r == '\n' {
			return ' '
		}
		return r
	}, string(s.src[start:end]))
}

func (s *scanner) skipSpaceAndComments() {
	for {
		for unicode.IsSpace(s.ch) {
			s.read()
		}
		if s.ch == '/' && s.peekAt(1) == '/' {
			for s.ch != 0 && s.ch != '\n' {
				s.read()
			}
			continue
		}
		if s.ch == '/' && s.peekAt(1) == '*' {
			s.read()
			s.read()
			for s.ch != 0 {
				if s.ch == '*' && s.peekAt(1) == '/' {
					s.read()
					s.read()
					break
				}
				s.read()
			}
			continue
		}
		break
	}
}

// next scans and returns the next token, or a *diag.Error for unrecognized
// input.
func (s *scanner) next() (token.Token, error) {
	s.skipSpaceAndComments()
	line, col := s.line, s.col

	if s.ch == 0 {
		return token.Token{Kind: token.EOF, Line: line, Col: col}, nil
	}

	if unicode.IsLetter(s.ch) || s.ch == '_' {
		var b strings.Builder
		for unicode.IsLetter(s.ch) || unicode.IsDigit(s.ch) || s.ch == '_' {
			b.WriteRune(s.ch)
			s.read()
		}
		lex := b.String()
		kind := token.IDENT
		if kw, ok := token.Keywords[lex]; ok {
			kind = kw
		}
		return token.Token{Kind: kind, Lex: lex, Line: line, Col: col}, nil
	}

	if unicode.IsDigit(s.ch) {
		var b strings.Builder
		for unicode.IsDigit(s.ch) {
			b.WriteRune(s.ch)
			s.read()
		}
		lex := b.String()
		if _, err := strconv.ParseInt(lex, 10, 32); err != nil {
			return token.Token{}, diag.NewLexError(diag.Pos{Line: line, Col: col}, s.contextWindow(),
				"integer constant %q does not fit in 32 bits", lex)
		}
		return token.Token{Kind: token.INT_CONST, Lex: lex, Line: line, Col: col}, nil
	}

	// Greedy longest-match against the punctuator table, already sorted by
	// descending spelling length.
	for _, p := range token.Punctuators {
		if s.matches(p.Lex) {
			for range p.Lex {
				s.read()
			}
			return token.Token{Kind: p.Kind, Lex: p.Lex, Line: line, Col: col}, nil
		}
	}

	bad := string(s.ch)
	s.read()
	return token.Token{}, diag.NewLexError(diag.Pos{Line: line, Col: col}, s.contextWindow(),
		"unrecognized character %q", bad)
}

func (s *scanner) matches(spelling string) bool {
	if s.ch != rune(spelling[0]) {
		return false
	}
	for i := 1; i < len(spelling); i++ {
		if s.peekAt(i) != rune(spelling[i]) {
			return false
		}
	}
	return true
}

// Lexer is the indexable token sequence the parser consumes, per the
// lexer's §4.1 contract: current, consume, peek_next, advance, reset,
// has_current.
type Lexer struct {
	toks []token.Token
	pos  int
}

// New lexes src in full and returns the resulting indexable token sequence.
func New(src string) (*Lexer, error) {
	sc := newScanner(src)
	var toks []token.Token
	for {
		t, err := sc.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, t)
		if t.Kind == token.EOF {
			break
		}
	}
	return &Lexer{toks: toks}, nil
}

// HasCurrent reports whether Current is valid (false once past EOF).
func (l *Lexer) HasCurrent() bool { return l.pos < len(l.toks) }

// Current returns the token at the current index without advancing.
func (l *Lexer) Current() token.Token {
	if !l.HasCurrent() {
		panic("lexer: no more tokens")
	}
	return l.toks[l.pos]
}

// Consume returns the current token and advances past it.
func (l *Lexer) Consume() token.Token {
	t := l.Current()
	l.pos++
	return t
}

// PeekNext returns the token one past the current index, or the final EOF
// token if already at EOF.
func (l *Lexer) PeekNext() token.Token {
	if l.pos+1 < len(l.toks) {
		return l.toks[l.pos+1]
	}
	return l.toks[len(l.toks)-1]
}

// Advance moves the current index forward by one without returning a token.
func (l *Lexer) Advance() { l.pos++ }

// Reset moves the current index back to the start of the token stream.
func (l *Lexer) Reset() { l.pos = 0 }

// All returns the full token slice, used by the driver's --lex stage-stop
// printer.
func (l *Lexer) All() []token.Token { return l.toks }

// DescribeToken formats a token the way the driver's --lex stage prints it:
// one token per line, kind, spelling, and source position.
func DescribeToken(t token.Token) string {
	return fmt.Sprintf("%s %q at %d:%d", t.Kind, t.Lex, t.Line, t.Col)
}
