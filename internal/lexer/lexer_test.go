package lexer

import (
	"testing"

	"github.com/aiven-lang/minicc/internal/token"
)

func kinds(t *testing.T, src string) []token.Kind {
	t.Helper()
	lx, err := New(src)
	if err != nil {
		t.Fatalf("New(%q): %v", src, err)
	}
	var out []token.Kind
	for _, tok := range lx.All() {
		out = append(out, tok.Kind)
	}
	return out
}

func TestGreedyLongestMatch(t *testing.T) {
	cases := []struct {
		src  string
		want []token.Kind
	}{
		{"<<=", []token.Kind{token.SHL_EQ, token.EOF}},
		{"<<", []token.Kind{token.SHL, token.EOF}},
		{"<", []token.Kind{token.LT, token.EOF}},
		{"<=", []token.Kind{token.LE, token.EOF}},
		{"- -", []token.Kind{token.MINUS, token.MINUS, token.EOF}},
		{"--", []token.Kind{token.DEC, token.EOF}},
		{"&&", []token.Kind{token.AND, token.EOF}},
		{"&", []token.Kind{token.AMP, token.EOF}},
		{"&=", []token.Kind{token.AMP_EQ, token.EOF}},
	}
	for _, c := range cases {
		got := kinds(t, c.src)
		if len(got) != len(c.want) {
			t.Fatalf("%q: got %v, want %v", c.src, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("%q: got %v, want %v", c.src, got, c.want)
			}
		}
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	got := kinds(t, "int main return x while")
	want := []token.Kind{token.KW_INT, token.IDENT, token.KW_RETURN, token.IDENT, token.KW_WHILE, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestIntegerConstantOverflowRejected(t *testing.T) {
	if _, err := New("4294967296"); err == nil {
		t.Fatal("expected a lex error for an out-of-range integer constant")
	}
}

func TestIntegerConstantMaxFits(t *testing.T) {
	if _, err := New("2147483647"); err != nil {
		t.Fatalf("expected INT_MAX to lex cleanly, got %v", err)
	}
}

func TestUnrecognizedCharacter(t *testing.T) {
	if _, err := New("int x = 1 @ 2;"); err == nil {
		t.Fatal("expected a lex error for '@'")
	}
}

// Lexer round trip (invariant 1): re-lexing each token's spelling joined
// by single spaces reproduces the same kind sequence.
func TestRoundTrip(t *testing.T) {
	src := "int main(void) { return 1 + 2 * (3 - 4) / 5 % 6; }"
	lx, err := New(src)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var rebuilt string
	for _, tok := range lx.All() {
		if tok.Kind == token.EOF {
			continue
		}
		rebuilt += tok.Lex + " "
	}
	if got, want := kinds(t, rebuilt), kinds(t, src); len(got) != len(want) {
		t.Fatalf("round trip mismatch: got %v, want %v", got, want)
	} else {
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("round trip mismatch at %d: got %v, want %v", i, got, want)
			}
		}
	}
}
