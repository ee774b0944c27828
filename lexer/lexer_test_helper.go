package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vela-lang/vela/token"
)

// tokenExpectation is the shape tests declare tables in: just enough of a
// Token to pin down what a test cares about. Pos and HasSpaceBefore are not
// compared.
type tokenExpectation struct {
	Kind token.Kind
	Text string
	Int  int64
	Num  float64
	Bool bool
}

// assertTokens drains a fresh Lexer over input and compares against want.
func assertTokens(t *testing.T, name, input string, want []tokenExpectation) {
	t.Helper()

	lex := New(NewRuneSource(input))
	var got []tokenExpectation
	for {
		tok, ok, err := lex.Next()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if !ok {
			break
		}
		got = append(got, tokenExpectation{
			Kind: tok.Kind,
			Text: tok.Text,
			Int:  tok.Int,
			Num:  tok.Num,
			Bool: tok.Bool,
		})
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("%s: token mismatch (-want +got):\n%s", name, diff)
	}
}

// assertLexError drains a Lexer over input expecting it to latch on an
// error of kind, surfaced from at most maxTokens leading tokens.
func assertLexError(t *testing.T, name, input string, wantKind ErrorKind, maxTokens int) {
	t.Helper()

	lex := New(NewRuneSource(input))
	for i := 0; i < maxTokens; i++ {
		_, ok, err := lex.Next()
		if err != nil {
			lerr, isLexErr := err.(*Error)
			if !isLexErr {
				t.Fatalf("%s: error is not *lexer.Error: %v", name, err)
			}
			if lerr.Kind != wantKind {
				t.Errorf("%s: got error kind %s, want %s", name, lerr.Kind, wantKind)
			}
			return
		}
		if !ok {
			t.Fatalf("%s: reached end of stream without the expected error", name)
		}
	}
	t.Fatalf("%s: did not see an error within %d tokens", name, maxTokens)
}

// assertLexErrorExact drains a Lexer over input expecting its very first
// Next call to fail with exactly wantKind/wantText, and every call after
// that to report end of stream with no error (the latch never re-surfaces
// the same error).
func assertLexErrorExact(t *testing.T, name, input string, wantKind ErrorKind, wantText string) {
	t.Helper()

	lex := New(NewRuneSource(input))

	_, ok, err := lex.Next()
	if err == nil {
		t.Fatalf("%s: expected an error, got ok=%v err=nil", name, ok)
	}
	lerr, isLexErr := err.(*Error)
	if !isLexErr {
		t.Fatalf("%s: error is not *lexer.Error: %v", name, err)
	}
	if lerr.Kind != wantKind {
		t.Errorf("%s: got error kind %s, want %s", name, lerr.Kind, wantKind)
	}
	if lerr.Text != wantText {
		t.Errorf("%s: got error text %q, want %q", name, lerr.Text, wantText)
	}

	_, ok, err = lex.Next()
	if err != nil {
		t.Errorf("%s: subsequent call returned the error again: %v, want end of stream", name, err)
	}
	if ok {
		t.Errorf("%s: subsequent call produced a token, want end of stream", name)
	}
}
