package lexer

import (
	"testing"

	"github.com/vela-lang/vela/token"
)

func acceptAll(m Matcher, buffer []rune, chars ...rune) []rune {
	for _, ch := range chars {
		m.Accept(buffer, ch)
		buffer = append(buffer, ch)
	}
	return buffer
}

func TestSimpleTextMatcher(t *testing.T) {
	m := Text("let", func([]rune) (token.Token, error) { return token.New(token.Let), nil })
	if m.Class() != Fixed {
		t.Fatalf("Class() = %v, want Fixed", m.Class())
	}
	if m.State() != Open {
		t.Fatalf("fresh matcher State() = %v, want Open", m.State())
	}
	buf := acceptAll(m, nil, 'l', 'e')
	if m.State() != Open {
		t.Fatalf("after \"le\" State() = %v, want Open", m.State())
	}
	m.Accept(buf, 't')
	if m.State() != Closeable {
		t.Fatalf("after \"let\" State() = %v, want Closeable", m.State())
	}
}

func TestSimpleTextMatcherBreaksOnMismatch(t *testing.T) {
	m := Text("let", func([]rune) (token.Token, error) { return token.Token{}, nil })
	m.Accept(nil, 'x')
	if m.State() != Broken {
		t.Fatalf("State() = %v, want Broken", m.State())
	}
}

func TestTakeWhileMinZeroIsImmediatelyCloseable(t *testing.T) {
	m := TakeWhile(func([]rune, rune) bool { return false }, 0, func([]rune) (token.Token, error) { return token.Token{}, nil })
	if m.State() != Closeable {
		t.Fatalf("State() = %v, want Closeable (min=0 is vacuously satisfied)", m.State())
	}
}

func TestTakeWhileRequiresMinimum(t *testing.T) {
	m := TakeWhile(func(_ []rune, ch rune) bool { return isDigit(ch) }, 2, func([]rune) (token.Token, error) { return token.Token{}, nil })
	if m.State() != Open {
		t.Fatalf("fresh State() = %v, want Open", m.State())
	}
	buf := acceptAll(m, nil, '5')
	if m.State() != Open {
		t.Fatalf("after one digit State() = %v, want Open (min=2)", m.State())
	}
	acceptAll(m, buf, '5')
	if m.State() != Closeable {
		t.Fatalf("after two digits State() = %v, want Closeable", m.State())
	}
}

func TestTakeWhileBreaksOnNonMatchingChar(t *testing.T) {
	m := TakeWhile(func(_ []rune, ch rune) bool { return isDigit(ch) }, 1, func([]rune) (token.Token, error) { return token.Token{}, nil })
	m.Accept(nil, '5')
	m.Accept([]rune{'5'}, 'a')
	if m.State() != Broken {
		t.Fatalf("State() = %v, want Broken", m.State())
	}
}

func TestCollectorClosesOnTerminatorSuffix(t *testing.T) {
	m := Collector([]string{"\""}, false, func(content []rune, consumedTerm bool) (token.Token, error) {
		return token.WithText(token.StringLiteral, string(content)), nil
	})
	buf := acceptAll(m, nil, 'h', 'i')
	if m.State() != Closeable {
		t.Fatalf("State() after \"hi\" = %v, want Closeable", m.State())
	}
	buf = acceptAll(m, buf, '"')
	if m.State() != Closeable {
		t.Fatalf("State() after terminator = %v, want Closeable", m.State())
	}
	tok, n, err := m.Close(buf, nil)
	if err != nil {
		t.Fatalf("Close: unexpected error: %v", err)
	}
	if tok.Text != "hi" {
		t.Fatalf("content = %q, want %q", tok.Text, "hi")
	}
	if n != len("hi") {
		t.Fatalf("consumed = %d, want %d (terminator stripped)", n, len("hi"))
	}
}

func TestCollectorBreaksOnAnyCharAfterTerminated(t *testing.T) {
	m := Collector([]string{"\""}, false, func(content []rune, consumedTerm bool) (token.Token, error) {
		return token.Token{}, nil
	})
	buf := acceptAll(m, nil, 'h', '"')
	m.Accept(buf, 'x')
	if m.State() != Broken {
		t.Fatalf("State() = %v, want Broken (terminator already claimed)", m.State())
	}
}

func TestCollectorFlushesAtEndOfInputWithoutTerminator(t *testing.T) {
	m := Collector([]string{"*/"}, false, func(content []rune, consumedTerm bool) (token.Token, error) {
		return token.WithText(token.CommentLiteral, string(content)), nil
	})
	buf := acceptAll(m, nil, 'a', 'b', 'c')
	tok, n, err := m.Close(buf, nil)
	if err != nil {
		t.Fatalf("Close: unexpected error: %v", err)
	}
	if tok.Text != "abc" || n != 3 {
		t.Fatalf("got (%q, %d), want (\"abc\", 3)", tok.Text, n)
	}
}

// TestChainHandsOffAtSubMatcherBoundary exercises a two-stage chain the way
// the signed integer matcher uses one: a fixed '-' prefix, then a free-running
// digit run. The chain must hand off to the second sub-matcher the instant
// the first becomes Closeable and the next character would otherwise break
// it, without losing any already-accepted characters.
func TestChainHandsOffAtSubMatcherBoundary(t *testing.T) {
	c := Chain([]Matcher{
		Conditions([]Condition{isMinusCond}, noopCloser),
		TakeWhile(intBodyChar, 1, noopCloser),
	}, func(parts []token.Token, buffer []rune, modes *ModeStack) (token.Token, error) {
		v, err := ParseInt(string(buffer))
		if err != nil {
			return token.Token{}, err
		}
		return token.Token{Kind: token.IntLiteral, Int: v}, nil
	})

	buf := acceptAll(c, nil, '-', '5')
	if c.State() != Closeable {
		t.Fatalf("State() after \"-5\" = %v, want Closeable", c.State())
	}
	tok, n, err := c.Close(buf, nil)
	if err != nil {
		t.Fatalf("Close: unexpected error: %v", err)
	}
	if tok.Int != -5 || n != 2 {
		t.Fatalf("got (Int=%d, n=%d), want (-5, 2)", tok.Int, n)
	}
}

// TestChainClassIsAlwaysDynamic pins down a load-bearing driver-tiebreak
// fact: a chain never reports Fixed even when every sub-matcher it currently
// wraps is itself Fixed. modesets.go's single() helper relies on this being
// true in order to justify its declaration-order comments.
func TestChainClassIsAlwaysDynamic(t *testing.T) {
	c := Chain([]Matcher{
		Text("-", noopTextCloser),
	}, func(parts []token.Token, buffer []rune, modes *ModeStack) (token.Token, error) {
		return token.Token{}, nil
	})
	if c.Class() != Dynamic {
		t.Fatalf("Class() = %v, want Dynamic even for a single-sub chain", c.Class())
	}
}

func TestChainBreaksWhenFirstSubNeverReachesCloseable(t *testing.T) {
	c := Chain([]Matcher{
		Conditions([]Condition{isMinusCond}, noopCloser),
		TakeWhile(intBodyChar, 1, noopCloser),
	}, func(parts []token.Token, buffer []rune, modes *ModeStack) (token.Token, error) {
		return token.Token{}, nil
	})
	c.Accept(nil, 'a')
	if c.State() != Broken {
		t.Fatalf("State() = %v, want Broken (first sub never became Closeable)", c.State())
	}
}
