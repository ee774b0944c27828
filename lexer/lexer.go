package lexer

import (
	"time"

	"github.com/vela-lang/vela/token"
)

// Option configures a Lexer at construction time (functional-options
// pattern).
type Option func(*Lexer)

// WithPosition enables line/column/offset tracking on every emitted token.
// Off by default: most callers of a compositional lexer don't need it, and
// tracking it costs a rune-by-rune scan of the consumed text on every
// token.
func WithPosition() Option {
	return func(l *Lexer) { l.trackPosition = true }
}

// WithTelemetry enables token-count and timing instrumentation, fetched
// afterwards via Lexer.Telemetry. Off by default (nil), so a Lexer built
// without it pays no bookkeeping cost beyond producing tokens.
func WithTelemetry(level DebugLevel) Option {
	return func(l *Lexer) { l.telemetry = newTelemetry(level) }
}

// Lexer is the tokenization driver. It holds the mode
// stack, the carry-over buffer left over from the previous token, and a
// latch that, once set, makes every subsequent Next call report end of
// stream.
type Lexer struct {
	src    CharSource
	modes  *ModeStack
	carry  []rune
	atEOF  bool
	failed error

	trackPosition bool
	pos           token.Position

	telemetry *Telemetry
}

// New builds a Lexer reading from src.
func New(src CharSource, opts ...Option) *Lexer {
	l := &Lexer{
		src:   src,
		modes: NewStack(),
		pos:   token.Position{Line: 1, Column: 1},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Telemetry returns the recorded counters, or nil if WithTelemetry was not
// passed to New.
func (l *Lexer) Telemetry() *Telemetry {
	return l.telemetry
}

// Depth reports the current mode-stack depth (1 at rest).
func (l *Lexer) Depth() int {
	return l.modes.Depth()
}

// candidate tracks one speculative matcher's progress through a Next call.
type candidate struct {
	m             Matcher
	prevCloseable bool // State() == Closeable immediately before the last Accept
}

// Next produces the next token, or (zero, false, nil) at end of stream, or
// (zero, false, err) on the call where a lexical error occurs. Once that
// happens the stream has latched: every later call returns (zero, false,
// nil), as if the input had simply ended there — the error is never
// re-surfaced.
//
// The algorithm is speculative multi-matcher advancement: every matcher
// eligible for the current mode runs in lockstep against the same character
// sequence. A matcher that breaks is pruned and never reconsidered — it only
// narrows how long the overall match can run, since the remaining
// candidates already matched at least as much. Winner selection only
// happens in the round where every surviving candidate breaks on the same
// character: the winner is chosen among those whose state was Closeable
// immediately before that character, preferring a Fixed matcher over a
// Dynamic one, and otherwise the earliest-declared matcher.
func (l *Lexer) Next() (token.Token, bool, error) {
	if l.failed != nil {
		return token.Token{}, false, nil
	}
	if l.atEOF && len(l.carry) == 0 {
		return token.Token{}, false, nil
	}

	var start time.Time
	if l.telemetry != nil {
		start = time.Now()
	}

	mode := l.modes.Get()
	spaceBefore := false
	if mode.IgnoreWhitespace() {
		spaceBefore = l.skipWhitespace()
		if l.atEOF && len(l.carry) == 0 {
			return token.Token{}, false, nil
		}
	}

	matchers := matchersFor(mode)
	alive := make([]*candidate, len(matchers))
	for i, m := range matchers {
		alive[i] = &candidate{m: m}
	}

	// n is how many leading characters of l.carry are claimed into the
	// run being matched. l.carry itself keeps growing past n as peekNext
	// pulls fresh source characters to test candidates against — the
	// unclaimed tail (including whatever character finally breaks every
	// surviving candidate at once) is exactly the overshoot that becomes
	// next call's leftover, with no separate buffer to keep in lockstep.
	n := 0
	var broken []*candidate

	for {
		ch, ok := l.peekNext(n)
		if !ok {
			ch = nul
		}

		reference := l.carry[:n]

		broken = broken[:0]
		survivors := alive[:0]
		for _, c := range alive {
			c.prevCloseable = c.m.State() == Closeable
			c.m.Accept(reference, ch)
			if c.m.State() == Broken {
				broken = append(broken, c)
				continue
			}
			survivors = append(survivors, c)
		}
		alive = survivors

		if len(alive) > 0 {
			n++
			continue
		}

		// Every live candidate just broke together, or ch was the NUL
		// sentinel (which breaks everything unconditionally): ch was
		// never actually claimed into the match, so n does not advance.
		// This round's broken set is the one winner selection runs over.
		break
	}

	matched := l.carry[:n]
	winner := l.pickWinner(broken)
	if winner == nil {
		// No candidate of the final round was Closeable just before it
		// broke, so there is no valid match: the offending text is matched
		// plus the one character that just broke every candidate, not
		// matched alone (which would report an empty string for a leading
		// unmatched character like "@").
		offending := matched
		if len(l.carry) > n {
			offending = l.carry[:n+1]
		}
		err := newError(InvalidToken, string(offending))
		l.failed = err
		l.carry = nil
		return token.Token{}, false, err
	}

	tok, consumed, err := winner.m.Close(matched, l.modes)
	if err != nil {
		l.failed = err
		l.carry = nil
		return token.Token{}, false, err
	}

	tok.HasSpaceBefore = spaceBefore

	if l.trackPosition {
		tok.Pos = l.pos
		l.advancePosition(matched[:consumed])
	}
	l.carry = append([]rune{}, l.carry[consumed:]...)

	if l.telemetry != nil {
		l.telemetry.record(tok, consumed, l.modes.Depth(), time.Since(start))
	}

	return tok, true, nil
}

// pickWinner implements the tiebreak among the candidates that broke
// together in the final round: only those whose state was Closeable the
// instant before that break are eligible (they represent an actual valid
// match, not a dead end); among eligible candidates, a Fixed matcher beats
// a Dynamic one, and otherwise the earliest-declared matcher wins.
func (l *Lexer) pickWinner(broken []*candidate) *candidate {
	var best *candidate
	for _, c := range broken {
		if !c.prevCloseable {
			continue
		}
		if best == nil {
			best = c
			continue
		}
		if c.m.Class() == Fixed && best.m.Class() == Dynamic {
			best = c
		}
	}
	return best
}

// skipWhitespace drops leading space/tab/CR/LF characters, which are
// insignificant in every Normal mode, and reports whether it dropped any.
func (l *Lexer) skipWhitespace() bool {
	skipped := false
	for {
		ch, ok := l.peekNext(0)
		if !ok {
			return skipped
		}
		if ch != ' ' && ch != '\t' && ch != '\r' && ch != '\n' {
			return skipped
		}
		l.consume(1)
		skipped = true
		if l.trackPosition {
			l.advancePosition([]rune{ch})
		}
	}
}

// peekNext returns l.carry[off], pulling more runes from the source and
// appending them to l.carry as needed to reach that index. It never removes
// anything from l.carry — claiming characters into a match is tracked
// separately by the caller.
func (l *Lexer) peekNext(off int) (rune, bool) {
	for len(l.carry) <= off {
		ch, ok := l.src.Next()
		if !ok {
			l.atEOF = true
			return 0, false
		}
		l.carry = append(l.carry, ch)
	}
	return l.carry[off], true
}

// consume drops the first n characters of the carry-over buffer (they have
// been committed to the token currently being assembled).
func (l *Lexer) consume(n int) {
	if n > len(l.carry) {
		n = len(l.carry)
	}
	l.carry = append([]rune{}, l.carry[n:]...)
}

func (l *Lexer) advancePosition(consumed []rune) {
	for _, ch := range consumed {
		l.pos.Offset++
		if ch == '\n' {
			l.pos.Line++
			l.pos.Column = 1
		} else {
			l.pos.Column++
		}
	}
}
