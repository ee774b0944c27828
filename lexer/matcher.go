package lexer

import (
	"strings"

	"github.com/vela-lang/vela/token"
)

// MatcherState is one of three values a Matcher can report. Once Broken, a
// matcher never transitions back; feeding it further input after that is a
// programmer error (see Accept's precondition).
type MatcherState int

const (
	// Open: willing to continue, not yet a valid match.
	Open MatcherState = iota
	// Closeable: the buffer so far is a valid match; more input may or may
	// not still extend it.
	Closeable
	// Broken: cannot match what has been accepted.
	Broken
)

func (s MatcherState) String() string {
	switch s {
	case Open:
		return "Open"
	case Closeable:
		return "Closeable"
	case Broken:
		return "Broken"
	default:
		return "Unknown"
	}
}

// MatcherClass is the driver's tiebreaker: a Fixed candidate beats a Dynamic
// candidate of equal match length.
type MatcherClass int

const (
	Fixed MatcherClass = iota
	Dynamic
)

// nul is the end-of-input sentinel fed by the driver. Feeding it to any
// matcher deterministically breaks that matcher.
const nul rune = 0

// Closer produces the token a matcher yields when it closes, and the number
// of leading characters of buffer it claims. It may push or pop modes
// (matchers that open or close a lexer construct do so here).
type Closer func(buffer []rune, modes *ModeStack) (token.Token, int, error)

// Matcher is a stateful acceptor for one token. A fresh set is built at the
// start of every call to Lexer.Next; matchers are never reused across
// tokens.
type Matcher interface {
	Class() MatcherClass
	State() MatcherState
	// Accept feeds one more character. buffer is the cumulative input
	// already seen (not including ch). Precondition: State() != Broken.
	Accept(buffer []rune, ch rune)
	// Close is invoked after a run of Accept calls, with state last
	// observed Closeable.
	Close(buffer []rune, modes *ModeStack) (token.Token, int, error)
}

// cloneable is an internal-only extension used by the chain combinator to
// speculatively try a character against a sub-matcher without committing to
// it. Every primitive constructor below returns a cloneable matcher, which
// keeps the chain combinator from needing reference-counted shared state
// between its own state machine and each sub-matcher's: the chain is the
// sole owner, and clone() gives it a disposable trial copy.
type cloneable interface {
	Matcher
	clone() Matcher
}

// --- simpleTextMatcher: simple_text(s, v) / text(s, closer) -----------------

type simpleTextMatcher struct {
	text   []rune
	pos    int
	state  MatcherState
	closer func(buffer []rune) (token.Token, error)
}

// Text builds a matcher for the exact literal s, deriving its result from
// closer once the full literal has been consumed.
func Text(s string, closer func(buffer []rune) (token.Token, error)) Matcher {
	return &simpleTextMatcher{text: []rune(s), closer: closer}
}

// SimpleText builds a matcher for the exact literal s that always yields v.
func SimpleText(s string, v token.Token) Matcher {
	return Text(s, func([]rune) (token.Token, error) { return v, nil })
}

func (m *simpleTextMatcher) Class() MatcherClass { return Fixed }
func (m *simpleTextMatcher) State() MatcherState { return m.state }

func (m *simpleTextMatcher) Accept(buffer []rune, ch rune) {
	if ch == nul || m.pos >= len(m.text) || ch != m.text[m.pos] {
		m.state = Broken
		return
	}
	m.pos++
	if m.pos == len(m.text) {
		m.state = Closeable
	} else {
		m.state = Open
	}
}

func (m *simpleTextMatcher) Close(buffer []rune, modes *ModeStack) (token.Token, int, error) {
	v, err := m.closer(buffer)
	return v, len(m.text), err
}

func (m *simpleTextMatcher) clone() Matcher {
	cp := *m
	return &cp
}

// --- conditionsMatcher: conditions([p1...pk], closer) -----------------------

// Condition tests whether the character at its declared position is
// acceptable, given the buffer accepted so far.
type Condition func(buffer []rune, ch rune) bool

type conditionsMatcher struct {
	preds  []Condition
	pos    int
	state  MatcherState
	closer func(buffer []rune) (token.Token, error)
}

// Conditions builds a fixed-length matcher where character i must satisfy
// preds[i]. Closeable once len(preds) characters have been accepted.
func Conditions(preds []Condition, closer func(buffer []rune) (token.Token, error)) Matcher {
	return &conditionsMatcher{preds: preds, closer: closer}
}

func (m *conditionsMatcher) Class() MatcherClass { return Dynamic }
func (m *conditionsMatcher) State() MatcherState { return m.state }

func (m *conditionsMatcher) Accept(buffer []rune, ch rune) {
	if ch == nul || m.pos >= len(m.preds) || !m.preds[m.pos](buffer, ch) {
		m.state = Broken
		return
	}
	m.pos++
	if m.pos == len(m.preds) {
		m.state = Closeable
	} else {
		m.state = Open
	}
}

func (m *conditionsMatcher) Close(buffer []rune, modes *ModeStack) (token.Token, int, error) {
	v, err := m.closer(buffer)
	return v, len(m.preds), err
}

func (m *conditionsMatcher) clone() Matcher {
	cp := *m
	return &cp
}

// --- takeWhileMatcher: take_while(p, min, closer) ---------------------------

type takeWhileMatcher struct {
	pred   Condition
	min    int
	count  int
	broken bool
	closer func(buffer []rune) (token.Token, error)
}

// TakeWhile builds a matcher that accepts characters while pred holds,
// becoming Closeable once at least min characters have been accepted. With
// min == 0 it is Closeable even before the first Accept call (a vacuous
// empty match is already valid) — this is what lets a chain immediately
// hand off to the next sub-matcher when an optional take_while prefix is
// absent, rather than rejecting the whole chain.
func TakeWhile(pred Condition, min int, closer func(buffer []rune) (token.Token, error)) Matcher {
	return &takeWhileMatcher{pred: pred, min: min, closer: closer}
}

func (m *takeWhileMatcher) Class() MatcherClass { return Dynamic }

func (m *takeWhileMatcher) State() MatcherState {
	if m.broken {
		return Broken
	}
	if m.count >= m.min {
		return Closeable
	}
	return Open
}

func (m *takeWhileMatcher) Accept(buffer []rune, ch rune) {
	if ch == nul || !m.pred(buffer, ch) {
		m.broken = true
		return
	}
	m.count++
}

func (m *takeWhileMatcher) Close(buffer []rune, modes *ModeStack) (token.Token, int, error) {
	v, err := m.closer(buffer)
	return v, len(buffer), err
}

func (m *takeWhileMatcher) clone() Matcher {
	cp := *m
	return &cp
}

// --- collector / filteredCollector ------------------------------------------

type collectorMatcher struct {
	terms       []string
	pred        Condition
	consumeTerm bool
	terminated  bool
	state       MatcherState
	closer      func(content []rune, consumedTerm bool) (token.Token, error)
}

// FilteredCollector accepts characters satisfying pred while no terminator
// suffix has yet appeared in the accumulated buffer. It is Closeable after
// every accepted character, so an unterminated run can still be flushed at
// end of input. Once the buffer ends in one of terms it is terminated (the
// terminator's characters are themselves consumed into the buffer, then
// stripped or kept at Close time depending on consumeTerm), and it goes
// Broken on any character offered after that point — which is how the
// driver re-offers the terminator to whatever matcher is meant to consume
// it as its own token.
func FilteredCollector(terms []string, pred Condition, consumeTerm bool, closer func(content []rune, consumedTerm bool) (token.Token, error)) Matcher {
	return &collectorMatcher{terms: terms, pred: pred, consumeTerm: consumeTerm, closer: closer}
}

// Collector is FilteredCollector with pred always true.
func Collector(terms []string, consumeTerm bool, closer func(content []rune, consumedTerm bool) (token.Token, error)) Matcher {
	return FilteredCollector(terms, func([]rune, rune) bool { return true }, consumeTerm, closer)
}

func endsWithAnyTerm(buf []rune, terms []string) (string, bool) {
	s := string(buf)
	for _, t := range terms {
		if t != "" && strings.HasSuffix(s, t) {
			return t, true
		}
	}
	return "", false
}

func (m *collectorMatcher) Class() MatcherClass { return Dynamic }
func (m *collectorMatcher) State() MatcherState { return m.state }

func (m *collectorMatcher) Accept(buffer []rune, ch rune) {
	if ch == nul || m.terminated || !m.pred(buffer, ch) {
		m.state = Broken
		return
	}
	next := make([]rune, 0, len(buffer)+1)
	next = append(next, buffer...)
	next = append(next, ch)
	if _, ok := endsWithAnyTerm(next, m.terms); ok {
		m.terminated = true
	}
	m.state = Closeable
}

func (m *collectorMatcher) Close(buffer []rune, modes *ModeStack) (token.Token, int, error) {
	if term, ok := endsWithAnyTerm(buffer, m.terms); ok {
		if m.consumeTerm {
			v, err := m.closer(buffer, true)
			return v, len(buffer), err
		}
		content := buffer[:len(buffer)-len([]rune(term))]
		v, err := m.closer(content, false)
		return v, len(content), err
	}
	// Reached end of input without seeing a terminator: flush whatever was
	// collected (unterminated raw string / comment).
	v, err := m.closer(buffer, false)
	return v, len(buffer), err
}

func (m *collectorMatcher) clone() Matcher {
	cp := *m
	return &cp
}

// --- chain -------------------------------------------------------------

// ChainCloser combines the results of every committed sub-matcher (in
// order) into the chain's overall token. It may mutate modes itself in
// addition to whatever the sub-matchers' own closers already did.
type ChainCloser func(parts []token.Token, buffer []rune, modes *ModeStack) (token.Token, error)

type chainMatcher struct {
	subs   []cloneable
	splits []int // splits[i] is the buffer offset at which subs[i] began
	state  MatcherState
	closer ChainCloser
}

// Chain concatenates heterogeneous matchers: m[0] runs on the initial
// prefix; whenever the active sub-matcher was Closeable and would break on
// the next character, control passes to the next sub-matcher, whose own
// buffer starts counting from that character. If the active sub-matcher
// breaks without having been Closeable, the whole chain breaks.
func Chain(subs []Matcher, closer ChainCloser) Matcher {
	cs := make([]cloneable, len(subs))
	for i, s := range subs {
		c, ok := s.(cloneable)
		if !ok {
			panic("lexer: Chain sub-matcher must be built by a primitive constructor")
		}
		cs[i] = c
	}
	return &chainMatcher{subs: cs, splits: []int{0}, state: Open, closer: closer}
}

func (m *chainMatcher) Class() MatcherClass { return Dynamic }
func (m *chainMatcher) State() MatcherState { return m.state }

func (m *chainMatcher) activeIndex() int { return len(m.splits) - 1 }

func (m *chainMatcher) Accept(buffer []rune, ch rune) {
	if ch == nul {
		m.state = Broken
		return
	}
	for {
		i := m.activeIndex()
		offset := m.splits[i]
		sub := m.subs[i]
		wasCloseable := sub.State() == Closeable
		trial := sub.clone().(cloneable)
		trial.Accept(buffer[offset:], ch)
		if trial.State() != Broken {
			m.subs[i] = trial
			if i == len(m.subs)-1 && trial.State() == Closeable {
				m.state = Closeable
			} else {
				m.state = Open
			}
			return
		}
		// The active sub-matcher broke. Only hand off to the next
		// sub-matcher if the active one had already reached a valid
		// match (Closeable) — otherwise this is a genuine failure of
		// the whole chain, not a phase boundary.
		if !wasCloseable || i+1 >= len(m.subs) {
			m.state = Broken
			return
		}
		m.splits = append(m.splits, len(buffer))
	}
}

func (m *chainMatcher) Close(buffer []rune, modes *ModeStack) (token.Token, int, error) {
	active := m.activeIndex()
	parts := make([]token.Token, 0, active+1)
	n := 0
	for i := 0; i <= active; i++ {
		start := m.splits[i]
		end := len(buffer)
		if i < active {
			end = m.splits[i+1]
		}
		val, consumed, err := m.subs[i].Close(buffer[start:end], modes)
		if err != nil {
			return token.Token{}, 0, err
		}
		parts = append(parts, val)
		n = start + consumed
	}
	v, err := m.closer(parts, buffer[:n], modes)
	return v, n, err
}

func (m *chainMatcher) clone() Matcher {
	subs := make([]cloneable, len(m.subs))
	for i, s := range m.subs {
		subs[i] = s.clone().(cloneable)
	}
	splits := make([]int, len(m.splits))
	copy(splits, m.splits)
	return &chainMatcher{subs: subs, splits: splits, state: m.state, closer: m.closer}
}
