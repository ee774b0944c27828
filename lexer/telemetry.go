package lexer

import (
	"time"

	"github.com/vela-lang/vela/token"
)

// DebugEvent is one recorded Next call: enough to reconstruct what the
// driver did without re-running it.
type DebugEvent struct {
	Token     token.Token
	Consumed  int
	ModeDepth int
	Duration  time.Duration
}

// Telemetry is opt-in, zero-cost-when-absent instrumentation: per-kind
// token counts, cumulative time spent in Next, and (if DebugLevel is DebugEvents)
// the full per-call trace. A nil *Telemetry (the default) means
// instrumentation was never attached and Lexer.Next does no bookkeeping
// beyond the token itself.
type Telemetry struct {
	DebugLevel DebugLevel

	Counts        map[token.Kind]int
	TotalTokens   int
	TotalDuration time.Duration

	Events []DebugEvent
}

// DebugLevel controls how much detail Telemetry retains.
type DebugLevel int

const (
	// DebugCounts records only aggregate counts and durations.
	DebugCounts DebugLevel = iota
	// DebugEvents additionally appends a DebugEvent per Next call.
	DebugEvents
)

func newTelemetry(level DebugLevel) *Telemetry {
	return &Telemetry{
		DebugLevel: level,
		Counts:     make(map[token.Kind]int),
	}
}

func (t *Telemetry) record(tok token.Token, consumed, modeDepth int, d time.Duration) {
	t.Counts[tok.Kind]++
	t.TotalTokens++
	t.TotalDuration += d
	if t.DebugLevel == DebugEvents {
		t.Events = append(t.Events, DebugEvent{Token: tok, Consumed: consumed, ModeDepth: modeDepth, Duration: d})
	}
}
