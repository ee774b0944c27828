package lexer

import "fmt"

// ErrorKind discriminates the closed error taxonomy. All lexer errors
// are fatal at the stream level: once returned, the driver latches and every
// subsequent call reports end of stream.
type ErrorKind int

const (
	// InvalidToken: no matcher could consume the current input prefix.
	InvalidToken ErrorKind = iota
	// NoEscape: a backslash was followed by whitespace.
	NoEscape
	// InvalidEscape: the escape helper rejected the sequence.
	InvalidEscape
	// NoEscapeValue: a bare "\u" with no "{...}" body.
	NoEscapeValue
	// InvalidHex: a "\u{...}" body was not valid hex.
	InvalidHex
	// InvalidUnicodeValue: the hex decoded to a non-scalar code point.
	InvalidUnicodeValue
	// InvalidInt: parse_int saw malformed digits.
	InvalidInt
	// InvalidRadix: parse_int saw an unrecognized 0<ch> prefix.
	InvalidRadix
	// InvalidFloat: parse_float's underlying float syntax was rejected.
	InvalidFloat
	// PositiveOverflow: a positive literal exceeded its representable range.
	PositiveOverflow
	// NegativeOverflow: a negative literal exceeded its representable range.
	NegativeOverflow
)

var errorKindNames = map[ErrorKind]string{
	InvalidToken:        "invalid token",
	NoEscape:            "no escape",
	InvalidEscape:       "invalid escape",
	NoEscapeValue:       "no escape value",
	InvalidHex:          "invalid hex",
	InvalidUnicodeValue: "invalid unicode value",
	InvalidInt:          "invalid int",
	InvalidRadix:        "invalid radix",
	InvalidFloat:        "invalid float",
	PositiveOverflow:    "positive overflow",
	NegativeOverflow:    "negative overflow",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return "unknown error"
}

// Error is the single error type the lexer surfaces. Text carries the
// offending substring where applicable, so a caller can build a
// human-readable message without re-deriving it from source.
type Error struct {
	Kind ErrorKind
	Text string
}

func (e *Error) Error() string {
	if e.Text == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %q", e.Kind, e.Text)
}

func newError(kind ErrorKind, text string) *Error {
	return &Error{Kind: kind, Text: text}
}
