package parser

import (
	"fmt"

	"github.com/vela-lang/vela/token"
)

// ErrorKind discriminates the parser's closed error taxonomy.
type ErrorKind int

const (
	// ExpectedAny: an expression was required but the token stream had
	// ended.
	ExpectedAny ErrorKind = iota
	// Expected: a specific token kind was required and not found.
	Expected
	// InvalidToken: a token kind the parser never expects appeared.
	InvalidToken
	// NumberError: a literal's value could not be decoded. Literal tokens
	// reach the parser already decoded by the lexer, so no path in Parser
	// returns this kind.
	NumberError
)

// Error is the parser's single error type, distinguishing the four kinds
// above with whatever context each carries.
type Error struct {
	Kind  ErrorKind
	Want  token.Kind // meaningful for Expected
	Got   token.Token
	Cause error // meaningful for NumberError
}

func (e *Error) Error() string {
	switch e.Kind {
	case ExpectedAny:
		return fmt.Sprintf("expected expression, got %s", e.Got)
	case Expected:
		return fmt.Sprintf("expected %s, got %s", e.Want, e.Got)
	case InvalidToken:
		return fmt.Sprintf("unexpected token %s", e.Got)
	case NumberError:
		return fmt.Sprintf("invalid number literal %s: %v", e.Got, e.Cause)
	default:
		return "parse error"
	}
}

func (e *Error) Unwrap() error { return e.Cause }
