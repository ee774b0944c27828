// Package parser implements a Pratt expression parser over the token
// stream produced by the lexer package.
package parser

import "github.com/vela-lang/vela/token"

// Node is any expression AST node.
type Node interface {
	node()
}

// Literal is a single value-carrying token lifted directly into the tree:
// an identifier, a number, a string, true/false, or null.
type Literal struct {
	Tok token.Token
}

func (*Literal) node() {}

// Unary is a prefix operator applied to one operand, e.g. "-x" or "!x".
type Unary struct {
	Op      token.Kind
	Operand Node
}

func (*Unary) node() {}

// Binary is an infix operator applied to two operands.
type Binary struct {
	Op    token.Kind
	Left  Node
	Right Node
}

func (*Binary) node() {}

// Call is a function-call expression: Callee(Args...).
type Call struct {
	Callee Node
	Args   []Node
}

func (*Call) node() {}

// Index is a subscript expression: Target[Key].
type Index struct {
	Target Node
	Key    Node
}

func (*Index) node() {}

// Member is a dotted member-access expression: Target.Name.
type Member struct {
	Target Node
	Name   string
}

func (*Member) node() {}

// Grouping is a parenthesized expression, kept as its own node so a
// formatter can round-trip the source parenthesization if it wants to.
type Grouping struct {
	Inner Node
}

func (*Grouping) node() {}
