package parser

import (
	"github.com/vela-lang/vela/token"
)

// TokenSource is whatever can hand the parser one token at a time; a
// *lexer.Lexer satisfies it directly, so the parser never imports the lexer
// package and stays testable against hand-built token slices.
type TokenSource interface {
	Next() (token.Token, bool, error)
}

// bindingPower is the total order the parser climbs: Default < Literal <
// Conditional < Additive < Multiplicative < Prefix < Postfix < Call. Literal
// has no LED of its own — it marks where a bare value sits in the order,
// below every operator.
type bindingPower int

const (
	bpDefault bindingPower = iota
	bpLiteral
	bpConditional
	bpAdditive
	bpMultiplicative
	bpPrefix
	bpPostfix
	bpCall
)

// ledBindingPower reports the binding power of k when it appears as an
// infix/postfix operator (the token the parser's main loop is deciding
// whether to consume). Zero (bpDefault) means k never starts an LED.
func ledBindingPower(k token.Kind) bindingPower {
	switch k {
	case token.PipePipe, token.AmpAmp,
		token.Eq, token.NotEq,
		token.Lt, token.LtEq, token.Gt, token.GtEq:
		return bpConditional
	case token.Plus, token.Minus:
		return bpAdditive
	case token.Star, token.Slash:
		return bpMultiplicative
	case token.LBracket, token.Dot:
		return bpPostfix
	case token.LParen:
		return bpCall
	default:
		return bpDefault
	}
}

// Parser is a Pratt parser over a token stream, with one token of
// lookahead. It trusts the token source to have already resolved everything
// lexical (string interpolation, literal decoding, comments).
type Parser struct {
	src  TokenSource
	cur  token.Token
	done bool
	err  error
}

// New builds a Parser reading tokens from src.
func New(src TokenSource) *Parser {
	p := &Parser{src: src}
	p.advance()
	return p
}

func (p *Parser) advance() {
	if p.err != nil {
		return
	}
	tok, ok, err := p.src.Next()
	if err != nil {
		p.err = err
		p.done = true
		return
	}
	if !ok {
		p.done = true
		p.cur = token.Token{Kind: token.EOF}
		return
	}
	p.cur = tok
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if p.cur.Kind != k {
		return token.Token{}, &Error{Kind: Expected, Want: k, Got: p.cur}
	}
	tok := p.cur
	p.advance()
	return tok, nil
}

// ParseExpression parses one complete expression at the lowest binding
// power, consuming tokens up to (but not past) whatever follows it.
func (p *Parser) ParseExpression() (Node, error) {
	return p.parseExpression(bpDefault)
}

// parseExpression is the Pratt loop: run the current token's NUD, then
// while the next token's LED binding power is strictly greater than
// minBp, consume it and let its LED fold into the accumulated left
// subtree.
func (p *Parser) parseExpression(minBp bindingPower) (Node, error) {
	left, err := p.nud()
	if err != nil {
		return nil, err
	}
	for {
		bp := ledBindingPower(p.cur.Kind)
		if bp <= minBp {
			return left, nil
		}
		left, err = p.led(left, bp)
		if err != nil {
			return nil, err
		}
	}
}

// nud (null-denotation) produces a subtree starting from the current
// token: a literal, a prefix operator, or a parenthesized group.
func (p *Parser) nud() (Node, error) {
	tok := p.cur
	switch tok.Kind {
	case token.Identifier, token.IntLiteral, token.FloatLiteral,
		token.True, token.False, token.Null, token.StringLiteral:
		p.advance()
		return &Literal{Tok: tok}, nil

	case token.Minus, token.Bang:
		p.advance()
		operand, err := p.parseExpression(bpPrefix)
		if err != nil {
			return nil, err
		}
		return &Unary{Op: tok.Kind, Operand: operand}, nil

	case token.LParen:
		p.advance()
		inner, err := p.parseExpression(bpDefault)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		return &Grouping{Inner: inner}, nil

	case token.EOF:
		return nil, &Error{Kind: ExpectedAny, Got: tok}

	default:
		return nil, &Error{Kind: InvalidToken, Got: tok}
	}
}

// led (left-denotation) folds the next operator token into left, given the
// binding power the main loop already looked up for it.
func (p *Parser) led(left Node, bp bindingPower) (Node, error) {
	op := p.cur.Kind
	switch op {
	case token.PipePipe, token.AmpAmp,
		token.Eq, token.NotEq, token.Lt, token.LtEq, token.Gt, token.GtEq,
		token.Plus, token.Minus, token.Star, token.Slash:
		p.advance()
		right, err := p.parseExpression(bp)
		if err != nil {
			return nil, err
		}
		return &Binary{Op: op, Left: left, Right: right}, nil

	case token.LParen:
		p.advance()
		args, err := p.argumentList()
		if err != nil {
			return nil, err
		}
		return &Call{Callee: left, Args: args}, nil

	case token.LBracket:
		p.advance()
		key, err := p.parseExpression(bpDefault)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBracket); err != nil {
			return nil, err
		}
		return &Index{Target: left, Key: key}, nil

	case token.Dot:
		p.advance()
		name, err := p.expect(token.Identifier)
		if err != nil {
			return nil, err
		}
		return &Member{Target: left, Name: name.Text}, nil

	default:
		return nil, &Error{Kind: InvalidToken, Got: p.cur}
	}
}

func (p *Parser) argumentList() ([]Node, error) {
	var args []Node
	if p.cur.Kind == token.RParen {
		p.advance()
		return args, nil
	}
	for {
		arg, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.cur.Kind == token.Comma {
			p.advance()
			continue
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		return args, nil
	}
}
