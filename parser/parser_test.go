package parser

import (
	"testing"

	"github.com/vela-lang/vela/token"
)

// sliceSource feeds a fixed token slice and then reports end of stream
// (ok == false), which the parser turns into an EOF token for its one-token
// lookahead.
type sliceSource struct {
	toks []token.Token
	pos  int
}

func tokens(toks ...token.Token) *sliceSource {
	return &sliceSource{toks: toks}
}

func (s *sliceSource) Next() (token.Token, bool, error) {
	if s.pos >= len(s.toks) {
		return token.Token{}, false, nil
	}
	tok := s.toks[s.pos]
	s.pos++
	return tok, true, nil
}

func ident(name string) token.Token {
	return token.WithText(token.Identifier, name)
}

func intLit(v int64) token.Token {
	return token.Token{Kind: token.IntLiteral, Int: v}
}

func op(k token.Kind) token.Token { return token.New(k) }

func TestParseLiteral(t *testing.T) {
	p := New(tokens(intLit(5)))
	n, err := p.ParseExpression()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lit, ok := n.(*Literal)
	if !ok {
		t.Fatalf("got %T, want *Literal", n)
	}
	if lit.Tok.Int != 5 {
		t.Errorf("got Int=%d, want 5", lit.Tok.Int)
	}
}

func TestParseUnary(t *testing.T) {
	p := New(tokens(op(token.Minus), intLit(5)))
	n, err := p.ParseExpression()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	u, ok := n.(*Unary)
	if !ok {
		t.Fatalf("got %T, want *Unary", n)
	}
	if u.Op != token.Minus {
		t.Errorf("Op = %v, want Minus", u.Op)
	}
	if _, ok := u.Operand.(*Literal); !ok {
		t.Errorf("Operand = %T, want *Literal", u.Operand)
	}
}

// TestAdditiveLeftAssociative pins down that "1 + 2 + 3" groups as
// ((1 + 2) + 3), not (1 + (2 + 3)) — same binding power must still fold
// left-to-right.
func TestAdditiveLeftAssociative(t *testing.T) {
	p := New(tokens(intLit(1), op(token.Plus), intLit(2), op(token.Plus), intLit(3)))
	n, err := p.ParseExpression()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	top, ok := n.(*Binary)
	if !ok {
		t.Fatalf("got %T, want *Binary", n)
	}
	if top.Op != token.Plus {
		t.Fatalf("top.Op = %v, want Plus", top.Op)
	}
	left, ok := top.Left.(*Binary)
	if !ok {
		t.Fatalf("top.Left = %T, want *Binary (the inner 1 + 2)", top.Left)
	}
	if left.Op != token.Plus {
		t.Errorf("left.Op = %v, want Plus", left.Op)
	}
	if _, ok := top.Right.(*Literal); !ok {
		t.Errorf("top.Right = %T, want *Literal (bare 3)", top.Right)
	}
}

// TestMultiplicativeBindsTighterThanAdditive pins down that "1 + 2 * 3"
// groups as (1 + (2 * 3)).
func TestMultiplicativeBindsTighterThanAdditive(t *testing.T) {
	p := New(tokens(intLit(1), op(token.Plus), intLit(2), op(token.Star), intLit(3)))
	n, err := p.ParseExpression()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	top, ok := n.(*Binary)
	if !ok || top.Op != token.Plus {
		t.Fatalf("got %#v, want top-level Plus", n)
	}
	if _, ok := top.Left.(*Literal); !ok {
		t.Errorf("top.Left = %T, want *Literal (bare 1)", top.Left)
	}
	right, ok := top.Right.(*Binary)
	if !ok || right.Op != token.Star {
		t.Fatalf("top.Right = %#v, want *Binary(Star)", top.Right)
	}
}

// TestConditionalIsOneTier exercises the collapsed conditional tier: "a ==
// b && c" groups as ((a == b) && c) since both operators share one binding
// power and fold left-to-right, not by any relative precedence between
// them.
func TestConditionalIsOneTier(t *testing.T) {
	p := New(tokens(ident("a"), op(token.Eq), ident("b"), op(token.AmpAmp), ident("c")))
	n, err := p.ParseExpression()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	top, ok := n.(*Binary)
	if !ok || top.Op != token.AmpAmp {
		t.Fatalf("got %#v, want top-level AmpAmp", n)
	}
	left, ok := top.Left.(*Binary)
	if !ok || left.Op != token.Eq {
		t.Fatalf("top.Left = %#v, want *Binary(Eq)", top.Left)
	}
}

func TestGrouping(t *testing.T) {
	p := New(tokens(op(token.LParen), intLit(1), op(token.Plus), intLit(2), op(token.RParen),
		op(token.Star), intLit(3)))
	n, err := p.ParseExpression()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	top, ok := n.(*Binary)
	if !ok || top.Op != token.Star {
		t.Fatalf("got %#v, want top-level Star", n)
	}
	grp, ok := top.Left.(*Grouping)
	if !ok {
		t.Fatalf("top.Left = %T, want *Grouping", top.Left)
	}
	if _, ok := grp.Inner.(*Binary); !ok {
		t.Errorf("grp.Inner = %T, want *Binary", grp.Inner)
	}
}

// TestPostfixChaining exercises call/index/member stacked left-to-right:
// "a.b[0](1)" must read as a call on an index on a member on a.
func TestPostfixChaining(t *testing.T) {
	p := New(tokens(
		ident("a"), op(token.Dot), ident("b"),
		op(token.LBracket), intLit(0), op(token.RBracket),
		op(token.LParen), intLit(1), op(token.RParen),
	))
	n, err := p.ParseExpression()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call, ok := n.(*Call)
	if !ok {
		t.Fatalf("got %T, want *Call", n)
	}
	if len(call.Args) != 1 {
		t.Fatalf("len(Args) = %d, want 1", len(call.Args))
	}
	idx, ok := call.Callee.(*Index)
	if !ok {
		t.Fatalf("call.Callee = %T, want *Index", call.Callee)
	}
	mem, ok := idx.Target.(*Member)
	if !ok {
		t.Fatalf("idx.Target = %T, want *Member", idx.Target)
	}
	if mem.Name != "b" {
		t.Errorf("mem.Name = %q, want %q", mem.Name, "b")
	}
}

func TestCallWithNoArguments(t *testing.T) {
	p := New(tokens(ident("f"), op(token.LParen), op(token.RParen)))
	n, err := p.ParseExpression()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call, ok := n.(*Call)
	if !ok {
		t.Fatalf("got %T, want *Call", n)
	}
	if len(call.Args) != 0 {
		t.Errorf("len(Args) = %d, want 0", len(call.Args))
	}
}

func TestCallWithMultipleArguments(t *testing.T) {
	p := New(tokens(ident("f"), op(token.LParen), intLit(1), op(token.Comma), intLit(2), op(token.Comma), intLit(3), op(token.RParen)))
	n, err := p.ParseExpression()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call, ok := n.(*Call)
	if !ok {
		t.Fatalf("got %T, want *Call", n)
	}
	if len(call.Args) != 3 {
		t.Errorf("len(Args) = %d, want 3", len(call.Args))
	}
}

func TestParseErrorExpectedAny(t *testing.T) {
	p := New(tokens())
	_, err := p.ParseExpression()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	perr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error is not *parser.Error: %v", err)
	}
	if perr.Kind != ExpectedAny {
		t.Errorf("Kind = %v, want ExpectedAny", perr.Kind)
	}
}

func TestParseErrorExpected(t *testing.T) {
	p := New(tokens(op(token.LParen), intLit(1)))
	_, err := p.ParseExpression()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	perr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error is not *parser.Error: %v", err)
	}
	if perr.Kind != Expected {
		t.Errorf("Kind = %v, want Expected", perr.Kind)
	}
	if perr.Want != token.RParen {
		t.Errorf("Want = %v, want RParen", perr.Want)
	}
}

func TestParseErrorInvalidToken(t *testing.T) {
	p := New(tokens(op(token.RBrace)))
	_, err := p.ParseExpression()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	perr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error is not *parser.Error: %v", err)
	}
	if perr.Kind != InvalidToken {
		t.Errorf("Kind = %v, want InvalidToken", perr.Kind)
	}
}

// TestMemberAccessRequiresIdentifier exercises the Expected error path
// inside led's Dot case specifically, as distinct from the top-level
// expect(RParen) case already covered above.
func TestMemberAccessRequiresIdentifier(t *testing.T) {
	p := New(tokens(ident("a"), op(token.Dot), intLit(1)))
	_, err := p.ParseExpression()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	perr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error is not *parser.Error: %v", err)
	}
	if perr.Kind != Expected || perr.Want != token.Identifier {
		t.Errorf("got Kind=%v Want=%v, want Expected/Identifier", perr.Kind, perr.Want)
	}
}
