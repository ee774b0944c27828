package lexer

import (
	"strings"

	"github.com/vela-lang/vela/token"
)

// matchersFor returns the candidate matcher set active for mode.
func matchersFor(mode Mode) []Matcher {
	switch mode.Kind {
	case ModeNormal:
		return normalMatchers(mode.FromString)
	case ModeCompositeString:
		return compositeStringMatchers()
	case ModeRawString:
		return rawStringMatchers(mode.PoundCount)
	case ModeComment:
		return commentMatchers(mode.Terminator)
	default:
		panic("lexer: unknown mode kind")
	}
}

// single wraps one matcher in a Chain of length one purely to get access to
// a ChainCloser, which is the only closer signature that receives the live
// *ModeStack. Every matcher below that needs to push or pop a mode is built
// this way instead of via Text/SimpleText's plain buffer-only closer.
func single(m Matcher, closer ChainCloser) Matcher {
	return Chain([]Matcher{m}, closer)
}

func normalMatchers(fromString bool) []Matcher {
	ms := []Matcher{
		// Punctuation and operators. Multi-character operators are listed
		// alongside their single-character prefixes; the driver's
		// speculative advancement resolves the ambiguity by longest match
		// without any special-casing here.
		SimpleText("+", token.New(token.Plus)),
		SimpleText("-", token.New(token.Minus)),
		SimpleText("*", token.New(token.Star)),
		SimpleText("/", token.New(token.Slash)),
		SimpleText("(", token.New(token.LParen)),
		SimpleText(")", token.New(token.RParen)),
		SimpleText("[", token.New(token.LBracket)),
		SimpleText("]", token.New(token.RBracket)),
		SimpleText(",", token.New(token.Comma)),
		SimpleText(".", token.New(token.Dot)),
		SimpleText(";", token.New(token.Semicolon)),
		SimpleText("=", token.New(token.Assign)),
		SimpleText("==", token.New(token.Eq)),
		SimpleText("!", token.New(token.Bang)),
		SimpleText("!=", token.New(token.NotEq)),
		SimpleText(">", token.New(token.Gt)),
		SimpleText(">=", token.New(token.GtEq)),
		SimpleText("<", token.New(token.Lt)),
		SimpleText("<=", token.New(token.LtEq)),
		SimpleText("&", token.New(token.Amp)),
		SimpleText("&&", token.New(token.AmpAmp)),
		SimpleText("|", token.New(token.Pipe)),
		SimpleText("||", token.New(token.PipePipe)),

		// '{' and '}' always emit their token. Additionally, whenever the
		// mode they were matched in is itself a "${...}" interpolation
		// (fromString), '{' pushes another Normal(true) and '}' pops one —
		// this alone tracks arbitrary interpolation-expression brace
		// nesting without any separate depth counter.
		single(Text("{", noopTextCloser), func(_ []token.Token, _ []rune, modes *ModeStack) (token.Token, error) {
			if fromString {
				modes.Push(Mode{Kind: ModeNormal, FromString: true})
			}
			return token.New(token.LBrace), nil
		}),
		single(Text("}", noopTextCloser), func(_ []token.Token, _ []rune, modes *ModeStack) (token.Token, error) {
			if fromString {
				modes.Pop()
			}
			return token.New(token.RBrace), nil
		}),

		// Keywords. Declared as exact literals alongside the identifier
		// matcher below: for input like "letter", the keyword matcher
		// "let" closes (Fixed) after 3 characters while the identifier
		// matcher is still accepting, so only the identifier survives to
		// the word boundary. For input exactly "let", both close at the
		// same length and the Fixed-over-Dynamic tiebreak picks
		// the keyword. No separate keyword table is consulted at runtime.
		SimpleText("let", token.New(token.Let)),
		SimpleText("var", token.New(token.Var)),
		SimpleText("const", token.New(token.Const)),
		SimpleText("if", token.New(token.If)),
		SimpleText("else", token.New(token.Else)),
		SimpleText("for", token.New(token.For)),
		SimpleText("while", token.New(token.While)),
		SimpleText("class", token.New(token.Class)),
		SimpleText("fn", token.New(token.Fn)),
		SimpleText("return", token.New(token.Return)),
		SimpleText("null", token.New(token.Null)),
		SimpleText("true", token.Token{Kind: token.True, Bool: true}),
		SimpleText("false", token.Token{Kind: token.False, Bool: false}),

		identifierMatcher(),

		unsignedIntMatcher(),
		signedIntMatcher(),
		unsignedFloatMatcher(),
		signedFloatMatcher(),

		// '"' opens a composite (interpolating) string: push CompositeString
		// and emit StringOpen.
		single(Text(`"`, noopTextCloser), func(_ []token.Token, _ []rune, modes *ModeStack) (token.Token, error) {
			modes.Push(Mode{Kind: ModeCompositeString})
			return token.New(token.StringOpen), nil
		}),

		rawStringOpenerMatcher(),

		single(Text("//", noopTextCloser), func(_ []token.Token, _ []rune, modes *ModeStack) (token.Token, error) {
			modes.Push(Mode{Kind: ModeComment, Terminator: "\n"})
			return token.New(token.LineCommentOpen), nil
		}),
		single(Text("/*", noopTextCloser), func(_ []token.Token, _ []rune, modes *ModeStack) (token.Token, error) {
			modes.Push(Mode{Kind: ModeComment, Terminator: "*/"})
			return token.New(token.BlockCommentOpen), nil
		}),
	}
	return ms
}

func identifierMatcher() Matcher {
	pred := func(buf []rune, ch rune) bool {
		if len(buf) == 0 {
			return isIdentStart(ch)
		}
		return isIdentPart(ch)
	}
	return TakeWhile(pred, 1, func(buffer []rune) (token.Token, error) {
		return token.WithText(token.Identifier, string(buffer)), nil
	})
}

// intBodyChar accepts the text an integer literal's TakeWhile run may
// contain: decimal digits and '_' separators throughout, plus a 0b/0o/0x
// radix marker right after a leading zero and the matching digit alphabet
// once one is seen. buf is this run's own accumulated text, so the check is
// purely positional — no external counter needed.
func intBodyChar(buf []rune, ch rune) bool {
	n := len(buf)
	if n == 0 {
		return isDigit(ch)
	}
	if n == 1 && buf[0] == '0' && isRadixMarker(ch) {
		return true
	}
	if n >= 2 && buf[0] == '0' && isRadixMarker(buf[1]) {
		return isRadixDigit(buf[1], ch) || ch == '_'
	}
	return isDigit(ch) || ch == '_'
}

func isRadixMarker(ch rune) bool {
	switch ch {
	case 'b', 'B', 'o', 'O', 'x', 'X':
		return true
	default:
		return false
	}
}

func isRadixDigit(marker, ch rune) bool {
	switch marker {
	case 'b', 'B':
		return ch == '0' || ch == '1'
	case 'o', 'O':
		return ch >= '0' && ch <= '7'
	case 'x', 'X':
		return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
	default:
		return false
	}
}

// floatDigitChar accepts decimal digits and '_' separators for a float
// literal's integer/fractional runs. Floats have no radix forms.
func floatDigitChar(buf []rune, ch rune) bool {
	if len(buf) == 0 {
		return isDigit(ch)
	}
	return isDigit(ch) || ch == '_'
}

func unsignedIntMatcher() Matcher {
	return TakeWhile(intBodyChar, 1, func(buffer []rune) (token.Token, error) {
		v, err := ParseInt(string(buffer))
		if err != nil {
			return token.Token{}, err
		}
		return token.Token{Kind: token.IntLiteral, Int: v}, nil
	})
}

func signedIntMatcher() Matcher {
	return Chain([]Matcher{
		Conditions([]Condition{isMinusCond}, noopCloser),
		TakeWhile(intBodyChar, 1, noopCloser),
	}, func(parts []token.Token, buffer []rune, modes *ModeStack) (token.Token, error) {
		v, err := ParseInt(string(buffer))
		if err != nil {
			return token.Token{}, err
		}
		return token.Token{Kind: token.IntLiteral, Int: v}, nil
	})
}

func unsignedFloatMatcher() Matcher {
	return Chain([]Matcher{
		TakeWhile(floatDigitChar, 1, noopCloser),
		Text(".", noopTextCloser),
		TakeWhile(floatDigitChar, 1, noopCloser),
	}, floatChainCloser)
}

func signedFloatMatcher() Matcher {
	return Chain([]Matcher{
		Conditions([]Condition{isMinusCond}, noopCloser),
		TakeWhile(floatDigitChar, 1, noopCloser),
		Text(".", noopTextCloser),
		TakeWhile(floatDigitChar, 1, noopCloser),
	}, floatChainCloser)
}

func floatChainCloser(_ []token.Token, buffer []rune, _ *ModeStack) (token.Token, error) {
	v, err := ParseFloat(string(buffer))
	if err != nil {
		return token.Token{}, err
	}
	return token.Token{Kind: token.FloatLiteral, Num: v}, nil
}

func isMinusCond(_ []rune, ch rune) bool { return ch == '-' }

func noopCloser([]rune) (token.Token, error) { return token.Token{}, nil }

func noopTextCloser([]rune) (token.Token, error) { return token.Token{}, nil }

// rawStringOpenerMatcher matches zero or more '#' followed by a backtick,
// pushing RawString(n) where n is the number of '#' seen, and emitting
// StringOpen.
func rawStringOpenerMatcher() Matcher {
	return Chain([]Matcher{
		TakeWhile(func(_ []rune, ch rune) bool { return isHash(ch) }, 0, noopCloser),
		Text("`", noopTextCloser),
	}, func(_ []token.Token, buffer []rune, modes *ModeStack) (token.Token, error) {
		n := strings.Count(string(buffer), "#")
		modes.Push(Mode{Kind: ModeRawString, PoundCount: n})
		return token.New(token.StringOpen), nil
	})
}

func compositeStringMatchers() []Matcher {
	terms := []string{`"`, "${", `\`}
	// The content collector is declared last deliberately: every matcher
	// above it here is Dynamic too (Chain never reports Fixed even when it
	// wraps a single literal match), so when the collector and a literal
	// terminator both close on the same character, declaration order is the
	// only tiebreak left, and the terminator must win.
	return []Matcher{
		single(Text(`"`, noopTextCloser), func(_ []token.Token, _ []rune, modes *ModeStack) (token.Token, error) {
			modes.Pop()
			return token.New(token.StringClose), nil
		}),
		single(Text("${", noopTextCloser), func(_ []token.Token, _ []rune, modes *ModeStack) (token.Token, error) {
			modes.Push(Mode{Kind: ModeNormal, FromString: true})
			return token.New(token.DollarLeftBrace), nil
		}),
		escapeNonWhitespaceMatcher(),
		escapeWhitespaceMatcher(),
		unicodeEscapeMatcher(),
		Collector(terms, false, func(content []rune, _ bool) (token.Token, error) {
			return token.WithText(token.StringLiteral, string(content)), nil
		}),
	}
}

func isWhitespaceRune(ch rune) bool {
	switch ch {
	case ' ', '\t', '\r', '\n':
		return true
	default:
		return false
	}
}

func escapeNonWhitespaceMatcher() Matcher {
	return Conditions([]Condition{
		func(_ []rune, ch rune) bool { return ch == '\\' },
		func(_ []rune, ch rune) bool { return !isWhitespaceRune(ch) },
	}, func(buffer []rune) (token.Token, error) {
		ch, err := Escape(string(buffer[1:]))
		if err != nil {
			return token.Token{}, err
		}
		return token.WithText(token.StringLiteral, string(ch)), nil
	})
}

func escapeWhitespaceMatcher() Matcher {
	return Conditions([]Condition{
		func(_ []rune, ch rune) bool { return ch == '\\' },
		func(_ []rune, ch rune) bool { return isWhitespaceRune(ch) },
	}, func(buffer []rune) (token.Token, error) {
		return token.Token{}, newError(NoEscape, string(buffer))
	})
}

// unicodeEscapeMatcher matches "\u{" followed by hex digits up to the
// closing '}', decoding the code point at Close time.
func unicodeEscapeMatcher() Matcher {
	return Chain([]Matcher{
		Text(`\u{`, noopTextCloser),
		Collector([]string{"}"}, true, func(content []rune, consumedTerm bool) (token.Token, error) {
			hex := string(content)
			if consumedTerm {
				hex = hex[:len(hex)-1]
			}
			cp, err := ParseUnicode(hex)
			if err != nil {
				return token.Token{}, err
			}
			return token.WithText(token.StringLiteral, string(cp)), nil
		}),
	}, func(parts []token.Token, _ []rune, _ *ModeStack) (token.Token, error) {
		return parts[len(parts)-1], nil
	})
}

func rawStringMatchers(n int) []Matcher {
	term := "`" + strings.Repeat("#", n)
	// Terminator declared before the collector for the same reason as
	// compositeStringMatchers: both are Dynamic, so declaration order is
	// the tiebreak when they close together, and the terminator must win.
	return []Matcher{
		single(Text(term, noopTextCloser), func(_ []token.Token, _ []rune, modes *ModeStack) (token.Token, error) {
			modes.Pop()
			return token.New(token.StringClose), nil
		}),
		Collector([]string{term}, false, func(content []rune, _ bool) (token.Token, error) {
			return token.WithText(token.StringLiteral, string(content)), nil
		}),
	}
}

func commentMatchers(terminator string) []Matcher {
	return []Matcher{
		single(Text(terminator, noopTextCloser), func(_ []token.Token, _ []rune, modes *ModeStack) (token.Token, error) {
			modes.Pop()
			return token.New(token.CommentClose), nil
		}),
		Collector([]string{terminator}, false, func(content []rune, _ bool) (token.Token, error) {
			return token.WithText(token.CommentLiteral, string(content)), nil
		}),
	}
}
