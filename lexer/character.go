package lexer

// isIdentStart reports whether ch may begin an identifier: [_a-zA-Z].
func isIdentStart(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// isIdentPart reports whether ch may continue an identifier:
// [_a-zA-Z0-9].
func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch)
}

// isDigit reports whether ch is an ASCII decimal digit.
func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

// isHash reports whether ch is the '#' used to count raw-string delimiters.
func isHash(ch rune) bool {
	return ch == '#'
}
