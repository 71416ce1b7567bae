package quicksilver

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// lexer is a hand-rolled scanner over a source string. It produces the full
// token slice up front; the parser works on that slice.
type lexer struct {
	source string
	start  int // start of the token being scanned
	pos    int // current byte offset
	line   int
	col    int // column of pos, 1-indexed

	startPos Position
	tokens   []token
}

func newLexer(source string) *lexer {
	return &lexer{source: source, line: 1, col: 1}
}

func (l *lexer) scan() ([]token, *Error) {
	for {
		l.skipBlanks()
		if l.atEnd() {
			l.emit(tokEOF)
			return l.tokens, nil
		}
		l.start = l.pos
		l.startPos = l.here()
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
}

func (l *lexer) atEnd() bool {
	return l.pos >= len(l.source)
}

func (l *lexer) here() Position {
	return Position{Line: l.line, Column: l.col, Offset: l.pos}
}

func (l *lexer) peek() byte {
	if l.atEnd() {
		return 0
	}
	return l.source[l.pos]
}

func (l *lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.source) {
		return 0
	}
	return l.source[l.pos+n]
}

func (l *lexer) advance() byte {
	c := l.source[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func (l *lexer) match(c byte) bool {
	if l.peek() != c {
		return false
	}
	l.advance()
	return true
}

func (l *lexer) emit(t tokenType) {
	l.tokens = append(l.tokens, token{
		typ:    t,
		lexeme: l.source[l.start:l.pos],
		pos:    l.startPos,
	})
}

func (l *lexer) errorf(pos Position, format string, args ...interface{}) *Error {
	return newError(ErrSyntax, pos, l.source, format, args...)
}

// skipBlanks consumes whitespace and // and /* */ comments.
func (l *lexer) skipBlanks() {
	for !l.atEnd() {
		switch c := l.peek(); {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		case c == '/' && l.peekAt(1) == '/':
			for !l.atEnd() && l.peek() != '\n' {
				l.advance()
			}
		case c == '/' && l.peekAt(1) == '*':
			l.advance()
			l.advance()
			for !l.atEnd() && !(l.peek() == '*' && l.peekAt(1) == '/') {
				l.advance()
			}
			if !l.atEnd() {
				l.advance()
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *lexer) scanToken() *Error {
	c := l.advance()
	switch c {
	case '(':
		l.emit(tokLParen)
	case ')':
		l.emit(tokRParen)
	case '{':
		l.emit(tokLBrace)
	case '}':
		l.emit(tokRBrace)
	case ',':
		l.emit(tokComma)
	case ';':
		l.emit(tokSemi)
	case ':':
		l.emit(tokColon)
	case '?':
		l.emit(tokQuestion)
	case '+':
		l.emit(tokPlus)
	case '-':
		l.emit(tokMinus)
	case '*':
		l.emit(tokStar)
	case '/':
		l.emit(tokSlash)
	case '%':
		l.emit(tokPercent)
	case '.':
		if isDigit(l.peek()) {
			return l.scanNumber()
		}
		l.emit(tokDot)
	case '=':
		if l.match('=') {
			if l.match('=') {
				l.emit(tokStrictEq)
			} else {
				l.emit(tokEq)
			}
		} else {
			l.emit(tokAssign)
		}
	case '!':
		if l.match('=') {
			if l.match('=') {
				l.emit(tokStrictNeq)
			} else {
				l.emit(tokNeq)
			}
		} else {
			l.emit(tokNot)
		}
	case '<':
		if l.match('=') {
			l.emit(tokLessEq)
		} else {
			l.emit(tokLess)
		}
	case '>':
		if l.match('=') {
			l.emit(tokGreaterEq)
		} else {
			l.emit(tokGreater)
		}
	case '&':
		if l.match('&') {
			l.emit(tokAnd)
		} else {
			return l.errorf(l.startPos, "unexpected character '&'")
		}
	case '|':
		if l.match('|') {
			l.emit(tokOr)
		} else {
			return l.errorf(l.startPos, "unexpected character '|'")
		}
	case '\'', '"':
		return l.scanString(c)
	case '`':
		return l.scanTemplate()
	default:
		if isDigit(c) {
			return l.scanNumber()
		}
		if c >= utf8.RuneSelf {
			// Re-read the full rune; advance() consumed only its first byte.
			l.pos--
			l.col--
			r, size := utf8.DecodeRuneInString(l.source[l.pos:])
			if !isIdentStart(r) {
				return l.errorf(l.startPos, "unexpected character %q", r)
			}
			for i := 0; i < size; i++ {
				l.advance()
			}
			return l.scanIdent()
		}
		if isIdentStart(rune(c)) {
			return l.scanIdent()
		}
		return l.errorf(l.startPos, "unexpected character %q", c)
	}
	return nil
}

func (l *lexer) scanNumber() *Error {
	// Hex literal
	if l.source[l.start] == '0' && (l.peek() == 'x' || l.peek() == 'X') {
		l.advance()
		digits := l.pos
		for isHexDigit(l.peek()) {
			l.advance()
		}
		if l.pos == digits {
			return l.errorf(l.startPos, "malformed hex literal")
		}
		n, err := strconv.ParseUint(l.source[digits:l.pos], 16, 64)
		if err != nil {
			return l.errorf(l.startPos, "malformed hex literal %q", l.source[l.start:l.pos])
		}
		l.emitNumber(float64(n))
		return nil
	}

	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		save := l.pos
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		if !isDigit(l.peek()) {
			l.pos = save // bare 'e' is not an exponent
		} else {
			for isDigit(l.peek()) {
				l.advance()
			}
		}
	}
	n, err := strconv.ParseFloat(l.source[l.start:l.pos], 64)
	if err != nil {
		return l.errorf(l.startPos, "malformed number %q", l.source[l.start:l.pos])
	}
	l.emitNumber(n)
	return nil
}

func (l *lexer) emitNumber(n float64) {
	l.tokens = append(l.tokens, token{
		typ:    tokNumber,
		lexeme: l.source[l.start:l.pos],
		num:    n,
		pos:    l.startPos,
	})
}

func (l *lexer) scanString(quote byte) *Error {
	var b strings.Builder
	for {
		if l.atEnd() || l.peek() == '\n' {
			return l.errorf(l.startPos, "unterminated string literal")
		}
		c := l.advance()
		if c == quote {
			break
		}
		if c == '\\' {
			r, err := l.scanEscape()
			if err != nil {
				return err
			}
			b.WriteRune(r)
			continue
		}
		b.WriteByte(c)
	}
	l.tokens = append(l.tokens, token{
		typ:    tokString,
		lexeme: l.source[l.start:l.pos],
		str:    b.String(),
		pos:    l.startPos,
	})
	return nil
}

func (l *lexer) scanEscape() (rune, *Error) {
	if l.atEnd() {
		return 0, l.errorf(l.here(), "unterminated escape sequence")
	}
	c := l.advance()
	switch c {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case 'v':
		return '\v', nil
	case '0':
		return 0, nil
	case 'u':
		start := l.pos
		if l.match('{') {
			for !l.atEnd() && l.peek() != '}' {
				l.advance()
			}
			hex := l.source[start+1 : l.pos]
			if !l.match('}') || hex == "" {
				return 0, l.errorf(l.startPos, "malformed unicode escape")
			}
			n, err := strconv.ParseUint(hex, 16, 32)
			if err != nil || n > unicode.MaxRune {
				return 0, l.errorf(l.startPos, "malformed unicode escape")
			}
			return rune(n), nil
		}
		for i := 0; i < 4; i++ {
			if !isHexDigit(l.peek()) {
				return 0, l.errorf(l.startPos, "malformed unicode escape")
			}
			l.advance()
		}
		n, _ := strconv.ParseUint(l.source[start:l.pos], 16, 32)
		return rune(n), nil
	default:
		// Unknown escapes pass the character through, as in the engine
		// this core mirrors.
		return rune(c), nil
	}
}

// scanTemplate reads a backtick literal into text and ${...} segments.
// Substitution bodies are kept as raw source; the parser runs them through
// a nested parse.
func (l *lexer) scanTemplate() *Error {
	var parts []templatePart
	var text strings.Builder
	textPos := l.here()

	flush := func() {
		if text.Len() > 0 {
			parts = append(parts, templatePart{text: text.String(), pos: textPos})
			text.Reset()
		}
	}

	for {
		if l.atEnd() {
			return l.errorf(l.startPos, "unterminated template literal")
		}
		c := l.advance()
		if c == '`' {
			break
		}
		if c == '\\' {
			r, err := l.scanEscape()
			if err != nil {
				return err
			}
			text.WriteRune(r)
			continue
		}
		if c == '$' && l.peek() == '{' {
			l.advance()
			flush()
			exprPos := l.here()
			exprStart := l.pos
			depth := 1
			for depth > 0 {
				if l.atEnd() {
					return l.errorf(exprPos, "unterminated template substitution")
				}
				switch l.advance() {
				case '{':
					depth++
				case '}':
					depth--
				}
			}
			expr := l.source[exprStart : l.pos-1]
			parts = append(parts, templatePart{isExpr: true, text: expr, pos: exprPos})
			textPos = l.here()
			continue
		}
		text.WriteByte(c)
	}
	flush()

	l.tokens = append(l.tokens, token{
		typ:    tokTemplate,
		lexeme: l.source[l.start:l.pos],
		parts:  parts,
		pos:    l.startPos,
	})
	return nil
}

func (l *lexer) scanIdent() *Error {
	for !l.atEnd() {
		r, size := utf8.DecodeRuneInString(l.source[l.pos:])
		if !isIdentPart(r) {
			break
		}
		for i := 0; i < size; i++ {
			l.advance()
		}
	}
	word := l.source[l.start:l.pos]
	if kw, ok := keywords[word]; ok {
		l.emit(kw)
		return nil
	}
	l.tokens = append(l.tokens, token{
		typ:    tokIdent,
		lexeme: word,
		pos:    l.startPos,
	})
	return nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
