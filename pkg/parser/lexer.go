package parser

import (
	"strings"

	"github.com/sqlsentry/sqlsentry/pkg/token"
)

// Lexer tokenizes PostgreSQL DDL input.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() token.Token {
	if tok, bad := l.skipWhitespaceAndComments(); bad {
		return tok
	}

	pos := l.currentPos()

	switch {
	case l.ch == 0:
		return token.Token{Type: token.EOF, Pos: pos}
	case l.ch == ';':
		l.readChar()
		return token.Token{Type: token.SEMICOLON, Literal: ";", Pos: pos}
	case l.ch == ',':
		l.readChar()
		return token.Token{Type: token.COMMA, Literal: ",", Pos: pos}
	case l.ch == '.':
		l.readChar()
		return token.Token{Type: token.DOT, Literal: ".", Pos: pos}
	case l.ch == '(':
		l.readChar()
		return token.Token{Type: token.LPAREN, Literal: "(", Pos: pos}
	case l.ch == ')':
		l.readChar()
		return token.Token{Type: token.RPAREN, Literal: ")", Pos: pos}
	case l.ch == '[':
		l.readChar()
		return token.Token{Type: token.LBRACKET, Literal: "[", Pos: pos}
	case l.ch == ']':
		l.readChar()
		return token.Token{Type: token.RBRACKET, Literal: "]", Pos: pos}
	case l.ch == '=':
		l.readChar()
		return token.Token{Type: token.EQ, Literal: "=", Pos: pos}
	case l.ch == '\'':
		return l.readString(pos)
	case l.ch == '$' && (l.peekChar() == '$' || isIdentStart(l.peekChar())):
		return l.readDollarString(pos)
	case l.ch == '"':
		return l.readQuotedIdent(pos)
	case isDigit(l.ch):
		return l.readNumber(pos)
	case isIdentStart(l.ch):
		return l.readIdentifier(pos)
	case isOperatorChar(l.ch):
		return l.readOperator(pos)
	default:
		ch := l.ch
		l.readChar()
		return token.Token{Type: token.ILLEGAL, Literal: string(ch), Pos: pos}
	}
}

// skipWhitespaceAndComments consumes whitespace, -- line comments, and
// (nested) block comments. It returns an ILLEGAL token for an unterminated
// block comment.
func (l *Lexer) skipWhitespaceAndComments() (token.Token, bool) {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.readChar()
		case l.ch == '-' && l.peekChar() == '-':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			pos := l.currentPos()
			if !l.skipBlockComment() {
				return token.Token{Type: token.ILLEGAL, Literal: errUnterminatedComment, Pos: pos}, true
			}
		default:
			return token.Token{}, false
		}
	}
}

// skipBlockComment consumes a block comment, honoring PostgreSQL's comment
// nesting. Returns false on EOF before the closing marker.
func (l *Lexer) skipBlockComment() bool {
	l.readChar() // consume /
	l.readChar() // consume *
	depth := 1
	for depth > 0 {
		switch {
		case l.ch == 0:
			return false
		case l.ch == '/' && l.peekChar() == '*':
			depth++
			l.readChar()
			l.readChar()
		case l.ch == '*' && l.peekChar() == '/':
			depth--
			l.readChar()
			l.readChar()
		default:
			l.readChar()
		}
	}
	return true
}

// readString reads a single-quoted string literal with '' escapes.
func (l *Lexer) readString(pos token.Position) token.Token {
	var sb strings.Builder
	l.readChar() // consume opening quote
	for {
		switch {
		case l.ch == 0:
			return token.Token{Type: token.ILLEGAL, Literal: errUnterminatedString, Pos: pos}
		case l.ch == '\'' && l.peekChar() == '\'':
			sb.WriteByte('\'')
			l.readChar()
			l.readChar()
		case l.ch == '\'':
			l.readChar()
			return token.Token{Type: token.STRING, Literal: sb.String(), Pos: pos}
		default:
			sb.WriteByte(l.ch)
			l.readChar()
		}
	}
}

// readDollarString reads a dollar-quoted string like $$body$$ or $tag$body$tag$.
func (l *Lexer) readDollarString(pos token.Position) token.Token {
	var tag strings.Builder
	tag.WriteByte('$')
	l.readChar()
	for isIdentPart(l.ch) {
		tag.WriteByte(l.ch)
		l.readChar()
	}
	if l.ch != '$' {
		// A lone $ followed by identifier chars is not a quote marker we
		// support (e.g. positional parameters); treat as an operator-ish run.
		return token.Token{Type: token.OPERATOR, Literal: tag.String(), Pos: pos}
	}
	tag.WriteByte('$')
	l.readChar()

	delim := tag.String()
	rest := l.input[l.pos:]
	end := strings.Index(rest, delim)
	if end < 0 {
		return token.Token{Type: token.ILLEGAL, Literal: errUnterminatedQuoting, Pos: pos}
	}
	body := rest[:end]
	for i := 0; i < end+len(delim); i++ {
		l.readChar()
	}
	return token.Token{Type: token.STRING, Literal: body, Pos: pos}
}

// readQuotedIdent reads a double-quoted identifier with "" escapes.
func (l *Lexer) readQuotedIdent(pos token.Position) token.Token {
	var sb strings.Builder
	l.readChar() // consume opening quote
	for {
		switch {
		case l.ch == 0:
			return token.Token{Type: token.ILLEGAL, Literal: errUnterminatedString, Pos: pos}
		case l.ch == '"' && l.peekChar() == '"':
			sb.WriteByte('"')
			l.readChar()
			l.readChar()
		case l.ch == '"':
			l.readChar()
			return token.Token{Type: token.IDENT, Literal: sb.String(), Pos: pos}
		default:
			sb.WriteByte(l.ch)
			l.readChar()
		}
	}
}

// readNumber reads a numeric literal.
func (l *Lexer) readNumber(pos token.Position) token.Token {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		if isDigit(l.peekChar()) || ((l.peekChar() == '+' || l.peekChar() == '-') && l.readPos+1 < len(l.input) && isDigit(l.input[l.readPos+1])) {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	return token.Token{Type: token.NUMBER, Literal: l.input[start:l.pos], Pos: pos}
}

// readIdentifier reads an unquoted identifier or keyword.
func (l *Lexer) readIdentifier(pos token.Position) token.Token {
	start := l.pos
	for isIdentPart(l.ch) {
		l.readChar()
	}
	lit := l.input[start:l.pos]
	return token.Token{Type: token.LookupIdent(lit), Literal: lit, Pos: pos}
}

// readOperator reads a run of operator characters as one token. The linter
// never interprets operators, so the exact split does not matter as long as
// positions stay accurate.
func (l *Lexer) readOperator(pos token.Position) token.Token {
	start := l.pos
	for isOperatorChar(l.ch) {
		l.readChar()
	}
	return token.Token{Type: token.OPERATOR, Literal: l.input[start:l.pos], Pos: pos}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch >= 0x80
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch) || ch == '$'
}

func isOperatorChar(ch byte) bool {
	switch ch {
	case '+', '-', '*', '/', '<', '>', '!', '~', '@', '#', '%', '^', '&', '|', '`', '?', ':', '$':
		return true
	}
	return false
}
