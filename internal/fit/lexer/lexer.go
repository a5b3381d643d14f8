package lexer

import (
	"strings"
	"unicode"
)

// Lexer tokenizes image tree source text
type Lexer struct {
	source      []rune     // Source text as runes
	start       int        // Start position of current token
	current     int        // Current position in source
	line        int        // Current line number
	column      int        // Current column number
	startColumn int        // Column where current token started
	tokens      []Token    // Collected tokens
	errors      []LexError // Collected errors
}

// New creates a new Lexer for the given source text
func New(source string) *Lexer {
	return &Lexer{
		source:      []rune(source),
		start:       0,
		current:     0,
		line:        1,
		column:      1,
		startColumn: 1,
		tokens:      make([]Token, 0, len(source)/8),
		errors:      make([]LexError, 0),
	}
}

// ScanTokens scans all tokens from the source and returns them with any errors
func (l *Lexer) ScanTokens() ([]Token, []LexError) {
	for !l.isAtEnd() {
		l.start = l.current
		l.startColumn = l.column
		l.scanToken()
	}

	l.tokens = append(l.tokens, Token{
		Type:   TOKEN_EOF,
		Lexeme: "",
		Line:   l.line,
		Column: l.column,
	})

	return l.tokens, l.errors
}

// scanToken scans a single token
func (l *Lexer) scanToken() {
	r := l.advance()

	switch r {
	case '{':
		l.addToken(TOKEN_LBRACE, "")
	case '}':
		l.addToken(TOKEN_RBRACE, "")
	case '(':
		l.addToken(TOKEN_LPAREN, "")
	case ')':
		l.addToken(TOKEN_RPAREN, "")
	case '[':
		l.addToken(TOKEN_LBRACKET, "")
	case ']':
		l.addToken(TOKEN_RBRACKET, "")
	case '<':
		l.addToken(TOKEN_LANGLE, "")
	case '>':
		l.addToken(TOKEN_RANGLE, "")
	case ';':
		l.addToken(TOKEN_SEMICOLON, "")
	case '=':
		l.addToken(TOKEN_EQUALS, "")
	case ',':
		l.addToken(TOKEN_COMMA, "")
	case ':':
		l.addToken(TOKEN_COLON, "")
	case '&':
		l.addToken(TOKEN_AMPERSAND, "")

	case '/':
		if l.match('/') {
			l.skipLineComment()
		} else if l.match('*') {
			l.skipBlockComment()
		} else {
			// Root node or directive delimiter, e.g. "/ {" or "/dts-v1/;"
			l.addToken(TOKEN_SLASH, "")
		}

	case '"':
		l.scanString()

	case ' ', '\r', '\t':
		// Ignore whitespace

	case '\n':
		l.line++
		l.column = 0 // Will be incremented to 1 on next advance

	default:
		if l.isDigit(r) {
			l.scanNumber()
		} else if l.isNameStart(r) {
			l.scanIdentifier()
		} else {
			l.addError("Unexpected character: " + string(r))
		}
	}
}

// skipLineComment consumes a // comment up to the end of the line
func (l *Lexer) skipLineComment() {
	for !l.isAtEnd() && l.peek() != '\n' {
		l.advance()
	}
}

// skipBlockComment consumes a /* ... */ comment, tracking line numbers
func (l *Lexer) skipBlockComment() {
	for !l.isAtEnd() {
		if l.peek() == '*' && l.peekNext() == '/' {
			l.advance()
			l.advance()
			return
		}
		if l.peek() == '\n' {
			l.line++
			l.column = 0
		}
		l.advance()
	}
	l.addError("Unterminated block comment")
}

// scanString scans a string literal, handling escape sequences
func (l *Lexer) scanString() {
	var builder strings.Builder

	for !l.isAtEnd() && l.peek() != '"' {
		if l.peek() == '\n' {
			l.line++
			l.column = 0
		}

		if l.peek() == '\\' {
			l.advance() // consume backslash
			if l.isAtEnd() {
				l.addError("Unterminated string")
				return
			}

			escaped := l.advance()
			switch escaped {
			case 'n':
				builder.WriteRune('\n')
			case 't':
				builder.WriteRune('\t')
			case 'r':
				builder.WriteRune('\r')
			case '\\':
				builder.WriteRune('\\')
			case '"':
				builder.WriteRune('"')
			default:
				// Invalid escape sequence, but include it
				builder.WriteRune('\\')
				builder.WriteRune(escaped)
			}
		} else {
			builder.WriteRune(l.advance())
		}
	}

	if l.isAtEnd() {
		l.addError("Unterminated string")
		return
	}

	// Consume closing quote
	l.advance()

	l.addToken(TOKEN_STRING, builder.String())
}

// scanNumber scans a decimal or hexadecimal literal. The numeric value is
// never interpreted, so the lexeme alone is kept.
func (l *Lexer) scanNumber() {
	for l.isHexDigit(l.peek()) || l.peek() == 'x' || l.peek() == 'X' {
		l.advance()
	}
	l.addToken(TOKEN_NUMBER, "")
}

// scanIdentifier scans a node or property name
func (l *Lexer) scanIdentifier() {
	for l.isNameChar(l.peek()) {
		l.advance()
	}
	l.addToken(TOKEN_IDENT, "")
}

// Helper methods

// isAtEnd checks if we've reached the end of the source
func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

// advance consumes and returns the current character
func (l *Lexer) advance() rune {
	if l.isAtEnd() {
		return 0
	}
	r := l.source[l.current]
	l.current++
	l.column++
	return r
}

// match checks if the current character matches the expected character
// If it matches, consumes it and returns true
func (l *Lexer) match(expected rune) bool {
	if l.isAtEnd() {
		return false
	}
	if l.source[l.current] != expected {
		return false
	}
	l.current++
	l.column++
	return true
}

// peek returns the current character without consuming it
func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.current]
}

// peekNext returns the next character without consuming it
func (l *Lexer) peekNext() rune {
	if l.current+1 >= len(l.source) {
		return 0
	}
	return l.source[l.current+1]
}

// isDigit checks if a rune is a digit
func (l *Lexer) isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isHexDigit checks if a rune is a hexadecimal digit
func (l *Lexer) isHexDigit(r rune) bool {
	return l.isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// isNameStart checks if a rune can start a node or property name.
// Property names may begin with # (e.g. #address-cells).
func (l *Lexer) isNameStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '#'
}

// isNameChar checks if a rune can appear inside a node or property name.
// The device tree name charset allows , . _ + - ? and the @ unit separator.
func (l *Lexer) isNameChar(r rune) bool {
	return unicode.IsLetter(r) || l.isDigit(r) ||
		r == '_' || r == ',' || r == '.' || r == '+' || r == '-' || r == '@' ||
		r == '#' || r == '?'
}

// addToken adds a token to the token list
func (l *Lexer) addToken(tokenType TokenType, literal string) {
	lexeme := string(l.source[l.start:l.current])
	l.tokens = append(l.tokens, Token{
		Type:    tokenType,
		Lexeme:  lexeme,
		Literal: literal,
		Line:    l.line,
		Column:  l.startColumn,
	})
}

// addError adds an error to the error list
func (l *Lexer) addError(message string) {
	l.errors = append(l.errors, LexError{
		Message: message,
		Line:    l.line,
		Column:  l.column,
	})
}
