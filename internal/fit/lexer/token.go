package lexer

import "fmt"

// TokenType represents the type of token in an image tree source file
type TokenType int

const (
	// Special tokens
	TOKEN_EOF TokenType = iota

	// Literals
	TOKEN_IDENT  // node and property names, e.g. fdt-board-a, conf@1, #address-cells
	TOKEN_STRING // quoted string literal
	TOKEN_NUMBER // decimal or hex literal inside cell lists

	// Delimiters
	TOKEN_LBRACE   // {
	TOKEN_RBRACE   // }
	TOKEN_LPAREN   // (
	TOKEN_RPAREN   // )
	TOKEN_LBRACKET // [
	TOKEN_RBRACKET // ]
	TOKEN_LANGLE   // <
	TOKEN_RANGLE   // >

	// Operators
	TOKEN_SEMICOLON // ;
	TOKEN_EQUALS    // =
	TOKEN_COMMA     // ,
	TOKEN_COLON     // : (label terminator)
	TOKEN_AMPERSAND // & (reference operator)
	TOKEN_SLASH     // / (root node, directives)
)

// Token represents a single lexical token
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal string // Unescaped value for string literals
	Line    int
	Column  int
}

// String returns a string representation of the token type
func (t TokenType) String() string {
	switch t {
	case TOKEN_EOF:
		return "EOF"
	case TOKEN_IDENT:
		return "IDENT"
	case TOKEN_STRING:
		return "STRING"
	case TOKEN_NUMBER:
		return "NUMBER"
	case TOKEN_LBRACE:
		return "LBRACE"
	case TOKEN_RBRACE:
		return "RBRACE"
	case TOKEN_LPAREN:
		return "LPAREN"
	case TOKEN_RPAREN:
		return "RPAREN"
	case TOKEN_LBRACKET:
		return "LBRACKET"
	case TOKEN_RBRACKET:
		return "RBRACKET"
	case TOKEN_LANGLE:
		return "LANGLE"
	case TOKEN_RANGLE:
		return "RANGLE"
	case TOKEN_SEMICOLON:
		return "SEMICOLON"
	case TOKEN_EQUALS:
		return "EQUALS"
	case TOKEN_COMMA:
		return "COMMA"
	case TOKEN_COLON:
		return "COLON"
	case TOKEN_AMPERSAND:
		return "AMPERSAND"
	case TOKEN_SLASH:
		return "SLASH"
	default:
		return "UNKNOWN"
	}
}

// String returns a string representation of the token
func (t Token) String() string {
	if t.Literal != "" {
		return fmt.Sprintf("%s(%s) [%d:%d]", t.Type, t.Literal, t.Line, t.Column)
	}
	return fmt.Sprintf("%s(%s) [%d:%d]", t.Type, t.Lexeme, t.Line, t.Column)
}

// LexError represents a lexical analysis error
type LexError struct {
	Message string
	Line    int
	Column  int
}

// Error implements the error interface
func (e LexError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}
