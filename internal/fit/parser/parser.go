// Package parser builds the flat image-tree document from a token stream.
//
// The grammar is the brace-and-semicolon node syntax of tree source
// files. The parser does not build a full tree. It walks nodes with an
// explicit context value and records only the pieces the validator
// needs: image node names, configuration records, and the compatible
// and fdt properties inside each configuration.
package parser

import (
	"fmt"

	"github.com/fitlint/fitlint/internal/fit/ast"
	"github.com/fitlint/fitlint/internal/fit/lexer"
)

// nodeContext tracks where the parser is in the tree so that node and
// property handlers know what to record.
type nodeContext int

const (
	// ctxTop is the document level, outside any node.
	ctxTop nodeContext = iota
	// ctxRoot is the body of the root node.
	ctxRoot
	// ctxImages is the body of the images container node.
	ctxImages
	// ctxConfigurations is the body of the configurations container node.
	ctxConfigurations
	// ctxConfigRecord is the body of a single configuration node.
	ctxConfigRecord
	// ctxOther is any node body with nothing to record.
	ctxOther
)

// Parser consumes tokens and produces a Document
type Parser struct {
	tokens  []lexer.Token
	current int
	errors  []ParseError
	doc     *ast.Document
}

// New creates a new parser for the given token stream
func New(tokens []lexer.Token) *Parser {
	return &Parser{
		tokens:  tokens,
		current: 0,
		errors:  []ParseError{},
		doc:     &ast.Document{},
	}
}

// Parse walks the token stream and returns the extracted document along
// with any parse errors. The document is always usable; on error it
// holds whatever was extracted before and after the bad region.
func (p *Parser) Parse() (*ast.Document, []ParseError) {
	for !p.isAtEnd() {
		p.parseTopLevel()
	}
	return p.doc, p.errors
}

// parseTopLevel handles one document-level construct: a version
// directive, the root node, or a label overlay.
func (p *Parser) parseTopLevel() {
	switch {
	case p.check(lexer.TOKEN_SLASH) && p.checkNext(lexer.TOKEN_LBRACE):
		// Root node: / { ... };
		p.advance()
		p.advance()
		p.parseBody(ctxRoot, nil)
		p.consume(lexer.TOKEN_RBRACE, "Expected '}' to close root node")
		p.consume(lexer.TOKEN_SEMICOLON, "Expected ';' after root node")
	case p.check(lexer.TOKEN_SLASH):
		// Directive such as /dts-v1/;
		p.skipDirective()
	case p.check(lexer.TOKEN_AMPERSAND):
		// Overlay onto a labeled node: &label { ... };
		p.advance()
		p.consume(lexer.TOKEN_IDENT, "Expected label name after '&'")
		if p.match(lexer.TOKEN_LBRACE) {
			p.parseBody(ctxOther, nil)
			p.consume(lexer.TOKEN_RBRACE, "Expected '}' to close overlay node")
		}
		p.consume(lexer.TOKEN_SEMICOLON, "Expected ';' after overlay node")
	default:
		p.addError(fmt.Sprintf("Unexpected token at document level: %s", p.peek().Lexeme))
		p.advance()
		p.synchronize()
	}
}

// skipDirective consumes a slash-delimited directive through its
// terminating semicolon.
func (p *Parser) skipDirective() {
	p.advance() // leading '/'
	for !p.isAtEnd() && !p.check(lexer.TOKEN_SEMICOLON) {
		p.advance()
	}
	p.consume(lexer.TOKEN_SEMICOLON, "Expected ';' after directive")
}

// parseBody parses the statements inside a node until the closing
// brace. cfg is the configuration record being filled when ctx is
// ctxConfigRecord, nil otherwise.
func (p *Parser) parseBody(ctx nodeContext, cfg *ast.Configuration) {
	for !p.isAtEnd() && !p.check(lexer.TOKEN_RBRACE) {
		p.parseStatement(ctx, cfg)
	}
}

// parseStatement dispatches one body statement: a child node or a
// property assignment.
func (p *Parser) parseStatement(ctx nodeContext, cfg *ast.Configuration) {
	if !p.check(lexer.TOKEN_IDENT) {
		p.addError(fmt.Sprintf("Expected node or property name, got %s", p.peek().Lexeme))
		p.advance()
		p.synchronize()
		return
	}

	label := ""
	if p.checkNext(lexer.TOKEN_COLON) {
		label = p.advance().Lexeme
		p.advance() // ':'
	}

	name := p.advance()

	switch {
	case p.check(lexer.TOKEN_LBRACE):
		p.advance()
		p.parseNode(ctx, label, name)
	case p.check(lexer.TOKEN_EQUALS) || p.check(lexer.TOKEN_SEMICOLON):
		p.parseProperty(ctx, cfg, name)
	default:
		p.addError(fmt.Sprintf("Expected '{', '=' or ';' after %s", name.Lexeme))
		p.synchronize()
	}
}

// parseNode records the node according to its parent context, then
// parses the body and closing punctuation. The name token has been
// consumed and the opening brace matched.
func (p *Parser) parseNode(parent nodeContext, label string, name lexer.Token) {
	body := p.childContext(parent, name.Lexeme)

	var cfg *ast.Configuration
	switch body {
	case ctxConfigRecord:
		// A configuration answers to its label when one is present,
		// otherwise to its node name.
		cfg = &ast.Configuration{Name: name.Lexeme, Line: name.Line}
		if label != "" {
			cfg.Name = label
		}
	default:
		if parent == ctxImages {
			p.doc.Images = append(p.doc.Images, ast.Image{Name: name.Lexeme, Line: name.Line})
		}
	}

	p.parseBody(body, cfg)
	p.consume(lexer.TOKEN_RBRACE, fmt.Sprintf("Expected '}' to close node %s", name.Lexeme))
	p.consume(lexer.TOKEN_SEMICOLON, fmt.Sprintf("Expected ';' after node %s", name.Lexeme))

	if cfg != nil {
		p.doc.Configurations = append(p.doc.Configurations, *cfg)
	}
}

// childContext maps a parent context and node name to the context of
// the node's body.
func (p *Parser) childContext(parent nodeContext, name string) nodeContext {
	switch parent {
	case ctxRoot:
		switch name {
		case "images":
			return ctxImages
		case "configurations":
			return ctxConfigurations
		}
	case ctxImages:
		// Every node in the images subtree counts, hash and signature
		// subnodes included, so fdt references resolve against the
		// same set a line scan of the block would produce.
		return ctxImages
	case ctxConfigurations:
		return ctxConfigRecord
	}
	return ctxOther
}

// parseProperty parses a property assignment or boolean property. The
// name token has been consumed. Inside a configuration record the
// compatible and fdt properties are captured; everything else is
// skipped. String values are collected and non-string values (cell
// lists, byte lists, references, include expressions) are passed over.
func (p *Parser) parseProperty(ctx nodeContext, cfg *ast.Configuration, name lexer.Token) {
	if p.match(lexer.TOKEN_SEMICOLON) {
		// Boolean property, nothing to record.
		return
	}
	p.consume(lexer.TOKEN_EQUALS, fmt.Sprintf("Expected '=' after property %s", name.Lexeme))

	var values []string
	for !p.isAtEnd() && !p.check(lexer.TOKEN_SEMICOLON) {
		switch {
		case p.check(lexer.TOKEN_STRING):
			values = append(values, p.advance().Literal)
		case p.check(lexer.TOKEN_LANGLE):
			p.skipUntil(lexer.TOKEN_RANGLE)
		case p.check(lexer.TOKEN_LBRACKET):
			p.skipUntil(lexer.TOKEN_RBRACKET)
		case p.check(lexer.TOKEN_RBRACE):
			// Unterminated property. Let the node handler report the
			// brace so the error points at the right construct.
			p.addError(fmt.Sprintf("Expected ';' after property %s", name.Lexeme))
			return
		default:
			p.advance()
		}
	}
	p.consume(lexer.TOKEN_SEMICOLON, fmt.Sprintf("Expected ';' after property %s", name.Lexeme))

	if ctx != ctxConfigRecord || cfg == nil {
		return
	}
	switch name.Lexeme {
	case "compatible":
		// First assignment wins; the first string is the board identity.
		if cfg.Compatible == "" && len(values) > 0 {
			cfg.Compatible = values[0]
		}
	case "fdt":
		cfg.FdtRefs = append(cfg.FdtRefs, values...)
	}
}

// skipUntil advances past tokens up to and including the given type.
func (p *Parser) skipUntil(t lexer.TokenType) {
	p.advance() // opening token
	for !p.isAtEnd() && !p.check(t) {
		p.advance()
	}
	if !p.isAtEnd() {
		p.advance()
	}
}

// synchronize skips tokens until a likely statement boundary so that
// one error does not cascade through the rest of the file.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		if p.previous().Type == lexer.TOKEN_SEMICOLON {
			return
		}
		if p.check(lexer.TOKEN_RBRACE) {
			return
		}
		p.advance()
	}
}

// Helper methods for token manipulation

// isAtEnd checks if we're at the end of the token stream
func (p *Parser) isAtEnd() bool {
	if p.current >= len(p.tokens) {
		return true
	}
	return p.tokens[p.current].Type == lexer.TOKEN_EOF
}

// peek returns the current token without consuming it
func (p *Parser) peek() lexer.Token {
	if p.current >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // Return EOF
	}
	return p.tokens[p.current]
}

// peekNext returns the token after the current one without consuming it
func (p *Parser) peekNext() lexer.Token {
	if p.current+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // Return EOF
	}
	return p.tokens[p.current+1]
}

// previous returns the previous token
func (p *Parser) previous() lexer.Token {
	if p.current > 0 {
		return p.tokens[p.current-1]
	}
	return p.tokens[0]
}

// advance consumes and returns the current token
func (p *Parser) advance() lexer.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

// check checks if the current token is of the given type
func (p *Parser) check(tokenType lexer.TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == tokenType
}

// checkNext checks if the token after the current one is of the given type
func (p *Parser) checkNext(tokenType lexer.TokenType) bool {
	return p.peekNext().Type == tokenType
}

// match checks if the current token matches the given type.
// If it matches, consumes the token and returns true
func (p *Parser) match(tokenType lexer.TokenType) bool {
	if p.check(tokenType) {
		p.advance()
		return true
	}
	return false
}

// consume consumes a token of the given type or adds an error
func (p *Parser) consume(tokenType lexer.TokenType, message string) (lexer.Token, bool) {
	if p.check(tokenType) {
		return p.advance(), true
	}

	p.addError(fmt.Sprintf("%s, got %s", message, p.peek().Lexeme))
	return lexer.Token{}, false
}

// addError records a parse error at the current token
func (p *Parser) addError(message string) {
	tok := p.peek()
	p.errors = append(p.errors, ParseError{
		Message: message,
		Line:    tok.Line,
		Column:  tok.Column,
	})
}
