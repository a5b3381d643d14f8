package parser

import "fmt"

// ParseError represents a parsing error
type ParseError struct {
	Message string
	Line    int
	Column  int
}

// Error implements the error interface
func (e ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}
