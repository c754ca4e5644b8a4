package parser

import (
	"fmt"

	"github.com/sqlsentry/sqlsentry/pkg/token"
)

// ParseError represents a parsing error with position information.
type ParseError struct {
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Common error messages.
const (
	errUnexpectedToken     = "unexpected token %s, expected %s"
	errUnterminatedString  = "unterminated string literal"
	errUnterminatedComment = "unterminated block comment"
	errUnterminatedQuoting = "unterminated dollar-quoted string"
	errExpectedStatement   = "expected a statement, got %s"
	errExpectedIdentifier  = "expected identifier, got %s"
	errIllegalCharacter    = "illegal character %q"
)
