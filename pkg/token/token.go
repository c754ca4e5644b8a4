// Package token defines the lexical tokens for the PostgreSQL DDL subset
// understood by the migration linter.
package token

import (
	"fmt"
	"strings"
)

// TokenType represents the type of a lexical token.
//
//nolint:revive // token.TokenType reads clearly at call sites
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT  // identifier (unquoted or "quoted")
	NUMBER // 123, 45.67, 1e10
	STRING // 'hello' or $$hello$$

	// Punctuation and operators
	SEMICOLON // ;
	COMMA     // ,
	DOT       // .
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
	EQ        // =
	OPERATOR  // any other operator run (+, -, ::, <, ...)

	// Keywords (alphabetical)
	ADD
	ALTER
	AS
	CHECK
	COLLATE
	COLUMN
	CONCURRENTLY
	CONSTRAINT
	CREATE
	DEFAULT
	DROP
	EXISTS
	FOREIGN
	GENERATED
	IF
	INDEX
	KEY
	NOT
	NULL
	ON
	ONLY
	PRIMARY
	REFERENCES
	TABLE
	UNIQUE
	USING
)

var tokenNames = map[TokenType]string{
	EOF:       "EOF",
	ILLEGAL:   "ILLEGAL",
	IDENT:     "IDENT",
	NUMBER:    "NUMBER",
	STRING:    "STRING",
	SEMICOLON: ";",
	COMMA:     ",",
	DOT:       ".",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACKET:  "[",
	RBRACKET:  "]",
	EQ:        "=",
	OPERATOR:  "OPERATOR",

	ADD:          "ADD",
	ALTER:        "ALTER",
	AS:           "AS",
	CHECK:        "CHECK",
	COLLATE:      "COLLATE",
	COLUMN:       "COLUMN",
	CONCURRENTLY: "CONCURRENTLY",
	CONSTRAINT:   "CONSTRAINT",
	CREATE:       "CREATE",
	DEFAULT:      "DEFAULT",
	DROP:         "DROP",
	EXISTS:       "EXISTS",
	FOREIGN:      "FOREIGN",
	GENERATED:    "GENERATED",
	IF:           "IF",
	INDEX:        "INDEX",
	KEY:          "KEY",
	NOT:          "NOT",
	NULL:         "NULL",
	ON:           "ON",
	ONLY:         "ONLY",
	PRIMARY:      "PRIMARY",
	REFERENCES:   "REFERENCES",
	TABLE:        "TABLE",
	UNIQUE:       "UNIQUE",
	USING:        "USING",
}

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int32(t))
}

// keywords maps uppercase identifier text to keyword token types.
var keywords = map[string]TokenType{
	"ADD":          ADD,
	"ALTER":        ALTER,
	"AS":           AS,
	"CHECK":        CHECK,
	"COLLATE":      COLLATE,
	"COLUMN":       COLUMN,
	"CONCURRENTLY": CONCURRENTLY,
	"CONSTRAINT":   CONSTRAINT,
	"CREATE":       CREATE,
	"DEFAULT":      DEFAULT,
	"DROP":         DROP,
	"EXISTS":       EXISTS,
	"FOREIGN":      FOREIGN,
	"GENERATED":    GENERATED,
	"IF":           IF,
	"INDEX":        INDEX,
	"KEY":          KEY,
	"NOT":          NOT,
	"NULL":         NULL,
	"ON":           ON,
	"ONLY":         ONLY,
	"PRIMARY":      PRIMARY,
	"REFERENCES":   REFERENCES,
	"TABLE":        TABLE,
	"UNIQUE":       UNIQUE,
	"USING":        USING,
}

// LookupIdent returns the token type for the given identifier.
// If the identifier is a keyword, the keyword token type is returned.
// Otherwise, IDENT is returned. SQL keywords are case-insensitive.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[strings.ToUpper(ident)]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token type is a keyword.
func IsKeyword(t TokenType) bool {
	return t >= ADD && t <= USING
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// String returns a human-readable representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
}
