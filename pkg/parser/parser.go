// Package parser provides lexing and parsing for the PostgreSQL DDL subset
// inspected by the migration linter.
//
// # Grammar Overview
//
// The parser implements a recursive descent parser for migration DDL:
//
//	script        → (statement ';')*
//	statement     → alter_table | create_index | create_table | other
//	alter_table   → ALTER TABLE [ONLY] [IF EXISTS] name alter_op (',' alter_op)*
//	alter_op      → ADD [COLUMN] [IF NOT EXISTS] column_def | <anything else>
//	column_def    → name type column_option*
//	create_index  → CREATE [UNIQUE] INDEX [CONCURRENTLY] [IF NOT EXISTS]
//	                [name] ON [ONLY] table [USING method] '(' columns ')' ...
//
// Statements outside this grammar are consumed up to the terminating
// semicolon and returned as inert OtherStmt nodes: the linter only reports
// known risky shapes and must never flag the unknown.
package parser

import (
	"fmt"
	"strings"

	"github.com/sqlsentry/sqlsentry/pkg/token"
)

// Parser parses migration DDL into an AST.
type Parser struct {
	lexer *Lexer
	token token.Token // current token
	peek  token.Token // lookahead token
	err   *ParseError // first error encountered
}

// NewParser creates a new parser for the given input.
func NewParser(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	// Read two tokens to initialize current and peek.
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses the input into a Script. On failure it returns a *ParseError
// carrying the position of the offending token.
func Parse(input string) (*Script, error) {
	p := NewParser(input)
	script := p.parseScript()
	if p.err != nil {
		return nil, p.err
	}
	return script, nil
}

// ---------- Token helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.token = p.peek
	p.peek = p.lexer.NextToken()
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.token.Type == t
}

// checkPeek returns true if the peek token is of the given type.
func (p *Parser) checkPeek(t token.TokenType) bool {
	return p.peek.Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise records an error.
func (p *Parser) expect(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	p.errorf(errUnexpectedToken, p.token.Type, t)
	return false
}

// errorf records the first parse error at the current token.
func (p *Parser) errorf(format string, args ...any) {
	if p.err != nil {
		return
	}
	p.err = &ParseError{Pos: p.token.Pos, Message: fmt.Sprintf(format, args...)}
}

// bad returns true once an error has been recorded; parsing stops there.
func (p *Parser) bad() bool {
	if p.check(token.ILLEGAL) {
		// The lexer stores its message in the literal.
		if p.err == nil {
			msg := p.token.Literal
			if len(msg) == 1 {
				msg = fmt.Sprintf(errIllegalCharacter, msg)
			}
			p.err = &ParseError{Pos: p.token.Pos, Message: msg}
		}
	}
	return p.err != nil
}

// ---------- Script ----------

func (p *Parser) parseScript() *Script {
	script := &Script{}
	for !p.check(token.EOF) {
		if p.bad() {
			return script
		}
		if p.match(token.SEMICOLON) {
			continue // empty statement
		}
		stmt := p.parseStatement()
		if p.err != nil {
			return script
		}
		script.Statements = append(script.Statements, stmt)
		if !p.check(token.EOF) && !p.expect(token.SEMICOLON) {
			return script
		}
	}
	return script
}

func (p *Parser) parseStatement() Statement {
	switch {
	case p.check(token.ALTER) && p.checkPeek(token.TABLE):
		return p.parseAlterTable()
	case p.check(token.CREATE) && (p.checkPeek(token.INDEX) || (p.checkPeek(token.UNIQUE))):
		return p.parseCreateIndex()
	case p.check(token.CREATE) && p.checkPeek(token.TABLE):
		return p.parseCreateTable()
	case p.check(token.IDENT) || token.IsKeyword(p.token.Type):
		return p.parseOtherStatement()
	default:
		p.errorf(errExpectedStatement, p.token.Type)
		return nil
	}
}

// parseOtherStatement consumes an unrecognized statement up to its
// terminating semicolon.
func (p *Parser) parseOtherStatement() Statement {
	start := p.token.Pos
	keyword := strings.ToUpper(p.token.Literal)
	p.nextToken()
	end := p.skimTo(token.SEMICOLON)
	return &OtherStmt{
		Span:    token.Span{Start: start, End: end},
		Keyword: keyword,
	}
}

// skimTo consumes tokens until one of the given types at the top level (not
// inside parentheses), EOF, or an error. The stop token is not consumed.
// Returns the position just past the last consumed token.
func (p *Parser) skimTo(stops ...token.TokenType) token.Position {
	depth := 0
	end := p.token.Pos
	for !p.check(token.EOF) {
		if p.bad() {
			return end
		}
		if depth == 0 {
			for _, s := range stops {
				if p.check(s) {
					return end
				}
			}
		}
		switch p.token.Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			if depth > 0 {
				depth--
			}
		}
		end = p.token.Pos
		p.nextToken()
	}
	return end
}

// ---------- ALTER TABLE ----------

func (p *Parser) parseAlterTable() Statement {
	start := p.token.Pos
	p.nextToken() // ALTER
	p.nextToken() // TABLE
	p.match(token.ONLY)
	if p.check(token.IF) && p.checkPeek(token.EXISTS) {
		p.nextToken()
		p.nextToken()
	}

	name := p.parseQualifiedName()
	if p.err != nil {
		return nil
	}

	stmt := &AlterTableStmt{Table: name}
	for {
		op := p.parseAlterOp()
		if p.err != nil {
			return nil
		}
		stmt.Ops = append(stmt.Ops, op)
		if !p.match(token.COMMA) {
			break
		}
	}
	stmt.Span = token.Span{Start: start, End: p.token.Pos}
	return stmt
}

func (p *Parser) parseAlterOp() AlterTableOp {
	pos := p.token.Pos

	if p.check(token.ADD) && !p.isAddConstraint() {
		p.nextToken() // ADD
		p.match(token.COLUMN)
		if p.check(token.IF) && p.checkPeek(token.NOT) {
			p.nextToken() // IF
			p.nextToken() // NOT
			p.expect(token.EXISTS)
		}
		col := p.parseColumnDef()
		if p.err != nil {
			return nil
		}
		return &AddColumnOp{Pos: pos, Column: col}
	}

	// Every other operation (DROP, RENAME, ALTER COLUMN, SET ..., ADD
	// CONSTRAINT) is consumed without rule coverage.
	verb := strings.ToUpper(p.token.Literal)
	p.skimTo(token.COMMA, token.SEMICOLON)
	return &OtherOp{Pos: pos, Verb: verb}
}

// isAddConstraint reports whether the current ADD introduces a table
// constraint rather than a column.
func (p *Parser) isAddConstraint() bool {
	switch p.peek.Type {
	case token.CONSTRAINT, token.PRIMARY, token.UNIQUE, token.FOREIGN, token.CHECK:
		return true
	}
	return false
}

// ---------- Column definitions ----------

func (p *Parser) parseColumnDef() *ColumnDef {
	pos := p.token.Pos
	if !p.check(token.IDENT) {
		p.errorf(errExpectedIdentifier, p.token.Type)
		return nil
	}
	col := &ColumnDef{Pos: pos, Name: p.token.Literal}
	p.nextToken()

	col.Type = p.parseTypeName()
	if p.err != nil {
		return nil
	}

	for {
		opt, ok := p.parseColumnOption()
		if p.err != nil {
			return nil
		}
		if !ok {
			break
		}
		col.Options = append(col.Options, opt)
	}
	return col
}

// parseTypeName reads a type name: one or more identifier words
// ("double precision", "timestamp with time zone"), optional precision
// arguments, and optional array brackets.
func (p *Parser) parseTypeName() string {
	if !p.check(token.IDENT) {
		p.errorf(errExpectedIdentifier, p.token.Type)
		return ""
	}
	var sb strings.Builder
	sb.WriteString(p.token.Literal)
	p.nextToken()

	for p.check(token.IDENT) {
		sb.WriteByte(' ')
		sb.WriteString(p.token.Literal)
		p.nextToken()
	}
	if p.check(token.LPAREN) {
		sb.WriteByte('(')
		p.nextToken()
		for !p.check(token.RPAREN) && !p.check(token.EOF) {
			if p.bad() {
				return sb.String()
			}
			sb.WriteString(p.token.Literal)
			p.nextToken()
		}
		sb.WriteByte(')')
		p.expect(token.RPAREN)
	}
	for p.check(token.LBRACKET) {
		p.nextToken()
		p.expect(token.RBRACKET)
		sb.WriteString("[]")
	}
	return sb.String()
}

// parseColumnOption parses one column option. Returns ok=false when the
// current token does not begin an option.
func (p *Parser) parseColumnOption() (ColumnOption, bool) {
	pos := p.token.Pos
	switch p.token.Type {
	case token.NOT:
		p.nextToken()
		p.expect(token.NULL)
		return ColumnOption{Kind: OptionNotNull, Pos: pos}, true
	case token.NULL:
		p.nextToken()
		return ColumnOption{Kind: OptionNull, Pos: pos}, true
	case token.DEFAULT:
		p.nextToken()
		expr := p.collectExpr()
		return ColumnOption{Kind: OptionDefault, Pos: pos, Expr: expr}, true
	case token.UNIQUE:
		p.nextToken()
		return ColumnOption{Kind: OptionUnique, Pos: pos}, true
	case token.PRIMARY:
		p.nextToken()
		p.expect(token.KEY)
		return ColumnOption{Kind: OptionPrimaryKey, Pos: pos}, true
	case token.REFERENCES:
		p.nextToken()
		target := p.parseQualifiedName()
		if p.match(token.LPAREN) {
			p.skimTo(token.RPAREN)
			p.expect(token.RPAREN)
		}
		return ColumnOption{Kind: OptionReferences, Pos: pos, Expr: target}, true
	case token.CHECK:
		p.nextToken()
		p.expect(token.LPAREN)
		p.skimTo(token.RPAREN)
		p.expect(token.RPAREN)
		return ColumnOption{Kind: OptionCheck, Pos: pos}, true
	case token.CONSTRAINT:
		// A constraint name prefixes the option that follows; fold the name
		// into that option's parse by recursing after consuming it.
		p.nextToken()
		if !p.check(token.IDENT) {
			p.errorf(errExpectedIdentifier, p.token.Type)
			return ColumnOption{}, false
		}
		p.nextToken()
		return p.parseColumnOption()
	case token.COLLATE:
		p.nextToken()
		p.parseQualifiedName()
		return ColumnOption{Kind: OptionOther, Pos: pos}, true
	case token.GENERATED:
		// GENERATED ... AS IDENTITY or GENERATED ALWAYS AS (expr) STORED.
		p.nextToken()
		p.skimToOptionBoundary()
		return ColumnOption{Kind: OptionOther, Pos: pos}, true
	default:
		return ColumnOption{}, false
	}
}

// collectExpr collects the raw text of a DEFAULT expression: everything up
// to the next option keyword, comma, or semicolon at the top level.
func (p *Parser) collectExpr() string {
	var parts []string
	depth := 0
	for !p.check(token.EOF) {
		if p.bad() {
			break
		}
		if depth == 0 && (p.check(token.COMMA) || p.check(token.SEMICOLON) || p.check(token.RPAREN) || p.isOptionStart()) {
			break
		}
		switch p.token.Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
		}
		parts = append(parts, p.tokenText())
		p.nextToken()
	}
	return strings.Join(parts, " ")
}

// skimToOptionBoundary consumes tokens until the next option keyword,
// comma, or semicolon at the top level.
func (p *Parser) skimToOptionBoundary() {
	depth := 0
	for !p.check(token.EOF) {
		if p.bad() {
			return
		}
		if depth == 0 && (p.check(token.COMMA) || p.check(token.SEMICOLON) || p.check(token.RPAREN) || p.isOptionStart()) {
			return
		}
		switch p.token.Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
		}
		p.nextToken()
	}
}

// isOptionStart reports whether the current token begins a column option.
func (p *Parser) isOptionStart() bool {
	switch p.token.Type {
	case token.NOT, token.NULL, token.UNIQUE, token.PRIMARY, token.REFERENCES,
		token.CHECK, token.CONSTRAINT, token.COLLATE, token.GENERATED:
		return true
	}
	return false
}

// tokenText returns source-shaped text for the current token, requoting
// string literals so collected expressions stay readable.
func (p *Parser) tokenText() string {
	if p.check(token.STRING) {
		return "'" + strings.ReplaceAll(p.token.Literal, "'", "''") + "'"
	}
	return p.token.Literal
}

// ---------- CREATE INDEX ----------

func (p *Parser) parseCreateIndex() Statement {
	start := p.token.Pos
	p.nextToken() // CREATE
	stmt := &CreateIndexStmt{}
	if p.match(token.UNIQUE) {
		stmt.Unique = true
	}
	if !p.expect(token.INDEX) {
		return nil
	}
	if p.match(token.CONCURRENTLY) {
		stmt.Concurrently = true
	}
	if p.check(token.IF) && p.checkPeek(token.NOT) {
		p.nextToken() // IF
		p.nextToken() // NOT
		p.expect(token.EXISTS)
		stmt.IfNotExists = true
	}
	if p.check(token.IDENT) {
		stmt.Name = p.parseQualifiedName()
	}
	if !p.expect(token.ON) {
		return nil
	}
	p.match(token.ONLY)
	stmt.Table = p.parseQualifiedName()
	if p.err != nil {
		return nil
	}
	if p.match(token.USING) {
		if !p.check(token.IDENT) {
			p.errorf(errExpectedIdentifier, p.token.Type)
			return nil
		}
		p.nextToken()
	}
	if !p.expect(token.LPAREN) {
		return nil
	}
	for {
		col := p.collectIndexElem()
		if p.err != nil {
			return nil
		}
		if col != "" {
			stmt.Columns = append(stmt.Columns, col)
		}
		if !p.match(token.COMMA) {
			break
		}
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	// Trailing clauses (INCLUDE, WITH, WHERE, TABLESPACE, NULLS NOT
	// DISTINCT) carry no lint signal.
	end := p.skimTo(token.SEMICOLON)
	stmt.Span = token.Span{Start: start, End: end}
	return stmt
}

// collectIndexElem collects one index element (column name or expression)
// as raw text.
func (p *Parser) collectIndexElem() string {
	var parts []string
	depth := 0
	for !p.check(token.EOF) {
		if p.bad() {
			return ""
		}
		if depth == 0 && (p.check(token.COMMA) || p.check(token.RPAREN)) {
			break
		}
		switch p.token.Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
		}
		parts = append(parts, p.tokenText())
		p.nextToken()
	}
	return strings.Join(parts, " ")
}

// ---------- CREATE TABLE ----------

func (p *Parser) parseCreateTable() Statement {
	start := p.token.Pos
	p.nextToken() // CREATE
	p.nextToken() // TABLE
	stmt := &CreateTableStmt{}
	if p.check(token.IF) && p.checkPeek(token.NOT) {
		p.nextToken() // IF
		p.nextToken() // NOT
		p.expect(token.EXISTS)
		stmt.IfNotExists = true
	}
	stmt.Name = p.parseQualifiedName()
	if p.err != nil {
		return nil
	}
	if p.match(token.LPAREN) {
		for !p.check(token.RPAREN) && !p.check(token.EOF) {
			if p.bad() {
				return nil
			}
			if p.isTableConstraintStart() {
				p.skimTo(token.COMMA, token.RPAREN)
			} else {
				col := p.parseColumnDef()
				if p.err != nil {
					return nil
				}
				stmt.Columns = append(stmt.Columns, col)
			}
			if !p.match(token.COMMA) {
				break
			}
		}
		if !p.expect(token.RPAREN) {
			return nil
		}
	}
	// Storage parameters, partitioning, tablespace.
	end := p.skimTo(token.SEMICOLON)
	stmt.Span = token.Span{Start: start, End: end}
	return stmt
}

// isTableConstraintStart reports whether the current token begins a
// table-level constraint inside CREATE TABLE.
func (p *Parser) isTableConstraintStart() bool {
	switch p.token.Type {
	case token.CONSTRAINT, token.PRIMARY, token.UNIQUE, token.FOREIGN, token.CHECK:
		return true
	}
	return false
}

// ---------- Names ----------

// parseQualifiedName reads a possibly schema-qualified name (schema.table).
func (p *Parser) parseQualifiedName() string {
	if !p.check(token.IDENT) {
		p.errorf(errExpectedIdentifier, p.token.Type)
		return ""
	}
	name := p.token.Literal
	p.nextToken()
	for p.match(token.DOT) {
		if !p.check(token.IDENT) {
			p.errorf(errExpectedIdentifier, p.token.Type)
			return name
		}
		name += "." + p.token.Literal
		p.nextToken()
	}
	return name
}
