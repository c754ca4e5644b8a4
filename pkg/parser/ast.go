package parser

import "github.com/sqlsentry/sqlsentry/pkg/token"

// Script is an ordered list of top-level statements parsed from one input.
type Script struct {
	Statements []Statement
}

// Statement is implemented by all top-level statement nodes.
type Statement interface {
	Pos() token.Position
	stmtNode()
}

// AlterTableStmt represents an ALTER TABLE statement.
// PostgreSQL allows several comma-separated operations per statement,
// so Ops is a list; most migrations carry exactly one.
type AlterTableStmt struct {
	Span  token.Span
	Table string
	Ops   []AlterTableOp
}

func (s *AlterTableStmt) Pos() token.Position { return s.Span.Start }
func (s *AlterTableStmt) stmtNode()           {}

// AlterTableOp is implemented by all ALTER TABLE operations.
type AlterTableOp interface {
	OpPos() token.Position
	opNode()
}

// AddColumnOp represents ADD [COLUMN] within an ALTER TABLE statement.
type AddColumnOp struct {
	Pos    token.Position
	Column *ColumnDef
}

func (o *AddColumnOp) OpPos() token.Position { return o.Pos }
func (o *AddColumnOp) opNode()               {}

// OtherOp represents any ALTER TABLE operation the linter has no rules
// for (DROP COLUMN, RENAME, SET ..., constraint changes). The tokens are
// consumed and the leading verb retained for debugging.
type OtherOp struct {
	Pos  token.Position
	Verb string
}

func (o *OtherOp) OpPos() token.Position { return o.Pos }
func (o *OtherOp) opNode()               {}

// ColumnOptionKind identifies one column constraint/option.
type ColumnOptionKind int

// Column option kinds.
const (
	OptionNotNull ColumnOptionKind = iota
	OptionNull
	OptionDefault
	OptionUnique
	OptionPrimaryKey
	OptionReferences
	OptionCheck
	OptionOther
)

// String returns the SQL-ish name of the option kind.
func (k ColumnOptionKind) String() string {
	switch k {
	case OptionNotNull:
		return "NOT NULL"
	case OptionNull:
		return "NULL"
	case OptionDefault:
		return "DEFAULT"
	case OptionUnique:
		return "UNIQUE"
	case OptionPrimaryKey:
		return "PRIMARY KEY"
	case OptionReferences:
		return "REFERENCES"
	case OptionCheck:
		return "CHECK"
	default:
		return "OTHER"
	}
}

// ColumnOption is one option attached to a column definition, in source
// order. Expr carries the raw expression text for DEFAULT and the target
// for REFERENCES; empty otherwise.
type ColumnOption struct {
	Kind ColumnOptionKind
	Pos  token.Position
	Expr string
}

// ColumnDef represents one column definition (name, type, ordered options).
type ColumnDef struct {
	Pos     token.Position
	Name    string
	Type    string
	Options []ColumnOption
}

// CreateIndexStmt represents a CREATE INDEX statement.
type CreateIndexStmt struct {
	Span         token.Span
	Name         string // empty for unnamed indexes
	Table        string
	Columns      []string
	Unique       bool
	Concurrently bool
	IfNotExists  bool
}

func (s *CreateIndexStmt) Pos() token.Position { return s.Span.Start }
func (s *CreateIndexStmt) stmtNode()           {}

// DisplayName returns the index name, or a placeholder derived from the
// table when the index is unnamed.
func (s *CreateIndexStmt) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return "(unnamed) on " + s.Table
}

// CreateTableStmt represents a CREATE TABLE statement. Creating a table is
// always safe (no existing rows), so no rules target it today; it is kept
// as a distinct node so future rules can hook in without parser changes.
type CreateTableStmt struct {
	Span        token.Span
	Name        string
	IfNotExists bool
	Columns     []*ColumnDef
}

func (s *CreateTableStmt) Pos() token.Position { return s.Span.Start }
func (s *CreateTableStmt) stmtNode()           {}

// OtherStmt represents any statement the linter does not model (SELECT,
// INSERT, GRANT, ...). Tokens are consumed up to the terminating semicolon
// and the leading keyword retained.
type OtherStmt struct {
	Span    token.Span
	Keyword string
}

func (s *OtherStmt) Pos() token.Position { return s.Span.Start }
func (s *OtherStmt) stmtNode()           {}
