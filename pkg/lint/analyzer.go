package lint

import (
	"github.com/sqlsentry/sqlsentry/pkg/parser"
)

// Analyzer dispatches parsed statements to the registered rules and
// aggregates their diagnostics. It holds no per-input state and is safe to
// share across inputs.
type Analyzer struct {
	config *Config
}

// NewAnalyzer creates a new analyzer with optional configuration.
func NewAnalyzer(config *Config) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	return &Analyzer{config: config}
}

// AnalyzeScript runs all applicable rules over every statement in the
// script. Output order is statement order, then rule registration order
// within each node.
func (a *Analyzer) AnalyzeScript(script *parser.Script) []Diagnostic {
	if script == nil {
		return nil
	}
	var diagnostics []Diagnostic
	for _, stmt := range script.Statements {
		diagnostics = append(diagnostics, a.AnalyzeStatement(stmt)...)
	}
	return diagnostics
}

// AnalyzeStatement routes one statement to the rules registered for its
// shape. Statement kinds without rule coverage yield nothing: the linter
// is additive and never flags the unknown.
func (a *Analyzer) AnalyzeStatement(stmt parser.Statement) []Diagnostic {
	switch s := stmt.(type) {
	case *parser.AlterTableStmt:
		return a.analyzeAlterTable(s)
	case *parser.CreateIndexStmt:
		return a.run(NodeCreateIndex, s)
	case *parser.CreateTableStmt:
		return a.run(NodeCreateTable, s)
	default:
		return nil
	}
}

// analyzeAlterTable routes each operation of an ALTER TABLE statement.
// Only ADD COLUMN has rule coverage; the other operations are conscious
// placeholders for future rules.
func (a *Analyzer) analyzeAlterTable(stmt *parser.AlterTableStmt) []Diagnostic {
	var diagnostics []Diagnostic
	for _, op := range stmt.Ops {
		if add, ok := op.(*parser.AddColumnOp); ok {
			diagnostics = append(diagnostics, a.run(NodeAddColumn, add)...)
		}
	}
	return diagnostics
}

// run executes the rules registered for a node kind against one node.
func (a *Analyzer) run(kind NodeKind, node any) []Diagnostic {
	var diagnostics []Diagnostic
	for _, rule := range RulesFor(kind) {
		if a.config.IsDisabled(rule.ID) {
			continue
		}
		diags := rule.Check(node, a.config.GetRuleOptions(rule.ID))
		for i := range diags {
			diags[i].Severity = a.config.GetSeverity(rule.ID, diags[i].Severity)
		}
		diagnostics = append(diagnostics, diags...)
	}
	return diagnostics
}
