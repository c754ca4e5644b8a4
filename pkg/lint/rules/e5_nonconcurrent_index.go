package rules

import (
	"fmt"

	"github.com/sqlsentry/sqlsentry/pkg/lint"
	"github.com/sqlsentry/sqlsentry/pkg/parser"
)

func init() {
	lint.Register(NonConcurrentIndex)
}

// NonConcurrentIndex detects index builds without CONCURRENTLY.
var NonConcurrentIndex = lint.RuleDef{
	ID:          "E5",
	Name:        "locking.non-concurrent-index",
	Group:       "locking",
	Description: "CREATE INDEX without CONCURRENTLY blocks writes for the duration of the build.",
	Severity:    lint.SeverityWarning,
	Target:      lint.NodeCreateIndex,
	Check:       checkNonConcurrentIndex,

	Rationale: `A plain CREATE INDEX takes a SHARE lock on the table, blocking all
writes (and on some engines reads) until the build finishes. On a large
table that is minutes to hours of write downtime. CREATE INDEX
CONCURRENTLY builds the index without blocking writes at the cost of a
slower build.`,

	BadExample: `CREATE INDEX idx_orders_user ON orders (user_id);`,

	GoodExample: `CREATE INDEX CONCURRENTLY idx_orders_user ON orders (user_id);`,

	Fix: "Use CREATE INDEX CONCURRENTLY (outside a transaction block).",
}

func checkNonConcurrentIndex(node any, _ map[string]any) []lint.Diagnostic {
	stmt, ok := node.(*parser.CreateIndexStmt)
	if !ok || stmt.Concurrently {
		return nil
	}

	return []lint.Diagnostic{{
		RuleID:   "E5",
		Severity: lint.SeverityWarning,
		Message:  fmt.Sprintf("index %s is created without CONCURRENTLY; the build will block writes on %q", stmt.DisplayName(), stmt.Table),
		Pos:      stmt.Span.Start,
	}}
}
