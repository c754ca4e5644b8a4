package rules

import (
	"fmt"

	"github.com/sqlsentry/sqlsentry/pkg/lint"
	"github.com/sqlsentry/sqlsentry/pkg/parser"
)

func init() {
	lint.Register(NotNullColumn)
}

// NotNullColumn detects NOT NULL constraints on columns added to existing
// tables.
var NotNullColumn = lint.RuleDef{
	ID:          "E3",
	Name:        "rewrite.not-null-column",
	Group:       "rewrite",
	Description: "Adding a NOT NULL column to an existing table forces every row to be validated.",
	Severity:    lint.SeverityWarning,
	Target:      lint.NodeAddColumn,
	Check:       checkNotNullColumn,

	Rationale: `Adding a column with NOT NULL makes the database validate (and on
older PostgreSQL versions rewrite) every existing row while holding an
ACCESS EXCLUSIVE lock. On a large table this blocks all reads and writes
for the duration of the scan.`,

	BadExample: `ALTER TABLE orders ADD COLUMN region text NOT NULL;`,

	GoodExample: `ALTER TABLE orders ADD COLUMN region text;
-- backfill in batches, then:
ALTER TABLE orders ALTER COLUMN region SET NOT NULL;`,

	Fix: "Add the column as nullable, backfill it in batches, then set NOT NULL in a separate migration.",
}

func checkNotNullColumn(node any, _ map[string]any) []lint.Diagnostic {
	op, ok := node.(*parser.AddColumnOp)
	if !ok {
		return nil
	}

	var diags []lint.Diagnostic
	for _, opt := range op.Column.Options {
		if opt.Kind == parser.OptionNotNull {
			diags = append(diags, lint.Diagnostic{
				RuleID:   "E3",
				Severity: lint.SeverityWarning,
				Message:  fmt.Sprintf("column %q is added with the NOT NULL option; this can cause a full table rewrite which can be very slow", op.Column.Name),
				Pos:      opt.Pos,
			})
		}
	}
	return diags
}
