package rules

import (
	"fmt"

	"github.com/sqlsentry/sqlsentry/pkg/lint"
	"github.com/sqlsentry/sqlsentry/pkg/parser"
)

func init() {
	lint.Register(DefaultValue)
}

// DefaultValue detects DEFAULT clauses on columns added to existing tables.
var DefaultValue = lint.RuleDef{
	ID:          "E4",
	Name:        "rewrite.default-value",
	Group:       "rewrite",
	Description: "Adding a column with a DEFAULT can force a full table rewrite to backfill existing rows.",
	Severity:    lint.SeverityWarning,
	Target:      lint.NodeAddColumn,
	Check:       checkDefaultValue,

	Rationale: `Several database engines (PostgreSQL before 11, MySQL with some
storage engines) rewrite the whole table to backfill the default into
existing rows, holding an exclusive lock while they do. Even on engines
with fast non-volatile defaults, a volatile default (now(), random())
still triggers the rewrite.`,

	BadExample: `ALTER TABLE orders ADD COLUMN created_at timestamptz DEFAULT now();`,

	GoodExample: `ALTER TABLE orders ADD COLUMN created_at timestamptz;
-- backfill in batches, then:
ALTER TABLE orders ALTER COLUMN created_at SET DEFAULT now();`,

	Fix: "Add the column without a default, backfill in batches, then attach the default so it only applies to new rows.",
}

func checkDefaultValue(node any, _ map[string]any) []lint.Diagnostic {
	op, ok := node.(*parser.AddColumnOp)
	if !ok {
		return nil
	}

	var diags []lint.Diagnostic
	for _, opt := range op.Column.Options {
		if opt.Kind == parser.OptionDefault {
			diags = append(diags, lint.Diagnostic{
				RuleID:   "E4",
				Severity: lint.SeverityWarning,
				Message:  fmt.Sprintf("column %q is added with a default value; this can cause a full table rewrite which can be very slow", op.Column.Name),
				Pos:      opt.Pos,
			})
		}
	}
	return diags
}
