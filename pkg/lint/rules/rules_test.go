package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlsentry/sqlsentry/pkg/lint"
	_ "github.com/sqlsentry/sqlsentry/pkg/lint/rules" // register rules
	"github.com/sqlsentry/sqlsentry/pkg/parser"
)

// runRule lints sql and returns only the diagnostics for the given rule ID.
func runRule(t *testing.T, sql, ruleID string) []lint.Diagnostic {
	t.Helper()
	script, err := parser.Parse(sql)
	require.NoError(t, err)

	var matched []lint.Diagnostic
	for _, d := range lint.NewAnalyzer(nil).AnalyzeScript(script) {
		if d.RuleID == ruleID {
			matched = append(matched, d)
		}
	}
	return matched
}

func TestE3_NotNullColumn(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		wantDiag bool
	}{
		{
			name:     "NOT NULL add",
			sql:      "ALTER TABLE users ADD COLUMN age int NOT NULL;",
			wantDiag: true,
		},
		{
			name:     "NOT NULL with default",
			sql:      "ALTER TABLE users ADD COLUMN age int NOT NULL DEFAULT 0;",
			wantDiag: true,
		},
		{
			name:     "NOT NULL with named constraint",
			sql:      "ALTER TABLE users ADD COLUMN age int CONSTRAINT age_nn NOT NULL;",
			wantDiag: true,
		},
		{
			name:     "nullable add",
			sql:      "ALTER TABLE users ADD COLUMN age int;",
			wantDiag: false,
		},
		{
			name:     "explicit NULL",
			sql:      "ALTER TABLE users ADD COLUMN age int NULL;",
			wantDiag: false,
		},
		{
			name:     "NOT NULL on other table op is out of scope",
			sql:      "ALTER TABLE users ALTER COLUMN age SET NOT NULL;",
			wantDiag: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, tt.sql, "E3")
			if tt.wantDiag {
				require.NotEmpty(t, diags, "expected E3 diagnostic")
				assert.Contains(t, diags[0].Message, "age")
				assert.Equal(t, lint.SeverityWarning, diags[0].Severity)
			} else {
				assert.Empty(t, diags, "unexpected E3 diagnostic")
			}
		})
	}
}

func TestE4_DefaultValue(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		wantDiag bool
	}{
		{
			name:     "literal default",
			sql:      "ALTER TABLE users ADD COLUMN active bool DEFAULT true;",
			wantDiag: true,
		},
		{
			name:     "function default",
			sql:      "ALTER TABLE users ADD COLUMN created timestamptz DEFAULT now();",
			wantDiag: true,
		},
		{
			name:     "string default",
			sql:      "ALTER TABLE users ADD COLUMN state text DEFAULT 'new';",
			wantDiag: true,
		},
		{
			name:     "no default",
			sql:      "ALTER TABLE users ADD COLUMN active bool;",
			wantDiag: false,
		},
		{
			name:     "SET DEFAULT on existing column is out of scope",
			sql:      "ALTER TABLE users ALTER COLUMN active SET DEFAULT true;",
			wantDiag: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, tt.sql, "E4")
			if tt.wantDiag {
				require.NotEmpty(t, diags, "expected E4 diagnostic")
				assert.Equal(t, lint.SeverityWarning, diags[0].Severity)
			} else {
				assert.Empty(t, diags, "unexpected E4 diagnostic")
			}
		})
	}
}

func TestE5_NonConcurrentIndex(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		wantDiag bool
		wantName string
	}{
		{
			name:     "blocking build",
			sql:      "CREATE INDEX idx_email ON users (email);",
			wantDiag: true,
			wantName: "idx_email",
		},
		{
			name:     "concurrent build",
			sql:      "CREATE INDEX CONCURRENTLY idx_email ON users (email);",
			wantDiag: false,
		},
		{
			name:     "unique blocking build",
			sql:      "CREATE UNIQUE INDEX idx_email ON users (email);",
			wantDiag: true,
			wantName: "idx_email",
		},
		{
			name:     "unnamed blocking build",
			sql:      "CREATE INDEX ON users (email);",
			wantDiag: true,
			wantName: "(unnamed) on users",
		},
		{
			name:     "concurrent with if not exists",
			sql:      "CREATE INDEX CONCURRENTLY IF NOT EXISTS idx ON users (email);",
			wantDiag: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, tt.sql, "E5")
			if tt.wantDiag {
				require.NotEmpty(t, diags, "expected E5 diagnostic")
				assert.Contains(t, diags[0].Message, tt.wantName)
				assert.Contains(t, diags[0].Message, "users")
			} else {
				assert.Empty(t, diags, "unexpected E5 diagnostic")
			}
		})
	}
}

func TestRuleMetadata(t *testing.T) {
	for _, id := range []string{"E3", "E4", "E5"} {
		rule, ok := lint.GetByID(id)
		require.True(t, ok, "rule %s not registered", id)
		assert.NotEmpty(t, rule.Name)
		assert.NotEmpty(t, rule.Group)
		assert.NotEmpty(t, rule.Description)
		assert.NotEmpty(t, rule.Rationale)
		assert.NotEmpty(t, rule.BadExample)
		assert.NotEmpty(t, rule.GoodExample)
		assert.NotEmpty(t, rule.Fix)
	}
}

func TestRegistrationOrder(t *testing.T) {
	var ids []string
	for _, rule := range lint.All() {
		ids = append(ids, rule.ID)
	}
	assert.Equal(t, []string{"E3", "E4", "E5"}, ids)
}
