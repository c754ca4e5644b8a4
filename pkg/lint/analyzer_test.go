package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlsentry/sqlsentry/pkg/lint"
	_ "github.com/sqlsentry/sqlsentry/pkg/lint/rules" // register rules
	"github.com/sqlsentry/sqlsentry/pkg/parser"
)

func analyze(t *testing.T, sql string, config *lint.Config) []lint.Diagnostic {
	t.Helper()
	script, err := parser.Parse(sql)
	require.NoError(t, err)
	return lint.NewAnalyzer(config).AnalyzeScript(script)
}

func ruleIDs(diags []lint.Diagnostic) []string {
	var ids []string
	for _, d := range diags {
		ids = append(ids, d.RuleID)
	}
	return ids
}

func TestAnalyzer_NotNullColumn(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		wantIDs []string
	}{
		{
			name:    "not null add",
			sql:     "ALTER TABLE users ADD COLUMN age int NOT NULL;",
			wantIDs: []string{"E3"},
		},
		{
			name:    "nullable add",
			sql:     "ALTER TABLE users ADD COLUMN age int;",
			wantIDs: nil,
		},
		{
			name:    "explicit null",
			sql:     "ALTER TABLE users ADD COLUMN age int NULL;",
			wantIDs: nil,
		},
		{
			name:    "not null with default fires both",
			sql:     "ALTER TABLE users ADD COLUMN age int NOT NULL DEFAULT 0;",
			wantIDs: []string{"E3", "E4"},
		},
		{
			name:    "default before not null fires both",
			sql:     "ALTER TABLE users ADD COLUMN age int DEFAULT 0 NOT NULL;",
			wantIDs: []string{"E3", "E4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := analyze(t, tt.sql, nil)
			assert.Equal(t, tt.wantIDs, ruleIDs(diags))
		})
	}
}

func TestAnalyzer_DefaultValue(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		wantIDs []string
	}{
		{
			name:    "default literal",
			sql:     "ALTER TABLE users ADD COLUMN active bool DEFAULT true;",
			wantIDs: []string{"E4"},
		},
		{
			name:    "default function call",
			sql:     "ALTER TABLE users ADD COLUMN created timestamptz DEFAULT now();",
			wantIDs: []string{"E4"},
		},
		{
			name:    "no default",
			sql:     "ALTER TABLE users ADD COLUMN active bool;",
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := analyze(t, tt.sql, nil)
			assert.Equal(t, tt.wantIDs, ruleIDs(diags))
		})
	}
}

func TestAnalyzer_NonConcurrentIndex(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		wantIDs []string
	}{
		{
			name:    "blocking index build",
			sql:     "CREATE INDEX idx ON users (email);",
			wantIDs: []string{"E5"},
		},
		{
			name:    "concurrent index build",
			sql:     "CREATE INDEX CONCURRENTLY idx ON users (email);",
			wantIDs: nil,
		},
		{
			name:    "unique blocking index build",
			sql:     "CREATE UNIQUE INDEX ON users (email);",
			wantIDs: []string{"E5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := analyze(t, tt.sql, nil)
			assert.Equal(t, tt.wantIDs, ruleIDs(diags))
		})
	}
}

func TestAnalyzer_UnknownStatementsInert(t *testing.T) {
	sql := `
		DROP TABLE old_users;
		SET statement_timeout = 0;
		ALTER TABLE users DROP COLUMN legacy;
		CREATE TABLE audit (id bigint PRIMARY KEY);
		INSERT INTO audit VALUES (1);
	`
	diags := analyze(t, sql, nil)
	assert.Empty(t, diags)
}

func TestAnalyzer_MultiStatementOrder(t *testing.T) {
	sql := `
		CREATE INDEX idx_a ON t (a);
		ALTER TABLE t ADD COLUMN b int NOT NULL DEFAULT 1;
		CREATE INDEX idx_c ON t (c);
	`
	diags := analyze(t, sql, nil)
	require.Equal(t, []string{"E5", "E3", "E4", "E5"}, ruleIDs(diags))
	// Positions advance with statement order
	assert.Less(t, diags[0].Pos.Line, diags[1].Pos.Line)
	assert.Less(t, diags[2].Pos.Line, diags[3].Pos.Line)
}

func TestAnalyzer_MultiOpAlterTable(t *testing.T) {
	sql := `ALTER TABLE t
		ADD COLUMN a int NOT NULL,
		DROP COLUMN b,
		ADD COLUMN c text DEFAULT 'x';`
	diags := analyze(t, sql, nil)
	assert.Equal(t, []string{"E3", "E4"}, ruleIDs(diags))
}

func TestAnalyzer_DisabledRule(t *testing.T) {
	sql := "ALTER TABLE t ADD COLUMN a int NOT NULL DEFAULT 0;"

	diags := analyze(t, sql, lint.NewConfig().Disable("E4"))
	assert.Equal(t, []string{"E3"}, ruleIDs(diags))

	diags = analyze(t, sql, lint.NewConfig().Disable("E3").Disable("E4"))
	assert.Empty(t, diags)
}

func TestAnalyzer_SeverityOverride(t *testing.T) {
	sql := "CREATE INDEX idx ON t (a);"

	diags := analyze(t, sql, nil)
	require.Len(t, diags, 1)
	assert.Equal(t, lint.SeverityWarning, diags[0].Severity)

	diags = analyze(t, sql, lint.NewConfig().SetSeverity("E5", lint.SeverityError))
	require.Len(t, diags, 1)
	assert.Equal(t, lint.SeverityError, diags[0].Severity)
}

func TestAnalyzer_DiagnosticPositions(t *testing.T) {
	diags := analyze(t, "ALTER TABLE t ADD COLUMN a int NOT NULL;", nil)
	require.Len(t, diags, 1)
	assert.Equal(t, 1, diags[0].Pos.Line)
	assert.Equal(t, 32, diags[0].Pos.Column)
	assert.True(t, diags[0].Pos.IsValid())
}

func TestAnalyzer_NilScript(t *testing.T) {
	assert.Empty(t, lint.NewAnalyzer(nil).AnalyzeScript(nil))
}
