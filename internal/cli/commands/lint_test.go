package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlsentry/sqlsentry/internal/cli/config"
	"github.com/sqlsentry/sqlsentry/internal/cli/output"
	"github.com/sqlsentry/sqlsentry/pkg/lint"
)

func TestNewLintCommand(t *testing.T) {
	cmd := NewLintCommand()

	assert.Equal(t, "lint <path>...", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	// Verify flags exist
	flags := []string{"format", "disable", "severity", "rule", "jobs"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestBuildLintConfig(t *testing.T) {
	t.Run("empty options", func(t *testing.T) {
		cfg := buildLintConfig(nil, &LintOptions{})
		require.NotNil(t, cfg)
		assert.False(t, cfg.IsDisabled("E3"))
	})

	t.Run("disable rules", func(t *testing.T) {
		cfg := buildLintConfig(nil, &LintOptions{Disable: []string{"E3", "E4"}})
		assert.True(t, cfg.IsDisabled("E3"))
		assert.True(t, cfg.IsDisabled("E4"))
		assert.False(t, cfg.IsDisabled("E5"))
	})

	t.Run("enable only specific rules", func(t *testing.T) {
		cfg := buildLintConfig(nil, &LintOptions{Rules: []string{"E5"}})
		assert.False(t, cfg.IsDisabled("E5"))
		assert.True(t, cfg.IsDisabled("E3"))
		assert.True(t, cfg.IsDisabled("E4"))
	})

	t.Run("project config applies", func(t *testing.T) {
		projectCfg := &config.Config{
			Lint: &config.LintConfig{
				Disabled: []string{"E4"},
				Severity: map[string]string{"E5": "error"},
			},
		}
		cfg := buildLintConfig(projectCfg, &LintOptions{})
		assert.True(t, cfg.IsDisabled("E4"))
		assert.Equal(t, lint.SeverityError, cfg.GetSeverity("E5", lint.SeverityWarning))
	})
}

func TestFilterBySeverity(t *testing.T) {
	diags := []lint.Diagnostic{
		{RuleID: "E1", Severity: lint.SeverityError},
		{RuleID: "E3", Severity: lint.SeverityWarning},
		{RuleID: "X1", Severity: lint.SeverityHint},
	}

	assert.Len(t, filterBySeverity(diags, "hint"), 3)
	assert.Len(t, filterBySeverity(diags, "warning"), 2)
	assert.Len(t, filterBySeverity(diags, "error"), 1)
	// Unknown threshold falls back to warning
	assert.Len(t, filterBySeverity(diags, "bogus"), 2)
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_later.sql", "001_init.sql", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("CREATE TABLE t (id int);\n"), 0o600))
	}

	paths := expandPaths([]string{dir}, testLogger())
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "001_init.sql"), paths[0])
	assert.Equal(t, filepath.Join(dir, "002_later.sql"), paths[1])

	// Files and missing paths pass through untouched
	missing := filepath.Join(dir, "nope.sql")
	paths = expandPaths([]string{missing}, testLogger())
	assert.Equal(t, []string{missing}, paths)
}

func TestLintCommand_JSONOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "001_add.sql")
	require.NoError(t, os.WriteFile(path, []byte("ALTER TABLE t ADD COLUMN a int NOT NULL;\n"), 0o600))

	var out, errOut bytes.Buffer
	cmd := NewLintCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetContext(context.Background())
	cmd.SetArgs([]string{"--format", "json", path})

	err := cmd.Execute()
	require.Error(t, err, "findings should make the command fail")

	var result output.LintOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Equal(t, 1, result.Summary.FilesAnalyzed)
	assert.Equal(t, 1, result.Summary.TotalIssues)
	require.Len(t, result.Files, 1)
	require.Len(t, result.Files[0].Diagnostics, 1)
	assert.Equal(t, "E3", result.Files[0].Diagnostics[0].RuleID)
}

func TestLintCommand_CleanExit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "001_init.sql")
	require.NoError(t, os.WriteFile(path, []byte("CREATE TABLE t (id int);\n"), 0o600))

	var out bytes.Buffer
	cmd := NewLintCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetContext(context.Background())
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "No issues found")
}

func TestLintCommand_SeverityFilterKeepsVerdict(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "001_add.sql")
	require.NoError(t, os.WriteFile(path, []byte("ALTER TABLE t ADD COLUMN a int NOT NULL;\n"), 0o600))

	var out bytes.Buffer
	cmd := NewLintCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetContext(context.Background())
	cmd.SetArgs([]string{"--severity", "error", path})

	// The warning is hidden from display but the command still fails
	require.Error(t, cmd.Execute())
}

func TestLintCommand_OutputBytesStable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "001_add.sql")
	require.NoError(t, os.WriteFile(path, []byte("ALTER TABLE t ADD COLUMN a int NOT NULL DEFAULT 0;\nCREATE INDEX idx ON t (a);\n"), 0o600))

	run := func() string {
		var out bytes.Buffer
		cmd := NewLintCommand()
		cmd.SetOut(&out)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetContext(context.Background())
		cmd.SetArgs([]string{"--format", "markdown", path})
		_ = cmd.Execute()
		return out.String()
	}

	first := run()
	second := run()
	assert.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func testLogger() interface{ Debug(string, ...any) } {
	return config.GetLogger(context.Background())
}
