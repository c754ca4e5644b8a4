package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/sqlsentry/sqlsentry/internal/cli/config"
	"github.com/sqlsentry/sqlsentry/internal/cli/output"
	"github.com/sqlsentry/sqlsentry/pkg/lint"
	_ "github.com/sqlsentry/sqlsentry/pkg/lint/rules" // register rules
)

// LintOptions holds options for the lint command.
type LintOptions struct {
	Format   string   // Output format: text, markdown, json
	Disable  []string // Rule IDs to disable
	Severity string   // Minimum severity to display: error, warning, info, hint
	Rules    []string // Run only specific rules
	Jobs     int      // Parallel workers (0 = config value)
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint <path>...",
		Short: "Lint SQL migration files for risky statements",
		Long: `Analyze SQL migration files for statements that are likely to cause
production incidents: full table rewrites and long-held locks.

Each path may be a file or a directory. Directories are scanned for
goose-style versioned migrations (NNN_name.sql) and linted in version
order; directories without versioned migrations fall back to every
.sql file in path order.

The exit code is 0 only when every input produced zero diagnostics.
A file that cannot be read (E1) or parsed (E2) counts as a finding
but never stops the remaining files from being linted.`,
		Example: `  # Lint specific migrations
  sqlsentry lint migrations/0042_add_flags.sql

  # Lint a whole migrations directory
  sqlsentry lint ./migrations

  # Machine-readable output
  sqlsentry lint --format json ./migrations

  # Disable the default-value rule
  sqlsentry lint --disable E4 ./migrations

  # Lint a large batch in parallel
  sqlsentry lint --jobs 8 ./migrations`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringVar(&opts.Severity, "severity", "warning", "Minimum severity to display: error, warning, info, hint")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Run only specific rules")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 0, "Number of parallel workers")

	return cmd
}

func runLint(cmd *cobra.Command, args []string, opts *LintOptions) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	logger := config.GetLogger(ctx)
	r := output.FromContext(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr())

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	paths := expandPaths(args, logger)
	if len(paths) == 0 {
		return fmt.Errorf("no SQL files to lint")
	}

	session := lint.NewSession(buildLintConfig(cfg, opts))
	session.SetLogger(logger)
	session.Jobs = opts.Jobs
	if session.Jobs == 0 && cfg != nil {
		session.Jobs = cfg.Jobs
	}

	results, success := session.Run(paths)
	renderLintResults(r, results, opts.Severity, success)

	// Exit with code 1 if any input produced diagnostics. The severity
	// flag filters display only; it never changes the verdict.
	if !success {
		return fmt.Errorf("lint issues found")
	}
	return nil
}

// expandPaths resolves each argument to concrete file paths, in argument
// order. Directories expand to their migrations; everything else (existing
// or not) passes through so unreadable files surface as E1 diagnostics
// instead of aborting the batch.
func expandPaths(args []string, logger interface{ Debug(string, ...any) }) []string {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		files := collectMigrationDir(arg)
		logger.Debug("expanded directory", "dir", arg, "files", len(files))
		paths = append(paths, files...)
	}
	return paths
}

// collectMigrationDir lists the SQL files of a migration directory.
// Goose-style versioned migrations are preferred (and ordered by version);
// a directory without them falls back to every .sql file sorted by path.
func collectMigrationDir(dir string) []string {
	if migrations, err := goose.CollectMigrations(dir, 0, goose.MaxVersion); err == nil {
		var paths []string
		for _, m := range migrations {
			if strings.HasSuffix(m.Source, ".sql") {
				paths = append(paths, m.Source)
			}
		}
		if len(paths) > 0 {
			return paths
		}
	}

	var paths []string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable entries surface as E1 later, not here
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".sql") {
			paths = append(paths, path)
		}
		return nil
	})
	sort.Strings(paths)
	return paths
}

// buildLintConfig merges project config and CLI flags into a rule config.
func buildLintConfig(cfg *config.Config, opts *LintOptions) *lint.Config {
	lintCfg := lint.NewConfig()

	// Apply project config first (lower precedence)
	if cfg != nil && cfg.Lint != nil {
		for _, id := range cfg.Lint.Disabled {
			lintCfg.Disable(strings.TrimSpace(id))
		}
		for id, sev := range cfg.Lint.Severity {
			if s, ok := lint.ParseSeverity(sev); ok {
				lintCfg.SetSeverity(id, s)
			}
		}
	}

	// Apply CLI overrides (higher precedence)
	for _, id := range opts.Disable {
		lintCfg.Disable(strings.TrimSpace(id))
	}

	// If --rule specified, disable all others
	if len(opts.Rules) > 0 {
		enabled := make(map[string]bool)
		for _, id := range opts.Rules {
			enabled[strings.TrimSpace(id)] = true
		}
		for _, rule := range lint.All() {
			if !enabled[rule.ID] {
				lintCfg.Disable(rule.ID)
			}
		}
	}

	return lintCfg
}

// filterBySeverity drops diagnostics below the display threshold.
func filterBySeverity(diags []lint.Diagnostic, threshold string) []lint.Diagnostic {
	t, ok := lint.ParseSeverity(threshold)
	if !ok {
		t = lint.SeverityWarning
	}
	var filtered []lint.Diagnostic
	for _, d := range diags {
		if d.Severity <= t {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

func renderLintResults(r *output.Renderer, results []lint.FileResult, severity string, success bool) {
	summary := output.LintSummary{FilesAnalyzed: len(results)}
	display := make([]lint.FileResult, 0, len(results))
	for _, res := range results {
		if !res.Clean() {
			summary.FilesFlagged++
		}
		diags := filterBySeverity(res.Diagnostics, severity)
		summary.TotalIssues += len(diags)
		for _, d := range diags {
			switch d.Severity {
			case lint.SeverityError:
				summary.Errors++
			case lint.SeverityWarning:
				summary.Warnings++
			case lint.SeverityInfo:
				summary.Info++
			case lint.SeverityHint:
				summary.Hints++
			}
		}
		display = append(display, lint.FileResult{Path: res.Path, Diagnostics: diags})
	}

	if r.EffectiveMode() == output.ModeJSON {
		jsonOutput := output.LintOutput{Summary: summary, Success: success}
		for _, res := range display {
			fileResult := output.LintFileResult{Path: res.Path}
			for _, d := range res.Diagnostics {
				fileResult.Diagnostics = append(fileResult.Diagnostics, output.LintDiagnostic{
					RuleID:   d.RuleID,
					Severity: d.Severity.String(),
					Message:  d.Message,
					Line:     d.Pos.Line,
					Column:   d.Pos.Column,
				})
			}
			jsonOutput.Files = append(jsonOutput.Files, fileResult)
		}
		_ = r.JSON(jsonOutput)
		return
	}

	if summary.TotalIssues == 0 {
		r.Success(fmt.Sprintf("No issues found in %d files", summary.FilesAnalyzed))
		return
	}

	for _, res := range display {
		if len(res.Diagnostics) == 0 {
			continue
		}
		r.Println(r.Styles().FilePath.Render(res.Path))
		for _, d := range res.Diagnostics {
			loc := "-"
			if d.Pos.IsValid() {
				loc = fmt.Sprintf("%d:%d", d.Pos.Line, d.Pos.Column)
			}
			r.Printf("  %s  %s  %s  %s\n",
				r.Styles().Muted.Render(fmt.Sprintf("%-7s", loc)),
				severityLabel(r, d.Severity),
				r.Styles().Bold.Render(d.RuleID),
				d.Message,
			)
		}
		r.Println("")
	}

	parts := []string{fmt.Sprintf("%d issues", summary.TotalIssues)}
	if summary.Errors > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", summary.Errors))
	}
	if summary.Warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", summary.Warnings))
	}
	if summary.Info > 0 {
		parts = append(parts, fmt.Sprintf("%d info", summary.Info))
	}
	if summary.Hints > 0 {
		parts = append(parts, fmt.Sprintf("%d hints", summary.Hints))
	}
	r.Printf("Summary: %s in %d of %d files\n", strings.Join(parts, ", "), summary.FilesFlagged, summary.FilesAnalyzed)
}

func severityLabel(r *output.Renderer, sev lint.Severity) string {
	switch sev {
	case lint.SeverityError:
		return r.Styles().Error.Render("error  ")
	case lint.SeverityWarning:
		return r.Styles().Warning.Render("warning")
	case lint.SeverityInfo:
		return r.Styles().Info.Render("info   ")
	case lint.SeverityHint:
		return r.Styles().Muted.Render("hint   ")
	default:
		return r.Styles().Muted.Render("unknown")
	}
}
