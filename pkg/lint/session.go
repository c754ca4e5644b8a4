package lint

import (
	"fmt"
	"log/slog"
	"os"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/sqlsentry/sqlsentry/pkg/parser"
)

// Rule IDs for structural failures. They share the diagnostic channel with
// rule findings so every problem reaches the reporter the same way.
const (
	// RuleFileError reports an input that could not be read.
	RuleFileError = "E1"
	// RuleSyntaxError reports an input that is not valid SQL.
	RuleSyntaxError = "E2"
)

// FileResult holds the diagnostics for a single input.
type FileResult struct {
	Path        string
	Diagnostics []Diagnostic
}

// Clean returns true if the input produced zero diagnostics.
func (r FileResult) Clean() bool {
	return len(r.Diagnostics) == 0
}

// Session orchestrates read, parse, and dispatch for a batch of inputs and
// reduces the results to a pass/fail verdict. A failed input contributes
// exactly one structural diagnostic and never aborts the rest of the batch.
type Session struct {
	analyzer *Analyzer
	logger   *slog.Logger

	// Jobs bounds parallel file processing. Values <= 1 run sequentially.
	// Results are reported in input order either way, so output bytes are
	// identical across modes and reruns.
	Jobs int
}

// NewSession creates a session with the given rule configuration.
func NewSession(config *Config) *Session {
	return &Session{
		analyzer: NewAnalyzer(config),
		logger:   slog.Default(),
	}
}

// SetLogger replaces the session logger.
func (s *Session) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Run lints every input and returns per-file results in input order plus
// the overall verdict: true iff every input produced zero diagnostics.
func (s *Session) Run(paths []string) ([]FileResult, bool) {
	results := make([]FileResult, len(paths))

	if s.Jobs > 1 {
		var g errgroup.Group
		g.SetLimit(s.Jobs)
		for i, path := range paths {
			g.Go(func() error {
				results[i] = s.LintFile(path)
				return nil
			})
		}
		_ = g.Wait() // workers never return errors; failures become diagnostics
	} else {
		for i, path := range paths {
			results[i] = s.LintFile(path)
		}
	}

	success := true
	for _, r := range results {
		if !r.Clean() {
			success = false
		}
	}
	return results, success
}

// LintFile reads, parses, and analyzes one file. Read failures (missing
// file, permissions, non-UTF-8 content) yield a single FileError
// diagnostic with the zero-position sentinel.
func (s *Session) LintFile(path string) FileResult {
	s.logger.Debug("linting file", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return FileResult{Path: path, Diagnostics: []Diagnostic{{
			RuleID:   RuleFileError,
			Severity: SeverityError,
			Message:  err.Error(),
		}}}
	}
	if !utf8.Valid(data) {
		return FileResult{Path: path, Diagnostics: []Diagnostic{{
			RuleID:   RuleFileError,
			Severity: SeverityError,
			Message:  fmt.Sprintf("%s: file content is not valid UTF-8", path),
		}}}
	}
	return FileResult{Path: path, Diagnostics: s.LintSource(string(data))}
}

// LintSource parses and analyzes SQL source text. Parse failures yield a
// single SyntaxError diagnostic carrying the parser's position.
func (s *Session) LintSource(src string) []Diagnostic {
	script, err := parser.Parse(src)
	if err != nil {
		diag := Diagnostic{
			RuleID:   RuleSyntaxError,
			Severity: SeverityError,
			Message:  err.Error(),
		}
		if perr, ok := err.(*parser.ParseError); ok {
			diag.Pos = perr.Pos
			diag.Message = perr.Message
		}
		return []Diagnostic{diag}
	}
	return s.analyzer.AnalyzeScript(script)
}
