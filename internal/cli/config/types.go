// Package config loads CLI configuration from file, environment, and flags.
package config

// Defaults for configuration values.
const (
	// DefaultOutput is the default output mode.
	DefaultOutput = "auto"
	// DefaultJobs is the default number of parallel lint workers.
	DefaultJobs = 1
)

// Config holds the resolved CLI configuration.
type Config struct {
	// Output is the output format: auto, text, markdown, or json.
	Output string `koanf:"output"`

	// Verbose enables debug logging to stderr.
	Verbose bool `koanf:"verbose"`

	// Jobs bounds parallel file processing; 1 means sequential.
	Jobs int `koanf:"jobs"`

	// Lint holds rule configuration.
	Lint *LintConfig `koanf:"lint"`
}

// LintConfig configures the rule set.
type LintConfig struct {
	// Disabled lists rule IDs to skip (e.g. ["E4"]).
	Disabled []string `koanf:"disabled"`

	// Severity overrides rule severities by ID
	// (e.g. {"E5": "error"}).
	Severity map[string]string `koanf:"severity"`
}
