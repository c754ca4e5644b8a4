// Package lint provides the rule-evaluation engine for migration linting.
// Rules are data-driven definitions registered per syntax-tree node kind;
// the analyzer dispatches parsed statements to the registered rules and
// aggregates their diagnostics in a deterministic order.
package lint

import (
	"strings"

	"github.com/sqlsentry/sqlsentry/pkg/token"
)

// Severity indicates the importance of a diagnostic.
type Severity int

// Severity levels for diagnostics.
const (
	// SeverityError indicates a critical issue that should be fixed.
	SeverityError Severity = iota
	// SeverityWarning indicates a potential issue that should be reviewed.
	SeverityWarning
	// SeverityInfo indicates informational feedback.
	SeverityInfo
	// SeverityHint indicates a suggestion for improvement.
	SeverityHint
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// ParseSeverity parses a severity name. The second return value is false
// for unknown names.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(s) {
	case "error":
		return SeverityError, true
	case "warning":
		return SeverityWarning, true
	case "info":
		return SeverityInfo, true
	case "hint":
		return SeverityHint, true
	default:
		return SeverityWarning, false
	}
}

// NodeKind identifies the syntax-tree node shape a rule applies to.
type NodeKind int

// Node kinds rules can target.
const (
	// NodeAddColumn receives *parser.AddColumnOp.
	NodeAddColumn NodeKind = iota
	// NodeCreateIndex receives *parser.CreateIndexStmt.
	NodeCreateIndex
	// NodeCreateTable receives *parser.CreateTableStmt. No built-in rule
	// targets it today; the hook exists so new rules register without
	// analyzer changes.
	NodeCreateTable
)

// String returns the name of the node kind.
func (k NodeKind) String() string {
	switch k {
	case NodeAddColumn:
		return "add-column"
	case NodeCreateIndex:
		return "create-index"
	case NodeCreateTable:
		return "create-table"
	default:
		return "unknown"
	}
}

// Diagnostic represents one lint finding. It is a value type with no
// reference back to the syntax tree; tooling must compare diagnostics by
// RuleID (and Pos), never by message text.
type Diagnostic struct {
	RuleID   string
	Severity Severity
	Message  string
	Pos      token.Position // zero value when no position is available
}

// RuleDef is a data-driven rule definition. Rules are stateless - all
// context comes via the Check function parameters - and independent: no
// rule's output may depend on another rule having run.
type RuleDef struct {
	ID          string    // Stable short code, e.g. "E3"
	Name        string    // Human-readable name, e.g. "rewrite.not-null-column"
	Group       string    // Category, e.g. "rewrite", "locking"
	Description string    // One-line description
	Severity    Severity  // Default severity
	Target      NodeKind  // Node shape the check receives
	Check       CheckFunc // The check function

	// Documentation fields for the rules command
	Rationale   string // Why this rule exists, what incidents it prevents
	BadExample  string // SQL showing the anti-pattern
	GoodExample string // SQL showing the safe pattern
	Fix         string // How to fix violations
}

// CheckFunc analyzes one node and returns diagnostics. The node parameter
// carries the parser type matching the rule's Target kind, passed as any
// to avoid an import cycle between lint and parser. The opts parameter
// contains rule-specific options from configuration.
type CheckFunc func(node any, opts map[string]any) []Diagnostic

// RuleInfo provides metadata about a rule for documentation/tooling.
type RuleInfo struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Group           string   `json:"group"`
	Description     string   `json:"description"`
	DefaultSeverity Severity `json:"default_severity"`
	Target          string   `json:"target"`
	Rationale       string   `json:"rationale,omitempty"`
	BadExample      string   `json:"bad_example,omitempty"`
	GoodExample     string   `json:"good_example,omitempty"`
	Fix             string   `json:"fix,omitempty"`
}

// Info extracts metadata from a rule definition.
func (r RuleDef) Info() RuleInfo {
	return RuleInfo{
		ID:              r.ID,
		Name:            r.Name,
		Group:           r.Group,
		Description:     r.Description,
		DefaultSeverity: r.Severity,
		Target:          r.Target.String(),
		Rationale:       r.Rationale,
		BadExample:      r.BadExample,
		GoodExample:     r.GoodExample,
		Fix:             r.Fix,
	}
}
