// Package rules contains the built-in migration safety rules.
// Import this package for its side effects to register all rules:
//
//	import _ "github.com/sqlsentry/sqlsentry/pkg/lint/rules"
//
// Rule code space (E1 and E2 are reserved by the session for file and
// syntax errors):
//
//   - E3: NOT NULL column added to an existing table (full table rewrite)
//   - E4: DEFAULT value added to an existing table (full table rewrite)
//   - E5: CREATE INDEX without CONCURRENTLY (write-blocking build)
package rules
