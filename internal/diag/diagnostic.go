// Package diag defines the diagnostic types shared by every compilation
// stage (symbol table, typechecker, code generator, driver), per spec.md
// §7's four error kinds.
package diag

import "fmt"

// Stage identifies which compiler phase produced the diagnostic.
type Stage string

const (
	StageArgument Stage = "argument"
	StageIO       Stage = "io"
	StageSymtab   Stage = "symtab"
	StageChecker  Stage = "checker"
	StageBackend  Stage = "backend"
)

// Severity captures how impactful the diagnostic is. DJ only ever emits
// fatal errors (spec.md §7: "all categories are terminal"), but Severity is
// kept distinct from Stage so a future warning (e.g. dead code) has a home.
type Severity string

const (
	SeverityError Severity = "error"
	SeverityNote  Severity = "note"
)

// Diagnostic is a single compiler-reported problem. Line is 0 when the
// diagnostic has no associated source position (e.g. an I/O or argument
// error).
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Message  string
	Line     int
}

// New constructs an error-severity diagnostic for the given stage.
func New(stage Stage, line int, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Stage:    stage,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
	}
}
