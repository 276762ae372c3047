package diag

import (
	"fmt"
	"io"
	"strings"
)

// Formatter renders diagnostics as "<line>: <message>" followed by the
// quoted offending source line, per spec.md §7. It caches the source text
// so repeated diagnostics against the same file only split it once.
type Formatter struct {
	source string
	lines  []string
}

// NewFormatter builds a formatter over the given source text.
func NewFormatter(source string) *Formatter {
	return &Formatter{source: source, lines: strings.Split(source, "\n")}
}

// Format writes one diagnostic to w.
func (f *Formatter) Format(w io.Writer, d Diagnostic) {
	if d.Line <= 0 {
		fmt.Fprintf(w, "%s: %s\n", d.Severity, d.Message)
		return
	}
	fmt.Fprintf(w, "%d: %s\n", d.Line, d.Message)
	if d.Line >= 1 && d.Line <= len(f.lines) {
		fmt.Fprintf(w, "    %s\n", f.lines[d.Line-1])
	}
}

// FormatAll writes every diagnostic in ds to w, in order.
func (f *Formatter) FormatAll(w io.Writer, ds []Diagnostic) {
	for _, d := range ds {
		f.Format(w, d)
	}
}
