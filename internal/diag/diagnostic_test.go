package diag_test

import (
	"bytes"
	"testing"

	"github.com/dj-lang/dj2ll/internal/diag"
)

func TestFormatIncludesLineAndSource(t *testing.T) {
	src := "main {\n  printNat(1 + true);\n}\n"
	f := diag.NewFormatter(src)

	d := diag.New(diag.StageChecker, 2, "expected nat, found bool")

	var buf bytes.Buffer
	f.Format(&buf, d)

	got := buf.String()
	want := "2: expected nat, found bool\n    " + "  printNat(1 + true);" + "\n"
	if got != want {
		t.Fatalf("Format() = %q, want %q", got, want)
	}
}

func TestFormatWithoutLineOmitsSourceSnippet(t *testing.T) {
	f := diag.NewFormatter("")
	d := diag.New(diag.StageIO, 0, "could not open file")

	var buf bytes.Buffer
	f.Format(&buf, d)

	if buf.String() != "error: could not open file\n" {
		t.Fatalf("Format() = %q", buf.String())
	}
}
