// Command dj2ll is the DJ-to-LLVM compiler driver (spec.md §6): it runs the
// Symbol Table Builder, Typechecker, Translator, and Code Generator in
// sequence over one source file, then (unless told to stop early) hands the
// generated IR to LLVM's opt/llc and a host C compiler to produce a native
// executable.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/dj-lang/dj2ll/internal/codegen/llvm"
	"github.com/dj-lang/dj2ll/internal/diag"
	"github.com/dj-lang/dj2ll/internal/parser"
	"github.com/dj-lang/dj2ll/internal/symtab"
	"github.com/dj-lang/dj2ll/internal/tast"
	"github.com/dj-lang/dj2ll/internal/types"
)

var (
	skipCodegen = flag.Bool("skip-codegen", false, "stop after typechecking")
	runOptis    = flag.Bool("run-optis", false, "enable the LLVM optimization pipeline")
	emitLLVM    = flag.Bool("emit-llvm", false, "print the generated textual IR to stdout before emission")
	verbose     = flag.Bool("verbose", false, "dump the typed IR tree to stdout")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: dj2ll <source>.dj [flags]\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "argument error: expected exactly one source file")
		flag.Usage()
		os.Exit(-1)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(-1)
	}
}

func run(path string) error {
	if !strings.HasSuffix(path, ".dj") {
		return fmt.Errorf("argument error: source path %q must end in .dj", path)
	}
	stem := strings.TrimSuffix(path, ".dj")

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("io error: %w", err)
	}
	formatter := diag.NewFormatter(string(src))

	p := parser.New(string(src), path)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		formatter.FormatAll(os.Stderr, errs)
		return fmt.Errorf("static error: parse failed")
	}

	table, errs := symtab.Build(prog)
	if len(errs) > 0 {
		formatter.FormatAll(os.Stderr, errs)
		return fmt.Errorf("static error: symbol table construction failed")
	}

	if errs := types.Check(table); len(errs) > 0 {
		formatter.FormatAll(os.Stderr, errs)
		return fmt.Errorf("static error: typecheck failed")
	}

	tprog := tast.Translate(table)
	if *verbose {
		dumpTypedTree(tprog)
	}

	if *skipCodegen {
		return nil
	}

	gen := llvm.NewGenerator(table, tprog)
	ir, err := gen.Generate()
	if err != nil {
		formatter.FormatAll(os.Stderr, gen.Errors)
		return fmt.Errorf("backend error: %w", err)
	}

	if *emitLLVM {
		fmt.Fprintln(os.Stdout, ir)
	}

	return build(ir, stem)
}

// build runs the IR through opt (if requested), llc, and the host C
// compiler, producing stem+".o" and finally the stem executable (spec.md
// §4.4.10, §6's file contract).
func build(ir, stem string) error {
	irFile := stem + ".ll"
	if err := os.WriteFile(irFile, []byte(ir), 0o644); err != nil {
		return fmt.Errorf("io error: writing %s: %w", irFile, err)
	}
	defer os.Remove(irFile)

	objFile := stem + ".o"

	if *runOptis {
		optimized, err := optimizeLLVM(irFile)
		if err != nil {
			return fmt.Errorf("backend error: %w", err)
		}
		if optimized != irFile {
			defer os.Remove(optimized)
			irFile = optimized
		}
	}

	llcPath, err := findLLC()
	if err != nil {
		return fmt.Errorf("backend error: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	llcCmd := exec.CommandContext(ctx, llcPath, "-filetype=obj", "-relocation-model=dynamic-no-pic", "-o", objFile, irFile)
	var llcErr strings.Builder
	llcCmd.Stderr = &llcErr
	if err := llcCmd.Run(); err != nil {
		return fmt.Errorf("backend error: llc failed: %v: %s", err, llcErr.String())
	}

	ctx2, cancel2 := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel2()
	ccCmd := exec.CommandContext(ctx2, "cc", "-o", stem, objFile)
	var ccErr strings.Builder
	ccCmd.Stderr = &ccErr
	if err := ccCmd.Run(); err != nil {
		return fmt.Errorf("backend error: linker failed: %v: %s", err, ccErr.String())
	}

	return nil
}

// findLLC locates the llc executable, checking PATH first, then the
// common Homebrew LLVM install locations.
func findLLC() (string, error) {
	if path, err := exec.LookPath("llc"); err == nil {
		return path, nil
	}
	for _, prefix := range homebrewPrefixes() {
		if p := filepath.Join(prefix, "opt/llvm/bin/llc"); fileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("llc not found in PATH or common installation locations")
}

func findOpt() (string, error) {
	if path, err := exec.LookPath("opt"); err == nil {
		return path, nil
	}
	for _, prefix := range homebrewPrefixes() {
		if p := filepath.Join(prefix, "opt/llvm/bin/opt"); fileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("opt not found in PATH or common installation locations")
}

func homebrewPrefixes() []string {
	if prefix := os.Getenv("HOMEBREW_PREFIX"); prefix != "" {
		return []string{prefix}
	}
	return []string{"/opt/homebrew", "/usr/local"}
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// optimizeLLVM runs the fixed pass sequence spec.md §4.4.10 names
// (mem2reg, instcombine, reassociate, GVN, simplifycfg) over irFile and
// returns the path to the optimized module.
func optimizeLLVM(irFile string) (string, error) {
	optPath, err := findOpt()
	if err != nil {
		return "", err
	}
	optFile := irFile + ".opt.ll"
	args := []string{"-S", "-o", optFile,
		"-passes=mem2reg,instcombine,reassociate,gvn,simplifycfg", irFile}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, optPath, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("opt failed: %v: %s", err, stderr.String())
	}
	return optFile, nil
}

func dumpTypedTree(prog *tast.Program) {
	fmt.Fprintf(os.Stdout, "; %d method bodies, %d main expressions\n", len(prog.Methods), len(prog.MainBody))
	for _, m := range prog.Methods {
		fmt.Fprintf(os.Stdout, ";   class %d method %d: %d expressions\n", m.ClassIdx, m.Index, len(m.Body))
	}
}
