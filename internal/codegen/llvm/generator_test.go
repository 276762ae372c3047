package llvm_test

import (
	"strings"
	"testing"

	"github.com/dj-lang/dj2ll/internal/codegen/llvm"
	"github.com/dj-lang/dj2ll/internal/parser"
	"github.com/dj-lang/dj2ll/internal/symtab"
	"github.com/dj-lang/dj2ll/internal/tast"
	"github.com/dj-lang/dj2ll/internal/types"
)

func generate(t *testing.T, src string) string {
	t.Helper()
	p := parser.New(src, "t.dj")
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("unexpected parse errors: %+v", p.Errors())
	}
	table, errs := symtab.Build(prog)
	if len(errs) > 0 {
		t.Fatalf("unexpected symtab errors: %+v", errs)
	}
	if diags := types.Check(table); len(diags) > 0 {
		t.Fatalf("unexpected typecheck errors: %+v", diags)
	}
	tprog := tast.Translate(table)
	ir, err := llvm.NewGenerator(table, tprog).Generate()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	t.Logf("generated IR:\n%s", ir)
	return ir
}

// S1: straight-line arithmetic and printNat.
func TestArithmeticAndPrint(t *testing.T) {
	ir := generate(t, `main { printNat(2 + 3 * 4); }`)
	if !strings.Contains(ir, "define i32 @main()") {
		t.Fatalf("expected a main function, got:\n%s", ir)
	}
	if !strings.Contains(ir, "@.printnat.fmt") {
		t.Fatalf("expected the printNat format string, got:\n%s", ir)
	}
	if !strings.Contains(ir, "mul i32") || !strings.Contains(ir, "add i32") {
		t.Fatalf("expected mul/add instructions, got:\n%s", ir)
	}
}

// S2: a for loop over a local counter.
func TestForLoop(t *testing.T) {
	ir := generate(t, `main {
  nat i;
  for (i=0; i>10 == false; i=i+1) printNat(i);
}`)
	if strings.Count(ir, "br label") == 0 {
		t.Fatalf("expected at least one unconditional branch in the loop, got:\n%s", ir)
	}
	if !strings.Contains(ir, "icmp ugt i32") {
		t.Fatalf("expected the > comparison to lower to icmp ugt, got:\n%s", ir)
	}
}

// S3: an overridden method dispatched dynamically through a superclass-typed
// variable must reach the override, not the superclass's own body.
func TestDynamicDispatchThroughSuperclassVariable(t *testing.T) {
	ir := generate(t, `
class A { nat f(nat x) { x + 1 } }
class B extends A { nat f(nat x) { x + 100 } }
main { A a; a = new B(); printNat(a.f(5)); }
`)
	if !strings.Contains(ir, "define i32 @A_method_0(") {
		t.Fatalf("expected A's own method function, got:\n%s", ir)
	}
	if !strings.Contains(ir, "define i32 @B_method_0(") {
		t.Fatalf("expected B's override function, got:\n%s", ir)
	}
	if !strings.Contains(ir, "define i32 @NatVTableNat(") {
		t.Fatalf("expected the Nat/Nat dispatcher, got:\n%s", ir)
	}
	if !strings.Contains(ir, "call i32 @NatVTableNat(") {
		t.Fatalf("expected the call site to route through the dispatcher, got:\n%s", ir)
	}
}

// S4: instanceof against a possibly-null receiver must not dereference a
// null pointer, and must still answer through ITable.
func TestInstanceofOnNullableReceiver(t *testing.T) {
	ir := generate(t, `
class A { }
class B extends A { }
main {
  A a;
  a = null;
  printNat(if (a instanceof B) 1 else 0);
}
`)
	if !strings.Contains(ir, "define i1 @ITable(") {
		t.Fatalf("expected an ITable function, got:\n%s", ir)
	}
	if !strings.Contains(ir, "icmp eq %class.A* %") && !strings.Contains(ir, "icmp eq %class.A*") {
		t.Fatalf("expected a null check on the instanceof receiver, got:\n%s", ir)
	}
}

// instanceof Object is the idiomatic non-null test: every allocated object
// is a subtype of Object, so ITable must answer true for (any class, Object).
func TestInstanceofObjectIsNonNullTest(t *testing.T) {
	ir := generate(t, `
class A { }
main { A a; a = new A(); printNat(if (a instanceof Object) 1 else 0); }
`)
	if !strings.Contains(ir, "icmp eq i32 %target, 0") {
		t.Fatalf("expected ITable to test against Object (class 0), got:\n%s", ir)
	}
}

// Equality between two differently-declared reference operands must widen
// both sides to a common pointer type before comparing, or the emitted
// icmp has mismatched operand types and fails LLVM verification.
func TestEqualityAcrossDifferentReferenceClasses(t *testing.T) {
	ir := generate(t, `
class A { }
class B { }
main { A a; B b; a = new A(); b = new B(); printNat(if (a == b) 1 else 0); }
`)
	if !strings.Contains(ir, "icmp eq %class.Object*") {
		t.Fatalf("expected the comparison to widen both operands to %%class.Object*, got:\n%s", ir)
	}
}

// S5: a static field is a module-level global, reachable both through an
// instance and through the bare class name.
func TestStaticFieldIsModuleGlobal(t *testing.T) {
	ir := generate(t, `
class A { static nat s; nat bump(nat step) { s = s+step; s } }
main { A a; a = new A(); printNat(a.bump(1)); printNat(A.s); }
`)
	if !strings.Contains(ir, "@A.s = global i32 0") {
		t.Fatalf("expected a global for the static field, got:\n%s", ir)
	}
	if strings.Count(ir, "@A.s") < 2 {
		t.Fatalf("expected the global to be referenced from both access sites, got:\n%s", ir)
	}
}

// S6: && must not evaluate its right operand when the left is false.
func TestShortCircuitAnd(t *testing.T) {
	ir := generate(t, `main {
  nat i;
  for (i=0; i>10 == false && i==i; i=i+1) printNat(i);
}`)
	if !strings.Contains(ir, "phi i1") {
		t.Fatalf("expected the short-circuit join to produce a phi, got:\n%s", ir)
	}
}

func TestNewZeroInitializesViaCalloc(t *testing.T) {
	ir := generate(t, `class A { nat x; } main { A a; a = new A(); }`)
	if !strings.Contains(ir, "call i8* @calloc(") {
		t.Fatalf("expected new to allocate via calloc, got:\n%s", ir)
	}
}

func TestInheritedFieldOffsetAccountsForOwnFieldsFirst(t *testing.T) {
	ir := generate(t, `
class A { nat a; }
class B extends A { nat b; nat c; }
main { B x; x = new B(); x.a = 1; x.b = 2; x.c = 3; }
`)
	if !strings.Contains(ir, "%class.A = type { %class.A*, i32, i32 }") {
		t.Fatalf("expected A's record to hold its own field after the header, got:\n%s", ir)
	}
	if !strings.Contains(ir, "%class.B = type { %class.B*, i32, i32, i32, i32 }") {
		t.Fatalf("expected B's record to list its own fields before A's inherited one, got:\n%s", ir)
	}
}

func TestReadNatDeclaresScanfAndPrompt(t *testing.T) {
	ir := generate(t, `main { nat x; x = readNat(); printNat(x); }`)
	if !strings.Contains(ir, "declare i32 @scanf(") {
		t.Fatalf("expected scanf to be declared, got:\n%s", ir)
	}
	if !strings.Contains(ir, `"Enter a natural number: `) {
		t.Fatalf("expected the readNat prompt string, got:\n%s", ir)
	}
}
