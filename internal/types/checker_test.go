package types_test

import (
	"testing"

	"github.com/dj-lang/dj2ll/internal/parser"
	"github.com/dj-lang/dj2ll/internal/symtab"
	"github.com/dj-lang/dj2ll/internal/types"
)

func check(t *testing.T, src string) []string {
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
	diags := types.Check(table)
	var msgs []string
	for _, d := range diags {
		msgs = append(msgs, d.Message)
	}
	return msgs
}

func TestArithmeticAndPrintTypecheck(t *testing.T) {
	errs := check(t, `main { printNat(2 + 3 * 4); }`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestPrintNatRejectsNonNat(t *testing.T) {
	errs := check(t, `main { printNat(true); }`)
	if len(errs) == 0 {
		t.Fatalf("expected printNat(bool) to be rejected")
	}
}

func TestShortCircuitAndRequiresBoolOperands(t *testing.T) {
	errs := check(t, `main {
  nat i;
  for (i=0; i>10 == false && i==i; i=i+1) printNat(i);
}`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestAndRejectsNatOperand(t *testing.T) {
	errs := check(t, `main { nat x; x = 1 && true; }`)
	if len(errs) == 0 {
		t.Fatalf("expected && with a nat operand to be rejected")
	}
}

func TestDispatchCallThroughSuperclassTypedVariable(t *testing.T) {
	errs := check(t, `
class A { nat f(nat x) { x + 1 } }
class B extends A { nat f(nat x) { x + 100 } }
main { A a; a = new B(); printNat(a.f(5)); }
`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestAssignRejectsIncompatibleSubtype(t *testing.T) {
	errs := check(t, `
class A { }
class B extends A { }
main { B b; A a; a = new A(); b = a; }
`)
	if len(errs) == 0 {
		t.Fatalf("expected assigning an A to a B variable to be rejected")
	}
}

func TestStaticFieldAccessedThroughClassName(t *testing.T) {
	errs := check(t, `
class A { static nat s; nat bump(nat step) { s = s+step; s } }
main { A a; a = new A(); printNat(a.bump(1)); printNat(A.s); }
`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestInstanceofRequiresReferenceOperandAndDeclaredClass(t *testing.T) {
	errs := check(t, `
class A { }
main { A a; a = new A(); printNat(if (a instanceof A) 1 else 0); }
`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	errs2 := check(t, `main { printNat(if (1 instanceof Object) 1 else 0); }`)
	if len(errs2) == 0 {
		t.Fatalf("expected instanceof on a nat to be rejected")
	}
}

func TestIfBranchesJoinToCommonSupertype(t *testing.T) {
	errs := check(t, `
class A { }
class B extends A { }
class C extends A { }
main {
  A a;
  bool cond;
  cond = true;
  a = if (cond) new B() else new C();
}
`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestIfBranchesRequireBoolCondition(t *testing.T) {
	errs := check(t, `main { nat x; x = if (1) 1 else 0; }`)
	if len(errs) == 0 {
		t.Fatalf("expected a nat if-condition to be rejected")
	}
}

func TestNullAssignableToAnyReferenceVariable(t *testing.T) {
	errs := check(t, `class A { } main { A a; a = null; }`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestNullNotAssignableToNat(t *testing.T) {
	errs := check(t, `main { nat x; x = null; }`)
	if len(errs) == 0 {
		t.Fatalf("expected assigning null to a nat variable to be rejected")
	}
}

func TestEqualityAcceptsNullOnEitherSide(t *testing.T) {
	errs := check(t, `
class A { }
main { A a; a = new A(); printNat(if (a == null) 1 else 0); printNat(if (null == a) 1 else 0); }
`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestEqualityRejectsMixedNatAndBool(t *testing.T) {
	errs := check(t, `main { printNat(if (1 == true) 1 else 0); }`)
	if len(errs) == 0 {
		t.Fatalf("expected nat == bool to be rejected")
	}
}

func TestThisRejectedInMain(t *testing.T) {
	errs := check(t, `main { printNat(if (this instanceof Object) 1 else 0); }`)
	if len(errs) == 0 {
		t.Fatalf("expected this to be rejected in main")
	}
}

func TestUnqualifiedMethodCallRejectedInMain(t *testing.T) {
	errs := check(t, `class A { nat f(nat x) { x } } main { printNat(f(1)); }`)
	if len(errs) == 0 {
		t.Fatalf("expected an unqualified method call in main to be rejected")
	}
}

func TestUnqualifiedMethodCallDispatchesFromEnclosingClass(t *testing.T) {
	errs := check(t, `
class A { nat f(nat x) { x } nat g(nat x) { f(x) + 1 } }
main { A a; a = new A(); printNat(a.g(1)); }
`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestMethodBodyMustMatchDeclaredReturnType(t *testing.T) {
	errs := check(t, `class A { nat f(nat x) { true } }
main { }`)
	if len(errs) == 0 {
		t.Fatalf("expected a bool-bodied method declared nat to be rejected")
	}
}

func TestFieldAccessThroughNullLiteralIsRejected(t *testing.T) {
	errs := check(t, `class A { nat x; } main { printNat(null.x); }`)
	if len(errs) == 0 {
		t.Fatalf("expected field access directly on the null literal to be rejected")
	}
}

func TestNewObjectIsWellTyped(t *testing.T) {
	errs := check(t, `main { Object o; o = new Object(); }`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}
