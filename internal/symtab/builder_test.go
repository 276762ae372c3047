package symtab_test

import (
	"testing"

	"github.com/dj-lang/dj2ll/internal/parser"
	"github.com/dj-lang/dj2ll/internal/symtab"
)

func build(t *testing.T, src string) (*symtab.Table, []string) {
	t.Helper()
	p := parser.New(src, "t.dj")
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("unexpected parse errors: %+v", p.Errors())
	}
	table, errs := symtab.Build(prog)
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return table, msgs
}

func TestBuildObjectIsClassZero(t *testing.T) {
	table, errs := build(t, `
class A { nat f(nat x) { x } }
main { }
`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if table.Classes[0].Name != "Object" || table.Classes[0].Superclass != symtab.NoObject {
		t.Fatalf("expected class 0 to be Object with NoObject superclass, got %+v", table.Classes[0])
	}
	if table.Classes[1].Name != "A" || table.Classes[1].Superclass != symtab.Object {
		t.Fatalf("expected class A to extend Object implicitly, got %+v", table.Classes[1])
	}
}

func TestDuplicateClassNameIsFatal(t *testing.T) {
	_, errs := build(t, `
class A { }
class A { }
main { }
`)
	if len(errs) == 0 {
		t.Fatalf("expected a duplicate-class error")
	}
}

func TestUnknownSuperclassIsFatal(t *testing.T) {
	_, errs := build(t, `
class A extends Ghost { }
main { }
`)
	if len(errs) == 0 {
		t.Fatalf("expected an unknown-superclass error")
	}
}

func TestForwardReferencedSuperclassIsRejected(t *testing.T) {
	// B is declared before A, so "class A extends B" refers to a class
	// already appended to the table and is legal. The second program
	// declares A first, making B a forward reference that is rejected.
	table, errs := build(t, `
class B { }
class A extends B { }
main { }
`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if table.Classes[table.ClassByName("A")].Superclass != table.ClassByName("B") {
		t.Fatalf("expected A to extend B")
	}

	_, errs2 := build(t, `
class A extends B { }
class B { }
main { }
`)
	if len(errs2) == 0 {
		t.Fatalf("expected forward-declared B to be rejected as A's superclass")
	}
}

func TestDuplicateFieldAndMethodNamesAreFatal(t *testing.T) {
	_, errs := build(t, `
class A {
  nat x;
  nat x;
}
main { }
`)
	if len(errs) == 0 {
		t.Fatalf("expected duplicate instance field error")
	}

	_, errs2 := build(t, `
class A {
  nat f(nat x) { x }
  nat f(nat y) { y }
}
main { }
`)
	if len(errs2) == 0 {
		t.Fatalf("expected duplicate method error")
	}
}

func TestOverrideMustMatchSignatureExactly(t *testing.T) {
	_, errs := build(t, `
class A { nat f(nat x) { x } }
class B extends A { bool f(nat x) { true } }
main { }
`)
	if len(errs) == 0 {
		t.Fatalf("expected override-signature-mismatch error")
	}
}

func TestUndefinedTypeReferenceIsFatal(t *testing.T) {
	_, errs := build(t, `
class A { Ghost field; }
main { }
`)
	if len(errs) == 0 {
		t.Fatalf("expected undefined-class error for field type")
	}
}

func TestUsageFlags(t *testing.T) {
	table, errs := build(t, `
class A { }
main {
  A a;
  a = new A();
  printNat(if (a instanceof A) 1 else 0);
}
`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !table.HasInstanceOf || !table.HasPrintNat {
		t.Fatalf("expected HasInstanceOf and HasPrintNat, got %+v %+v", table.HasInstanceOf, table.HasPrintNat)
	}
	if table.HasReadNat {
		t.Fatalf("expected HasReadNat to be false")
	}
}

func TestNewObjectIsAllowedSyntactically(t *testing.T) {
	_, errs := build(t, `main { Object o; o = new Object(); }`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}
