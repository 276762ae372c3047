package parser_test

import (
	"testing"

	"github.com/dj-lang/dj2ll/internal/ast"
	"github.com/dj-lang/dj2ll/internal/parser"
)

func parseOK(t *testing.T, src string) *ast.Node {
	t.Helper()
	p := parser.New(src, "t.dj")
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("unexpected parse errors: %+v", p.Errors())
	}
	return prog
}

func TestParseArithmeticMain(t *testing.T) {
	prog := parseOK(t, `main { printNat(2 + 3 * 4); }`)
	body := prog.ProgramMainBody()
	if len(body.Children) != 1 {
		t.Fatalf("expected 1 top-level expr, got %d", len(body.Children))
	}
	print := body.Children[0]
	if print.Tag != ast.PRINT_EXPR {
		t.Fatalf("expected PRINT_EXPR, got %s", print.Tag)
	}
	plus := print.UnaryOperand()
	if plus.Tag != ast.PLUS_EXPR {
		t.Fatalf("expected PLUS_EXPR, got %s", plus.Tag)
	}
	times := plus.BinaryRight()
	if times.Tag != ast.TIMES_EXPR {
		t.Fatalf("expected TIMES_EXPR (precedence), got %s", times.Tag)
	}
}

func TestParseForLoopWithShortCircuitAnd(t *testing.T) {
	prog := parseOK(t, `main {
  nat i;
  for (i=0; i>10 == false && i==i; i=i+1) printNat(i);
}`)
	locals := prog.ProgramMainLocals()
	if len(locals.Children) != 1 || locals.Children[0].Name != "i" {
		t.Fatalf("expected single local %q, got %+v", "i", locals.Children)
	}
	forExpr := prog.ProgramMainBody().Children[0]
	if forExpr.Tag != ast.FOR_EXPR {
		t.Fatalf("expected FOR_EXPR, got %s", forExpr.Tag)
	}
	test := forExpr.ForTest()
	if test.Tag != ast.AND_EXPR {
		t.Fatalf("expected AND_EXPR test, got %s", test.Tag)
	}
}

func TestParseClassHierarchyAndDispatchCall(t *testing.T) {
	prog := parseOK(t, `
class A { nat f(nat x) { x + 1 } }
class B extends A { nat f(nat x) { x + 100 } }
main { A a; a = new B(); printNat(a.f(5)); }
`)
	classes := prog.ProgramClassList().Children
	if len(classes) != 2 {
		t.Fatalf("expected 2 classes, got %d", len(classes))
	}
	if classes[1].ClassDeclSuperclass().Name != "A" {
		t.Fatalf("expected B to extend A, got %q", classes[1].ClassDeclSuperclass().Name)
	}
	methods := classes[0].ClassDeclMethods().Children
	if len(methods) != 1 || methods[0].Name != "f" {
		t.Fatalf("expected method f, got %+v", methods)
	}

	assign := prog.ProgramMainBody().Children[0]
	if assign.Tag != ast.ASSIGN_EXPR {
		t.Fatalf("expected ASSIGN_EXPR, got %s", assign.Tag)
	}
	newExpr := assign.AssignVal()
	if newExpr.Tag != ast.NEW_EXPR || newExpr.NewClassName().Name != "B" {
		t.Fatalf("expected new B(), got %+v", newExpr)
	}

	call := prog.ProgramMainBody().Children[1].UnaryOperand()
	if call.Tag != ast.DOT_METHOD_CALL_EXPR || call.DotMethodCallName().Name != "f" {
		t.Fatalf("expected a.f(5), got %+v", call)
	}
}

func TestParseStaticFieldAndInstanceof(t *testing.T) {
	prog := parseOK(t, `
class A { static nat s; nat bump(nat step) { s = s+step; s } }
main {
  A a; a = new A();
  printNat(if (a instanceof A) 1 else 0);
}
`)
	class := prog.ProgramClassList().Children[0]
	if len(class.ClassDeclStaticVars().Children) != 1 {
		t.Fatalf("expected one static var, got %+v", class.ClassDeclStaticVars().Children)
	}
	ifExpr := prog.ProgramMainBody().Children[1].UnaryOperand()
	if ifExpr.Tag != ast.IF_THEN_ELSE_EXPR {
		t.Fatalf("expected IF_THEN_ELSE_EXPR, got %s", ifExpr.Tag)
	}
	if ifExpr.IfCond().Tag != ast.INSTANCEOF_EXPR {
		t.Fatalf("expected instanceof condition, got %s", ifExpr.IfCond().Tag)
	}
}
