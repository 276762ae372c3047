package tast_test

import (
	"testing"

	"github.com/dj-lang/dj2ll/internal/parser"
	"github.com/dj-lang/dj2ll/internal/symtab"
	"github.com/dj-lang/dj2ll/internal/tast"
	"github.com/dj-lang/dj2ll/internal/types"
)

func translateProgram(t *testing.T, src string) *tast.Program {
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
	return tast.Translate(table)
}

func TestTranslateLocalAssignAndRef(t *testing.T) {
	p := translateProgram(t, `main { nat x; x = 1; printNat(x); }`)
	if len(p.MainBody) != 2 {
		t.Fatalf("expected 2 main expressions, got %d", len(p.MainBody))
	}

	assign, ok := p.MainBody[0].(*tast.AssignLocal)
	if !ok {
		t.Fatalf("expected AssignLocal, got %T", p.MainBody[0])
	}
	if assign.Name != "x" {
		t.Errorf("expected assignment to local %q, got %q", "x", assign.Name)
	}

	print, ok := p.MainBody[1].(*tast.Print)
	if !ok {
		t.Fatalf("expected Print, got %T", p.MainBody[1])
	}
	ref, ok := print.Arg.(*tast.LocalRef)
	if !ok {
		t.Fatalf("expected LocalRef, got %T", print.Arg)
	}
	if ref.Name != "x" {
		t.Errorf("expected LocalRef to %q, got %q", "x", ref.Name)
	}
}

// TestTranslateInstanceFieldNotConfusedWithLocal guards against the
// ID/ASSIGN decoration regressing to "local whenever Set is true": a method
// that reads and writes an instance field of its own class must still
// produce InstanceField/AssignInstanceField nodes for the field reference,
// not LocalRef, since MemberNum==0 (like ClassNum==0) is itself a valid
// member address and cannot be distinguished from "unset" by zero value
// alone.
func TestTranslateInstanceFieldNotConfusedWithLocal(t *testing.T) {
	p := translateProgram(t, `
class A {
  nat count;
  nat bump(nat step) { count = count + step; count }
}
main { A a; a = new A(); printNat(a.bump(1)); }
`)
	if len(p.Methods) != 1 {
		t.Fatalf("expected 1 translated method, got %d", len(p.Methods))
	}
	body := p.Methods[0].Body
	if len(body) != 2 {
		t.Fatalf("expected 2 method expressions, got %d", len(body))
	}

	assign, ok := body[0].(*tast.AssignInstanceField)
	if !ok {
		t.Fatalf("expected AssignInstanceField, got %T", body[0])
	}
	if _, ok := assign.Obj.(*tast.This); !ok {
		t.Fatalf("expected implicit this receiver, got %T", assign.Obj)
	}

	field, ok := body[1].(*tast.InstanceField)
	if !ok {
		t.Fatalf("expected InstanceField, got %T", body[1])
	}
	if _, ok := field.Obj.(*tast.This); !ok {
		t.Fatalf("expected implicit this receiver, got %T", field.Obj)
	}
	if field.DeclClass != assign.DeclClass || field.Index != assign.Index {
		t.Fatalf("field read and field write resolved to different slots: %+v vs %+v", field, assign)
	}
}

func TestTranslateStaticFieldThroughClassName(t *testing.T) {
	p := translateProgram(t, `
class A { static nat s; nat bump(nat step) { s = s+step; s } }
main { A a; a = new A(); printNat(a.bump(1)); printNat(A.s); }
`)
	print, ok := p.MainBody[2].(*tast.Print)
	if !ok {
		t.Fatalf("expected Print, got %T", p.MainBody[2])
	}
	field, ok := print.Arg.(*tast.StaticField)
	if !ok {
		t.Fatalf("expected StaticField, got %T", print.Arg)
	}
	if field.Obj != nil {
		t.Fatalf("expected a bare ClassName.field qualifier to carry no receiver expression, got %T", field.Obj)
	}
}

func TestTranslateDotMethodCallAndNullCoercion(t *testing.T) {
	p := translateProgram(t, `
class A { nat accept(A other) { 1 } }
main { A a; a = new A(); printNat(a.accept(null)); }
`)
	print := p.MainBody[1].(*tast.Print)
	call, ok := print.Arg.(*tast.DotMethodCall)
	if !ok {
		t.Fatalf("expected DotMethodCall, got %T", print.Arg)
	}
	null, ok := call.Arg.(*tast.Null)
	if !ok {
		t.Fatalf("expected the null argument to translate to Null, got %T", call.Arg)
	}
	if null.Type() != call.Obj.Type() {
		t.Errorf("expected null coerced to the class A (%d), got %d", call.Obj.Type(), null.Type())
	}
}

func TestTranslateIfJoinsBranches(t *testing.T) {
	p := translateProgram(t, `
class A { }
class B extends A { }
class C extends A { }
main { A a; bool cond; cond = true; a = if (cond) new B() else new C(); }
`)
	assign, ok := p.MainBody[1].(*tast.AssignLocal)
	if !ok {
		t.Fatalf("expected AssignLocal, got %T", p.MainBody[1])
	}
	ifExpr, ok := assign.Value.(*tast.If)
	if !ok {
		t.Fatalf("expected If, got %T", assign.Value)
	}
	if len(ifExpr.Then) != 1 || len(ifExpr.Else) != 1 {
		t.Fatalf("expected single-expression branches, got then=%d else=%d", len(ifExpr.Then), len(ifExpr.Else))
	}
	if _, ok := ifExpr.Then[0].(*tast.New); !ok {
		t.Fatalf("expected then branch to be New, got %T", ifExpr.Then[0])
	}
}

func TestTranslateForLoop(t *testing.T) {
	p := translateProgram(t, `main { nat i; for (i=0; i>10==false; i=i+1) printNat(i); }`)
	forExpr, ok := p.MainBody[0].(*tast.For)
	if !ok {
		t.Fatalf("expected For, got %T", p.MainBody[0])
	}
	if len(forExpr.Body) != 1 {
		t.Fatalf("expected 1 loop body expression, got %d", len(forExpr.Body))
	}
	if _, ok := forExpr.Body[0].(*tast.Print); !ok {
		t.Fatalf("expected loop body to be Print, got %T", forExpr.Body[0])
	}
}
