// Package tast implements the Translation to Typed IR (spec.md §4.3): a
// one-shot conversion of the typechecker's decorated, mutable ast.Node
// tree into a closed family of typed expression nodes. Every tast.Expr
// already carries its resolved type and fully-resolved member references,
// so the code generator (package llvm) never re-derives either by walking
// ast.Decoration or re-running name resolution.
//
// The sealed-interface technique (an unexported marker method on each
// concrete type) mirrors package mir's Statement/Terminator/Operand
// design; tast has no basic blocks or control-flow graph, since spec.md
// §4.3 is a direct structural translation, not a CFG lowering.
package tast

// Expr is any typed DJ expression. Every concrete type embeds typed,
// giving it a fixed, already-resolved Type().
type Expr interface {
	exprNode()
	Type() int
}

type typed struct{ typ int }

func (t typed) Type() int { return t.typ }

// NatLiteral is a literal nat value.
type NatLiteral struct {
	typed
	Value uint32
}

func (*NatLiteral) exprNode() {}

// BoolLiteral is a literal true/false.
type BoolLiteral struct {
	typed
	Value bool
}

func (*BoolLiteral) exprNode() {}

// Null is the null literal, carrying the reference type it was coerced to
// by the typechecker (spec.md §4.4.7). Type() is symtab.AnyObject only
// when the null appeared untyped (outside any assignment/equality/call
// context that could pin down a concrete reference type).
type Null struct{ typed }

func (*Null) exprNode() {}

// This is the receiver inside a method body. For an explicit this, Type()
// is the enclosing class's index; for the implicit receiver of an
// unqualified instance-field reference it is the field's declaring class
// (see implicitThis in translate.go).
type This struct{ typed }

func (*This) exprNode() {}

// Read is a readNat() call.
type Read struct{ typed }

func (*Read) exprNode() {}

// Print is a printNat(arg) call.
type Print struct {
	typed
	Arg Expr
}

func (*Print) exprNode() {}

// Not is a !operand.
type Not struct {
	typed
	Operand Expr
}

func (*Not) exprNode() {}

// BinOp identifies a binary operator.
type BinOp int

const (
	OpPlus BinOp = iota
	OpMinus
	OpTimes
	OpGreaterThan
	OpEquality
	OpAnd
)

// Binary is a two-operand expression: +, -, *, >, ==, or &&.
type Binary struct {
	typed
	Op          BinOp
	Left, Right Expr
}

func (*Binary) exprNode() {}

// LocalRef reads a local variable or parameter by name.
type LocalRef struct {
	typed
	Name string
}

func (*LocalRef) exprNode() {}

// InstanceField reads an instance field of Obj. DeclClass/Index locate the
// field's storage slot in the object layout (spec.md §4.4.1): DeclClass is
// the class that declares the field, Index its 0-based position among
// that class's own instance fields.
type InstanceField struct {
	typed
	Obj       Expr
	DeclClass int
	Index     int
}

func (*InstanceField) exprNode() {}

// StaticField reads a static field. DeclClass/Index locate the backing
// global. Obj is non-nil only when the field was reached through an
// instance expression (obj.staticField rather than ClassName.staticField)
// and must still be evaluated for its side effects before the static slot
// is read.
type StaticField struct {
	typed
	DeclClass int
	Index     int
	Obj       Expr
}

func (*StaticField) exprNode() {}

// AssignLocal stores Value into a local variable or parameter.
type AssignLocal struct {
	typed // always Nat, whatever the target's declared type; package llvm looks that type up itself
	Name  string
	Value Expr
}

func (*AssignLocal) exprNode() {}

// AssignInstanceField stores Value into an instance field of Obj.
type AssignInstanceField struct {
	typed
	Obj       Expr
	DeclClass int
	Index     int
	Value     Expr
}

func (*AssignInstanceField) exprNode() {}

// AssignStaticField stores Value into a static field. Obj is non-nil only
// when the field was reached through an instance expression, per
// StaticField.
type AssignStaticField struct {
	typed
	DeclClass int
	Index     int
	Obj       Expr
	Value     Expr
}

func (*AssignStaticField) exprNode() {}

// New allocates an instance of the class whose index is Type().
type New struct{ typed }

func (*New) exprNode() {}

// InstanceOf tests whether Obj is an instance of Class at runtime.
type InstanceOf struct {
	typed
	Obj   Expr
	Class int
}

func (*InstanceOf) exprNode() {}

// MethodCall is an unqualified method call, dispatched on the implicit
// this. DeclClass/Index name the method slot the static lookup resolved
// to; the code generator still dispatches dynamically through this's
// runtime class-id (spec.md §4.2/§4.4: static resolution picks the
// signature, dynamic dispatch picks the implementation).
type MethodCall struct {
	typed
	DeclClass int
	Index     int
	Arg       Expr
}

func (*MethodCall) exprNode() {}

// DotMethodCall is a qualified method call obj.m(arg).
type DotMethodCall struct {
	typed
	Obj       Expr
	DeclClass int
	Index     int
	Arg       Expr
}

func (*DotMethodCall) exprNode() {}

// If is a conditional expression; Type() is the join of Then and Else.
type If struct {
	typed
	Cond       Expr
	Then, Else []Expr
}

func (*If) exprNode() {}

// For is a for loop; Type() is always Nat.
type For struct {
	typed
	Init, Test, Update Expr
	Body               []Expr
}

func (*For) exprNode() {}
