package types

import (
	"github.com/dj-lang/dj2ll/internal/ast"
	"github.com/dj-lang/dj2ll/internal/symtab"
)

// identResolution is the result of resolving a bare identifier against the
// current local/parameter scope and, when inside a method, the enclosing
// class's instance and static field chains (spec.md §4.2's ID lookup
// order: locals and parameters first, then instance fields, then static
// fields).
type identResolution struct {
	found     bool
	isLocal   bool
	typ       int
	declClass int
	isStatic  bool
	memberNum int
}

func (c *Checker) resolveIdent(name string) identResolution {
	if typ, ok := c.locals[name]; ok {
		return identResolution{found: true, isLocal: true, typ: typ}
	}
	if c.classIdx >= 0 {
		if declClass, field, pos, ok := c.table.FindInstanceField(c.classIdx, name); ok {
			return identResolution{found: true, typ: field.Type, declClass: declClass, memberNum: pos}
		}
		if declClass, field, pos, ok := c.table.FindStaticField(c.classIdx, name); ok {
			return identResolution{found: true, typ: field.Type, declClass: declClass, isStatic: true, memberNum: pos}
		}
	}
	return identResolution{}
}

// checkExpr typechecks a single expression node, writes its Decoration, and
// returns its resolved type code. It is the recursive evaluator spec.md
// §4.2 describes; every expression tag gets exactly one case.
func (c *Checker) checkExpr(n *ast.Node) int {
	switch n.Tag {
	case ast.NAT_LITERAL_EXPR:
		return c.decorate(n, symtab.Nat)
	case ast.TRUE_LITERAL_EXPR, ast.FALSE_LITERAL_EXPR:
		return c.decorate(n, symtab.Bool)
	case ast.NULL_EXPR:
		return c.decorate(n, symtab.AnyObject)
	case ast.READ_EXPR:
		return c.decorate(n, symtab.Nat)
	case ast.THIS_EXPR:
		return c.checkThis(n)
	case ast.PRINT_EXPR:
		return c.checkPrint(n)
	case ast.NOT_EXPR:
		return c.checkNot(n)
	case ast.PLUS_EXPR, ast.MINUS_EXPR, ast.TIMES_EXPR:
		return c.checkArith(n)
	case ast.GREATER_THAN_EXPR:
		return c.checkComparison(n)
	case ast.EQUALITY_EXPR:
		return c.checkEquality(n)
	case ast.AND_EXPR:
		return c.checkAnd(n)
	case ast.ID_EXPR:
		return c.checkID(n)
	case ast.ASSIGN_EXPR:
		return c.checkAssign(n)
	case ast.DOT_ID_EXPR:
		return c.checkDotID(n)
	case ast.DOT_ASSIGN_EXPR:
		return c.checkDotAssign(n)
	case ast.NEW_EXPR:
		return c.checkNew(n)
	case ast.INSTANCEOF_EXPR:
		return c.checkInstanceof(n)
	case ast.METHOD_CALL_EXPR:
		return c.checkMethodCall(n)
	case ast.DOT_METHOD_CALL_EXPR:
		return c.checkDotMethodCall(n)
	case ast.FOR_EXPR:
		return c.checkFor(n)
	case ast.IF_THEN_ELSE_EXPR:
		return c.checkIf(n)
	default:
		c.errorf(n.Line, "internal: unchecked expression tag %s", n.Tag)
		return c.decorate(n, symtab.Illegal)
	}
}

// decorate records a plain resolved type (no member reference) and returns
// it, the common case for literals and control-flow expressions.
func (c *Checker) decorate(n *ast.Node, typ int) int {
	n.Decoration = ast.Decoration{Set: true, ResolvedType: typ}
	return typ
}

func (c *Checker) checkThis(n *ast.Node) int {
	if c.classIdx < 0 {
		c.errorf(n.Line, "this cannot be used outside a method body")
		return c.decorate(n, symtab.Illegal)
	}
	n.Decoration = ast.Decoration{Set: true, ClassNum: c.classIdx, ResolvedType: c.classIdx}
	return c.classIdx
}

func (c *Checker) checkPrint(n *ast.Node) int {
	argType := c.checkExpr(n.Child(0))
	if argType != symtab.Illegal && argType != symtab.Nat {
		c.errorf(n.Child(0).Line, "printNat requires a nat argument, found %s", c.table.TypeName(argType))
	}
	return c.decorate(n, symtab.Nat)
}

func (c *Checker) checkNot(n *ast.Node) int {
	operand := c.checkExpr(n.UnaryOperand())
	if operand != symtab.Illegal && operand != symtab.Bool {
		c.errorf(n.Line, "! requires a bool operand, found %s", c.table.TypeName(operand))
	}
	return c.decorate(n, symtab.Bool)
}

func (c *Checker) checkArith(n *ast.Node) int {
	lt := c.checkExpr(n.BinaryLeft())
	rt := c.checkExpr(n.BinaryRight())
	if lt != symtab.Illegal && lt != symtab.Nat {
		c.errorf(n.BinaryLeft().Line, "%s requires nat operands, found %s", n.Tag, c.table.TypeName(lt))
	}
	if rt != symtab.Illegal && rt != symtab.Nat {
		c.errorf(n.BinaryRight().Line, "%s requires nat operands, found %s", n.Tag, c.table.TypeName(rt))
	}
	return c.decorate(n, symtab.Nat)
}

func (c *Checker) checkComparison(n *ast.Node) int {
	lt := c.checkExpr(n.BinaryLeft())
	rt := c.checkExpr(n.BinaryRight())
	if lt != symtab.Illegal && lt != symtab.Nat {
		c.errorf(n.BinaryLeft().Line, "> requires nat operands, found %s", c.table.TypeName(lt))
	}
	if rt != symtab.Illegal && rt != symtab.Nat {
		c.errorf(n.BinaryRight().Line, "> requires nat operands, found %s", c.table.TypeName(rt))
	}
	return c.decorate(n, symtab.Bool)
}

func (c *Checker) checkAnd(n *ast.Node) int {
	lt := c.checkExpr(n.BinaryLeft())
	rt := c.checkExpr(n.BinaryRight())
	if lt != symtab.Illegal && lt != symtab.Bool {
		c.errorf(n.BinaryLeft().Line, "&& requires bool operands, found %s", c.table.TypeName(lt))
	}
	if rt != symtab.Illegal && rt != symtab.Bool {
		c.errorf(n.BinaryRight().Line, "&& requires bool operands, found %s", c.table.TypeName(rt))
	}
	return c.decorate(n, symtab.Bool)
}

// checkEquality implements spec.md §4.2's equality rule: both sides nat,
// both sides bool, or both sides reference-compatible (including null on
// either or both sides). A null child's required coercion target is
// recorded on the node for the code generator (spec.md §4.4.7).
func (c *Checker) checkEquality(n *ast.Node) int {
	left := n.BinaryLeft()
	right := n.BinaryRight()
	lt := c.checkExpr(left)
	rt := c.checkExpr(right)

	switch {
	case lt == symtab.Illegal || rt == symtab.Illegal:
		// already reported below it.
	case lt == symtab.Nat && rt == symtab.Nat:
	case lt == symtab.Bool && rt == symtab.Bool:
	case IsReference(lt) && IsReference(rt):
	default:
		c.errorf(n.Line, "== requires two nat, two bool, or two compatible reference operands, found %s and %s",
			c.table.TypeName(lt), c.table.TypeName(rt))
	}

	n.Decoration = ast.Decoration{Set: true, ResolvedType: symtab.Bool}
	switch {
	case left.Tag == ast.NULL_EXPR && right.Tag == ast.NULL_EXPR:
		n.Decoration.HasNullChild = true
		n.Decoration.NullCoercionType = symtab.AnyObject
	case left.Tag == ast.NULL_EXPR:
		n.Decoration.HasNullChild = true
		n.Decoration.NullCoercionType = rt
	case right.Tag == ast.NULL_EXPR:
		n.Decoration.HasNullChild = true
		n.Decoration.NullCoercionType = lt
	}
	return symtab.Bool
}

func (c *Checker) checkID(n *ast.Node) int {
	r := c.resolveIdent(n.Name)
	if !r.found {
		c.errorf(n.Line, "undefined identifier %q", n.Name)
		return c.decorate(n, symtab.Illegal)
	}
	if r.isLocal {
		return c.decorate(n, r.typ)
	}
	n.Decoration = ast.Decoration{Set: true, IsMember: true, ClassNum: r.declClass, IsStaticVar: r.isStatic, MemberNum: r.memberNum, ResolvedType: r.typ}
	return r.typ
}

// checkAssign implements spec.md §4.2's assignment rule: the right-hand
// side must be a subtype of the left-hand identifier's declared type
// (locals, instance fields, and static fields are all assignable).
func (c *Checker) checkAssign(n *ast.Node) int {
	idNode := n.AssignID()
	valNode := n.AssignVal()

	r := c.resolveIdent(idNode.Name)
	if !r.found {
		c.errorf(idNode.Line, "undefined identifier %q", idNode.Name)
		c.checkExpr(valNode)
		return c.decorate(n, symtab.Illegal)
	}
	if r.isLocal {
		idNode.Decoration = ast.Decoration{Set: true, ResolvedType: r.typ}
	} else {
		idNode.Decoration = ast.Decoration{Set: true, IsMember: true, ClassNum: r.declClass, IsStaticVar: r.isStatic, MemberNum: r.memberNum, ResolvedType: r.typ}
	}

	valType := c.checkExpr(valNode)
	c.checkAssignable(n, valNode, valType, r.typ)
	return symtab.Nat
}

// checkAssignable reports a type error unless valType may be stored into a
// location of type targetType, and records the null-coercion decoration
// assignments need when the value side is a null literal.
func (c *Checker) checkAssignable(n, valNode *ast.Node, valType, targetType int) {
	if valType != symtab.Illegal && !IsSubtype(c.table, valType, targetType) {
		c.errorf(valNode.Line, "cannot assign %s to a location of type %s", c.table.TypeName(valType), c.table.TypeName(targetType))
	}
	if valNode.Tag == ast.NULL_EXPR {
		n.Decoration.HasNullChild = true
		n.Decoration.NullCoercionType = targetType
	}
	n.Decoration.Set = true
	n.Decoration.ResolvedType = symtab.Nat
}

// checkDotID implements spec.md §4.2's field access rule. The object
// expression ordinarily names a reference-typed value whose class (and
// ancestors) are searched for the field. When the object expression is a
// bare identifier that does not resolve in the current scope but does
// name a declared class, it is instead treated as a static-field
// qualifier ("ClassName.field"), matching the dj examples (spec.md §8's
// S5) that reach a static field this way.
func (c *Checker) checkDotID(n *ast.Node) int {
	objNode := n.DotIDObj()
	fieldNode := n.DotIDName()

	if objNode.Tag == ast.ID_EXPR {
		if r := c.resolveIdent(objNode.Name); !r.found {
			if classIdx := c.table.ClassByName(objNode.Name); classIdx >= 0 {
				return c.checkStaticQualifiedField(n, objNode, fieldNode, classIdx)
			}
		}
	}

	objType := c.checkExpr(objNode)
	return c.checkInstanceField(n, objNode, fieldNode, objType)
}

func (c *Checker) checkStaticQualifiedField(n, objNode, fieldNode *ast.Node, classIdx int) int {
	declClass, field, pos, ok := c.table.FindStaticField(classIdx, fieldNode.Name)
	if !ok {
		c.errorf(fieldNode.Line, "class %q has no static field %q", objNode.Name, fieldNode.Name)
		return c.decorate(n, symtab.Illegal)
	}
	objNode.Decoration = ast.Decoration{Set: true, ClassNum: classIdx, ResolvedType: symtab.Illegal}
	n.Decoration = ast.Decoration{Set: true, IsMember: true, ClassNum: declClass, IsStaticVar: true, MemberNum: pos, ResolvedType: field.Type}
	return field.Type
}

func (c *Checker) checkInstanceField(n, objNode, fieldNode *ast.Node, objType int) int {
	if objType == symtab.Illegal {
		return c.decorate(n, symtab.Illegal)
	}
	if !IsReference(objType) {
		c.errorf(objNode.Line, "field access requires a reference type, found %s", c.table.TypeName(objType))
		return c.decorate(n, symtab.Illegal)
	}
	if objType == symtab.AnyObject {
		c.errorf(objNode.Line, "cannot access a field through null")
		return c.decorate(n, symtab.Illegal)
	}
	if declClass, field, pos, ok := c.table.FindInstanceField(objType, fieldNode.Name); ok {
		n.Decoration = ast.Decoration{Set: true, IsMember: true, ClassNum: declClass, MemberNum: pos, ResolvedType: field.Type}
		return field.Type
	}
	if declClass, field, pos, ok := c.table.FindStaticField(objType, fieldNode.Name); ok {
		n.Decoration = ast.Decoration{Set: true, IsMember: true, ClassNum: declClass, IsStaticVar: true, MemberNum: pos, ResolvedType: field.Type}
		return field.Type
	}
	c.errorf(fieldNode.Line, "%s has no field %q", c.table.TypeName(objType), fieldNode.Name)
	return c.decorate(n, symtab.Illegal)
}

func (c *Checker) checkDotAssign(n *ast.Node) int {
	objNode := n.DotAssignObj()
	fieldNode := n.DotAssignName()
	valNode := n.DotAssignVal()

	fieldRef := ast.New(ast.DOT_ID_EXPR, n.Line, objNode, fieldNode)
	fieldType := c.checkDotID(fieldRef)
	n.Decoration = fieldRef.Decoration

	valType := c.checkExpr(valNode)
	c.checkAssignable(n, valNode, valType, fieldType)
	n.Decoration.ResolvedType = symtab.Nat
	return symtab.Nat
}

func (c *Checker) checkNew(n *ast.Node) int {
	nameNode := n.NewClassName()
	classIdx := c.table.ClassByName(nameNode.Name)
	if classIdx < 0 {
		c.errorf(nameNode.Line, "undefined class %q", nameNode.Name)
		return c.decorate(n, symtab.Illegal)
	}
	n.Decoration = ast.Decoration{Set: true, ClassNum: classIdx, ResolvedType: classIdx}
	return classIdx
}

func (c *Checker) checkInstanceof(n *ast.Node) int {
	objNode := n.InstanceOfObj()
	typeNode := n.InstanceOfType()

	objType := c.checkExpr(objNode)
	if objType != symtab.Illegal && !IsReference(objType) {
		c.errorf(objNode.Line, "instanceof requires a reference-typed operand, found %s", c.table.TypeName(objType))
	}

	classIdx := c.table.ClassByName(typeNode.Name)
	if classIdx < 0 {
		c.errorf(typeNode.Line, "undefined class %q", typeNode.Name)
		return c.decorate(n, symtab.Bool)
	}
	n.Decoration = ast.Decoration{Set: true, ClassNum: classIdx, ResolvedType: symtab.Bool}
	return symtab.Bool
}

// checkMethodCall implements spec.md §4.2's unqualified method call: legal
// only inside a method body, where it implicitly dispatches on this,
// starting the method lookup at the enclosing class.
func (c *Checker) checkMethodCall(n *ast.Node) int {
	nameNode := n.MethodCallName()
	argNode := n.MethodCallArg()
	argType := c.checkExpr(argNode)

	if c.classIdx < 0 {
		c.errorf(n.Line, "unqualified method call %q is not allowed in main (no enclosing this)", nameNode.Name)
		return c.decorate(n, symtab.Illegal)
	}
	declClass, m, pos, ok := c.table.FindMethod(c.classIdx, nameNode.Name)
	if !ok {
		c.errorf(nameNode.Line, "undefined method %q", nameNode.Name)
		return c.decorate(n, symtab.Illegal)
	}
	if argType != symtab.Illegal && !IsSubtype(c.table, argType, m.ParamType) {
		c.errorf(argNode.Line, "method %q expects %s, found %s", m.Name, c.table.TypeName(m.ParamType), c.table.TypeName(argType))
	}
	n.Decoration = ast.Decoration{Set: true, ClassNum: declClass, MemberNum: pos, ResolvedType: m.ReturnType}
	if argNode.Tag == ast.NULL_EXPR {
		n.Decoration.HasNullChild = true
		n.Decoration.NullCoercionType = m.ParamType
	}
	return m.ReturnType
}

// checkDotMethodCall implements spec.md §4.2's qualified method call: the
// receiver's static type is looked up for the method, starting from its
// declared class (dynamic dispatch at runtime is the code generator's
// concern, not the typechecker's).
func (c *Checker) checkDotMethodCall(n *ast.Node) int {
	objNode := n.DotMethodCallObj()
	nameNode := n.DotMethodCallName()
	argNode := n.DotMethodCallArg()

	objType := c.checkExpr(objNode)
	argType := c.checkExpr(argNode)

	if objType == symtab.Illegal {
		return c.decorate(n, symtab.Illegal)
	}
	if !IsReference(objType) || objType == symtab.AnyObject {
		c.errorf(objNode.Line, "method call requires a non-null reference receiver, found %s", c.table.TypeName(objType))
		return c.decorate(n, symtab.Illegal)
	}
	declClass, m, pos, ok := c.table.FindMethod(objType, nameNode.Name)
	if !ok {
		c.errorf(nameNode.Line, "%s has no method %q", c.table.TypeName(objType), nameNode.Name)
		return c.decorate(n, symtab.Illegal)
	}
	if argType != symtab.Illegal && !IsSubtype(c.table, argType, m.ParamType) {
		c.errorf(argNode.Line, "method %q expects %s, found %s", m.Name, c.table.TypeName(m.ParamType), c.table.TypeName(argType))
	}
	n.Decoration = ast.Decoration{Set: true, ClassNum: declClass, MemberNum: pos, ResolvedType: m.ReturnType}
	if argNode.Tag == ast.NULL_EXPR {
		n.Decoration.HasNullChild = true
		n.Decoration.NullCoercionType = m.ParamType
	}
	return m.ReturnType
}

func (c *Checker) checkFor(n *ast.Node) int {
	c.checkExpr(n.ForInit())
	testType := c.checkExpr(n.ForTest())
	if testType != symtab.Illegal && testType != symtab.Bool {
		c.errorf(n.ForTest().Line, "for loop test must be bool, found %s", c.table.TypeName(testType))
	}
	c.checkExpr(n.ForUpdate())
	c.checkExprList(n.ForBody())
	return c.decorate(n, symtab.Nat)
}

// checkIf implements spec.md §4.2's conditional: the condition must be
// bool, and the expression's type is the join of its two branches (each a
// braced or single-expression block, parsed as an EXPR_LIST).
func (c *Checker) checkIf(n *ast.Node) int {
	condType := c.checkExpr(n.IfCond())
	if condType != symtab.Illegal && condType != symtab.Bool {
		c.errorf(n.IfCond().Line, "if condition must be bool, found %s", c.table.TypeName(condType))
	}
	thenType := c.checkExprList(n.IfThen())
	elseType := c.checkExprList(n.IfElse())

	joined, ok := Join(c.table, thenType, elseType)
	if !ok {
		c.errorf(n.Line, "if branches have incompatible types: %s and %s", c.table.TypeName(thenType), c.table.TypeName(elseType))
		joined = symtab.Illegal
	}
	n.Decoration = ast.Decoration{Set: true, ClassNum: joinClassNum(joined), ResolvedType: joined}
	return joined
}

// joinClassNum returns joined when it names a class, so the code generator
// can recover the join type (needed to coerce a null branch) directly from
// the node's decoration without recomputing Join.
func joinClassNum(joined int) int {
	if joined >= symtab.Object {
		return joined
	}
	return 0
}
