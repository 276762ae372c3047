package llvm

import (
	"fmt"

	"github.com/dj-lang/dj2ll/internal/symtab"
	"github.com/dj-lang/dj2ll/internal/tast"
)

// genExpr lowers one typed expression and returns the LLVM operand
// holding its value together with the type code that operand's LLVM type
// actually represents. That type is usually e.Type(), except for *tast.This
// (see genThis) and the three Assign* nodes, which translate.go hardcodes
// to Nat (spec.md §4.2 gives assignment the LHS's type; this generator
// returns the assigned location's declared type, looked up in the symbol
// table, rather than threading that fix through the typechecker and
// translator).
func (g *Generator) genExpr(e tast.Expr) (string, int) {
	switch n := e.(type) {
	case *tast.NatLiteral:
		return fmt.Sprintf("%d", n.Value), symtab.Nat
	case *tast.BoolLiteral:
		if n.Value {
			return "true", symtab.Bool
		}
		return "false", symtab.Bool
	case *tast.Null:
		return g.genNull(n), n.Type()
	case *tast.This:
		return g.genThis()
	case *tast.Read:
		return g.genRead(), symtab.Nat
	case *tast.Print:
		return g.genPrint(n)
	case *tast.Not:
		return g.genNot(n)
	case *tast.Binary:
		return g.genBinary(n)
	case *tast.LocalRef:
		return g.genLocalRef(n)
	case *tast.InstanceField:
		return g.genInstanceFieldRead(n)
	case *tast.StaticField:
		return g.genStaticFieldRead(n)
	case *tast.AssignLocal:
		return g.genAssignLocal(n)
	case *tast.AssignInstanceField:
		return g.genAssignInstanceField(n)
	case *tast.AssignStaticField:
		return g.genAssignStaticField(n)
	case *tast.New:
		return g.genNew(n)
	case *tast.InstanceOf:
		return g.genInstanceOf(n)
	case *tast.MethodCall:
		return g.genMethodCall(n)
	case *tast.DotMethodCall:
		return g.genDotMethodCall(n)
	case *tast.If:
		return g.genIf(n)
	case *tast.For:
		return g.genFor(n)
	}
	panic(fmt.Sprintf("llvm: unhandled tast node %T", e))
}

func (g *Generator) genNull(n *tast.Null) string {
	// An untyped null (one no assignment, argument, or equality pinned to
	// a class: an if arm, an instanceof subject, a method body's result, a
	// bare statement) is an i8* null (see llvmType), which castTo bitcasts
	// wherever it flows into a class-typed context. A coerced null is a
	// null pointer of its class's record type.
	return "null"
}

// genThis returns the receiver, typed to the enclosing method's own
// declaring class (enclosingClass) rather than n.Type(). A This node's
// Type() is sometimes an ancestor class - translate.go's implicitThis
// types it to a field's declaring class, which may be a superclass of
// the method actually running - but the `this` parameter's real LLVM
// type is always the method's own receiver type (spec.md §4.4.2 fixes
// the signature to "ptr-to-class_i"), and that class is itself always a
// subtype of any ancestor field decoration names, so every caller can use
// it directly as the `from` type in instanceFieldOffset without a
// bitcast (spec.md §8 invariant 2: the offset is valid for any subtype of
// the declaring class, not only the exact declaring class).
func (g *Generator) genThis() (string, int) {
	slot := g.locals["this"]
	t := g.llvmType(g.enclosingClass)
	return g.emitLoad(t, slot), g.enclosingClass
}

func (g *Generator) genRead() string {
	slot := g.nextReg()
	g.emit(fmt.Sprintf("  %s = alloca i32", slot))
	g.emitZeroInit(slot, "i32")
	prompt := g.nextReg()
	g.emit(fmt.Sprintf("  %s = call i32 (i8*, ...) @printf(i8* getelementptr inbounds ([25 x i8], [25 x i8]* @.readnat.prompt, i32 0, i32 0))", prompt))
	scan := g.nextReg()
	g.emit(fmt.Sprintf("  %s = call i32 (i8*, ...) @scanf(i8* getelementptr inbounds ([3 x i8], [3 x i8]* @.scanf.nat, i32 0, i32 0), i32* %s)", scan, slot))
	// scanf's return value is discarded: on a failed scan the slot keeps
	// whatever it held before (zero, here, since it was just
	// zero-initialized), matching original_source's unchecked scanf call
	// (spec.md SUPPLEMENTED FEATURES, point 3).
	return g.emitLoad("i32", slot)
}

func (g *Generator) genPrint(n *tast.Print) (string, int) {
	val, _ := g.genExpr(n.Arg)
	reg := g.nextReg()
	g.emit(fmt.Sprintf("  %s = call i32 (i8*, ...) @printf(i8* getelementptr inbounds ([4 x i8], [4 x i8]* @.printnat.fmt, i32 0, i32 0), i32 %s)", reg, val))
	return val, symtab.Nat
}

func (g *Generator) genNot(n *tast.Not) (string, int) {
	val, _ := g.genExpr(n.Operand)
	reg := g.nextReg()
	g.emit(fmt.Sprintf("  %s = xor i1 %s, true", reg, val))
	return reg, symtab.Bool
}

func (g *Generator) genLocalRef(n *tast.LocalRef) (string, int) {
	slot := g.locals[n.Name]
	lt := g.llvmType(n.Type())
	return g.emitLoad(lt, slot), n.Type()
}

func (g *Generator) genInstanceFieldRead(n *tast.InstanceField) (string, int) {
	objVal, objType := g.genExpr(n.Obj)
	elem := g.recordType(objType)
	idx := instanceFieldOffset(g.table, objType, n.DeclClass, n.Index)
	gep := g.emitGEP(elem, elem+"*", objVal, idx)
	ft := g.llvmType(n.Type())
	return g.emitLoad(ft, gep), n.Type()
}

func (g *Generator) genStaticFieldRead(n *tast.StaticField) (string, int) {
	if n.Obj != nil {
		g.genExpr(n.Obj)
	}
	name := g.staticFieldGlobal(n.DeclClass, n.Index)
	ft := g.llvmType(n.Type())
	return g.emitLoad(ft, "@"+name), n.Type()
}

func (g *Generator) genAssignLocal(n *tast.AssignLocal) (string, int) {
	val, valType := g.genExpr(n.Value)
	declared := g.localTypes[n.Name]
	val = g.castTo(val, valType, declared)
	lt := g.llvmType(declared)
	g.emitStore(lt, val, g.locals[n.Name])
	return val, declared
}

func (g *Generator) genAssignInstanceField(n *tast.AssignInstanceField) (string, int) {
	objVal, objType := g.genExpr(n.Obj)
	val, valType := g.genExpr(n.Value)
	declared := g.table.Classes[n.DeclClass].InstanceVars[n.Index].Type
	val = g.castTo(val, valType, declared)

	elem := g.recordType(objType)
	idx := instanceFieldOffset(g.table, objType, n.DeclClass, n.Index)
	gep := g.emitGEP(elem, elem+"*", objVal, idx)
	g.emitStore(g.llvmType(declared), val, gep)
	return val, declared
}

func (g *Generator) genAssignStaticField(n *tast.AssignStaticField) (string, int) {
	if n.Obj != nil {
		g.genExpr(n.Obj)
	}
	val, valType := g.genExpr(n.Value)
	declared := g.table.Classes[n.DeclClass].StaticVars[n.Index].Type
	val = g.castTo(val, valType, declared)
	name := g.staticFieldGlobal(n.DeclClass, n.Index)
	g.emitStore(g.llvmType(declared), val, "@"+name)
	return val, declared
}

// genNew allocates storage for the class via calloc (spec.md §4.4.8
// requires fields to come back zero/null-initialized; calloc guarantees
// that directly, unlike original_source's raw malloc, which relies on an
// unstated assumption about allocator behavior - see DESIGN.md), then
// writes the self-pointer and class-id header fields.
func (g *Generator) genNew(n *tast.New) (string, int) {
	class := n.Type()
	elem := g.recordType(class)
	ptrT := elem + "*"

	sizePtr := g.nextReg()
	g.emit(fmt.Sprintf("  %s = getelementptr %s, %s null, i32 1", sizePtr, elem, ptrT))
	sizeInt := g.nextReg()
	g.emit(fmt.Sprintf("  %s = ptrtoint %s %s to i64", sizeInt, ptrT, sizePtr))
	raw := g.nextReg()
	g.emit(fmt.Sprintf("  %s = call i8* @calloc(i64 1, i64 %s)", raw, sizeInt))
	obj := g.nextReg()
	g.emit(fmt.Sprintf("  %s = bitcast i8* %s to %s", obj, raw, ptrT))

	selfGep := g.emitGEP(elem, ptrT, obj, 0)
	g.emitStore(ptrT, obj, selfGep)
	idGep := g.emitGEP(elem, ptrT, obj, 1)
	g.emit(fmt.Sprintf("  store i32 %d, i32* %s", class, idGep))

	return obj, class
}

// genInstanceOf short-circuits to false for a null subject (spec.md
// §4.4.4) before ever loading its class-id, then defers to ITable.
func (g *Generator) genInstanceOf(n *tast.InstanceOf) (string, int) {
	objVal, objType := g.genExpr(n.Obj)
	if objType == symtab.AnyObject {
		// An untyped null literal (IsReference accepts AnyObject as a
		// legal instanceof operand) has no record type to GEP into; it is
		// never an instance of anything.
		return "false", symtab.Bool
	}
	elem := g.recordType(objType)
	ptrT := elem + "*"

	isNull := g.nextReg()
	g.emit(fmt.Sprintf("  %s = icmp eq %s %s, null", isNull, ptrT, objVal))
	notNullL, nullL, endL := g.nextLabel(), g.nextLabel(), g.nextLabel()
	g.emit(fmt.Sprintf("  br i1 %s, label %%%s, label %%%s", isNull, nullL, notNullL))

	g.startBlock(notNullL)
	idGep := g.emitGEP(elem, ptrT, objVal, 1)
	idReg := g.emitLoad("i32", idGep)
	call := g.nextReg()
	g.emit(fmt.Sprintf("  %s = call i1 @ITable(i32 %s, i32 %d)", call, idReg, n.Class))
	g.emit(fmt.Sprintf("  br label %%%s", endL))
	notNullEnd := g.curBlock

	g.startBlock(nullL)
	g.emit(fmt.Sprintf("  br label %%%s", endL))
	nullEnd := g.curBlock

	g.startBlock(endL)
	phi := g.nextReg()
	g.emit(fmt.Sprintf("  %s = phi i1 [ %s, %%%s ], [ false, %%%s ]", phi, call, notNullEnd, nullEnd))
	return phi, symtab.Bool
}
