package llvm

import (
	"fmt"

	"github.com/dj-lang/dj2ll/internal/symtab"
	"github.com/dj-lang/dj2ll/internal/tast"
)

// genBinary dispatches on n.Op; And and Equality need their own
// control-flow (short-circuit, both-null fast path) so they live here
// rather than falling through to a single arithmetic emitter.
func (g *Generator) genBinary(n *tast.Binary) (string, int) {
	switch n.Op {
	case tast.OpAnd:
		return g.genAnd(n)
	case tast.OpEquality:
		return g.genEquality(n)
	}

	lval, _ := g.genExpr(n.Left)
	rval, _ := g.genExpr(n.Right)
	reg := g.nextReg()
	switch n.Op {
	case tast.OpPlus:
		g.emit(fmt.Sprintf("  %s = add i32 %s, %s", reg, lval, rval))
		return reg, symtab.Nat
	case tast.OpMinus:
		g.emit(fmt.Sprintf("  %s = sub i32 %s, %s", reg, lval, rval))
		return reg, symtab.Nat
	case tast.OpTimes:
		g.emit(fmt.Sprintf("  %s = mul i32 %s, %s", reg, lval, rval))
		return reg, symtab.Nat
	case tast.OpGreaterThan:
		g.emit(fmt.Sprintf("  %s = icmp ugt i32 %s, %s", reg, lval, rval))
		return reg, symtab.Bool
	}
	panic("llvm: unhandled binary op")
}

// genAnd short-circuits (spec.md §4.4.6): the right operand is only
// evaluated, and its side effects only happen, when the left one is true.
func (g *Generator) genAnd(n *tast.Binary) (string, int) {
	lval, _ := g.genExpr(n.Left)
	lEnd := g.curBlock

	rhsL, mergeL := g.nextLabel(), g.nextLabel()
	g.emit(fmt.Sprintf("  br i1 %s, label %%%s, label %%%s", lval, rhsL, mergeL))

	g.startBlock(rhsL)
	rval, _ := g.genExpr(n.Right)
	rEnd := g.curBlock
	g.emit(fmt.Sprintf("  br label %%%s", mergeL))

	g.startBlock(mergeL)
	phi := g.nextReg()
	g.emit(fmt.Sprintf("  %s = phi i1 [ false, %%%s ], [ %s, %%%s ]", phi, lEnd, rval, rEnd))
	return phi, symtab.Bool
}

// genEquality short-circuits a both-null-literal comparison to a literal
// true without generating either side (spec.md §4.4.7: a null has no
// representation to compare when its static class can't be determined).
// A null literal on one side is coerced by tast.translateCoerced to the
// other side's concrete type, so the two sides then already agree. But
// two non-null reference operands can still be declared as different
// classes (e.g. comparing an A-typed and a B-typed variable, both
// legal per checkEquality) and arrive as distinct pointer types; those
// are widened to the common %class.Object* bucket before the compare so
// the emitted icmp always has matching operand types.
func (g *Generator) genEquality(n *tast.Binary) (string, int) {
	if isUntypedNull(n.Left) && isUntypedNull(n.Right) {
		return "true", symtab.Bool
	}
	lval, ltype := g.genExpr(n.Left)
	rval, rtype := g.genExpr(n.Right)
	cmpType := ltype
	if ltype != rtype {
		cmpType = symtab.Object
		lval = g.castTo(lval, ltype, cmpType)
		rval = g.castTo(rval, rtype, cmpType)
	}
	reg := g.nextReg()
	g.emit(fmt.Sprintf("  %s = icmp eq %s %s, %s", reg, g.llvmType(cmpType), lval, rval))
	return reg, symtab.Bool
}

func isUntypedNull(e tast.Expr) bool {
	n, ok := e.(*tast.Null)
	return ok && n.Type() == symtab.AnyObject
}

// genIf lowers an if-then-else (spec.md §4.4.5). The merge block's phi
// uses the actual LLVM representation of the branches' joined type (i32,
// i1, or a pointer), not literally i32 as the spec's illustrative wording
// states: an if whose arms both produce a bool or an object (scenarios
// S3/S4) must still hand back a usable bool/pointer operand, not an i32
// the caller would need to reinterpret. Each arm's result is cast up to
// n.Type() before reaching the phi so divergent concrete subclasses in
// the two arms still produce one well-typed value.
func (g *Generator) genIf(n *tast.If) (string, int) {
	cond, _ := g.genExpr(n.Cond)
	thenL, elseL, mergeL := g.nextLabel(), g.nextLabel(), g.nextLabel()
	g.emit(fmt.Sprintf("  br i1 %s, label %%%s, label %%%s", cond, thenL, elseL))

	g.startBlock(thenL)
	thenVal, thenType := g.genExprList(n.Then)
	thenVal = g.castTo(thenVal, thenType, n.Type())
	thenEnd := g.curBlock
	g.emit(fmt.Sprintf("  br label %%%s", mergeL))

	g.startBlock(elseL)
	elseVal, elseType := g.genExprList(n.Else)
	elseVal = g.castTo(elseVal, elseType, n.Type())
	elseEnd := g.curBlock
	g.emit(fmt.Sprintf("  br label %%%s", mergeL))

	g.startBlock(mergeL)
	jt := g.llvmType(n.Type())
	phi := g.nextReg()
	g.emit(fmt.Sprintf("  %s = phi %s [ %s, %%%s ], [ %s, %%%s ]", phi, jt, thenVal, thenEnd, elseVal, elseEnd))
	return phi, n.Type()
}

// genFor lowers a for loop (spec.md §4.4.5) as header/body/update blocks:
// init runs once in the entry block, the header tests and conditionally
// falls through to the body, the body runs then jumps to update, and
// update jumps back to the header. The typechecker types every for as
// nat, and the value returned is always a nat zero (the loop may run zero
// times, so there is no iteration value to hand back).
func (g *Generator) genFor(n *tast.For) (string, int) {
	g.genExpr(n.Init)

	headerL, bodyL, updateL, doneL := g.nextLabel(), g.nextLabel(), g.nextLabel(), g.nextLabel()
	g.emit(fmt.Sprintf("  br label %%%s", headerL))

	g.startBlock(headerL)
	cond, _ := g.genExpr(n.Test)
	g.emit(fmt.Sprintf("  br i1 %s, label %%%s, label %%%s", cond, bodyL, doneL))

	g.startBlock(bodyL)
	g.genExprList(n.Body)
	g.emit(fmt.Sprintf("  br label %%%s", updateL))

	g.startBlock(updateL)
	g.genExpr(n.Update)
	g.emit(fmt.Sprintf("  br label %%%s", headerL))

	g.startBlock(doneL)
	return "0", symtab.Nat
}
