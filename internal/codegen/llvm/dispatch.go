package llvm

import (
	"fmt"

	"github.com/dj-lang/dj2ll/internal/symtab"
	"github.com/dj-lang/dj2ll/internal/tast"
)

// genMethodCall lowers an unqualified method call (spec.md §4.2 implicit
// receiver) by dispatching through the same bucketed-VTable path as an
// explicit obj.method(...) call, with `this` as the receiver.
func (g *Generator) genMethodCall(n *tast.MethodCall) (string, int) {
	thisVal, thisType := g.genThis()
	return g.genDispatchCall(thisVal, thisType, n.DeclClass, n.Index, n.Arg)
}

func (g *Generator) genDotMethodCall(n *tast.DotMethodCall) (string, int) {
	objVal, objType := g.genExpr(n.Obj)
	return g.genDispatchCall(objVal, objType, n.DeclClass, n.Index, n.Arg)
}

// genDispatchCall lowers every method call (spec.md §4.4.3): the receiver
// and argument are widened to their dispatcher's generic bucket types,
// classNum/memberNum (the call site's statically-resolved declaring class
// and method index) are passed as integer literals, and the dispatcher
// selected by bucketing the method's DECLARED signature does the actual
// runtime-class lookup. declClass/index name where the call was resolved
// statically - not necessarily where the actual override lives, which is
// exactly what the dispatcher exists to find at runtime.
func (g *Generator) genDispatchCall(objVal string, objType, declClass, index int, argExpr tast.Expr) (string, int) {
	method := g.table.Classes[declClass].Methods[index]
	retType := method.ReturnType
	paramType := method.ParamType

	argVal, argType := g.genExpr(argExpr)
	argVal = g.castTo(argVal, argType, paramType)

	recvBucket := g.coerceForDispatch(objVal, objType)
	argBucket := g.coerceForDispatch(argVal, paramType)

	dfn := dispatcherFuncName(retType, paramType)
	retBucketT := g.bucketLLVMType(retType)
	paramBucketT := g.bucketLLVMType(paramType)
	objBucketT := g.bucketLLVMType(symtab.Object)

	reg := g.nextReg()
	g.emit(fmt.Sprintf("  %s = call %s @%s(%s %s, i32 %d, i32 %d, %s %s)",
		reg, retBucketT, dfn, objBucketT, recvBucket, declClass, index, paramBucketT, argBucket))
	return g.castFromDispatch(reg, retType), retType
}

// coerceForDispatch widens val (of exact type concrete) to the generic
// bucket representation a dispatcher's signature actually uses: every
// reference type collapses to %class.Object*, nat and bool pass through
// unchanged since their bucket type already matches their own.
func (g *Generator) coerceForDispatch(val string, concrete int) string {
	if bucketName(concrete) != "Object" {
		return val
	}
	return g.castTo(val, concrete, symtab.Object)
}

// castFromDispatch narrows a dispatcher's generic bucket return value
// back down to the call's actual declared return type.
func (g *Generator) castFromDispatch(val string, declared int) string {
	if bucketName(declared) != "Object" {
		return val
	}
	return g.castTo(val, symtab.Object, declared)
}
