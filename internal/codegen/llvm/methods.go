package llvm

import (
	"fmt"

	"github.com/dj-lang/dj2ll/internal/symtab"
	"github.com/dj-lang/dj2ll/internal/tast"
)

// genMethodFunc emits one `"<class>_method_<index>"` function (spec.md
// §4.4.2): receiver and parameter are spilled to stack slots alongside
// every declared local (locals zero/null-initialized on entry), then the
// translated body runs in order and its last value becomes the return.
func (g *Generator) genMethodFunc(method tast.Method) {
	class := g.table.Classes[method.ClassIdx]
	m := class.Methods[method.Index]

	g.resetCounters()
	g.locals = map[string]string{}
	g.localTypes = map[string]int{}
	g.enclosingClass = method.ClassIdx

	recvT := g.recordType(method.ClassIdx) + "*"
	paramT := g.llvmType(m.ParamType)
	retT := g.llvmType(m.ReturnType)
	fname := methodFuncName(class.Name, method.Index)

	g.emit(fmt.Sprintf("define %s @%s(%s %%this.in, %s %%param.in) {", retT, fname, recvT, paramT))
	g.startBlock("entry")

	thisSlot := g.nextReg()
	g.emit(fmt.Sprintf("  %s = alloca %s", thisSlot, recvT))
	g.emitStore(recvT, "%this.in", thisSlot)
	g.locals["this"] = thisSlot
	g.localTypes["this"] = method.ClassIdx

	paramSlot := g.nextReg()
	g.emit(fmt.Sprintf("  %s = alloca %s", paramSlot, paramT))
	g.emitStore(paramT, "%param.in", paramSlot)
	g.locals[m.ParamName] = paramSlot
	g.localTypes[m.ParamName] = m.ParamType

	g.declareLocals(m.Locals)

	val, typ := g.genExprList(method.Body)
	ret := g.castTo(val, typ, m.ReturnType)
	g.emit(fmt.Sprintf("  ret %s %s", retT, ret))
	g.emit("}")
	g.emit("")
}

// genMain emits the `main` function (spec.md §4.4.9): i32 return, a
// literal zero substituted when the main block's last expression isn't
// itself nat-typed.
func (g *Generator) genMain() {
	g.resetCounters()
	g.locals = map[string]string{}
	g.localTypes = map[string]int{}
	g.enclosingClass = -1

	g.emit("define i32 @main() {")
	g.startBlock("entry")
	g.declareLocals(g.table.Main.Locals)

	val, typ := g.genExprList(g.prog.MainBody)
	result := "0"
	if typ == symtab.Nat {
		result = val
	}
	g.emit(fmt.Sprintf("  ret i32 %s", result))
	g.emit("}")
}

func (g *Generator) declareLocals(locals []symtab.VarDecl) {
	for _, lv := range locals {
		slot := g.nextReg()
		lt := g.llvmType(lv.Type)
		g.emit(fmt.Sprintf("  %s = alloca %s", slot, lt))
		g.emitZeroInit(slot, lt)
		g.locals[lv.Name] = slot
		g.localTypes[lv.Name] = lv.Type
	}
}

// genExprList generates every expression in list in order, per spec.md
// §4.2/§4.3 ("the type of an expression list is the type of its last
// element"); an empty list (no statements) evaluates to a literal nat
// zero, matching the typechecker's treatment of an empty body.
func (g *Generator) genExprList(list []tast.Expr) (string, int) {
	if len(list) == 0 {
		return "0", symtab.Nat
	}
	var val string
	var typ int
	for _, e := range list {
		val, typ = g.genExpr(e)
	}
	return val, typ
}
