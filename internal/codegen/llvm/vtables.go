package llvm

import (
	"fmt"

	"github.com/dj-lang/dj2ll/internal/symtab"
)

// genVTableDispatchers synthesizes the nine "<Ret>VTable<Param>" functions
// (spec.md §4.4.3): one per combination of the three dispatch buckets
// (Nat, Bool, Object) across a method's declared return and parameter
// type. Every virtual call in the program routes through whichever of
// the nine matches its statically-declared signature's bucket.
func (g *Generator) genVTableDispatchers() {
	buckets := []int{symtab.Nat, symtab.Bool, symtab.Object}
	for _, ret := range buckets {
		for _, param := range buckets {
			g.genVTableDispatcher(ret, param)
		}
	}
}

// genVTableDispatcher emits one dispatcher. Its body is a nested lookup:
// the outer loop ranges over every (declaring class j, method index k)
// whose declared signature buckets to (retRep, paramRep), guarded by a
// runtime check against the classNum/memberNum the call site passed in;
// the inner loop ranges over every concrete class i that could actually
// reach that call site (i.e. every subtype of j), resolving the override
// FindMethod(i, name) picks and calling straight into it. classNum and
// memberNum are never a runtime class's own identity, only the call
// site's static resolution - that's why the receiver's own class id is
// loaded fresh here rather than trusted from the caller.
func (g *Generator) genVTableDispatcher(retRep, paramRep int) {
	retT := g.bucketLLVMType(retRep)
	paramT := g.bucketLLVMType(paramRep)
	objT := g.bucketLLVMType(symtab.Object)
	fname := dispatcherFuncName(retRep, paramRep)

	g.resetCounters()
	g.emit(fmt.Sprintf("define %s @%s(%s %%recv, i32 %%classNum, i32 %%memberNum, %s %%arg) {", retT, fname, objT, paramT))
	g.startBlock("entry")

	idGep := g.emitGEP(g.recordType(symtab.Object), objT, "%recv", 1)
	runtimeID := g.emitLoad("i32", idGep)

	for j := 1; j < len(g.table.Classes); j++ {
		class := g.table.Classes[j]
		for k, m := range class.Methods {
			if !sameBucket(m.ReturnType, retRep) || !sameBucket(m.ParamType, paramRep) {
				continue
			}
			g.genDispatchBranch(j, k, m.Name, runtimeID, retRep, paramRep)
		}
	}

	g.emit(fmt.Sprintf("  ret %s %s", retT, bucketZero(retRep)))
	g.emit("}")
	g.emit("")
}

// genDispatchBranch guards one (declClass, index) call-site resolution
// behind a classNum/memberNum match, then resolves and calls the actual
// override for every concrete class that could reach it.
func (g *Generator) genDispatchBranch(declClass, index int, methodName, runtimeID string, retRep, paramRep int) {
	matchL, nextL := g.nextLabel(), g.nextLabel()
	isClass := g.nextReg()
	g.emit(fmt.Sprintf("  %s = icmp eq i32 %%classNum, %d", isClass, declClass))
	isMember := g.nextReg()
	g.emit(fmt.Sprintf("  %s = icmp eq i32 %%memberNum, %d", isMember, index))
	both := g.nextReg()
	g.emit(fmt.Sprintf("  %s = and i1 %s, %s", both, isClass, isMember))
	g.emit(fmt.Sprintf("  br i1 %s, label %%%s, label %%%s", both, matchL, nextL))

	g.startBlock(matchL)
	for i := 1; i < len(g.table.Classes); i++ {
		if !g.table.IsSubtype(i, declClass) {
			continue
		}
		dc, method, dm, ok := g.table.FindMethod(i, methodName)
		if !ok {
			continue
		}
		callL, checkNextL := g.nextLabel(), g.nextLabel()
		isRuntime := g.nextReg()
		g.emit(fmt.Sprintf("  %s = icmp eq i32 %s, %d", isRuntime, runtimeID, i))
		g.emit(fmt.Sprintf("  br i1 %s, label %%%s, label %%%s", isRuntime, callL, checkNextL))

		g.startBlock(callL)
		g.emitDispatchCallTo(dc, dm, method, retRep, paramRep)

		g.startBlock(checkNextL)
	}
	g.emit("  unreachable")

	g.startBlock(nextL)
}

// emitDispatchCallTo narrows %recv/%arg from their generic bucket types
// down to the actual implementation's receiver/parameter types, calls
// it, widens the result back to the dispatcher's bucket return type, and
// returns it - this is the one place a method body's real, concrete
// signature meets the generic dispatch path.
func (g *Generator) emitDispatchCallTo(declClass, index int, m symtab.MethodDecl, retRep, paramRep int) {
	objT := g.bucketLLVMType(symtab.Object)
	recvT := g.recordType(declClass) + "*"
	recv := g.nextReg()
	g.emit(fmt.Sprintf("  %s = bitcast %s %%recv to %s", recv, objT, recvT))

	paramT := g.llvmType(m.ParamType)
	paramBucketT := g.bucketLLVMType(paramRep)
	arg := "%arg"
	if paramT != paramBucketT {
		argReg := g.nextReg()
		g.emit(fmt.Sprintf("  %s = bitcast %s %%arg to %s", argReg, paramBucketT, paramT))
		arg = argReg
	}

	fname := methodFuncName(g.table.Classes[declClass].Name, index)
	retT := g.llvmType(m.ReturnType)
	call := g.nextReg()
	g.emit(fmt.Sprintf("  %s = call %s @%s(%s %s, %s %s)", call, retT, fname, recvT, recv, paramT, arg))

	retBucketT := g.bucketLLVMType(retRep)
	result := call
	if retT != retBucketT {
		resReg := g.nextReg()
		g.emit(fmt.Sprintf("  %s = bitcast %s %s to %s", resReg, retT, call, retBucketT))
		result = resReg
	}
	g.emit(fmt.Sprintf("  ret %s %s", retBucketT, result))
}
