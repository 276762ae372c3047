package llvm

import "fmt"

// genITable synthesizes @ITable(i32 classId, i32 target) -> i1 (spec.md
// §4.4.4), gated on HasInstanceOf since nothing else in the module ever
// calls it. Every (classId, target) pair is known at compile time, so the
// body is a flat double branch over IsSubtype rather than any runtime
// walk of the inheritance chain. Both loops range over every class
// including Object (class 0): `e instanceof Object` is the idiomatic
// non-null test (every reference class is a subtype of Object), and
// Object is itself a legal instanceof target per checkInstanceof, so
// excluding it from either axis would make ITable(id, 0) wrongly fall
// through to false for every id.
func (g *Generator) genITable() {
	if !g.table.HasInstanceOf {
		return
	}

	g.resetCounters()
	g.emit("define i1 @ITable(i32 %classId, i32 %target) {")
	g.startBlock("entry")

	for i := 0; i < len(g.table.Classes); i++ {
		trueL, falseL := g.nextLabel(), g.nextLabel()
		isI := g.nextReg()
		g.emit(fmt.Sprintf("  %s = icmp eq i32 %%classId, %d", isI, i))
		g.emit(fmt.Sprintf("  br i1 %s, label %%%s, label %%%s", isI, trueL, falseL))

		g.startBlock(trueL)
		g.emitITableRow(i)

		g.startBlock(falseL)
	}
	g.emit("  ret i1 false")
	g.emit("}")
	g.emit("")
}

// emitITableRow emits the subtype check for a fixed runtime class i
// against every possible target class the program's instanceof
// expressions could name.
func (g *Generator) emitITableRow(i int) {
	for t := 0; t < len(g.table.Classes); t++ {
		if !g.table.IsSubtype(i, t) {
			continue
		}
		matchL, nextL := g.nextLabel(), g.nextLabel()
		isT := g.nextReg()
		g.emit(fmt.Sprintf("  %s = icmp eq i32 %%target, %d", isT, t))
		g.emit(fmt.Sprintf("  br i1 %s, label %%%s, label %%%s", isT, matchL, nextL))

		g.startBlock(matchL)
		g.emit("  ret i1 true")

		g.startBlock(nextL)
	}
	g.emit("  ret i1 false")
}
