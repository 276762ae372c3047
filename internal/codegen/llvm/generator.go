// Package llvm implements the Code Generator (spec.md §4.4): it lowers a
// tast.Program to textual LLVM IR. The generator never re-derives a name
// resolution tast.Translate already performed; every field, method, and
// static-global reference is addressed purely by the indices tast carries.
//
// The emission strategy mirrors the teacher's (non-MIR) codegen/llvm
// package: a single strings.Builder accumulates the module text, register
// and label names are minted from monotonic counters reset per function,
// and every emitted instruction is a single g.emit call. DJ has no SSA/CFG
// intermediate form (spec.md §4.3 is a direct structural translation), so
// unlike the teacher's MIR-based generator this one lowers straight from
// tast.Expr to IR text, one function body at a time.
package llvm

import (
	"fmt"
	"strings"

	"github.com/dj-lang/dj2ll/internal/diag"
	"github.com/dj-lang/dj2ll/internal/symtab"
	"github.com/dj-lang/dj2ll/internal/tast"
)

// Generator holds the mutable state of one code-generation run. A
// Generator is used once, for one Program against its Table.
type Generator struct {
	table *symtab.Table
	prog  *tast.Program

	builder strings.Builder

	regCounter   int
	labelCounter int
	curBlock     string

	// locals maps an in-scope name ("this", a parameter, or a local) to
	// the alloca register holding its slot; localTypes maps the same
	// name to its declared type code. Both are reset at the start of
	// every function (method body or main).
	locals     map[string]string
	localTypes map[string]int

	// enclosingClass is the method's own declaring class while
	// generating a method body (-1 inside main). It is the LLVM static
	// type genThis uses for `this`, which may differ from a given
	// This node's decorated Type() when the field being reached is
	// declared on an ancestor (see genThis).
	enclosingClass int

	Errors []diag.Diagnostic
}

// NewGenerator constructs a Generator for prog, whose method bodies and
// main block must already be the output of tast.Translate(table).
func NewGenerator(table *symtab.Table, prog *tast.Program) *Generator {
	return &Generator{table: table, prog: prog}
}

// Generate emits the complete LLVM IR module text for the program, per
// spec.md §4.4.1-4.4.9. Verification, optimization, and object emission
// are the driver's job (spec.md §1(iii), §4.4.10); Generate only produces
// the textual IR the driver hands to opt/llc.
func (g *Generator) Generate() (string, error) {
	g.emit("; generated by dj2ll; do not edit")
	g.emit("")
	g.emitClassTypes()
	g.emitStaticGlobals()
	g.emitRuntimeDeclarations()
	g.emit("")

	for _, m := range g.prog.Methods {
		g.genMethodFunc(m)
	}
	if g.hasAnyMethod() {
		g.genVTableDispatchers()
	}
	g.genITable()
	g.genMain()

	if len(g.Errors) > 0 {
		return "", fmt.Errorf("code generation failed with %d error(s)", len(g.Errors))
	}
	return g.builder.String(), nil
}

func (g *Generator) hasAnyMethod() bool {
	for _, c := range g.table.Classes {
		if len(c.Methods) > 0 {
			return true
		}
	}
	return false
}

func (g *Generator) emit(line string) {
	g.builder.WriteString(line)
	g.builder.WriteByte('\n')
}

// startBlock emits a label and records it as the current block, so
// control-flow emitters (genIf, genFor, genAnd) can name the correct phi
// predecessor even when a branch's own body contains further branches.
func (g *Generator) startBlock(label string) {
	g.emit(label + ":")
	g.curBlock = label
}

func (g *Generator) nextReg() string {
	r := fmt.Sprintf("%%r%d", g.regCounter)
	g.regCounter++
	return r
}

func (g *Generator) nextLabel() string {
	l := fmt.Sprintf("L%d", g.labelCounter)
	g.labelCounter++
	return l
}

func (g *Generator) resetCounters() {
	g.regCounter = 0
	g.labelCounter = 0
	g.curBlock = ""
}

// recordType returns the element (non-pointer) LLVM type naming class's
// record, e.g. "%class.A".
func (g *Generator) recordType(class int) string {
	return "%class." + g.table.Classes[class].Name
}

// llvmType maps a DJ type code to the LLVM type of a value carrying it:
// i32 for nat, i1 for bool, a pointer to the class's own record type for
// any reference type (spec.md §4.4.1).
func (g *Generator) llvmType(code int) string {
	switch code {
	case symtab.Nat:
		return "i32"
	case symtab.Bool:
		return "i1"
	case symtab.AnyObject:
		// A null literal that tast.translateCoerced did not coerce to a
		// concrete class (an if arm, an instanceof subject, a method
		// body's result, a bare statement). A both-null equality never
		// gets here: genEquality short-circuits it.
		return "i8*"
	}
	return g.recordType(code) + "*"
}

// bucketName classifies a type code into one of the three VTable/ITable
// dispatch buckets (spec.md §4.4.3): every reference type, regardless of
// which class it names, buckets as Object.
func bucketName(code int) string {
	switch code {
	case symtab.Nat:
		return "Nat"
	case symtab.Bool:
		return "Bool"
	default:
		return "Object"
	}
}

func sameBucket(code, representative int) bool {
	return bucketName(code) == bucketName(representative)
}

// bucketLLVMType is the fixed LLVM type of a dispatcher's bucketed return
// or parameter slot; unlike llvmType, every reference type maps to the
// generic %class.Object*, never the concrete subclass pointer.
func (g *Generator) bucketLLVMType(code int) string {
	switch bucketName(code) {
	case "Nat":
		return "i32"
	case "Bool":
		return "i1"
	default:
		return g.recordType(symtab.Object) + "*"
	}
}

func bucketZero(representative int) string {
	switch bucketName(representative) {
	case "Nat":
		return "0"
	case "Bool":
		return "false"
	default:
		return "null"
	}
}

func dispatcherFuncName(ret, param int) string {
	return bucketName(ret) + "VTable" + bucketName(param)
}

func methodFuncName(className string, methodIdx int) string {
	return fmt.Sprintf("%s_method_%d", className, methodIdx)
}

func (g *Generator) staticFieldGlobal(declClass, index int) string {
	c := g.table.Classes[declClass]
	return c.Name + "." + c.StaticVars[index].Name
}

// instanceFieldOffset computes a field's GEP index within a from-typed
// record (spec.md §4.4.1): 2 (header) plus the sum of from's and every
// intervening subclass's own instance-field counts, plus the field's
// position within declClass. from need not be the object's actual
// allocated class, only a subtype of declClass (spec.md §8 invariant 2);
// every reference value the generator carries is already typed to a
// subtype of any field it is used to reach, so the walk below always
// terminates at declClass.
func instanceFieldOffset(t *symtab.Table, from, declClass, index int) int {
	offset := 0
	for c := from; c != declClass; c = t.Classes[c].Superclass {
		offset += len(t.Classes[c].InstanceVars)
	}
	return 2 + offset + index
}

// classFieldLLVMTypes returns, in object-layout order (spec.md §4.4.1
// points 3-4), the LLVM type of every instance field class itself
// declares, then its superclass's own, and so on up to Object.
func (g *Generator) classFieldLLVMTypes(class int) []string {
	var types []string
	c := class
	for {
		for _, f := range g.table.Classes[c].InstanceVars {
			types = append(types, g.llvmType(f.Type))
		}
		if c == symtab.Object {
			break
		}
		c = g.table.Classes[c].Superclass
	}
	return types
}

func (g *Generator) emitClassTypes() {
	for i := range g.table.Classes {
		fields := append([]string{g.recordType(i) + "*", "i32"}, g.classFieldLLVMTypes(i)...)
		g.emit(fmt.Sprintf("%s = type { %s }", g.recordType(i), strings.Join(fields, ", ")))
	}
	g.emit("")
}

func (g *Generator) emitStaticGlobals() {
	for _, c := range g.table.Classes {
		for _, f := range c.StaticVars {
			lt := g.llvmType(f.Type)
			g.emit(fmt.Sprintf("@%s.%s = global %s %s", c.Name, f.Name, lt, zeroLiteral(lt)))
		}
	}
}

func zeroLiteral(llvmType string) string {
	switch llvmType {
	case "i32":
		return "0"
	case "i1":
		return "false"
	}
	return "null"
}

// emitRuntimeDeclarations declares only the externs the program actually
// needs (spec.md §4.1's usage flags), plus calloc, which every program
// that allocates an object needs regardless of a dedicated usage flag.
func (g *Generator) emitRuntimeDeclarations() {
	g.emit("declare i8* @calloc(i64, i64)")
	if g.table.HasPrintNat || g.table.HasReadNat {
		g.emit("declare i32 @printf(i8*, ...)")
	}
	if g.table.HasReadNat {
		g.emit("declare i32 @scanf(i8*, ...)")
		g.emit(`@.readnat.prompt = private unnamed_addr constant [25 x i8] c"Enter a natural number: \00"`)
		g.emit(`@.scanf.nat = private unnamed_addr constant [3 x i8] c"%u\00"`)
	}
	if g.table.HasPrintNat {
		g.emit(`@.printnat.fmt = private unnamed_addr constant [4 x i8] c"%u\0A\00"`)
	}
}

func (g *Generator) emitGEP(elemType, ptrType, ptrVal string, idx int) string {
	reg := g.nextReg()
	g.emit(fmt.Sprintf("  %s = getelementptr %s, %s %s, i32 0, i32 %d", reg, elemType, ptrType, ptrVal, idx))
	return reg
}

func (g *Generator) emitLoad(llvmType, slot string) string {
	reg := g.nextReg()
	g.emit(fmt.Sprintf("  %s = load %s, %s* %s", reg, llvmType, llvmType, slot))
	return reg
}

func (g *Generator) emitStore(llvmType, val, slot string) {
	g.emit(fmt.Sprintf("  store %s %s, %s* %s", llvmType, val, llvmType, slot))
}

func (g *Generator) emitZeroInit(slot, llvmType string) {
	g.emitStore(llvmType, zeroLiteral(llvmType), slot)
}

// castTo reinterprets val (an already-generated operand of type from) as
// type to via bitcast, or returns val unchanged when the types already
// match. Used for upcasting a reference value to a supertype at an If
// merge point, a return statement, or a dispatch call boundary.
func (g *Generator) castTo(val string, from, to int) string {
	if from == to {
		return val
	}
	reg := g.nextReg()
	g.emit(fmt.Sprintf("  %s = bitcast %s %s to %s", reg, g.llvmType(from), val, g.llvmType(to)))
	return reg
}
