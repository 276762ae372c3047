package types

import (
	"github.com/dj-lang/dj2ll/internal/ast"
	"github.com/dj-lang/dj2ll/internal/diag"
	"github.com/dj-lang/dj2ll/internal/symtab"
)

// Checker is the recursive DJ typechecker. One Checker instance typechecks
// an entire program; its class/method/locals fields track the two
// contexts spec.md §4.2 evaluates expressions against (the enclosing class
// index, -1 inside the main block, and the enclosing method).
type Checker struct {
	table *symtab.Table

	classIdx int // -1 when checking the main block
	method   *symtab.MethodDecl
	locals   map[string]int // local/parameter name -> type code

	errors []diag.Diagnostic
}

// Check typechecks every method body and the main block of table, writing
// resolved types and member decorations onto the AST nodes reachable from
// table's Body/Locals fields. It returns every diagnostic found; the
// caller should treat a non-empty result as fatal, per spec.md §7.
func Check(table *symtab.Table) []diag.Diagnostic {
	c := &Checker{table: table}
	c.checkClasses()
	c.checkMain()
	return c.errors
}

func (c *Checker) errorf(line int, format string, args ...interface{}) {
	c.errors = append(c.errors, diag.New(diag.StageChecker, line, format, args...))
}

func (c *Checker) checkClasses() {
	for classIdx := 1; classIdx < len(c.table.Classes); classIdx++ {
		class := &c.table.Classes[classIdx]
		for mi := range class.Methods {
			m := &class.Methods[mi]
			c.classIdx = classIdx
			c.method = m
			c.locals = map[string]int{m.ParamName: m.ParamType}
			for _, lv := range m.Locals {
				c.locals[lv.Name] = lv.Type
			}
			bodyType := c.checkExprList(m.Body)
			if bodyType != symtab.Illegal && !IsSubtype(c.table, bodyType, m.ReturnType) {
				c.errorf(m.Body.Line, "method %q: body produces %s, expected %s",
					m.Name, c.table.TypeName(bodyType), c.table.TypeName(m.ReturnType))
			}
		}
	}
}

func (c *Checker) checkMain() {
	c.classIdx = -1
	c.method = nil
	c.locals = map[string]int{}
	for _, lv := range c.table.Main.Locals {
		c.locals[lv.Name] = lv.Type
	}
	c.checkExprList(c.table.Main.Body)
}

// checkExprList typechecks every expression in an EXPR_LIST in order and
// returns the type of the last one (spec.md §4.2: "the type of an
// expression list is the type of its last element"). An empty list (a
// method/main body with no statements) types as Nat, matching the zero
// value the code generator substitutes for a missing trailing value
// (spec.md §4.4.9).
func (c *Checker) checkExprList(list *ast.Node) int {
	result := symtab.Nat
	for _, e := range list.Children {
		result = c.checkExpr(e)
	}
	return result
}
