// Package symtab implements the Symbol Table Builder (spec.md §4.1): a
// few passes over the AST that produce the class table, the main-block
// local table, and the usage flags the code generator uses to omit unused
// runtime declarations.
package symtab

import "github.com/dj-lang/dj2ll/internal/ast"

// Type codes, per spec.md §3. Class indices are always >= 0; Object is
// always class index 0.
const (
	Illegal   = -5
	NoObject  = -4
	AnyObject = -3
	Bool      = -2
	Nat       = -1
	Object    = 0
)

// VarDecl is a single field or local-variable declaration.
type VarDecl struct {
	Name     string
	NameLine int
	Type     int
	TypeLine int
}

// MethodDecl is a single-parameter method declaration (spec.md §1), fully
// resolved: ReturnType and ParamType are type codes, not AST type nodes.
type MethodDecl struct {
	Name           string
	NameLine       int
	ReturnType     int
	ReturnTypeLine int
	ParamName      string
	ParamNameLine  int
	ParamType      int
	ParamTypeLine  int
	Locals         []VarDecl
	Body           *ast.Node // EXPR_LIST
}

// ClassDecl is one entry of the class table. Superclass is NoObject only
// for class 0 (Object); every user class's Superclass is a valid class
// index < the class's own index (forward inheritance is disallowed).
type ClassDecl struct {
	Name           string
	NameLine       int
	Superclass     int
	SuperclassLine int
	StaticVars     []VarDecl
	InstanceVars   []VarDecl
	Methods        []MethodDecl
}

// MainBlock is the program's distinguished entry point.
type MainBlock struct {
	Locals []VarDecl
	Body   *ast.Node // EXPR_LIST
}

// Table is the complete output of the Symbol Table Builder.
type Table struct {
	Classes []ClassDecl
	Main    MainBlock

	HasInstanceOf bool
	HasPrintNat   bool
	HasReadNat    bool
}

// ClassByName returns the index of the class named name, or -1 if none
// exists.
func (t *Table) ClassByName(name string) int {
	for i, c := range t.Classes {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// TypeName renders a type code as a diagnostic-friendly name.
func (t *Table) TypeName(code int) string {
	switch code {
	case Illegal:
		return "<illegal>"
	case NoObject:
		return "<no object>"
	case AnyObject:
		return "null"
	case Bool:
		return "bool"
	case Nat:
		return "nat"
	}
	if code >= 0 && code < len(t.Classes) {
		return t.Classes[code].Name
	}
	return "<unknown type>"
}

// FindInstanceField searches class cls and its ancestors (spec.md §4.2's
// field-lookup walk) for an instance field named name, returning the
// declaring class index, the field, and its 0-based position within that
// declaring class's own InstanceVars.
func (t *Table) FindInstanceField(cls int, name string) (declClass int, field VarDecl, pos int, ok bool) {
	for c := cls; c != NoObject; c = t.Classes[c].Superclass {
		for i, f := range t.Classes[c].InstanceVars {
			if f.Name == name {
				return c, f, i, true
			}
		}
		if c == Object {
			break
		}
	}
	return 0, VarDecl{}, 0, false
}

// FindStaticField searches class cls and its ancestors for a static field
// named name.
func (t *Table) FindStaticField(cls int, name string) (declClass int, field VarDecl, pos int, ok bool) {
	for c := cls; c != NoObject; c = t.Classes[c].Superclass {
		for i, f := range t.Classes[c].StaticVars {
			if f.Name == name {
				return c, f, i, true
			}
		}
		if c == Object {
			break
		}
	}
	return 0, VarDecl{}, 0, false
}

// FindMethod searches class cls and its ancestors for a method named name.
func (t *Table) FindMethod(cls int, name string) (declClass int, method MethodDecl, pos int, ok bool) {
	for c := cls; c != NoObject; c = t.Classes[c].Superclass {
		for i, m := range t.Classes[c].Methods {
			if m.Name == name {
				return c, m, i, true
			}
		}
		if c == Object {
			break
		}
	}
	return 0, MethodDecl{}, 0, false
}

// IsSubtype reports whether sub is a subtype of super in the inheritance
// lattice (spec.md §4.2's subtype rule, restricted to the reference half;
// see package types for the primitive-aware version used by the
// typechecker).
func (t *Table) IsSubtype(sub, super int) bool {
	if sub == super {
		return true
	}
	if super == Object && sub >= 0 {
		return true
	}
	if sub < 0 || super < 0 {
		return false
	}
	for c := sub; c != NoObject; c = t.Classes[c].Superclass {
		if c == super {
			return true
		}
		if c == Object {
			break
		}
	}
	return false
}

// PathLength returns the number of superclass hops from sub up to super
// (0 if sub == super), used by the code generator to compute inherited
// field offsets (spec.md §4.4.1). Assumes IsSubtype(sub, super).
func (t *Table) PathLength(sub, super int) int {
	n := 0
	for c := sub; c != super; c = t.Classes[c].Superclass {
		n++
		if c == Object {
			break
		}
	}
	return n
}
