// Package types implements the DJ Typechecker (spec.md §4.2): the subtype
// and join lattice over symtab's type codes, and the recursive evaluator
// that decorates the AST with resolved types and member references.
package types

import "github.com/dj-lang/dj2ll/internal/symtab"

// IsSubtype implements spec.md §4.2's full subtype rule, including the
// primitive types and ANY_OBJECT (the type of null), which symtab.Table's
// own IsSubtype (reference types only) does not handle.
func IsSubtype(t *symtab.Table, sub, super int) bool {
	if sub == super {
		return true
	}
	if sub == symtab.AnyObject {
		return super == symtab.Object || super >= 0
	}
	if sub == symtab.Bool || sub == symtab.Nat {
		return false
	}
	if super == symtab.AnyObject || super == symtab.Bool || super == symtab.Nat {
		return false
	}
	if sub < 0 || super < 0 {
		return false
	}
	return t.IsSubtype(sub, super)
}

// IsReference reports whether code is a reference type: a declared class,
// Object, or ANY_OBJECT (null's type).
func IsReference(code int) bool {
	return code == symtab.AnyObject || code >= symtab.Object
}

// Join computes the least common supertype of a and b (spec.md §4.2's
// join, used by IF_THEN_ELSE_EXPR). ok is false when a and b have no
// common type (e.g. nat vs bool).
func Join(t *symtab.Table, a, b int) (result int, ok bool) {
	if a == b {
		return a, true
	}
	if a == symtab.AnyObject && IsReference(b) {
		return b, true
	}
	if b == symtab.AnyObject && IsReference(a) {
		return a, true
	}
	if !IsReference(a) || !IsReference(b) {
		return symtab.Illegal, false
	}
	// Both are concrete reference types (class indices, since ANY_OBJECT
	// was handled above): walk a's lineage, then find the first ancestor
	// of b that also lies on it.
	ancestors := map[int]bool{}
	for c := a; ; c = t.Classes[c].Superclass {
		ancestors[c] = true
		if c == symtab.Object {
			break
		}
	}
	for c := b; ; c = t.Classes[c].Superclass {
		if ancestors[c] {
			return c, true
		}
		if c == symtab.Object {
			break
		}
	}
	return symtab.Object, true
}
