package symtab

import (
	"github.com/dj-lang/dj2ll/internal/ast"
	"github.com/dj-lang/dj2ll/internal/diag"
)

// Build produces the class table, main-block table, and usage flags, per
// spec.md §4.1, in a few passes over prog: class names and superclasses,
// then class members, then the main block, then the usage-flag scan. It does not typecheck expressions —
// that is package types's job — but it does validate every invariant spec.md
// §3 assigns to the symbol table itself (unique names, resolved superclass
// and field/method/local types, override signature equality).
func Build(prog *ast.Node) (*Table, []diag.Diagnostic) {
	b := &builder{}
	b.buildClassNamesAndSuperclasses(prog.ProgramClassList())
	if len(b.errors) > 0 {
		return nil, b.errors
	}
	b.resolveMembers(prog.ProgramClassList())
	b.buildMainBlock(prog)
	b.scanUsageFlags(prog)

	table := &Table{
		Classes:       b.classes,
		Main:          b.main,
		HasInstanceOf: b.hasInstanceOf,
		HasPrintNat:   b.hasPrintNat,
		HasReadNat:    b.hasReadNat,
	}
	return table, b.errors
}

type builder struct {
	classes []ClassDecl
	byName  map[string]int
	main    MainBlock

	hasInstanceOf bool
	hasPrintNat   bool
	hasReadNat    bool

	errors []diag.Diagnostic
}

func (b *builder) errorf(line int, format string, args ...interface{}) {
	b.errors = append(b.errors, diag.New(diag.StageSymtab, line, format, args...))
}

// buildClassNamesAndSuperclasses is spec.md §4.1's single left-to-right
// pass: class 0 is always the built-in Object, then each CLASS_DECL is
// appended in source order with its superclass resolved against only the
// classes already appended (forward inheritance is disallowed).
func (b *builder) buildClassNamesAndSuperclasses(classList *ast.Node) {
	b.byName = map[string]int{"Object": Object}
	b.classes = []ClassDecl{{Name: "Object", Superclass: NoObject}}

	for _, decl := range classList.Children {
		if _, dup := b.byName[decl.Name]; dup {
			b.errorf(decl.Line, "duplicate class name %q", decl.Name)
			continue
		}
		superNode := decl.ClassDeclSuperclass()
		superIdx, ok := b.byName[superNode.Name]
		if !ok {
			b.errorf(superNode.Line, "unknown superclass %q (forward-declared or undeclared classes cannot be inherited from)", superNode.Name)
			superIdx = Object
		}
		idx := len(b.classes)
		b.byName[decl.Name] = idx
		b.classes = append(b.classes, ClassDecl{
			Name:           decl.Name,
			NameLine:       decl.Line,
			Superclass:     superIdx,
			SuperclassLine: superNode.Line,
		})
	}
}

// resolveType converts an AST type node (NAT_TYPE, BOOL_TYPE, or AST_ID)
// into a type code, validating that a class-name reference names a
// declared class (spec.md §4.1's last error kind).
func (b *builder) resolveType(typeNode *ast.Node) int {
	switch typeNode.Tag {
	case ast.NAT_TYPE:
		return Nat
	case ast.BOOL_TYPE:
		return Bool
	case ast.AST_ID:
		if idx, ok := b.byName[typeNode.Name]; ok {
			return idx
		}
		b.errorf(typeNode.Line, "undefined class %q", typeNode.Name)
		return Illegal
	default:
		b.errorf(typeNode.Line, "invalid type node")
		return Illegal
	}
}

func (b *builder) resolveVarDecl(node *ast.Node) VarDecl {
	return VarDecl{
		Name:     node.Name,
		NameLine: node.Line,
		Type:     b.resolveType(node.VarDeclType()),
		TypeLine: node.VarDeclType().Line,
	}
}

// resolveMembers is the second pass: now that every class name is known,
// resolve every field's and method signature's declared type, check
// within-class name uniqueness, and check override signatures.
func (b *builder) resolveMembers(classList *ast.Node) {
	for ci, decl := range classList.Children {
		classIdx := ci + 1 // class 0 is Object, appended separately

		seenStatic := map[string]bool{}
		var staticVars []VarDecl
		for _, sv := range decl.ClassDeclStaticVars().Children {
			vd := b.resolveVarDecl(sv)
			if seenStatic[vd.Name] {
				b.errorf(vd.NameLine, "duplicate static field %q in class %q", vd.Name, decl.Name)
				continue
			}
			seenStatic[vd.Name] = true
			staticVars = append(staticVars, vd)
		}

		seenInstance := map[string]bool{}
		var instanceVars []VarDecl
		for _, iv := range decl.ClassDeclInstanceVars().Children {
			vd := b.resolveVarDecl(iv)
			if seenInstance[vd.Name] {
				b.errorf(vd.NameLine, "duplicate instance field %q in class %q", vd.Name, decl.Name)
				continue
			}
			if seenStatic[vd.Name] {
				b.errorf(vd.NameLine, "field %q is declared both static and instance in class %q", vd.Name, decl.Name)
				continue
			}
			seenInstance[vd.Name] = true
			instanceVars = append(instanceVars, vd)
		}

		seenMethod := map[string]bool{}
		var methods []MethodDecl
		for _, md := range decl.ClassDeclMethods().Children {
			m := MethodDecl{
				Name:           md.Name,
				NameLine:       md.Line,
				ReturnType:     b.resolveType(md.MethodDeclReturnType()),
				ReturnTypeLine: md.MethodDeclReturnType().Line,
				ParamName:      md.MethodDeclParamName().Name,
				ParamNameLine:  md.MethodDeclParamName().Line,
				ParamType:      b.resolveType(md.MethodDeclParamType()),
				ParamTypeLine:  md.MethodDeclParamType().Line,
				Body:           md.MethodDeclBody(),
			}
			seenLocal := map[string]bool{m.ParamName: true}
			for _, lv := range md.MethodDeclLocals().Children {
				vd := b.resolveVarDecl(lv)
				if seenLocal[vd.Name] {
					b.errorf(vd.NameLine, "duplicate local %q in method %q", vd.Name, m.Name)
					continue
				}
				seenLocal[vd.Name] = true
				m.Locals = append(m.Locals, vd)
			}

			if seenMethod[m.Name] {
				b.errorf(m.NameLine, "duplicate method %q in class %q", m.Name, decl.Name)
				continue
			}
			seenMethod[m.Name] = true
			methods = append(methods, m)
		}

		b.classes[classIdx].StaticVars = staticVars
		b.classes[classIdx].InstanceVars = instanceVars
		b.classes[classIdx].Methods = methods
	}

	// Override-signature check (spec.md §3 invariant 3 and
	// SUPPLEMENTED FEATURES #4: exact equality, no covariance).
	for classIdx := 1; classIdx < len(b.classes); classIdx++ {
		class := &b.classes[classIdx]
		for _, m := range class.Methods {
			_, super, _, ok := b.findMethodFrom(class.Superclass, m.Name)
			if !ok {
				continue
			}
			if super.ReturnType != m.ReturnType || super.ParamType != m.ParamType {
				b.errorf(m.NameLine, "method %q overrides a method of a different signature in an ancestor of %q", m.Name, class.Name)
			}
		}
	}
}

func (b *builder) findMethodFrom(startClass int, name string) (declClass int, m MethodDecl, pos int, ok bool) {
	for c := startClass; c != NoObject; c = b.classes[c].Superclass {
		for i, cand := range b.classes[c].Methods {
			if cand.Name == name {
				return c, cand, i, true
			}
		}
		if c == Object {
			break
		}
	}
	return 0, MethodDecl{}, 0, false
}

func (b *builder) buildMainBlock(prog *ast.Node) {
	seen := map[string]bool{}
	var locals []VarDecl
	for _, lv := range prog.ProgramMainLocals().Children {
		vd := b.resolveVarDecl(lv)
		if seen[vd.Name] {
			b.errorf(vd.NameLine, "duplicate local %q in main", vd.Name)
			continue
		}
		seen[vd.Name] = true
		locals = append(locals, vd)
	}
	b.main = MainBlock{Locals: locals, Body: prog.ProgramMainBody()}
}

// scanUsageFlags walks the whole tree once, recording whether instanceof,
// printNat, or readNat appears anywhere, so the code generator can omit
// the ITable and the printf/scanf externs when they are never used.
func (b *builder) scanUsageFlags(prog *ast.Node) {
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if n == nil {
			return
		}
		switch n.Tag {
		case ast.INSTANCEOF_EXPR:
			b.hasInstanceOf = true
		case ast.PRINT_EXPR:
			b.hasPrintNat = true
		case ast.READ_EXPR:
			b.hasReadNat = true
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(prog)
}
