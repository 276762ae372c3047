package tast

import (
	"github.com/dj-lang/dj2ll/internal/ast"
	"github.com/dj-lang/dj2ll/internal/symtab"
)

// Method is one class method's translated body, addressed by the same
// (class index, method index) pair symtab.Table uses for ClassDecl.Methods.
type Method struct {
	ClassIdx int
	Index    int
	Body     []Expr
}

// Program is the complete translated output: spec.md §4.3 run once over
// every method body and the main block named in table.
type Program struct {
	Methods  []Method
	MainBody []Expr
}

// Translate converts every method body and the main block of table (whose
// AST nodes must already carry the Decoration the typechecker writes) into
// typed expression trees. It assumes table typechecked cleanly; behavior
// on a table with outstanding typechecker errors is undefined.
func Translate(table *symtab.Table) *Program {
	prog := &Program{}
	for classIdx := 1; classIdx < len(table.Classes); classIdx++ {
		class := table.Classes[classIdx]
		for mi, m := range class.Methods {
			prog.Methods = append(prog.Methods, Method{
				ClassIdx: classIdx,
				Index:    mi,
				Body:     translateList(m.Body),
			})
		}
	}
	prog.MainBody = translateList(table.Main.Body)
	return prog
}

func translateList(list *ast.Node) []Expr {
	exprs := make([]Expr, len(list.Children))
	for i, c := range list.Children {
		exprs[i] = translate(c)
	}
	return exprs
}

// translateCoerced translates n, except when n is the null literal: then
// it produces a Null typed to coerceTo instead of n's own (possibly
// untyped) decoration, per spec.md §4.4.7.
func translateCoerced(n *ast.Node, coerceTo int) Expr {
	if n.Tag == ast.NULL_EXPR {
		return &Null{typed{coerceTo}}
	}
	return translate(n)
}

func translate(n *ast.Node) Expr {
	d := n.Decoration
	switch n.Tag {
	case ast.NAT_LITERAL_EXPR:
		return &NatLiteral{typed{d.ResolvedType}, n.NatValue}
	case ast.TRUE_LITERAL_EXPR:
		return &BoolLiteral{typed{d.ResolvedType}, true}
	case ast.FALSE_LITERAL_EXPR:
		return &BoolLiteral{typed{d.ResolvedType}, false}
	case ast.NULL_EXPR:
		return &Null{typed{d.ResolvedType}}
	case ast.THIS_EXPR:
		return &This{typed{d.ResolvedType}}
	case ast.READ_EXPR:
		return &Read{typed{d.ResolvedType}}
	case ast.PRINT_EXPR:
		return &Print{typed{d.ResolvedType}, translate(n.UnaryOperand())}
	case ast.NOT_EXPR:
		return &Not{typed{d.ResolvedType}, translate(n.UnaryOperand())}
	case ast.PLUS_EXPR:
		return translateBinary(n, OpPlus)
	case ast.MINUS_EXPR:
		return translateBinary(n, OpMinus)
	case ast.TIMES_EXPR:
		return translateBinary(n, OpTimes)
	case ast.GREATER_THAN_EXPR:
		return translateBinary(n, OpGreaterThan)
	case ast.AND_EXPR:
		return translateBinary(n, OpAnd)
	case ast.EQUALITY_EXPR:
		return translateEquality(n)
	case ast.ID_EXPR:
		return translateID(n)
	case ast.ASSIGN_EXPR:
		return translateAssign(n)
	case ast.DOT_ID_EXPR:
		return translateDotID(n)
	case ast.DOT_ASSIGN_EXPR:
		return translateDotAssign(n)
	case ast.NEW_EXPR:
		return &New{typed{d.ResolvedType}}
	case ast.INSTANCEOF_EXPR:
		return &InstanceOf{typed{d.ResolvedType}, translate(n.InstanceOfObj()), d.ClassNum}
	case ast.METHOD_CALL_EXPR:
		return &MethodCall{typed{d.ResolvedType}, d.ClassNum, d.MemberNum, translateCoerced(n.MethodCallArg(), d.NullCoercionType)}
	case ast.DOT_METHOD_CALL_EXPR:
		return &DotMethodCall{typed{d.ResolvedType}, translate(n.DotMethodCallObj()), d.ClassNum, d.MemberNum, translateCoerced(n.DotMethodCallArg(), d.NullCoercionType)}
	case ast.IF_THEN_ELSE_EXPR:
		return &If{typed{d.ResolvedType}, translate(n.IfCond()), translateList(n.IfThen()), translateList(n.IfElse())}
	case ast.FOR_EXPR:
		return &For{typed{d.ResolvedType}, translate(n.ForInit()), translate(n.ForTest()), translate(n.ForUpdate()), translateList(n.ForBody())}
	default:
		panic("tast: unchecked expression tag " + n.Tag.String())
	}
}

func translateBinary(n *ast.Node, op BinOp) Expr {
	return &Binary{typed{n.Decoration.ResolvedType}, op, translate(n.BinaryLeft()), translate(n.BinaryRight())}
}

func translateEquality(n *ast.Node) Expr {
	d := n.Decoration
	left, right := n.BinaryLeft(), n.BinaryRight()
	var lt, rt Expr
	if d.HasNullChild {
		lt = translateCoerced(left, d.NullCoercionType)
		rt = translateCoerced(right, d.NullCoercionType)
	} else {
		lt = translate(left)
		rt = translate(right)
	}
	return &Binary{typed{symtab.Bool}, OpEquality, lt, rt}
}

func translateID(n *ast.Node) Expr {
	d := n.Decoration
	if !d.IsMember {
		return &LocalRef{typed{d.ResolvedType}, n.Name}
	}
	if d.IsStaticVar {
		return &StaticField{typed{d.ResolvedType}, d.ClassNum, d.MemberNum, nil}
	}
	return &InstanceField{typed{d.ResolvedType}, implicitThis(d), d.ClassNum, d.MemberNum}
}

// implicitThis returns the This expression an unqualified instance-field
// reference implicitly reads through; its type is the field's declaring
// class, which IsSubtype accepts from any subclass's this.
func implicitThis(d ast.Decoration) Expr {
	return &This{typed{d.ClassNum}}
}

func translateAssign(n *ast.Node) Expr {
	idNode := n.AssignID()
	d := idNode.Decoration
	value := translateCoerced(n.AssignVal(), n.Decoration.NullCoercionType)
	if !d.IsMember {
		return &AssignLocal{typed{symtab.Nat}, idNode.Name, value}
	}
	if d.IsStaticVar {
		return &AssignStaticField{typed{symtab.Nat}, d.ClassNum, d.MemberNum, nil, value}
	}
	return &AssignInstanceField{typed{symtab.Nat}, implicitThis(d), d.ClassNum, d.MemberNum, value}
}

func translateDotID(n *ast.Node) Expr {
	d := n.Decoration
	if d.IsStaticVar {
		obj := staticQualifierObj(n)
		return &StaticField{typed{d.ResolvedType}, d.ClassNum, d.MemberNum, obj}
	}
	return &InstanceField{typed{d.ResolvedType}, translate(n.DotIDObj()), d.ClassNum, d.MemberNum}
}

// staticQualifierObj returns the translated receiver expression for a
// static field read through an instance (obj.staticField), or nil when
// the field was reached through a bare class-name qualifier
// (ClassName.staticField, spec.md §8's S5 idiom) which evaluates nothing.
func staticQualifierObj(n *ast.Node) Expr {
	objNode := n.DotIDObj()
	if objNode.Tag == ast.ID_EXPR && objNode.Decoration.Set && objNode.Decoration.ResolvedType == symtab.Illegal {
		return nil
	}
	return translate(objNode)
}

func translateDotAssign(n *ast.Node) Expr {
	d := n.Decoration
	value := translateCoerced(n.DotAssignVal(), d.NullCoercionType)
	if d.IsStaticVar {
		obj := staticQualifierObjFromAssign(n)
		return &AssignStaticField{typed{symtab.Nat}, d.ClassNum, d.MemberNum, obj, value}
	}
	return &AssignInstanceField{typed{symtab.Nat}, translate(n.DotAssignObj()), d.ClassNum, d.MemberNum, value}
}

func staticQualifierObjFromAssign(n *ast.Node) Expr {
	objNode := n.DotAssignObj()
	if objNode.Tag == ast.ID_EXPR && objNode.Decoration.Set && objNode.Decoration.ResolvedType == symtab.Illegal {
		return nil
	}
	return translate(objNode)
}
