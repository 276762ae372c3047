package ast

// Named child accessors for the fixed-arity expression tags, so callers in
// symtab/types/tast/codegen do not index Children by raw position.

// ProgramClassList returns the CLASS_DECL_LIST child of a PROGRAM node.
func (n *Node) ProgramClassList() *Node { return n.Child(0) }

// ProgramMainLocals and ProgramMainBody return the main block's
// VAR_DECL_LIST and EXPR_LIST.
func (n *Node) ProgramMainLocals() *Node { return n.Child(1) }
func (n *Node) ProgramMainBody() *Node   { return n.Child(2) }

// ClassDeclSuperclass returns the AST_ID naming the superclass.
func (n *Node) ClassDeclSuperclass() *Node { return n.Child(0) }
func (n *Node) ClassDeclStaticVars() *Node { return n.Child(1) }
func (n *Node) ClassDeclInstanceVars() *Node { return n.Child(2) }
func (n *Node) ClassDeclMethods() *Node    { return n.Child(3) }

// VarDeclType returns the declared type node (NAT_TYPE, BOOL_TYPE, or AST_ID).
func (n *Node) VarDeclType() *Node { return n.Child(0) }

// MethodDeclReturnType, MethodDeclParamType, MethodDeclParamName,
// MethodDeclLocals, and MethodDeclBody index a METHOD_DECL's fixed layout:
// [returnType, paramType, paramName, localsList, bodyExprList].
func (n *Node) MethodDeclReturnType() *Node { return n.Child(0) }
func (n *Node) MethodDeclParamType() *Node  { return n.Child(1) }
func (n *Node) MethodDeclParamName() *Node  { return n.Child(2) }
func (n *Node) MethodDeclLocals() *Node     { return n.Child(3) }
func (n *Node) MethodDeclBody() *Node       { return n.Child(4) }

// Unary expression operand (NOT_EXPR, PRINT_EXPR, ID_EXPR uses Name instead).
func (n *Node) UnaryOperand() *Node { return n.Child(0) }

// Binary expression operands (PLUS/MINUS/TIMES/EQUALITY/GREATER_THAN/AND).
func (n *Node) BinaryLeft() *Node  { return n.Child(0) }
func (n *Node) BinaryRight() *Node { return n.Child(1) }

// ASSIGN_EXPR(id, val).
func (n *Node) AssignID() *Node  { return n.Child(0) }
func (n *Node) AssignVal() *Node { return n.Child(1) }

// DOT_ID_EXPR(obj, id).
func (n *Node) DotIDObj() *Node { return n.Child(0) }
func (n *Node) DotIDName() *Node { return n.Child(1) }

// INSTANCEOF_EXPR(obj, typeId).
func (n *Node) InstanceOfObj() *Node  { return n.Child(0) }
func (n *Node) InstanceOfType() *Node { return n.Child(1) }

// METHOD_CALL_EXPR(id, arg).
func (n *Node) MethodCallName() *Node { return n.Child(0) }
func (n *Node) MethodCallArg() *Node  { return n.Child(1) }

// NEW_EXPR(id).
func (n *Node) NewClassName() *Node { return n.Child(0) }

// DOT_ASSIGN_EXPR(obj, id, val).
func (n *Node) DotAssignObj() *Node  { return n.Child(0) }
func (n *Node) DotAssignName() *Node { return n.Child(1) }
func (n *Node) DotAssignVal() *Node  { return n.Child(2) }

// DOT_METHOD_CALL_EXPR(obj, id, arg).
func (n *Node) DotMethodCallObj() *Node  { return n.Child(0) }
func (n *Node) DotMethodCallName() *Node { return n.Child(1) }
func (n *Node) DotMethodCallArg() *Node  { return n.Child(2) }

// FOR_EXPR(init, test, update, body).
func (n *Node) ForInit() *Node   { return n.Child(0) }
func (n *Node) ForTest() *Node   { return n.Child(1) }
func (n *Node) ForUpdate() *Node { return n.Child(2) }
func (n *Node) ForBody() *Node   { return n.Child(3) }

// IF_THEN_ELSE_EXPR(cond, thenList, elseList).
func (n *Node) IfCond() *Node { return n.Child(0) }
func (n *Node) IfThen() *Node { return n.Child(1) }
func (n *Node) IfElse() *Node { return n.Child(2) }
