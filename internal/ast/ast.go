// Package ast defines the tagged abstract syntax tree produced by the
// parser and consumed by the symbol table builder, the typechecker, and
// (after translation, see package tast) the code generator.
package ast

// Tag identifies the syntactic construct a Node represents.
type Tag int

const (
	PROGRAM Tag = iota
	CLASS_DECL_LIST
	CLASS_DECL
	STATIC_VAR_DECL_LIST
	VAR_DECL_LIST
	VAR_DECL
	METHOD_DECL_LIST
	METHOD_DECL
	NAT_TYPE
	BOOL_TYPE
	AST_ID
	EXPR_LIST

	// Expression tags.
	NAT_LITERAL_EXPR
	TRUE_LITERAL_EXPR
	FALSE_LITERAL_EXPR
	NULL_EXPR
	THIS_EXPR
	READ_EXPR

	NOT_EXPR
	PRINT_EXPR
	ID_EXPR

	PLUS_EXPR
	MINUS_EXPR
	TIMES_EXPR
	EQUALITY_EXPR
	GREATER_THAN_EXPR
	AND_EXPR
	ASSIGN_EXPR
	DOT_ID_EXPR
	INSTANCEOF_EXPR
	METHOD_CALL_EXPR
	NEW_EXPR

	DOT_ASSIGN_EXPR
	DOT_METHOD_CALL_EXPR
	FOR_EXPR

	IF_THEN_ELSE_EXPR
)

var tagNames = map[Tag]string{
	PROGRAM:              "PROGRAM",
	CLASS_DECL_LIST:      "CLASS_DECL_LIST",
	CLASS_DECL:           "CLASS_DECL",
	STATIC_VAR_DECL_LIST: "STATIC_VAR_DECL_LIST",
	VAR_DECL_LIST:        "VAR_DECL_LIST",
	VAR_DECL:             "VAR_DECL",
	METHOD_DECL_LIST:     "METHOD_DECL_LIST",
	METHOD_DECL:          "METHOD_DECL",
	NAT_TYPE:             "NAT_TYPE",
	BOOL_TYPE:            "BOOL_TYPE",
	AST_ID:               "AST_ID",
	EXPR_LIST:            "EXPR_LIST",
	NAT_LITERAL_EXPR:     "NAT_LITERAL_EXPR",
	TRUE_LITERAL_EXPR:    "TRUE_LITERAL_EXPR",
	FALSE_LITERAL_EXPR:   "FALSE_LITERAL_EXPR",
	NULL_EXPR:            "NULL_EXPR",
	THIS_EXPR:            "THIS_EXPR",
	READ_EXPR:            "READ_EXPR",
	NOT_EXPR:             "NOT_EXPR",
	PRINT_EXPR:           "PRINT_EXPR",
	ID_EXPR:              "ID_EXPR",
	PLUS_EXPR:            "PLUS_EXPR",
	MINUS_EXPR:           "MINUS_EXPR",
	TIMES_EXPR:           "TIMES_EXPR",
	EQUALITY_EXPR:        "EQUALITY_EXPR",
	GREATER_THAN_EXPR:    "GREATER_THAN_EXPR",
	AND_EXPR:             "AND_EXPR",
	ASSIGN_EXPR:          "ASSIGN_EXPR",
	DOT_ID_EXPR:          "DOT_ID_EXPR",
	INSTANCEOF_EXPR:      "INSTANCEOF_EXPR",
	METHOD_CALL_EXPR:     "METHOD_CALL_EXPR",
	NEW_EXPR:             "NEW_EXPR",
	DOT_ASSIGN_EXPR:      "DOT_ASSIGN_EXPR",
	DOT_METHOD_CALL_EXPR: "DOT_METHOD_CALL_EXPR",
	FOR_EXPR:             "FOR_EXPR",
	IF_THEN_ELSE_EXPR:    "IF_THEN_ELSE_EXPR",
}

// String returns the tag's textual name, used in diagnostics and dumps.
func (t Tag) String() string {
	if s, ok := tagNames[t]; ok {
		return s
	}
	return "UNKNOWN_TAG"
}

// Decoration is the (staticClassNum, isMemberStaticVar, staticMemberNum)
// triple the typechecker writes onto expression nodes that reference a
// resolved class, member, or method, per spec.md §3 and §4.2. ClassNum is
// also used (with IsStaticVar/MemberNum unset) to record the class operand
// of NEW_EXPR and INSTANCEOF_EXPR, and the join type of IF_THEN_ELSE_EXPR.
type Decoration struct {
	Set bool // whether the typechecker has written this decoration

	// IsMember distinguishes a member reference (ClassNum/IsStaticVar/
	// MemberNum meaningful) from a local/parameter reference (those three
	// fields unset; the name itself is the local's key). Needed because
	// ClassNum==0 and MemberNum==0 are themselves valid member addresses.
	IsMember     bool
	ClassNum     int // declaring class index, or target class for NEW/INSTANCEOF
	IsStaticVar  bool // true if the member is a static field
	MemberNum    int  // field or method index within the declaring class
	ResolvedType int  // the type code computed for this expression

	// NullCoercionType records, for ASSIGN/DOT_ASSIGN/EQUALITY/METHOD_CALL/
	// DOT_METHOD_CALL nodes with a null literal child, the reference type
	// the null child must be coerced to at code-generation time (spec.md
	// §4.4.7). It is the ANY_OBJECT sentinel when both sides of an EQUALITY
	// are null (an untyped null-vs-null comparison), and unused (zero
	// value, which collides with Object's type code - callers must check
	// HasNullChild) when no child is null.
	HasNullChild    bool
	NullCoercionType int
}

// Node is a single AST node: a tag, its ordered children, the source line
// at the end of the construct, and the three mutable attribute slots
// (NatValue, Name, Decoration) spec.md §3 assigns to every node, even
// though most tags use only one of them.
type Node struct {
	Tag        Tag
	Children   []*Node
	Line       int
	NatValue   uint32
	Name       string
	Decoration Decoration
}

// New constructs a node with the given tag, line, and children.
func New(tag Tag, line int, children ...*Node) *Node {
	return &Node{Tag: tag, Line: line, Children: children}
}

// NewID constructs an AST_ID leaf node carrying an identifier name.
func NewID(name string, line int) *Node {
	return &Node{Tag: AST_ID, Line: line, Name: name}
}

// NewNatLiteral constructs a NAT_LITERAL_EXPR leaf carrying a value.
func NewNatLiteral(value uint32, line int) *Node {
	return &Node{Tag: NAT_LITERAL_EXPR, Line: line, NatValue: value}
}

// Child returns the i-th child, or nil if out of range.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// IsExprTag reports whether tag is one of the expression tags enumerated
// in spec.md §3.
func (t Tag) IsExprTag() bool {
	return t >= NAT_LITERAL_EXPR && t <= IF_THEN_ELSE_EXPR
}
