// Package parser implements a recursive-descent parser for DJ source text,
// producing the tagged AST defined by spec.md §3 / internal/ast. As with
// internal/lexer, this package is supplemental (spec.md §1(i) scopes the
// real lexer/parser out of the CORE) — it exists only to drive the CORE
// end-to-end from source text, in the style of a Pratt/precedence-climbing
// expression parser, the shape malphas/internal/parser/parser.go uses for
// its own binary-operator precedence table.
package parser

import (
	"github.com/dj-lang/dj2ll/internal/ast"
	"github.com/dj-lang/dj2ll/internal/diag"
	"github.com/dj-lang/dj2ll/internal/lexer"
)

// Parser turns a token stream into a *ast.Node PROGRAM tree.
type Parser struct {
	l        *lexer.Lexer
	filename string

	cur  lexer.Token
	peek lexer.Token

	errors []diag.Diagnostic
}

// New creates a parser over src.
func New(src, filename string) *Parser {
	p := &Parser{l: lexer.New(src, filename), filename: filename}
	p.next()
	p.next()
	return p
}

// Errors returns every diagnostic collected while parsing.
func (p *Parser) Errors() []diag.Diagnostic { return p.errors }

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errors = append(p.errors, diag.New(diag.StageSymtab, p.cur.Span.Line, format, args...))
}

func (p *Parser) expect(tt lexer.TokenType) lexer.Token {
	tok := p.cur
	if p.cur.Type != tt {
		p.errorf("expected %q, found %q (%q)", tt, p.cur.Type, p.cur.Literal)
	} else {
		p.next()
	}
	return tok
}

// ParseProgram parses a full DJ compilation unit: zero or more class
// declarations followed by the main block.
func (p *Parser) ParseProgram() *ast.Node {
	startLine := p.cur.Span.Line
	classes := p.parseClassDeclList()

	p.expect(lexer.KW_MAIN)
	p.expect(lexer.LBRACE)
	locals := p.parseVarDeclList()
	body := p.parseExprSeqUntilRBrace()
	endLine := p.cur.Span.Line
	p.expect(lexer.RBRACE)

	bodyList := &ast.Node{Tag: ast.EXPR_LIST, Line: endLine, Children: body}
	return &ast.Node{
		Tag:      ast.PROGRAM,
		Line:     startLine,
		Children: []*ast.Node{classes, locals, bodyList},
	}
}

func (p *Parser) parseClassDeclList() *ast.Node {
	line := p.cur.Span.Line
	var classes []*ast.Node
	for p.cur.Type == lexer.KW_CLASS {
		classes = append(classes, p.parseClassDecl())
	}
	return &ast.Node{Tag: ast.CLASS_DECL_LIST, Line: line, Children: classes}
}

func (p *Parser) parseClassDecl() *ast.Node {
	line := p.cur.Span.Line
	p.expect(lexer.KW_CLASS)
	nameTok := p.expect(lexer.IDENT)

	superLine := p.cur.Span.Line
	superName := "Object"
	if p.cur.Type == lexer.KW_EXTENDS {
		p.next()
		superTok := p.expect(lexer.IDENT)
		superName = superTok.Literal
		superLine = superTok.Span.Line
	}
	super := ast.NewID(superName, superLine)

	p.expect(lexer.LBRACE)

	var staticVars, instanceVars, methods []*ast.Node
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		if p.cur.Type == lexer.KW_STATIC {
			staticVars = append(staticVars, p.parseStaticVarDecl())
			continue
		}
		decl, isMethod := p.parseFieldOrMethod()
		if isMethod {
			methods = append(methods, decl)
		} else {
			instanceVars = append(instanceVars, decl)
		}
	}
	endLine := p.cur.Span.Line
	p.expect(lexer.RBRACE)

	return &ast.Node{
		Tag:  ast.CLASS_DECL,
		Line: endLine,
		Name: nameTok.Literal,
		Children: []*ast.Node{
			super,
			{Tag: ast.STATIC_VAR_DECL_LIST, Line: line, Children: staticVars},
			{Tag: ast.VAR_DECL_LIST, Line: line, Children: instanceVars},
			{Tag: ast.METHOD_DECL_LIST, Line: line, Children: methods},
		},
	}
}

func (p *Parser) parseStaticVarDecl() *ast.Node {
	line := p.cur.Span.Line
	p.expect(lexer.KW_STATIC)
	typ := p.parseType()
	nameTok := p.expect(lexer.IDENT)
	p.expect(lexer.SEMICOLON)
	return &ast.Node{Tag: ast.VAR_DECL, Line: line, Name: nameTok.Literal, Children: []*ast.Node{typ}}
}

// parseFieldOrMethod parses either "type ID ;" (an instance field) or
// "type ID ( type ID ) { ... }" (a method), disambiguated by the token
// following the declared name.
func (p *Parser) parseFieldOrMethod() (*ast.Node, bool) {
	line := p.cur.Span.Line
	typ := p.parseType()
	nameTok := p.expect(lexer.IDENT)

	if p.cur.Type == lexer.LPAREN {
		p.next()
		paramType := p.parseType()
		paramNameTok := p.expect(lexer.IDENT)
		p.expect(lexer.RPAREN)
		p.expect(lexer.LBRACE)
		locals := p.parseVarDeclList()
		body := p.parseExprSeqUntilRBrace()
		endLine := p.cur.Span.Line
		p.expect(lexer.RBRACE)

		method := &ast.Node{
			Tag:  ast.METHOD_DECL,
			Line: endLine,
			Name: nameTok.Literal,
			Children: []*ast.Node{
				typ,
				paramType,
				ast.NewID(paramNameTok.Literal, paramNameTok.Span.Line),
				locals,
				{Tag: ast.EXPR_LIST, Line: endLine, Children: body},
			},
		}
		return method, true
	}

	p.expect(lexer.SEMICOLON)
	field := &ast.Node{Tag: ast.VAR_DECL, Line: line, Name: nameTok.Literal, Children: []*ast.Node{typ}}
	return field, false
}

// parseVarDeclList parses zero or more "type ID ;" local declarations,
// stopping at the first token that cannot start one (used for both method
// locals and the main block's locals).
func (p *Parser) parseVarDeclList() *ast.Node {
	line := p.cur.Span.Line
	var decls []*ast.Node
	for p.startsType() && p.identFollowsTypeThenSemicolon() {
		declLine := p.cur.Span.Line
		typ := p.parseType()
		nameTok := p.expect(lexer.IDENT)
		p.expect(lexer.SEMICOLON)
		decls = append(decls, &ast.Node{Tag: ast.VAR_DECL, Line: declLine, Name: nameTok.Literal, Children: []*ast.Node{typ}})
	}
	return &ast.Node{Tag: ast.VAR_DECL_LIST, Line: line, Children: decls}
}

func (p *Parser) startsType() bool {
	return p.cur.Type == lexer.KW_NAT || p.cur.Type == lexer.KW_BOOL || p.cur.Type == lexer.IDENT
}

// identFollowsTypeThenSemicolon distinguishes a local var decl ("nat x;")
// from the start of the main/method body's expression sequence, which may
// also begin with a bare identifier (e.g. "x = x + 1;").
func (p *Parser) identFollowsTypeThenSemicolon() bool {
	// A var decl is exactly TYPE IDENT ';' — anything else (a call, a
	// dotted access, an assignment to an existing name) is the start of
	// the expression sequence instead.
	return p.peek.Type == lexer.IDENT
}

func (p *Parser) parseType() *ast.Node {
	line := p.cur.Span.Line
	switch p.cur.Type {
	case lexer.KW_NAT:
		p.next()
		return &ast.Node{Tag: ast.NAT_TYPE, Line: line}
	case lexer.KW_BOOL:
		p.next()
		return &ast.Node{Tag: ast.BOOL_TYPE, Line: line}
	case lexer.IDENT:
		tok := p.cur
		p.next()
		return ast.NewID(tok.Literal, line)
	default:
		p.errorf("expected a type, found %q", p.cur.Type)
		p.next()
		return &ast.Node{Tag: ast.NAT_TYPE, Line: line}
	}
}

// parseExprSeqUntilRBrace parses expr (";" expr)* with an optional
// trailing ';', stopping before '}'.
func (p *Parser) parseExprSeqUntilRBrace() []*ast.Node {
	var exprs []*ast.Node
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		exprs = append(exprs, p.parseExpr())
		if p.cur.Type == lexer.SEMICOLON {
			p.next()
			continue
		}
		break
	}
	return exprs
}

// parseBlockOrExpr parses either a braced "{ expr (";" expr)* }" sequence
// or a single bare expression, used for if/for bodies (spec.md's grammar
// leaves the exact surface syntax to the parser; DJ permits either form,
// matching the bodies shown in spec.md §8's S1-S6 examples).
func (p *Parser) parseBlockOrExpr() *ast.Node {
	if p.cur.Type == lexer.LBRACE {
		p.next()
		exprs := p.parseExprSeqUntilRBrace()
		line := p.cur.Span.Line
		p.expect(lexer.RBRACE)
		return &ast.Node{Tag: ast.EXPR_LIST, Line: line, Children: exprs}
	}
	e := p.parseExpr()
	return &ast.Node{Tag: ast.EXPR_LIST, Line: e.Line, Children: []*ast.Node{e}}
}
