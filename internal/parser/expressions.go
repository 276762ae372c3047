package parser

import (
	"strconv"

	"github.com/dj-lang/dj2ll/internal/ast"
	"github.com/dj-lang/dj2ll/internal/lexer"
)

// parseExpr parses a full expression, lowest precedence first: assignment,
// then the operator ladder described in spec.md §3 (&&, ==, >, +/-, *, !,
// postfix . / instanceof / call, primary).
func (p *Parser) parseExpr() *ast.Node {
	return p.parseAssign()
}

func (p *Parser) parseAssign() *ast.Node {
	left := p.parseAnd()
	if p.cur.Type != lexer.ASSIGN {
		return left
	}
	line := p.cur.Span.Line
	p.next()
	rhs := p.parseAssign()

	switch left.Tag {
	case ast.ID_EXPR:
		return &ast.Node{Tag: ast.ASSIGN_EXPR, Line: line, Children: []*ast.Node{ast.NewID(left.Name, left.Line), rhs}}
	case ast.DOT_ID_EXPR:
		return &ast.Node{Tag: ast.DOT_ASSIGN_EXPR, Line: line, Children: []*ast.Node{left.DotIDObj(), left.DotIDName(), rhs}}
	default:
		p.errorf("left-hand side of assignment must be a variable or field access")
		return left
	}
}

func (p *Parser) parseAnd() *ast.Node {
	left := p.parseEquality()
	for p.cur.Type == lexer.AND {
		line := p.cur.Span.Line
		p.next()
		right := p.parseEquality()
		left = &ast.Node{Tag: ast.AND_EXPR, Line: line, Children: []*ast.Node{left, right}}
	}
	return left
}

func (p *Parser) parseEquality() *ast.Node {
	left := p.parseComparison()
	for p.cur.Type == lexer.EQ {
		line := p.cur.Span.Line
		p.next()
		right := p.parseComparison()
		left = &ast.Node{Tag: ast.EQUALITY_EXPR, Line: line, Children: []*ast.Node{left, right}}
	}
	return left
}

func (p *Parser) parseComparison() *ast.Node {
	left := p.parseAdditive()
	for p.cur.Type == lexer.GT {
		line := p.cur.Span.Line
		p.next()
		right := p.parseAdditive()
		left = &ast.Node{Tag: ast.GREATER_THAN_EXPR, Line: line, Children: []*ast.Node{left, right}}
	}
	return left
}

func (p *Parser) parseAdditive() *ast.Node {
	left := p.parseMultiplicative()
	for p.cur.Type == lexer.PLUS || p.cur.Type == lexer.MINUS {
		tag := ast.PLUS_EXPR
		if p.cur.Type == lexer.MINUS {
			tag = ast.MINUS_EXPR
		}
		line := p.cur.Span.Line
		p.next()
		right := p.parseMultiplicative()
		left = &ast.Node{Tag: tag, Line: line, Children: []*ast.Node{left, right}}
	}
	return left
}

func (p *Parser) parseMultiplicative() *ast.Node {
	left := p.parseUnary()
	for p.cur.Type == lexer.STAR {
		line := p.cur.Span.Line
		p.next()
		right := p.parseUnary()
		left = &ast.Node{Tag: ast.TIMES_EXPR, Line: line, Children: []*ast.Node{left, right}}
	}
	return left
}

func (p *Parser) parseUnary() *ast.Node {
	if p.cur.Type == lexer.BANG {
		line := p.cur.Span.Line
		p.next()
		operand := p.parseUnary()
		return &ast.Node{Tag: ast.NOT_EXPR, Line: line, Children: []*ast.Node{operand}}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() *ast.Node {
	expr := p.parsePrimary()
	for {
		switch p.cur.Type {
		case lexer.DOT:
			p.next()
			nameTok := p.expect(lexer.IDENT)
			if p.cur.Type == lexer.LPAREN {
				p.next()
				arg := p.parseExpr()
				line := p.cur.Span.Line
				p.expect(lexer.RPAREN)
				expr = &ast.Node{
					Tag:  ast.DOT_METHOD_CALL_EXPR,
					Line: line,
					Children: []*ast.Node{
						expr,
						ast.NewID(nameTok.Literal, nameTok.Span.Line),
						arg,
					},
				}
			} else {
				expr = &ast.Node{
					Tag:      ast.DOT_ID_EXPR,
					Line:     nameTok.Span.Line,
					Children: []*ast.Node{expr, ast.NewID(nameTok.Literal, nameTok.Span.Line)},
				}
			}
		case lexer.KW_INSTANCEOF:
			p.next()
			typeTok := p.expect(lexer.IDENT)
			expr = &ast.Node{
				Tag:      ast.INSTANCEOF_EXPR,
				Line:     typeTok.Span.Line,
				Children: []*ast.Node{expr, ast.NewID(typeTok.Literal, typeTok.Span.Line)},
			}
		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary() *ast.Node {
	tok := p.cur
	switch tok.Type {
	case lexer.NAT:
		p.next()
		v, _ := strconv.ParseUint(tok.Literal, 10, 32)
		return ast.NewNatLiteral(uint32(v), tok.Span.Line)
	case lexer.KW_TRUE:
		p.next()
		return &ast.Node{Tag: ast.TRUE_LITERAL_EXPR, Line: tok.Span.Line}
	case lexer.KW_FALSE:
		p.next()
		return &ast.Node{Tag: ast.FALSE_LITERAL_EXPR, Line: tok.Span.Line}
	case lexer.KW_NULL:
		p.next()
		return &ast.Node{Tag: ast.NULL_EXPR, Line: tok.Span.Line}
	case lexer.KW_THIS:
		p.next()
		return &ast.Node{Tag: ast.THIS_EXPR, Line: tok.Span.Line}
	case lexer.KW_READNAT:
		p.next()
		p.expect(lexer.LPAREN)
		p.expect(lexer.RPAREN)
		return &ast.Node{Tag: ast.READ_EXPR, Line: tok.Span.Line}
	case lexer.KW_PRINTNAT:
		p.next()
		p.expect(lexer.LPAREN)
		arg := p.parseExpr()
		line := p.cur.Span.Line
		p.expect(lexer.RPAREN)
		return &ast.Node{Tag: ast.PRINT_EXPR, Line: line, Children: []*ast.Node{arg}}
	case lexer.KW_NEW:
		p.next()
		nameTok := p.expect(lexer.IDENT)
		p.expect(lexer.LPAREN)
		line := p.cur.Span.Line
		p.expect(lexer.RPAREN)
		return &ast.Node{Tag: ast.NEW_EXPR, Line: line, Children: []*ast.Node{ast.NewID(nameTok.Literal, nameTok.Span.Line)}}
	case lexer.KW_IF:
		return p.parseIf()
	case lexer.KW_FOR:
		return p.parseFor()
	case lexer.LPAREN:
		p.next()
		e := p.parseExpr()
		p.expect(lexer.RPAREN)
		return e
	case lexer.IDENT:
		p.next()
		if p.cur.Type == lexer.LPAREN {
			p.next()
			arg := p.parseExpr()
			line := p.cur.Span.Line
			p.expect(lexer.RPAREN)
			return &ast.Node{Tag: ast.METHOD_CALL_EXPR, Line: line, Children: []*ast.Node{ast.NewID(tok.Literal, tok.Span.Line), arg}}
		}
		return &ast.Node{Tag: ast.ID_EXPR, Line: tok.Span.Line, Name: tok.Literal}
	default:
		p.errorf("unexpected token %q in expression", tok.Type)
		p.next()
		return ast.NewNatLiteral(0, tok.Span.Line)
	}
}

func (p *Parser) parseIf() *ast.Node {
	line := p.cur.Span.Line
	p.expect(lexer.KW_IF)
	p.expect(lexer.LPAREN)
	cond := p.parseExpr()
	p.expect(lexer.RPAREN)
	thenList := p.parseBlockOrExpr()
	p.expect(lexer.KW_ELSE)
	elseList := p.parseBlockOrExpr()
	return &ast.Node{Tag: ast.IF_THEN_ELSE_EXPR, Line: line, Children: []*ast.Node{cond, thenList, elseList}}
}

func (p *Parser) parseFor() *ast.Node {
	line := p.cur.Span.Line
	p.expect(lexer.KW_FOR)
	p.expect(lexer.LPAREN)
	init := p.parseExpr()
	p.expect(lexer.SEMICOLON)
	test := p.parseExpr()
	p.expect(lexer.SEMICOLON)
	update := p.parseExpr()
	p.expect(lexer.RPAREN)
	body := p.parseBlockOrExpr()
	return &ast.Node{Tag: ast.FOR_EXPR, Line: line, Children: []*ast.Node{init, test, update, body}}
}
