package lexer_test

import (
	"testing"

	"github.com/dj-lang/dj2ll/internal/lexer"
)

func TestNextTokenCoversOperatorsAndKeywords(t *testing.T) {
	src := `class A extends Object {
  nat f(nat x) { x + 1 }
}
main { printNat(1 == 2 && true); }
`
	want := []lexer.TokenType{
		lexer.KW_CLASS, lexer.IDENT, lexer.KW_EXTENDS, lexer.IDENT, lexer.LBRACE,
		lexer.KW_NAT, lexer.IDENT, lexer.LPAREN, lexer.KW_NAT, lexer.IDENT, lexer.RPAREN, lexer.LBRACE,
		lexer.IDENT, lexer.PLUS, lexer.NAT, lexer.RBRACE,
		lexer.RBRACE,
		lexer.KW_MAIN, lexer.LBRACE, lexer.KW_PRINTNAT, lexer.LPAREN,
		lexer.NAT, lexer.EQ, lexer.NAT, lexer.AND, lexer.KW_TRUE, lexer.RPAREN, lexer.SEMICOLON, lexer.RBRACE,
		lexer.EOF,
	}

	l := lexer.New(src, "t.dj")
	for i, wantType := range want {
		tok := l.NextToken()
		if tok.Type != wantType {
			t.Fatalf("token %d: got %q, want %q (literal %q)", i, tok.Type, wantType, tok.Literal)
		}
	}
}

func TestLineTrackingAdvancesOnNewline(t *testing.T) {
	src := "main {\n  printNat(1);\n}\n"
	l := lexer.New(src, "t.dj")

	var last lexer.Token
	for {
		tok := l.NextToken()
		if tok.Type == lexer.EOF {
			break
		}
		if tok.Type == lexer.NAT {
			last = tok
		}
	}
	if last.Span.Line != 2 {
		t.Fatalf("expected nat literal on line 2, got line %d", last.Span.Line)
	}
}

func TestLineCommentIsSkipped(t *testing.T) {
	src := "// a comment\nmain { }\n"
	l := lexer.New(src, "t.dj")
	tok := l.NextToken()
	if tok.Type != lexer.KW_MAIN {
		t.Fatalf("expected main keyword after comment, got %q", tok.Type)
	}
	if tok.Span.Line != 2 {
		t.Fatalf("expected main on line 2, got %d", tok.Span.Line)
	}
}
