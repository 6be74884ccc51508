package lexer_test

import (
	"testing"

	"github.com/velalang/vela/internal/lexer"
	"github.com/velalang/vela/internal/types"
)

func tokenTypes(t *testing.T, tokens []lexer.Token) []lexer.TokenType {
	t.Helper()
	types := make([]lexer.TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestScanLetStatement(t *testing.T) {
	tokens, err := lexer.Scan(`let i: i64 = 0;`)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	got := tokenTypes(t, tokens)
	want := []lexer.TokenType{
		lexer.LET, lexer.IDENT, lexer.COLON, lexer.TYPE, lexer.EQUAL, lexer.INTEGER, lexer.SEMICOLON, lexer.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("token count mismatch: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestScanTypeAnnotationCarriesDecodedAnnotation(t *testing.T) {
	tokens, err := lexer.Scan(`let i: i64 = 0;`)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	// LET IDENT COLON TYPE ...
	typeTok := tokens[3]
	if typeTok.Type != lexer.TYPE {
		t.Fatalf("expected TYPE token at index 3, got %s", typeTok.Type)
	}
	if typeTok.TypeAnnotation == nil || typeTok.TypeAnnotation.Kind != types.I64 {
		t.Fatalf("expected i64 annotation, got %v", typeTok.TypeAnnotation)
	}
}

func TestScanArrayTypeAnnotation(t *testing.T) {
	tokens, err := lexer.Scan(`let a: Array<i32> = [1];`)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	typeTok := tokens[3]
	if typeTok.Type != lexer.TYPE {
		t.Fatalf("expected TYPE token, got %s", typeTok.Type)
	}
	ann := typeTok.TypeAnnotation
	if ann == nil || ann.Kind != types.Array || ann.Elem.Kind != types.I32 {
		t.Fatalf("expected Array<i32> annotation, got %v", ann)
	}
}

func TestScanUnitLiteralAfterEqual(t *testing.T) {
	tokens, err := lexer.Scan(`let u: () = ();`)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	// LET IDENT COLON TYPE EQUAL UNIT_LITERAL SEMICOLON EOF
	if tokens[5].Type != lexer.UNIT_LITERAL {
		t.Fatalf("expected UNIT_LITERAL at index 5, got %s (%v)", tokens[5].Type, tokens)
	}
}

func TestScanZeroArgCallParens(t *testing.T) {
	tokens, err := lexer.Scan(`f();`)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	want := []lexer.TokenType{lexer.IDENT, lexer.LEFT_PAREN, lexer.RIGHT_PAREN, lexer.SEMICOLON, lexer.EOF}
	got := tokenTypes(t, tokens)
	if len(got) != len(want) {
		t.Fatalf("token count mismatch: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	tokens, err := lexer.Scan(`struct fn while break self notakeyword`)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	want := []lexer.TokenType{lexer.STRUCT, lexer.FN, lexer.WHILE, lexer.BREAK, lexer.SELF, lexer.IDENT, lexer.EOF}
	got := tokenTypes(t, tokens)
	if len(got) != len(want) {
		t.Fatalf("token count mismatch: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestScanLineCommentIsSkipped(t *testing.T) {
	tokens, err := lexer.Scan("let i: i64 = 0; // trailing comment\n")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if tokens[len(tokens)-1].Type != lexer.EOF {
		t.Fatalf("expected stream to end in EOF, got %v", tokens)
	}
}

func TestScanUnterminatedStringIsAnError(t *testing.T) {
	_, err := lexer.Scan(`"unterminated`)
	if err == nil {
		t.Fatal("expected an error for an unterminated string literal")
	}
}

func TestScanUnexpectedCharacterIsAnError(t *testing.T) {
	_, err := lexer.Scan("let i: i64 = 0 @ 1;")
	if err == nil {
		t.Fatal("expected an error for an unrecognized character")
	}
}

func TestScanFloatLiteral(t *testing.T) {
	tokens, err := lexer.Scan(`3.14`)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if tokens[0].Type != lexer.FLOAT {
		t.Fatalf("expected FLOAT, got %s", tokens[0].Type)
	}
	if tokens[0].Literal.(float64) != 3.14 {
		t.Fatalf("expected literal 3.14, got %v", tokens[0].Literal)
	}
}

func TestScanStringLiteral(t *testing.T) {
	tokens, err := lexer.Scan(`"hello"`)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if tokens[0].Type != lexer.STRING {
		t.Fatalf("expected STRING, got %s", tokens[0].Type)
	}
	if tokens[0].Literal.(string) != "hello" {
		t.Fatalf("expected literal \"hello\", got %v", tokens[0].Literal)
	}
}
