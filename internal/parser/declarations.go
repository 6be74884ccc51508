package parser

import (
	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/lexer"
	"github.com/velalang/vela/internal/types"
)

// parseDeclaration dispatches the declaration-level productions; anything
// else falls through to the statement grammar.
func (p *Parser) parseDeclaration() (ast.Statement, error) {
	switch {
	case p.match(lexer.STRUCT):
		return p.parseStructStmt()
	case p.match(lexer.ENUM):
		return p.parseEnumStmt()
	case p.match(lexer.TRAIT):
		return p.parseTraitStmt()
	case p.match(lexer.IMPL):
		return p.parseImplStmt()
	case p.match(lexer.FN):
		return p.parseFunctionStmt()
	case p.match(lexer.LET):
		return p.parseLetStmt()
	default:
		return p.parseStatement()
	}
}

// parseParamList parses `(NAME : TYPE),*` with a mandatory comma between
// entries and no trailing comma (used by fn parameter lists).
func (p *Parser) parseParamList() ([]*ast.Param, error) {
	var params []*ast.Param
	if p.check(lexer.RIGHT_PAREN) {
		return params, nil
	}
	for {
		name, err := p.consumeIdent("expected parameter name")
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(lexer.COLON, "expected ':' after parameter name"); err != nil {
			return nil, err
		}
		ann, _, err := p.consumeType("expected parameter type")
		if err != nil {
			return nil, err
		}
		params = append(params, &ast.Param{Name: name, Annotation: ann})
		if !p.match(lexer.COMMA) {
			break
		}
	}
	return params, nil
}

func (p *Parser) parseFunctionStmt() (*ast.FunctionStmt, error) {
	tok := p.previous()
	name, err := p.consumeIdent("expected function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.LEFT_PAREN, "expected '(' after function name"); err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.RIGHT_PAREN, "expected ')' after parameters"); err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.RETURN_TYPE, "expected '->' before return type"); err != nil {
		return nil, err
	}
	retType, _, err := p.consumeType("expected return type")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.LEFT_BRACE, "expected '{' to start function body"); err != nil {
		return nil, err
	}
	body, err := p.parseBlockBody()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionStmt{Token: tok, Name: name, Params: params, ReturnType: retType, Body: body}, nil
}

// parseStructStmt parses `struct NAME { (NAME : TYPE ,)* (NAME : TYPE)? }`.
// A comma is required between fields but the final trailing comma is
// optional — the loop below allows either immediately closing on '}' after
// a comma, or closing without one.
func (p *Parser) parseStructStmt() (*ast.StructStmt, error) {
	tok := p.previous()
	name, err := p.consumeIdent("expected struct name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.LEFT_BRACE, "expected '{' after struct name"); err != nil {
		return nil, err
	}
	var fields []*ast.Param
	for !p.check(lexer.RIGHT_BRACE) && !p.isAtEnd() {
		fieldName, err := p.consumeIdent("expected field name")
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(lexer.COLON, "expected ':' after field name"); err != nil {
			return nil, err
		}
		ann, _, err := p.consumeType("expected field type")
		if err != nil {
			return nil, err
		}
		fields = append(fields, &ast.Param{Name: fieldName, Annotation: ann})
		if !p.match(lexer.COMMA) {
			break
		}
	}
	if _, err := p.consume(lexer.RIGHT_BRACE, "expected '}' to close struct"); err != nil {
		return nil, err
	}
	return &ast.StructStmt{Token: tok, Name: name, Fields: fields}, nil
}

func (p *Parser) parseTraitStmt() (*ast.TraitStmt, error) {
	tok := p.previous()
	name, err := p.consumeIdent("expected trait name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.LEFT_BRACE, "expected '{' after trait name"); err != nil {
		return nil, err
	}
	var sigs []*ast.TraitSignature
	for !p.check(lexer.RIGHT_BRACE) && !p.isAtEnd() {
		if _, err := p.consume(lexer.FN, "expected 'fn' in trait body"); err != nil {
			return nil, err
		}
		sigName, err := p.consumeIdent("expected method name")
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(lexer.LEFT_PAREN, "expected '(' after method name"); err != nil {
			return nil, err
		}
		params, err := p.parseParamList()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(lexer.RIGHT_PAREN, "expected ')' after parameters"); err != nil {
			return nil, err
		}
		if _, err := p.consume(lexer.RETURN_TYPE, "expected '->' before return type"); err != nil {
			return nil, err
		}
		retType, _, err := p.consumeType("expected return type")
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(lexer.SEMICOLON, "expected ';' after trait method signature"); err != nil {
			return nil, err
		}
		sigs = append(sigs, &ast.TraitSignature{Name: sigName, Params: params, ReturnType: retType})
	}
	if _, err := p.consume(lexer.RIGHT_BRACE, "expected '}' to close trait"); err != nil {
		return nil, err
	}
	return &ast.TraitStmt{Token: tok, Name: name, Signatures: sigs}, nil
}

// parseImplStmt handles both `impl NAME { ... }` and
// `impl TRAIT for NAME { ... }`: the first identifier is the struct name
// unless a `for` clause follows, in which case it was the trait name.
func (p *Parser) parseImplStmt() (*ast.ImplStmt, error) {
	tok := p.previous()
	first, err := p.consumeIdent("expected name after 'impl'")
	if err != nil {
		return nil, err
	}

	var structName, traitName *ast.Identifier
	if p.match(lexer.FOR) {
		traitName = first
		structName, err = p.consumeIdent("expected struct name after 'for'")
		if err != nil {
			return nil, err
		}
	} else {
		structName = first
	}

	if _, err := p.consume(lexer.LEFT_BRACE, "expected '{' after impl target"); err != nil {
		return nil, err
	}
	var methods []*ast.FunctionStmt
	for !p.check(lexer.RIGHT_BRACE) && !p.isAtEnd() {
		if _, err := p.consume(lexer.FN, "expected 'fn' in impl body"); err != nil {
			return nil, err
		}
		m, err := p.parseFunctionStmt()
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	if _, err := p.consume(lexer.RIGHT_BRACE, "expected '}' to close impl"); err != nil {
		return nil, err
	}
	return &ast.ImplStmt{Token: tok, StructName: structName, TraitName: traitName, Methods: methods}, nil
}

func (p *Parser) parseEnumStmt() (*ast.EnumStmt, error) {
	tok := p.previous()
	name, err := p.consumeIdent("expected enum name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.LEFT_BRACE, "expected '{' after enum name"); err != nil {
		return nil, err
	}
	var variants []*ast.Identifier
	for !p.check(lexer.RIGHT_BRACE) && !p.isAtEnd() {
		v, err := p.consumeIdent("expected enum variant name")
		if err != nil {
			return nil, err
		}
		variants = append(variants, v)
		if !p.match(lexer.COMMA) {
			break
		}
	}
	if _, err := p.consume(lexer.RIGHT_BRACE, "expected '}' to close enum"); err != nil {
		return nil, err
	}
	return &ast.EnumStmt{Token: tok, Name: name, Variants: variants}, nil
}

// parseLetStmt parses `let NAME : TYPE (= EXPR)? ;`. When the source omits
// the initializer, a default-value expression for TYPE is synthesized so
// every LetStmt downstream always has a non-nil Initializer.
func (p *Parser) parseLetStmt() (*ast.LetStmt, error) {
	tok := p.previous()
	name, err := p.consumeIdent("expected variable name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.COLON, "expected ':' after variable name"); err != nil {
		return nil, err
	}
	ann, annTok, err := p.consumeType("expected variable type")
	if err != nil {
		return nil, err
	}

	var initializer ast.Expression
	synthesized := false
	if p.match(lexer.EQUAL) {
		prevLetType := p.currentLetType
		p.currentLetType = ann
		initializer, err = p.parseExpression()
		p.currentLetType = prevLetType
		if err != nil {
			return nil, err
		}
	} else {
		initializer = defaultInitializer(ann, annTok)
		synthesized = true
	}

	if _, err := p.consume(lexer.SEMICOLON, "expected ';' after variable declaration"); err != nil {
		return nil, err
	}
	return &ast.LetStmt{Token: tok, Name: name, Annotation: ann, Initializer: initializer, Synthesized: synthesized}, nil
}

// defaultInitializer builds the literal the spec's Value default-value
// table names for an uninitialized `let` of the given type.
func defaultInitializer(ann *types.Annotation, tok lexer.Token) ast.Expression {
	switch ann.Kind {
	case types.I32, types.I64:
		return &ast.IntegerLiteral{Token: tok, Value: 0, Annotation: ann}
	case types.F32, types.F64:
		return &ast.FloatLiteral{Token: tok, Value: 0, Annotation: ann}
	case types.Bool:
		return &ast.BooleanLiteral{Token: tok, Value: false}
	case types.String:
		return &ast.StringLiteral{Token: tok, Value: ""}
	case types.Array:
		return &ast.ArrayLiteral{Token: tok}
	default:
		// Unit, User(_), and the sentinel kinds all default to Unit.
		return &ast.UnitLiteral{Token: tok}
	}
}
