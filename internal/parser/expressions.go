package parser

import (
	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/errors"
	"github.com/velalang/vela/internal/lexer"
	"github.com/velalang/vela/internal/types"
)

func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseAssignment()
}

// parseAssignment is right-associative and sits at the bottom of the
// precedence chain. It re-interprets whatever the left-hand side parsed
// as (Variable, Get, or Index) into the matching assignment node.
func (p *Parser) parseAssignment() (ast.Expression, error) {
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if !p.match(lexer.EQUAL) {
		return expr, nil
	}
	eq := p.previous()
	value, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}

	switch target := expr.(type) {
	case *ast.Variable:
		return &ast.Assign{Token: eq, Name: target.Name, Value: value}, nil
	case *ast.Get:
		return &ast.Set{Dot: target.Dot, Object: target.Object, Name: target.Name, Value: value}, nil
	case *ast.Index:
		return &ast.SetArrayElement{Bracket: target.Bracket, Object: target.Object, Idx: target.Idx, Value: value}, nil
	default:
		return nil, errors.NewParserError(eq.Pos, eq.Lexeme, "invalid assignment target")
	}
}

func (p *Parser) parseOr() (ast.Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.match(lexer.OR) {
		op := p.previous()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.Logical{Operator: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expression, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.match(lexer.AND) {
		op := p.previous()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &ast.Logical{Operator: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseEquality() (ast.Expression, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.match(lexer.BANG_EQUAL, lexer.EQUAL_EQUAL) {
		op := p.previous()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Operator: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseComparison() (ast.Expression, error) {
	left, err := p.parseAddition()
	if err != nil {
		return nil, err
	}
	for p.match(lexer.GREATER, lexer.GREATER_EQUAL, lexer.LESS, lexer.LESS_EQUAL) {
		op := p.previous()
		right, err := p.parseAddition()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Operator: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAddition() (ast.Expression, error) {
	left, err := p.parseMultiplication()
	if err != nil {
		return nil, err
	}
	for p.match(lexer.PLUS, lexer.MINUS) {
		op := p.previous()
		right, err := p.parseMultiplication()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Operator: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplication() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.match(lexer.STAR, lexer.SLASH) {
		op := p.previous()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Operator: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	if p.match(lexer.BANG, lexer.MINUS) {
		op := p.previous()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Operator: op, Right: right}, nil
	}
	return p.parseCallGetIndex()
}

func (p *Parser) parseCallGetIndex() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.match(lexer.LEFT_PAREN):
			expr, err = p.finishCall(expr)
		case p.match(lexer.DOT):
			expr, err = p.finishGet(expr)
		case p.match(lexer.LEFT_BRACKET):
			expr, err = p.finishIndex(expr)
		default:
			return expr, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func (p *Parser) finishCall(callee ast.Expression) (ast.Expression, error) {
	var args []ast.Expression
	if !p.check(lexer.RIGHT_PAREN) {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	paren, err := p.consume(lexer.RIGHT_PAREN, "expected ')' after call arguments")
	if err != nil {
		return nil, err
	}
	return &ast.Call{Paren: paren, Callee: callee, Args: args}, nil
}

func (p *Parser) finishGet(object ast.Expression) (ast.Expression, error) {
	dot := p.previous()
	name, err := p.consumeIdent("expected member name after '.'")
	if err != nil {
		return nil, err
	}
	return &ast.Get{Dot: dot, Object: object, Name: name}, nil
}

func (p *Parser) finishIndex(object ast.Expression) (ast.Expression, error) {
	bracket := p.previous()
	idx, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.RIGHT_BRACKET, "expected ']' after index expression"); err != nil {
		return nil, err
	}
	return &ast.Index{Bracket: bracket, Object: object, Idx: idx}, nil
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	switch {
	case p.match(lexer.TRUE):
		return &ast.BooleanLiteral{Token: p.previous(), Value: true}, nil
	case p.match(lexer.FALSE):
		return &ast.BooleanLiteral{Token: p.previous(), Value: false}, nil
	case p.match(lexer.UNIT_LITERAL):
		return &ast.UnitLiteral{Token: p.previous()}, nil
	case p.match(lexer.INTEGER):
		return p.parseIntegerLiteral(), nil
	case p.match(lexer.FLOAT):
		return p.parseFloatLiteral(), nil
	case p.match(lexer.STRING):
		tok := p.previous()
		return &ast.StringLiteral{Token: tok, Value: tok.Literal.(string)}, nil
	case p.match(lexer.LEFT_BRACKET):
		return p.parseArrayLiteral()
	case p.match(lexer.LEFT_PAREN):
		return p.parseGrouping()
	case p.match(lexer.SELF):
		tok := p.previous()
		return &ast.Variable{Name: &ast.Identifier{Token: tok, Value: tok.Lexeme}}, nil
	case p.match(lexer.IDENT):
		return p.parseIdentOrEnumPath()
	}

	tok := p.peek()
	return nil, errors.NewParserError(tok.Pos, tok.Lexeme, "expected expression")
}

// parseIntegerLiteral resolves the I32-vs-I64 default per spec §4.2: I64
// unless we are inside the initializer of a let declared as i32 or
// Array<i32>.
func (p *Parser) parseIntegerLiteral() ast.Expression {
	tok := p.previous()
	ann := types.Primitive(types.I64)
	if letType := p.currentLetType; letType != nil {
		if letType.Kind == types.Array {
			letType = letType.Elem
		}
		if letType.Kind == types.I32 {
			ann = types.Primitive(types.I32)
		}
	}
	return &ast.IntegerLiteral{Token: tok, Value: tok.Literal.(int64), Annotation: ann}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	tok := p.previous()
	ann := types.Primitive(types.F64)
	if letType := p.currentLetType; letType != nil {
		if letType.Kind == types.Array {
			letType = letType.Elem
		}
		if letType.Kind == types.F32 {
			ann = types.Primitive(types.F32)
		}
	}
	return &ast.FloatLiteral{Token: tok, Value: tok.Literal.(float64), Annotation: ann}
}

func (p *Parser) parseArrayLiteral() (ast.Expression, error) {
	tok := p.previous()
	var elements []ast.Expression
	if !p.check(lexer.RIGHT_BRACKET) {
		for {
			el, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			elements = append(elements, el)
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(lexer.RIGHT_BRACKET, "expected ']' after array elements"); err != nil {
		return nil, err
	}
	return &ast.ArrayLiteral{Token: tok, Elements: elements}, nil
}

func (p *Parser) parseGrouping() (ast.Expression, error) {
	tok := p.previous()
	inner, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.RIGHT_PAREN, "expected ')' after grouped expression"); err != nil {
		return nil, err
	}
	return &ast.Grouping{Token: tok, Inner: inner}, nil
}

// parseIdentOrEnumPath resolves `IDENT` vs `IDENT :: IDENT (:: IDENT)*`.
func (p *Parser) parseIdentOrEnumPath() (ast.Expression, error) {
	tok := p.previous()
	first := &ast.Identifier{Token: tok, Value: tok.Lexeme}
	if !p.check(lexer.PATH_SEPARATOR) {
		return &ast.Variable{Name: first}, nil
	}
	segments := []*ast.Identifier{first}
	for p.match(lexer.PATH_SEPARATOR) {
		seg, err := p.consumeIdent("expected identifier after '::'")
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	return &ast.EnumPath{Token: tok, Segments: segments}, nil
}
