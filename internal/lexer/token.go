package lexer

import "github.com/velalang/vela/internal/types"

// Position is an alias of types.Position so every package that needs a
// source location (ast, errors, evaluator) can share one definition without
// importing the lexer itself.
type Position = types.Position

// Token is a single lexical unit with its source span. Literal carries the
// decoded literal payload for INTEGER/FLOAT/STRING tokens; TypeAnnotation
// carries the decoded annotation for TYPE tokens.
type Token struct {
	Type           TokenType
	Lexeme         string
	Literal        any
	TypeAnnotation *types.Annotation
	Pos            Position
}
