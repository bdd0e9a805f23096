package gmpl

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// ParseError is a syntax error raised while parsing a model or data file,
// carrying the position at which parsing stopped making sense.
type ParseError struct {
	Pos lexer.Position
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

func unexpectedToken(tok lexer.Token, want string) error {
	got := tok.Value
	if tok.EOF() {
		got = "end of input"
	}

	return &ParseError{Pos: tok.Pos, Msg: fmt.Sprintf("expected %s, got %q", want, got)}
}

// expect consumes the next token if it has the given type, else returns a
// ParseError. desc is the human-readable token description used in the
// error message.
func expect(lex *lexer.PeekingLexer, typ lexer.TokenType, desc string) error {
	tok := lex.Peek()
	if tok.Type != typ {
		return unexpectedToken(tok, desc)
	}

	lex.Next()

	return nil
}

// expectKeyword consumes the next token if it is the identifier kw.
func expectKeyword(lex *lexer.PeekingLexer, kw string) error {
	tok := lex.Peek()
	if tok.Type != tIdent || tok.Value != kw {
		return unexpectedToken(tok, "'"+kw+"'")
	}

	lex.Next()

	return nil
}

// expectOp consumes the next token if it is an operator token with the
// given literal value.
func expectOp(lex *lexer.PeekingLexer, val string) error {
	tok := lex.Peek()
	if tok.Type != tOp || tok.Value != val {
		return unexpectedToken(tok, "'"+val+"'")
	}

	lex.Next()

	return nil
}

// peekIs reports whether the next token has the given type without
// consuming it.
func peekIs(lex *lexer.PeekingLexer, typ lexer.TokenType) bool {
	return lex.Peek().Type == typ
}

// peekIsOp reports whether the next token is an operator token with the
// given literal value, without consuming it.
func peekIsOp(lex *lexer.PeekingLexer, val string) bool {
	tok := lex.Peek()

	return tok.Type == tOp && tok.Value == val
}

// peekIsKeyword reports whether the next token is the identifier kw,
// without consuming it.
func peekIsKeyword(lex *lexer.PeekingLexer, kw string) bool {
	tok := lex.Peek()

	return tok.Type == tIdent && tok.Value == kw
}
