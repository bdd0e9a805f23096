package gmpl

import (
	"strconv"

	"github.com/alecthomas/participle/v2/lexer"
)

// parseArith and parseLogic are hand-written binding-power (Pratt) climbers
// for the two expression sub-languages. This is the one place in the parser
// where participle's declarative struct-tag grammar is deliberately not
// used: operator precedence is exactly the thing that has to be right, and
// a climber expressed as ordinary Go control flow is both easier to get
// right and easier to verify against the precedence table than an
// equivalent participle grammar would be.
//
// Arithmetic binding powers, lowest to highest:
//
//	+ -        10   (left-assoc infix)
//	sum{...}   20   (prefix; operand parses at bp 20, binding tighter than +-
//	                 but not stealing operands from an enclosing * or /)
//	* /        20   (left-assoc infix)
//	-x         30   (prefix; operand parses at bp 30)
//	^          40   (right-assoc infix)
const (
	bpAdd    = 10
	bpSum    = 20
	bpMul    = 20
	bpNeg    = 30
	bpPow    = 40
	bpLogOr  = 10
	bpLogAnd = 20
)

func parseArith(lex *lexer.PeekingLexer) (Expr, error) {
	return parseArithBP(lex, 0)
}

func parseArithBP(lex *lexer.PeekingLexer, minBP int) (Expr, error) {
	lhs, err := parseArithPrefix(lex)
	if err != nil {
		return nil, err
	}

	for {
		tok := lex.Peek()
		if tok.Type != tOp {
			break
		}

		var (
			bp int
			op MathOp
		)

		switch tok.Value {
		case "+":
			bp, op = bpAdd, OpAdd
		case "-":
			bp, op = bpAdd, OpSub
		case "*":
			bp, op = bpMul, OpMul
		case "/":
			bp, op = bpMul, OpDiv
		case "^":
			bp, op = bpPow, OpPow
		default:
			return lhs, nil
		}

		if bp < minBP {
			break
		}

		lex.Next()

		nextMinBP := bp + 1
		if op == OpPow {
			nextMinBP = bp // right-associative: same bp allowed again on the rhs
		}

		rhs, err := parseArithBP(lex, nextMinBP)
		if err != nil {
			return nil, err
		}

		lhs = BinOpExpr{LHS: lhs, Op: op, RHS: rhs}
	}

	return lhs, nil
}

func parseArithPrefix(lex *lexer.PeekingLexer) (Expr, error) {
	tok := lex.Peek()

	switch {
	case tok.Type == tOp && tok.Value == "-":
		lex.Next()

		operand, err := parseArithBP(lex, bpNeg)
		if err != nil {
			return nil, err
		}

		return NegExpr{Operand: operand}, nil

	case tok.Type == tIdent && tok.Value == "sum":
		lex.Next()

		dom, err := parseDomain(lex)
		if err != nil {
			return nil, err
		}

		operand, err := parseArithBP(lex, bpSum)
		if err != nil {
			return nil, err
		}

		return SumExpr{Domain: dom, Operand: operand}, nil

	case tok.Type == tIdent && tok.Value == "min":
		lex.Next()

		dom, err := parseDomain(lex)
		if err != nil {
			return nil, err
		}

		return MinExpr{Domain: dom}, nil

	case tok.Type == tIdent && tok.Value == "max":
		lex.Next()

		dom, err := parseDomain(lex)
		if err != nil {
			return nil, err
		}

		return MaxExpr{Domain: dom}, nil

	case tok.Type == tIdent && tok.Value == "if":
		lex.Next()

		cond, err := parseLogic(lex)
		if err != nil {
			return nil, err
		}

		if err := expectKeyword(lex, "then"); err != nil {
			return nil, err
		}

		thenExpr, err := parseArith(lex)
		if err != nil {
			return nil, err
		}

		var elseExpr Expr

		if peekIsKeyword(lex, "else") {
			lex.Next()

			elseExpr, err = parseArith(lex)
			if err != nil {
				return nil, err
			}
		}

		return ConditionalExpr{Cond: cond, Then: thenExpr, Else: elseExpr}, nil

	case tok.Type == tNumber:
		lex.Next()

		v, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, &ParseError{Pos: tok.Pos, Msg: "malformed number: " + tok.Value}
		}

		return NumberExpr{Value: v}, nil

	case tok.Type == tString:
		lex.Next()

		return StrLitExpr{Value: unquote(tok.Value)}, nil

	case tok.Type == tLParen:
		lex.Next()

		inner, err := parseArith(lex)
		if err != nil {
			return nil, err
		}

		if err := expect(lex, tRParen, ")"); err != nil {
			return nil, err
		}

		return inner, nil

	case tok.Type == tIdent:
		lex.Next()

		ref := VarRefExpr{Name: tok.Value}

		if peekIs(lex, tLBracket) {
			lex.Next()

			for {
				sub, err := parseSubscriptIndex(lex)
				if err != nil {
					return nil, err
				}

				ref.Subscript = append(ref.Subscript, sub)

				if peekIs(lex, tComma) {
					lex.Next()

					continue
				}

				break
			}

			if err := expect(lex, tRBracket, "]"); err != nil {
				return nil, err
			}
		}

		return ref, nil

	default:
		return nil, unexpectedToken(tok, "expression")
	}
}

func parseSubscriptIndex(lex *lexer.PeekingLexer) (SubscriptIndex, error) {
	tok := lex.Peek()
	if tok.Type != tIdent {
		return SubscriptIndex{}, unexpectedToken(tok, "index letter")
	}

	lex.Next()

	idx := SubscriptIndex{Letter: tok.Value}

	switch {
	case peekIsOp(lex, "+"):
		lex.Next()

		if err := expectShiftAmount(lex); err != nil {
			return SubscriptIndex{}, err
		}

		idx.Shift = ShiftPlus

	case peekIsOp(lex, "-"):
		lex.Next()

		if err := expectShiftAmount(lex); err != nil {
			return SubscriptIndex{}, err
		}

		idx.Shift = ShiftMinus
	}

	return idx, nil
}

// expectShiftAmount consumes the literal "1" following a +/- in a subscript
// (t+1, t-1); larger shifts are not part of the source dialect.
func expectShiftAmount(lex *lexer.PeekingLexer) error {
	tok := lex.Peek()
	if tok.Type != tNumber || tok.Value != "1" {
		return unexpectedToken(tok, "1")
	}

	lex.Next()

	return nil
}

func parseLogic(lex *lexer.PeekingLexer) (LogicExpr, error) {
	return parseLogicBP(lex, 0)
}

func parseLogicBP(lex *lexer.PeekingLexer, minBP int) (LogicExpr, error) {
	lhs, err := parseLogicPrimary(lex)
	if err != nil {
		return nil, err
	}

	for {
		tok := lex.Peek()
		if tok.Type != tIdent {
			break
		}

		var (
			bp int
			op BoolOp
		)

		switch tok.Value {
		case "or":
			bp, op = bpLogOr, OpOr
		case "and":
			bp, op = bpLogAnd, OpAnd
		default:
			return lhs, nil
		}

		if bp < minBP {
			break
		}

		lex.Next()

		rhs, err := parseLogicBP(lex, bp+1)
		if err != nil {
			return nil, err
		}

		lhs = BoolOpExpr{LHS: lhs, Op: op, RHS: rhs}
	}

	return lhs, nil
}

// parseLogicPrimary parses a single comparison. The source dialect's logic
// grammar has no parenthesised-LogicExpr or bare-boolean-atom form: every
// LogicExpr bottoms out at a Compare between two arithmetic expressions
// (gmpl/expr.rs's LogicExpr enum has exactly Comparison and BoolOp, no Paren
// variant), so that is the only primary form here.
func parseLogicPrimary(lex *lexer.PeekingLexer) (LogicExpr, error) {
	lhs, err := parseArith(lex)
	if err != nil {
		return nil, err
	}

	tok := lex.Peek()
	if tok.Type != tOp {
		return nil, unexpectedToken(tok, "comparison operator")
	}

	var op RelOp

	switch tok.Value {
	case "<":
		op = RelLt
	case "<=":
		op = RelLe
	case "=":
		op = RelEq
	case ">=":
		op = RelGe
	case ">":
		op = RelGt
	case "<>":
		op = RelNe
	default:
		return nil, unexpectedToken(tok, "comparison operator")
	}

	lex.Next()

	rhs, err := parseArith(lex)
	if err != nil {
		return nil, err
	}

	return CompareExpr{LHS: lhs, Op: op, RHS: rhs}, nil
}
