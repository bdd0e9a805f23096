package gmpl

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Domain is a binder list plus an optional guard: `{i in I, j in J : i<>j}`.
// It appears attached to set/param/var/constraint declarations and inline as
// the operand of sum{}/min{}/max{} (§4.5), which is why parsing it is a
// shared routine (parseDomain) rather than participle struct-tag grammar:
// the Pratt climber needs to call into exactly the same logic mid-expression.
type Domain struct {
	Parts []DomainPart
	Guard Logic // nil if no guard
}

func (d *Domain) String() string {
	if d == nil {
		return "{}"
	}

	parts := make([]string, len(d.Parts))
	for i, p := range d.Parts {
		parts[i] = p.String()
	}

	s := "{" + strings.Join(parts, ", ")
	if d.Guard != nil {
		s += " : " + d.Guard.String()
	}

	return s + "}"
}

// DomainPart binds one or two index letters to a set: `i in I` or
// `(i,j) in ARCS`. A bare set name (`{ARCS}`) gives a part with an empty
// Var that binds no letter.
type DomainPart struct {
	Var DomainPartVar
	Set SetExpr
}

func (p DomainPart) String() string {
	if p.Var.Single == "" && len(p.Var.Tuple) == 0 {
		return p.Set.String()
	}

	return p.Var.String() + " in " + p.Set.String()
}

// DomainPartVar is the binder on the left of `in`: a single letter or a
// tuple destructuring pattern (matrix/set.rs's DomainPartVar::Single /
// DomainPartVar::Tuple).
type DomainPartVar struct {
	Single string   // set if len(Tuple) == 0
	Tuple  []string // set for `(i,j) in ...`
}

func (v DomainPartVar) String() string {
	if len(v.Tuple) == 0 {
		return v.Single
	}

	return "(" + strings.Join(v.Tuple, ",") + ")"
}

// SetExpr is the set-valued expression AST: a reference to a declared set,
// an intersection/union/difference of two set expressions, or a set
// comprehension (setof{domain}). Closed sum type, exhaustive type switch.
type SetExpr interface {
	setExprNode()
	String() string
}

// SetRefExpr is a reference to a declared set name, optionally subscripted
// to pick one instance of an indexed family (`NBR[i]`).
type SetRefExpr struct {
	Name      string
	Subscript []SubscriptIndex // nil for an unindexed set
}

func (SetRefExpr) setExprNode() {}
func (s SetRefExpr) String() string {
	if s.Subscript == nil {
		return s.Name
	}

	parts := make([]string, len(s.Subscript))
	for i, sub := range s.Subscript {
		parts[i] = sub.String()
	}

	return s.Name + "[" + strings.Join(parts, ",") + "]"
}

// SetMathOp is a set algebra operator.
type SetMathOp int

const (
	SetUnion SetMathOp = iota
	SetInter
	SetDiff
)

func (op SetMathOp) String() string {
	switch op {
	case SetUnion:
		return "union"
	case SetInter:
		return "inter"
	case SetDiff:
		return "diff"
	default:
		return "?"
	}
}

// SetMathExpr combines two set expressions (matrix/set.rs's SetExpr::SetMath,
// resolved there via an intersect() helper over the two members' resolved
// element sets).
type SetMathExpr struct {
	LHS SetExpr
	Op  SetMathOp
	RHS SetExpr
}

func (SetMathExpr) setExprNode() {}
func (s SetMathExpr) String() string {
	return s.LHS.String() + " " + s.Op.String() + " " + s.RHS.String()
}

// SetLiteralExpr is an inline list of concrete set members, as given in an
// unindexed `:=` or `default` clause on a Set declaration
// (`set DAYS := "mon","tue","wed";`). Indexed and tabular data assignments
// use DataSet/DataRow instead, which carry their own Index.
type SetLiteralExpr struct {
	Values []SetVal
}

func (SetLiteralExpr) setExprNode() {}
func (s SetLiteralExpr) String() string {
	parts := make([]string, len(s.Values))
	for i, v := range s.Values {
		parts[i] = v.String()
	}

	return strings.Join(parts, ",")
}

// SetOfExpr is a set comprehension: `setof{domain} tuple-or-letter`. Binding
// the produced set requires destructuring each domain part the same way a
// sum{} operand would (matrix/set.rs's resolve_set_of).
type SetOfExpr struct {
	Domain *Domain
	Result []string // the letter(s) projected into the output tuple/value
}

func (SetOfExpr) setExprNode() {}
func (s SetOfExpr) String() string {
	return "setof" + s.Domain.String() + " " + strings.Join(s.Result, ",")
}

// parseDomain parses a domain beginning at the opening '{'.
func parseDomain(lex *lexer.PeekingLexer) (*Domain, error) {
	if err := expect(lex, tLBrace, "{"); err != nil {
		return nil, err
	}

	d := &Domain{}

	for {
		part, err := parseDomainPart(lex)
		if err != nil {
			return nil, err
		}

		d.Parts = append(d.Parts, part)

		if peekIs(lex, tComma) {
			lex.Next()

			continue
		}

		break
	}

	if peekIs(lex, tColon) {
		lex.Next()

		guard, err := parseLogic(lex)
		if err != nil {
			return nil, err
		}

		d.Guard = guard
	}

	if err := expect(lex, tRBrace, "}"); err != nil {
		return nil, err
	}

	return d, nil
}

func parseDomainPart(lex *lexer.PeekingLexer) (DomainPart, error) {
	var v DomainPartVar

	if peekIs(lex, tLParen) {
		lex.Next()

		for {
			tok := lex.Peek()
			if tok.Type != tIdent {
				return DomainPart{}, unexpectedToken(tok, "index letter")
			}

			lex.Next()
			v.Tuple = append(v.Tuple, tok.Value)

			if peekIs(lex, tComma) {
				lex.Next()

				continue
			}

			break
		}

		if err := expect(lex, tRParen, ")"); err != nil {
			return DomainPart{}, err
		}
	} else {
		tok := lex.Peek()
		if tok.Type != tIdent {
			return DomainPart{}, unexpectedToken(tok, "index letter")
		}

		lex.Next()
		v.Single = tok.Value

		// `{ARCS}`: a bare set name with no binder letter.
		if !peekIsKeyword(lex, "in") {
			return DomainPart{Set: SetRefExpr{Name: tok.Value}}, nil
		}
	}

	if err := expectKeyword(lex, "in"); err != nil {
		return DomainPart{}, err
	}

	set, err := parseSetExpr(lex)
	if err != nil {
		return DomainPart{}, err
	}

	return DomainPart{Var: v, Set: set}, nil
}

// parseSetExpr parses a set expression: a primary (reference, setof{}, or
// parenthesised sub-expression) followed by zero or more left-associative
// union/inter/diff operators, all at one precedence level since the source
// dialect never needs to distinguish them (matrix/set.rs treats SetMath
// uniformly).
func parseSetExpr(lex *lexer.PeekingLexer) (SetExpr, error) {
	lhs, err := parseSetPrimary(lex)
	if err != nil {
		return nil, err
	}

	for {
		tok := lex.Peek()
		if tok.Type != tIdent {
			break
		}

		var op SetMathOp

		switch tok.Value {
		case "union":
			op = SetUnion
		case "inter":
			op = SetInter
		case "diff":
			op = SetDiff
		default:
			return lhs, nil
		}

		lex.Next()

		rhs, err := parseSetPrimary(lex)
		if err != nil {
			return nil, err
		}

		lhs = SetMathExpr{LHS: lhs, Op: op, RHS: rhs}
	}

	return lhs, nil
}

func parseSetPrimary(lex *lexer.PeekingLexer) (SetExpr, error) {
	tok := lex.Peek()

	switch {
	case tok.Type == tLParen:
		lex.Next()

		inner, err := parseSetExpr(lex)
		if err != nil {
			return nil, err
		}

		if err := expect(lex, tRParen, ")"); err != nil {
			return nil, err
		}

		return inner, nil

	case tok.Type == tIdent && tok.Value == "setof":
		lex.Next()

		dom, err := parseDomain(lex)
		if err != nil {
			return nil, err
		}

		var result []string

		for {
			t := lex.Peek()
			if t.Type != tIdent {
				break
			}

			lex.Next()
			result = append(result, t.Value)

			if peekIs(lex, tComma) {
				lex.Next()

				continue
			}

			break
		}

		return SetOfExpr{Domain: dom, Result: result}, nil

	case tok.Type == tIdent:
		lex.Next()

		ref := SetRefExpr{Name: tok.Value}

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
		return nil, unexpectedToken(tok, "set expression")
	}
}
