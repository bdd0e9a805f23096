package gmpl

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Parse parses the entries of a single MODEL or DATA file. Both kinds of
// file share one token stream and one entry grammar (as in the source
// dialect); which declarations a given file contains is not checked, here
// or by the caller (model.FromEntries), which receives the entries of both
// files concatenated.
func Parse(filename string, data []byte) ([]Entry, error) {
	def := newDSLLexer()

	raw, err := def.Lex(filename, strings.NewReader(string(data)))
	if err != nil {
		return nil, err
	}

	lex, err := lexer.Upgrade(raw, tWhitespace, tComment)
	if err != nil {
		return nil, err
	}

	var entries []Entry

	for {
		tok := lex.Peek()
		if tok.EOF() {
			return entries, nil
		}

		parsed, err := parseEntry(lex)
		if err != nil {
			return nil, err
		}

		entries = append(entries, parsed...)
	}
}

// parseEntry parses one top-level statement. It returns a slice because a
// single `var` statement may declare several names sharing one bound
// clause (`var x, y >= 0;`), yielding one Entry per name; every other kind
// of statement yields exactly one.
func parseEntry(lex *lexer.PeekingLexer) ([]Entry, error) {
	tok := lex.Peek()
	if tok.Type != tIdent {
		return nil, unexpectedToken(tok, "declaration keyword")
	}

	switch tok.Value {
	case "set":
		e, err := parseSetEntry(lex)
		return oneEntry(e, err)
	case "param":
		e, err := parseParamEntry(lex)
		return oneEntry(e, err)
	case "var":
		return parseVarEntry(lex)
	case "minimize", "maximize":
		e, err := parseObjectiveEntry(lex)
		return oneEntry(e, err)
	case "subject":
		e, err := parseConstraintEntry(lex)
		return oneEntry(e, err)
	default:
		return nil, unexpectedToken(tok, "'set', 'param', 'var', 'minimize', 'maximize' or 'subject'")
	}
}

func oneEntry(e Entry, err error) ([]Entry, error) {
	if err != nil {
		return nil, err
	}

	return []Entry{e}, nil
}

func identName(lex *lexer.PeekingLexer) (string, error) {
	tok := lex.Peek()
	if tok.Type != tIdent {
		return "", unexpectedToken(tok, "identifier")
	}

	lex.Next()

	return tok.Value, nil
}

// parseIndexLiteral parses `[` SetVal (, SetVal)* `]`, the concrete-index
// form used by data assignments (as opposed to Domain's bound-letter form).
func parseIndexLiteral(lex *lexer.PeekingLexer) (Index, error) {
	if err := expect(lex, tLBracket, "["); err != nil {
		return nil, err
	}

	var idx Index

	for {
		v, err := parseSetValLiteral(lex)
		if err != nil {
			return nil, err
		}

		idx = append(idx, v)

		if peekIs(lex, tComma) {
			lex.Next()

			continue
		}

		break
	}

	if err := expect(lex, tRBracket, "]"); err != nil {
		return nil, err
	}

	return idx, nil
}

func parseSetValLiteral(lex *lexer.PeekingLexer) (SetVal, error) {
	tok := lex.Peek()

	switch tok.Type {
	case tString:
		lex.Next()

		return StrVal(unquote(tok.Value)), nil

	case tNumber:
		lex.Next()

		n, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, &ParseError{Pos: tok.Pos, Msg: "expected integer set value, got " + tok.Value}
		}

		return IntVal(n), nil

	case tIdent:
		lex.Next()

		return StrVal(tok.Value), nil

	case tLParen:
		lex.Next()

		first, err := parseSetValLiteral(lex)
		if err != nil {
			return nil, err
		}

		if err := expect(lex, tComma, ","); err != nil {
			return nil, err
		}

		second, err := parseSetValLiteral(lex)
		if err != nil {
			return nil, err
		}

		if err := expect(lex, tRParen, ")"); err != nil {
			return nil, err
		}

		return TupleVal{first, second}, nil

	default:
		return nil, unexpectedToken(tok, "set value")
	}
}

func unquote(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}

	return s
}

func parseSetValList(lex *lexer.PeekingLexer) ([]SetVal, error) {
	var vals []SetVal

	for {
		v, err := parseSetValLiteral(lex)
		if err != nil {
			return nil, err
		}

		vals = append(vals, v)

		if peekIs(lex, tComma) {
			lex.Next()

			continue
		}

		break
	}

	return vals, nil
}

func parseSetEntry(lex *lexer.PeekingLexer) (Entry, error) {
	lex.Next() // 'set'

	name, err := identName(lex)
	if err != nil {
		return nil, err
	}

	if peekIs(lex, tLBracket) {
		idx, err := parseIndexLiteral(lex)
		if err != nil {
			return nil, err
		}

		if err := expectOp(lex, ":="); err != nil {
			return nil, err
		}

		values, err := parseSetValList(lex)
		if err != nil {
			return nil, err
		}

		if err := expect(lex, tSemi, ";"); err != nil {
			return nil, err
		}

		return &DataSet{Name: name, Index: idx, Values: values}, nil
	}

	s := &Set{Name: name}

	if peekIs(lex, tLBrace) {
		dom, err := parseDomain(lex)
		if err != nil {
			return nil, err
		}

		s.Domain = dom
	}

	if peekIsKeyword(lex, "within") {
		lex.Next()

		se, err := parseSetExprOrLiteral(lex)
		if err != nil {
			return nil, err
		}

		s.Within = se
	}

	if peekIsOp(lex, ":=") {
		lex.Next()

		se, err := parseSetExprOrLiteral(lex)
		if err != nil {
			return nil, err
		}

		s.Body = se
	}

	if peekIsKeyword(lex, "default") {
		lex.Next()

		se, err := parseSetExprOrLiteral(lex)
		if err != nil {
			return nil, err
		}

		s.Default = se
	}

	if err := expect(lex, tSemi, ";"); err != nil {
		return nil, err
	}

	return s, nil
}

// parseSetExprOrLiteral disambiguates a bare literal member list from a
// genuine SetExpr (reference, union/inter/diff, or setof{}): a leading
// string/number literal can only start a literal list, since SetExpr's own
// primaries (identifier, "setof", parenthesised sub-expression) never do.
// Tuple-valued literals in this position are out of scope; use the
// table/list data forms (DataSet, DataRow) for those.
func parseSetExprOrLiteral(lex *lexer.PeekingLexer) (SetExpr, error) {
	tok := lex.Peek()
	if tok.Type == tString || tok.Type == tNumber {
		values, err := parseSetValList(lex)
		if err != nil {
			return nil, err
		}

		return SetLiteralExpr{Values: values}, nil
	}

	return parseSetExpr(lex)
}

func parseParamEntry(lex *lexer.PeekingLexer) (Entry, error) {
	lex.Next() // 'param'

	name, err := identName(lex)
	if err != nil {
		return nil, err
	}

	if peekIs(lex, tLBracket) {
		idx, err := parseIndexLiteral(lex)
		if err != nil {
			return nil, err
		}

		if err := expectOp(lex, ":="); err != nil {
			return nil, err
		}

		val, err := parseNumberLiteral(lex)
		if err != nil {
			return nil, err
		}

		if err := expect(lex, tSemi, ";"); err != nil {
			return nil, err
		}

		return &DataParam{Name: name, Index: idx, Value: val}, nil
	}

	p := &Param{Name: name}

	if peekIs(lex, tLBrace) {
		dom, err := parseDomain(lex)
		if err != nil {
			return nil, err
		}

		p.Domain = dom
	}

	if peekIsOp(lex, ":=") {
		lex.Next()

		if peekIs(lex, tLBracket) {
			var rows []DataRow

			for peekIs(lex, tLBracket) {
				idx, err := parseIndexLiteral(lex)
				if err != nil {
					return nil, err
				}

				val, err := parseNumberLiteral(lex)
				if err != nil {
					return nil, err
				}

				rows = append(rows, DataRow{Index: idx, Value: val})
			}

			if err := expect(lex, tSemi, ";"); err != nil {
				return nil, err
			}

			return &DataParam{Name: name, Table: rows}, nil
		}

		expr, err := parseArith(lex)
		if err != nil {
			return nil, err
		}

		p.Compute = expr
	}

	if peekIsKeyword(lex, "default") {
		lex.Next()

		expr, err := parseArith(lex)
		if err != nil {
			return nil, err
		}

		p.Default = expr
	}

	if err := expect(lex, tSemi, ";"); err != nil {
		return nil, err
	}

	return p, nil
}

func parseNumberLiteral(lex *lexer.PeekingLexer) (float64, error) {
	tok := lex.Peek()
	if tok.Type != tNumber {
		return 0, unexpectedToken(tok, "number")
	}

	lex.Next()

	v, err := strconv.ParseFloat(tok.Value, 64)
	if err != nil {
		return 0, &ParseError{Pos: tok.Pos, Msg: "malformed number: " + tok.Value}
	}

	return v, nil
}

// parseVarEntry parses `var` NAME [domain] (, NAME [domain])* [boundOp number] ;
// — a comma-separated list of variable names, each with its own optional
// indexing domain, sharing one optional trailing bound clause.
func parseVarEntry(lex *lexer.PeekingLexer) ([]Entry, error) {
	lex.Next() // 'var'

	type nameDomain struct {
		name string
		dom  *Domain
	}

	var decls []nameDomain

	for {
		name, err := identName(lex)
		if err != nil {
			return nil, err
		}

		var dom *Domain

		if peekIs(lex, tLBrace) {
			dom, err = parseDomain(lex)
			if err != nil {
				return nil, err
			}
		}

		decls = append(decls, nameDomain{name, dom})

		if peekIs(lex, tComma) {
			lex.Next()

			continue
		}

		break
	}

	var bounds *VarBounds

	if lex.Peek().Type == tOp {
		op, err := parseBoundOp(lex)
		if err != nil {
			return nil, err
		}

		val, err := parseSignedNumber(lex)
		if err != nil {
			return nil, err
		}

		bounds = &VarBounds{Op: op, Value: val}
	}

	if err := expect(lex, tSemi, ";"); err != nil {
		return nil, err
	}

	entries := make([]Entry, len(decls))
	for i, d := range decls {
		entries[i] = &Var{Name: d.name, Domain: d.dom, Bounds: bounds}
	}

	return entries, nil
}

// parseBoundOp parses a relational operator restricted to <=, =, >= — the
// only three RowType::from_rel_op/BoundsOp::from_rel_op recognise; strict
// operators are a ParseError here, so a variable bound never carries one.
// parseConstraintEntry catches that error and accepts a strict operator
// itself, leaving its rejection to compile.
func parseBoundOp(lex *lexer.PeekingLexer) (RelOp, error) {
	tok := lex.Peek()
	if tok.Type != tOp {
		return 0, unexpectedToken(tok, "comparison operator")
	}

	var op RelOp

	switch tok.Value {
	case "<=":
		op = RelLe
	case "=":
		op = RelEq
	case ">=":
		op = RelGe
	default:
		return 0, &ParseError{Pos: tok.Pos, Msg: "operator must be one of <=, =, >=, got " + tok.Value}
	}

	lex.Next()

	return op, nil
}

// parseSignedNumber parses a numeric literal with an optional leading '-',
// as used for bound values (`>= -5`).
func parseSignedNumber(lex *lexer.PeekingLexer) (float64, error) {
	neg := false

	if peekIsOp(lex, "-") {
		lex.Next()

		neg = true
	}

	v, err := parseNumberLiteral(lex)
	if err != nil {
		return 0, err
	}

	if neg {
		return -v, nil
	}

	return v, nil
}

func parseObjectiveEntry(lex *lexer.PeekingLexer) (Entry, error) {
	senseTok := lex.Peek()
	lex.Next()

	sense := SenseMinimize
	if senseTok.Value == "maximize" {
		sense = SenseMaximize
	}

	name, err := identName(lex)
	if err != nil {
		return nil, err
	}

	if err := expect(lex, tColon, ":"); err != nil {
		return nil, err
	}

	body, err := parseArith(lex)
	if err != nil {
		return nil, err
	}

	if err := expect(lex, tSemi, ";"); err != nil {
		return nil, err
	}

	return &Objective{Name: name, Sense: sense, Body: body}, nil
}

func parseConstraintEntry(lex *lexer.PeekingLexer) (Entry, error) {
	if err := expectKeyword(lex, "subject"); err != nil {
		return nil, err
	}

	if err := expectKeyword(lex, "to"); err != nil {
		return nil, err
	}

	name, err := identName(lex)
	if err != nil {
		return nil, err
	}

	c := &Constraint{Name: name}

	if peekIs(lex, tLBrace) {
		dom, err := parseDomain(lex)
		if err != nil {
			return nil, err
		}

		c.Domain = dom
	}

	if err := expect(lex, tColon, ":"); err != nil {
		return nil, err
	}

	lhs, err := parseArith(lex)
	if err != nil {
		return nil, err
	}

	// Strict operators are accepted here (parseBoundOp leaves the token
	// unconsumed when it rejects one); compile.rowTypeFromRelOp rejects them
	// later with ErrUnsupportedRelOp.
	op, err := parseBoundOp(lex)
	if err != nil {
		strict := map[string]RelOp{"<": RelLt, ">": RelGt, "<>": RelNe}

		tok := lex.Peek()

		s, ok := strict[tok.Value]
		if tok.Type != tOp || !ok {
			return nil, err
		}

		lex.Next()

		op = s
	}

	rhs, err := parseArith(lex)
	if err != nil {
		return nil, err
	}

	if err := expect(lex, tSemi, ";"); err != nil {
		return nil, err
	}

	c.LHS, c.Op, c.RHS = lhs, op, rhs

	return c, nil
}
