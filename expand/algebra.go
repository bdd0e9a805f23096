package expand

// Algebra normalizes a constraint's two sides (as already-reduced term
// lists) into row form: lhs - rhs, with every Pair collected on one side
// and every Num folded into a single constant on the other. Mirrors
// constraints.rs's algebra() exactly — negate the RHS pairs and RHS-minus-
// LHS the constants.
func Algebra(lhs, rhs []Term) ([]Pair, float64) {
	var pairs []Pair

	constant := 0.0

	for _, t := range lhs {
		if t.IsNum {
			constant -= t.Num
		} else {
			pairs = append(pairs, t.Pair)
		}
	}

	for _, t := range rhs {
		if t.IsNum {
			constant += t.Num
		} else {
			p := t.Pair
			p.Coeff = -p.Coeff
			pairs = append(pairs, p)
		}
	}

	return pairs, constant
}
