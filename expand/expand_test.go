package expand_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgsolve/mosox/expand"
	"github.com/lgsolve/mosox/gmpl"
	"github.com/lgsolve/mosox/model"
	"github.com/lgsolve/mosox/resolve"
)

func buildLookups(t *testing.T, src, data string) *resolve.Lookups {
	t.Helper()

	entries, err := gmpl.Parse("m.mod", []byte(src))
	require.NoError(t, err)

	if data != "" {
		dataEntries, err := gmpl.Parse("m.dat", []byte(data))
		require.NoError(t, err)
		entries = append(entries, dataEntries...)
	}

	m, err := model.FromEntries(entries)
	require.NoError(t, err)

	lk, err := resolve.Model(m)
	require.NoError(t, err)

	return lk
}

func TestRecurse_SumOverSet(t *testing.T) {
	t.Parallel()

	lk := buildLookups(t, `
set ARCS;
var x{ARCS};
minimize cost: sum{i in ARCS} x[i];
`, `set ARCS := "a1","a2";`)

	terms, err := expand.Recurse(lk.Model.Objective.Body, resolve.Binding{}, lk)
	require.NoError(t, err)
	require.Len(t, terms, 2)

	for _, term := range terms {
		assert.False(t, term.IsNum)
		assert.Equal(t, "x", term.Pair.Var)
		assert.InDelta(t, 1.0, term.Pair.Coeff, 1e-9)
	}
}

func TestRecurse_NestedSumInsideSum(t *testing.T) {
	t.Parallel()

	// A sum of sums exercises the threaded-Binding recursion: each outer
	// combo must ground its own copy of the inner sum independently.
	lk := buildLookups(t, `
set I;
set J;
var x{I,J};
minimize cost: sum{i in I} sum{j in J} x[i,j];
`, `
set I := "i1","i2";
set J := "j1","j2","j3";
`)

	terms, err := expand.Recurse(lk.Model.Objective.Body, resolve.Binding{}, lk)
	require.NoError(t, err)
	assert.Len(t, terms, 6)
}

func TestAlgebra_FoldsConstantsAndNegatesRHS(t *testing.T) {
	t.Parallel()

	lhs := []expand.Term{
		{Pair: expand.Pair{Var: "x", Coeff: 1}},
		{IsNum: true, Num: 3},
	}
	rhs := []expand.Term{
		{Pair: expand.Pair{Var: "y", Coeff: 2}},
		{IsNum: true, Num: 5},
	}

	pairs, rhsConst := expand.Algebra(lhs, rhs)
	require.Len(t, pairs, 2)
	assert.Equal(t, "x", pairs[0].Var)
	assert.InDelta(t, 1.0, pairs[0].Coeff, 1e-9)
	assert.Equal(t, "y", pairs[1].Var)
	assert.InDelta(t, -2.0, pairs[1].Coeff, 1e-9)
	assert.InDelta(t, 2.0, rhsConst, 1e-9) // 5 - 3
}

func TestRecurse_NonlinearProductOfTwoVariablesErrors(t *testing.T) {
	t.Parallel()

	lk := buildLookups(t, `
var x;
var y;
minimize cost: x * y;
`, "")

	_, err := expand.Recurse(lk.Model.Objective.Body, resolve.Binding{}, lk)
	require.ErrorIs(t, err, expand.ErrNonlinearTerm)
}

func TestRecurse_UnknownReference(t *testing.T) {
	t.Parallel()

	lk := buildLookups(t, `
minimize cost: ghost;
`, "")

	_, err := expand.Recurse(lk.Model.Objective.Body, resolve.Binding{}, lk)
	require.ErrorIs(t, err, expand.ErrUnknownReference)
}
