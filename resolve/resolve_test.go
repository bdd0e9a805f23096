package resolve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgsolve/mosox/gmpl"
	"github.com/lgsolve/mosox/model"
	"github.com/lgsolve/mosox/resolve"
)

func buildModel(t *testing.T, src, data string) *model.Model {
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

	return m
}

func TestEnumerateDomain_SingleSetProduct(t *testing.T) {
	t.Parallel()

	m := buildModel(t, `
set CITIES;
minimize cost: 0;
`, `set CITIES := "a","b","c";`)

	lk, err := resolve.Model(m)
	require.NoError(t, err)

	dom := &gmpl.Domain{
		Parts: []gmpl.DomainPart{{Var: gmpl.DomainPartVar{Single: "i"}, Set: gmpl.SetRefExpr{Name: "CITIES"}}},
	}

	combos, err := resolve.EnumerateDomain(dom, lk, nil)
	require.NoError(t, err)
	assert.Len(t, combos, 3)
}

func TestEnumerateDomain_StringGuardEqualityAndInequality(t *testing.T) {
	t.Parallel()

	m := buildModel(t, `
set CITIES;
minimize cost: 0;
`, `set CITIES := "a","b","c";`)

	lk, err := resolve.Model(m)
	require.NoError(t, err)

	eqDom := &gmpl.Domain{
		Parts: []gmpl.DomainPart{{Var: gmpl.DomainPartVar{Single: "i"}, Set: gmpl.SetRefExpr{Name: "CITIES"}}},
		Guard: gmpl.CompareExpr{LHS: gmpl.VarRefExpr{Name: "i"}, Op: gmpl.RelEq, RHS: gmpl.StrLitExpr{Value: "b"}},
	}

	combos, err := resolve.EnumerateDomain(eqDom, lk, nil)
	require.NoError(t, err)
	require.Len(t, combos, 1)
	assert.Equal(t, gmpl.StrVal("b"), combos[0].Index[0])

	neDom := &gmpl.Domain{
		Parts: []gmpl.DomainPart{{Var: gmpl.DomainPartVar{Single: "i"}, Set: gmpl.SetRefExpr{Name: "CITIES"}}},
		Guard: gmpl.CompareExpr{LHS: gmpl.VarRefExpr{Name: "i"}, Op: gmpl.RelNe, RHS: gmpl.StrLitExpr{Value: "b"}},
	}

	combos, err = resolve.EnumerateDomain(neDom, lk, nil)
	require.NoError(t, err)
	assert.Len(t, combos, 2)
}

func TestEnumerateDomain_StringGuardUnsupportedOrderingErrors(t *testing.T) {
	t.Parallel()

	m := buildModel(t, `
set CITIES;
minimize cost: 0;
`, `set CITIES := "a","b","c";`)

	lk, err := resolve.Model(m)
	require.NoError(t, err)

	dom := &gmpl.Domain{
		Parts: []gmpl.DomainPart{{Var: gmpl.DomainPartVar{Single: "i"}, Set: gmpl.SetRefExpr{Name: "CITIES"}}},
		Guard: gmpl.CompareExpr{LHS: gmpl.VarRefExpr{Name: "i"}, Op: gmpl.RelLt, RHS: gmpl.StrLitExpr{Value: "b"}},
	}

	_, err = resolve.EnumerateDomain(dom, lk, nil)
	require.ErrorIs(t, err, resolve.ErrUnsupportedRelOp)
}

func TestResolveSets_DependentSets(t *testing.T) {
	t.Parallel()

	m := buildModel(t, `
set CITIES;
set HUBS within CITIES;
minimize cost: 0;
`, `
set CITIES := "a","b","c";
set HUBS := "a","b";
`)

	lk, err := resolve.Model(m)
	require.NoError(t, err)

	rs, err := lk.Set("HUBS", nil)
	require.NoError(t, err)
	assert.Len(t, rs.Elements, 2)
}

func TestResolveParams_ScalarAndDefault(t *testing.T) {
	t.Parallel()

	m := buildModel(t, `
param limit := 100;
param weight default 5;
minimize cost: 0;
`, "")

	lk, err := resolve.Model(m)
	require.NoError(t, err)

	v, ok, err := lk.Param("limit", nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 100.0, v, 1e-9)

	v, ok, err = lk.Param("weight", nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 5.0, v, 1e-9)
}

func TestResolveParams_UnreferencedParamNeverEvaluated(t *testing.T) {
	t.Parallel()

	// An uninitialized parameter that no objective or constraint ever
	// touches must not fail resolution: resolution only happens lazily, at
	// the point of first access.
	m := buildModel(t, `
param mystery;
minimize cost: 0;
`, "")

	_, err := resolve.Model(m)
	require.NoError(t, err)
}

func TestResolveParams_Uninitialized_FailsOnAccess(t *testing.T) {
	t.Parallel()

	m := buildModel(t, `
param mystery;
minimize cost: 0;
`, "")

	lk, err := resolve.Model(m)
	require.NoError(t, err)

	_, _, err = lk.Param("mystery", nil)
	require.ErrorIs(t, err, resolve.ErrUninitializedParam)
}

func TestEvalNumeric_IndexShift(t *testing.T) {
	t.Parallel()

	m := buildModel(t, `
set T;
var x{T};
minimize cost: 0;
`, `set T := 1,2,3;`)

	lk, err := resolve.Model(m)
	require.NoError(t, err)

	// t-1 at T's first element yields 0, a value outside T, unguarded.
	expr := gmpl.BinOpExpr{
		LHS: gmpl.VarRefExpr{Name: "t"},
		Op:  gmpl.OpSub,
		RHS: gmpl.NumberExpr{Value: 1},
	}

	v, err := resolve.EvalNumeric(expr, resolve.Binding{"t": gmpl.IntVal(1)}, lk)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, v, 1e-9)
}
