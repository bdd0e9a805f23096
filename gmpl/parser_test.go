package gmpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVarEntry_SharedBounds(t *testing.T) {
	t.Parallel()

	entries, err := Parse("t.mod", []byte(`var x, y >= 0;`))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	x, ok := entries[0].(*Var)
	require.True(t, ok)
	assert.Equal(t, "x", x.Name)
	require.NotNil(t, x.Bounds)
	assert.Equal(t, RelGe, x.Bounds.Op)
	assert.InDelta(t, 0.0, x.Bounds.Value, 1e-9)

	y, ok := entries[1].(*Var)
	require.True(t, ok)
	assert.Equal(t, "y", y.Name)
	require.NotNil(t, y.Bounds)

	// Both names share the exact same Bounds instance.
	assert.Same(t, x.Bounds, y.Bounds)
}

func TestParseVarEntry_NoBoundsIsFree(t *testing.T) {
	t.Parallel()

	entries, err := Parse("t.mod", []byte(`var flow{ARCS};`))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	v, ok := entries[0].(*Var)
	require.True(t, ok)
	assert.Nil(t, v.Bounds)
	require.NotNil(t, v.Domain)
	require.Len(t, v.Domain.Parts, 1)
	assert.Equal(t, "ARCS", v.Domain.Parts[0].Set.String())
}

func TestParseVarEntry_SignedBoundValue(t *testing.T) {
	t.Parallel()

	entries, err := Parse("t.mod", []byte(`var slack >= -5;`))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	v := entries[0].(*Var)
	require.NotNil(t, v.Bounds)
	assert.InDelta(t, -5.0, v.Bounds.Value, 1e-9)
}

func TestParseConstraintEntry(t *testing.T) {
	t.Parallel()

	src := `subject to balance{i in CITIES}: supply[i] - demand[i] = 0;`

	entries, err := Parse("t.mod", []byte(src))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	c, ok := entries[0].(*Constraint)
	require.True(t, ok)
	assert.Equal(t, "balance", c.Name)
	assert.Equal(t, RelEq, c.Op)
	require.NotNil(t, c.Domain)
	require.Len(t, c.Domain.Parts, 1)
	assert.Equal(t, "i", c.Domain.Parts[0].Var.Single)
}

func TestParseConstraintEntry_StrictOperatorParsesButIsFlagged(t *testing.T) {
	t.Parallel()

	// The parser accepts strict operators so constraint parsing never fails
	// here; compile.rowTypeFromRelOp is where they are later rejected.
	entries, err := Parse("t.mod", []byte(`subject to c: x < 5;`))
	require.NoError(t, err)

	c := entries[0].(*Constraint)
	assert.Equal(t, RelLt, c.Op)
}

func TestParseObjective(t *testing.T) {
	t.Parallel()

	entries, err := Parse("t.mod", []byte(`minimize cost: sum{i in ARCS} x[i];`))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	obj, ok := entries[0].(*Objective)
	require.True(t, ok)
	assert.Equal(t, SenseMinimize, obj.Sense)

	sum, ok := obj.Body.(SumExpr)
	require.True(t, ok)
	require.Len(t, sum.Domain.Parts, 1)

	ref, ok := sum.Operand.(VarRefExpr)
	require.True(t, ok)
	assert.Equal(t, "x", ref.Name)
}

func TestPrattArith_Precedence(t *testing.T) {
	t.Parallel()

	// 1 + 2 * 3 ^ 2 must parse as 1 + (2 * (3 ^ 2)), i.e. + binds loosest and
	// ^ binds tightest and right-associates.
	entries, err := Parse("t.mod", []byte(`param p := 1 + 2 * 3 ^ 2;`))
	require.NoError(t, err)

	p := entries[0].(*Param)
	top, ok := p.Compute.(BinOpExpr)
	require.True(t, ok)
	assert.Equal(t, OpAdd, top.Op)

	rhs, ok := top.RHS.(BinOpExpr)
	require.True(t, ok)
	assert.Equal(t, OpMul, rhs.Op)
}

func TestParseIndexShift(t *testing.T) {
	t.Parallel()

	entries, err := Parse("t.mod", []byte(`subject to s{t in T}: x[t] - x[t-1] = 0;`))
	require.NoError(t, err)

	c := entries[0].(*Constraint)
	lhs := c.LHS.(BinOpExpr)
	rhs := lhs.RHS.(VarRefExpr)
	require.Len(t, rhs.Subscript, 1)
	assert.Equal(t, ShiftMinus, rhs.Subscript[0].Shift)
}

func TestParse_MalformedTokenIsParseError(t *testing.T) {
	t.Parallel()

	_, err := Parse("t.mod", []byte(`vr x >= 0;`))
	require.Error(t, err)
}
