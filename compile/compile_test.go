package compile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgsolve/mosox/compile"
	"github.com/lgsolve/mosox/gmpl"
	"github.com/lgsolve/mosox/model"
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

const smallLP = `
set ARCS;
var x{ARCS} >= 0;
minimize cost: sum{i in ARCS} x[i];
subject to cap{i in ARCS}: x[i] <= 10;
`

const smallLPData = `set ARCS := "a1","a2";`

func TestCompile_SmallLP_RowsColsAndBounds(t *testing.T) {
	t.Parallel()

	m := buildModel(t, smallLP, smallLPData)

	c, err := compile.Compile(m, compile.Options{})
	require.NoError(t, err)

	var rowNames []string

	c.EachRow(func(row gmpl.RowKey, entry compile.RowEntry) {
		rowNames = append(rowNames, row.String())

		if row.Name == "cost" {
			assert.Equal(t, compile.RowN, entry.Type)
			assert.Nil(t, entry.RHS)
		} else {
			assert.Equal(t, compile.RowL, entry.Type)
			require.NotNil(t, entry.RHS)
			assert.InDelta(t, 10.0, *entry.RHS, 1e-9)
		}
	})
	require.Len(t, rowNames, 3) // cost + cap[a1] + cap[a2]
	assert.Equal(t, "cost", rowNames[0])

	cols := 0
	c.EachCol(func(_ gmpl.ColKey, entries []compile.ColEntry) {
		cols++
		require.Len(t, entries, 2) // each x[i] appears in cost and its own cap row
	})
	assert.Equal(t, 2, cols)

	bounds := 0
	c.EachBound(func(_ gmpl.ColKey, entry compile.BoundEntry) {
		bounds++
		assert.Equal(t, compile.BoundLO, entry.Op)
		require.NotNil(t, entry.Val)
		assert.InDelta(t, 0.0, *entry.Val, 1e-9)
	})
	assert.Equal(t, 2, bounds)
}

func TestCompile_FreeVarGetsFRBound(t *testing.T) {
	t.Parallel()

	m := buildModel(t, `
var x;
minimize cost: x;
subject to c: x >= -5;
`, "")

	c, err := compile.Compile(m, compile.Options{})
	require.NoError(t, err)

	var bound compile.BoundEntry

	c.EachBound(func(_ gmpl.ColKey, entry compile.BoundEntry) { bound = entry })
	assert.Equal(t, compile.BoundFR, bound.Op)
	assert.Nil(t, bound.Val)
}

func TestCompile_FixedBoundFromEqualityDeclaration(t *testing.T) {
	t.Parallel()

	m := buildModel(t, `
var x = 3;
minimize cost: x;
subject to c: x <= 100;
`, "")

	c, err := compile.Compile(m, compile.Options{})
	require.NoError(t, err)

	var bound compile.BoundEntry

	c.EachBound(func(_ gmpl.ColKey, entry compile.BoundEntry) { bound = entry })
	assert.Equal(t, compile.BoundFX, bound.Op)
	require.NotNil(t, bound.Val)
	assert.InDelta(t, 3.0, *bound.Val, 1e-9)
}

func TestCompile_ObjectiveReducingToBareConstantErrors(t *testing.T) {
	t.Parallel()

	m := buildModel(t, `
minimize cost: 5;
subject to c: 0 <= 1;
`, "")

	_, err := compile.Compile(m, compile.Options{})
	require.ErrorIs(t, err, compile.ErrObjectiveHasConstant)
}

func TestCompile_StrictInequalityRejectedAtCompileTime(t *testing.T) {
	t.Parallel()

	m := buildModel(t, `
var x;
minimize cost: x;
subject to c: x < 5;
`, "")

	_, err := compile.Compile(m, compile.Options{})
	require.ErrorIs(t, err, compile.ErrUnsupportedRelOp)
}

func TestCompile_ParallelMatchesSequentialOutput(t *testing.T) {
	t.Parallel()

	m := buildModel(t, smallLP, smallLPData)

	seq, err := compile.Compile(m, compile.Options{Parallel: false})
	require.NoError(t, err)

	par, err := compile.Compile(m, compile.Options{Parallel: true})
	require.NoError(t, err)

	var seqRows, parRows []string

	seq.EachRow(func(row gmpl.RowKey, _ compile.RowEntry) { seqRows = append(seqRows, row.String()) })
	par.EachRow(func(row gmpl.RowKey, _ compile.RowEntry) { parRows = append(parRows, row.String()) })

	assert.Equal(t, seqRows, parRows)
}
