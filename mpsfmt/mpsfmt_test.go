package mpsfmt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lgsolve/mosox/compile"
	"github.com/lgsolve/mosox/gmpl"
	"github.com/lgsolve/mosox/model"
	"github.com/lgsolve/mosox/mpsfmt"
)

func TestWrite_SmallLP_ExactLayout(t *testing.T) {
	t.Parallel()

	entries, err := gmpl.Parse("m.mod", []byte(`
var x >= 0;
minimize cost: x;
subject to c: x <= 5;
`))
	require.NoError(t, err)

	m, err := model.FromEntries(entries)
	require.NoError(t, err)

	c, err := compile.Compile(m, compile.Options{})
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, mpsfmt.Write(&buf, c))

	want := "NAME          noname\n" +
		"ROWS\n" +
		" N  cost\n" +
		" L  c\n" +
		"COLUMNS\n" +
		"    x      cost         1\n" +
		"    x      c         1\n" +
		"RHS\n" +
		"    RHS1      c       5\n" +
		"BOUNDS\n" +
		" LO BND1     x         0\n" +
		"ENDATA\n"

	require.Equal(t, want, buf.String())
}

func TestWrite_FreeVarBoundHasNoValueColumn(t *testing.T) {
	t.Parallel()

	entries, err := gmpl.Parse("m.mod", []byte(`
var x;
minimize cost: x;
subject to c: x >= -5;
`))
	require.NoError(t, err)

	m, err := model.FromEntries(entries)
	require.NoError(t, err)

	c, err := compile.Compile(m, compile.Options{})
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, mpsfmt.Write(&buf, c))

	require.Contains(t, buf.String(), " FR BND1     x\n")
	require.NotContains(t, buf.String(), "FR BND1     x ")
}

func TestFormatNum_IntegralAndFractional(t *testing.T) {
	t.Parallel()

	entries, err := gmpl.Parse("m.mod", []byte(`
param rate := 2.5;
var x;
minimize cost: rate * x;
subject to c: x <= 1;
`))
	require.NoError(t, err)

	m, err := model.FromEntries(entries)
	require.NoError(t, err)

	c, err := compile.Compile(m, compile.Options{})
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, mpsfmt.Write(&buf, c))

	require.Contains(t, buf.String(), "2.5")
	require.Contains(t, buf.String(), "    RHS1      c       1\n")
}
