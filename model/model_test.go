package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgsolve/mosox/gmpl"
	"github.com/lgsolve/mosox/model"
)

func TestFromEntries_MatchesSetAndParamData(t *testing.T) {
	t.Parallel()

	entries := []gmpl.Entry{
		&gmpl.Objective{Name: "cost", Sense: gmpl.SenseMinimize, Body: gmpl.NumberExpr{Value: 0}},
		&gmpl.Set{Name: "CITIES"},
		&gmpl.DataSet{Name: "CITIES", Values: []gmpl.SetVal{gmpl.StrVal("a"), gmpl.StrVal("b")}},
		&gmpl.Param{Name: "limit"},
		&gmpl.DataParam{Name: "limit", Value: 100},
	}

	m, err := model.FromEntries(entries)
	require.NoError(t, err)
	require.Len(t, m.Sets, 1)
	require.NotNil(t, m.Sets[0].Data)
	assert.Equal(t, []gmpl.SetVal{gmpl.StrVal("a"), gmpl.StrVal("b")}, m.Sets[0].Data.Members)

	require.Len(t, m.Params, 1)
	require.NotNil(t, m.Params[0].Data)
	require.NotNil(t, m.Params[0].Data.Scalar)
	assert.InDelta(t, 100.0, *m.Params[0].Data.Scalar, 1e-9)
}

func TestFromEntries_NoObjective(t *testing.T) {
	t.Parallel()

	_, err := model.FromEntries([]gmpl.Entry{&gmpl.Set{Name: "CITIES"}})
	require.ErrorIs(t, err, model.ErrNoObjective)
}

func TestFromEntries_MultipleObjectives(t *testing.T) {
	t.Parallel()

	entries := []gmpl.Entry{
		&gmpl.Objective{Name: "a"},
		&gmpl.Objective{Name: "b"},
	}

	_, err := model.FromEntries(entries)
	require.ErrorIs(t, err, model.ErrMultipleObjectives)
}

func TestFromEntries_UnmatchedSetData(t *testing.T) {
	t.Parallel()

	entries := []gmpl.Entry{
		&gmpl.Objective{Name: "cost"},
		&gmpl.DataSet{Name: "GHOST", Values: []gmpl.SetVal{gmpl.StrVal("x")}},
	}

	_, err := model.FromEntries(entries)
	require.ErrorIs(t, err, model.ErrUnmatchedSetData)
}

func TestFromEntries_UnmatchedParamData(t *testing.T) {
	t.Parallel()

	entries := []gmpl.Entry{
		&gmpl.Objective{Name: "cost"},
		&gmpl.DataParam{Name: "ghost", Value: 1},
	}

	_, err := model.FromEntries(entries)
	require.ErrorIs(t, err, model.ErrUnmatchedParamData)
}

func TestFromEntries_IndexedSetDataMerge(t *testing.T) {
	t.Parallel()

	entries := []gmpl.Entry{
		&gmpl.Objective{Name: "cost"},
		&gmpl.Set{Name: "NBR", Domain: &gmpl.Domain{}},
		&gmpl.DataSet{Name: "NBR", Index: gmpl.Index{gmpl.IntVal(1)}, Values: []gmpl.SetVal{gmpl.IntVal(2), gmpl.IntVal(3)}},
	}

	m, err := model.FromEntries(entries)
	require.NoError(t, err)
	require.NotNil(t, m.Sets[0].Data)
	assert.Equal(t, []gmpl.SetVal{gmpl.IntVal(2), gmpl.IntVal(3)}, m.Sets[0].Data.Indexed["1"])
}
