// Package compile assembles a resolved model into the flat matrix form
// (ordered rows, columns, bounds) that mpsfmt serialises.
//
// Grounded on original_source/src/mps/mod.rs's top-level driver (objective
// row first, then each constraint's Cartesian-product instantiations in
// declaration order) and mps/bounds.rs's gen_bounds/BoundsOp::from_rel_op.
package compile

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/lgsolve/mosox/expand"
	"github.com/lgsolve/mosox/gmpl"
	"github.com/lgsolve/mosox/model"
	"github.com/lgsolve/mosox/resolve"
)

var (
	ErrObjectiveHasConstant = errors.New("objective expression reduced to a bare constant")
	ErrUnsupportedRelOp     = errors.New("constraint operator not supported in MPS output")
)

// RowType is an MPS row type.
type RowType int

const (
	RowN RowType = iota
	RowL
	RowE
	RowG
)

func (t RowType) String() string {
	switch t {
	case RowN:
		return "N"
	case RowL:
		return "L"
	case RowE:
		return "E"
	case RowG:
		return "G"
	default:
		return "?"
	}
}

func rowTypeFromRelOp(op gmpl.RelOp) (RowType, error) {
	switch op {
	case gmpl.RelLe:
		return RowL, nil
	case gmpl.RelEq:
		return RowE, nil
	case gmpl.RelGe:
		return RowG, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedRelOp, op.String())
	}
}

// BoundOp is an MPS bound-record operator.
type BoundOp int

const (
	BoundFR BoundOp = iota
	BoundUP
	BoundLO
	BoundFX
)

func (op BoundOp) String() string {
	switch op {
	case BoundFR:
		return "FR"
	case BoundUP:
		return "UP"
	case BoundLO:
		return "LO"
	case BoundFX:
		return "FX"
	default:
		return "?"
	}
}

func boundOpFromRelOp(op gmpl.RelOp) (BoundOp, error) {
	switch op {
	case gmpl.RelLe:
		return BoundUP, nil
	case gmpl.RelEq:
		return BoundFX, nil
	case gmpl.RelGe:
		return BoundLO, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedRelOp, op.String())
	}
}

// RowEntry describes one row of the matrix: its MPS type and, for
// non-objective rows, the right-hand-side constant.
type RowEntry struct {
	Type RowType
	RHS  *float64
}

// BoundEntry describes one variable's bound record.
type BoundEntry struct {
	Op  BoundOp
	Val *float64
}

// ColEntry is one non-zero (row, coefficient) pair within a column, in the
// order it was first inserted.
type ColEntry struct {
	Row   gmpl.RowKey
	Coeff float64
}

// Compiled is the flat matrix ready for mpsfmt: rows, columns, and bounds,
// each preserving insertion order per §5's determinism requirement.
type Compiled struct {
	rows   *orderedMap[gmpl.RowKey, RowEntry]
	cols   *orderedMap[gmpl.ColKey, *orderedMap[gmpl.RowKey, float64]]
	bounds *orderedMap[gmpl.ColKey, BoundEntry]
}

// EachRow calls f for every row in insertion order.
func (c *Compiled) EachRow(f func(gmpl.RowKey, RowEntry)) { c.rows.each(f) }

// EachCol calls f once per column, in insertion order, with that column's
// non-zero entries flattened to a slice in their own insertion order.
func (c *Compiled) EachCol(f func(gmpl.ColKey, []ColEntry)) {
	c.cols.each(func(col gmpl.ColKey, rows *orderedMap[gmpl.RowKey, float64]) {
		entries := make([]ColEntry, 0, rows.len())
		rows.each(func(row gmpl.RowKey, coeff float64) {
			entries = append(entries, ColEntry{Row: row, Coeff: coeff})
		})
		f(col, entries)
	})
}

// EachBound calls f for every column's bound record in insertion order.
func (c *Compiled) EachBound(f func(gmpl.ColKey, BoundEntry)) { c.bounds.each(f) }

// Options configures Compile.
type Options struct {
	// Parallel expands each constraint's Cartesian-product instantiations
	// across a bounded worker pool instead of sequentially. Results are
	// still buffered and inserted into the ordered matrix in
	// declaration-and-Cartesian order, so output is identical either way.
	Parallel bool

	// Logger receives structured progress/diagnostic events. Defaults to
	// a no-op logger when nil, so library consumers pay nothing unless
	// they opt in.
	Logger *zap.SugaredLogger
}

func (o Options) logger() *zap.SugaredLogger {
	if o.Logger == nil {
		return zap.NewNop().Sugar()
	}

	return o.Logger
}

// Compile resolves m against its data, expands every constraint and the
// objective into matrix form, and derives variable bounds.
func Compile(m *model.Model, opts Options) (*Compiled, error) {
	log := opts.logger()

	lk, err := resolve.Model(m)
	if err != nil {
		return nil, fmt.Errorf("resolving model: %w", err)
	}

	log.Infow("model resolved", "sets", len(lk.SetDecls), "params", len(lk.ParamDecls))

	c := &Compiled{
		rows:   newOrderedMap[gmpl.RowKey, RowEntry](),
		cols:   newOrderedMap[gmpl.ColKey, *orderedMap[gmpl.RowKey, float64]](),
		bounds: newOrderedMap[gmpl.ColKey, BoundEntry](),
	}

	if err := compileObjective(m.Objective, lk, c); err != nil {
		return nil, fmt.Errorf("objective %s: %w", m.Objective.Name, err)
	}

	for _, con := range m.Constraints {
		if err := compileConstraint(con, lk, c, opts); err != nil {
			return nil, fmt.Errorf("constraint %s: %w", con.Name, err)
		}
	}

	compileBounds(m.Vars, c)

	log.Infow("compiled", "rows", c.rows.len(), "cols", c.cols.len())

	return c, nil
}

func compileObjective(obj gmpl.Objective, lk *resolve.Lookups, c *Compiled) error {
	row := gmpl.NewRowKey(obj.Name, nil)
	c.rows.set(row, RowEntry{Type: RowN})

	terms, err := expand.Recurse(obj.Body, resolve.Binding{}, lk)
	if err != nil {
		return err
	}

	for _, t := range terms {
		if t.IsNum {
			return fmt.Errorf("%w: %g", ErrObjectiveHasConstant, t.Num)
		}

		insertCoeff(c, gmpl.NewColKey(t.Pair.Var, t.Pair.Index), row, t.Pair.Coeff)
	}

	return nil
}

func compileConstraint(con gmpl.Constraint, lk *resolve.Lookups, c *Compiled, opts Options) error {
	rowType, err := rowTypeFromRelOp(con.Op)
	if err != nil {
		return err
	}

	combos, err := resolve.EnumerateDomain(con.Domain, lk, nil)
	if err != nil {
		return err
	}

	built, err := buildInstantiations(con, combos, lk, opts)
	if err != nil {
		return err
	}

	for _, bi := range built {
		row := gmpl.NewRowKey(con.Name, bi.index)
		rhs := bi.rhs
		c.rows.set(row, RowEntry{Type: rowType, RHS: &rhs})

		for _, p := range bi.pairs {
			insertCoeff(c, gmpl.NewColKey(p.Var, p.Index), row, p.Coeff)
		}
	}

	return nil
}

type builtInstantiation struct {
	index gmpl.Index
	pairs []expand.Pair
	rhs   float64
}

func buildInstantiation(con gmpl.Constraint, combo resolve.Combo, lk *resolve.Lookups) (builtInstantiation, error) {
	lhsTerms, err := expand.Recurse(con.LHS, combo.Binding, lk)
	if err != nil {
		return builtInstantiation{}, err
	}

	rhsTerms, err := expand.Recurse(con.RHS, combo.Binding, lk)
	if err != nil {
		return builtInstantiation{}, err
	}

	pairs, rhs := expand.Algebra(lhsTerms, rhsTerms)

	return builtInstantiation{index: combo.Index, pairs: pairs, rhs: rhs}, nil
}

func insertCoeff(c *Compiled, col gmpl.ColKey, row gmpl.RowKey, coeff float64) {
	rows, ok := c.cols.get(col)
	if !ok {
		rows = newOrderedMap[gmpl.RowKey, float64]()
		c.cols.set(col, rows)
	}
	// Last write wins for a repeated (col, row) pair within one
	// expansion, matching the source's observed (not summation-coalesced)
	// insertion behaviour — see DESIGN.md.
	rows.set(row, coeff)
}

func compileBounds(vars []gmpl.Var, c *Compiled) {
	declByName := make(map[string]gmpl.Var, len(vars))
	for _, v := range vars {
		declByName[v.Name] = v
	}

	c.cols.each(func(col gmpl.ColKey, _ *orderedMap[gmpl.RowKey, float64]) {
		decl, ok := declByName[col.Var]
		if !ok || decl.Bounds == nil {
			c.bounds.set(col, BoundEntry{Op: BoundFR})

			return
		}

		op, err := boundOpFromRelOp(decl.Bounds.Op)
		if err != nil {
			c.bounds.set(col, BoundEntry{Op: BoundFR})

			return
		}

		val := decl.Bounds.Value
		c.bounds.set(col, BoundEntry{Op: op, Val: &val})
	})
}
