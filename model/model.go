// Package model matches parsed declarations to parsed data and assembles
// them into a single in-memory model, mirroring the matching pass the
// source compiler runs before resolution (model.rs's from_entries), but
// returning errors instead of panicking: a missing objective or an orphaned
// data assignment is a user-facing compile error, not a crash.
package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lgsolve/mosox/gmpl"
)

var (
	ErrNoObjective        = errors.New("model has no objective")
	ErrMultipleObjectives = errors.New("model has multiple objectives")
	ErrUnmatchedSetData   = errors.New("data set has no matching model declaration")
	ErrUnmatchedParamData = errors.New("data param has no matching model declaration")
)

// SetData is the data assigned to one declared Set, merged across every
// gmpl.DataSet entry that named it: a flat member list for an unindexed
// set, or one member list per concrete index for an indexed family.
type SetData struct {
	Members []gmpl.SetVal
	Indexed map[string][]gmpl.SetVal // keyed by gmpl.Index.Key()
}

// SetWithData pairs a set declaration with its (possibly absent) data.
type SetWithData struct {
	Decl gmpl.Set
	Data *SetData // nil if no data entry matched this declaration
}

func (s SetWithData) String() string {
	out := s.Decl.String()
	if d := s.Data.String(); d != "" {
		out += "\n  " + d
	}

	return out
}

// String renders the set's matched data, sorted for determinism (map
// iteration order is not).
func (d *SetData) String() string {
	if d == nil {
		return ""
	}

	if d.Members != nil {
		return "data: " + joinSetVals(d.Members)
	}

	keys := make([]string, 0, len(d.Indexed))
	for k := range d.Indexed {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = "[" + k + "] " + joinSetVals(d.Indexed[k])
	}

	return "data: " + strings.Join(lines, "; ")
}

func joinSetVals(vals []gmpl.SetVal) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = v.String()
	}

	return strings.Join(parts, ",")
}

// ParamData is the data assigned to one declared Param, merged across every
// gmpl.DataParam entry that named it.
type ParamData struct {
	Scalar *float64
	Cells  map[string]float64 // keyed by gmpl.Index.Key(), single-cell and table forms alike
}

// ParamWithData pairs a parameter declaration with its (possibly absent) data.
type ParamWithData struct {
	Decl gmpl.Param
	Data *ParamData
}

func (p ParamWithData) String() string {
	out := p.Decl.String()
	if d := p.Data.String(); d != "" {
		out += "\n  " + d
	}

	return out
}

// String renders the parameter's matched data, sorted for determinism (map
// iteration order is not).
func (d *ParamData) String() string {
	if d == nil {
		return ""
	}

	if d.Scalar != nil {
		return fmt.Sprintf("data: %g", *d.Scalar)
	}

	keys := make([]string, 0, len(d.Cells))
	for k := range d.Cells {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("[%s] %g", k, d.Cells[k])
	}

	return "data: " + strings.Join(parts, ", ")
}

// Model is the fully matched, not-yet-resolved model: declarations with
// their data attached, ready for resolve.Lookups to ground against.
type Model struct {
	Objective   gmpl.Objective
	Sets        []SetWithData
	Params      []ParamWithData
	Vars        []gmpl.Var
	Constraints []gmpl.Constraint
}

// String renders the bound model the way its source would read: the
// objective, then every set, parameter, variable, and constraint
// declaration in declaration order, each alongside whatever data matched it.
func (m *Model) String() string {
	var b strings.Builder

	fmt.Fprintln(&b, m.Objective.String())

	for _, s := range m.Sets {
		fmt.Fprintln(&b, s.String())
	}

	for _, p := range m.Params {
		fmt.Fprintln(&b, p.String())
	}

	for _, v := range m.Vars {
		fmt.Fprintln(&b, v.String())
	}

	for _, c := range m.Constraints {
		fmt.Fprintln(&b, c.String())
	}

	return b.String()
}

// FromEntries builds a Model from the concatenated entries of a MODEL file
// and its accompanying DATA file(s).
func FromEntries(entries []gmpl.Entry) (*Model, error) {
	var objective *gmpl.Objective

	var setOrder, paramOrder []string

	setDecls := map[string]gmpl.Set{}
	paramDecls := map[string]gmpl.Param{}

	var vars []gmpl.Var

	var constraints []gmpl.Constraint

	var dataSetOrder, dataParamOrder []string

	setData := map[string]*SetData{}
	paramData := map[string]*ParamData{}

	for _, e := range entries {
		switch v := e.(type) {
		case *gmpl.Objective:
			if objective != nil {
				return nil, fmt.Errorf("%w: %q and %q", ErrMultipleObjectives, objective.Name, v.Name)
			}

			objective = v

		case *gmpl.Set:
			if _, exists := setDecls[v.Name]; !exists {
				setOrder = append(setOrder, v.Name)
			}

			setDecls[v.Name] = *v

		case *gmpl.Param:
			if _, exists := paramDecls[v.Name]; !exists {
				paramOrder = append(paramOrder, v.Name)
			}

			paramDecls[v.Name] = *v

		case *gmpl.Var:
			vars = append(vars, *v)

		case *gmpl.Constraint:
			constraints = append(constraints, *v)

		case *gmpl.DataSet:
			d, ok := setData[v.Name]
			if !ok {
				d = &SetData{Indexed: map[string][]gmpl.SetVal{}}
				setData[v.Name] = d
				dataSetOrder = append(dataSetOrder, v.Name)
			}

			if v.Index == nil {
				d.Members = append(d.Members, v.Values...)
			} else {
				key := v.Index.Key()
				d.Indexed[key] = append(d.Indexed[key], v.Values...)
			}

		case *gmpl.DataParam:
			d, ok := paramData[v.Name]
			if !ok {
				d = &ParamData{Cells: map[string]float64{}}
				paramData[v.Name] = d
				dataParamOrder = append(dataParamOrder, v.Name)
			}

			switch {
			case v.Table != nil:
				for _, row := range v.Table {
					d.Cells[row.Index.Key()] = row.Value
				}
			case v.Index != nil:
				d.Cells[v.Index.Key()] = v.Value
			default:
				val := v.Value
				d.Scalar = &val
			}
		}
	}

	if objective == nil {
		return nil, ErrNoObjective
	}

	sets := make([]SetWithData, 0, len(setOrder))
	matchedSetData := map[string]bool{}

	for _, name := range setOrder {
		sets = append(sets, SetWithData{Decl: setDecls[name], Data: setData[name]})
		matchedSetData[name] = true
	}

	for _, name := range dataSetOrder {
		if !matchedSetData[name] {
			return nil, fmt.Errorf("%w: %q", ErrUnmatchedSetData, name)
		}
	}

	params := make([]ParamWithData, 0, len(paramOrder))
	matchedParamData := map[string]bool{}

	for _, name := range paramOrder {
		params = append(params, ParamWithData{Decl: paramDecls[name], Data: paramData[name]})
		matchedParamData[name] = true
	}

	for _, name := range dataParamOrder {
		if !matchedParamData[name] {
			return nil, fmt.Errorf("%w: %q", ErrUnmatchedParamData, name)
		}
	}

	return &Model{
		Objective:   *objective,
		Sets:        sets,
		Params:      params,
		Vars:        vars,
		Constraints: constraints,
	}, nil
}
