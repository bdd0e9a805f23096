package resolve

import (
	"errors"

	"github.com/lgsolve/mosox/gmpl"
	"github.com/lgsolve/mosox/model"
)

// ErrUninitializedParam is returned when a parameter instance has no data,
// no compute expression, and no default — the compile-time analogue of
// referencing an uninitialized variable. Raised lazily, at the first
// instance actually accessed by an objective or constraint, not for every
// combination its domain could in principle enumerate.
var ErrUninitializedParam = errors.New("parameter has no value: no data, compute expression, or default")

// resolveParams records each declared parameter's matched data against lk,
// without evaluating any of it: a parameter instance is resolved the
// moment Lookups.Param is first asked for it (see bindingFromDomain),
// mirroring resolve_param's per-access deferral in the original rather than
// pre-validating every declared combination up front.
func resolveParams(m *model.Model, lk *Lookups) {
	for _, pd := range m.Params {
		lk.paramData[pd.Decl.Name] = pd.Data
	}
}

// resolveOneParam resolves one (possibly indexed) parameter instance: data
// override (single cell or table row, longest-prefix-match for a
// shorter-than-arity table index), then compute expression, then default.
func resolveOneParam(decl gmpl.Param, idx gmpl.Index, bind Binding, data *model.ParamData, lk *Lookups) (float64, error) {
	if data != nil {
		if idx == nil && data.Scalar != nil {
			return *data.Scalar, nil
		}

		if idx != nil {
			if v, ok := lookupCell(data.Cells, idx); ok {
				return v, nil
			}
		}
	}

	if decl.Compute != nil {
		return EvalNumeric(decl.Compute, bind, lk)
	}

	if decl.Default != nil {
		return EvalNumeric(decl.Default, bind, lk)
	}

	return 0, ErrUninitializedParam
}

// lookupCell finds the value for idx in a table's cells, allowing a
// strictly shorter stored index to act as a wildcard prefix matching every
// value of the remaining dimensions.
func lookupCell(cells map[string]float64, idx gmpl.Index) (float64, bool) {
	if v, ok := cells[idx.Key()]; ok {
		return v, true
	}

	for n := len(idx) - 1; n > 0; n-- {
		if v, ok := cells[idx[:n].Key()]; ok {
			return v, true
		}
	}

	return 0, false
}
