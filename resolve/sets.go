package resolve

import (
	"errors"
	"fmt"

	"github.com/lgsolve/mosox/gmpl"
	"github.com/lgsolve/mosox/model"
)

// ErrCircularSetDependency is returned when no remaining set declaration can
// be resolved because each depends on a not-yet-resolved sibling set.
var ErrCircularSetDependency = errors.New("circular or missing dependency among set declarations")

// Model resolves every set declaration in m, in dependency order, records
// each parameter's data for lazy resolution on first access, and returns
// the Lookups ready for expand.Recurse.
func Model(m *model.Model) (*Lookups, error) {
	lk := newLookups(m)

	if err := resolveSets(m, lk); err != nil {
		return nil, err
	}

	resolveParams(m, lk)

	return lk, nil
}

// resolveSets resolves every SetWithData, repeatedly attempting whichever
// declarations have not yet been resolved until a full pass makes no
// progress (a set's domain, body, or within clause may reference another
// set that must be resolved first).
func resolveSets(m *model.Model, lk *Lookups) error {
	pending := append([]model.SetWithData{}, m.Sets...)

	for len(pending) > 0 {
		progressed := false

		var stillPending []model.SetWithData

		for _, sd := range pending {
			ok, err := tryResolveSet(sd, lk)
			if err != nil {
				return err
			}

			if ok {
				progressed = true
			} else {
				stillPending = append(stillPending, sd)
			}
		}

		if !progressed {
			names := make([]string, len(stillPending))
			for i, sd := range stillPending {
				names[i] = sd.Decl.Name
			}

			return fmt.Errorf("%w: %v", ErrCircularSetDependency, names)
		}

		pending = stillPending
	}

	return nil
}

// tryResolveSet attempts to resolve one set declaration across every index
// its domain enumerates. It returns ok=false (no error) if resolution
// cannot proceed yet because a dependency is unresolved, so the caller can
// retry after other declarations have made progress.
func tryResolveSet(sd model.SetWithData, lk *Lookups) (bool, error) {
	decl := sd.Decl

	if decl.Domain == nil {
		elems, rerr := resolveOneSet(decl, nil, sd.Data, lk)
		if rerr != nil {
			if errors.Is(rerr, ErrUnknownSet) {
				return false, nil
			}

			return false, rerr
		}

		lk.markSetResolved(decl.Name, nil, elems)

		return true, nil
	}

	combos, cerr := EnumerateDomain(decl.Domain, lk, nil)
	if cerr != nil {
		if errors.Is(cerr, ErrUnknownSet) {
			return false, nil
		}

		return false, cerr
	}

	for _, c := range combos {
		elems, rerr := resolveOneSet(decl, c.Index, sd.Data, lk)
		if rerr != nil {
			if errors.Is(rerr, ErrUnknownSet) {
				return false, nil
			}

			return false, rerr
		}

		lk.markSetResolved(decl.Name, c.Index, elems)
	}

	return true, nil
}

// resolveOneSet resolves one (possibly indexed) set instance: data
// override, then inline body, then default, then empty
// (matrix/set.rs's SetCont::resolve).
func resolveOneSet(decl gmpl.Set, idx gmpl.Index, data *model.SetData, lk *Lookups) ([]gmpl.SetVal, error) {
	if data != nil {
		if idx == nil && data.Members != nil {
			return data.Members, nil
		}

		if idx != nil {
			if vals, ok := data.Indexed[idx.Key()]; ok {
				return vals, nil
			}
		}
	}

	if decl.Body != nil {
		rs, err := resolveSetExprInline(decl.Body, Binding{}, lk)
		if err != nil {
			return nil, err
		}

		return rs.Elements, nil
	}

	if decl.Default != nil {
		rs, err := resolveSetExprInline(decl.Default, Binding{}, lk)
		if err != nil {
			return nil, err
		}

		return rs.Elements, nil
	}

	return nil, nil
}
