// Package resolve grounds the parsed, data-matched model against concrete
// values: it resolves every declared set to its element list for every
// index its domain enumerates (eagerly, since domain enumeration elsewhere
// depends on it), and resolves each parameter instance's value lazily, the
// moment Lookups.Param is first asked for it. It also exposes the
// domain-enumeration/guard-evaluation primitives that both set resolution
// and the expansion engine (package expand) build on.
//
// Grounded on matrix/set.rs's SetCont::resolve (data override, then body
// expression, then default, then empty) and mps/mod.rs's resolve_param
// (scalar, indexed cell, or table forms; evaluated at the point recurse
// accesses a parameter rather than pre-validated up front), adapted from
// the source's Rc/Arc-shared Lookups struct to plain Go maps since ordinary
// GC sharing needs no reference counting.
package resolve

import (
	"errors"
	"fmt"

	"github.com/lgsolve/mosox/gmpl"
	"github.com/lgsolve/mosox/model"
)

var (
	ErrUnknownSet       = errors.New("reference to undeclared set")
	ErrUnknownParam     = errors.New("reference to undeclared parameter")
	ErrUnresolvedSymbol = errors.New("unresolved symbol")
)

// ResolvedSet is the concrete, ordered element list of one set instance.
type ResolvedSet struct {
	Elements []gmpl.SetVal
}

// Lookups is the resolved model: every set instance's elements, plus each
// parameter instance's value once it has first been accessed, ready for the
// expansion engine to ground constraint and objective bodies against.
type Lookups struct {
	Sets   map[string]ResolvedSet // key: gmplKey(name, idx)
	Params map[string]float64     // key: gmplKey(name, idx)

	SetDecls   map[string]gmpl.Set
	ParamDecls map[string]gmpl.Param
	VarDecls   map[string]gmpl.Var
	Model      *model.Model

	setResolved map[string]bool
	paramData   map[string]*model.ParamData
}

func newLookups(m *model.Model) *Lookups {
	setDecls := make(map[string]gmpl.Set, len(m.Sets))
	for _, s := range m.Sets {
		setDecls[s.Decl.Name] = s.Decl
	}

	paramDecls := make(map[string]gmpl.Param, len(m.Params))
	for _, p := range m.Params {
		paramDecls[p.Decl.Name] = p.Decl
	}

	varDecls := make(map[string]gmpl.Var, len(m.Vars))
	for _, v := range m.Vars {
		varDecls[v.Name] = v
	}

	return &Lookups{
		Sets:        map[string]ResolvedSet{},
		Params:      map[string]float64{},
		SetDecls:    setDecls,
		ParamDecls:  paramDecls,
		VarDecls:    varDecls,
		Model:       m,
		setResolved: map[string]bool{},
		paramData:   map[string]*model.ParamData{},
	}
}

func gmplKey(name string, idx gmpl.Index) string {
	if idx == nil {
		return name
	}

	return name + "[" + idx.Key() + "]"
}

// Set returns the resolved elements of set name at index idx (nil for an
// unindexed set). It returns ErrUnknownSet both when name was never
// declared and when it has not been resolved yet — set resolution
// (resolveSets) relies on exactly this to retry a declaration whose domain
// references a sibling set that is not ready yet.
func (l *Lookups) Set(name string, idx gmpl.Index) (ResolvedSet, error) {
	key := gmplKey(name, idx)

	if !l.setResolved[key] {
		return ResolvedSet{}, fmt.Errorf("%w: %s", ErrUnknownSet, name)
	}

	return l.Sets[key], nil
}

// markSetResolved records that Sets[key] now holds a final value (possibly
// a legitimately empty one), distinguishing "resolved to empty" from "not
// resolved yet" for Set's retry signal.
func (l *Lookups) markSetResolved(name string, idx gmpl.Index, elems []gmpl.SetVal) {
	key := gmplKey(name, idx)
	l.Sets[key] = ResolvedSet{Elements: elems}
	l.setResolved[key] = true
}

// Param returns the resolved value of parameter name at index idx (nil for
// a scalar parameter), resolving it lazily on first access — data override,
// then compute expression, then default — and caching the result under key
// so a repeated access doesn't re-evaluate it. ok is false whenever err is
// non-nil: ErrUnknownParam for an undeclared name, ErrUninitializedParam for
// an instance outside the domain guard or with no data, compute expression,
// or default, or an evaluation error. Declarations never touched by any
// objective or constraint are never evaluated at all.
func (l *Lookups) Param(name string, idx gmpl.Index) (float64, bool, error) {
	decl, declared := l.ParamDecls[name]
	if !declared {
		return 0, false, fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}

	key := gmplKey(name, idx)

	if v, ok := l.Params[key]; ok {
		return v, true, nil
	}

	bind, err := bindingFromDomain(decl.Domain, idx)
	if err != nil {
		return 0, false, err
	}

	if decl.Domain != nil && decl.Domain.Guard != nil {
		ok, err := EvalLogic(decl.Domain.Guard, bind, l)
		if err != nil {
			return 0, false, err
		}

		if !ok {
			return 0, false, fmt.Errorf("%w: %s[%s]", ErrUninitializedParam, name, idx.Key())
		}
	}

	v, err := resolveOneParam(decl, idx, bind, l.paramData[name], l)
	if err != nil {
		return 0, false, fmt.Errorf("param %s[%s]: %w", name, idx.Key(), err)
	}

	l.Params[key] = v

	return v, true, nil
}
