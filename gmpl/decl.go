package gmpl

// Entry is one top-level statement from a MODEL or DATA file: a closed sum
// type over every declaration and data-assignment form the dialect has.
type Entry interface {
	entryNode()
}

// ObjSense distinguishes minimize/maximize.
type ObjSense int

const (
	SenseMinimize ObjSense = iota
	SenseMaximize
)

func (s ObjSense) String() string {
	if s == SenseMaximize {
		return "maximize"
	}

	return "minimize"
}

// Set declares a (possibly indexed) family of sets: `set CITIES;`,
// `set HUBS within CITIES;`, `set NBR{i in CITIES} within CITIES;`.
type Set struct {
	Name    string
	Domain  *Domain // non-nil for an indexed family
	Within  SetExpr // non-nil if a `within` superset restriction was given
	Body    SetExpr // non-nil for an inline `:=` definition
	Default SetExpr // non-nil for a `default` clause
}

func (*Set) entryNode() {}

func (s *Set) String() string {
	out := "set " + s.Name
	if s.Domain != nil {
		out += s.Domain.String()
	}

	if s.Within != nil {
		out += " within " + s.Within.String()
	}

	if s.Body != nil {
		out += " := " + s.Body.String()
	}

	if s.Default != nil {
		out += " default " + s.Default.String()
	}

	return out + ";"
}

// Param declares a (possibly indexed) parameter: `param cost{ARCS};`,
// `param limit := 100;`, `param weight{i in CITIES} default 1;`.
type Param struct {
	Name    string
	Domain  *Domain
	Compute Expr // non-nil for an inline `:=` definition
	Default Expr // non-nil for a `default` clause
}

func (*Param) entryNode() {}

func (p *Param) String() string {
	out := "param " + p.Name
	if p.Domain != nil {
		out += p.Domain.String()
	}

	if p.Compute != nil {
		out += " := " + p.Compute.String()
	}

	if p.Default != nil {
		out += " default " + p.Default.String()
	}

	return out + ";"
}

// VarBounds is the optional `(op, value)` bound attached directly to a
// variable declaration, e.g. the `>= 0` in `var x, y >= 0;`. A
// comma-separated name list sharing one bound clause yields one Var entry
// per name, each carrying the same Bounds.
type VarBounds struct {
	Op    RelOp
	Value float64
}

func (b VarBounds) String() string {
	return b.Op.String() + " " + trimFloat(b.Value)
}

// Var declares a (possibly indexed) decision variable:
// `var flow{ARCS} >= 0;`, `var x, y >= 0;`. Bounds is nil for a free (FR)
// variable.
type Var struct {
	Name   string
	Domain *Domain
	Bounds *VarBounds
}

func (*Var) entryNode() {}

func (v *Var) String() string {
	out := "var " + v.Name
	if v.Domain != nil {
		out += v.Domain.String()
	}

	if v.Bounds != nil {
		out += " " + v.Bounds.String()
	}

	return out + ";"
}

// Objective declares the (single) objective row: `minimize cost: sum{...};`.
type Objective struct {
	Name  string
	Sense ObjSense
	Body  Expr
}

func (*Objective) entryNode() {}

func (o *Objective) String() string {
	return o.Sense.String() + " " + o.Name + ": " + o.Body.String() + ";"
}

// Constraint declares a (possibly indexed) constraint row:
// `subject to balance{i in CITIES}: supply[i] - demand[i] = 0;`.
type Constraint struct {
	Name   string
	Domain *Domain
	LHS    Expr
	Op     RelOp
	RHS    Expr
}

func (*Constraint) entryNode() {}

func (c *Constraint) String() string {
	out := "subject to " + c.Name
	if c.Domain != nil {
		out += c.Domain.String()
	}

	return out + ": " + c.LHS.String() + " " + c.Op.String() + " " + c.RHS.String() + ";"
}

// DataSet assigns members to one instance of a declared indexed set family:
// `set NBR[1] := 2,3;`. The parser produces it only for that subscripted
// form; `set CITIES := "a","b","c";` parses as a Set with a literal Body.
type DataSet struct {
	Name   string
	Index  Index // nil for an unindexed set
	Values []SetVal
}

func (*DataSet) entryNode() {}

// DataRow is one row of a tabular DataParam assignment. Index may be a
// strict prefix of the parameter's declared arity, in which case it is a
// wildcard matching every value of the remaining dimensions (resolve
// package's longest-prefix-match lookup). A row/column matrix with `*`
// wildcard headers is not a supported data form.
type DataRow struct {
	Index Index
	Value float64
}

// DataParam assigns data to a declared parameter, either a single indexed
// cell (`param cost[1,2] := 4.5;`) or a table of rows
// (`param cost := [1,2] 4.5 [1,3] 7.0 ... ;`). The scalar form (Index and
// Table both nil) is not produced by the parser: `param limit := 100;`
// parses as a Param with a Compute expression.
type DataParam struct {
	Name   string
	Index  Index // non-nil for the single-cell form
	Value  float64
	Table  []DataRow // non-nil for the table form
}

func (*DataParam) entryNode() {}
