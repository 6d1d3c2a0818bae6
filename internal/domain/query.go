package domain

// QueryFilter is a raw filter triple as submitted by a client.
// swagger:model QueryFilter
type QueryFilter struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// Operator is a resolved comparison operator.
type Operator string

// Comparison operators accepted by the stores.
const (
	OpEQ   Operator = "="
	OpNE   Operator = "!="
	OpLT   Operator = "<"
	OpLTEQ Operator = "<="
	OpGT   Operator = ">"
	OpGTEQ Operator = ">="
)

// IsInequality reports whether the operator is a range or not-equal comparison.
func (o Operator) IsInequality() bool { return o != OpEQ }

// FieldKind is the value type stored under a queryable field.
type FieldKind int

// Field kinds.
const (
	KindString FieldKind = iota
	KindInt
	KindTimeOfDay
)

// Filter is a resolved filter: a storage field, an operator and a typed value
// (string, int or TimeOfDay according to Kind).
type Filter struct {
	Field    string
	Kind     FieldKind
	Repeated bool
	Operator Operator
	Value    any
}

// QueryPlan is the output of filter translation. Filters are conjunctive.
// OrderBy starts with InequalityField when one is set and always ends with the
// collection's canonical sort field.
type QueryPlan struct {
	Filters         []Filter
	InequalityField string
	OrderBy         []string
}
