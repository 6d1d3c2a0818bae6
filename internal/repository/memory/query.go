package memory

import (
	"cmp"
	"slices"

	"conferencecentral/internal/domain"
)

// fieldFunc returns the values stored under a field. Repeated fields may
// return any number of values; scalar fields return exactly one.
type fieldFunc[T any] func(item T) []any

// evaluate returns the items matching every filter in plan, ordered by plan.OrderBy.
func evaluate[T any](items []T, fields map[string]fieldFunc[T], plan *domain.QueryPlan) ([]T, error) {
	for _, f := range plan.Filters {
		if _, ok := fields[f.Field]; !ok {
			return nil, domain.InvalidFilter("field %q is not queryable", f.Field)
		}
	}
	for _, name := range plan.OrderBy {
		if _, ok := fields[name]; !ok {
			return nil, domain.InvalidFilter("field %q is not sortable", name)
		}
	}

	out := make([]T, 0, len(items))
	for _, it := range items {
		ok, err := matchesAll(it, fields, plan.Filters)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, it)
		}
	}
	slices.SortStableFunc(out, func(a, b T) int {
		for _, name := range plan.OrderBy {
			if c := compareLists(fields[name](a), fields[name](b)); c != 0 {
				return c
			}
		}
		return 0
	})
	return out, nil
}

func matchesAll[T any](item T, fields map[string]fieldFunc[T], filters []domain.Filter) (bool, error) {
	for _, f := range filters {
		ok, err := matches(fields[f.Field](item), f)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// matches reports whether any stored value satisfies the filter.
func matches(values []any, f domain.Filter) (bool, error) {
	for _, v := range values {
		c, err := compare(v, f.Value)
		if err != nil {
			return false, err
		}
		var ok bool
		switch f.Operator {
		case domain.OpEQ:
			ok = c == 0
		case domain.OpNE:
			ok = c != 0
		case domain.OpLT:
			ok = c < 0
		case domain.OpLTEQ:
			ok = c <= 0
		case domain.OpGT:
			ok = c > 0
		case domain.OpGTEQ:
			ok = c >= 0
		default:
			return false, domain.InvalidFilter("operator %q is not supported", f.Operator)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func compare(a, b any) (int, error) {
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return cmp.Compare(x, y), nil
		}
	case int:
		if y, ok := b.(int); ok {
			return cmp.Compare(x, y), nil
		}
	case domain.TimeOfDay:
		if y, ok := b.(domain.TimeOfDay); ok {
			return cmp.Compare(x, y), nil
		}
	}
	return 0, domain.InvalidFilter("cannot compare %T with %T", a, b)
}

// compareLists orders value lists element by element, shorter lists first on a tie.
func compareLists(a, b []any) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		// Values under one field always share a kind.
		if c, _ := compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

func one(v any) []any { return []any{v} }

func stringValues(vs []string) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}
