package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"strings"

	"conferencecentral/internal/domain"
)

// flipped gives the operator to use when the parameter moves to the left of
// the comparison, as in `$1 > ANY(topics)` for "some topic < $1".
var flipped = map[domain.Operator]string{
	domain.OpEQ:   "=",
	domain.OpNE:   "<>",
	domain.OpLT:   ">",
	domain.OpLTEQ: ">=",
	domain.OpGT:   "<",
	domain.OpGTEQ: "<=",
}

var sqlOperators = map[domain.Operator]string{
	domain.OpEQ:   "=",
	domain.OpNE:   "<>",
	domain.OpLT:   "<",
	domain.OpLTEQ: "<=",
	domain.OpGT:   ">",
	domain.OpGTEQ: ">=",
}

// buildSelect renders a translated plan as a SELECT over table. Only columns
// listed in queryable may appear in WHERE or ORDER BY.
func buildSelect(columns, table string, queryable map[string]bool, plan *domain.QueryPlan) (string, []any, error) {
	var (
		where []string
		args  []any
	)
	for _, f := range plan.Filters {
		if !queryable[f.Field] {
			return "", nil, domain.InvalidFilter("field %q is not queryable", f.Field)
		}
		op, ok := sqlOperators[f.Operator]
		if !ok {
			return "", nil, domain.InvalidFilter("operator %q is not supported", f.Operator)
		}
		args = append(args, sqlValue(f))
		param := fmt.Sprintf("$%d", len(args))
		if f.Repeated {
			where = append(where, fmt.Sprintf("%s %s ANY(%s)", param, flipped[f.Operator], f.Field))
			continue
		}
		where = append(where, fmt.Sprintf("%s %s %s", f.Field, op, param))
	}
	for _, col := range plan.OrderBy {
		if !queryable[col] {
			return "", nil, domain.InvalidFilter("field %q is not sortable", col)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", columns, table)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	if len(plan.OrderBy) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(plan.OrderBy, ", "))
	}
	return b.String(), args, nil
}

func sqlValue(f domain.Filter) any {
	switch v := f.Value.(type) {
	case int:
		return int64(v)
	case domain.TimeOfDay:
		return v.String()
	default:
		return v
	}
}

// queryRows streams the rows of a query through scan.
func queryRows[T any](ctx context.Context, db *sql.DB, query string, args []any, scan func(rowScanner) (*T, error)) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			yield(nil, err)
			return
		}
		defer rows.Close()
		for rows.Next() {
			item, err := scan(rows)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(item, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, err)
		}
	}
}

// collect drains a sequence into a slice.
func collect[T any](seq iter.Seq2[*T, error]) ([]*T, error) {
	out := make([]*T, 0)
	for item, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// failed yields a single error.
func failed[T any](err error) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) { yield(nil, err) }
}
