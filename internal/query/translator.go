// Package query translates client-supplied filter triples into query plans
// the repositories can execute.
//
// Every field and operator must be whitelisted. Values are coerced to the
// field's kind, and at most one field may carry inequality comparisons because
// the stores can only range-scan and sort on a single property.
package query

import (
	"strconv"
	"strings"

	"conferencecentral/internal/domain"
)

// Field describes a queryable storage property.
type Field struct {
	Name     string
	Kind     domain.FieldKind
	Repeated bool
}

// Schema is the whitelist for one collection.
type Schema struct {
	fields    map[string]Field
	canonical string
}

// NewSchema builds a schema from public names to storage fields. The storage
// field name is also accepted as a public alias. canonical is the property
// every plan is finally ordered by.
func NewSchema(canonical string, fields map[string]Field) *Schema {
	s := &Schema{fields: make(map[string]Field, 2*len(fields)), canonical: canonical}
	for name, f := range fields {
		s.fields[name] = f
	}
	return s
}

// WithAliases returns s after registering extra public names for existing
// fields. It panics on an alias to an unknown field, as schemas are static.
func (s *Schema) WithAliases(aliases map[string]string) *Schema {
	for alias, target := range aliases {
		f, ok := s.fields[target]
		if !ok {
			panic("query: alias " + alias + " targets unknown field " + target)
		}
		s.fields[alias] = f
	}
	return s
}

// Canonical returns the secondary sort field of the collection.
func (s *Schema) Canonical() string { return s.canonical }

var operators = map[string]domain.Operator{
	"EQ":   domain.OpEQ,
	"GT":   domain.OpGT,
	"GTEQ": domain.OpGTEQ,
	"LT":   domain.OpLT,
	"LTEQ": domain.OpLTEQ,
	"NE":   domain.OpNE,
	"=":    domain.OpEQ,
	">":    domain.OpGT,
	">=":   domain.OpGTEQ,
	"<":    domain.OpLT,
	"<=":   domain.OpLTEQ,
	"!=":   domain.OpNE,
}

// Conferences is the conference query whitelist.
var Conferences = NewSchema("name", map[string]Field{
	"CITY":            {Name: "city", Kind: domain.KindString},
	"TOPIC":           {Name: "topics", Kind: domain.KindString, Repeated: true},
	"MONTH":           {Name: "month", Kind: domain.KindInt},
	"MAX_ATTENDEES":   {Name: "max_attendees", Kind: domain.KindInt},
	"SEATS_AVAILABLE": {Name: "seats_available", Kind: domain.KindInt},
}).WithAliases(map[string]string{
	"city":           "CITY",
	"topics":         "TOPIC",
	"month":          "MONTH",
	"maxAttendees":   "MAX_ATTENDEES",
	"seatsAvailable": "SEATS_AVAILABLE",
})

// Sessions is the session query whitelist.
var Sessions = NewSchema("title", map[string]Field{
	"TITLE":      {Name: "title", Kind: domain.KindString},
	"TYPE":       {Name: "session_type", Kind: domain.KindString},
	"SPEAKER":    {Name: "speaker_name", Kind: domain.KindString},
	"SPEAKER_ID": {Name: "speaker_id", Kind: domain.KindString},
	"HIGHLIGHTS": {Name: "highlights", Kind: domain.KindString},
	"LOCATION":   {Name: "location", Kind: domain.KindString},
	"CONFERENCE": {Name: "conference_id", Kind: domain.KindString},
	"DURATION":   {Name: "duration", Kind: domain.KindInt},
	"START_TIME": {Name: "start_time", Kind: domain.KindTimeOfDay},
}).WithAliases(map[string]string{
	"title":          "TITLE",
	"session_type":   "TYPE",
	"speaker_name":   "SPEAKER",
	"speaker_id":     "SPEAKER_ID",
	"highlights":     "HIGHLIGHTS",
	"location":       "LOCATION",
	"conference_key": "CONFERENCE",
	"duration":       "DURATION",
	"start_time":     "START_TIME",
})

// Translate resolves raw filters into a plan. It fails with
// domain.ErrInvalidFilter on an unknown field or operator, on a second
// inequality field, or on a value that does not parse for its field.
func (s *Schema) Translate(raw []domain.QueryFilter) (*domain.QueryPlan, error) {
	plan := &domain.QueryPlan{Filters: make([]domain.Filter, 0, len(raw))}
	for _, rf := range raw {
		field, ok := s.fields[strings.TrimSpace(rf.Field)]
		if !ok {
			return nil, domain.InvalidFilter("unknown field %q", rf.Field)
		}
		op, ok := operators[strings.TrimSpace(rf.Operator)]
		if !ok {
			return nil, domain.InvalidFilter("unknown operator %q", rf.Operator)
		}
		if op.IsInequality() {
			if plan.InequalityField != "" && plan.InequalityField != field.Name {
				return nil, domain.InvalidFilter("inequality filter is allowed on only one field, got %s and %s", plan.InequalityField, field.Name)
			}
			plan.InequalityField = field.Name
		}
		value, err := coerce(field, rf.Value)
		if err != nil {
			return nil, err
		}
		plan.Filters = append(plan.Filters, domain.Filter{
			Field:    field.Name,
			Kind:     field.Kind,
			Repeated: field.Repeated,
			Operator: op,
			Value:    value,
		})
	}
	if plan.InequalityField != "" {
		plan.OrderBy = []string{plan.InequalityField, s.canonical}
	} else {
		plan.OrderBy = []string{s.canonical}
	}
	return plan, nil
}

// MustTranslate is Translate for filters built by the server itself.
func (s *Schema) MustTranslate(raw ...domain.QueryFilter) *domain.QueryPlan {
	plan, err := s.Translate(raw)
	if err != nil {
		panic(err)
	}
	return plan
}

// Eq is shorthand for an equality filter triple.
func Eq(field, value string) domain.QueryFilter {
	return domain.QueryFilter{Field: field, Operator: "EQ", Value: value}
}

func coerce(f Field, raw string) (any, error) {
	switch f.Kind {
	case domain.KindInt:
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, domain.InvalidFilter("invalid %s value %q", f.Name, raw)
		}
		return v, nil
	case domain.KindTimeOfDay:
		v, err := domain.ParseTimeOfDay(strings.TrimSpace(raw))
		if err != nil {
			return nil, domain.InvalidFilter("invalid %s value %q, want HH:MM", f.Name, raw)
		}
		return v, nil
	default:
		return raw, nil
	}
}
