// Package forms maps persisted entities to and from their transport forms.
//
// Each entity/form pair is described by a static field table; a table entry
// names the wire field, says whether the form carries it, and knows how to
// copy it in each direction. Decoding validates required fields, applies the
// default table and parses dates (YYYY-MM-DD) and times of day (HH:MM).
package forms

import (
	"time"

	"conferencecentral/internal/domain"
)

const dateLayout = "2006-01-02"

// parseDate reads a YYYY-MM-DD date from the first 10 characters of s, so
// full timestamps are accepted too.
func parseDate(field, s string) (*time.Time, error) {
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, domain.InvalidInput("%s must be a YYYY-MM-DD date", field)
	}
	return &d, nil
}

func formatDate(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format(dateLayout)
}

func intPtr(n int) *int { return &n }

// QueryForms is the body of the conference and session query operations.
type QueryForms struct {
	Filters []domain.QueryFilter `json:"filters"`
}
