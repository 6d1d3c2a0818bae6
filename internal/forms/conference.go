package forms

import (
	"slices"
	"strings"

	"conferencecentral/internal/domain"
)

// ConferenceForm is the wire representation of a conference.
// swagger:model ConferenceForm
type ConferenceForm struct {
	Name                 string   `json:"name"`
	Description          string   `json:"description,omitempty"`
	OrganizerUserID      string   `json:"organizerUserId,omitempty"`
	Topics               []string `json:"topics"`
	City                 string   `json:"city"`
	StartDate            string   `json:"startDate,omitempty"`
	Month                *int     `json:"month,omitempty"`
	MaxAttendees         *int     `json:"maxAttendees,omitempty"`
	SeatsAvailable       *int     `json:"seatsAvailable,omitempty"`
	EndDate              string   `json:"endDate,omitempty"`
	WebsafeKey           string   `json:"websafeKey,omitempty"`
	OrganizerDisplayName string   `json:"organizerDisplayName,omitempty"`
}

// conferenceDefaults supplies values for optional fields a create form omits.
var conferenceDefaults = ConferenceForm{
	City:         "",
	Topics:       []string{},
	MaxAttendees: intPtr(0),
}

type conferenceField struct {
	name    string
	present func(f *ConferenceForm) bool
	// decode is nil for fields the server derives or assigns.
	decode func(f *ConferenceForm, c *domain.Conference) error
	encode func(c *domain.Conference, f *ConferenceForm)
}

// conferenceFields is ordered: startDate precedes endDate so the range can be checked.
var conferenceFields = []conferenceField{
	{
		name:    "name",
		present: func(f *ConferenceForm) bool { return strings.TrimSpace(f.Name) != "" },
		decode: func(f *ConferenceForm, c *domain.Conference) error {
			c.Name = strings.TrimSpace(f.Name)
			return nil
		},
		encode: func(c *domain.Conference, f *ConferenceForm) { f.Name = c.Name },
	},
	{
		name:    "description",
		present: func(f *ConferenceForm) bool { return f.Description != "" },
		decode: func(f *ConferenceForm, c *domain.Conference) error {
			c.Description = f.Description
			return nil
		},
		encode: func(c *domain.Conference, f *ConferenceForm) { f.Description = c.Description },
	},
	{
		name:    "organizerUserId",
		present: func(f *ConferenceForm) bool { return false },
		encode:  func(c *domain.Conference, f *ConferenceForm) { f.OrganizerUserID = c.OrganizerUserID },
	},
	{
		name:    "topics",
		present: func(f *ConferenceForm) bool { return len(f.Topics) > 0 },
		decode: func(f *ConferenceForm, c *domain.Conference) error {
			c.Topics = slices.Clone(f.Topics)
			if c.Topics == nil {
				c.Topics = []string{}
			}
			return nil
		},
		encode: func(c *domain.Conference, f *ConferenceForm) {
			f.Topics = slices.Clone(c.Topics)
			if f.Topics == nil {
				f.Topics = []string{}
			}
		},
	},
	{
		name:    "city",
		present: func(f *ConferenceForm) bool { return f.City != "" },
		decode: func(f *ConferenceForm, c *domain.Conference) error {
			c.City = f.City
			return nil
		},
		encode: func(c *domain.Conference, f *ConferenceForm) { f.City = c.City },
	},
	{
		name:    "startDate",
		present: func(f *ConferenceForm) bool { return f.StartDate != "" },
		decode: func(f *ConferenceForm, c *domain.Conference) error {
			d, err := parseDate("startDate", f.StartDate)
			if err != nil {
				return err
			}
			c.SetStartDate(d)
			return nil
		},
		encode: func(c *domain.Conference, f *ConferenceForm) { f.StartDate = formatDate(c.StartDate) },
	},
	{
		name:    "endDate",
		present: func(f *ConferenceForm) bool { return f.EndDate != "" },
		decode: func(f *ConferenceForm, c *domain.Conference) error {
			d, err := parseDate("endDate", f.EndDate)
			if err != nil {
				return err
			}
			c.EndDate = d
			return nil
		},
		encode: func(c *domain.Conference, f *ConferenceForm) { f.EndDate = formatDate(c.EndDate) },
	},
	{
		// Derived from startDate; input is ignored.
		name:    "month",
		present: func(f *ConferenceForm) bool { return false },
		encode:  func(c *domain.Conference, f *ConferenceForm) { f.Month = intPtr(c.Month) },
	},
	{
		name:    "maxAttendees",
		present: func(f *ConferenceForm) bool { return f.MaxAttendees != nil },
		decode: func(f *ConferenceForm, c *domain.Conference) error {
			return c.SetMaxAttendees(*f.MaxAttendees)
		},
		encode: func(c *domain.Conference, f *ConferenceForm) { f.MaxAttendees = intPtr(c.MaxAttendees) },
	},
	{
		// Derived from maxAttendees and registrations; input is ignored.
		name:    "seatsAvailable",
		present: func(f *ConferenceForm) bool { return false },
		encode:  func(c *domain.Conference, f *ConferenceForm) { f.SeatsAvailable = intPtr(c.SeatsAvailable) },
	},
	{
		name:    "websafeKey",
		present: func(f *ConferenceForm) bool { return false },
		encode:  func(c *domain.Conference, f *ConferenceForm) { f.WebsafeKey = c.ID },
	},
}

// DecodeConference builds a new conference from a create form. The name is
// required, omitted optional fields take the default table values, month is
// derived from startDate and seatsAvailable starts at maxAttendees.
func DecodeConference(f *ConferenceForm) (*domain.Conference, error) {
	if strings.TrimSpace(f.Name) == "" {
		return nil, domain.InvalidInput("conference 'name' field required")
	}
	c := &domain.Conference{Topics: []string{}}
	for _, field := range conferenceFields {
		if field.decode == nil {
			continue
		}
		src := f
		if !field.present(f) {
			src = &conferenceDefaults
			if !field.present(src) {
				continue
			}
		}
		if err := field.decode(src, c); err != nil {
			return nil, err
		}
	}
	if err := checkDateRange(c); err != nil {
		return nil, err
	}
	return c, nil
}

// ApplyConferenceUpdate copies the fields present in f onto c. Derived and
// server-assigned fields are never taken from the form.
func ApplyConferenceUpdate(f *ConferenceForm, c *domain.Conference) error {
	for _, field := range conferenceFields {
		if field.decode == nil || !field.present(f) {
			continue
		}
		if err := field.decode(f, c); err != nil {
			return err
		}
	}
	return checkDateRange(c)
}

// checkDateRange runs once all fields are applied, so a new startDate is also
// checked against the stored endDate.
func checkDateRange(c *domain.Conference) error {
	if c.StartDate != nil && c.EndDate != nil && c.EndDate.Before(*c.StartDate) {
		return domain.InvalidInput("endDate must not be before startDate")
	}
	return nil
}

// EncodeConference renders c, joining in the organizer's display name.
func EncodeConference(c *domain.Conference, organizerDisplayName string) ConferenceForm {
	var f ConferenceForm
	for _, field := range conferenceFields {
		field.encode(c, &f)
	}
	f.OrganizerDisplayName = organizerDisplayName
	return f
}

// EncodeConferences renders a list of conferences with their organizers.
func EncodeConferences(items []*domain.ConferenceWithOrganizer) []ConferenceForm {
	out := make([]ConferenceForm, 0, len(items))
	for _, it := range items {
		out = append(out, EncodeConference(it.Conference, it.OrganizerDisplayName))
	}
	return out
}
