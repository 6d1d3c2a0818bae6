package domain

import (
	"context"
	"iter"
	"slices"
	"time"
)

// Conference is an event with a capacity and a date range, owned by the
// organizer's profile.
// swagger:model Conference
type Conference struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	OrganizerUserID string     `json:"organizer_user_id"`
	Topics          []string   `json:"topics"`
	City            string     `json:"city"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	Month           int        `json:"month"`
	MaxAttendees    int        `json:"max_attendees"`
	SeatsAvailable  int        `json:"seats_available"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Clone returns a deep copy of c.
func (c *Conference) Clone() *Conference {
	cp := *c
	cp.Topics = slices.Clone(c.Topics)
	if c.StartDate != nil {
		d := *c.StartDate
		cp.StartDate = &d
	}
	if c.EndDate != nil {
		d := *c.EndDate
		cp.EndDate = &d
	}
	return &cp
}

// SetStartDate sets the start date and recomputes Month (0 when unset).
func (c *Conference) SetStartDate(d *time.Time) {
	c.StartDate = d
	if d == nil {
		c.Month = 0
		return
	}
	c.Month = int(d.Month())
}

// Registrations returns the number of seats currently taken.
func (c *Conference) Registrations() int {
	return c.MaxAttendees - c.SeatsAvailable
}

// SetMaxAttendees changes the capacity while keeping existing registrations:
// seats available move by the same delta. It fails with ErrInvalidInput when
// the new capacity is negative or below the number of registrations.
func (c *Conference) SetMaxAttendees(n int) error {
	if n < 0 {
		return InvalidInput("maxAttendees must not be negative")
	}
	taken := c.Registrations()
	if n < taken {
		return InvalidInput("maxAttendees %d is below the %d registrations already made", n, taken)
	}
	c.MaxAttendees = n
	c.SeatsAvailable = n - taken
	return nil
}

// ConferenceWithOrganizer bundles a conference with its organizer's display name.
type ConferenceWithOrganizer struct {
	Conference           *Conference `json:"conference"`
	OrganizerDisplayName string      `json:"organizer_display_name"`
}

// ConferencePatch applies caller-supplied changes to a stored conference.
type ConferencePatch func(c *Conference) error

// ConferenceRepository defines the interface for conference storage.
type ConferenceRepository interface {
	Create(ctx context.Context, c *Conference) error
	GetByID(ctx context.Context, id string) (*Conference, error)
	// ListByIDs returns existing conferences in the order of ids; unknown ids are skipped.
	ListByIDs(ctx context.Context, ids []string) ([]*Conference, error)
	ListByOrganizer(ctx context.Context, organizerUserID string) ([]*Conference, error)
	// Query runs a translated query plan. The sequence is single-pass.
	Query(ctx context.Context, plan *QueryPlan) iter.Seq2[*Conference, error]
	// Update applies fn to the locked conference and persists the result.
	Update(ctx context.Context, id string, fn ConferencePatch) (*Conference, error)
}

// ConferenceService defines the business logic for conferences and registration.
type ConferenceService interface {
	CreateConference(ctx context.Context, caller Identity, c *Conference) (*ConferenceWithOrganizer, error)
	UpdateConference(ctx context.Context, caller Identity, conferenceID string, patch ConferencePatch) (*ConferenceWithOrganizer, error)
	GetConference(ctx context.Context, conferenceID string) (*ConferenceWithOrganizer, error)
	ListCreated(ctx context.Context, caller Identity) ([]*ConferenceWithOrganizer, error)
	QueryConferences(ctx context.Context, filters []QueryFilter) ([]*ConferenceWithOrganizer, error)
	ListToAttend(ctx context.Context, caller Identity) ([]*ConferenceWithOrganizer, error)
	// Register reports true on success; conflicts are returned as ErrConflict.
	Register(ctx context.Context, caller Identity, conferenceID string) (bool, error)
	// Unregister reports false without error when the caller was not registered.
	Unregister(ctx context.Context, caller Identity, conferenceID string) (bool, error)
	// GetAnnouncement returns the cached announcement or "".
	GetAnnouncement(ctx context.Context) (string, error)
	// RefreshAnnouncement recomputes the nearly-sold-out announcement and caches it.
	RefreshAnnouncement(ctx context.Context) (string, error)
}
