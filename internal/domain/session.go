package domain

import (
	"context"
	"fmt"
	"iter"
	"time"
)

// TimeOfDay is a wall-clock time expressed in minutes past midnight.
type TimeOfDay int

// timeOfDayLayout is the 24-hour HH:MM layout used on the wire.
const timeOfDayLayout = "15:04"

// ParseTimeOfDay parses an HH:MM 24-hour string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(timeOfDayLayout, s)
	if err != nil {
		return 0, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

// String renders the time as HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Session is a scheduled talk within a conference.
// swagger:model Session
type Session struct {
	ID              string    `json:"id"`
	ConferenceID    string    `json:"conference_id"`
	Title           string    `json:"title"`
	SessionType     string    `json:"session_type"`
	Highlights      string    `json:"highlights"`
	OrganizerUserID string    `json:"organizer_user_id"`
	SpeakerID       string    `json:"speaker_id"`
	// SpeakerName is copied from the speaker when the session is created and not kept in sync.
	SpeakerName string    `json:"speaker_name"`
	StartTime   TimeOfDay `json:"start_time"`
	Duration    int       `json:"duration"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
}

// SessionRepository defines the interface for session storage.
type SessionRepository interface {
	Create(ctx context.Context, s *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	// ListByIDs returns existing sessions in the order of ids; unknown ids are skipped.
	ListByIDs(ctx context.Context, ids []string) ([]*Session, error)
	// Query runs a translated query plan. The sequence is single-pass.
	Query(ctx context.Context, plan *QueryPlan) iter.Seq2[*Session, error]
}

// SessionService defines the business logic for speakers, sessions and wishlists.
type SessionService interface {
	CreateSpeaker(ctx context.Context, sp *Speaker) error
	ListSpeakersByConference(ctx context.Context, conferenceID string) ([]*Speaker, error)
	// CreateSession fails with ErrUnauthorized unless the caller organizes the conference.
	CreateSession(ctx context.Context, caller Identity, s *Session) error
	ListByConference(ctx context.Context, conferenceID string) ([]*Session, error)
	ListByType(ctx context.Context, conferenceID, sessionType string) ([]*Session, error)
	// ListByLocation filters on location, scoped to a conference when conferenceID is not empty.
	ListByLocation(ctx context.Context, conferenceID, location string) ([]*Session, error)
	QuerySessions(ctx context.Context, filters []QueryFilter) ([]*Session, error)
	// ListBeforeExcludingType returns sessions starting before the given HH:MM
	// time whose type is not excludedType. It needs inequalities on two fields,
	// so it intersects two single-inequality queries.
	ListBeforeExcludingType(ctx context.Context, excludedType, before string) ([]*Session, error)
	GetFeaturedSpeaker(ctx context.Context) (string, error)
	// SetFeaturedSpeaker caches the featured-speaker message when the speaker has
	// enough sessions in the conference.
	SetFeaturedSpeaker(ctx context.Context, speakerID, conferenceID string) error
	GetWishlist(ctx context.Context, caller Identity) ([]*Session, error)
	AddToWishlist(ctx context.Context, caller Identity, sessionID string) (bool, error)
	RemoveFromWishlist(ctx context.Context, caller Identity, sessionID string) (bool, error)
}
