package domain

import (
	"context"
	"slices"
	"time"
)

// Profile is the per-identity user record. It is created lazily the first time
// an identity touches the API and is never deleted.
// swagger:model Profile
type Profile struct {
	ID                     string    `json:"id"`
	DisplayName            string    `json:"display_name"`
	MainEmail              string    `json:"main_email"`
	ConferenceKeysToAttend []string  `json:"conference_keys_to_attend"`
	SessionKeysWishlist    []string  `json:"session_keys_wishlist"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// NewProfile returns an empty profile for the given identity.
func NewProfile(id, displayName, mainEmail string, now time.Time) *Profile {
	return &Profile{
		ID:                     id,
		DisplayName:            displayName,
		MainEmail:              mainEmail,
		ConferenceKeysToAttend: []string{},
		SessionKeysWishlist:    []string{},
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

// Clone returns a deep copy of p.
func (p *Profile) Clone() *Profile {
	cp := *p
	cp.ConferenceKeysToAttend = slices.Clone(p.ConferenceKeysToAttend)
	cp.SessionKeysWishlist = slices.Clone(p.SessionKeysWishlist)
	return &cp
}

// IsAttending reports whether the profile is registered for the conference.
func (p *Profile) IsAttending(conferenceID string) bool {
	return slices.Contains(p.ConferenceKeysToAttend, conferenceID)
}

// Register moves the (p, c) pair from not-registered to registered: the
// conference id is appended to the attendance list and one seat is taken.
// Both records must then be persisted in the same transaction.
func (p *Profile) Register(c *Conference) error {
	if p.IsAttending(c.ID) {
		return ErrAlreadyRegistered
	}
	if c.SeatsAvailable <= 0 {
		return ErrNoSeatsAvailable
	}
	p.ConferenceKeysToAttend = append(p.ConferenceKeysToAttend, c.ID)
	c.SeatsAvailable--
	return nil
}

// Unregister moves the pair back to not-registered and returns the seat.
// It reports false, leaving both records untouched, when p was not registered.
func (p *Profile) Unregister(c *Conference) bool {
	i := slices.Index(p.ConferenceKeysToAttend, c.ID)
	if i < 0 {
		return false
	}
	p.ConferenceKeysToAttend = slices.Delete(p.ConferenceKeysToAttend, i, i+1)
	c.SeatsAvailable++
	return true
}

// AddToWishlist appends the session id unless it is already present.
// It reports whether the wishlist changed.
func (p *Profile) AddToWishlist(sessionID string) bool {
	if slices.Contains(p.SessionKeysWishlist, sessionID) {
		return false
	}
	p.SessionKeysWishlist = append(p.SessionKeysWishlist, sessionID)
	return true
}

// RemoveFromWishlist removes the session id and reports whether it was present.
func (p *Profile) RemoveFromWishlist(sessionID string) bool {
	i := slices.Index(p.SessionKeysWishlist, sessionID)
	if i < 0 {
		return false
	}
	p.SessionKeysWishlist = slices.Delete(p.SessionKeysWishlist, i, i+1)
	return true
}

// ProfileMutation changes a profile inside a row-locked transaction. It reports
// whether the profile changed; unchanged profiles are not written back.
type ProfileMutation func(p *Profile) (bool, error)

// ProfileRepository defines the interface for profile storage.
type ProfileRepository interface {
	// Create inserts the profile unless one with the same ID already exists.
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
	// ListByIDs returns the profiles that exist among ids, in no particular order.
	ListByIDs(ctx context.Context, ids []string) ([]*Profile, error)
	// Update applies fn to the stored profile and persists it atomically.
	Update(ctx context.Context, id string, fn ProfileMutation) (*Profile, error)
}

// ProfileService defines profile retrieval and editing for the calling identity.
type ProfileService interface {
	// GetProfile returns the caller's profile, creating it on first access.
	GetProfile(ctx context.Context, caller Identity) (*Profile, error)
	// SaveProfile updates the caller's display name; an empty name leaves it unchanged.
	SaveProfile(ctx context.Context, caller Identity, displayName string) (*Profile, error)
}
