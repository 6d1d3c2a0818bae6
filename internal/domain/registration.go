package domain

import "context"

// RegistrationMutation runs against a profile and a conference locked in the
// same transaction. It reports whether either record changed; nothing is
// written when it returns false or an error.
type RegistrationMutation func(p *Profile, c *Conference) (bool, error)

// RegistrationRepository performs the cross-record read-modify-write behind
// conference registration.
type RegistrationRepository interface {
	// Apply loads the profile and the conference, calls fn, and persists both
	// records atomically. It returns ErrNotFound if either record is missing and
	// ErrTxConflict if the commit lost a race with a concurrent transaction.
	Apply(ctx context.Context, profileID, conferenceID string, fn RegistrationMutation) error
}
