package memory

import (
	"context"

	"conferencecentral/internal/domain"
)

type registrationRepository struct{ s *Store }

// Apply holds the store lock from reading both records to writing them back,
// so concurrent registrations run one after another and never lose a commit.
func (r registrationRepository) Apply(ctx context.Context, profileID, conferenceID string, fn domain.RegistrationMutation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prec, pok := r.s.profiles[profileID]
	crec, cok := r.s.conferences[conferenceID]
	if !pok || !cok {
		return domain.ErrNotFound
	}

	p, c := prec.Clone(), crec.Clone()
	changed, err := fn(p, c)
	if err != nil || !changed {
		return err
	}
	now := r.s.nowFn()
	p.UpdatedAt, c.UpdatedAt = now, now
	r.s.profiles[profileID] = p.Clone()
	r.s.conferences[conferenceID] = c.Clone()
	return nil
}
