package memory

import (
	"context"

	"conferencecentral/internal/domain"
)

type profileRepository struct{ s *Store }

func (r profileRepository) Create(_ context.Context, p *domain.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.profiles[p.ID]; ok {
		return nil
	}
	r.s.profiles[p.ID] = p.Clone()
	return nil
}

func (r profileRepository) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.profiles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return rec.Clone(), nil
}

func (r profileRepository) ListByIDs(_ context.Context, ids []string) ([]*domain.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return byIDs(ids, func(id string) (*domain.Profile, bool) {
		rec, ok := r.s.profiles[id]
		if !ok {
			return nil, false
		}
		return rec.Clone(), true
	}), nil
}

func (r profileRepository) Update(_ context.Context, id string, fn domain.ProfileMutation) (*domain.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.profiles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p := rec.Clone()
	changed, err := fn(p)
	if err != nil {
		return nil, err
	}
	if changed {
		p.UpdatedAt = r.s.nowFn()
		r.s.profiles[id] = p.Clone()
	}
	return p, nil
}
