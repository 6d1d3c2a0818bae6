package memory

import (
	"context"
	"iter"
	"slices"
	"strings"

	"conferencecentral/internal/domain"
)

var conferenceFields = map[string]fieldFunc[*domain.Conference]{
	"name":            func(c *domain.Conference) []any { return one(c.Name) },
	"city":            func(c *domain.Conference) []any { return one(c.City) },
	"topics":          func(c *domain.Conference) []any { return stringValues(c.Topics) },
	"month":           func(c *domain.Conference) []any { return one(c.Month) },
	"max_attendees":   func(c *domain.Conference) []any { return one(c.MaxAttendees) },
	"seats_available": func(c *domain.Conference) []any { return one(c.SeatsAvailable) },
}

type conferenceRepository struct{ s *Store }

func (r conferenceRepository) Create(_ context.Context, c *domain.Conference) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.profiles[c.OrganizerUserID]; !ok {
		return domain.ErrNotFound
	}
	c.ID = r.s.newID()
	r.s.conferences[c.ID] = c.Clone()
	return nil
}

func (r conferenceRepository) GetByID(_ context.Context, id string) (*domain.Conference, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.conferences[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return rec.Clone(), nil
}

func (r conferenceRepository) ListByIDs(_ context.Context, ids []string) ([]*domain.Conference, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return byIDs(ids, func(id string) (*domain.Conference, bool) {
		rec, ok := r.s.conferences[id]
		if !ok {
			return nil, false
		}
		return rec.Clone(), true
	}), nil
}

func (r conferenceRepository) ListByOrganizer(_ context.Context, organizerUserID string) ([]*domain.Conference, error) {
	out := make([]*domain.Conference, 0)
	for c := range r.snapshot() {
		if c.OrganizerUserID == organizerUserID {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b *domain.Conference) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (r conferenceRepository) Query(_ context.Context, plan *domain.QueryPlan) iter.Seq2[*domain.Conference, error] {
	return func(yield func(*domain.Conference, error) bool) {
		items, err := evaluate(slices.Collect(r.snapshot()), conferenceFields, plan)
		if err != nil {
			yield(nil, err)
			return
		}
		for _, c := range items {
			if !yield(c, nil) {
				return
			}
		}
	}
}

// snapshot yields clones of every stored conference.
func (r conferenceRepository) snapshot() iter.Seq[*domain.Conference] {
	r.s.mu.RLock()
	items := make([]*domain.Conference, 0, len(r.s.conferences))
	for _, rec := range r.s.conferences {
		items = append(items, rec.Clone())
	}
	r.s.mu.RUnlock()
	slices.SortFunc(items, func(a, b *domain.Conference) int { return strings.Compare(a.ID, b.ID) })
	return slices.Values(items)
}

func (r conferenceRepository) Update(_ context.Context, id string, fn domain.ConferencePatch) (*domain.Conference, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.conferences[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := rec.Clone()
	if err := fn(c); err != nil {
		return nil, err
	}
	c.UpdatedAt = r.s.nowFn()
	r.s.conferences[id] = c.Clone()
	return c, nil
}
