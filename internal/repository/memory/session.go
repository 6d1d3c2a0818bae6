package memory

import (
	"context"
	"iter"
	"slices"
	"strings"

	"conferencecentral/internal/domain"
)

var sessionFields = map[string]fieldFunc[*domain.Session]{
	"title":         func(s *domain.Session) []any { return one(s.Title) },
	"session_type":  func(s *domain.Session) []any { return one(s.SessionType) },
	"speaker_name":  func(s *domain.Session) []any { return one(s.SpeakerName) },
	"speaker_id":    func(s *domain.Session) []any { return one(s.SpeakerID) },
	"highlights":    func(s *domain.Session) []any { return one(s.Highlights) },
	"location":      func(s *domain.Session) []any { return one(s.Location) },
	"conference_id": func(s *domain.Session) []any { return one(s.ConferenceID) },
	"duration":      func(s *domain.Session) []any { return one(s.Duration) },
	"start_time":    func(s *domain.Session) []any { return one(s.StartTime) },
}

type sessionRepository struct{ s *Store }

func (r sessionRepository) Create(_ context.Context, sess *domain.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.conferences[sess.ConferenceID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := r.s.speakers[sess.SpeakerID]; !ok {
		return domain.ErrNotFound
	}
	sess.ID = r.s.newID()
	r.s.sessions[sess.ID] = cloneSession(sess)
	return nil
}

func (r sessionRepository) GetByID(_ context.Context, id string) (*domain.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sess, ok := r.s.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneSession(sess), nil
}

func (r sessionRepository) ListByIDs(_ context.Context, ids []string) ([]*domain.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return byIDs(ids, func(id string) (*domain.Session, bool) {
		sess, ok := r.s.sessions[id]
		if !ok {
			return nil, false
		}
		return cloneSession(sess), true
	}), nil
}

func (r sessionRepository) Query(_ context.Context, plan *domain.QueryPlan) iter.Seq2[*domain.Session, error] {
	return func(yield func(*domain.Session, error) bool) {
		r.s.mu.RLock()
		all := make([]*domain.Session, 0, len(r.s.sessions))
		for _, sess := range r.s.sessions {
			all = append(all, cloneSession(sess))
		}
		r.s.mu.RUnlock()
		slices.SortFunc(all, func(a, b *domain.Session) int { return strings.Compare(a.ID, b.ID) })

		items, err := evaluate(all, sessionFields, plan)
		if err != nil {
			yield(nil, err)
			return
		}
		for _, sess := range items {
			if !yield(sess, nil) {
				return
			}
		}
	}
}

type speakerRepository struct{ s *Store }

func (r speakerRepository) Create(_ context.Context, sp *domain.Speaker) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sp.ID = r.s.newID()
	r.s.speakers[sp.ID] = cloneSpeaker(sp)
	return nil
}

func (r speakerRepository) GetByID(_ context.Context, id string) (*domain.Speaker, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sp, ok := r.s.speakers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneSpeaker(sp), nil
}

func (r speakerRepository) ListByIDs(_ context.Context, ids []string) ([]*domain.Speaker, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return byIDs(ids, func(id string) (*domain.Speaker, bool) {
		sp, ok := r.s.speakers[id]
		if !ok {
			return nil, false
		}
		return cloneSpeaker(sp), true
	}), nil
}
