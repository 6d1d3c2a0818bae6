// Package memory provides an in-process transactional store with the same
// semantics as the Postgres repositories. Records are cloned on the way in and
// out, and every read-modify-write holds the store lock from read to write.
package memory

import (
	"sync"
	"time"

	"conferencecentral/internal/domain"

	"github.com/google/uuid"
)

// Store holds every collection behind one mutex.
type Store struct {
	mu          sync.RWMutex
	profiles    map[string]*domain.Profile
	conferences map[string]*domain.Conference
	sessions    map[string]*domain.Session
	speakers    map[string]*domain.Speaker
	nowFn       func() time.Time
	newID       func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.nowFn = now }
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		profiles:    map[string]*domain.Profile{},
		conferences: map[string]*domain.Conference{},
		sessions:    map[string]*domain.Session{},
		speakers:    map[string]*domain.Speaker{},
		nowFn:       func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Profiles returns the profile repository backed by s.
func (s *Store) Profiles() domain.ProfileRepository { return profileRepository{s} }

// Conferences returns the conference repository backed by s.
func (s *Store) Conferences() domain.ConferenceRepository { return conferenceRepository{s} }

// Sessions returns the session repository backed by s.
func (s *Store) Sessions() domain.SessionRepository { return sessionRepository{s} }

// Speakers returns the speaker repository backed by s.
func (s *Store) Speakers() domain.SpeakerRepository { return speakerRepository{s} }

// Registrations returns the registration repository backed by s.
func (s *Store) Registrations() domain.RegistrationRepository { return registrationRepository{s} }

func cloneSession(v *domain.Session) *domain.Session {
	cp := *v
	return &cp
}

func cloneSpeaker(v *domain.Speaker) *domain.Speaker {
	cp := *v
	return &cp
}

// byIDs looks up ids in order, skipping unknown ones.
func byIDs[T any](ids []string, get func(id string) (T, bool)) []T {
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if v, ok := get(id); ok {
			out = append(out, v)
		}
	}
	return out
}
