package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/repository/memory"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

var (
	ann = domain.Identity{UserID: "u-ann", Email: "ann@example.com", Name: "Ann"}
	bob = domain.Identity{UserID: "u-bob", Email: "bob@example.com", Name: "Bob"}
)

type mockCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newMockCache() *mockCache { return &mockCache{values: map[string]string{}} }

func (m *mockCache) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *mockCache) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

func (m *mockCache) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}

type mockDispatcher struct {
	mu    sync.Mutex
	tasks []domain.Task
	err   error
}

func (m *mockDispatcher) Dispatch(ctx context.Context, t domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.tasks = append(m.tasks, t)
	return nil
}

func (m *mockDispatcher) named(name string) []domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Task
	for _, t := range m.tasks {
		if t.Name == name {
			out = append(out, t)
		}
	}
	return out
}

// mockRegistrationRepository fails the first conflicts calls with ErrTxConflict
// and delegates afterwards.
type mockRegistrationRepository struct {
	next      domain.RegistrationRepository
	conflicts int
	calls     int
}

func (m *mockRegistrationRepository) Apply(ctx context.Context, profileID, conferenceID string, fn domain.RegistrationMutation) error {
	m.calls++
	if m.calls <= m.conflicts {
		return domain.ErrTxConflict
	}
	return m.next.Apply(ctx, profileID, conferenceID, fn)
}

func testOptions() Options {
	return Options{
		TxMaxAttempts: 3,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:           func() time.Time { return testNow },
	}
}

type fixture struct {
	store       *memory.Store
	cache       *mockCache
	tasks       *mockDispatcher
	conferences domain.ConferenceService
	sessions    domain.SessionService
	profiles    domain.ProfileService
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	f := &fixture{
		store: memory.New(memory.WithClock(func() time.Time { return testNow })),
		cache: newMockCache(),
		tasks: &mockDispatcher{},
	}
	f.conferences = NewConferenceService(f.store.Conferences(), f.store.Profiles(), f.store.Registrations(), f.cache, f.tasks, opts)
	f.sessions = NewSessionService(f.store.Sessions(), f.store.Speakers(), f.store.Conferences(), f.store.Profiles(), f.cache, f.tasks, opts)
	f.profiles = NewProfileService(f.store.Profiles(), opts)
	return f
}

func (f *fixture) conference(t *testing.T, owner domain.Identity, name string, seats int) *domain.Conference {
	t.Helper()
	c := &domain.Conference{Name: name, Topics: []string{}}
	require.NoError(t, c.SetMaxAttendees(seats))
	out, err := f.conferences.CreateConference(context.Background(), owner, c)
	require.NoError(t, err)
	return out.Conference
}

func (f *fixture) seats(t *testing.T, id string) int {
	t.Helper()
	c, err := f.store.Conferences().GetByID(context.Background(), id)
	require.NoError(t, err)
	return c.SeatsAvailable
}
