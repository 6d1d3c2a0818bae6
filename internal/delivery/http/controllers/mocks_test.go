package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"

	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

var ann = domain.Identity{UserID: "u-ann", Email: "ann@example.com", Name: "Ann"}

// newRequest builds a request for method and path, optionally authenticated
// as caller, with path values set as the mux would.
func newRequest(method, path, body string, caller *domain.Identity, pathValues map[string]string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if caller != nil {
		req = req.WithContext(middleware.SetIdentity(req.Context(), *caller))
	}
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	return req
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder, data any) *helpers.APIError {
	t.Helper()
	var env struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	if data != nil && env.Error == nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env.Error
}

type mockConferenceService struct {
	created     *domain.Conference
	caller      domain.Identity
	patchTarget *domain.Conference
	items       []*domain.ConferenceWithOrganizer
	filters     []domain.QueryFilter
	changed     bool
	message     string
	err         error
}

func (m *mockConferenceService) CreateConference(_ context.Context, caller domain.Identity, c *domain.Conference) (*domain.ConferenceWithOrganizer, error) {
	m.caller, m.created = caller, c
	if m.err != nil {
		return nil, m.err
	}
	c.ID = "conf-1"
	c.OrganizerUserID = caller.UserID
	return &domain.ConferenceWithOrganizer{Conference: c, OrganizerDisplayName: caller.Name}, nil
}

func (m *mockConferenceService) UpdateConference(_ context.Context, caller domain.Identity, id string, patch domain.ConferencePatch) (*domain.ConferenceWithOrganizer, error) {
	m.caller = caller
	if m.err != nil {
		return nil, m.err
	}
	if err := patch(m.patchTarget); err != nil {
		return nil, err
	}
	return &domain.ConferenceWithOrganizer{Conference: m.patchTarget, OrganizerDisplayName: caller.Name}, nil
}

func (m *mockConferenceService) GetConference(_ context.Context, id string) (*domain.ConferenceWithOrganizer, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.items[0], nil
}

func (m *mockConferenceService) ListCreated(_ context.Context, caller domain.Identity) ([]*domain.ConferenceWithOrganizer, error) {
	m.caller = caller
	return m.items, m.err
}

func (m *mockConferenceService) QueryConferences(_ context.Context, filters []domain.QueryFilter) ([]*domain.ConferenceWithOrganizer, error) {
	m.filters = filters
	return m.items, m.err
}

func (m *mockConferenceService) ListToAttend(_ context.Context, caller domain.Identity) ([]*domain.ConferenceWithOrganizer, error) {
	m.caller = caller
	return m.items, m.err
}

func (m *mockConferenceService) Register(_ context.Context, caller domain.Identity, id string) (bool, error) {
	m.caller = caller
	return m.changed, m.err
}

func (m *mockConferenceService) Unregister(_ context.Context, caller domain.Identity, id string) (bool, error) {
	m.caller = caller
	return m.changed, m.err
}

func (m *mockConferenceService) GetAnnouncement(context.Context) (string, error) {
	return m.message, m.err
}

func (m *mockConferenceService) RefreshAnnouncement(context.Context) (string, error) {
	return m.message, m.err
}

type mockSessionService struct {
	created  *domain.Session
	speaker  *domain.Speaker
	sessions []*domain.Session
	speakers []*domain.Speaker
	args     []string
	filters  []domain.QueryFilter
	changed  bool
	message  string
	err      error
}

func (m *mockSessionService) CreateSpeaker(_ context.Context, sp *domain.Speaker) error {
	m.speaker = sp
	if m.err != nil {
		return m.err
	}
	sp.ID = "sp-1"
	return nil
}

func (m *mockSessionService) ListSpeakersByConference(_ context.Context, conferenceID string) ([]*domain.Speaker, error) {
	m.args = []string{conferenceID}
	return m.speakers, m.err
}

func (m *mockSessionService) CreateSession(_ context.Context, caller domain.Identity, s *domain.Session) error {
	m.created = s
	if m.err != nil {
		return m.err
	}
	s.ID = "sess-1"
	s.SpeakerName = "Rob"
	return nil
}

func (m *mockSessionService) ListByConference(_ context.Context, conferenceID string) ([]*domain.Session, error) {
	m.args = []string{conferenceID}
	return m.sessions, m.err
}

func (m *mockSessionService) ListByType(_ context.Context, conferenceID, sessionType string) ([]*domain.Session, error) {
	m.args = []string{conferenceID, sessionType}
	return m.sessions, m.err
}

func (m *mockSessionService) ListByLocation(_ context.Context, conferenceID, location string) ([]*domain.Session, error) {
	m.args = []string{conferenceID, location}
	return m.sessions, m.err
}

func (m *mockSessionService) QuerySessions(_ context.Context, filters []domain.QueryFilter) ([]*domain.Session, error) {
	m.filters = filters
	return m.sessions, m.err
}

func (m *mockSessionService) ListBeforeExcludingType(_ context.Context, excludedType, before string) ([]*domain.Session, error) {
	m.args = []string{excludedType, before}
	return m.sessions, m.err
}

func (m *mockSessionService) GetFeaturedSpeaker(context.Context) (string, error) {
	return m.message, m.err
}

func (m *mockSessionService) SetFeaturedSpeaker(context.Context, string, string) error {
	return m.err
}

func (m *mockSessionService) GetWishlist(context.Context, domain.Identity) ([]*domain.Session, error) {
	return m.sessions, m.err
}

func (m *mockSessionService) AddToWishlist(_ context.Context, _ domain.Identity, sessionID string) (bool, error) {
	m.args = []string{sessionID}
	return m.changed, m.err
}

func (m *mockSessionService) RemoveFromWishlist(_ context.Context, _ domain.Identity, sessionID string) (bool, error) {
	m.args = []string{sessionID}
	return m.changed, m.err
}

type mockProfileService struct {
	profile *domain.Profile
	saved   string
	err     error
}

func (m *mockProfileService) GetProfile(context.Context, domain.Identity) (*domain.Profile, error) {
	return m.profile, m.err
}

func (m *mockProfileService) SaveProfile(_ context.Context, _ domain.Identity, displayName string) (*domain.Profile, error) {
	m.saved = displayName
	if m.err != nil {
		return nil, m.err
	}
	p := *m.profile
	if displayName != "" {
		p.DisplayName = displayName
	}
	return &p, nil
}
