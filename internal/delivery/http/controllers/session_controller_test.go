package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
	"conferencecentral/internal/forms"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionController_CreateSession(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "created",
			body:       `{"conference_key":"c1","title":"Generics","session_type":"talk","speaker_id":"sp-1","start_time":"14:30","duration":45,"location":"Room A"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "bad start time",
			body:       `{"conference_key":"c1","title":"Generics","speaker_id":"sp-1","start_time":"2pm"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "not the organizer",
			body:       `{"conference_key":"c1","title":"Generics","speaker_id":"sp-1","start_time":"14:30"}`,
			svcErr:     fmt.Errorf("%w: only the conference organizer can add sessions", domain.ErrUnauthorized),
			wantStatus: http.StatusUnauthorized,
			wantCode:   helpers.ErrCodeUnauthorized,
		},
		{
			name:       "missing speaker",
			body:       `{"conference_key":"c1","title":"Generics","speaker_id":"sp-9","start_time":"14:30"}`,
			svcErr:     fmt.Errorf("get speaker: %w", domain.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantCode:   helpers.ErrCodeNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockSessionService{err: tt.svcErr}
			ctrl := NewSessionController(testLogger, svc)
			w := httptest.NewRecorder()

			ctrl.CreateSession(w, newRequest(http.MethodPost, "/sessions", tt.body, &ann, nil))

			require.Equal(t, tt.wantStatus, w.Code)
			var got forms.SessionForm
			apiErr := decodeResponse(t, w, &got)
			if tt.wantCode != "" {
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantCode, apiErr.Code)
				return
			}
			assert.Equal(t, "sess-1", got.WebsafeKey)
			assert.Equal(t, "14:30", got.StartTime)
			assert.Equal(t, "Rob", got.SpeakerName)
			assert.Equal(t, domain.TimeOfDay(14*60+30), svc.created.StartTime)
		})
	}
}

func TestSessionController_Listings(t *testing.T) {
	svc := &mockSessionService{sessions: []*domain.Session{{ID: "s1", Title: "Generics", StartTime: 600}}}
	ctrl := NewSessionController(testLogger, svc)

	tests := []struct {
		name     string
		handler  http.HandlerFunc
		req      *http.Request
		wantArgs []string
	}{
		{
			name:     "by conference",
			handler:  ctrl.ListByConference,
			req:      newRequest(http.MethodGet, "/conferences/c1/sessions", "", &ann, map[string]string{"conferenceKey": "c1"}),
			wantArgs: []string{"c1"},
		},
		{
			name:     "by type",
			handler:  ctrl.ListByType,
			req:      newRequest(http.MethodGet, "/conferences/c1/sessions/type/talk", "", &ann, map[string]string{"conferenceKey": "c1", "sessionType": "talk"}),
			wantArgs: []string{"c1", "talk"},
		},
		{
			name:     "by location",
			handler:  ctrl.ListByLocation,
			req:      newRequest(http.MethodGet, "/sessions/location?location=Room+A&conference_key=c1", "", &ann, nil),
			wantArgs: []string{"c1", "Room A"},
		},
		{
			name:     "early sessions with defaults",
			handler:  ctrl.ListEarlySessions,
			req:      newRequest(http.MethodGet, "/sessions/early", "", &ann, nil),
			wantArgs: []string{"Workshop", "19:00"},
		},
		{
			name:     "early sessions with overrides",
			handler:  ctrl.ListEarlySessions,
			req:      newRequest(http.MethodGet, "/sessions/early?exclude_type=keynote&before=12:30", "", &ann, nil),
			wantArgs: []string{"keynote", "12:30"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.handler(w, tt.req)
			require.Equal(t, http.StatusOK, w.Code)
			var got []forms.SessionForm
			require.Nil(t, decodeResponse(t, w, &got))
			require.Len(t, got, 1)
			assert.Equal(t, "10:00", got[0].StartTime)
			assert.Equal(t, tt.wantArgs, svc.args)
		})
	}

	w := httptest.NewRecorder()
	ctrl.QuerySessions(w, newRequest(http.MethodPost, "/sessions/query", `{"filters":[{"field":"START_TIME","operator":"LT","value":"19:00"}]}`, &ann, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []domain.QueryFilter{{Field: "START_TIME", Operator: "LT", Value: "19:00"}}, svc.filters)

	svc.err = domain.ErrNotFound
	w = httptest.NewRecorder()
	ctrl.ListByConference(w, newRequest(http.MethodGet, "/conferences/nope/sessions", "", &ann, map[string]string{"conferenceKey": "nope"}))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionController_Speakers(t *testing.T) {
	svc := &mockSessionService{
		speakers: []*domain.Speaker{{ID: "sp-1", Name: "Rob"}},
		message:  "Featured speaker: Rob. Sessions: Concurrency, Generics",
	}
	ctrl := NewSessionController(testLogger, svc)

	w := httptest.NewRecorder()
	ctrl.CreateSpeaker(w, newRequest(http.MethodPost, "/speakers", `{"name":" Rob "}`, &ann, nil))
	require.Equal(t, http.StatusCreated, w.Code)
	var sp forms.SpeakerForm
	require.Nil(t, decodeResponse(t, w, &sp))
	assert.Equal(t, forms.SpeakerForm{Name: "Rob", WebsafeKey: "sp-1"}, sp)

	w = httptest.NewRecorder()
	ctrl.CreateSpeaker(w, newRequest(http.MethodPost, "/speakers", `{"name":""}`, &ann, nil))
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	ctrl.ListSpeakers(w, newRequest(http.MethodGet, "/conferences/c1/speakers", "", &ann, map[string]string{"conferenceKey": "c1"}))
	var speakers []forms.SpeakerForm
	require.Nil(t, decodeResponse(t, w, &speakers))
	assert.Equal(t, []forms.SpeakerForm{{Name: "Rob", WebsafeKey: "sp-1"}}, speakers)

	w = httptest.NewRecorder()
	ctrl.GetFeaturedSpeaker(w, newRequest(http.MethodGet, "/speakers/featured", "", &ann, nil))
	var msg string
	require.Nil(t, decodeResponse(t, w, &msg))
	assert.Equal(t, svc.message, msg)
}

func TestSessionController_Wishlist(t *testing.T) {
	svc := &mockSessionService{changed: true}
	ctrl := NewSessionController(testLogger, svc)

	w := httptest.NewRecorder()
	ctrl.AddToWishlist(w, newRequest(http.MethodPost, "/wishlist/s1", "", &ann, map[string]string{"sessionKey": "s1"}))
	require.Equal(t, http.StatusOK, w.Code)
	var ok bool
	require.Nil(t, decodeResponse(t, w, &ok))
	assert.True(t, ok)
	assert.Equal(t, []string{"s1"}, svc.args)

	svc.changed = false
	w = httptest.NewRecorder()
	ctrl.RemoveFromWishlist(w, newRequest(http.MethodDelete, "/wishlist/s1", "", &ann, map[string]string{"sessionKey": "s1"}))
	require.Equal(t, http.StatusOK, w.Code)
	require.Nil(t, decodeResponse(t, w, &ok))
	assert.False(t, ok)

	w = httptest.NewRecorder()
	ctrl.GetWishlist(w, newRequest(http.MethodGet, "/wishlist", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	svc.err = fmt.Errorf("get session: %w", domain.ErrNotFound)
	w = httptest.NewRecorder()
	ctrl.AddToWishlist(w, newRequest(http.MethodPost, "/wishlist/nope", "", &ann, map[string]string{"sessionKey": "nope"}))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
