package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conferencecentral/internal/adapters/auth"
	"conferencecentral/internal/adapters/cache"
	"conferencecentral/internal/delivery/http/controllers"
	"conferencecentral/internal/domain"
	"conferencecentral/internal/metrics"
	"conferencecentral/internal/repository/memory"
	"conferencecentral/internal/services"
)

const testSecret = "router-test-secret"

// discardTasks accepts every task without running it.
type discardTasks struct{}

func (discardTasks) Dispatch(context.Context, domain.Task) error { return nil }

type apiClient struct {
	t       *testing.T
	server  *httptest.Server
	issuer  domain.TokenIssuer
	callers map[string]string
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	store := memory.New()
	opts := services.Options{Metrics: metrics.New(reg), Logger: logger, Timeout: 5 * time.Second}
	c := cache.New()

	conferences := services.NewConferenceService(store.Conferences(), store.Profiles(), store.Registrations(), c, discardTasks{}, opts)
	sessions := services.NewSessionService(store.Sessions(), store.Speakers(), store.Conferences(), store.Profiles(), c, discardTasks{}, opts)
	profiles := services.NewProfileService(store.Profiles(), opts)

	handler := NewRouter(RouterDeps{
		Logger:      logger,
		Verifier:    auth.NewJWTVerifier(testSecret),
		Conferences: controllers.NewConferenceController(logger, conferences),
		Profiles:    controllers.NewProfileController(logger, profiles),
		Sessions:    controllers.NewSessionController(logger, sessions),
		Metrics:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &apiClient{t: t, server: server, issuer: auth.NewJWTIssuer(testSecret), callers: map[string]string{}}
}

func (a *apiClient) token(userID string) string {
	a.t.Helper()
	if tok, ok := a.callers[userID]; ok {
		return tok
	}
	tok, err := a.issuer.Issue(domain.Identity{UserID: userID, Email: userID + "@example.com", Name: strings.ToUpper(userID)}, time.Hour)
	require.NoError(a.t, err)
	a.callers[userID] = tok
	return tok
}

// do sends the request as userID (anonymous when empty) and decodes data into out.
func (a *apiClient) do(userID, method, path, body string, out any) (int, string) {
	a.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, a.server.URL+path, r)
	require.NoError(a.t, err)
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+a.token(userID))
	}
	resp, err := a.server.Client().Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	var env struct {
		Data  json.RawMessage `json:"data"`
		Error *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(a.t, json.NewDecoder(resp.Body).Decode(&env))
	if env.Error != nil {
		return resp.StatusCode, env.Error.Code
	}
	if out != nil {
		require.NoError(a.t, json.Unmarshal(env.Data, out))
	}
	return resp.StatusCode, ""
}

func TestRouter_ConferenceFlow(t *testing.T) {
	api := newAPI(t)

	status, code := api.do("", http.MethodGet, "/profile", "", nil)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "unauthorized", code)

	var conf struct {
		WebsafeKey     string `json:"websafeKey"`
		SeatsAvailable int    `json:"seatsAvailable"`
		Organizer      string `json:"organizerDisplayName"`
	}
	status, _ = api.do("ann", http.MethodPost, "/conferences", `{"name":"GopherCon","city":"Berlin","maxAttendees":2}`, &conf)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, conf.WebsafeKey)
	assert.Equal(t, "ANN", conf.Organizer)
	key := conf.WebsafeKey

	var announcement string
	api.do("bob", http.MethodGet, "/conferences/announcement", "", &announcement)
	assert.Equal(t, "Last chance to attend! The following conferences are nearly sold out: GopherCon", announcement)

	var ok bool
	status, _ = api.do("bob", http.MethodPost, "/conferences/"+key+"/registration", "", &ok)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, ok)

	status, code = api.do("bob", http.MethodPost, "/conferences/"+key+"/registration", "", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "conflict", code)

	api.do("carol", http.MethodPost, "/conferences/"+key+"/registration", "", &ok)
	status, code = api.do("dave", http.MethodPost, "/conferences/"+key+"/registration", "", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "conflict", code)

	api.do("bob", http.MethodGet, "/conferences/"+key, "", &conf)
	assert.Equal(t, 0, conf.SeatsAvailable)

	var attending []struct {
		Name string `json:"name"`
	}
	api.do("bob", http.MethodGet, "/conferences/attending", "", &attending)
	require.Len(t, attending, 1)
	assert.Equal(t, "GopherCon", attending[0].Name)

	status, code = api.do("bob", http.MethodPut, "/conferences/"+key, `{"city":"Paris"}`, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "forbidden", code)

	status, _ = api.do("ann", http.MethodPut, "/conferences/"+key, `{"maxAttendees":10}`, &conf)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 8, conf.SeatsAvailable)

	var found []struct {
		Name string `json:"name"`
	}
	status, _ = api.do("bob", http.MethodPost, "/conferences/query", `{"filters":[{"field":"CITY","operator":"EQ","value":"Berlin"}]}`, &found)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, found, 1)

	status, code = api.do("bob", http.MethodPost, "/conferences/query", `{"filters":[{"field":"CITY","operator":"GT","value":"A"},{"field":"MONTH","operator":"LT","value":"3"}]}`, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_filter", code)

	api.do("bob", http.MethodDelete, "/conferences/"+key+"/registration", "", &ok)
	assert.True(t, ok)
	api.do("bob", http.MethodDelete, "/conferences/"+key+"/registration", "", &ok)
	assert.False(t, ok)

	status, code = api.do("bob", http.MethodGet, "/conferences/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", code)
}

func TestRouter_SessionFlow(t *testing.T) {
	api := newAPI(t)

	var conf struct {
		WebsafeKey string `json:"websafeKey"`
	}
	api.do("ann", http.MethodPost, "/conferences", `{"name":"GopherCon","maxAttendees":100}`, &conf)

	var speaker struct {
		WebsafeKey string `json:"websafeKey"`
	}
	status, _ := api.do("ann", http.MethodPost, "/speakers", `{"name":"Rob"}`, &speaker)
	require.Equal(t, http.StatusCreated, status)

	body := func(title, start string) string {
		return `{"conference_key":"` + conf.WebsafeKey + `","title":"` + title + `","session_type":"talk","speaker_id":"` + speaker.WebsafeKey + `","start_time":"` + start + `","duration":30,"location":"Room A"}`
	}
	status, code := api.do("bob", http.MethodPost, "/sessions", body("Sneaky", "10:00"), nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unauthorized", code)

	var sess struct {
		WebsafeKey  string `json:"websafeKey"`
		SpeakerName string `json:"speaker_name"`
	}
	status, _ = api.do("ann", http.MethodPost, "/sessions", body("Generics", "10:00"), &sess)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Rob", sess.SpeakerName)
	api.do("ann", http.MethodPost, "/sessions", body("Late Night", "21:00"), nil)

	var list []struct {
		Title string `json:"title"`
	}
	api.do("bob", http.MethodGet, "/conferences/"+conf.WebsafeKey+"/sessions/type/talk", "", &list)
	assert.Len(t, list, 2)

	api.do("bob", http.MethodPost, "/sessions/query", `{"filters":[{"field":"START_TIME","operator":"LT","value":"19:00"}]}`, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Generics", list[0].Title)

	api.do("bob", http.MethodGet, "/sessions/location?location=Room+A", "", &list)
	assert.Len(t, list, 2)

	api.do("bob", http.MethodGet, "/sessions/early", "", &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Generics", list[0].Title)

	var speakers []struct {
		Name string `json:"name"`
	}
	api.do("bob", http.MethodGet, "/conferences/"+conf.WebsafeKey+"/speakers", "", &speakers)
	require.Len(t, speakers, 1)

	var ok bool
	status, _ = api.do("bob", http.MethodPost, "/wishlist/"+sess.WebsafeKey, "", &ok)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, ok)
	api.do("bob", http.MethodGet, "/wishlist", "", &list)
	require.Len(t, list, 1)
	api.do("bob", http.MethodDelete, "/wishlist/"+sess.WebsafeKey, "", &ok)
	assert.True(t, ok)

	var profile struct {
		DisplayName string   `json:"displayName"`
		Wishlist    []string `json:"sessionKeysWishlist"`
	}
	api.do("bob", http.MethodPost, "/profile", `{"displayName":"Bobby"}`, &profile)
	assert.Equal(t, "Bobby", profile.DisplayName)
	assert.Empty(t, profile.Wishlist)
}

func TestRouter_Metrics(t *testing.T) {
	api := newAPI(t)
	api.do("bob", http.MethodGet, "/profile", "", nil)

	resp, err := api.server.Client().Get(api.server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
