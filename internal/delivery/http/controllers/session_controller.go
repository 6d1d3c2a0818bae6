package controllers

import (
	"context"
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
	"conferencecentral/internal/forms"
)

// SessionController serves sessions, speakers and the caller's wishlist.
type SessionController struct {
	Logger  *slog.Logger
	Service domain.SessionService
}

func NewSessionController(logger *slog.Logger, svc domain.SessionService) *SessionController {
	return &SessionController{
		Logger:  logger,
		Service: svc,
	}
}

// SessionResponse is the success envelope for a single session.
type SessionResponse struct {
	Data  forms.SessionForm `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// SessionListResponse is the success envelope for a list of sessions.
type SessionListResponse struct {
	Data  []forms.SessionForm `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// SpeakerResponse is the success envelope for a single speaker.
type SpeakerResponse struct {
	Data  forms.SpeakerForm `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// SpeakerListResponse is the success envelope for a list of speakers.
type SpeakerListResponse struct {
	Data  []forms.SpeakerForm `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// CreateSpeaker godoc
// @Summary Create a speaker
// @Tags speakers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body forms.SpeakerForm true "Speaker"
// @Success 201 {object} controllers.SpeakerResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /speakers [post]
func (c *SessionController) CreateSpeaker(w http.ResponseWriter, r *http.Request) {
	var form forms.SpeakerForm
	if !helpers.DecodeAndValidate(w, r, &form) {
		return
	}
	sp, err := forms.DecodeSpeaker(&form)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if err := c.Service.CreateSpeaker(r.Context(), sp); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, forms.EncodeSpeaker(sp))
}

// ListSpeakers godoc
// @Summary List the speakers of a conference
// @Tags speakers
// @Produce json
// @Security BearerAuth
// @Param conferenceKey path string true "Conference key"
// @Success 200 {object} controllers.SpeakerListResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /conferences/{conferenceKey}/speakers [get]
func (c *SessionController) ListSpeakers(w http.ResponseWriter, r *http.Request) {
	key, ok := pathValue(w, r, "conferenceKey")
	if !ok {
		return
	}
	items, err := c.Service.ListSpeakersByConference(r.Context(), key)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, forms.EncodeSpeakers(items))
}

// GetFeaturedSpeaker godoc
// @Summary Get the featured speaker message
// @Description Returns the cached featured-speaker message, or an empty string.
// @Tags speakers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.StringResponse
// @Router /speakers/featured [get]
func (c *SessionController) GetFeaturedSpeaker(w http.ResponseWriter, r *http.Request) {
	msg, err := c.Service.GetFeaturedSpeaker(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, msg)
}

// CreateSession godoc
// @Summary Create a session
// @Description Adds a session to a conference organized by the caller. start_time is HH:MM.
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body forms.SessionForm true "Session"
// @Success 201 {object} controllers.SessionResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /sessions [post]
func (c *SessionController) CreateSession(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	var form forms.SessionForm
	if !helpers.DecodeAndValidate(w, r, &form) {
		return
	}
	sess, err := forms.DecodeSession(&form)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if err := c.Service.CreateSession(r.Context(), caller, sess); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, forms.EncodeSession(sess))
}

// ListByConference godoc
// @Summary List the sessions of a conference
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param conferenceKey path string true "Conference key"
// @Success 200 {object} controllers.SessionListResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /conferences/{conferenceKey}/sessions [get]
func (c *SessionController) ListByConference(w http.ResponseWriter, r *http.Request) {
	key, ok := pathValue(w, r, "conferenceKey")
	if !ok {
		return
	}
	c.writeSessions(w, r)(c.Service.ListByConference(r.Context(), key))
}

// ListByType godoc
// @Summary List the sessions of a conference with a given type
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param conferenceKey path string true "Conference key"
// @Param sessionType path string true "Session type"
// @Success 200 {object} controllers.SessionListResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /conferences/{conferenceKey}/sessions/type/{sessionType} [get]
func (c *SessionController) ListByType(w http.ResponseWriter, r *http.Request) {
	key, ok := pathValue(w, r, "conferenceKey")
	if !ok {
		return
	}
	sessionType, ok := pathValue(w, r, "sessionType")
	if !ok {
		return
	}
	c.writeSessions(w, r)(c.Service.ListByType(r.Context(), key, sessionType))
}

// ListByLocation godoc
// @Summary List sessions held at a location
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param location query string true "Location"
// @Param conference_key query string false "Restrict to one conference"
// @Success 200 {object} controllers.SessionListResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /sessions/location [get]
func (c *SessionController) ListByLocation(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c.writeSessions(w, r)(c.Service.ListByLocation(r.Context(), q.Get("conference_key"), q.Get("location")))
}

// QuerySessions godoc
// @Summary Query sessions
// @Description Filters sessions with field/operator/value triples. Fields: TITLE, TYPE, SPEAKER, SPEAKER_ID, HIGHLIGHTS, LOCATION, CONFERENCE, DURATION, START_TIME (HH:MM). Inequalities are allowed on one field only.
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body forms.QueryForms true "Filters"
// @Success 200 {object} controllers.SessionListResponse
// @Failure 400 {object} helpers.APIResponse "error.code: invalid_filter"
// @Router /sessions/query [post]
func (c *SessionController) QuerySessions(w http.ResponseWriter, r *http.Request) {
	var form forms.QueryForms
	if !helpers.DecodeAndValidate(w, r, &form) {
		return
	}
	c.writeSessions(w, r)(c.Service.QuerySessions(r.Context(), form.Filters))
}

// Defaults of the early-sessions listing: everything but workshops before 7pm.
const (
	defaultExcludedType = "Workshop"
	defaultBefore       = "19:00"
)

// ListEarlySessions godoc
// @Summary List sessions before a time, excluding one session type
// @Description Combines an inequality on TYPE with one on START_TIME, which a single query cannot express.
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param exclude_type query string false "Session type to leave out" default(Workshop)
// @Param before query string false "Start time upper bound, HH:MM" default(19:00)
// @Success 200 {object} controllers.SessionListResponse
// @Failure 400 {object} helpers.APIResponse "error.code: invalid_filter"
// @Router /sessions/early [get]
func (c *SessionController) ListEarlySessions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	excluded, before := defaultExcludedType, defaultBefore
	if v := q.Get("exclude_type"); v != "" {
		excluded = v
	}
	if v := q.Get("before"); v != "" {
		before = v
	}
	c.writeSessions(w, r)(c.Service.ListBeforeExcludingType(r.Context(), excluded, before))
}

// GetWishlist godoc
// @Summary List the sessions in the caller's wishlist
// @Tags wishlist
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.SessionListResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /wishlist [get]
func (c *SessionController) GetWishlist(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	c.writeSessions(w, r)(c.Service.GetWishlist(r.Context(), caller))
}

// AddToWishlist godoc
// @Summary Add a session to the caller's wishlist
// @Description Idempotent: adding a session twice keeps one entry and still answers true.
// @Tags wishlist
// @Produce json
// @Security BearerAuth
// @Param sessionKey path string true "Session key"
// @Success 200 {object} controllers.BoolResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /wishlist/{sessionKey} [post]
func (c *SessionController) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	c.changeWishlist(w, r, c.Service.AddToWishlist)
}

// RemoveFromWishlist godoc
// @Summary Remove a session from the caller's wishlist
// @Description Answers false when the session was not in the wishlist.
// @Tags wishlist
// @Produce json
// @Security BearerAuth
// @Param sessionKey path string true "Session key"
// @Success 200 {object} controllers.BoolResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /wishlist/{sessionKey} [delete]
func (c *SessionController) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	c.changeWishlist(w, r, c.Service.RemoveFromWishlist)
}

func (c *SessionController) changeWishlist(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, caller domain.Identity, sessionID string) (bool, error)) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	key, ok := pathValue(w, r, "sessionKey")
	if !ok {
		return
	}
	changed, err := op(r.Context(), caller, key)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, changed)
}

// writeSessions returns a writer for a service call's results, so handlers
// can pass the call's two return values straight through.
func (c *SessionController) writeSessions(w http.ResponseWriter, r *http.Request) func([]*domain.Session, error) {
	return func(items []*domain.Session, err error) {
		if err != nil {
			helpers.WriteServiceError(w, r, c.Logger, err)
			return
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, forms.EncodeSessions(items))
	}
}
