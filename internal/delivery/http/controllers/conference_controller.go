package controllers

import (
	"context"
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
	"conferencecentral/internal/forms"
)

type ConferenceController struct {
	Logger  *slog.Logger
	Service domain.ConferenceService
}

func NewConferenceController(logger *slog.Logger, svc domain.ConferenceService) *ConferenceController {
	return &ConferenceController{
		Logger:  logger,
		Service: svc,
	}
}

// ConferenceResponse is the success envelope for a single conference.
type ConferenceResponse struct {
	Data  forms.ConferenceForm `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// ConferenceListResponse is the success envelope for a list of conferences.
type ConferenceListResponse struct {
	Data  []forms.ConferenceForm `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// CreateConference godoc
// @Summary Create a conference
// @Description Creates a conference organized by the caller. seatsAvailable starts at maxAttendees and month is derived from startDate. A confirmation email is queued.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body forms.ConferenceForm true "Conference"
// @Success 201 {object} controllers.ConferenceResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences [post]
func (c *ConferenceController) CreateConference(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	var form forms.ConferenceForm
	if !helpers.DecodeAndValidate(w, r, &form) {
		return
	}
	conf, err := forms.DecodeConference(&form)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	out, err := c.Service.CreateConference(r.Context(), caller, conf)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, forms.EncodeConference(out.Conference, out.OrganizerDisplayName))
}

// UpdateConference godoc
// @Summary Update a conference
// @Description Applies the fields present in the body to a conference owned by the caller. Changing maxAttendees keeps existing registrations.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param conferenceKey path string true "Conference key"
// @Param body body forms.ConferenceForm true "Fields to change"
// @Success 200 {object} controllers.ConferenceResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 503 {object} helpers.APIResponse "error.code: unavailable"
// @Router /conferences/{conferenceKey} [put]
func (c *ConferenceController) UpdateConference(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	key, ok := pathValue(w, r, "conferenceKey")
	if !ok {
		return
	}
	var form forms.ConferenceForm
	if !helpers.DecodeAndValidate(w, r, &form) {
		return
	}
	out, err := c.Service.UpdateConference(r.Context(), caller, key, func(conf *domain.Conference) error {
		return forms.ApplyConferenceUpdate(&form, conf)
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, forms.EncodeConference(out.Conference, out.OrganizerDisplayName))
}

// GetConference godoc
// @Summary Get a conference
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Param conferenceKey path string true "Conference key"
// @Success 200 {object} controllers.ConferenceResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /conferences/{conferenceKey} [get]
func (c *ConferenceController) GetConference(w http.ResponseWriter, r *http.Request) {
	key, ok := pathValue(w, r, "conferenceKey")
	if !ok {
		return
	}
	out, err := c.Service.GetConference(r.Context(), key)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, forms.EncodeConference(out.Conference, out.OrganizerDisplayName))
}

// ListCreated godoc
// @Summary List conferences created by the caller
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ConferenceListResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /conferences/created [get]
func (c *ConferenceController) ListCreated(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	items, err := c.Service.ListCreated(r.Context(), caller)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, forms.EncodeConferences(items))
}

// QueryConferences godoc
// @Summary Query conferences
// @Description Filters conferences with field/operator/value triples. Fields: CITY, TOPIC, MONTH, MAX_ATTENDEES, SEATS_AVAILABLE. Operators: EQ, NE, GT, GTEQ, LT, LTEQ. Inequalities are allowed on one field only.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body forms.QueryForms true "Filters"
// @Success 200 {object} controllers.ConferenceListResponse
// @Failure 400 {object} helpers.APIResponse "error.code: invalid_filter"
// @Router /conferences/query [post]
func (c *ConferenceController) QueryConferences(w http.ResponseWriter, r *http.Request) {
	var form forms.QueryForms
	if !helpers.DecodeAndValidate(w, r, &form) {
		return
	}
	items, err := c.Service.QueryConferences(r.Context(), form.Filters)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, forms.EncodeConferences(items))
}

// GetAnnouncement godoc
// @Summary Get the nearly-sold-out announcement
// @Description Returns the cached announcement, or an empty string when no conference is nearly sold out.
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.StringResponse
// @Router /conferences/announcement [get]
func (c *ConferenceController) GetAnnouncement(w http.ResponseWriter, r *http.Request) {
	msg, err := c.Service.GetAnnouncement(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, msg)
}

// Register godoc
// @Summary Register the caller for a conference
// @Description Takes one seat and adds the conference to the caller's attendance list in one transaction.
// @Tags registration
// @Produce json
// @Security BearerAuth
// @Param conferenceKey path string true "Conference key"
// @Success 200 {object} controllers.BoolResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already registered or no seats)"
// @Failure 503 {object} helpers.APIResponse "error.code: unavailable"
// @Router /conferences/{conferenceKey}/registration [post]
func (c *ConferenceController) Register(w http.ResponseWriter, r *http.Request) {
	c.changeRegistration(w, r, c.Service.Register)
}

// Unregister godoc
// @Summary Unregister the caller from a conference
// @Description Returns the seat. Answers false when the caller was not registered.
// @Tags registration
// @Produce json
// @Security BearerAuth
// @Param conferenceKey path string true "Conference key"
// @Success 200 {object} controllers.BoolResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 503 {object} helpers.APIResponse "error.code: unavailable"
// @Router /conferences/{conferenceKey}/registration [delete]
func (c *ConferenceController) Unregister(w http.ResponseWriter, r *http.Request) {
	c.changeRegistration(w, r, c.Service.Unregister)
}

func (c *ConferenceController) changeRegistration(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, caller domain.Identity, conferenceID string) (bool, error)) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	key, ok := pathValue(w, r, "conferenceKey")
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

// ListAttending godoc
// @Summary List conferences the caller is registered for
// @Tags registration
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ConferenceListResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /conferences/attending [get]
func (c *ConferenceController) ListAttending(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	items, err := c.Service.ListToAttend(r.Context(), caller)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, forms.EncodeConferences(items))
}
