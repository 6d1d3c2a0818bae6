package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
	"conferencecentral/internal/forms"
)

type ProfileController struct {
	Logger  *slog.Logger
	Service domain.ProfileService
}

func NewProfileController(logger *slog.Logger, svc domain.ProfileService) *ProfileController {
	return &ProfileController{
		Logger:  logger,
		Service: svc,
	}
}

// ProfileResponse is the success envelope for the caller's profile.
type ProfileResponse struct {
	Data  forms.ProfileForm `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Description Returns the caller's profile, creating it on first access.
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ProfileResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /profile [get]
func (c *ProfileController) GetProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	p, err := c.Service.GetProfile(r.Context(), caller)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, forms.EncodeProfile(p))
}

// SaveProfile godoc
// @Summary Update the caller's display name
// @Description An empty displayName leaves the profile unchanged.
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body forms.ProfileMiniForm true "Editable profile fields"
// @Success 200 {object} controllers.ProfileResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /profile [post]
func (c *ProfileController) SaveProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	var form forms.ProfileMiniForm
	if !helpers.DecodeAndValidate(w, r, &form) {
		return
	}
	p, err := c.Service.SaveProfile(r.Context(), caller, form.DisplayName)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, forms.EncodeProfile(p))
}
