package controllers

import (
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

// BoolResponse is the success envelope of operations answering true or false.
type BoolResponse struct {
	Data  bool              `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// StringResponse is the success envelope of operations answering a message.
type StringResponse struct {
	Data  string            `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// callerFrom returns the authenticated caller, writing a 401 when there is none.
func callerFrom(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
	}
	return id, ok
}

// pathValue returns the named path segment, writing a 400 when it is empty.
func pathValue(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := r.PathValue(name)
	if v == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing "+name)
		return "", false
	}
	return v, true
}
