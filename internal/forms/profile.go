package forms

import (
	"slices"

	"conferencecentral/internal/domain"
)

// ProfileForm is the wire representation of a profile.
// swagger:model ProfileForm
type ProfileForm struct {
	DisplayName            string   `json:"displayName"`
	MainEmail              string   `json:"mainEmail"`
	ConferenceKeysToAttend []string `json:"conferenceKeysToAttend"`
	SessionKeysWishlist    []string `json:"sessionKeysWishlist"`
}

// ProfileMiniForm carries the editable profile fields.
// swagger:model ProfileMiniForm
type ProfileMiniForm struct {
	DisplayName string `json:"displayName"`
}

// EncodeProfile renders a profile.
func EncodeProfile(p *domain.Profile) ProfileForm {
	f := ProfileForm{
		DisplayName:            p.DisplayName,
		MainEmail:              p.MainEmail,
		ConferenceKeysToAttend: slices.Clone(p.ConferenceKeysToAttend),
		SessionKeysWishlist:    slices.Clone(p.SessionKeysWishlist),
	}
	if f.ConferenceKeysToAttend == nil {
		f.ConferenceKeysToAttend = []string{}
	}
	if f.SessionKeysWishlist == nil {
		f.SessionKeysWishlist = []string{}
	}
	return f
}
