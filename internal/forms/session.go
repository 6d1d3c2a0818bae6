package forms

import (
	"strings"

	"conferencecentral/internal/domain"
)

// SessionForm is the wire representation of a session.
// swagger:model SessionForm
type SessionForm struct {
	ConferenceKey string `json:"conference_key"`
	Title         string `json:"title"`
	SessionType   string `json:"session_type"`
	Highlights    string `json:"highlights"`
	OrganizerID   string `json:"organizer_id,omitempty"`
	SpeakerID     string `json:"speaker_id"`
	SpeakerName   string `json:"speaker_name,omitempty"`
	StartTime     string `json:"start_time"`
	Duration      int    `json:"duration"`
	Location      string `json:"location"`
	WebsafeKey    string `json:"websafeKey,omitempty"`
}

type sessionField struct {
	name   string
	decode func(f *SessionForm, s *domain.Session) error
	encode func(s *domain.Session, f *SessionForm)
}

var sessionFields = []sessionField{
	{
		name: "conference_key",
		decode: func(f *SessionForm, s *domain.Session) error {
			s.ConferenceID = strings.TrimSpace(f.ConferenceKey)
			if s.ConferenceID == "" {
				return domain.InvalidInput("session 'conference_key' field required")
			}
			return nil
		},
		encode: func(s *domain.Session, f *SessionForm) { f.ConferenceKey = s.ConferenceID },
	},
	{
		name: "title",
		decode: func(f *SessionForm, s *domain.Session) error {
			s.Title = strings.TrimSpace(f.Title)
			if s.Title == "" {
				return domain.InvalidInput("session 'title' field required")
			}
			return nil
		},
		encode: func(s *domain.Session, f *SessionForm) { f.Title = s.Title },
	},
	{
		name: "session_type",
		decode: func(f *SessionForm, s *domain.Session) error {
			s.SessionType = strings.TrimSpace(f.SessionType)
			return nil
		},
		encode: func(s *domain.Session, f *SessionForm) { f.SessionType = s.SessionType },
	},
	{
		name: "highlights",
		decode: func(f *SessionForm, s *domain.Session) error {
			s.Highlights = f.Highlights
			return nil
		},
		encode: func(s *domain.Session, f *SessionForm) { f.Highlights = s.Highlights },
	},
	{
		// Assigned from the caller.
		name:   "organizer_id",
		encode: func(s *domain.Session, f *SessionForm) { f.OrganizerID = s.OrganizerUserID },
	},
	{
		name: "speaker_id",
		decode: func(f *SessionForm, s *domain.Session) error {
			s.SpeakerID = strings.TrimSpace(f.SpeakerID)
			if s.SpeakerID == "" {
				return domain.InvalidInput("session 'speaker_id' field required")
			}
			return nil
		},
		encode: func(s *domain.Session, f *SessionForm) { f.SpeakerID = s.SpeakerID },
	},
	{
		// Copied from the speaker record on creation.
		name:   "speaker_name",
		encode: func(s *domain.Session, f *SessionForm) { f.SpeakerName = s.SpeakerName },
	},
	{
		name: "start_time",
		decode: func(f *SessionForm, s *domain.Session) error {
			t, err := domain.ParseTimeOfDay(strings.TrimSpace(f.StartTime))
			if err != nil {
				return domain.InvalidInput("start_time must be an HH:MM time")
			}
			s.StartTime = t
			return nil
		},
		encode: func(s *domain.Session, f *SessionForm) { f.StartTime = s.StartTime.String() },
	},
	{
		name: "duration",
		decode: func(f *SessionForm, s *domain.Session) error {
			if f.Duration < 0 {
				return domain.InvalidInput("duration must not be negative")
			}
			s.Duration = f.Duration
			return nil
		},
		encode: func(s *domain.Session, f *SessionForm) { f.Duration = s.Duration },
	},
	{
		name: "location",
		decode: func(f *SessionForm, s *domain.Session) error {
			s.Location = strings.TrimSpace(f.Location)
			return nil
		},
		encode: func(s *domain.Session, f *SessionForm) { f.Location = s.Location },
	},
	{
		name:   "websafeKey",
		encode: func(s *domain.Session, f *SessionForm) { f.WebsafeKey = s.ID },
	},
}

// DecodeSession builds a new session from a create form.
func DecodeSession(f *SessionForm) (*domain.Session, error) {
	s := &domain.Session{}
	for _, field := range sessionFields {
		if field.decode == nil {
			continue
		}
		if err := field.decode(f, s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// EncodeSession renders a session.
func EncodeSession(s *domain.Session) SessionForm {
	var f SessionForm
	for _, field := range sessionFields {
		field.encode(s, &f)
	}
	return f
}

// EncodeSessions renders a list of sessions.
func EncodeSessions(items []*domain.Session) []SessionForm {
	out := make([]SessionForm, 0, len(items))
	for _, s := range items {
		out = append(out, EncodeSession(s))
	}
	return out
}

// SpeakerForm is the wire representation of a speaker.
// swagger:model SpeakerForm
type SpeakerForm struct {
	Name       string `json:"name"`
	WebsafeKey string `json:"websafeKey,omitempty"`
}

// DecodeSpeaker builds a new speaker from a create form.
func DecodeSpeaker(f *SpeakerForm) (*domain.Speaker, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return nil, domain.InvalidInput("speaker 'name' field required")
	}
	return &domain.Speaker{Name: name}, nil
}

// EncodeSpeaker renders a speaker.
func EncodeSpeaker(sp *domain.Speaker) SpeakerForm {
	return SpeakerForm{Name: sp.Name, WebsafeKey: sp.ID}
}

// EncodeSpeakers renders a list of speakers.
func EncodeSpeakers(items []*domain.Speaker) []SpeakerForm {
	out := make([]SpeakerForm, 0, len(items))
	for _, sp := range items {
		out = append(out, EncodeSpeaker(sp))
	}
	return out
}
