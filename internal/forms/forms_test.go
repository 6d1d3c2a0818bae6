package forms

import (
	"testing"
	"time"

	"conferencecentral/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestDecodeConference(t *testing.T) {
	tests := []struct {
		name    string
		form    ConferenceForm
		want    *domain.Conference
		wantErr bool
	}{
		{
			name: "defaults applied",
			form: ConferenceForm{Name: " GopherCon "},
			want: &domain.Conference{Name: "GopherCon", Topics: []string{}},
		},
		{
			name: "dates, month and seats derived",
			form: ConferenceForm{
				Name:           "GopherCon",
				Topics:         []string{"Go"},
				City:           "Berlin",
				StartDate:      "2026-06-10T09:00:00Z",
				EndDate:        "2026-06-12",
				Month:          intPtr(1),
				MaxAttendees:   intPtr(100),
				SeatsAvailable: intPtr(3),
			},
			want: &domain.Conference{
				Name:           "GopherCon",
				Topics:         []string{"Go"},
				City:           "Berlin",
				StartDate:      date(2026, time.June, 10),
				EndDate:        date(2026, time.June, 12),
				Month:          6,
				MaxAttendees:   100,
				SeatsAvailable: 100,
			},
		},
		{name: "missing name", form: ConferenceForm{City: "Berlin"}, wantErr: true},
		{name: "bad start date", form: ConferenceForm{Name: "x", StartDate: "10/06/2026"}, wantErr: true},
		{name: "end before start", form: ConferenceForm{Name: "x", StartDate: "2026-06-10", EndDate: "2026-06-01"}, wantErr: true},
		{name: "negative capacity", form: ConferenceForm{Name: "x", MaxAttendees: intPtr(-5)}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeConference(&tt.form)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConference_RoundTrip(t *testing.T) {
	stored := &domain.Conference{
		ID:              "conf-1",
		Name:            "GopherCon",
		Description:     "All things Go",
		OrganizerUserID: "u1",
		Topics:          []string{"Go", "Cloud"},
		City:            "Berlin",
		StartDate:       date(2026, time.June, 10),
		EndDate:         date(2026, time.June, 12),
		Month:           6,
		MaxAttendees:    50,
		SeatsAvailable:  50,
	}

	form := EncodeConference(stored, "Ann")
	assert.Equal(t, "conf-1", form.WebsafeKey)
	assert.Equal(t, "Ann", form.OrganizerDisplayName)
	assert.Equal(t, "2026-06-10", form.StartDate)

	form.Month = intPtr(11)
	decoded, err := DecodeConference(&form)
	require.NoError(t, err)

	assert.Equal(t, stored.Name, decoded.Name)
	assert.Equal(t, stored.Description, decoded.Description)
	assert.Equal(t, stored.Topics, decoded.Topics)
	assert.Equal(t, stored.City, decoded.City)
	assert.Equal(t, stored.StartDate, decoded.StartDate)
	assert.Equal(t, stored.EndDate, decoded.EndDate)
	assert.Equal(t, stored.MaxAttendees, decoded.MaxAttendees)
	assert.Equal(t, 6, decoded.Month)
}

func TestApplyConferenceUpdate(t *testing.T) {
	c := &domain.Conference{
		ID:              "conf-1",
		Name:            "Old",
		OrganizerUserID: "u1",
		Topics:          []string{"Go"},
		City:            "Berlin",
		StartDate:       date(2026, time.June, 10),
		Month:           6,
		MaxAttendees:    10,
		SeatsAvailable:  4,
	}

	err := ApplyConferenceUpdate(&ConferenceForm{
		Name:            "New",
		StartDate:       "2026-09-01",
		MaxAttendees:    intPtr(20),
		SeatsAvailable:  intPtr(999),
		OrganizerUserID: "intruder",
	}, c)
	require.NoError(t, err)

	assert.Equal(t, "New", c.Name)
	assert.Equal(t, "Berlin", c.City)
	assert.Equal(t, []string{"Go"}, c.Topics)
	assert.Equal(t, 9, c.Month)
	assert.Equal(t, 20, c.MaxAttendees)
	assert.Equal(t, 14, c.SeatsAvailable)
	assert.Equal(t, "u1", c.OrganizerUserID)

	err = ApplyConferenceUpdate(&ConferenceForm{MaxAttendees: intPtr(5)}, c)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApplyConferenceUpdate_DateRange(t *testing.T) {
	tests := []struct {
		name    string
		form    ConferenceForm
		wantErr bool
	}{
		{name: "start moved past stored end", form: ConferenceForm{StartDate: "2026-06-20"}, wantErr: true},
		{name: "end moved before stored start", form: ConferenceForm{EndDate: "2026-06-01"}, wantErr: true},
		{name: "both moved together", form: ConferenceForm{StartDate: "2026-06-20", EndDate: "2026-06-22"}},
		{name: "start moved within range", form: ConferenceForm{StartDate: "2026-06-11"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &domain.Conference{
				Name:      "GopherCon",
				StartDate: date(2026, time.June, 10),
				EndDate:   date(2026, time.June, 12),
				Month:     6,
			}
			err := ApplyConferenceUpdate(&tt.form, c)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.False(t, c.EndDate.Before(*c.StartDate))
		})
	}
}

func TestDecodeSession(t *testing.T) {
	form := SessionForm{
		ConferenceKey: "conf-1",
		Title:         "Generics in practice",
		SessionType:   "Talk",
		SpeakerID:     "sp-1",
		SpeakerName:   "ignored",
		OrganizerID:   "ignored",
		StartTime:     "14:30",
		Duration:      45,
		Location:      "Room A",
	}
	s, err := DecodeSession(&form)
	require.NoError(t, err)
	assert.Equal(t, domain.TimeOfDay(14*60+30), s.StartTime)
	assert.Empty(t, s.SpeakerName)
	assert.Empty(t, s.OrganizerUserID)

	s.ID = "sess-1"
	s.SpeakerName = "Rob"
	out := EncodeSession(s)
	assert.Equal(t, "14:30", out.StartTime)
	assert.Equal(t, "sess-1", out.WebsafeKey)
	assert.Equal(t, "Rob", out.SpeakerName)

	bad := []SessionForm{
		{ConferenceKey: "c", SpeakerID: "sp", StartTime: "10:00"},
		{Title: "t", SpeakerID: "sp", StartTime: "10:00"},
		{ConferenceKey: "c", Title: "t", StartTime: "10:00"},
		{ConferenceKey: "c", Title: "t", SpeakerID: "sp", StartTime: "10am"},
		{ConferenceKey: "c", Title: "t", SpeakerID: "sp", StartTime: "10:00", Duration: -1},
	}
	for _, f := range bad {
		_, err := DecodeSession(&f)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestSpeakerAndProfile(t *testing.T) {
	_, err := DecodeSpeaker(&SpeakerForm{Name: "  "})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	sp, err := DecodeSpeaker(&SpeakerForm{Name: "Rob"})
	require.NoError(t, err)
	assert.Equal(t, "Rob", sp.Name)

	pf := EncodeProfile(&domain.Profile{DisplayName: "Ann"})
	assert.Equal(t, []string{}, pf.ConferenceKeysToAttend)
	assert.Equal(t, []string{}, pf.SessionKeysWishlist)
}
