package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"conferencecentral/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockMailer struct {
	to, subject, html, text string
	err                     error
}

func (m *mockMailer) Send(to, subject, html, text string) error {
	m.to, m.subject, m.html, m.text = to, subject, html, text
	return m.err
}

type mockRenderer struct {
	name string
	data any
	err  error
}

func (m *mockRenderer) Render(name string, data any) (string, string, string, error) {
	m.name, m.data = name, data
	if m.err != nil {
		return "", "", "", m.err
	}
	return "subject", "<p>html</p>", "text", nil
}

func TestEmailService_SendConferenceCreated(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name      string
		data      *domain.ConferenceCreatedEmailData
		mailErr   error
		renderErr error
		errIs     error
		wantErr   bool
	}{
		{name: "sends", data: &domain.ConferenceCreatedEmailData{Email: "ann@example.com", ConferenceInfo: "GopherCon"}},
		{name: "nil data", wantErr: true},
		{name: "no recipient", data: &domain.ConferenceCreatedEmailData{}, errIs: domain.ErrInvalidInput},
		{name: "render fails", data: &domain.ConferenceCreatedEmailData{Email: "a@b.c"}, renderErr: errors.New("boom"), wantErr: true},
		{name: "send fails", data: &domain.ConferenceCreatedEmailData{Email: "a@b.c"}, mailErr: errors.New("ses down"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := &mockMailer{err: tt.mailErr}
			renderer := &mockRenderer{err: tt.renderErr}
			err := NewEmailService(mailer, renderer, logger).SendConferenceCreated(ctx, tt.data)
			switch {
			case tt.errIs != nil:
				require.ErrorIs(t, err, tt.errIs)
			case tt.wantErr:
				require.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, "conference_created", renderer.name)
				assert.Equal(t, tt.data, renderer.data)
				assert.Equal(t, "ann@example.com", mailer.to)
				assert.Equal(t, "subject", mailer.subject)
				assert.Equal(t, "text", mailer.text)
			}
		})
	}
}

func TestConfirmationEmailHandler(t *testing.T) {
	mailer := &mockMailer{}
	renderer := &mockRenderer{}
	handler := ConfirmationEmailHandler(NewEmailService(mailer, renderer, slog.New(slog.NewTextHandler(io.Discard, nil))))

	err := handler(context.Background(), domain.Task{
		Name: domain.TaskSendConfirmationEmail,
		Params: map[string]string{
			domain.TaskParamEmail:          "ann@example.com",
			domain.TaskParamConferenceInfo: "GopherCon in Berlin",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", mailer.to)
	assert.Equal(t, &domain.ConferenceCreatedEmailData{Email: "ann@example.com", ConferenceInfo: "GopherCon in Berlin"}, renderer.data)
}

func TestFeaturedSpeakerHandler_MissingParams(t *testing.T) {
	f := newFixture(t, testOptions())
	err := FeaturedSpeakerHandler(f.sessions)(context.Background(), domain.Task{
		Name:   domain.TaskSetFeaturedSpeaker,
		Params: map[string]string{domain.TaskParamSpeakerID: "sp-1"},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRunAnnouncementRefresher(t *testing.T) {
	f := newFixture(t, testOptions())
	f.conference(t, ann, "Tiny", 2)
	f.cache.Delete(domain.CacheKeyAnnouncement)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- RunAnnouncementRefresher(ctx, f.conferences, time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}()

	require.Eventually(t, func() bool {
		msg, _ := f.cache.Get(domain.CacheKeyAnnouncement)
		return msg != ""
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop")
	}
}
