package services

import (
	"context"
	"fmt"

	"conferencecentral/internal/domain"
)

// ConfirmationEmailHandler sends the email queued after a conference is created.
func ConfirmationEmailHandler(email domain.EmailService) domain.TaskHandler {
	return func(ctx context.Context, t domain.Task) error {
		return email.SendConferenceCreated(ctx, &domain.ConferenceCreatedEmailData{
			Email:          t.Params[domain.TaskParamEmail],
			ConferenceInfo: t.Params[domain.TaskParamConferenceInfo],
		})
	}
}

// FeaturedSpeakerHandler recomputes the featured speaker queued after a session is created.
func FeaturedSpeakerHandler(sessions domain.SessionService) domain.TaskHandler {
	return func(ctx context.Context, t domain.Task) error {
		speakerID := t.Params[domain.TaskParamSpeakerID]
		conferenceID := t.Params[domain.TaskParamConferenceID]
		if speakerID == "" || conferenceID == "" {
			return fmt.Errorf("%w: task %s needs %s and %s", domain.ErrInvalidInput, t.Name, domain.TaskParamSpeakerID, domain.TaskParamConferenceID)
		}
		return sessions.SetFeaturedSpeaker(ctx, speakerID, conferenceID)
	}
}
