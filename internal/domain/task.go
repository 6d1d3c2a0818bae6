package domain

import "context"

// Task names understood by the dispatcher.
const (
	TaskSendConfirmationEmail = "send_confirmation_email"
	TaskSetFeaturedSpeaker    = "set_featured_speaker"
)

// Task parameter keys.
const (
	TaskParamEmail          = "email"
	TaskParamConferenceInfo = "conference_info"
	TaskParamConferenceID   = "conference_id"
	TaskParamSpeakerID      = "speaker_id"
)

// Task is a unit of deferred work.
type Task struct {
	ID     string
	Name   string
	Params map[string]string
}

// TaskHandler executes a task. A returned error makes the dispatcher retry it.
type TaskHandler func(ctx context.Context, t Task) error

// TaskDispatcher queues tasks for asynchronous, at-least-once execution.
// Dispatch does not wait for the task to run and gives no ordering guarantee.
type TaskDispatcher interface {
	Dispatch(ctx context.Context, t Task) error
}
