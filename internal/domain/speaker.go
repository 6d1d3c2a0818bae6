package domain

import (
	"context"
	"time"
)

// Speaker is a person giving one or more sessions.
// swagger:model Speaker
type Speaker struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSpeaker returns a new Speaker. ID is typically set by the repository on create.
func NewSpeaker(name string, createdAt time.Time) *Speaker {
	return &Speaker{Name: name, CreatedAt: createdAt}
}

// SpeakerRepository defines the interface for speaker storage.
type SpeakerRepository interface {
	Create(ctx context.Context, sp *Speaker) error
	GetByID(ctx context.Context, id string) (*Speaker, error)
	// ListByIDs returns existing speakers in the order of ids; unknown ids are skipped.
	ListByIDs(ctx context.Context, ids []string) ([]*Speaker, error)
}
