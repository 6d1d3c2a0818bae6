package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"iter"

	"conferencecentral/internal/domain"

	"github.com/lib/pq"
)

// start_time is a TIME column; it is read back as HH:MM text.
const sessionColumns = `id, conference_id, title, session_type, highlights, organizer_user_id, speaker_id, speaker_name, to_char(start_time, 'HH24:MI'), duration, location, created_at`

var sessionQueryable = map[string]bool{
	"title":         true,
	"session_type":  true,
	"speaker_name":  true,
	"speaker_id":    true,
	"highlights":    true,
	"location":      true,
	"conference_id": true,
	"duration":      true,
	"start_time":    true,
}

type SessionRepository struct {
	DB *sql.DB
}

func NewSessionRepository(db *sql.DB) domain.SessionRepository {
	return &SessionRepository{
		DB: db,
	}
}

func scanSession(s rowScanner) (*domain.Session, error) {
	sess := &domain.Session{}
	var startTime string
	err := s.Scan(&sess.ID, &sess.ConferenceID, &sess.Title, &sess.SessionType, &sess.Highlights,
		&sess.OrganizerUserID, &sess.SpeakerID, &sess.SpeakerName, &startTime, &sess.Duration,
		&sess.Location, &sess.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	t, err := domain.ParseTimeOfDay(startTime)
	if err != nil {
		return nil, fmt.Errorf("scan session %s: %w", sess.ID, err)
	}
	sess.StartTime = t
	return sess, nil
}

func (r *SessionRepository) Create(ctx context.Context, s *domain.Session) error {
	query := `
		INSERT INTO sessions (conference_id, title, session_type, highlights, organizer_user_id, speaker_id, speaker_name, start_time, duration, location, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		s.ConferenceID, s.Title, s.SessionType, s.Highlights, s.OrganizerUserID, s.SpeakerID,
		s.SpeakerName, s.StartTime.String(), s.Duration, s.Location, s.CreatedAt,
	).Scan(&s.ID)
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`
	return scanSession(r.DB.QueryRowContext(ctx, query, id))
}

func (r *SessionRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Session, error) {
	if len(ids) == 0 {
		return []*domain.Session{}, nil
	}
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ANY($1)`
	items, err := collect(queryRows(ctx, r.DB, query, []any{pq.Array(ids)}, scanSession))
	if err != nil {
		return nil, err
	}
	return orderByIDs(ids, items, func(s *domain.Session) string { return s.ID }), nil
}

func (r *SessionRepository) Query(ctx context.Context, plan *domain.QueryPlan) iter.Seq2[*domain.Session, error] {
	query, args, err := buildSelect(sessionColumns, "sessions", sessionQueryable, plan)
	if err != nil {
		return failed[domain.Session](err)
	}
	return queryRows(ctx, r.DB, query, args, scanSession)
}
