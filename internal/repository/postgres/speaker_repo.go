package postgres

import (
	"context"
	"database/sql"

	"conferencecentral/internal/domain"

	"github.com/lib/pq"
)

type speakerRepository struct {
	DB *sql.DB
}

// NewSpeakerRepository returns a domain.SpeakerRepository implemented with Postgres.
func NewSpeakerRepository(db *sql.DB) domain.SpeakerRepository {
	return &speakerRepository{DB: db}
}

func scanSpeaker(s rowScanner) (*domain.Speaker, error) {
	var sp domain.Speaker
	if err := s.Scan(&sp.ID, &sp.Name, &sp.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &sp, nil
}

func (r *speakerRepository) Create(ctx context.Context, sp *domain.Speaker) error {
	return r.DB.QueryRowContext(ctx,
		`INSERT INTO speakers (name, created_at) VALUES ($1, $2) RETURNING id`,
		sp.Name, sp.CreatedAt).Scan(&sp.ID)
}

func (r *speakerRepository) GetByID(ctx context.Context, id string) (*domain.Speaker, error) {
	return scanSpeaker(r.DB.QueryRowContext(ctx, `SELECT id, name, created_at FROM speakers WHERE id = $1`, id))
}

func (r *speakerRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Speaker, error) {
	if len(ids) == 0 {
		return []*domain.Speaker{}, nil
	}
	items, err := collect(queryRows(ctx, r.DB,
		`SELECT id, name, created_at FROM speakers WHERE id = ANY($1)`,
		[]any{pq.Array(ids)}, scanSpeaker))
	if err != nil {
		return nil, err
	}
	return orderByIDs(ids, items, func(sp *domain.Speaker) string { return sp.ID }), nil
}
