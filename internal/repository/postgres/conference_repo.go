package postgres

import (
	"context"
	"database/sql"
	"iter"

	"conferencecentral/internal/domain"

	"github.com/lib/pq"
)

const conferenceColumns = `id, name, description, organizer_user_id, topics, city, start_date, end_date, month, max_attendees, seats_available, created_at, updated_at`

var conferenceQueryable = map[string]bool{
	"name":            true,
	"city":            true,
	"topics":          true,
	"month":           true,
	"max_attendees":   true,
	"seats_available": true,
}

type conferenceRepository struct {
	DB *sql.DB
}

func NewConferenceRepository(db *sql.DB) domain.ConferenceRepository {
	return &conferenceRepository{
		DB: db,
	}
}

func scanConference(s rowScanner) (*domain.Conference, error) {
	c := &domain.Conference{}
	var startNull, endNull sql.NullTime
	err := s.Scan(
		&c.ID, &c.Name, &c.Description, &c.OrganizerUserID, pq.Array(&c.Topics), &c.City,
		&startNull, &endNull, &c.Month, &c.MaxAttendees, &c.SeatsAvailable, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	if startNull.Valid {
		c.StartDate = &startNull.Time
	}
	if endNull.Valid {
		c.EndDate = &endNull.Time
	}
	if c.Topics == nil {
		c.Topics = []string{}
	}
	return c, nil
}

func (r *conferenceRepository) Create(ctx context.Context, c *domain.Conference) error {
	query := `
		INSERT INTO conferences (name, description, organizer_user_id, topics, city, start_date, end_date, month, max_attendees, seats_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		c.Name, c.Description, c.OrganizerUserID, pq.Array(c.Topics), c.City,
		c.StartDate, c.EndDate, c.Month, c.MaxAttendees, c.SeatsAvailable, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
}

func (r *conferenceRepository) GetByID(ctx context.Context, id string) (*domain.Conference, error) {
	query := `SELECT ` + conferenceColumns + ` FROM conferences WHERE id = $1`
	return scanConference(r.DB.QueryRowContext(ctx, query, id))
}

func (r *conferenceRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Conference, error) {
	if len(ids) == 0 {
		return []*domain.Conference{}, nil
	}
	query := `SELECT ` + conferenceColumns + ` FROM conferences WHERE id = ANY($1)`
	items, err := collect(queryRows(ctx, r.DB, query, []any{pq.Array(ids)}, scanConference))
	if err != nil {
		return nil, err
	}
	return orderByIDs(ids, items, func(c *domain.Conference) string { return c.ID }), nil
}

func (r *conferenceRepository) ListByOrganizer(ctx context.Context, organizerUserID string) ([]*domain.Conference, error) {
	query := `
		SELECT ` + conferenceColumns + `
		FROM conferences
		WHERE organizer_user_id = $1
		ORDER BY name
	`
	return collect(queryRows(ctx, r.DB, query, []any{organizerUserID}, scanConference))
}

func (r *conferenceRepository) Query(ctx context.Context, plan *domain.QueryPlan) iter.Seq2[*domain.Conference, error] {
	query, args, err := buildSelect(conferenceColumns, "conferences", conferenceQueryable, plan)
	if err != nil {
		return failed[domain.Conference](err)
	}
	return queryRows(ctx, r.DB, query, args, scanConference)
}

func (r *conferenceRepository) Update(ctx context.Context, id string, fn domain.ConferencePatch) (*domain.Conference, error) {
	var out *domain.Conference
	err := inTx(ctx, r.DB, func(tx *sql.Tx) error {
		c, err := scanConference(tx.QueryRowContext(ctx, `SELECT `+conferenceColumns+` FROM conferences WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		out = c
		return updateConference(ctx, tx, c)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func updateConference(ctx context.Context, tx *sql.Tx, c *domain.Conference) error {
	query := `
		UPDATE conferences
		SET name = $2, description = $3, topics = $4, city = $5, start_date = $6, end_date = $7,
			month = $8, max_attendees = $9, seats_available = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	return tx.QueryRowContext(ctx, query,
		c.ID, c.Name, c.Description, pq.Array(c.Topics), c.City, c.StartDate, c.EndDate,
		c.Month, c.MaxAttendees, c.SeatsAvailable,
	).Scan(&c.UpdatedAt)
}
