package postgres

import (
	"context"
	"database/sql"

	"conferencecentral/internal/domain"

	"github.com/lib/pq"
)

const profileColumns = `id, display_name, main_email, conference_keys_to_attend, session_keys_wishlist, created_at, updated_at`

type profileRepository struct {
	DB *sql.DB
}

func NewProfileRepository(db *sql.DB) domain.ProfileRepository {
	return &profileRepository{DB: db}
}

func scanProfile(s rowScanner) (*domain.Profile, error) {
	p := &domain.Profile{}
	err := s.Scan(&p.ID, &p.DisplayName, &p.MainEmail,
		pq.Array(&p.ConferenceKeysToAttend), pq.Array(&p.SessionKeysWishlist),
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	if p.ConferenceKeysToAttend == nil {
		p.ConferenceKeysToAttend = []string{}
	}
	if p.SessionKeysWishlist == nil {
		p.SessionKeysWishlist = []string{}
	}
	return p, nil
}

func (r *profileRepository) Create(ctx context.Context, p *domain.Profile) error {
	query := `
		INSERT INTO profiles (id, display_name, main_email, conference_keys_to_attend, session_keys_wishlist, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.DB.ExecContext(ctx, query, p.ID, p.DisplayName, p.MainEmail,
		pq.Array(p.ConferenceKeysToAttend), pq.Array(p.SessionKeysWishlist), p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return scanProfile(r.DB.QueryRowContext(ctx, query, id))
}

func (r *profileRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Profile, error) {
	if len(ids) == 0 {
		return []*domain.Profile{}, nil
	}
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = ANY($1)`
	return collect(queryRows(ctx, r.DB, query, []any{pq.Array(ids)}, scanProfile))
}

func (r *profileRepository) Update(ctx context.Context, id string, fn domain.ProfileMutation) (*domain.Profile, error) {
	var out *domain.Profile
	err := inTx(ctx, r.DB, func(tx *sql.Tx) error {
		p, err := scanProfile(tx.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}
		changed, err := fn(p)
		if err != nil {
			return err
		}
		out = p
		if !changed {
			return nil
		}
		return updateProfile(ctx, tx, p)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func updateProfile(ctx context.Context, tx *sql.Tx, p *domain.Profile) error {
	query := `
		UPDATE profiles
		SET display_name = $2, main_email = $3, conference_keys_to_attend = $4, session_keys_wishlist = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	return tx.QueryRowContext(ctx, query, p.ID, p.DisplayName, p.MainEmail,
		pq.Array(p.ConferenceKeysToAttend), pq.Array(p.SessionKeysWishlist)).Scan(&p.UpdatedAt)
}
