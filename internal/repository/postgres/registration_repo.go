package postgres

import (
	"context"
	"database/sql"

	"conferencecentral/internal/domain"
)

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

// Apply locks the profile row and then the conference row. Every writer takes
// the locks in that order.
func (r *registrationRepository) Apply(ctx context.Context, profileID, conferenceID string, fn domain.RegistrationMutation) error {
	return inTx(ctx, r.DB, func(tx *sql.Tx) error {
		p, err := scanProfile(tx.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1 FOR UPDATE`, profileID))
		if err != nil {
			return err
		}
		c, err := scanConference(tx.QueryRowContext(ctx, `SELECT `+conferenceColumns+` FROM conferences WHERE id = $1 FOR UPDATE`, conferenceID))
		if err != nil {
			return err
		}
		changed, err := fn(p, c)
		if err != nil || !changed {
			return err
		}
		if err := updateProfile(ctx, tx, p); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE conferences SET seats_available = $2, updated_at = NOW() WHERE id = $1`,
			c.ID, c.SeatsAvailable)
		return err
	})
}
