package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"conferencecentral/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestRegistrationRepository_Apply(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	profileRow := func(attending string) *sqlmock.Rows {
		return sqlmock.NewRows(profileRowColumns).AddRow("u1", "Ann", "ann@example.com", attending, "{}", now, now)
	}
	conferenceRow := func(seats int) *sqlmock.Rows {
		return sqlmock.NewRows(conferenceRowColumns).AddRow("c1", "A", "", "u9", "{}", "", nil, nil, 0, 10, seats, now, now)
	}
	register := func(p *domain.Profile, c *domain.Conference) (bool, error) {
		if err := p.Register(c); err != nil {
			return false, err
		}
		return true, nil
	}

	tests := []struct {
		name  string
		mock  func(mock sqlmock.Sqlmock)
		errIs error
	}{
		{
			name: "register writes both rows",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT .+ FROM profiles WHERE id = \$1 FOR UPDATE`).WithArgs("u1").WillReturnRows(profileRow("{}"))
				mock.ExpectQuery(`SELECT .+ FROM conferences WHERE id = \$1 FOR UPDATE`).WithArgs("c1").WillReturnRows(conferenceRow(3))
				mock.ExpectQuery(`UPDATE profiles`).
					WithArgs("u1", "Ann", "ann@example.com", pq.Array([]string{"c1"}), pq.Array([]string{})).
					WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
				mock.ExpectExec(`UPDATE conferences SET seats_available`).
					WithArgs("c1", 2).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "already registered writes nothing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT .+ FROM profiles`).WillReturnRows(profileRow("{c1}"))
				mock.ExpectQuery(`SELECT .+ FROM conferences`).WillReturnRows(conferenceRow(3))
				mock.ExpectRollback()
			},
			errIs: domain.ErrAlreadyRegistered,
		},
		{
			name: "no seats",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT .+ FROM profiles`).WillReturnRows(profileRow("{}"))
				mock.ExpectQuery(`SELECT .+ FROM conferences`).WillReturnRows(conferenceRow(0))
				mock.ExpectRollback()
			},
			errIs: domain.ErrNoSeatsAvailable,
		},
		{
			name: "missing conference",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT .+ FROM profiles`).WillReturnRows(profileRow("{}"))
				mock.ExpectQuery(`SELECT .+ FROM conferences`).WillReturnError(sql.ErrNoRows)
				mock.ExpectRollback()
			},
			errIs: domain.ErrNotFound,
		},
		{
			name: "commit race",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT .+ FROM profiles`).WillReturnRows(profileRow("{}"))
				mock.ExpectQuery(`SELECT .+ FROM conferences`).WillReturnRows(conferenceRow(3))
				mock.ExpectQuery(`UPDATE profiles`).WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
				mock.ExpectExec(`UPDATE conferences`).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit().WillReturnError(&pq.Error{Code: "40001"})
			},
			errIs: domain.ErrTxConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = NewRegistrationRepository(db).Apply(ctx, "u1", "c1", register)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
