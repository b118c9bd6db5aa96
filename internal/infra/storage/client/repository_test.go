package client

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(dbmetrics.Wrap(db, nil, "test")), mock
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectQuery(`SELECT .+ FROM clients WHERE id = \$1`).
		WithArgs(int64(30)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "business_id", "first_name", "last_name", "email", "phone",
			"visit_count", "last_visit_at", "lifetime_spend",
		}).AddRow(int64(30), int64(1), "Ada", "Lovelace", nil, "+15550100", 4, nil, "320.00"))

	c, err := repo.GetByID(context.Background(), 30)
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", c.FullName())
	assert.True(t, c.HasContactInfo())
	assert.Nil(t, c.Email)
	assert.Equal(t, "320", c.LifetimeSpend.String())
}

func TestRepository_RecordVisit(t *testing.T) {
	repo, mock := newRepository(t)
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE clients SET visit_count = visit_count \+ 1, last_visit_at = \$1, updated_at = \$2 WHERE id = \$3`).
		WithArgs(at, at, int64(30)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE clients SET visit_count`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.RecordVisit(context.Background(), 30, at))
	assert.ErrorIs(t, repo.RecordVisit(context.Background(), 31, at), ErrClientNotFound)
}

func TestRepository_AddLifetimeSpend(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectExec(`UPDATE clients SET lifetime_spend = lifetime_spend \+ \$1 WHERE id = \$2`).
		WithArgs("54.13", int64(30)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.AddLifetimeSpend(context.Background(), 30, decimal.RequireFromString("54.13")))
	assert.NoError(t, mock.ExpectationsWereMet())
}
