package repository_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkplace/placeflow/internal/repository"
)

func TestPairLockKey(t *testing.T) {
	testCases := []struct {
		name      string
		projectID int64
		siteID    int64
		want      int64
	}{
		{name: "zero pair", projectID: 0, siteID: 0, want: 0},
		{name: "small ids", projectID: 1, siteID: 2, want: 1<<32 | 2},
		{name: "site id fills low word", projectID: 1, siteID: 0xffffffff, want: 1<<32 | 0xffffffff},
		{name: "site id truncated to 32 bits", projectID: 3, siteID: 1 << 33, want: 3 << 32},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, repository.PairLockKey(tc.projectID, tc.siteID))
		})
	}
}

func TestPairLockKey_DistinctPairs(t *testing.T) {
	// Swapping project and site must never collide.
	assert.NotEqual(t, repository.PairLockKey(1, 2), repository.PairLockKey(2, 1))
}

func TestAcquirePairLock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewLockRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").
		WithArgs(repository.PairLockKey(7, 9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	tx, err := db.BeginTx(context.Background(), &sql.TxOptions{})
	require.NoError(t, err)

	require.NoError(t, repo.AcquirePairLock(context.Background(), tx, 7, 9))
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAcquirePairLock_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewLockRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").
		WithArgs(repository.PairLockKey(7, 9)).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	tx, err := db.BeginTx(context.Background(), &sql.TxOptions{})
	require.NoError(t, err)

	require.Error(t, repo.AcquirePairLock(context.Background(), tx, 7, 9))
	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}
