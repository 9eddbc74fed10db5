package repository_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkplace/placeflow/internal/models"
	"github.com/linkplace/placeflow/internal/repository"
)

var placementColumns = []string{
	"id", "project_id", "site_id", "type", "status",
	"original_price", "discount_applied", "final_price",
	"purchased_at", "published_at", "scheduled_publish_date", "expires_at",
	"last_renewed_at", "renewal_count", "auto_renewal", "remote_post_id",
}

func placementRow(id, projectID, siteID int64, status string, expiresAt driver.Value) []driver.Value {
	return []driver.Value{
		id, projectID, siteID, models.PlacementTypeLink, status,
		int64(500), 0, int64(500),
		time.Now(), nil, nil, expiresAt,
		nil, 0, false, nil,
	}
}

func TestPlacementRepository_FindByPair(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewPlacementRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	rows := sqlmock.NewRows(placementColumns).
		AddRow(placementRow(42, 10, 1, models.PlacementStatusPlaced, time.Now().Add(24*time.Hour))...)
	mock.ExpectQuery("SELECT (.+) FROM placements WHERE project_id").
		WithArgs(int64(10), int64(1)).
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT (.+) FROM placements WHERE project_id").
		WithArgs(int64(10), int64(2)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectCommit()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	require.NoError(t, err)

	placement, err := repo.FindByPair(ctx, tx, 10, 1)
	require.NoError(t, err)
	require.NotNil(t, placement)
	assert.Equal(t, int64(42), placement.ID)
	assert.True(t, placement.ExpiresAt.Valid)

	// No row for the pair is not an error.
	placement, err = repo.FindByPair(ctx, tx, 10, 2)
	require.NoError(t, err)
	assert.Nil(t, placement)

	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlacementRepository_ListExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewPlacementRepository(db)
	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.NewRows(placementColumns).
		AddRow(placementRow(1, 10, 1, models.PlacementStatusPlaced, now.Add(-time.Hour))...).
		AddRow(placementRow(2, 11, 1, models.PlacementStatusPlaced, now.Add(-2*time.Hour))...)
	mock.ExpectQuery("SELECT (.+) FROM placements").
		WithArgs(models.PlacementTypeLink, models.PlacementStatusPlaced, sqlmock.AnyArg()).
		WillReturnRows(rows)

	placements, err := repo.ListExpired(ctx, now)
	require.NoError(t, err)
	require.Len(t, placements, 2)
	assert.Equal(t, int64(1), placements[0].ID)
	assert.Equal(t, int64(2), placements[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlacementRepository_Renew(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewPlacementRepository(db)
	ctx := context.Background()
	newExpiry := time.Now().Add(30 * 24 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE placements").
		WithArgs(newExpiry, sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	require.NoError(t, err)

	require.NoError(t, repo.Renew(ctx, tx, 7, newExpiry))
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}
