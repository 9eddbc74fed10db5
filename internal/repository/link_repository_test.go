package repository_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkplace/placeflow/internal/models"
	"github.com/linkplace/placeflow/internal/repository"
)

func TestLinkRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewLinkRepository(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "project_id", "url", "anchor_text", "usage_limit", "usage_count", "status"}).
			AddRow(int64(5), int64(10), "https://buyer.example.com", "buyer", 100, 3, models.ContentStatusActive)
		mock.ExpectQuery("SELECT (.+) FROM project_links WHERE id").
			WithArgs(int64(5)).
			WillReturnRows(rows)

		link, found, err := repo.GetByID(ctx, 5)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, int64(10), link.ProjectID)
		assert.Equal(t, 3, link.UsageCount)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM project_links WHERE id").
			WithArgs(int64(6)).
			WillReturnError(sql.ErrNoRows)

		link, found, err := repo.GetByID(ctx, 6)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, link)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLinkRepository_AddUsage(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewLinkRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE project_links").
		WithArgs(1, sqlmock.AnyArg(), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE project_links").
		WithArgs(-1, sqlmock.AnyArg(), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	require.NoError(t, err)

	require.NoError(t, repo.AddUsage(ctx, tx, 5, 1))
	require.NoError(t, repo.AddUsage(ctx, tx, 5, -1))
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}
