package repository

import (
	"context"
	"database/sql"
	"log/slog"
)

// LockRepository serializes placement mutations per (project, site) pair with a
// transaction-scoped Postgres advisory lock. The lock is released automatically
// when the enclosing transaction commits or rolls back.
type LockRepository interface {
	AcquirePairLock(ctx context.Context, tx *sql.Tx, projectID, siteID int64) error
}

type lockRepository struct {
	db *sql.DB
}

func NewLockRepository(db *sql.DB) LockRepository {
	return &lockRepository{db: db}
}

// PairLockKey packs the pair into one 64-bit advisory key: high 32 bits are the
// project id, low 32 bits the site id. The packing must not change, it is the
// lock's identity across deploys.
func PairLockKey(projectID, siteID int64) int64 {
	return projectID<<32 | (siteID & 0xffffffff)
}

func (r *lockRepository) AcquirePairLock(ctx context.Context, tx *sql.Tx, projectID, siteID int64) error {
	_, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", PairLockKey(projectID, siteID))
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
