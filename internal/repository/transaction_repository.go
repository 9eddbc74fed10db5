package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/linkplace/placeflow/internal/models"
)

// TransactionRepository appends to the ledger. Rows are never updated or
// deleted.
type TransactionRepository interface {
	Create(ctx context.Context, tx *sql.Tx, t *models.Transaction) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Transaction, error)
}

type transactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *sql.Tx, t *models.Transaction) (int64, error) {
	query := `
		INSERT INTO transactions (user_id, type, amount, balance_before, balance_after, related_placement_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var err error
	var id int64

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, t.UserID, t.Type, t.Amount, t.BalanceBefore, t.BalanceAfter, t.RelatedPlacementID).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, t.UserID, t.Type, t.Amount, t.BalanceBefore, t.BalanceAfter, t.RelatedPlacementID).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Transaction, error) {
	query := `SELECT id, user_id, type, amount, balance_before, balance_after, related_placement_id, created_at
		FROM transactions WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.BalanceBefore, &t.BalanceAfter, &t.RelatedPlacementID, &t.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		transactions = append(transactions, &t)
	}
	return transactions, nil
}
