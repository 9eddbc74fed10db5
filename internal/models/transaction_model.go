package models

import (
	"database/sql"
	"time"
)

// Transaction is an append-only ledger row. Amount is signed (negative for
// debits) and balance_after must equal balance_before + amount.
type Transaction struct {
	ID                 int64         `db:"id" json:"id"`
	UserID             int64         `db:"user_id" json:"user_id"`
	Type               string        `db:"type" json:"type"` // deposit, purchase, refund
	Amount             int64         `db:"amount" json:"amount"`
	BalanceBefore      int64         `db:"balance_before" json:"balance_before"`
	BalanceAfter       int64         `db:"balance_after" json:"balance_after"`
	RelatedPlacementID sql.NullInt64 `db:"related_placement_id" json:"related_placement_id"`
	CreatedAt          time.Time     `db:"created_at" json:"created_at"`
}

const (
	TransactionTypeDeposit  = "deposit"
	TransactionTypePurchase = "purchase"
	TransactionTypeRefund   = "refund"
)
