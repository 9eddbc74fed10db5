package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/linkplace/placeflow/internal/apperr"
	"github.com/linkplace/placeflow/internal/models"
	"github.com/linkplace/placeflow/internal/repository"
)

// BillingLedger is the only component that moves money. Every balance change
// locks the user row, updates balance/total_spent, recomputes the discount
// tier, and appends a ledger row. Callers run it inside their transaction,
// after all Site and content rows are locked (Site -> ContentItem -> User).
type BillingLedger struct {
	u     repository.UserRepository
	t     repository.TransactionRepository
	tiers []Tier
}

func NewBillingLedger(u repository.UserRepository, t repository.TransactionRepository, tiers []Tier) *BillingLedger {
	return &BillingLedger{u: u, t: t, tiers: tiers}
}

// Purchase prices originalPrice against the user's current tier, debits the
// final price and records a purchase ledger row. Returns the discount percent
// applied and the final price.
func (b *BillingLedger) Purchase(ctx context.Context, tx *sql.Tx, userID, originalPrice int64, placementID sql.NullInt64) (int, int64, error) {
	user, err := b.u.GetForUpdate(ctx, tx, userID)
	if err != nil {
		return 0, 0, err
	}
	if user == nil {
		return 0, 0, apperr.New(apperr.KindNotFound, "user not found")
	}

	discount := DiscountFor(b.tiers, user.TotalSpent).DiscountPercent
	finalPrice := originalPrice - originalPrice*int64(discount)/100

	if user.Balance < finalPrice {
		err = apperr.New(apperr.KindInsufficientBalance, "balance too low for purchase")
		slog.Info(err.Error())
		return 0, 0, err
	}

	if err := b.move(ctx, tx, user, models.TransactionTypePurchase, -finalPrice, placementID); err != nil {
		return 0, 0, err
	}
	return discount, finalPrice, nil
}

// Debit charges a fixed amount (renewals) without tier pricing.
func (b *BillingLedger) Debit(ctx context.Context, tx *sql.Tx, userID, amount int64, placementID sql.NullInt64) error {
	user, err := b.u.GetForUpdate(ctx, tx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.New(apperr.KindNotFound, "user not found")
	}

	if user.Balance < amount {
		err = apperr.New(apperr.KindInsufficientBalance, "balance too low for renewal")
		slog.Info(err.Error())
		return err
	}

	return b.move(ctx, tx, user, models.TransactionTypePurchase, -amount, placementID)
}

// Refund credits the stored purchase price back. The amount is never
// recomputed from current pricing. Returns whether the user's tier changed.
func (b *BillingLedger) Refund(ctx context.Context, tx *sql.Tx, userID, amount int64, placementID sql.NullInt64) (bool, error) {
	user, err := b.u.GetForUpdate(ctx, tx, userID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, apperr.New(apperr.KindNotFound, "user not found")
	}

	discountBefore := user.CurrentDiscount
	if err := b.move(ctx, tx, user, models.TransactionTypeRefund, amount, placementID); err != nil {
		return false, err
	}
	return user.CurrentDiscount != discountBefore, nil
}

// Deposit credits new funds. Deposits do not count toward total_spent.
func (b *BillingLedger) Deposit(ctx context.Context, tx *sql.Tx, userID, amount int64) error {
	if amount <= 0 {
		return apperr.New(apperr.KindValidation, "deposit amount must be positive")
	}

	user, err := b.u.GetForUpdate(ctx, tx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.New(apperr.KindNotFound, "user not found")
	}

	return b.move(ctx, tx, user, models.TransactionTypeDeposit, amount, sql.NullInt64{})
}

// move applies a signed amount to the locked user row and appends the ledger
// entry. Purchases raise total_spent, refunds lower it (floored at zero),
// deposits leave it alone. The tier is recomputed whenever total_spent moves.
func (b *BillingLedger) move(ctx context.Context, tx *sql.Tx, user *models.User, txType string, amount int64, placementID sql.NullInt64) error {
	balanceBefore := user.Balance
	user.Balance += amount
	if user.Balance < 0 {
		return apperr.New(apperr.KindInsufficientBalance, "balance cannot go negative")
	}

	switch txType {
	case models.TransactionTypePurchase:
		user.TotalSpent += -amount
	case models.TransactionTypeRefund:
		user.TotalSpent -= amount
		if user.TotalSpent < 0 {
			user.TotalSpent = 0
		}
	}

	if err := b.u.UpdateBalance(ctx, tx, user.ID, user.Balance, user.TotalSpent); err != nil {
		return err
	}

	if txType != models.TransactionTypeDeposit {
		discount := DiscountFor(b.tiers, user.TotalSpent).DiscountPercent
		if discount != user.CurrentDiscount {
			if err := b.u.UpdateDiscount(ctx, tx, user.ID, discount); err != nil {
				return err
			}
			user.CurrentDiscount = discount
		}
	}

	_, err := b.t.Create(ctx, tx, &models.Transaction{
		UserID:             user.ID,
		Type:               txType,
		Amount:             amount,
		BalanceBefore:      balanceBefore,
		BalanceAfter:       user.Balance,
		RelatedPlacementID: placementID,
	})
	return err
}
