package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/linkplace/placeflow/internal/apperr"
	"github.com/linkplace/placeflow/internal/models"
	"github.com/linkplace/placeflow/internal/repository"
)

type UserService interface {
	GetUserInfo(ctx context.Context, userID int64) (*models.User, error)
	Deposit(ctx context.Context, userID, amount int64) error
	Transactions(ctx context.Context, userID int64) ([]*models.Transaction, error)
}

type userService struct {
	db      *sql.DB
	u       repository.UserRepository
	t       repository.TransactionRepository
	billing *BillingLedger
}

func NewUserService(db *sql.DB, u repository.UserRepository, t repository.TransactionRepository, billing *BillingLedger) UserService {
	return &userService{db: db, u: u, t: t, billing: billing}
}

func (s *userService) GetUserInfo(ctx context.Context, userID int64) (*models.User, error) {
	if userID == 0 {
		err := apperr.New(apperr.KindValidation, "user id is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	user, found, err := s.u.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		err = apperr.New(apperr.KindNotFound, "user not found")
		slog.Info(err.Error())
		return nil, err
	}

	return user, nil
}

func (s *userService) Deposit(ctx context.Context, userID, amount int64) (err error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return apperr.Wrap(apperr.KindTransient, "failed to start transaction", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	if err = s.billing.Deposit(ctx, tx, userID, amount); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return apperr.Wrap(apperr.KindTransient, "failed to commit transaction", err)
	}
	return nil
}

func (s *userService) Transactions(ctx context.Context, userID int64) ([]*models.Transaction, error) {
	transactions, err := s.t.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing transactions: %w", err)
	}
	return transactions, nil
}
