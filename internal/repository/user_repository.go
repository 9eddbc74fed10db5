package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/linkplace/placeflow/internal/models"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, bool, error)
	GetByEmail(ctx context.Context, email string) (*models.User, bool, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*models.User, error)
	Create(ctx context.Context, tx *sql.Tx, user *models.User) (int64, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, id, balance, totalSpent int64) error
	UpdateDiscount(ctx context.Context, tx *sql.Tx, id int64, discount int) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, bool, error) {
	var user models.User
	query := "SELECT id, email, name, profile_picture, role, balance, total_spent, current_discount FROM users WHERE id = $1"
	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Email, &user.Name, &user.ProfilePicture, &user.Role, &user.Balance, &user.TotalSpent, &user.CurrentDiscount)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return &user, true, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	var user models.User
	query := "SELECT id, google_id, email, name, role FROM users WHERE email = $1"
	err := r.db.QueryRowContext(ctx, query, email).Scan(&user.ID, &user.GoogleID, &user.Email, &user.Name, &user.Role)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return &user, true, nil
}

// GetForUpdate locks the user row for the remainder of the transaction. The
// User row is always the last row locked (Site -> ContentItem -> User).
func (r *userRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*models.User, error) {
	var user models.User
	query := "SELECT id, email, name, role, balance, total_spent, current_discount FROM users WHERE id = $1 FOR UPDATE"
	err := tx.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Email, &user.Name, &user.Role, &user.Balance, &user.TotalSpent, &user.CurrentDiscount)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, tx *sql.Tx, user *models.User) (int64, error) {
	query := "INSERT INTO users (google_id, email, name, profile_picture, role) VALUES ($1, $2, $3, $4, $5) RETURNING id"

	var err error
	var id int64

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, user.GoogleID, user.Email, user.Name, user.ProfilePicture, user.Role).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, user.GoogleID, user.Email, user.Name, user.ProfilePicture, user.Role).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *userRepository) UpdateBalance(ctx context.Context, tx *sql.Tx, id, balance, totalSpent int64) error {
	query := `
		UPDATE users
		SET balance = $1,
			total_spent = $2,
			updated_at = $3
		WHERE id = $4
	`
	_, err := tx.ExecContext(ctx, query, balance, totalSpent, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *userRepository) UpdateDiscount(ctx context.Context, tx *sql.Tx, id int64, discount int) error {
	query := `
		UPDATE users
		SET current_discount = $1,
			updated_at = $2
		WHERE id = $3
	`
	_, err := tx.ExecContext(ctx, query, discount, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
