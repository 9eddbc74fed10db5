package models

import "time"

type User struct {
	ID              int64     `db:"id" json:"id"`
	GoogleID        string    `db:"google_id" json:"google_id"`
	Email           string    `db:"email" json:"email"`
	Name            string    `db:"name" json:"name"`
	ProfilePicture  string    `db:"profile_picture" json:"profile_picture"`
	Role            string    `db:"role" json:"role"`
	Balance         int64     `db:"balance" json:"balance"`
	TotalSpent      int64     `db:"total_spent" json:"total_spent"`
	CurrentDiscount int       `db:"current_discount" json:"current_discount"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
