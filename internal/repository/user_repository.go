package repository

import (
	"database/sql"
	"fmt"
	"time"
)

// UserRepository records what little the demo auth knows about users: the
// derived id and the email it came from, so reminders have an address to go to.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Upsert(userID, email string) error {
	_, err := r.db.Exec(
		`INSERT INTO users (id, email, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET email = excluded.email`,
		userID, email, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetEmail(userID string) (string, error) {
	var email string
	err := r.db.QueryRow(`SELECT email FROM users WHERE id = ?`, userID).Scan(&email)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get user email: %w", err)
	}
	return email, nil
}
