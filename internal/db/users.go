package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bookstore/internal/model"
)

const userColumns = `id, username, email, password_hash, is_admin, created_at, password_reset_token_hash, password_reset_token_expires_at`

func scanUser(row *sql.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.IsAdmin, &user.CreatedAt,
		&user.PasswordResetTokenHash, &user.PasswordResetTokenExpires,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a user. Username and email uniqueness are enforced by
// the storage layer; a duplicate surfaces as ErrConflict.
func (db *DB) CreateUser(username string, email *string, passwordHash *string, isAdmin bool) (*model.User, error) {
	if username == "" {
		return nil, fmt.Errorf("username is required: %w", ErrInvalidInput)
	}

	now := time.Now().UnixMilli()
	res, err := db.Exec(
		`INSERT INTO users (username, email, password_hash, is_admin, created_at) VALUES (?, ?, ?, ?, ?)`,
		username, email, passwordHash, isAdmin, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("username or email already taken: %w", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get user id: %w", err)
	}

	return &model.User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		IsAdmin:      isAdmin,
		CreatedAt:    now,
	}, nil
}

func (db *DB) GetUserByID(id int64) (*model.User, error) {
	row := db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (db *DB) GetUserByUsername(username string) (*model.User, error) {
	row := db.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

func (db *DB) GetUserByEmail(email string) (*model.User, error) {
	row := db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (db *DB) GetUserByResetToken(tokenHash string) (*model.User, error) {
	row := db.QueryRow(`SELECT `+userColumns+` FROM users WHERE password_reset_token_hash = ?`, tokenHash)
	return scanUser(row)
}

func (db *DB) UserExists(id int64) (bool, error) {
	var exists bool
	err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// RequireAdmin is the access gate for catalog mutations: it resolves the
// requester and fails with ErrForbidden unless the admin flag is set. An
// unknown requester is forbidden, not missing, so callers cannot probe ids.
func (db *DB) RequireAdmin(userID int64) error {
	var isAdmin bool
	err := db.QueryRow(`SELECT is_admin FROM users WHERE id = ?`, userID).Scan(&isAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("admin access required: %w", ErrForbidden)
	}
	if err != nil {
		return fmt.Errorf("failed to check admin flag: %w", err)
	}
	if !isAdmin {
		return fmt.Errorf("admin access required: %w", ErrForbidden)
	}
	return nil
}

func (db *DB) SetPasswordResetToken(userID int64, tokenHash string, expiresAt int64) error {
	_, err := db.Exec(
		`UPDATE users SET password_reset_token_hash = ?, password_reset_token_expires_at = ? WHERE id = ?`,
		tokenHash, expiresAt, userID,
	)
	return err
}

func (db *DB) UpdatePassword(userID int64, passwordHash string) error {
	_, err := db.Exec(`UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, userID)
	return err
}

func (db *DB) ClearResetToken(userID int64) error {
	_, err := db.Exec(
		`UPDATE users SET password_reset_token_hash = NULL, password_reset_token_expires_at = NULL WHERE id = ?`,
		userID,
	)
	return err
}
