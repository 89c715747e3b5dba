package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bookstore/internal/model"
)

// UpsertRating records value as the user's rating for the book, replacing any
// previous one. The write is a single native upsert against the composite
// unique key, so two concurrent submissions can never produce two rows or
// lose each other. Returns the aggregates recomputed after the write.
func (db *DB) UpsertRating(bookID, userID int64, value int) (*model.RatingSummary, error) {
	if value < 1 || value > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5: %w", ErrInvalidInput)
	}

	var query string
	if db.dialect == dialectMySQL {
		query = `INSERT INTO ratings (book_id, user_id, rating, created_at) VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE rating = VALUES(rating)`
	} else {
		query = `INSERT INTO ratings (book_id, user_id, rating, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(book_id, user_id) DO UPDATE SET rating = excluded.rating`
	}

	_, err := db.Exec(query, bookID, userID, value, time.Now().UnixMilli())
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("book %d or user %d: %w", bookID, userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to upsert rating: %w", err)
	}

	return db.ratingSummary(bookID)
}

func (db *DB) ratingSummary(bookID int64) (*model.RatingSummary, error) {
	var summary model.RatingSummary
	err := db.QueryRow(
		`SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM ratings WHERE book_id = ?`,
		bookID,
	).Scan(&summary.AverageRating, &summary.RatingCount)
	if err != nil {
		return nil, fmt.Errorf("failed to compute rating summary: %w", err)
	}
	return &summary, nil
}

// AddComment creates a comment row. Unlike ratings there is no uniqueness
// constraint: every call adds a row. The optional rating snapshot is stored
// alongside the text and never touches the ratings table.
func (db *DB) AddComment(bookID, userID int64, text string, ratingSnapshot *int) (*model.Comment, error) {
	if text == "" {
		return nil, fmt.Errorf("comment text is required: %w", ErrInvalidInput)
	}

	now := time.Now().UnixMilli()
	res, err := db.Exec(
		`INSERT INTO comments (book_id, user_id, comment, rating, created_at) VALUES (?, ?, ?, ?, ?)`,
		bookID, userID, text, ratingSnapshot, now,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("book %d or user %d: %w", bookID, userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get comment id: %w", err)
	}

	var username string
	err = db.QueryRow(`SELECT username FROM users WHERE id = ?`, userID).Scan(&username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to resolve username: %w", err)
	}

	return &model.Comment{
		ID:        id,
		BookID:    bookID,
		UserID:    userID,
		Username:  username,
		Text:      text,
		Rating:    ratingSnapshot,
		CreatedAt: now,
	}, nil
}
