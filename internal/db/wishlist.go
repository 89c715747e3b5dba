package db

import (
	"fmt"
	"time"

	"bookstore/internal/model"
)

// GetWishlist returns the books the user has wishlisted, in storage order.
func (db *DB) GetWishlist(userID int64) ([]model.Book, error) {
	rows, err := db.Query(`
SELECT b.id, b.title, b.author, b.price_cents, b.category, b.image, b.description, b.created_at
FROM wishlist w
JOIN books b ON b.id = w.book_id
WHERE w.user_id = ?
ORDER BY w.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wishlist: %w", err)
	}
	defer rows.Close()

	var books []model.Book
	for rows.Next() {
		var b model.Book
		err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Price, &b.Category, &b.Image, &b.Description, &b.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wishlist entry: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wishlist: %w", err)
	}
	return books, nil
}

// AddToWishlist creates an entry for (user, book). A duplicate add is a hard
// rejection with ErrConflict, unlike the cart's increment-on-duplicate. The
// uniqueness check is the storage constraint itself, so concurrent adds
// cannot slip a second row in.
func (db *DB) AddToWishlist(userID, bookID int64) error {
	_, err := db.Exec(
		`INSERT INTO wishlist (user_id, book_id, created_at) VALUES (?, ?, ?)`,
		userID, bookID, time.Now().UnixMilli(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("book already in wishlist: %w", ErrConflict)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("book %d or user %d: %w", bookID, userID, ErrNotFound)
		}
		return fmt.Errorf("failed to add to wishlist: %w", err)
	}
	return nil
}

// RemoveFromWishlist deletes the entry if present; removing an absent entry
// is a no-op.
func (db *DB) RemoveFromWishlist(userID, bookID int64) error {
	_, err := db.Exec(`DELETE FROM wishlist WHERE user_id = ? AND book_id = ?`, userID, bookID)
	if err != nil {
		return fmt.Errorf("failed to remove from wishlist: %w", err)
	}
	return nil
}
