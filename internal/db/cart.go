package db

import (
	"fmt"
	"time"

	"bookstore/internal/model"
)

// GetCart returns the user's cart lines joined with current catalog fields.
func (db *DB) GetCart(userID int64) ([]model.CartItem, error) {
	rows, err := db.Query(`
SELECT b.id, b.title, b.author, b.price_cents, b.category, b.image, b.description, b.created_at, c.quantity
FROM cart_items c
JOIN books b ON b.id = c.book_id
WHERE c.user_id = ?
ORDER BY c.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}
	defer rows.Close()

	var items []model.CartItem
	for rows.Next() {
		var item model.CartItem
		err := rows.Scan(
			&item.ID, &item.Title, &item.Author, &item.Price, &item.Category,
			&item.Image, &item.Description, &item.CreatedAt, &item.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart: %w", err)
	}
	return items, nil
}

// AddToCart adds quantity to the user's line for the book, creating the line
// if absent. The increment happens inside a single native upsert, so two
// concurrent adds for the same (user, book) both land: net effect is always
// the sum, never a lost update from read-then-write.
func (db *DB) AddToCart(userID, bookID, quantity int64) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1: %w", ErrInvalidInput)
	}

	var query string
	if db.dialect == dialectMySQL {
		query = `INSERT INTO cart_items (user_id, book_id, quantity, created_at) VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)`
	} else {
		query = `INSERT INTO cart_items (user_id, book_id, quantity, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, book_id) DO UPDATE SET quantity = quantity + excluded.quantity`
	}

	_, err := db.Exec(query, userID, bookID, quantity, time.Now().UnixMilli())
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("book %d or user %d: %w", bookID, userID, ErrNotFound)
		}
		return fmt.Errorf("failed to add to cart: %w", err)
	}
	return nil
}

// SetCartQuantity sets the line to exactly quantity. A quantity of zero or
// less deletes the line; a zero-quantity line never persists. Deleting an
// absent line succeeds silently.
func (db *DB) SetCartQuantity(userID, bookID, quantity int64) error {
	if quantity <= 0 {
		return db.RemoveFromCart(userID, bookID)
	}

	var query string
	if db.dialect == dialectMySQL {
		query = `INSERT INTO cart_items (user_id, book_id, quantity, created_at) VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE quantity = VALUES(quantity)`
	} else {
		query = `INSERT INTO cart_items (user_id, book_id, quantity, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, book_id) DO UPDATE SET quantity = excluded.quantity`
	}

	_, err := db.Exec(query, userID, bookID, quantity, time.Now().UnixMilli())
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("book %d or user %d: %w", bookID, userID, ErrNotFound)
		}
		return fmt.Errorf("failed to set cart quantity: %w", err)
	}
	return nil
}

// RemoveFromCart deletes the line if present; removing an absent line is a
// no-op.
func (db *DB) RemoveFromCart(userID, bookID int64) error {
	_, err := db.Exec(`DELETE FROM cart_items WHERE user_id = ? AND book_id = ?`, userID, bookID)
	if err != nil {
		return fmt.Errorf("failed to remove from cart: %w", err)
	}
	return nil
}

// ClearCart deletes every line for the user.
func (db *DB) ClearCart(userID int64) error {
	_, err := db.Exec(`DELETE FROM cart_items WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
