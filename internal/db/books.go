package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bookstore/internal/model"
)

const ratedBookQuery = `
SELECT b.id, b.title, b.author, b.price_cents, b.category, b.image, b.description, b.created_at,
       COALESCE(AVG(r.rating), 0), COUNT(r.id)
FROM books b
LEFT JOIN ratings r ON r.book_id = b.id`

func scanRatedBook(row interface{ Scan(...any) error }) (*model.RatedBook, error) {
	var b model.RatedBook
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.Price, &b.Category, &b.Image, &b.Description, &b.CreatedAt,
		&b.AverageRating, &b.RatingCount,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBooks returns every book ordered by id, each with its rating aggregates
// computed from the live ratings table.
func (db *DB) ListBooks() ([]model.RatedBook, error) {
	rows, err := db.Query(ratedBookQuery + `
GROUP BY b.id
ORDER BY b.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	var books []model.RatedBook
	for rows.Next() {
		b, err := scanRatedBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating books: %w", err)
	}
	return books, nil
}

// GetBook returns a single book with aggregates and its full comment list,
// newest first, each comment carrying the commenting user's name.
func (db *DB) GetBook(id int64) (*model.BookDetail, error) {
	row := db.QueryRow(ratedBookQuery+`
WHERE b.id = ?
GROUP BY b.id`, id)

	book, err := scanRatedBook(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("book %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query book: %w", err)
	}

	comments, err := db.fetchComments(id)
	if err != nil {
		return nil, err
	}

	return &model.BookDetail{RatedBook: *book, Comments: comments}, nil
}

func (db *DB) fetchComments(bookID int64) ([]model.Comment, error) {
	rows, err := db.Query(`
SELECT c.id, c.book_id, c.user_id, u.username, c.comment, c.rating, c.created_at
FROM comments c
JOIN users u ON u.id = c.user_id
WHERE c.book_id = ?
ORDER BY c.created_at DESC, c.id DESC`, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.BookID, &c.UserID, &c.Username, &c.Text, &c.Rating, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return comments, nil
}

// CreateBook persists a new book on behalf of an admin. Category, image and
// description fall back to their defaults when absent.
func (db *DB) CreateBook(requesterID int64, book model.Book) (*model.RatedBook, error) {
	if err := db.RequireAdmin(requesterID); err != nil {
		return nil, err
	}
	if book.Title == "" || book.Author == "" {
		return nil, fmt.Errorf("title and author are required: %w", ErrInvalidInput)
	}
	if book.Price < 0 {
		return nil, fmt.Errorf("price must not be negative: %w", ErrInvalidInput)
	}
	if book.Category == "" {
		book.Category = "Uncategorized"
	}

	book.CreatedAt = time.Now().UnixMilli()
	res, err := db.Exec(
		`INSERT INTO books (title, author, price_cents, category, image, description, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		book.Title, book.Author, book.Price, book.Category, book.Image, book.Description, book.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get book id: %w", err)
	}
	book.ID = id

	return &model.RatedBook{Book: book}, nil
}

// DeleteBook removes a book and every dependent rating, comment, cart line
// and wishlist entry as one atomic unit. A partial cascade never survives:
// any failure rolls the whole transaction back.
func (db *DB) DeleteBook(ctx context.Context, id, requesterID int64) error {
	if err := db.RequireAdmin(requesterID); err != nil {
		return err
	}

	return db.WithTx(ctx, func(tx *sql.Tx) error {
		dependents := []string{
			`DELETE FROM ratings WHERE book_id = ?`,
			`DELETE FROM comments WHERE book_id = ?`,
			`DELETE FROM cart_items WHERE book_id = ?`,
			`DELETE FROM wishlist WHERE book_id = ?`,
		}
		for _, stmt := range dependents {
			if _, err := tx.Exec(stmt, id); err != nil {
				return fmt.Errorf("failed to cascade book delete: %w", err)
			}
		}

		res, err := tx.Exec(`DELETE FROM books WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete book: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("book %d: %w", id, ErrNotFound)
		}
		return nil
	})
}
