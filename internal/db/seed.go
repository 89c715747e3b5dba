package db

import (
	"fmt"
	"time"

	"bookstore/internal/model"
)

var sampleBooks = []model.Book{
	{Title: "The Alchemist", Author: "Paulo Coelho", Price: 1299, Category: "Fiction",
		Image:       "https://covers.openlibrary.org/b/id/8231991-L.jpg",
		Description: "A shepherd's journey to Egypt in search of treasure becomes a quest for meaning."},
	{Title: "Atomic Habits", Author: "James Clear", Price: 1650, Category: "Self-Help",
		Image:       "https://covers.openlibrary.org/b/id/10511232-L.jpg",
		Description: "Practical strategies to form good habits and break bad ones."},
	{Title: "A Brief History of Time", Author: "Stephen Hawking", Price: 1800, Category: "Science",
		Image:       "https://covers.openlibrary.org/b/id/240727-L.jpg",
		Description: "An overview of cosmology for general readers."},
	{Title: "1984", Author: "George Orwell", Price: 1125, Category: "Fiction",
		Image:       "https://covers.openlibrary.org/b/id/7222246-L.jpg",
		Description: "A dystopian novel about surveillance and totalitarianism."},
	{Title: "Sapiens", Author: "Yuval Noah Harari", Price: 1999, Category: "History",
		Image:       "https://covers.openlibrary.org/b/id/8231856-L.jpg",
		Description: "A brief history of humankind from the Stone Age to the 21st century."},
	{Title: "The Pragmatic Programmer", Author: "Andrew Hunt", Price: 3499, Category: "Programming",
		Image:       "https://covers.openlibrary.org/b/id/8099259-L.jpg",
		Description: "A guide to pragmatic software development."},
	{Title: "Clean Code", Author: "Robert C. Martin", Price: 2999, Category: "Programming",
		Image:       "https://covers.openlibrary.org/b/id/6964151-L.jpg",
		Description: "A handbook of agile software craftsmanship."},
	{Title: "Thinking, Fast and Slow", Author: "Daniel Kahneman", Price: 1450, Category: "Psychology",
		Image:       "https://covers.openlibrary.org/b/id/8225630-L.jpg",
		Description: "Two systems of the mind and how they shape our judgments."},
	{Title: "The Power of Habit", Author: "Charles Duhigg", Price: 1375, Category: "Self-Help",
		Image:       "https://covers.openlibrary.org/b/id/8155436-L.jpg",
		Description: "Why habits exist and how they can be changed."},
}

// SeedSampleBooks inserts a starter catalog, but only when the books table is
// empty, so repeated startups never duplicate it.
func (db *DB) SeedSampleBooks() error {
	var count int64
	if err := db.QueryRow(`SELECT COUNT(*) FROM books`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count books: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UnixMilli()
	for _, b := range sampleBooks {
		_, err := db.Exec(
			`INSERT INTO books (title, author, price_cents, category, image, description, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			b.Title, b.Author, b.Price, b.Category, b.Image, b.Description, now,
		)
		if err != nil {
			return fmt.Errorf("failed to seed book %q: %w", b.Title, err)
		}
	}
	return nil
}
