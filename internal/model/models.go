package model

type User struct {
	ID           int64   `json:"id" db:"id"`
	Username     string  `json:"username" db:"username"`
	Email        *string `json:"email" db:"email"`
	PasswordHash *string `json:"-" db:"password_hash"`
	IsAdmin      bool    `json:"is_admin" db:"is_admin"`
	CreatedAt    int64   `json:"created_at" db:"created_at"`

	PasswordResetTokenHash    *string `json:"-" db:"password_reset_token_hash"`
	PasswordResetTokenExpires *int64  `json:"-" db:"password_reset_token_expires_at"`
}

type Book struct {
	ID          int64  `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Author      string `json:"author" db:"author"`
	Price       Price  `json:"price" db:"price_cents"`
	Category    string `json:"category" db:"category"`
	Image       string `json:"image" db:"image"`
	Description string `json:"description" db:"description"`
	CreatedAt   int64  `json:"created_at" db:"created_at"`
}

// RatedBook is a Book with its rating aggregates. The aggregates are computed
// from the live ratings table on every read, never stored.
type RatedBook struct {
	Book
	AverageRating float64 `json:"average_rating"`
	RatingCount   int64   `json:"rating_count"`
}

// RatingSummary is returned after a rating upsert so the caller sees its own
// write reflected in the aggregates.
type RatingSummary struct {
	AverageRating float64 `json:"average_rating"`
	RatingCount   int64   `json:"rating_count"`
}

type Comment struct {
	ID        int64  `json:"id" db:"id"`
	BookID    int64  `json:"book_id" db:"book_id"`
	UserID    int64  `json:"user_id" db:"user_id"`
	Username  string `json:"username" db:"-"`
	Text      string `json:"text" db:"comment"`
	Rating    *int   `json:"rating" db:"rating"`
	CreatedAt int64  `json:"created_at" db:"created_at"`
}

type BookDetail struct {
	RatedBook
	Comments []Comment `json:"comments"`
}

// CartItem joins a cart line with the current catalog fields of its book.
// Price and title reflect catalog state at read time, not at add time.
type CartItem struct {
	Book
	Quantity int64 `json:"quantity"`
}
