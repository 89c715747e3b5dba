package main

import (
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"bookstore/internal/api"
	"bookstore/internal/auth"
	"bookstore/internal/db"
	"bookstore/internal/mail"
	"bookstore/internal/templates"
)

func main() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}
	auth.Init(jwtSecret)

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "data/bookstore.db"
	}
	database, err := db.New(dsn)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	if err := bootstrapAdmin(database); err != nil {
		log.Fatalf("Failed to bootstrap admin user: %v", err)
	}

	if os.Getenv("SEED_BOOKS") == "true" {
		if err := database.SeedSampleBooks(); err != nil {
			log.Fatalf("Failed to seed sample books: %v", err)
		}
	}

	mailer := mail.NewSenderFromEnv()
	templatesMgr := templates.NewManager("templates")
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	authHandler := &api.AuthHandler{
		DB:        database,
		Mailer:    mailer,
		Templates: templatesMgr,
		BaseURL:   baseURL,
	}
	booksHandler := &api.BooksHandler{DB: database}
	cartHandler := &api.CartHandler{DB: database}
	wishlistHandler := &api.WishlistHandler{DB: database}
	userHandler := &api.UserHandler{DB: database}

	mw := &api.Middleware{DB: database}
	authLimiter := api.NewRateLimiter(time.Second, 5)

	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("GET /", api.Health)
	mux.Handle("POST /auth/register", authLimiter.Middleware(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /auth/login", authLimiter.Middleware(http.HandlerFunc(authHandler.Login)))
	mux.Handle("POST /forgot-password", authLimiter.Middleware(http.HandlerFunc(authHandler.ForgotPassword)))
	mux.Handle("POST /reset-password", authLimiter.Middleware(http.HandlerFunc(authHandler.ResetPassword)))

	mux.HandleFunc("GET /books", booksHandler.List)
	mux.HandleFunc("GET /books/{id}", booksHandler.Get)

	// Protected routes
	mux.Handle("GET /me", mw.Auth(http.HandlerFunc(userHandler.GetMe)))

	mux.Handle("POST /books", mw.Auth(http.HandlerFunc(booksHandler.Create)))
	mux.Handle("DELETE /books/{id}", mw.Auth(http.HandlerFunc(booksHandler.Delete)))
	mux.Handle("POST /books/{id}/rating", mw.Auth(http.HandlerFunc(booksHandler.PostRating)))
	mux.Handle("POST /books/{id}/comments", mw.Auth(http.HandlerFunc(booksHandler.PostComment)))

	mux.Handle("GET /cart", mw.Auth(http.HandlerFunc(cartHandler.Get)))
	mux.Handle("POST /cart", mw.Auth(http.HandlerFunc(cartHandler.Add)))
	mux.Handle("PUT /cart", mw.Auth(http.HandlerFunc(cartHandler.Update)))
	mux.Handle("DELETE /cart/items/{bookId}", mw.Auth(http.HandlerFunc(cartHandler.RemoveItem)))
	mux.Handle("DELETE /cart", mw.Auth(http.HandlerFunc(cartHandler.Clear)))

	mux.Handle("GET /wishlist", mw.Auth(http.HandlerFunc(wishlistHandler.Get)))
	mux.Handle("POST /wishlist", mw.Auth(http.HandlerFunc(wishlistHandler.Add)))
	mux.Handle("DELETE /wishlist/{bookId}", mw.Auth(http.HandlerFunc(wishlistHandler.Remove)))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server starting on port %s...", port)
	if err := http.ListenAndServe(":"+port, api.LoggingMiddleware(mux)); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// bootstrapAdmin creates the admin account from env at startup. Admins are
// ordinary users with the admin flag set; there is no special login path.
func bootstrapAdmin(database *db.DB) error {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		return nil
	}

	if _, err := database.GetUserByUsername(username); err == nil {
		return nil
	} else if !errors.Is(err, db.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = database.CreateUser(username, nil, &hash, true)
	if errors.Is(err, db.ErrConflict) {
		return nil
	}
	return err
}
