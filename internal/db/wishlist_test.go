package db_test

import (
	"errors"
	"testing"

	"bookstore/internal/db"
	"bookstore/internal/testutil"
)

func TestAddToWishlist(t *testing.T) {
	database := testutil.SetupTestDB(t)

	admin := createUser(t, database, "admin", true)
	book := createBook(t, database, admin.ID, "Wanted")
	user := createUser(t, database, "user", false)

	if err := database.AddToWishlist(user.ID, book.ID); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	books, err := database.GetWishlist(user.ID)
	if err != nil {
		t.Fatalf("failed to get wishlist: %v", err)
	}
	if len(books) != 1 || books[0].ID != book.ID {
		t.Errorf("expected the wishlisted book, got %+v", books)
	}
}

func TestAddToWishlistDuplicate(t *testing.T) {
	database := testutil.SetupTestDB(t)

	admin := createUser(t, database, "admin", true)
	book := createBook(t, database, admin.ID, "Wanted")
	user := createUser(t, database, "user", false)

	if err := database.AddToWishlist(user.ID, book.ID); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	err := database.AddToWishlist(user.ID, book.ID)
	if !errors.Is(err, db.ErrConflict) {
		t.Errorf("expected ErrConflict for duplicate, got %v", err)
	}

	// The rejected add must not create a second entry
	books, err := database.GetWishlist(user.ID)
	if err != nil {
		t.Fatalf("failed to get wishlist: %v", err)
	}
	if len(books) != 1 {
		t.Errorf("expected 1 entry, got %d", len(books))
	}
}

func TestAddToWishlistMissingBook(t *testing.T) {
	database := testutil.SetupTestDB(t)

	user := createUser(t, database, "user", false)

	if err := database.AddToWishlist(user.ID, 999); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestWishlistPerUser(t *testing.T) {
	database := testutil.SetupTestDB(t)

	admin := createUser(t, database, "admin", true)
	book := createBook(t, database, admin.ID, "Shared Want")
	u1 := createUser(t, database, "u1", false)
	u2 := createUser(t, database, "u2", false)

	// The same book on two users' lists is not a duplicate
	if err := database.AddToWishlist(u1.ID, book.ID); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := database.AddToWishlist(u2.ID, book.ID); err != nil {
		t.Fatalf("add for second user failed: %v", err)
	}
}

func TestRemoveFromWishlistIdempotent(t *testing.T) {
	database := testutil.SetupTestDB(t)

	admin := createUser(t, database, "admin", true)
	book := createBook(t, database, admin.ID, "Unwanted")
	user := createUser(t, database, "user", false)

	if err := database.AddToWishlist(user.ID, book.ID); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := database.RemoveFromWishlist(user.ID, book.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if err := database.RemoveFromWishlist(user.ID, book.ID); err != nil {
		t.Errorf("removing an absent entry should succeed, got %v", err)
	}

	books, err := database.GetWishlist(user.ID)
	if err != nil {
		t.Fatalf("failed to get wishlist: %v", err)
	}
	if len(books) != 0 {
		t.Errorf("expected empty wishlist, got %d entries", len(books))
	}
}
