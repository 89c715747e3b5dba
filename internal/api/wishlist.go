package api

import (
	"encoding/json"
	"net/http"

	"bookstore/internal/db"
	"bookstore/internal/model"
)

type WishlistHandler struct {
	DB *db.DB
}

func (h *WishlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r)
	if !ok {
		JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	books, err := h.DB.GetWishlist(userID)
	if err != nil {
		StoreError(w, err)
		return
	}
	if books == nil {
		books = []model.Book{}
	}
	writeJSON(w, http.StatusOK, books)
}

func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r)
	if !ok {
		JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		BookID int64 `json:"book_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.DB.AddToWishlist(userID, req.BookID); err != nil {
		StoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Added to wishlist"})
}

func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r)
	if !ok {
		JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	bookID, ok := pathID(r, "bookId")
	if !ok {
		JSONError(w, "Invalid book id", http.StatusBadRequest)
		return
	}

	if err := h.DB.RemoveFromWishlist(userID, bookID); err != nil {
		StoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Removed from wishlist"})
}
