package api

import (
	"encoding/json"
	"net/http"

	"bookstore/internal/db"
	"bookstore/internal/model"
)

type CartHandler struct {
	DB *db.DB
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r)
	if !ok {
		JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	items, err := h.DB.GetCart(userID)
	if err != nil {
		StoreError(w, err)
		return
	}
	if items == nil {
		items = []model.CartItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r)
	if !ok {
		JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		BookID   int64  `json:"book_id"`
		Quantity *int64 `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	quantity := int64(1)
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	if err := h.DB.AddToCart(userID, req.BookID, quantity); err != nil {
		StoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Item added to cart"})
}

func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r)
	if !ok {
		JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		BookID   int64 `json:"book_id"`
		Quantity int64 `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.DB.SetCartQuantity(userID, req.BookID, req.Quantity); err != nil {
		StoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Cart updated"})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
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

	if err := h.DB.RemoveFromCart(userID, bookID); err != nil {
		StoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Item removed from cart"})
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r)
	if !ok {
		JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.DB.ClearCart(userID); err != nil {
		StoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Cart cleared"})
}
