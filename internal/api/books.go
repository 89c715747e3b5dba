package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"bookstore/internal/db"
	"bookstore/internal/model"
)

type BooksHandler struct {
	DB *db.DB
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil
}

func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.DB.ListBooks()
	if err != nil {
		StoreError(w, err)
		return
	}
	if books == nil {
		books = []model.RatedBook{}
	}
	writeJSON(w, http.StatusOK, books)
}

func (h *BooksHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		JSONError(w, "Invalid book id", http.StatusBadRequest)
		return
	}

	book, err := h.DB.GetBook(id)
	if err != nil {
		StoreError(w, err)
		return
	}
	if book.Comments == nil {
		book.Comments = []model.Comment{}
	}
	writeJSON(w, http.StatusOK, book)
}

type createBookRequest struct {
	Title       string       `json:"title"`
	Author      string       `json:"author"`
	Price       *model.Price `json:"price"`
	Category    string       `json:"category"`
	Image       string       `json:"image"`
	Description string       `json:"description"`
}

func (h *BooksHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r)
	if !ok {
		JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req createBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Price == nil {
		JSONError(w, "Title, author, and price are required", http.StatusBadRequest)
		return
	}

	book, err := h.DB.CreateBook(userID, model.Book{
		Title:       req.Title,
		Author:      req.Author,
		Price:       *req.Price,
		Category:    req.Category,
		Image:       req.Image,
		Description: req.Description,
	})
	if err != nil {
		StoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, book)
}

func (h *BooksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r)
	if !ok {
		JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		JSONError(w, "Invalid book id", http.StatusBadRequest)
		return
	}

	if err := h.DB.DeleteBook(r.Context(), id, userID); err != nil {
		StoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Book deleted successfully"})
}

func (h *BooksHandler) PostRating(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r)
	if !ok {
		JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	bookID, ok := pathID(r, "id")
	if !ok {
		JSONError(w, "Invalid book id", http.StatusBadRequest)
		return
	}

	var req struct {
		Rating int `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	summary, err := h.DB.UpsertRating(bookID, userID, req.Rating)
	if err != nil {
		StoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *BooksHandler) PostComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r)
	if !ok {
		JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	bookID, ok := pathID(r, "id")
	if !ok {
		JSONError(w, "Invalid book id", http.StatusBadRequest)
		return
	}

	var req struct {
		Text   string `json:"text"`
		Rating *int   `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	comment, err := h.DB.AddComment(bookID, userID, req.Text, req.Rating)
	if err != nil {
		StoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}
