package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"bookstore/internal/auth"
	"bookstore/internal/db"
	"bookstore/internal/mail"
	"bookstore/internal/templates"
)

type AuthHandler struct {
	DB        *db.DB
	Mailer    mail.Sender
	Templates *templates.Manager
	BaseURL   string
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email"`
	IsAdmin  bool    `json:"is_admin"`
	Token    string  `json:"token"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		JSONError(w, "Username, email, and password are required", http.StatusBadRequest)
		return
	}
	if len(req.Password) < 6 {
		JSONError(w, "Password must be at least 6 characters long", http.StatusBadRequest)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		JSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	user, err := h.DB.CreateUser(req.Username, &req.Email, &hash, false)
	if err != nil {
		StoreError(w, err)
		return
	}

	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		JSONError(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		IsAdmin:  user.IsAdmin,
		Token:    token,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		JSONError(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.DB.GetUserByUsername(req.Username)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			JSONError(w, "Invalid username or password", http.StatusUnauthorized)
			return
		}
		StoreError(w, err)
		return
	}

	// Legacy rows may carry no credential at all; they cannot log in.
	if user.PasswordHash == nil {
		JSONError(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	match, err := auth.VerifyPassword(req.Password, *user.PasswordHash)
	if err != nil {
		JSONError(w, "Error verifying password", http.StatusInternalServerError)
		return
	}
	if !match {
		JSONError(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		JSONError(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		IsAdmin:  user.IsAdmin,
		Token:    token,
	})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Always answer the same way so the endpoint cannot be used to probe
	// which addresses have accounts.
	const sentMessage = "A password reset email was sent"

	user, err := h.DB.GetUserByEmail(req.Email)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": sentMessage})
		return
	}

	token, hash, err := auth.GenerateResetToken()
	if err != nil {
		JSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	expiresAt := time.Now().Add(1 * time.Hour).Unix()

	if err := h.DB.SetPasswordResetToken(user.ID, hash, expiresAt); err != nil {
		StoreError(w, err)
		return
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", h.BaseURL, token)
	htmlBody, err := h.Templates.Render("mail/forgot-password.html", map[string]string{"ResetPasswordLink": link})
	if err != nil {
		log.Printf("template render error: %v", err)
	}

	if err := h.Mailer.Send(*user.Email, "Password reset", "Reset link: "+link, htmlBody); err != nil {
		log.Printf("mail send error: %v", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": sentMessage})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ResetToken string `json:"reset_token"`
		Password   string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.DB.GetUserByResetToken(auth.HashToken(req.ResetToken))
	if err != nil {
		JSONError(w, "Invalid or expired token", http.StatusBadRequest)
		return
	}
	if user.PasswordResetTokenExpires == nil || *user.PasswordResetTokenExpires < time.Now().Unix() {
		JSONError(w, "Invalid or expired token", http.StatusBadRequest)
		return
	}

	if len(req.Password) < 6 {
		JSONError(w, "Password must be at least 6 characters long", http.StatusBadRequest)
		return
	}

	newHash, err := auth.HashPassword(req.Password)
	if err != nil {
		JSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.DB.UpdatePassword(user.ID, newHash); err != nil {
		StoreError(w, err)
		return
	}
	if err := h.DB.ClearResetToken(user.ID); err != nil {
		log.Printf("failed to clear reset token for user %d: %v", user.ID, err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password has been reset successfully"})
}
