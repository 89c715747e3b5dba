package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bookstore/internal/api"
	"bookstore/internal/auth"
	"bookstore/internal/templates"
	"bookstore/internal/testutil"
)

func newAuthHandler(t *testing.T) (*api.AuthHandler, *testutil.MockMailSender) {
	t.Helper()
	mailer := &testutil.MockMailSender{}
	return &api.AuthHandler{
		DB:        testutil.SetupTestDB(t),
		Mailer:    mailer,
		Templates: templates.NewManager("../../templates"),
		BaseURL:   "http://localhost:8080",
	}, mailer
}

func TestRegister(t *testing.T) {
	h, _ := newAuthHandler(t)

	rec := httptest.NewRecorder()
	h.Register(rec, jsonRequest(t, "POST", "/auth/register", api.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	}))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp api.AuthResponse
	decodeBody(t, rec, &resp)
	if resp.Username != "alice" || resp.Token == "" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.IsAdmin {
		t.Error("self-registered users must not be admins")
	}

	claims, err := auth.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.UserID != resp.ID {
		t.Errorf("token user id %d does not match response id %d", claims.UserID, resp.ID)
	}
}

func TestRegisterValidation(t *testing.T) {
	h, _ := newAuthHandler(t)

	cases := []api.RegisterRequest{
		{Username: "", Email: "a@b.c", Password: "password123"},
		{Username: "a", Email: "", Password: "password123"},
		{Username: "a", Email: "a@b.c", Password: ""},
		{Username: "a", Email: "a@b.c", Password: "short"},
	}
	for _, req := range cases {
		rec := httptest.NewRecorder()
		h.Register(rec, jsonRequest(t, "POST", "/auth/register", req))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%+v: expected 400, got %d", req, rec.Code)
		}
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	h, _ := newAuthHandler(t)

	req := api.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "password123"}
	rec := httptest.NewRecorder()
	h.Register(rec, jsonRequest(t, "POST", "/auth/register", req))
	if rec.Code != http.StatusCreated {
		t.Fatalf("first register failed: %d", rec.Code)
	}

	req.Email = "other@example.com"
	rec = httptest.NewRecorder()
	h.Register(rec, jsonRequest(t, "POST", "/auth/register", req))
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate username, got %d", rec.Code)
	}
}

func TestLogin(t *testing.T) {
	h, _ := newAuthHandler(t)

	rec := httptest.NewRecorder()
	h.Register(rec, jsonRequest(t, "POST", "/auth/register", api.RegisterRequest{
		Username: "bob", Email: "bob@example.com", Password: "password123",
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Login(rec, jsonRequest(t, "POST", "/auth/login", api.LoginRequest{
		Username: "bob", Password: "password123",
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp api.AuthResponse
	decodeBody(t, rec, &resp)
	if resp.Token == "" {
		t.Error("expected a token")
	}

	rec = httptest.NewRecorder()
	h.Login(rec, jsonRequest(t, "POST", "/auth/login", api.LoginRequest{
		Username: "bob", Password: "wrong",
	}))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrong password, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Login(rec, jsonRequest(t, "POST", "/auth/login", api.LoginRequest{
		Username: "nobody", Password: "password123",
	}))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for unknown user, got %d", rec.Code)
	}
}

func TestLoginUserWithoutCredential(t *testing.T) {
	h, _ := newAuthHandler(t)

	// Bootstrap-style rows can exist with no password hash
	if _, err := h.DB.CreateUser("ghost", nil, nil, false); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	rec := httptest.NewRecorder()
	h.Login(rec, jsonRequest(t, "POST", "/auth/login", api.LoginRequest{
		Username: "ghost", Password: "anything",
	}))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func extractResetToken(t *testing.T, mailer *testutil.MockMailSender) string {
	t.Helper()
	if len(mailer.SentEmails) == 0 {
		t.Fatal("expected a reset email to be sent")
	}
	body := mailer.SentEmails[len(mailer.SentEmails)-1].TextBody
	i := strings.Index(body, "token=")
	if i < 0 {
		t.Fatalf("no token in mail body %q", body)
	}
	return body[i+len("token="):]
}

func TestPasswordResetFlow(t *testing.T) {
	h, mailer := newAuthHandler(t)

	rec := httptest.NewRecorder()
	h.Register(rec, jsonRequest(t, "POST", "/auth/register", api.RegisterRequest{
		Username: "carol", Email: "carol@example.com", Password: "oldpassword",
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ForgotPassword(rec, jsonRequest(t, "POST", "/forgot-password", map[string]string{
		"email": "carol@example.com",
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("forgot-password failed: %d: %s", rec.Code, rec.Body.String())
	}
	token := extractResetToken(t, mailer)

	rec = httptest.NewRecorder()
	h.ResetPassword(rec, jsonRequest(t, "POST", "/reset-password", map[string]string{
		"reset_token": token,
		"password":    "newpassword",
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("reset-password failed: %d: %s", rec.Code, rec.Body.String())
	}

	// Old password is dead, new one works
	rec = httptest.NewRecorder()
	h.Login(rec, jsonRequest(t, "POST", "/auth/login", api.LoginRequest{Username: "carol", Password: "oldpassword"}))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected old password rejected, got %d", rec.Code)
	}
	rec = httptest.NewRecorder()
	h.Login(rec, jsonRequest(t, "POST", "/auth/login", api.LoginRequest{Username: "carol", Password: "newpassword"}))
	if rec.Code != http.StatusOK {
		t.Errorf("expected new password accepted, got %d", rec.Code)
	}

	// The token is single-use
	rec = httptest.NewRecorder()
	h.ResetPassword(rec, jsonRequest(t, "POST", "/reset-password", map[string]string{
		"reset_token": token,
		"password":    "anotherpassword",
	}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for reused token, got %d", rec.Code)
	}
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	h, mailer := newAuthHandler(t)

	rec := httptest.NewRecorder()
	h.ForgotPassword(rec, jsonRequest(t, "POST", "/forgot-password", map[string]string{
		"email": "nobody@example.com",
	}))

	// Same answer as the known-email case so accounts cannot be enumerated
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if len(mailer.SentEmails) != 0 {
		t.Errorf("expected no email, got %d", len(mailer.SentEmails))
	}
}

func TestResetPasswordExpiredToken(t *testing.T) {
	h, _ := newAuthHandler(t)

	user, err := h.DB.CreateUser("dave", nil, nil, false)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	token, hash, err := auth.GenerateResetToken()
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	expired := time.Now().Add(-time.Minute).Unix()
	if err := h.DB.SetPasswordResetToken(user.ID, hash, expired); err != nil {
		t.Fatalf("failed to set token: %v", err)
	}

	rec := httptest.NewRecorder()
	h.ResetPassword(rec, jsonRequest(t, "POST", "/reset-password", map[string]string{
		"reset_token": token,
		"password":    "newpassword",
	}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for expired token, got %d", rec.Code)
	}
}
