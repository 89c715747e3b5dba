package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"bookstore/internal/db"
)

var dbCounter atomic.Int64

// SetupTestDB creates an in-memory SQLite database with the schema applied.
// Each call gets its own shared-cache database so parallel tests and multiple
// pool connections see the same data without seeing each other's.
func SetupTestDB(t *testing.T) *db.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbCounter.Add(1))
	database, err := db.New(dsn)
	if err != nil {
		t.Fatalf("failed to init in-memory db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})
	return database
}

// MockMailSender captures emails for testing
type MockMailSender struct {
	SentEmails []SentEmail
}

type SentEmail struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

func (m *MockMailSender) Send(to, subject, textBody, htmlBody string) error {
	m.SentEmails = append(m.SentEmails, SentEmail{to, subject, textBody, htmlBody})
	return nil
}
