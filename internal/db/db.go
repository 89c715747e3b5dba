package db

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQLite string

//go:embed schema_mysql.sql
var schemaMySQL string

const (
	dialectSQLite = "sqlite"
	dialectMySQL  = "mysql"
)

// DB is the shared storage handle. It is opened once at process start and
// closed at shutdown; every store operation is a method on it. The dialect is
// recorded at open time so upserts can use the native atomic form of whichever
// engine is behind the handle.
type DB struct {
	*sql.DB
	dialect string
}

func New(dsn string) (*DB, error) {
	var conn *sql.DB
	var err error
	var dialect string

	// MySQL DSNs look like user:password@tcp(host:port)/dbname; a SQLite DSN
	// is a file path or :memory:. The '@' is the discriminator.
	if strings.Contains(dsn, "@") {
		dialect = dialectMySQL
		conn, err = sql.Open("mysql", dsn)
	} else {
		dialect = dialectSQLite
		if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			dir := filepath.Dir(dsn)
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}

		// modernc.org/sqlite applies _pragma query parameters to every
		// connection in the pool, which a plain Exec would not.
		if !strings.Contains(dsn, "?") {
			dsn += "?"
		} else {
			dsn += "&"
		}
		pragmas := []string{
			"_pragma=foreign_keys(1)",
			"_pragma=journal_mode(WAL)",
			"_pragma=busy_timeout(30000)",
			"_pragma=synchronous(NORMAL)",
		}
		dsn += strings.Join(pragmas, "&")

		conn, err = sql.Open("sqlite", dsn)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if dialect == dialectSQLite {
		// Catalog reads fan out into per-book queries; a single-connection
		// pool deadlocks when a reader holds one connection and needs another.
		conn.SetMaxOpenConns(25)
	}

	if err := initSchema(conn, dialect); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &DB{DB: conn, dialect: dialect}, nil
}

func initSchema(conn *sql.DB, dialect string) error {
	schema := schemaSQLite
	if dialect == dialectMySQL {
		schema = schemaMySQL
	}

	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := conn.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// WithTx runs fn inside a transaction, rolling back on error.
func (db *DB) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}
