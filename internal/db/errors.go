package db

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
)

// Every store operation surfaces exactly one of these kinds to its caller,
// wrapped with context via fmt.Errorf("...: %w", ...). Anything that is not
// one of them is a storage failure.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
)

const (
	mysqlErrDupEntry        = 1062
	mysqlErrNoReferencedRow = 1452
	sqliteConstraintUnique  = 2067
	sqliteConstraintPrimary = 1555
	sqliteConstraintForeign = 787
)

// isUniqueViolation reports whether err is a composite-key uniqueness
// violation from either backend. Uniqueness is enforced by the storage layer,
// not by check-then-insert, so this is the only way duplicates announce
// themselves.
func isUniqueViolation(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlErrDupEntry
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqliteConstraintUnique || code == sqliteConstraintPrimary
	}

	return false
}

// isForeignKeyViolation reports whether err means a referenced book or user
// row does not exist. Store operations translate it to ErrNotFound.
func isForeignKeyViolation(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlErrNoReferencedRow
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqliteConstraintForeign
	}

	return false
}
