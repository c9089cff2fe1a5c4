package database

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"

	"github.com/lib/pq"
)

// Sentinel errors returned by the query layer. Handlers map these to HTTP
// status codes; nothing above this package inspects driver errors directly.
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateKey     = errors.New("duplicate key")
	ErrForeignKey       = errors.New("referenced record does not exist")
	ErrConnectionFailed = errors.New("database unreachable")
	ErrInvalidInput     = errors.New("invalid input")
)

// translateDBError converts driver-level failures into the sentinel errors
// above. SQLSTATE 23505 is unique_violation, 23503 foreign_key_violation and
// class 08 covers connection exceptions.
func translateDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if errors.Is(err, driver.ErrBadConn) {
		return ErrConnectionFailed
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == "23505":
			return ErrDuplicateKey
		case pqErr.Code == "23503":
			return ErrForeignKey
		case strings.HasPrefix(string(pqErr.Code), "08"):
			return ErrConnectionFailed
		}
	}
	return err
}
