// Package repository holds the data access layer.  Every repository wraps
// an injected *sqlx.DB and takes a context on each call.
//
// The sentinel values below let higher layers distinguish failure
// scenarios without inspecting driver errors.  Lookups that find nothing
// return sql.ErrNoRows unchanged, as database/sql does.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource owned by someone else.  Handlers translate it into 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write would violate a uniqueness
// constraint (duplicate email, duplicate profile, duplicate favorite) or
// when a conditional update finds the row in an unexpected state.
// Handlers translate it into 409.
var ErrConflict = errors.New("conflict")

// isDuplicate reports whether err is a unique-key violation from either
// supported driver.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") || strings.Contains(msg, "unique constraint")
}
