package database

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

// MySQL server error numbers.
const (
	mysqlDuplicateEntry  = 1062
	mysqlNoReferencedRow = 1452
)

var (
	// Duplicate entry 'x' for key 'users.mobile_number' (8.0) or key 'mobile_number' (5.7)
	mysqlDupKey = regexp.MustCompile(`for key '([^']+)'`)
	// UNIQUE constraint failed: users.mobile_number
	sqliteDupKey = regexp.MustCompile(`UNIQUE constraint failed: ([\w.]+)`)
)

// DuplicateColumn reports whether err is a unique-constraint violation and,
// when the driver says so, which column caused it.  Unique indexes are named
// after their column in the migrations so the two coincide.
func DuplicateColumn(err error) (string, bool) {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
		if m := mysqlDupKey.FindStringSubmatch(me.Message); m != nil {
			return lastSegment(m[1]), true
		}
		return "", true
	}
	var se sqlite3.Error
	if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint &&
		(se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
		if m := sqliteDupKey.FindStringSubmatch(se.Error()); m != nil {
			return lastSegment(m[1]), true
		}
		return "", true
	}
	return "", false
}

// IsForeignKeyViolation reports whether err was raised because a referenced
// row does not exist.
func IsForeignKeyViolation(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlNoReferencedRow
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.Code == sqlite3.ErrConstraint && se.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}

func lastSegment(key string) string {
	if i := strings.LastIndex(key, "."); i >= 0 {
		return key[i+1:]
	}
	return key
}
