// Package repository defines the data access layer and the error values
// shared across repositories.  These sentinels let handlers distinguish
// failure scenarios without inspecting driver errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrEmailExists is returned when registering an email that is taken.
	ErrEmailExists = errors.New("email already exists")
	// ErrUsernameExists is returned when registering a username that is taken.
	ErrUsernameExists = errors.New("username already exists")
	// ErrPasswordTooLong is returned when a password exceeds bcrypt's 72
	// byte input limit.
	ErrPasswordTooLong = bcrypt.ErrPasswordTooLong
	// ErrUserNotFound is returned when no user matches a lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrContentNotFound is returned when a content id does not exist.
	ErrContentNotFound = errors.New("content not found")
	// ErrFavoriteNotFound is returned when removing a favorite that does not exist.
	ErrFavoriteNotFound = errors.New("favorite not found")
)

// MySQL server error numbers.
const (
	errDupEntry     = 1062
	errNoReferenced = 1452
)

func mysqlErrNumber(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}

func isDuplicateKey(err error) bool { return mysqlErrNumber(err) == errDupEntry }

func isMissingReference(err error) bool { return mysqlErrNumber(err) == errNoReferenced }
