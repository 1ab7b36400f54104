package database

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique column (slug, email) already holds the value.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrUnavailable is returned when the database connection was lost.
	ErrUnavailable = errors.New("database unavailable")
)

const (
	mysqlDuplicateEntry   = 1062
	mysqlServerGone       = 2006
	mysqlLostConnection   = 2013
	mysqlTooManyConnects  = 1040
	mysqlConnectionKilled = 1927
)

// classify maps driver and gorm errors onto the package sentinels.
// The original error stays in the chain for logging.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w: %v", op, ErrDuplicate, err)
	case isConnectionLoss(err):
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return fmt.Errorf("%s: %w: %v", op, ErrDuplicate, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isConnectionLoss(err error) bool {
	if errors.Is(err, mysql.ErrInvalidConn) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlServerGone, mysqlLostConnection, mysqlTooManyConnects, mysqlConnectionKilled:
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "server has gone away")
}
