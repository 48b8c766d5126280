// Package repository provides account persistence for PostgreSQL, MySQL, Redis and memory.
package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/allisson/storefront/internal/account/domain"
	apperrors "github.com/allisson/storefront/internal/errors"
)

// MySQL error number for duplicate entries on a unique key.
const mysqlDuplicateEntry = 1062

// storeError wraps err with action. Connection-level failures additionally wrap
// ErrStoreUnavailable so callers can tell an outage from a query bug.
func storeError(err error, action string) error {
	if isConnectionError(err) {
		return fmt.Errorf("%s: %w: %w", action, domain.ErrStoreUnavailable, err)
	}
	return apperrors.Wrap(err, action)
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, redis.ErrClosed) ||
		errors.Is(err, redis.ErrPoolTimeout) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		return pgerrcode.IsConnectionException(code) ||
			code == pgerrcode.AdminShutdown ||
			code == pgerrcode.CannotConnectNow
	}

	return false
}

func isPostgreSQLUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgerrcode.UniqueViolation
}

func isMySQLDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
