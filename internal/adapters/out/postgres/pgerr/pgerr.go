// Package pgerr maps PostgreSQL failures onto the error taxonomy of the core.
package pgerr

import (
	"dispatch/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// IsUniqueViolation reports a duplicate key, whether or not gorm translated it.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func IsForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}

// Write classifies an insert or update failure. A duplicate key means another
// transaction got there first and is reported as a concurrent conflict.
func Write(err error, aggregate, id string) error {
	if err == nil {
		return nil
	}
	if IsUniqueViolation(err) {
		return errs.NewConcurrentConflictErrorWithCause(aggregate, id, err)
	}
	if IsForeignKeyViolation(err) {
		return errs.NewObjectNotFoundErrorWithCause(aggregate, id, err)
	}
	return errors.Wrapf(err, "write %s %s", aggregate, id)
}

// Read maps a missing row to ObjectNotFoundError.
func Read(err error, aggregate string, id any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError(aggregate, id)
	}
	return errors.Wrapf(err, "read %s %v", aggregate, id)
}

// Versioned checks the outcome of a compare-and-swap update. No affected row
// means the stored version moved on.
func Versioned(result *gorm.DB, aggregate, id string) error {
	if result.Error != nil {
		return Write(result.Error, aggregate, id)
	}
	if result.RowsAffected == 0 {
		return errs.NewConcurrentConflictError(aggregate, id)
	}
	return nil
}
