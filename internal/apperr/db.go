package apperr

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicate is returned by stores when a unique constraint rejects a write.
var ErrDuplicate = errors.New("duplicate key")

// IsUniqueViolation reports whether err was raised by a unique index, either
// translated by gorm or straight from PostgreSQL.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, ErrDuplicate) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func IsForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation
}

// FromDB maps storage errors to the taxonomy. notFound is the message used
// when no row matched.
func FromDB(err error, notFound string) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &Error{Kind: KindNotFound, Message: notFound, Cause: err}
	}
	if IsUniqueViolation(err) {
		return &Error{Kind: KindConflict, Message: "resource already exists", Cause: err}
	}
	if IsForeignKeyViolation(err) {
		return &Error{Kind: KindConflict, Message: "resource is still referenced", Cause: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Internal("request timed out", err)
	}
	return Internal("database error", err)
}
