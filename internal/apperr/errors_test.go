package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("job not found")))
	assert.Equal(t, KindForbidden, KindOf(fmt.Errorf("wrap: %w", Forbidden("nope"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.False(t, Is(nil, KindInternal))
}

func TestMessageHidesInternalCause(t *testing.T) {
	assert.Equal(t, "job not found", Message(NotFound("job not found")))
	assert.Equal(t, "internal server error", Message(Internal("db down", errors.New("dial tcp"))))
	assert.Equal(t, "internal server error", Message(errors.New("boom")))
}

func TestFromDB(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"record not found", gorm.ErrRecordNotFound, KindNotFound},
		{"gorm duplicate", gorm.ErrDuplicatedKey, KindConflict},
		{"sentinel duplicate", fmt.Errorf("insert: %w", ErrDuplicate), KindConflict},
		{"pg unique", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, KindConflict},
		{"pg foreign key", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, KindConflict},
		{"gorm foreign key", gorm.ErrForeignKeyViolated, KindConflict},
		{"deadline", context.DeadlineExceeded, KindInternal},
		{"other", errors.New("connection reset"), KindInternal},
		{"already mapped", Forbidden("no"), KindForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(FromDB(tt.err, "missing")))
		})
	}
	assert.NoError(t, FromDB(nil, "missing"))
	assert.Equal(t, "missing", Message(FromDB(gorm.ErrRecordNotFound, "missing")))
}
