package fault

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Duplicate-row races (a second reservation for a quote, a second assignment
// of the same employee to a task) reach the caller as the database's unique
// violation; MapUnique is what turns them into a Conflict instead of a 500.
func TestMapUniqueTurnsUniqueViolationIntoConflict(t *testing.T) {
	pgErr := &pgconn.PgError{Code: pgerrcode.UniqueViolation}

	err := MapUnique(pgErr, "reservation already exists for this quote")
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Contains(t, err.Error(), "reservation already exists for this quote")

	wrapped := fmt.Errorf("insert: %w", pgErr)
	assert.Equal(t, KindConflict, KindOf(MapUnique(wrapped, "employee is already assigned to this task")))
}

func TestMapUniquePassesOtherErrorsThrough(t *testing.T) {
	other := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}
	assert.Equal(t, error(other), MapUnique(other, "unused"))
	assert.Equal(t, KindInternal, KindOf(MapUnique(other, "unused")))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, MapUnique(plain, "unused"))
	assert.Nil(t, MapUnique(nil, "unused"))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("missing")))
	assert.Equal(t, KindInvalidTransition, KindOf(InvalidTransitionf("from %s", "Aprobada")))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}
