package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/reptrack/internal/schema"
)

// ErrConstraint is returned (wrapped together with the driver error) when a
// write violates a uniqueness or NOT NULL constraint.
var ErrConstraint = errors.New("constraint violation")

// ErrFutureSchema is returned by Open when the database was written by a
// newer build with migrations this build does not know.
var ErrFutureSchema = errors.New("database schema is newer than this build")

// SchemaMismatchError reports a table whose on-disk columns differ from the
// expected definition. Found is empty when the table does not exist.
type SchemaMismatchError struct {
	Table    string
	Expected []schema.Column
	Found    []schema.Column
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch in table %q: expected [%s], found [%s]",
		e.Table, joinColumns(e.Expected), joinColumns(e.Found))
}

func joinColumns(cols []schema.Column) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

// IsSchemaMismatch reports whether err carries a *SchemaMismatchError.
func IsSchemaMismatch(err error) bool {
	var mismatch *SchemaMismatchError
	return errors.As(err, &mismatch)
}

// classify tags driver constraint failures with ErrConstraint so callers can
// use errors.Is without importing the driver.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var se sqlite3.Error
	if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %w", ErrConstraint, err)
	}
	var sep *sqlite3.Error
	if errors.As(err, &sep) && sep.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %w", ErrConstraint, err)
	}
	return err
}
