// Package service implements the data-access operations of the school
// records system. Services validate input, delegate persistence to the
// repositories, publish change events after successful writes, and map
// every failure onto the shared error taxonomy so callers never see raw
// driver errors.
package service

import (
	"fmt"
	"time"

	"github.com/campushq/school-records-api/internal/repository"
	appErrors "github.com/campushq/school-records-api/pkg/errors"
)

// dateOnly normalizes a timestamp to its UTC calendar date.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// opError converts a persistence failure into the opaque operation-failed
// form. Constraint violations surface as conflicts naming the operation;
// everything else becomes an internal error naming the operation.
func opError(op string, err error) error {
	if repository.IsConstraintViolation(err) {
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, fmt.Sprintf("%s failed", op))
	}
	return appErrors.Operation(op, err)
}
