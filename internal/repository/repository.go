// Package repository implements persistence for school records on top of
// PostgreSQL via sqlx. Every write relies on the schema's constraint engine
// for integrity; uniqueness and foreign-key failures are detectable through
// the helpers below.
package repository

import (
	"errors"

	"github.com/lib/pq"
)

// Postgres error classes for constraint violations.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err is a unique-constraint failure.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

// IsForeignKeyViolation reports whether err is a foreign-key failure.
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation
}

// IsConstraintViolation reports whether err is any integrity-constraint
// failure (class 23).
func IsConstraintViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && len(pqErr.Code) >= 2 && pqErr.Code[:2] == "23"
}
