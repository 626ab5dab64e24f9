// Package repository provides remote-store database access for domain
// entities. Column names are snake_case at the SQL boundary and map onto
// the camelCase field names of the models.
package repository

import "errors"

// Sentinel errors shared by the repositories. Callers classify them at the
// facade boundary.
var (
	// ErrNotFound reports that the requested record does not exist, or is
	// not visible to the requesting user.
	ErrNotFound = errors.New("record not found")

	// ErrNotPending reports a status transition applied to a payment that
	// is no longer pending.
	ErrNotPending = errors.New("payment is not pending")
)
