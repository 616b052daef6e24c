// Package repository contains data access logic separated from HTTP
// handlers and from the eighth admission engine.  This file defines
// error values reused across multiple repositories.  ErrConflict
// signals that an operation cannot proceed because of dependent
// records (e.g. deleting a room still assigned to an activity).
package repository

import (
	"errors"
	"strings"
)

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state.  Handlers should translate this into
// an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// isDuplicate reports whether err is a MySQL duplicate-entry error
// (code 1062), i.e. a unique-key violation.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
