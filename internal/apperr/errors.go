// Package apperr defines the sentinel error kinds shared across Othala.
package apperr

import "errors"

var (
	// ErrNotFound means the account does not own the referenced record.
	ErrNotFound = errors.New("not found")
	// ErrValidation means the request broke a domain rule (self
	// relationship, missing required field, unknown import mode).
	ErrValidation = errors.New("validation failed")
	// ErrConflict means a duplicate directed relationship on explicit create.
	ErrConflict = errors.New("conflict")
	// ErrParse means a snapshot's top-level shape is malformed.
	ErrParse = errors.New("malformed snapshot")
	// ErrImportFailed wraps any failure inside a transactional import.
	// The import transaction is always rolled back in full.
	ErrImportFailed = errors.New("import failed")
)
