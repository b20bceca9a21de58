// Package repository declares the sentinel errors shared by every
// storage backend. A soft-deleted record is reported exactly like an
// absent one.
package repository

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
)
