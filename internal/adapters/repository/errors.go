package repository

import (
	"errors"
	"fmt"
)

// Sentinel kinds for store errors.
var (
	ErrUpsert          = errors.New("upsert failed")
	ErrList            = errors.New("list failed")
	ErrUnknownDriver   = errors.New("unknown store driver")
	ErrMissingSettings = errors.New("missing store settings")
)

// UpsertError reports a rejected write. Message is the backend's own text.
type UpsertError struct {
	Driver  string
	Rows    int
	Message string
	Err     error
}

func (e *UpsertError) Error() string {
	return fmt.Sprintf("%s upsert of %d rows: %s", e.Driver, e.Rows, e.Message)
}

// Unwrap returns the underlying cause, or ErrUpsert when there is none.
func (e *UpsertError) Unwrap() error {
	if e.Err == nil {
		return ErrUpsert
	}
	return e.Err
}

// Is matches ErrUpsert.
func (e *UpsertError) Is(target error) bool { return target == ErrUpsert }
