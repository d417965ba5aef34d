package storage

import "github.com/pkg/errors"

type storageError string

// ErrNotFound is returned when no record has the requested id.
const ErrNotFound = storageError("not found")

func (e storageError) Error() string {
	return string(e)
}

// IsNotFound reports whether the cause of err is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Cause(err) == ErrNotFound
}
