package ledger

import (
	"errors"
	"fmt"
)

// ErrUnavailable reports that no usable database connection exists.
var ErrUnavailable = errors.New("database connection is not available")

// ValidationError reports a missing or invalid request field. It is always a
// client error; storage is never touched when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StorageError wraps a failed read or write against the backing store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
