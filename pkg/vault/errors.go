package vault

import (
	"errors"
	"fmt"

	"github.com/loganmanery/credvault/internal/crypto"
	"github.com/loganmanery/credvault/internal/storage"
)

// Error kinds returned by the vault. Test with errors.Is.
var (
	// ErrValidation indicates a caller-supplied field is empty or invalid.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates the id does not reference an existing credential.
	ErrNotFound = storage.ErrNotFound

	// ErrDecryption indicates a token is unreadable under the current key,
	// including a wrong passphrase at open time.
	ErrDecryption = crypto.ErrDecryption

	// ErrStorage indicates the database file could not be read or written.
	ErrStorage = errors.New("storage failure")
)

// ValidationError names the rejected field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Is matches ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StorageError carries the underlying database error unchanged
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is matches ErrStorage
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// storageErr classifies an error from the storage layer. Missing rows pass
// through as ErrNotFound, everything else becomes a StorageError.
func storageErr(op string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
