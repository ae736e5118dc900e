package storage

import (
	"errors"
	"fmt"
)

// ErrStorage is wrapped around every persistence-layer failure (backend
// unreachable, I/O error) so callers can match the whole class with errors.Is
// regardless of which backend is configured. The ledger never retries these;
// the caller decides.
var ErrStorage = errors.New("storage failure")

// Failure wraps a backend error with ErrStorage and the failed operation name.
func Failure(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
