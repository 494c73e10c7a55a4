package model

import "errors"

// Error kinds shared by the ledger, the aggregator and the store.
// Callers test for them with errors.Is.
var (
	// ErrValidation marks bad user input. No state changes when it is returned.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound marks a lookup or delete of a record that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStorage marks a failure of the backing store. The attempted
	// operation is abandoned and prior state is preserved.
	ErrStorage = errors.New("storage failure")
)
