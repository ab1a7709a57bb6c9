package changelog

import "errors"

// Sentinel errors returned by ChangeLog operations.
var (
	// ErrRange indicates an offset or length outside the logical file.
	ErrRange = errors.New("offset or length outside logical file")

	// ErrTransactionOpen indicates BeginTransaction was called while a
	// transaction was already open.
	ErrTransactionOpen = errors.New("transaction already open")

	// ErrTransactionClosed indicates EndTransaction was called with no
	// open transaction.
	ErrTransactionClosed = errors.New("no open transaction")

	// ErrSerialNotFound indicates GetChange was called with an unknown serial.
	ErrSerialNotFound = errors.New("change serial not found")
)
