package storage

import "errors"

// Errors shared by every TradeRecordStore implementation.
var (
	// ErrNotFound is returned when no trade has the requested id.
	ErrNotFound = errors.New("trade record not found")

	// ErrDuplicateKey is returned when a trade id is already stored, or is
	// repeated inside one bulk insert. Trades are never overwritten.
	ErrDuplicateKey = errors.New("duplicate trade id")

	// ErrInvalidInput is returned for a nil trade or one without an id, ticker
	// or open time.
	ErrInvalidInput = errors.New("invalid trade record")
)
