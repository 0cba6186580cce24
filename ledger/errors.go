package ledger

import "errors"

var (
	// ErrValidation covers missing or malformed ticker, exchange or slot input.
	ErrValidation = errors.New("invalid input")
	// ErrCapacityExceeded means the account already holds the maximum of
	// five positions.
	ErrCapacityExceeded = errors.New("portfolio limit reached (max 5 stocks)")
	// ErrPositionNotFound means the slot does not reference a held position.
	ErrPositionNotFound = errors.New("stock not found in portfolio")
	// ErrPriceUnavailable means the price oracle failed or timed out; the
	// operation made no change and may be retried by the caller.
	ErrPriceUnavailable = errors.New("current price unavailable")
	// ErrAccountNotFound means an authenticated identity has no backing
	// account; an internal inconsistency rather than user error.
	ErrAccountNotFound = errors.New("account not found")
	// ErrConflict means a concurrent write was detected on save; the
	// caller should retry the whole operation.
	ErrConflict = errors.New("concurrent modification detected")
)
