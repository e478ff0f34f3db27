package ledger

import "errors"

var (
	ErrKidNotFound         = errors.New("kid not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidAmount       = errors.New("amount must be non-zero")
	ErrEmptyDescription    = errors.New("description is required")
)
