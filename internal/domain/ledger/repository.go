package ledger

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	KidExists(ctx context.Context, kidID string) (bool, error)
	Create(ctx context.Context, txn *Transaction) error
	GetByID(ctx context.Context, kidID, txnID string) (*Transaction, error)
	Update(ctx context.Context, txn *Transaction) error
	Delete(ctx context.Context, kidID, txnID string) (bool, error)
	List(ctx context.Context, kidID string, limit, offset int) ([]Transaction, int64, error)

	// IncrementBalance applies balance = balance + delta as a single atomic
	// store operation, never a read-modify-write of the cached total.
	IncrementBalance(ctx context.Context, kidID string, delta int64) error

	SumAmounts(ctx context.Context, kidID string) (int64, error)
	SetBalance(ctx context.Context, kidID string, balance int64) error
}
