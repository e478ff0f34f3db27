// Package ledger is the single choke point for balance-affecting operations.
// Every mutation writes the transaction record and the kid's cached balance
// inside one store transaction, so readers never observe one without the
// other and the invariant balance == sum(amounts) holds after every commit.
package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Append creates a transaction with a server-assigned timestamp and
// increments the kid's balance by the amount.
func (s *Service) Append(ctx context.Context, kidID string, amount int64, description string, attribution Attribution) (*Transaction, error) {
	if amount == 0 {
		return nil, ErrInvalidAmount
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}

	var result Transaction
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		exists, err := tx.KidExists(ctx, kidID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrKidNotFound
		}

		txn := Transaction{
			ID:          uuid.NewString(),
			KidID:       kidID,
			Amount:      amount,
			Description: description,
			Date:        s.now(),
			ParentName:  attribution.Name,
			ParentEmail: strings.ToLower(strings.TrimSpace(attribution.Email)),
		}
		if err := tx.Create(ctx, &txn); err != nil {
			return err
		}
		if err := tx.IncrementBalance(ctx, kidID, amount); err != nil {
			return err
		}

		result = txn
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Edit updates a transaction's amount and description and applies the delta
// to the kid's balance. The transaction's date stays untouched.
func (s *Service) Edit(ctx context.Context, kidID, txnID string, newAmount int64, newDescription string) (*Transaction, error) {
	if newAmount == 0 {
		return nil, ErrInvalidAmount
	}
	newDescription = strings.TrimSpace(newDescription)
	if newDescription == "" {
		return nil, ErrEmptyDescription
	}

	var result Transaction
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		exists, err := tx.KidExists(ctx, kidID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrKidNotFound
		}

		txn, err := tx.GetByID(ctx, kidID, txnID)
		if err != nil {
			return err
		}

		delta := newAmount - txn.Amount
		txn.Amount = newAmount
		txn.Description = newDescription
		if err := tx.Update(ctx, txn); err != nil {
			return err
		}
		if delta != 0 {
			if err := tx.IncrementBalance(ctx, kidID, delta); err != nil {
				return err
			}
		}

		result = *txn
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Delete removes a transaction and decrements the kid's balance by its
// amount.
func (s *Service) Delete(ctx context.Context, kidID, txnID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		exists, err := tx.KidExists(ctx, kidID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrKidNotFound
		}

		txn, err := tx.GetByID(ctx, kidID, txnID)
		if err != nil {
			return err
		}

		deleted, err := tx.Delete(ctx, kidID, txnID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrTransactionNotFound
		}

		return tx.IncrementBalance(ctx, kidID, -txn.Amount)
	})
}

func (s *Service) List(ctx context.Context, kidID string, limit, offset int) ([]Transaction, int64, error) {
	exists, err := s.repo.KidExists(ctx, kidID)
	if err != nil {
		return nil, 0, err
	}
	if !exists {
		return nil, 0, ErrKidNotFound
	}
	return s.repo.List(ctx, kidID, limit, offset)
}

// Recalculate recomputes the balance from the full ledger and overwrites the
// cached total, healing any drift the delta path might have accumulated.
func (s *Service) Recalculate(ctx context.Context, kidID string) (int64, error) {
	var balance int64
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		exists, err := tx.KidExists(ctx, kidID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrKidNotFound
		}

		sum, err := tx.SumAmounts(ctx, kidID)
		if err != nil {
			return err
		}
		if err := tx.SetBalance(ctx, kidID, sum); err != nil {
			return err
		}

		balance = sum
		return nil
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}
