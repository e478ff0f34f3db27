package ledger

import (
	"context"
	"errors"
	"time"

	kiddomain "allowance-app-go/internal/domain/kid"
	ledgerdomain "allowance-app-go/internal/domain/ledger"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(ledgerdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) KidExists(ctx context.Context, kidID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&kiddomain.Kid{}).
		Where("id = ?", kidID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) Create(ctx context.Context, txn *ledgerdomain.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, kidID, txnID string) (*ledgerdomain.Transaction, error) {
	var txn ledgerdomain.Transaction
	if err := r.db.WithContext(ctx).
		Where("kid_id = ? AND id = ?", kidID, txnID).
		First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledgerdomain.ErrTransactionNotFound
		}
		return nil, err
	}
	return &txn, nil
}

func (r *PostgresRepository) Update(ctx context.Context, txn *ledgerdomain.Transaction) error {
	return r.db.WithContext(ctx).
		Model(&ledgerdomain.Transaction{}).
		Where("id = ? AND kid_id = ?", txn.ID, txn.KidID).
		Updates(map[string]interface{}{
			"amount":      txn.Amount,
			"description": txn.Description,
			"updated_at":  time.Now().UTC(),
		}).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, kidID, txnID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&ledgerdomain.Transaction{}, "kid_id = ? AND id = ?", kidID, txnID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) List(ctx context.Context, kidID string, limit, offset int) ([]ledgerdomain.Transaction, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&ledgerdomain.Transaction{}).
		Where("kid_id = ?", kidID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("date desc, created_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var items []ledgerdomain.Transaction
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// IncrementBalance applies the delta with a single UPDATE expression so
// concurrent increments never lose each other. updated_at is bumped so live
// subscribers notice the change.
func (r *PostgresRepository) IncrementBalance(ctx context.Context, kidID string, delta int64) error {
	return r.db.WithContext(ctx).
		Exec("UPDATE kids SET balance = balance + ?, updated_at = ? WHERE id = ?", delta, time.Now().UTC(), kidID).
		Error
}

func (r *PostgresRepository) SumAmounts(ctx context.Context, kidID string) (int64, error) {
	var sum int64
	if err := r.db.WithContext(ctx).
		Raw("SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE kid_id = ?", kidID).
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum, nil
}

func (r *PostgresRepository) SetBalance(ctx context.Context, kidID string, balance int64) error {
	return r.db.WithContext(ctx).
		Exec("UPDATE kids SET balance = ?, updated_at = ? WHERE id = ?", balance, time.Now().UTC(), kidID).
		Error
}
