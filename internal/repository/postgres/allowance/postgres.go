package allowance

import (
	"context"

	allowancedomain "allowance-app-go/internal/domain/allowance"
	kiddomain "allowance-app-go/internal/domain/kid"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListDue(ctx context.Context, day string) ([]allowancedomain.Recipient, error) {
	var kids []kiddomain.Kid
	if err := r.db.WithContext(ctx).
		Where("allowance_day = ? AND weekly_allowance > 0", day).
		Order("name asc").
		Find(&kids).Error; err != nil {
		return nil, err
	}

	recipients := make([]allowancedomain.Recipient, 0, len(kids))
	for _, k := range kids {
		recipients = append(recipients, allowancedomain.Recipient{
			KidID:  k.ID,
			Name:   k.Name,
			Amount: k.WeeklyAllowance,
		})
	}
	return recipients, nil
}
