package kid

import (
	"context"
	"errors"
	"time"

	kiddomain "allowance-app-go/internal/domain/kid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const uniqueViolationCode = "23505"

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(kiddomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Create(ctx context.Context, k *kiddomain.Kid) error {
	err := r.db.WithContext(ctx).Create(k).Error
	if isUniqueViolation(err) {
		return kiddomain.ErrSlugTaken
	}
	return err
}

func (r *PostgresRepository) GetByID(ctx context.Context, kidID string) (*kiddomain.Kid, error) {
	var k kiddomain.Kid
	if err := r.db.WithContext(ctx).Where("id = ?", kidID).First(&k).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, kiddomain.ErrKidNotFound
		}
		return nil, err
	}
	return &k, nil
}

func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*kiddomain.Kid, error) {
	var k kiddomain.Kid
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&k).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, kiddomain.ErrKidNotFound
		}
		return nil, err
	}
	return &k, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]kiddomain.Kid, error) {
	var kids []kiddomain.Kid
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("name asc").
		Find(&kids).Error; err != nil {
		return nil, err
	}
	return kids, nil
}

func (r *PostgresRepository) ListSharedWith(ctx context.Context, email string) ([]kiddomain.Kid, error) {
	var kids []kiddomain.Kid
	if err := r.db.WithContext(ctx).
		Joins("join kid_shares on kid_shares.kid_id = kids.id").
		Where("kid_shares.email = ?", email).
		Order("kids.name asc").
		Find(&kids).Error; err != nil {
		return nil, err
	}
	return kids, nil
}

func (r *PostgresRepository) IsSlugTaken(ctx context.Context, slug, excludeKidID string) (bool, error) {
	query := r.db.WithContext(ctx).Model(&kiddomain.Kid{}).Where("slug = ?", slug)
	if excludeKidID != "" {
		query = query.Where("id <> ?", excludeKidID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) UpdateSettings(ctx context.Context, k *kiddomain.Kid) error {
	err := r.db.WithContext(ctx).
		Model(&kiddomain.Kid{}).
		Where("id = ?", k.ID).
		Updates(map[string]interface{}{
			"name":             k.Name,
			"slug":             k.Slug,
			"weekly_allowance": k.WeeklyAllowance,
			"allowance_day":    k.AllowanceDay,
			"updated_at":       time.Now().UTC(),
		}).Error
	if isUniqueViolation(err) {
		return kiddomain.ErrSlugTaken
	}
	return err
}

func (r *PostgresRepository) SetVisibility(ctx context.Context, kidID string, public bool) error {
	return r.db.WithContext(ctx).
		Model(&kiddomain.Kid{}).
		Where("id = ?", kidID).
		Updates(map[string]interface{}{
			"public":     public,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *PostgresRepository) ListShares(ctx context.Context, kidID string) ([]kiddomain.Share, error) {
	var shares []kiddomain.Share
	if err := r.db.WithContext(ctx).
		Where("kid_id = ?", kidID).
		Order("created_at asc").
		Find(&shares).Error; err != nil {
		return nil, err
	}
	return shares, nil
}

func (r *PostgresRepository) AddShare(ctx context.Context, share *kiddomain.Share) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(share).Error
}

func (r *PostgresRepository) RemoveShare(ctx context.Context, kidID, email string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("kid_id = ? AND email = ?", kidID, email).
		Delete(&kiddomain.Share{})
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) Delete(ctx context.Context, kidID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&kiddomain.Kid{}, "id = ?", kidID)
	return result.RowsAffected > 0, result.Error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
