package kid

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	Create(ctx context.Context, kid *Kid) error
	GetByID(ctx context.Context, kidID string) (*Kid, error)
	GetBySlug(ctx context.Context, slug string) (*Kid, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Kid, error)
	ListSharedWith(ctx context.Context, email string) ([]Kid, error)
	IsSlugTaken(ctx context.Context, slug, excludeKidID string) (bool, error)
	UpdateSettings(ctx context.Context, kid *Kid) error
	SetVisibility(ctx context.Context, kidID string, public bool) error
	ListShares(ctx context.Context, kidID string) ([]Share, error)
	AddShare(ctx context.Context, share *Share) error
	RemoveShare(ctx context.Context, kidID, email string) (bool, error)
	Delete(ctx context.Context, kidID string) (bool, error)
}
