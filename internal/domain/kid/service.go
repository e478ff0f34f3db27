package kid

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const slugSuffixAttempts = 500

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Name            string
	Slug            string
	WeeklyAllowance int64
	AllowanceDay    string
}

func (s *Service) Create(ctx context.Context, ownerID, ownerEmail string, input CreateInput) (*Kid, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if input.WeeklyAllowance < 0 {
		return nil, ErrInvalidAllowance
	}
	if err := validateAllowanceDay(input.WeeklyAllowance, input.AllowanceDay); err != nil {
		return nil, err
	}

	var result Kid
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		slug, err := resolveSlug(ctx, tx, name, input.Slug, "")
		if err != nil {
			return err
		}

		created := Kid{
			ID:              uuid.NewString(),
			Name:            name,
			Slug:            slug,
			OwnerID:         ownerID,
			OwnerEmail:      strings.ToLower(strings.TrimSpace(ownerEmail)),
			Public:          false,
			Balance:         0,
			WeeklyAllowance: input.WeeklyAllowance,
			AllowanceDay:    input.AllowanceDay,
		}
		if err := tx.Create(ctx, &created); err != nil {
			return err
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *Service) GetByID(ctx context.Context, kidID string) (*Kid, error) {
	return s.repo.GetByID(ctx, kidID)
}

// GetWithRole loads the kid and resolves the viewer's role against it.
func (s *Service) GetWithRole(ctx context.Context, viewer *Viewer, kidID string) (*Kid, Role, error) {
	k, err := s.repo.GetByID(ctx, kidID)
	if err != nil {
		return nil, RoleDenied, err
	}
	role, err := s.roleFor(ctx, viewer, k)
	if err != nil {
		return nil, RoleDenied, err
	}
	return k, role, nil
}

func (s *Service) GetBySlugWithRole(ctx context.Context, viewer *Viewer, slug string) (*Kid, Role, error) {
	k, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, RoleDenied, err
	}
	role, err := s.roleFor(ctx, viewer, k)
	if err != nil {
		return nil, RoleDenied, err
	}
	return k, role, nil
}

// ListForViewer returns the kids the viewer owns plus the kids shared with
// their email, for the parent dashboard.
func (s *Service) ListForViewer(ctx context.Context, viewer Viewer) ([]Kid, error) {
	owned, err := s.repo.ListByOwner(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(owned))
	result := make([]Kid, 0, len(owned))
	for _, k := range owned {
		seen[k.ID] = struct{}{}
		result = append(result, k)
	}

	email := strings.ToLower(strings.TrimSpace(viewer.Email))
	if email != "" {
		shared, err := s.repo.ListSharedWith(ctx, email)
		if err != nil {
			return nil, err
		}
		for _, k := range shared {
			if _, ok := seen[k.ID]; ok {
				continue
			}
			seen[k.ID] = struct{}{}
			result = append(result, k)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

type UpdateSettingsInput struct {
	Name            *string
	Slug            *string
	WeeklyAllowance *int64
	AllowanceDay    *string
}

func (s *Service) UpdateSettings(ctx context.Context, kidID string, input UpdateSettingsInput) (*Kid, error) {
	var result Kid
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		k, err := tx.GetByID(ctx, kidID)
		if err != nil {
			return err
		}

		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return ErrNameRequired
			}
			k.Name = name
		}
		if input.Slug != nil {
			slug, err := resolveSlug(ctx, tx, k.Name, *input.Slug, k.ID)
			if err != nil {
				return err
			}
			k.Slug = slug
		}
		if input.WeeklyAllowance != nil {
			if *input.WeeklyAllowance < 0 {
				return ErrInvalidAllowance
			}
			k.WeeklyAllowance = *input.WeeklyAllowance
		}
		if input.AllowanceDay != nil {
			k.AllowanceDay = *input.AllowanceDay
		}
		if err := validateAllowanceDay(k.WeeklyAllowance, k.AllowanceDay); err != nil {
			return err
		}

		if err := tx.UpdateSettings(ctx, k); err != nil {
			return err
		}

		result = *k
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *Service) SetVisibility(ctx context.Context, kidID string, public bool) error {
	if _, err := s.repo.GetByID(ctx, kidID); err != nil {
		return err
	}
	return s.repo.SetVisibility(ctx, kidID, public)
}

func (s *Service) ListShares(ctx context.Context, kidID string) ([]Share, error) {
	return s.repo.ListShares(ctx, kidID)
}

func (s *Service) Share(ctx context.Context, kidID, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}

	if _, err := s.repo.GetByID(ctx, kidID); err != nil {
		return err
	}

	return s.repo.AddShare(ctx, &Share{KidID: kidID, Email: email})
}

func (s *Service) Revoke(ctx context.Context, kidID, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	removed, err := s.repo.RemoveShare(ctx, kidID, email)
	if err != nil {
		return err
	}
	if !removed {
		return ErrShareNotFound
	}
	return nil
}

// Delete removes the kid; owned transactions and shares cascade with it.
func (s *Service) Delete(ctx context.Context, kidID string) error {
	deleted, err := s.repo.Delete(ctx, kidID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrKidNotFound
	}
	return nil
}

// SlugAvailable is the advisory typing-time check. The authoritative check
// happens at commit time via the unique index. Candidates keep interior
// dashes so auto-suffixed slugs can be queried too.
func (s *Service) SlugAvailable(ctx context.Context, candidate string) (string, bool, error) {
	slug := NormalizeSlugQuery(candidate)
	if slug == "" {
		return "", false, nil
	}
	taken, err := s.repo.IsSlugTaken(ctx, slug, "")
	if err != nil {
		return "", false, err
	}
	return slug, !taken, nil
}

func (s *Service) roleFor(ctx context.Context, viewer *Viewer, k *Kid) (Role, error) {
	var shares []Share
	if viewer != nil && viewer.ID != "" && viewer.ID != k.OwnerID {
		loaded, err := s.repo.ListShares(ctx, k.ID)
		if err != nil {
			return RoleDenied, err
		}
		shares = loaded
	}
	return Authorize(viewer, k, shares), nil
}

func validateAllowanceDay(weeklyAllowance int64, day string) error {
	if day != "" && !ValidDay(day) {
		return ErrInvalidDay
	}
	if weeklyAllowance > 0 && day == "" {
		return ErrInvalidDay
	}
	return nil
}

// resolveSlug picks the slug for a create or settings update. An explicit
// candidate must be free or the operation fails; a slug derived from the name
// is suffixed -1, -2, ... until a free one is found.
func resolveSlug(ctx context.Context, repo Repository, name, explicit, excludeKidID string) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		slug := NormalizeSlug(explicit)
		if slug == "" {
			return "", ErrInvalidSlug
		}
		taken, err := repo.IsSlugTaken(ctx, slug, excludeKidID)
		if err != nil {
			return "", err
		}
		if taken {
			return "", ErrSlugTaken
		}
		return slug, nil
	}

	base := NormalizeSlug(name)
	if base == "" {
		return "", ErrInvalidSlug
	}

	slug := base
	for i := 1; i <= slugSuffixAttempts; i++ {
		taken, err := repo.IsSlugTaken(ctx, slug, excludeKidID)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = base + "-" + strconv.Itoa(i)
	}

	return "", ErrSlugGenerationFailed
}
