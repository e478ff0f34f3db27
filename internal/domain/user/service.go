package user

import (
	"context"
	"fmt"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// UpsertProfile records the parent's latest identity details whenever a
// session is created.
func (s *Service) UpsertProfile(ctx context.Context, userID, email, name string) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}

	profile := Profile{UserID: userID}
	if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
		profile.Email = &email
	}
	if name = strings.TrimSpace(name); name != "" {
		profile.Name = &name
	}

	return s.repo.UpsertProfile(ctx, &profile)
}
