package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// placeholderName is assigned to users provisioned on first OTP verification.
const placeholderName = "User"

// Service manages user lifecycle.
type Service struct {
	repo Repository
}

// NewService creates a new user service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ResolveByPhone returns the user owning the phone number, provisioning a
// placeholder record on first sight. Two concurrent calls for the same unseen
// number race on the phone uniqueness constraint; the loser re-fetches the row
// the winner inserted, so exactly one user ever exists per phone number.
func (s *Service) ResolveByPhone(ctx context.Context, phone string) (User, error) {
	existing, err := s.repo.FindByPhone(ctx, phone)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	fresh := User{
		ID:          uuid.NewString(),
		PhoneNumber: phone,
		Name:        placeholderName,
		SocialLinks: map[string]string{},
	}
	if err := s.repo.Create(ctx, fresh); err != nil {
		if errors.Is(err, ErrPhoneTaken) {
			return s.repo.FindByPhone(ctx, phone)
		}
		return User{}, err
	}
	return fresh, nil
}

// Get fetches a user by id.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.repo.FindByID(ctx, id)
}

// Profile returns the user profile projection with derived counts.
func (s *Service) Profile(ctx context.Context, id string) (Profile, error) {
	return s.repo.ProfileByID(ctx, id)
}

// Update overwrites profile fields.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (User, error) {
	return s.repo.Update(ctx, id, input)
}

// Delete removes the user account.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
