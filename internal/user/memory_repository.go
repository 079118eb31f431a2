package user

import (
	"context"
	"sync"
	"time"
)

type memoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]User
	byPhone map[string]string

	// relation counts keyed by user id, settable by tests via SeedCounts.
	planned     map[string]int
	passed      map[string]int
	communities map[string]int
}

// NewMemoryRepository builds an in-memory user store for testing and dev mode.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		byID:        make(map[string]User),
		byPhone:     make(map[string]string),
		planned:     make(map[string]int),
		passed:      make(map[string]int),
		communities: make(map[string]int),
	}
}

func (r *memoryRepository) Create(_ context.Context, user User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byPhone[user.PhoneNumber]; exists {
		return ErrPhoneTaken
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.byID[user.ID] = user
	r.byPhone[user.PhoneNumber] = user.ID
	return nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (r *memoryRepository) FindByPhone(_ context.Context, phone string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byPhone[phone]
	if !ok {
		return User{}, ErrNotFound
	}
	return r.byID[id], nil
}

func (r *memoryRepository) Update(_ context.Context, id string, input UpdateInput) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	user.Name = input.Name
	user.Surname = input.Surname
	if input.SocialLinks != nil {
		user.SocialLinks = input.SocialLinks
	}
	user.UpdatedAt = time.Now().UTC()
	r.byID[id] = user
	return user, nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	delete(r.byPhone, user.PhoneNumber)
	return nil
}

func (r *memoryRepository) ProfileByID(_ context.Context, id string) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byID[id]
	if !ok {
		return Profile{}, ErrNotFound
	}
	links := user.SocialLinks
	if links == nil {
		links = map[string]string{}
	}
	return Profile{
		ID:                   user.ID,
		PhoneNumber:          user.PhoneNumber,
		Name:                 user.Name,
		Surname:              user.Surname,
		SocialLinks:          links,
		PlannedMeetingsCount: r.planned[id],
		PassedMeetingsCount:  r.passed[id],
		CommunitiesCount:     r.communities[id],
	}, nil
}

// SeedCounts sets the derived profile counters on a memory repository.
func SeedCounts(repo Repository, id string, planned, passed, communities int) {
	m, ok := repo.(*memoryRepository)
	if !ok {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.planned[id] = planned
	m.passed[id] = passed
	m.communities[id] = communities
}
