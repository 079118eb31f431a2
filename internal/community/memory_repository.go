package community

import (
	"context"
	"sort"
	"sync"
	"time"
)

type relationKey struct {
	communityID string
	other       string
}

type memoryRepository struct {
	mu          sync.RWMutex
	communities map[string]Community
	members     map[relationKey]struct{}
	meetings    map[relationKey]struct{}
}

// NewMemoryRepository builds an in-memory community store for testing and dev mode.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		communities: make(map[string]Community),
		members:     make(map[relationKey]struct{}),
		meetings:    make(map[relationKey]struct{}),
	}
}

func (r *memoryRepository) Create(_ context.Context, c Community) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	r.communities[c.ID] = c
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Community, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.communities[id]
	if !ok {
		return Community{}, ErrNotFound
	}
	return r.withCounts(c), nil
}

func (r *memoryRepository) GetByTitle(_ context.Context, title string) (Community, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.communities {
		if c.Title == title {
			return r.withCounts(c), nil
		}
	}
	return Community{}, ErrNotFound
}

func (r *memoryRepository) List(_ context.Context) ([]Community, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	communities := []Community{}
	for _, c := range r.communities {
		communities = append(communities, r.withCounts(c))
	}
	sort.Slice(communities, func(i, j int) bool { return communities[i].Title < communities[j].Title })
	return communities, nil
}

func (r *memoryRepository) Update(_ context.Context, id string, input Input) (Community, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.communities[id]
	if !ok {
		return Community{}, ErrNotFound
	}
	c.Title = input.Title
	c.Description = input.Description
	c.Avatar = input.Avatar
	c.UpdatedAt = time.Now().UTC()
	r.communities[id] = c
	return r.withCounts(c), nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.communities[id]; !ok {
		return ErrNotFound
	}
	delete(r.communities, id)
	for key := range r.members {
		if key.communityID == id {
			delete(r.members, key)
		}
	}
	for key := range r.meetings {
		if key.communityID == id {
			delete(r.meetings, key)
		}
	}
	return nil
}

func (r *memoryRepository) AddMember(_ context.Context, communityID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.communities[communityID]; !ok {
		return false, ErrNotFound
	}
	key := relationKey{communityID: communityID, other: userID}
	if _, exists := r.members[key]; exists {
		return false, nil
	}
	r.members[key] = struct{}{}
	return true, nil
}

func (r *memoryRepository) RemoveMember(_ context.Context, communityID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := relationKey{communityID: communityID, other: userID}
	if _, exists := r.members[key]; !exists {
		return false, nil
	}
	delete(r.members, key)
	return true, nil
}

func (r *memoryRepository) IsMember(_ context.Context, communityID, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.members[relationKey{communityID: communityID, other: userID}]
	return exists, nil
}

func (r *memoryRepository) ListForUser(_ context.Context, userID string) ([]Community, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	communities := []Community{}
	for key := range r.members {
		if key.other != userID {
			continue
		}
		if c, ok := r.communities[key.communityID]; ok {
			communities = append(communities, r.withCounts(c))
		}
	}
	sort.Slice(communities, func(i, j int) bool { return communities[i].Title < communities[j].Title })
	return communities, nil
}

func (r *memoryRepository) AddMeeting(_ context.Context, communityID, meetingID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.communities[communityID]; !ok {
		return false, ErrNotFound
	}
	key := relationKey{communityID: communityID, other: meetingID}
	if _, exists := r.meetings[key]; exists {
		return false, nil
	}
	r.meetings[key] = struct{}{}
	return true, nil
}

func (r *memoryRepository) RemoveMeeting(_ context.Context, communityID, meetingID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := relationKey{communityID: communityID, other: meetingID}
	if _, exists := r.meetings[key]; !exists {
		return false, nil
	}
	delete(r.meetings, key)
	return true, nil
}

func (r *memoryRepository) MeetingIDs(_ context.Context, communityID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := []string{}
	for key := range r.meetings {
		if key.communityID == communityID {
			ids = append(ids, key.other)
		}
	}
	return ids, nil
}

// callers hold r.mu
func (r *memoryRepository) withCounts(c Community) Community {
	for key := range r.members {
		if key.communityID == c.ID {
			c.MemberCount++
		}
	}
	for key := range r.meetings {
		if key.communityID == c.ID {
			c.MeetingsCount++
		}
	}
	return c
}
