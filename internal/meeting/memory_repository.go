package meeting

import (
	"context"
	"sort"
	"sync"
	"time"
)

type registrationKey struct {
	userID    string
	meetingID string
}

type memoryRepository struct {
	mu            sync.RWMutex
	meetings      map[string]Meeting
	registrations map[registrationKey]string // -> status
}

// NewMemoryRepository builds an in-memory meeting store for testing and dev mode.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		meetings:      make(map[string]Meeting),
		registrations: make(map[registrationKey]string),
	}
}

func (r *memoryRepository) Create(_ context.Context, m Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	r.meetings[m.ID] = m
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.meetings[id]
	if !ok {
		return Meeting{}, ErrNotFound
	}
	m.ParticipantsCount = r.participantCount(id)
	return m, nil
}

func (r *memoryRepository) GetByIDs(_ context.Context, ids []string) ([]Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meetings := []Meeting{}
	for _, id := range ids {
		if m, ok := r.meetings[id]; ok {
			m.ParticipantsCount = r.participantCount(id)
			meetings = append(meetings, m)
		}
	}
	return meetings, nil
}

func (r *memoryRepository) List(_ context.Context) ([]Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meetings := r.snapshot(func(Meeting) bool { return true })
	sort.Slice(meetings, func(i, j int) bool { return meetings[i].DateTime.After(meetings[j].DateTime) })
	return meetings, nil
}

func (r *memoryRepository) ListActive(_ context.Context) ([]Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meetings := r.snapshot(func(m Meeting) bool { return !m.IsEnded })
	sort.Slice(meetings, func(i, j int) bool { return meetings[i].DateTime.Before(meetings[j].DateTime) })
	return meetings, nil
}

func (r *memoryRepository) Update(_ context.Context, id string, input Input) (Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[id]
	if !ok {
		return Meeting{}, ErrNotFound
	}
	m.Title = input.Title
	m.Description = input.Description
	m.Location = input.Location
	m.DateTime = input.DateTime
	m.Icon = input.Icon
	m.Images = input.Images
	m.Tags = input.Tags
	m.UpdatedAt = time.Now().UTC()
	r.meetings[id] = m
	m.ParticipantsCount = r.participantCount(id)
	return m, nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.meetings[id]; !ok {
		return ErrNotFound
	}
	delete(r.meetings, id)
	for key := range r.registrations {
		if key.meetingID == id {
			delete(r.registrations, key)
		}
	}
	return nil
}

func (r *memoryRepository) MarkEnded(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[id]
	if !ok {
		return ErrNotFound
	}
	m.IsEnded = true
	m.UpdatedAt = time.Now().UTC()
	r.meetings[id] = m
	for key := range r.registrations {
		if key.meetingID == id {
			r.registrations[key] = StatusPassed
		}
	}
	return nil
}

func (r *memoryRepository) Register(_ context.Context, userID, meetingID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.meetings[meetingID]; !ok {
		return false, ErrNotFound
	}
	key := registrationKey{userID: userID, meetingID: meetingID}
	if _, exists := r.registrations[key]; exists {
		return false, nil
	}
	r.registrations[key] = StatusPlanned
	return true, nil
}

func (r *memoryRepository) Unregister(_ context.Context, userID, meetingID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := registrationKey{userID: userID, meetingID: meetingID}
	if _, exists := r.registrations[key]; !exists {
		return false, nil
	}
	delete(r.registrations, key)
	return true, nil
}

func (r *memoryRepository) IsRegistered(_ context.Context, userID, meetingID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.registrations[registrationKey{userID: userID, meetingID: meetingID}]
	return exists, nil
}

func (r *memoryRepository) ListForUser(_ context.Context, userID, status string) ([]Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meetings := []Meeting{}
	for key, st := range r.registrations {
		if key.userID != userID {
			continue
		}
		if status != "" && st != status {
			continue
		}
		if m, ok := r.meetings[key.meetingID]; ok {
			m.ParticipantsCount = r.participantCount(key.meetingID)
			meetings = append(meetings, m)
		}
	}
	return meetings, nil
}

// callers hold r.mu
func (r *memoryRepository) participantCount(meetingID string) int {
	count := 0
	for key := range r.registrations {
		if key.meetingID == meetingID {
			count++
		}
	}
	return count
}

// callers hold r.mu
func (r *memoryRepository) snapshot(keep func(Meeting) bool) []Meeting {
	meetings := []Meeting{}
	for id, m := range r.meetings {
		if keep(m) {
			m.ParticipantsCount = r.participantCount(id)
			meetings = append(meetings, m)
		}
	}
	return meetings
}
