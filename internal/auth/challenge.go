package auth

import (
	"context"
	"sync"
	"time"
)

// ChallengeStore holds at most one unconsumed OTP per phone number.
//
// Issue overwrites any earlier challenge for the same number (last issued
// wins). Verify is atomic per key: on a match the entry is removed before the
// call returns, so two concurrent verifications of the same code cannot both
// succeed. A mismatch leaves the entry in place so the caller may retry with
// the correct code.
type ChallengeStore interface {
	Issue(ctx context.Context, phoneNumber string) (string, error)
	Verify(ctx context.Context, phoneNumber, code string) (bool, error)
}

type challenge struct {
	code     string
	issuedAt time.Time
}

// MemoryChallengeStore keeps challenges in a process-local map. Suitable for
// single-instance deployments; sessions are stateless and codes are
// short-lived, so losing the map on restart only forces a re-request.
type MemoryChallengeStore struct {
	mu     sync.Mutex
	codes  map[string]challenge
	digits int
	ttl    time.Duration
}

// NewMemoryChallengeStore builds an in-memory challenge store issuing codes of
// the given width. A zero ttl keeps codes until consumed or replaced.
func NewMemoryChallengeStore(digits int, ttl time.Duration) *MemoryChallengeStore {
	return &MemoryChallengeStore{codes: make(map[string]challenge), digits: digits, ttl: ttl}
}

// Issue generates a fresh code for the phone number, replacing any
// outstanding one.
func (s *MemoryChallengeStore) Issue(_ context.Context, phoneNumber string) (string, error) {
	code := GenerateCode(s.digits)
	s.mu.Lock()
	s.codes[phoneNumber] = challenge{code: code, issuedAt: time.Now().UTC()}
	s.mu.Unlock()
	return code, nil
}

// Verify consumes the stored challenge when the submitted code matches.
func (s *MemoryChallengeStore) Verify(_ context.Context, phoneNumber, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.codes[phoneNumber]
	if !ok {
		return false, nil
	}
	if s.ttl > 0 && time.Since(stored.issuedAt) > s.ttl {
		delete(s.codes, phoneNumber)
		return false, nil
	}
	if stored.code != code {
		return false, nil
	}
	delete(s.codes, phoneNumber)
	return true, nil
}
