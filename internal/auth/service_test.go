package auth

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/whysoezzy/meetups_server/internal/user"
)

type captureSender struct {
	mu    sync.Mutex
	codes map[string]string
	fail  bool
}

func newCaptureSender() *captureSender {
	return &captureSender{codes: make(map[string]string)}
}

func (s *captureSender) Send(_ context.Context, phone, code string) error {
	if s.fail {
		return errors.New("delivery failed")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[phone] = code
	return nil
}

func (s *captureSender) lastCode(phone string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[phone]
}

func newTestService(sender *captureSender) (*Service, *user.Service, *TokenIssuer) {
	users := user.NewService(user.NewMemoryRepository())
	tokens := NewTokenIssuer(testConfig())
	svc := NewService(NewMemoryChallengeStore(4, 0), users, tokens, sender)
	return svc, users, tokens
}

func TestFullAuthenticationFlow(t *testing.T) {
	sender := newCaptureSender()
	svc, _, tokens := newTestService(sender)
	ctx := context.Background()

	if err := svc.RequestChallenge(ctx, "+15551230000"); err != nil {
		t.Fatalf("request challenge: %v", err)
	}
	code := sender.lastCode("+15551230000")
	if code == "" {
		t.Fatal("expected a delivered code")
	}

	// A wrong attempt fails and must not consume the challenge.
	wrong := "0000"
	if wrong == code {
		wrong = "0001"
	}
	if _, err := svc.CompleteChallenge(ctx, "+15551230000", wrong); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode for wrong code, got %v", err)
	}

	result, err := svc.CompleteChallenge(ctx, "+15551230000", code)
	if err != nil {
		t.Fatalf("complete challenge: %v", err)
	}
	if result.Profile.PhoneNumber != "+15551230000" {
		t.Fatalf("expected profile for +15551230000, got %s", result.Profile.PhoneNumber)
	}
	if result.Profile.Name != "User" {
		t.Fatalf("expected placeholder name User, got %s", result.Profile.Name)
	}

	sub, err := tokens.Validate(result.Token)
	if err != nil {
		t.Fatalf("validate minted token: %v", err)
	}
	if sub != result.UserID {
		t.Fatalf("token subject %s does not match user id %s", sub, result.UserID)
	}

	// The challenge was consumed; the same code cannot be replayed.
	if _, err := svc.CompleteChallenge(ctx, "+15551230000", code); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode on replay, got %v", err)
	}
}

func TestCompleteChallengeReturnsExistingUser(t *testing.T) {
	sender := newCaptureSender()
	svc, users, _ := newTestService(sender)
	ctx := context.Background()

	existing, err := users.ResolveByPhone(ctx, "+15551230001")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	if err := svc.RequestChallenge(ctx, "+15551230001"); err != nil {
		t.Fatalf("request challenge: %v", err)
	}
	result, err := svc.CompleteChallenge(ctx, "+15551230001", sender.lastCode("+15551230001"))
	if err != nil {
		t.Fatalf("complete challenge: %v", err)
	}
	if result.UserID != existing.ID {
		t.Fatalf("expected existing user %s, got %s", existing.ID, result.UserID)
	}
}

func TestDeliveryFailureKeepsChallengeIssued(t *testing.T) {
	sender := newCaptureSender()
	store := NewMemoryChallengeStore(4, 0)
	users := user.NewService(user.NewMemoryRepository())
	svc := NewService(store, users, NewTokenIssuer(testConfig()), sender)
	ctx := context.Background()

	sender.fail = true
	if err := svc.RequestChallenge(ctx, "+15551230002"); err == nil {
		t.Fatal("expected delivery failure to surface")
	}

	// The challenge survives the failed delivery: issuing again and verifying
	// the new code works, and the store held an entry in the meantime.
	sender.fail = false
	if err := svc.RequestChallenge(ctx, "+15551230002"); err != nil {
		t.Fatalf("second request: %v", err)
	}
	if _, err := svc.CompleteChallenge(ctx, "+15551230002", sender.lastCode("+15551230002")); err != nil {
		t.Fatalf("complete challenge: %v", err)
	}
}

func TestConcurrentCompletionsCreateOneUser(t *testing.T) {
	sender := newCaptureSender()
	svc, users, _ := newTestService(sender)
	ctx := context.Background()

	const attempts = 16
	userIDs := make(chan string, attempts)
	var succeeded int
	var mu sync.Mutex
	var wg sync.WaitGroup

	if err := svc.RequestChallenge(ctx, "+15551230003"); err != nil {
		t.Fatalf("request challenge: %v", err)
	}
	code := sender.lastCode("+15551230003")

	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			result, err := svc.CompleteChallenge(ctx, "+15551230003", code)
			if err != nil {
				if !errors.Is(err, ErrInvalidCode) {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			mu.Lock()
			succeeded++
			mu.Unlock()
			userIDs <- result.UserID
		}()
	}
	wg.Wait()
	close(userIDs)

	if succeeded != 1 {
		t.Fatalf("expected exactly one successful completion, got %d", succeeded)
	}
	for id := range userIDs {
		if _, err := users.Get(ctx, id); err != nil {
			t.Fatalf("winner's user %s not persisted: %v", id, err)
		}
	}
}
