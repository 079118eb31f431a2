package auth

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGenerateCodeWidth(t *testing.T) {
	for _, digits := range []int{4, 6} {
		code := GenerateCode(digits)
		if len(code) != digits {
			t.Fatalf("expected %d digits, got %q", digits, code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("expected numeric code, got %q", code)
			}
		}
	}
}

func TestVerifyWithoutIssueFails(t *testing.T) {
	store := NewMemoryChallengeStore(4, 0)
	ok, err := store.Verify(context.Background(), "+15551230000", "1234")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Fatal("expected verify to fail for a number with no challenge")
	}
}

func TestWrongCodeLeavesChallengeIntact(t *testing.T) {
	store := NewMemoryChallengeStore(4, 0)
	ctx := context.Background()

	code, err := store.Issue(ctx, "+15551230000")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	ok, err := store.Verify(ctx, "+15551230000", "0000")
	if err != nil {
		t.Fatalf("verify wrong: %v", err)
	}
	if ok && code != "0000" {
		t.Fatal("wrong code must not verify")
	}

	ok, err = store.Verify(ctx, "+15551230000", code)
	if err != nil {
		t.Fatalf("verify correct: %v", err)
	}
	if !ok {
		t.Fatal("correct code must still verify after a failed attempt")
	}
}

func TestChallengeIsSingleUse(t *testing.T) {
	store := NewMemoryChallengeStore(4, 0)
	ctx := context.Background()

	code, _ := store.Issue(ctx, "+15551230000")
	if ok, _ := store.Verify(ctx, "+15551230000", code); !ok {
		t.Fatal("first verify should succeed")
	}
	if ok, _ := store.Verify(ctx, "+15551230000", code); ok {
		t.Fatal("replay of a consumed code must fail")
	}
}

func TestReissueSupersedesEarlierCode(t *testing.T) {
	store := NewMemoryChallengeStore(6, 0)
	ctx := context.Background()

	first, _ := store.Issue(ctx, "+15551230000")
	second, _ := store.Issue(ctx, "+15551230000")
	if first == second {
		t.Skip("generator produced identical codes, cannot distinguish")
	}

	if ok, _ := store.Verify(ctx, "+15551230000", first); ok {
		t.Fatal("superseded code must not verify")
	}
	if ok, _ := store.Verify(ctx, "+15551230000", second); !ok {
		t.Fatal("latest code must verify")
	}
}

func TestConcurrentVerifySingleWinner(t *testing.T) {
	store := NewMemoryChallengeStore(4, 0)
	ctx := context.Background()

	code, _ := store.Issue(ctx, "+15551230000")

	const workers = 16
	var wins int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			ok, err := store.Verify(ctx, "+15551230000", code)
			if err != nil {
				t.Errorf("verify: %v", err)
				return
			}
			if ok {
				atomic.AddInt64(&wins, 1)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly one successful verification, got %d", wins)
	}
}

func TestExpiredChallengeIsRejected(t *testing.T) {
	store := NewMemoryChallengeStore(4, time.Minute)
	ctx := context.Background()

	code, _ := store.Issue(ctx, "+15551230000")

	store.mu.Lock()
	stale := store.codes["+15551230000"]
	stale.issuedAt = stale.issuedAt.Add(-2 * time.Minute)
	store.codes["+15551230000"] = stale
	store.mu.Unlock()

	if ok, _ := store.Verify(ctx, "+15551230000", code); ok {
		t.Fatal("expired code must not verify")
	}
}

func TestChallengesAreIndependentPerPhone(t *testing.T) {
	store := NewMemoryChallengeStore(4, 0)
	ctx := context.Background()

	codeA, _ := store.Issue(ctx, "+15551230000")
	codeB, _ := store.Issue(ctx, "+15551230001")

	if ok, _ := store.Verify(ctx, "+15551230001", codeB); !ok {
		t.Fatal("second number's code should verify")
	}
	if ok, _ := store.Verify(ctx, "+15551230000", codeA); !ok {
		t.Fatal("first number's code should be untouched by the other consumption")
	}
}
