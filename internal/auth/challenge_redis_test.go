package auth

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupRedisStore(t *testing.T, ttl time.Duration) (*RedisChallengeStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return NewRedisChallengeStore(client, 4, ttl), mr
}

func TestRedisStoreSingleUse(t *testing.T) {
	store, _ := setupRedisStore(t, 0)
	ctx := context.Background()

	code, err := store.Issue(ctx, "+15551230000")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if ok, _ := store.Verify(ctx, "+15551230000", "wrong"); ok {
		t.Fatal("wrong code must not verify")
	}
	if ok, _ := store.Verify(ctx, "+15551230000", code); !ok {
		t.Fatal("correct code should verify after a failed attempt")
	}
	if ok, _ := store.Verify(ctx, "+15551230000", code); ok {
		t.Fatal("replay of a consumed code must fail")
	}
}

func TestRedisStoreReissueSupersedes(t *testing.T) {
	store, _ := setupRedisStore(t, 0)
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

func TestRedisStoreConcurrentVerifySingleWinner(t *testing.T) {
	store, _ := setupRedisStore(t, 0)
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

func TestRedisStoreHonorsConfiguredTTL(t *testing.T) {
	store, mr := setupRedisStore(t, time.Minute)
	ctx := context.Background()

	code, _ := store.Issue(ctx, "+15551230000")
	mr.FastForward(2 * time.Minute)

	if ok, _ := store.Verify(ctx, "+15551230000", code); ok {
		t.Fatal("expired challenge must not verify")
	}
}

func TestRedisStoreNoTTLByDefault(t *testing.T) {
	store, mr := setupRedisStore(t, 0)
	ctx := context.Background()

	code, _ := store.Issue(ctx, "+15551230000")
	mr.FastForward(24 * time.Hour)

	if ok, _ := store.Verify(ctx, "+15551230000", code); !ok {
		t.Fatal("unexpired challenge should verify regardless of age")
	}
}
