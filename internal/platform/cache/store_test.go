package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_SetGet(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	if _, ok := store.Get(ctx, "missing"); ok {
		t.Fatal("expected miss for unknown key")
	}

	store.Set(ctx, "k", "v")
	value, ok := store.Get(ctx, "k")
	if !ok || value != "v" {
		t.Fatalf("expected hit with v, got %v %v", value, ok)
	}

	store.Delete(ctx, "k")
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestStore_TTLExpiry(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	store.SetWithTTL(ctx, "short", "v", 10*time.Millisecond)
	if _, ok := store.Get(ctx, "short"); !ok {
		t.Fatal("expected hit before expiry")
	}

	time.Sleep(25 * time.Millisecond)
	if _, ok := store.Get(ctx, "short"); ok {
		t.Fatal("expected miss after expiry")
	}

	// ttl <= 0 pins the entry.
	store.SetWithTTL(ctx, "pinned", "v", 0)
	time.Sleep(5 * time.Millisecond)
	if _, ok := store.Get(ctx, "pinned"); !ok {
		t.Fatal("zero ttl entry must not expire")
	}
}

func TestStore_GetOrLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()
	var loads atomic.Int64

	loader := func(context.Context) (any, error) {
		loads.Add(1)
		return "loaded", nil
	}

	for i := 0; i < 3; i++ {
		value, err := store.GetOrLoad(ctx, "k", time.Minute, loader)
		if err != nil {
			t.Fatalf("get or load: %v", err)
		}
		if value != "loaded" {
			t.Fatalf("unexpected value %v", value)
		}
	}
	if loads.Load() != 1 {
		t.Fatalf("expected one load, got %d", loads.Load())
	}
}

func TestStore_GetOrLoad_ErrorsNotCached(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()
	var loads atomic.Int64
	fail := true

	loader := func(context.Context) (any, error) {
		loads.Add(1)
		if fail {
			return nil, errors.New("source down")
		}
		return "loaded", nil
	}

	if _, err := store.GetOrLoad(ctx, "k", time.Minute, loader); err == nil {
		t.Fatal("expected loader error")
	}

	fail = false
	value, err := store.GetOrLoad(ctx, "k", time.Minute, loader)
	if err != nil || value != "loaded" {
		t.Fatalf("expected recovery, got %v %v", value, err)
	}
	if loads.Load() != 2 {
		t.Fatalf("expected reload after failure, got %d loads", loads.Load())
	}
}

func TestStore_GetOrLoad_CollapsesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	var loads atomic.Int64
	release := make(chan struct{})
	loader := func(context.Context) (any, error) {
		loads.Add(1)
		<-release
		return "loaded", nil
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make([]any, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			value, err := store.GetOrLoad(ctx, "k", time.Minute, loader)
			if err != nil {
				t.Errorf("get or load: %v", err)
				return
			}
			results[i] = value
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := loads.Load(); got != 1 {
		t.Fatalf("expected a single collapsed load, got %d", got)
	}
	for i, value := range results {
		if value != "loaded" {
			t.Fatalf("caller %d got %v", i, value)
		}
	}
}

func TestStore_GetOrLoad_DefaultTTL(t *testing.T) {
	t.Parallel()

	store := NewStore(10 * time.Millisecond)
	ctx := context.Background()
	var loads atomic.Int64

	loader := func(context.Context) (any, error) {
		loads.Add(1)
		return "loaded", nil
	}

	if _, err := store.GetOrLoad(ctx, "k", 0, loader); err != nil {
		t.Fatalf("get or load: %v", err)
	}
	time.Sleep(25 * time.Millisecond)
	if _, err := store.GetOrLoad(ctx, "k", 0, loader); err != nil {
		t.Fatalf("get or load: %v", err)
	}

	if loads.Load() != 2 {
		t.Fatalf("expected reload after default ttl expiry, got %d", loads.Load())
	}
}
