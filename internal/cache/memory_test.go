package cache

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemoryCachePutGet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatal("empty cache should miss")
	}
	if err := c.Put(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	val, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || string(val) != "v" {
		t.Fatalf("got %q ok=%v err=%v", val, ok, err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Put(ctx, "k", []byte("v"), 20*time.Second); err != nil {
		t.Fatal(err)
	}

	now = now.Add(19 * time.Second)
	if _, ok, _ := c.Get(ctx, "k"); !ok {
		t.Fatal("entry expired before ttl")
	}

	now = now.Add(2 * time.Second)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatal("entry survived past ttl")
	}
}

func TestMemoryCacheInvalidateAndClear(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_ = c.Put(ctx, "a", []byte("1"), time.Minute)
	_ = c.Put(ctx, "b", []byte("2"), time.Minute)

	if err := c.Invalidate(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Fatal("a should be gone after Invalidate")
	}
	if _, ok, _ := c.Get(ctx, "b"); !ok {
		t.Fatal("b should survive Invalidate of a")
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get(ctx, "b"); ok {
		t.Fatal("b should be gone after Clear")
	}
}

func TestGetOrComputeServesStaleValueWithinTTL(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	// 底层"数据"变了，ttl 内依旧拿旧值
	data := "v1"
	compute := func() ([]byte, error) { return []byte(data), nil }

	got, err := GetOrCompute(ctx, c, "page", 20*time.Second, compute)
	if err != nil || string(got) != "v1" {
		t.Fatalf("got %q err=%v", got, err)
	}

	data = "v2"
	got, err = GetOrCompute(ctx, c, "page", 20*time.Second, compute)
	if err != nil || string(got) != "v1" {
		t.Fatalf("want stale v1 within ttl, got %q err=%v", got, err)
	}

	// 手动清掉后才看到新数据
	if err := c.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	got, err = GetOrCompute(ctx, c, "page", 20*time.Second, compute)
	if err != nil || string(got) != "v2" {
		t.Fatalf("want fresh v2 after clear, got %q err=%v", got, err)
	}
}

func TestGetOrComputeHitSkipsCompute(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	calls := 0
	compute := func() ([]byte, error) {
		calls++
		return []byte("x"), nil
	}

	for i := 0; i < 3; i++ {
		if _, err := GetOrCompute(ctx, c, "k", time.Minute, compute); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 1 {
		t.Fatalf("compute should run once, ran %d times", calls)
	}
}

func TestGetOrComputeConcurrentSameKey(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	var mu sync.Mutex
	calls := 0
	compute := func() ([]byte, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return []byte("stable"), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := GetOrCompute(ctx, c, "hot", time.Minute, compute)
			if err != nil || string(got) != "stable" {
				t.Errorf("got %q err=%v", got, err)
			}
		}()
	}
	wg.Wait()

	// 回源按 key 串行，理想情况只算一次
	if calls != 1 {
		t.Fatalf("want a single compute under contention, got %d", calls)
	}
}
