package docstore

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"
)

func TestMemoryPutAssignsAndPreservesTimes(t *testing.T) {
	tick := time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.Now = func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}
	ctx := context.Background()

	first, err := m.Put(ctx, Document{ID: "p1", Collection: "posts", Fields: map[string]any{"body": "v1"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if first.CreateTime == nil || first.UpdateTime == nil {
		t.Fatal("put must confirm both timestamps")
	}

	second, err := m.Put(ctx, Document{ID: "p1", Collection: "posts", Fields: map[string]any{"body": "v2"}})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !second.CreateTime.Equal(*first.CreateTime) {
		t.Fatal("update must preserve the original create time")
	}
	if !second.UpdateTime.After(*first.UpdateTime) {
		t.Fatal("update must advance the update time")
	}
}

func TestMemoryPutRequiresIdentity(t *testing.T) {
	m := NewMemory()
	if _, err := m.Put(context.Background(), Document{Collection: "posts"}); err == nil {
		t.Fatal("expected error for missing id")
	}
	if _, err := m.Put(context.Background(), Document{ID: "x"}); err == nil {
		t.Fatal("expected error for missing collection")
	}
}

func TestMemoryGetAndDeleteNotFound(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	if _, err := m.Get(ctx, "posts", "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get: %v, want ErrNotFound", err)
	}
	if err := m.Delete(ctx, "posts", "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete: %v, want ErrNotFound", err)
	}
}

func TestMemoryListFiltersAndSorts(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	put := func(id, sphere string) {
		t.Helper()
		if _, err := m.Put(ctx, Document{
			ID: id, Collection: "posts",
			Fields: map[string]any{"sphereId": sphere},
		}); err != nil {
			t.Fatalf("put %s: %v", id, err)
		}
		time.Sleep(time.Millisecond)
	}
	put("a", "s1")
	put("b", "s2")
	put("c", "s1")

	docs, err := m.List(ctx, Query{
		Collection: "posts",
		Equals:     map[string]string{"sphereId": "s1"},
		OrderBy:    "createTime",
		Descending: true,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 2 || docs[0].ID != "c" || docs[1].ID != "a" {
		t.Fatalf("list = %v", ids(docs))
	}
}

func TestMemorySubscribeDeliversInitialThenChanges(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	if _, err := m.Put(ctx, Document{ID: "a", Collection: "posts", Fields: map[string]any{}}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var batches [][]string
	cancel, err := m.Subscribe(nil, Query{Collection: "posts"}, func(b Batch) {
		batches = append(batches, ids(b.Docs))
	}, nil)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	if len(batches) != 1 || len(batches[0]) != 1 {
		t.Fatalf("initial batch = %v, want the seeded doc", batches)
	}

	if _, err := m.Put(ctx, Document{ID: "b", Collection: "posts", Fields: map[string]any{}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := m.Delete(ctx, "posts", "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// Memory delivers synchronously, so three batches have landed.
	if len(batches) != 3 {
		t.Fatalf("got %d batches, want 3", len(batches))
	}
	if got := batches[2]; len(got) != 1 || got[0] != "b" {
		t.Fatalf("final batch = %v, want [b]", got)
	}
}

func TestMemorySubscribeIgnoresOtherCollections(t *testing.T) {
	m := NewMemory()
	var count int
	cancel, err := m.Subscribe(nil, Query{Collection: "posts"}, func(Batch) { count++ }, nil)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	if _, err := m.Put(context.Background(), Document{ID: "c1", Collection: "comments", Fields: map[string]any{}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if count != 1 {
		t.Fatalf("got %d deliveries, want only the initial one", count)
	}
}

func TestMemoryCancelStopsDelivery(t *testing.T) {
	m := NewMemory()
	var count int
	cancel, err := m.Subscribe(nil, Query{Collection: "posts"}, func(Batch) { count++ }, nil)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	cancel()
	cancel() // repeat is a no-op

	if _, err := m.Put(context.Background(), Document{ID: "a", Collection: "posts", Fields: map[string]any{}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if count != 1 {
		t.Fatalf("cancelled subscription still received batches: %d", count)
	}
}

func TestMemoryFailClosesMatchingSubscriptions(t *testing.T) {
	m := NewMemory()
	boom := errors.New("missing index")

	var postsErr, commentsErr error
	if _, err := m.Subscribe(nil, Query{Collection: "posts"}, func(Batch) {}, func(err error) { postsErr = err }); err != nil {
		t.Fatalf("subscribe posts: %v", err)
	}
	if _, err := m.Subscribe(nil, Query{Collection: "comments"}, func(Batch) {}, func(err error) { commentsErr = err }); err != nil {
		t.Fatalf("subscribe comments: %v", err)
	}

	m.Fail("posts", boom)
	if !errors.Is(postsErr, boom) {
		t.Fatalf("posts onError = %v, want %v", postsErr, boom)
	}
	if commentsErr != nil {
		t.Fatalf("comments subscription failed too: %v", commentsErr)
	}

	// The failed subscription is closed for good: later writes do not panic
	// or revive it.
	if _, err := m.Put(context.Background(), Document{ID: "a", Collection: "posts", Fields: map[string]any{}}); err != nil {
		t.Fatalf("put: %v", err)
	}
}

func TestMemoryCancelReleasesContextWatcher(t *testing.T) {
	m := NewMemory()
	before := runtime.NumGoroutine()

	// A non-cancellable context must not pin a watcher goroutine past
	// cancel().
	for i := 0; i < 50; i++ {
		cancel, err := m.Subscribe(context.Background(), Query{Collection: "posts"}, func(Batch) {}, nil)
		if err != nil {
			t.Fatalf("subscribe %d: %v", i, err)
		}
		cancel()
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if runtime.NumGoroutine() <= before+5 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("goroutines grew from %d to %d after cancelling every subscription", before, runtime.NumGoroutine())
}

func ids(docs []Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}
