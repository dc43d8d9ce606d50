package docstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestFilesystemRequiresBase(t *testing.T) {
	if _, err := NewFilesystem(""); err == nil {
		t.Fatal("expected error for empty base")
	}
}

func TestFilesystemCRUD(t *testing.T) {
	fs, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := context.Background()

	put, err := fs.Put(ctx, Document{
		ID: "p1", Collection: "posts",
		Fields: map[string]any{"sphereId": "s1", "body": "hello"},
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if put.CreateTime == nil || put.UpdateTime == nil {
		t.Fatal("put must confirm timestamps")
	}

	got, err := fs.Get(ctx, "posts", "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Field("body") != "hello" || got.Collection != "posts" {
		t.Fatalf("got = %+v", got)
	}
	if !got.CreateTime.Equal(*put.CreateTime) {
		t.Fatal("create time lost on read")
	}

	update, err := fs.Put(ctx, Document{
		ID: "p1", Collection: "posts",
		Fields: map[string]any{"sphereId": "s1", "body": "edited"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !update.CreateTime.Equal(*put.CreateTime) {
		t.Fatal("update must preserve create time")
	}

	docs, err := fs.List(ctx, Query{Collection: "posts", Equals: map[string]string{"sphereId": "s1"}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 1 || docs[0].Field("body") != "edited" {
		t.Fatalf("list = %v", docs)
	}

	if err := fs.Delete(ctx, "posts", "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := fs.Get(ctx, "posts", "p1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after delete: %v, want ErrNotFound", err)
	}
	if err := fs.Delete(ctx, "posts", "p1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: %v, want ErrNotFound", err)
	}
}

func TestFilesystemCollectionNamesAreIsolated(t *testing.T) {
	fs, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := context.Background()

	// A slash in the collection name must not escape its directory.
	for _, col := range []string{"posts", "posts/2026", "comments"} {
		if _, err := fs.Put(ctx, Document{ID: "d1", Collection: col, Fields: map[string]any{}}); err != nil {
			t.Fatalf("put %s: %v", col, err)
		}
	}
	docs, err := fs.List(ctx, Query{Collection: "posts"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("posts list = %d docs, want 1", len(docs))
	}
}

func TestFilesystemSubscribeSeesWrites(t *testing.T) {
	fs, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx, cancelCtx := context.WithCancel(context.Background())
	defer cancelCtx()

	var mu sync.Mutex
	var batches [][]Document
	cancel, err := fs.Subscribe(ctx, Query{Collection: "posts", OrderBy: "createTime"},
		func(b Batch) {
			mu.Lock()
			batches = append(batches, b.Docs)
			mu.Unlock()
		}, nil)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	mu.Lock()
	if len(batches) != 1 || len(batches[0]) != 0 {
		mu.Unlock()
		t.Fatalf("initial delivery = %v, want one empty batch", batches)
	}
	mu.Unlock()

	if _, err := fs.Put(ctx, Document{ID: "p1", Collection: "posts", Fields: map[string]any{"body": "hi"}}); err != nil {
		t.Fatalf("put: %v", err)
	}

	// The watch coalesces bursts, so give it room.
	deadline := time.Now().Add(5 * time.Second)
	for {
		mu.Lock()
		n := len(batches)
		var last []Document
		if n > 0 {
			last = batches[n-1]
		}
		mu.Unlock()
		if n >= 2 && len(last) == 1 && last[0].ID == "p1" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("no refresh after write; batches = %d", n)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	cancel() // repeat is a no-op
}

func TestChangeThrottleCoalesces(t *testing.T) {
	throttle := newChangeThrottle(50 * time.Millisecond)
	defer throttle.Stop()

	var mu sync.Mutex
	fired := 0
	for i := 0; i < 10; i++ {
		throttle.Mark(func() {
			mu.Lock()
			fired++
			mu.Unlock()
		})
	}

	time.Sleep(200 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if fired != 1 {
		t.Fatalf("burst fired %d refreshes, want 1", fired)
	}
}
