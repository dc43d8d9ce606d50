package docstore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/peterbourgon/diskv/v3"
)

// Filesystem is a Store backed by a local document mirror: one JSON file per
// document under <base>/<collection>/. Subscriptions watch the tree with
// fsnotify and re-deliver the full matching list after each coalesced burst
// of changes.
type Filesystem struct {
	d        *diskv.Diskv
	basePath string
	now      func() time.Time
}

// NewFilesystem opens (creating if needed) a filesystem store rooted at base.
func NewFilesystem(base string) (*Filesystem, error) {
	if base == "" {
		return nil, errors.New("docstore: base path required")
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("docstore: ensure base path: %w", err)
	}
	return &Filesystem{
		d: diskv.New(diskv.Options{
			BasePath:          base,
			AdvancedTransform: keyToPath,
			InverseTransform:  pathToKey,
			CacheSizeMax:      1024 * 1024, // 1MB
		}),
		basePath: base,
		now:      time.Now,
	}, nil
}

// Collection directory names are base64 encoded so arbitrary collection names
// stay filesystem safe.
func encodeCollection(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func decodeCollection(s string) string {
	raw, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return ""
	}
	return string(raw)
}

func keyToPath(key string) *diskv.PathKey {
	parts := strings.SplitN(key, "/", 2)
	if len(parts) != 2 {
		return &diskv.PathKey{FileName: key}
	}
	return &diskv.PathKey{Path: []string{parts[0]}, FileName: parts[1]}
}

func pathToKey(pk *diskv.PathKey) string {
	if len(pk.Path) == 0 {
		return pk.FileName
	}
	return pk.Path[0] + "/" + pk.FileName
}

func docKey(collection, id string) string {
	return encodeCollection(collection) + "/" + id
}

func (f *Filesystem) List(ctx context.Context, q Query) ([]Document, error) {
	prefix := encodeCollection(q.Collection) + "/"
	out := make([]Document, 0)
	for key := range f.d.Keys(ctx.Done()) {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		doc, err := f.read(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "docstore: %s: %v\n", key, err)
			continue
		}
		if q.Match(doc) {
			out = append(out, doc)
		}
	}
	SortDocs(out, q)
	return out, nil
}

func (f *Filesystem) Get(ctx context.Context, collection, id string) (Document, error) {
	doc, err := f.read(docKey(collection, id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

func (f *Filesystem) Put(ctx context.Context, doc Document) (Document, error) {
	if doc.ID == "" || doc.Collection == "" {
		return Document{}, errors.New("docstore: document id and collection required")
	}
	stored := doc.Clone()
	now := f.now()
	if prev, err := f.read(docKey(doc.Collection, doc.ID)); err == nil && prev.CreateTime != nil {
		stored.CreateTime = prev.CreateTime
	} else if stored.CreateTime == nil {
		stored.CreateTime = &now
	}
	stored.UpdateTime = &now
	data, err := json.Marshal(stored)
	if err != nil {
		return Document{}, err
	}
	if err := f.d.Write(docKey(doc.Collection, doc.ID), data); err != nil {
		return Document{}, fmt.Errorf("docstore: write %s/%s: %w", doc.Collection, doc.ID, err)
	}
	return stored, nil
}

func (f *Filesystem) Delete(ctx context.Context, collection, id string) error {
	if err := f.d.Erase(docKey(collection, id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (f *Filesystem) read(key string) (Document, error) {
	data, err := f.d.Read(key)
	if err != nil {
		return Document{}, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, err
	}
	pk := keyToPath(key)
	if doc.ID == "" {
		doc.ID = pk.FileName
	}
	if doc.Collection == "" && len(pk.Path) > 0 {
		doc.Collection = decodeCollection(pk.Path[0])
	}
	return doc, nil
}

// Subscribe delivers the current list, then watches the collection directory
// and re-lists after each coalesced burst of filesystem activity. Watcher
// faults surface through onError and close the channel; there is no retry.
func (f *Filesystem) Subscribe(ctx context.Context, q Query, onBatch func(Batch), onError func(error)) (CancelFunc, error) {
	if onBatch == nil {
		return nil, errors.New("docstore: onBatch required")
	}
	dir := filepath.Join(f.basePath, encodeCollection(q.Collection))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("docstore: ensure collection directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("docstore: create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("docstore: watch %s: %w", dir, err)
	}

	subCtx, stop := context.WithCancel(ctx)
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			stop()
			if err := watcher.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "docstore: watcher close: %v\n", err)
			}
		})
	}

	docs, err := f.List(subCtx, q)
	if err != nil {
		cancel()
		return nil, err
	}
	onBatch(Batch{Query: q, Docs: docs})

	go func() {
		throttle := newChangeThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		refresh := func() {
			if subCtx.Err() != nil {
				return
			}
			docs, err := f.List(subCtx, q)
			if err != nil {
				fmt.Fprintf(os.Stderr, "docstore: refresh %s: %v\n", q.Collection, err)
				return
			}
			if subCtx.Err() != nil {
				return
			}
			onBatch(Batch{Query: q, Docs: docs})
		}

		for {
			select {
			case <-subCtx.Done():
				return
			case werr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				cancel()
				if onError != nil {
					onError(fmt.Errorf("docstore: watch %s: %w", q.Collection, werr))
				}
				return
			case _, ok := <-watcher.Events:
				if !ok {
					return
				}
				throttle.Mark(refresh)
			}
		}
	}()

	return cancel, nil
}

// changeThrottle coalesces rapid notifications so subscribers see one refresh
// per burst of filesystem activity instead of one per write.
type changeThrottle struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
}

func newChangeThrottle(delay time.Duration) *changeThrottle {
	return &changeThrottle{delay: delay}
}

func (t *changeThrottle) Mark(fire func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		return
	}
	t.timer = time.AfterFunc(t.delay, func() {
		t.mu.Lock()
		t.timer = nil
		t.mu.Unlock()
		fire()
	})
}

func (t *changeThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
