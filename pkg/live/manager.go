package live

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"tableflip.dev/sphere/pkg/blobstore"
	"tableflip.dev/sphere/pkg/docstore"
)

// Manager opens and closes live queries against the document store,
// deduplicated by key. Channel lifetime is governed by key identity, not by
// any particular caller's lifetime: subscribing to an already-open key reuses
// the open channel.
type Manager struct {
	store    docstore.Store
	resolver blobstore.Resolver
	logf     func(format string, args ...any)

	mu   sync.Mutex
	subs map[Key]*subscription
}

// NewManager wires a manager to its collaborators. resolver may be nil when
// no screen needs media (records then deliver without URLs).
func NewManager(store docstore.Store, resolver blobstore.Resolver) *Manager {
	return &Manager{
		store:    store,
		resolver: resolver,
		logf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		},
		subs: make(map[Key]*subscription),
	}
}

// SetLogf overrides the advisory log sink. Tests use this to capture
// duplicate-key diagnostics.
func (m *Manager) SetLogf(logf func(format string, args ...any)) {
	if logf != nil {
		m.logf = logf
	}
}

type subscription struct {
	key        Key
	query      docstore.Query
	onData     func([]Record)
	onError    func(error)
	ctx        context.Context
	stop       context.CancelFunc
	cancelPush docstore.CancelFunc
	batches    chan docstore.Batch
	errs       chan error
	once       sync.Once
	release    func()
}

// Subscribe opens (or reuses) the live channel for q. onData receives a
// complete replacement list on every delivery, in push-arrival order even
// when normalization work overlaps. The returned release func is safe to
// call repeatedly, after the channel has closed, and from within onError.
//
// Subscribing while q's key is already open is idempotent: the existing
// channel's release func is returned and an advisory diagnostic is logged.
func (m *Manager) Subscribe(q docstore.Query, onData func([]Record), onError func(error)) (func(), error) {
	if onData == nil {
		return nil, fmt.Errorf("live: onData required for %s", KeyFor(q))
	}
	key := KeyFor(q)

	m.mu.Lock()
	if existing, ok := m.subs[key]; ok {
		m.mu.Unlock()
		m.logf("live: duplicate subscribe for %s; reusing open channel", key)
		return existing.release, nil
	}
	ctx, stop := context.WithCancel(context.Background())
	sub := &subscription{
		key:     key,
		query:   q,
		onData:  onData,
		onError: onError,
		ctx:     ctx,
		stop:    stop,
		batches: make(chan docstore.Batch, 64),
		errs:    make(chan error, 1),
	}
	// release must exist before the sub is visible in the map: a duplicate
	// Subscribe racing in returns existing.release and may call it at once.
	sub.release = func() {
		sub.once.Do(func() {
			sub.stop()
			if sub.cancelPush != nil {
				sub.cancelPush()
			}
			m.mu.Lock()
			if m.subs[key] == sub {
				delete(m.subs, key)
			}
			m.mu.Unlock()
		})
	}
	m.subs[key] = sub
	m.mu.Unlock()

	cancelPush, err := m.store.Subscribe(ctx, q,
		func(b docstore.Batch) {
			select {
			case sub.batches <- b:
			case <-ctx.Done():
			}
		},
		func(err error) {
			select {
			case sub.errs <- err:
			case <-ctx.Done():
			}
		},
	)
	if err != nil {
		sub.release()
		return nil, fmt.Errorf("live: open channel for %s: %w", key, err)
	}
	sub.cancelPush = cancelPush

	go m.run(sub)
	return sub.release, nil
}

// Open reports whether a channel is currently open for key.
func (m *Manager) Open(key Key) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.subs[key]
	return ok
}

// run is the per-subscription worker. Each batch is fully normalized before
// the next one starts, so resolution concurrency cannot reorder deliveries.
func (m *Manager) run(sub *subscription) {
	for {
		select {
		case <-sub.ctx.Done():
			return
		case err := <-sub.errs:
			// The channel is left closed; retry is a user-initiated
			// re-entry of the screen.
			sub.release()
			if sub.onError != nil {
				sub.onError(err)
			}
			return
		case b := <-sub.batches:
			records := m.normalizeBatch(sub.ctx, b)
			if sub.ctx.Err() != nil {
				// Released while resolving: the results are stale, drop them.
				return
			}
			sub.onData(records)
		}
	}
}

// normalizeBatch resolves each record's media and timestamps. Per-record
// resolutions run concurrently and may finish out of order; the list is
// re-sorted by the query's order after all of them complete, then delivered
// as one atomic update.
func (m *Manager) normalizeBatch(ctx context.Context, b docstore.Batch) []Record {
	records := make([]Record, len(b.Docs))
	var wg sync.WaitGroup
	for i, doc := range b.Docs {
		records[i] = Record{
			ID:        doc.ID,
			Fields:    doc.Fields,
			CreatedAt: isoTime(doc.CreateTime),
			UpdatedAt: isoTime(doc.UpdateTime),
		}
		if inline := doc.Field(FieldInlineMedia); inline != "" {
			records[i].MediaURL = inline
			continue
		}
		ref := doc.Field(FieldMediaRef)
		if ref == "" || m.resolver == nil {
			continue
		}
		wg.Add(1)
		go func(i int, id, ref string) {
			defer wg.Done()
			url, err := m.resolver.ResolveURL(ctx, ref)
			if err != nil {
				// Tolerated: the record is delivered without a renderable
				// URL and the UI decides how to placeholder it.
				m.logf("live: resolve media for %s: %v", id, err)
				return
			}
			records[i].MediaURL = url
		}(i, doc.ID, ref)
	}
	wg.Wait()
	sortRecords(records, b.Query)
	return records
}

func sortRecords(records []Record, q docstore.Query) {
	sort.SliceStable(records, func(i, j int) bool {
		less, eq := compareRecords(records[i], records[j], q.OrderBy)
		if eq {
			return records[i].ID < records[j].ID
		}
		if q.Descending {
			return !less
		}
		return less
	})
}

func compareRecords(a, b Record, orderBy string) (less, eq bool) {
	switch orderBy {
	case "", "createTime":
		return compareISO(a.CreatedAt, b.CreatedAt)
	case "updateTime":
		return compareISO(a.UpdatedAt, b.UpdatedAt)
	default:
		av, bv := a.Field(orderBy), b.Field(orderBy)
		if av == bv {
			return false, true
		}
		return av < bv, false
	}
}

func compareISO(a, b *string) (less, eq bool) {
	switch {
	case a == nil && b == nil:
		return false, true
	case a == nil:
		return false, false // pending sorts last
	case b == nil:
		return true, false
	case *a == *b:
		return false, true
	default:
		return *a < *b, false
	}
}
