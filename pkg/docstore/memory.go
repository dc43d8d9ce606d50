package docstore

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Memory is an in-memory Store used by tests and offline development. It is
// safe for concurrent use. Batch callbacks run synchronously in mutation
// order, so they must not call back into the store.
type Memory struct {
	// Now supplies server time for write confirmation. Overridable in tests;
	// leave nil for time.Now.
	Now func() time.Time

	deliverMu sync.Mutex // serializes batch delivery so per-sub order matches mutation order
	mu        sync.Mutex
	docs      map[string]map[string]Document // collection -> id -> doc
	subs      map[int]*memorySub
	nextSub   int
}

type memorySub struct {
	query   Query
	onBatch func(Batch)
	onError func(error)
	done    bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		docs: make(map[string]map[string]Document),
		subs: make(map[int]*memorySub),
	}
}

func (m *Memory) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *Memory) List(ctx context.Context, q Query) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listLocked(q), nil
}

func (m *Memory) listLocked(q Query) []Document {
	out := make([]Document, 0)
	for _, doc := range m.docs[q.Collection] {
		if q.Match(doc) {
			out = append(out, doc.Clone())
		}
	}
	SortDocs(out, q)
	return out
}

func (m *Memory) Get(ctx context.Context, collection, id string) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[collection][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc.Clone(), nil
}

func (m *Memory) Put(ctx context.Context, doc Document) (Document, error) {
	if doc.ID == "" || doc.Collection == "" {
		return Document{}, errors.New("docstore: document id and collection required")
	}
	m.deliverMu.Lock()
	defer m.deliverMu.Unlock()

	m.mu.Lock()
	stored := doc.Clone()
	now := m.now()
	if prev, ok := m.docs[doc.Collection][doc.ID]; ok && prev.CreateTime != nil {
		stored.CreateTime = prev.CreateTime
	} else if stored.CreateTime == nil {
		stored.CreateTime = &now
	}
	stored.UpdateTime = &now
	if m.docs[doc.Collection] == nil {
		m.docs[doc.Collection] = make(map[string]Document)
	}
	m.docs[doc.Collection][doc.ID] = stored
	deliveries := m.pendingBatchesLocked(doc.Collection)
	m.mu.Unlock()

	deliver(deliveries)
	return stored.Clone(), nil
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	m.deliverMu.Lock()
	defer m.deliverMu.Unlock()

	m.mu.Lock()
	if _, ok := m.docs[collection][id]; !ok {
		m.mu.Unlock()
		return ErrNotFound
	}
	delete(m.docs[collection], id)
	deliveries := m.pendingBatchesLocked(collection)
	m.mu.Unlock()

	deliver(deliveries)
	return nil
}

func (m *Memory) Subscribe(ctx context.Context, q Query, onBatch func(Batch), onError func(error)) (CancelFunc, error) {
	if onBatch == nil {
		return nil, errors.New("docstore: onBatch required")
	}
	m.deliverMu.Lock()
	defer m.deliverMu.Unlock()

	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	sub := &memorySub{query: q, onBatch: onBatch, onError: onError}
	m.subs[id] = sub
	initial := Batch{Query: q, Docs: m.listLocked(q)}
	m.mu.Unlock()

	onBatch(initial)

	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			m.mu.Lock()
			if s, ok := m.subs[id]; ok {
				s.done = true
				delete(m.subs, id)
			}
			m.mu.Unlock()
		})
	}

	if ctx != nil {
		// The watcher must not outlive the subscription: a non-cancellable
		// context would otherwise park it for the process lifetime.
		go func() {
			select {
			case <-ctx.Done():
				cancel()
			case <-done:
			}
		}()
	}
	return cancel, nil
}

// Fail reports err to every open subscription on the collection and closes
// them, simulating a push-channel fault (missing index, permission denial).
func (m *Memory) Fail(collection string, err error) {
	m.deliverMu.Lock()
	defer m.deliverMu.Unlock()

	m.mu.Lock()
	failed := make([]*memorySub, 0)
	for id, sub := range m.subs {
		if sub.query.Collection == collection {
			sub.done = true
			delete(m.subs, id)
			failed = append(failed, sub)
		}
	}
	m.mu.Unlock()

	for _, sub := range failed {
		if sub.onError != nil {
			sub.onError(err)
		}
	}
}

type delivery struct {
	fn    func(Batch)
	batch Batch
}

func (m *Memory) pendingBatchesLocked(collection string) []delivery {
	out := make([]delivery, 0)
	for _, sub := range m.subs {
		if sub.done || sub.query.Collection != collection {
			continue
		}
		out = append(out, delivery{fn: sub.onBatch, batch: Batch{Query: sub.query, Docs: m.listLocked(sub.query)}})
	}
	return out
}

func deliver(deliveries []delivery) {
	for _, d := range deliveries {
		d.fn(d.batch)
	}
}
