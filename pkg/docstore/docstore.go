// Package docstore defines the document-store collaborator boundary: one-shot
// CRUD plus a push-subscribe primitive that delivers the full matching list on
// every change. Backends are selected through the factory.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrNotFound is returned by Get when no document matches.
var ErrNotFound = errors.New("docstore: document not found")

// Document is one remote record. CreateTime and UpdateTime are
// server-assigned: nil means the server has not confirmed the write yet
// (pending), which callers must distinguish from absent.
type Document struct {
	ID         string         `json:"id"`
	Collection string         `json:"collection"`
	Fields     map[string]any `json:"fields"`
	CreateTime *time.Time     `json:"createTime,omitempty"`
	UpdateTime *time.Time     `json:"updateTime,omitempty"`
}

// Field returns a string field value, or "" when unset.
func (d Document) Field(name string) string {
	if d.Fields == nil {
		return ""
	}
	v, ok := d.Fields[name]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Sprint(v)
	}
	return s
}

// Clone returns a deep copy so callers can mutate safely.
func (d Document) Clone() Document {
	out := d
	if d.Fields != nil {
		out.Fields = make(map[string]any, len(d.Fields))
		for k, v := range d.Fields {
			out.Fields[k] = v
		}
	}
	if d.CreateTime != nil {
		t := *d.CreateTime
		out.CreateTime = &t
	}
	if d.UpdateTime != nil {
		t := *d.UpdateTime
		out.UpdateTime = &t
	}
	return out
}

// Query selects documents from one collection by flat equality filters with a
// defined order. It is the filter half of a live-query identity.
type Query struct {
	Collection string
	Equals     map[string]string
	OrderBy    string
	Descending bool
}

// Match reports whether doc satisfies the query's filters.
func (q Query) Match(doc Document) bool {
	if doc.Collection != q.Collection {
		return false
	}
	for k, v := range q.Equals {
		if doc.Field(k) != v {
			return false
		}
	}
	return true
}

// Canonical renders the query as a stable string: collection, sorted filter
// pairs, then order. Two queries with the same canonical form identify the
// same live channel.
func (q Query) Canonical() string {
	keys := make([]string, 0, len(q.Equals))
	for k := range q.Equals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(q.Collection)
	for _, k := range keys {
		b.WriteString("|")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(q.Equals[k])
	}
	b.WriteString("|order=")
	b.WriteString(q.OrderBy)
	if q.Descending {
		b.WriteString(" desc")
	}
	return b.String()
}

// Batch is one full-list delivery from a live query. It replaces the
// previously delivered list wholesale; there are no deltas.
type Batch struct {
	Query Query
	Docs  []Document
}

// CancelFunc tears down a live subscription. Safe to call more than once.
type CancelFunc func()

// Store is the document-store collaborator.
type Store interface {
	List(ctx context.Context, q Query) ([]Document, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	Put(ctx context.Context, doc Document) (Document, error)
	Delete(ctx context.Context, collection, id string) error

	// Subscribe opens a push channel for q. The current matching list is
	// delivered immediately, then again after every relevant change. onError
	// is invoked at most once; the channel is considered closed afterwards.
	Subscribe(ctx context.Context, q Query, onBatch func(Batch), onError func(error)) (CancelFunc, error)
}

// SortDocs orders docs per the query. Documents with a pending order field
// sort last so confirmed records keep stable positions.
func SortDocs(docs []Document, q Query) {
	sort.SliceStable(docs, func(i, j int) bool {
		less, eq := compareDocs(docs[i], docs[j], q.OrderBy)
		if eq {
			return docs[i].ID < docs[j].ID
		}
		if q.Descending {
			return !less
		}
		return less
	})
}

func compareDocs(a, b Document, orderBy string) (less, eq bool) {
	switch orderBy {
	case "", "createTime":
		return compareTimes(a.CreateTime, b.CreateTime)
	case "updateTime":
		return compareTimes(a.UpdateTime, b.UpdateTime)
	default:
		av, bv := a.Field(orderBy), b.Field(orderBy)
		if av == bv {
			return false, true
		}
		return av < bv, false
	}
}

func compareTimes(a, b *time.Time) (less, eq bool) {
	switch {
	case a == nil && b == nil:
		return false, true
	case a == nil:
		return false, false // pending sorts last
	case b == nil:
		return true, false
	case a.Equal(*b):
		return false, true
	default:
		return a.Before(*b), false
	}
}
