// Package live manages subscriptions to server-pushed collection updates:
// one channel per query identity, per-record normalization before every
// delivery, and teardown that drops in-flight work for released channels.
package live

import (
	"sort"
	"strings"

	"tableflip.dev/sphere/pkg/docstore"
)

// Key is the identity of one live query: collection, filter predicate
// values, and sort order. At most one open channel exists per key.
type Key struct {
	Collection string
	Filter     string
	Order      string
}

// KeyFor derives the key identifying q's channel. Filters render in sorted
// order so equal queries always produce equal keys.
func KeyFor(q docstore.Query) Key {
	pairs := make([]string, 0, len(q.Equals))
	for k, v := range q.Equals {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	order := q.OrderBy
	if order == "" {
		order = "createTime"
	}
	if q.Descending {
		order += " desc"
	}
	return Key{
		Collection: q.Collection,
		Filter:     strings.Join(pairs, "&"),
		Order:      order,
	}
}

func (k Key) String() string {
	if k.Filter == "" {
		return k.Collection + "(" + k.Order + ")"
	}
	return k.Collection + "[" + k.Filter + "](" + k.Order + ")"
}
