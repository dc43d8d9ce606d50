package live

import (
	"time"

	"tableflip.dev/sphere/pkg/docstore"
)

// Well-known media fields on pushed records. A record with an inline
// representation renders directly; otherwise its storage reference resolves
// through the object store.
const (
	FieldInlineMedia = "inlineMedia"
	FieldMediaRef    = "mediaRef"
)

// Record is a pushed record after normalization: media resolved to a
// renderable URL (empty when there is none, or when resolution failed; the
// batch never fails for one record) and server timestamps converted to
// ISO-8601 strings. A nil timestamp means the server has not confirmed the
// write yet; callers must treat it as pending, not absent.
type Record struct {
	ID        string
	Fields    map[string]any
	MediaURL  string
	CreatedAt *string
	UpdatedAt *string
}

// Field returns a string field value, or "" when unset.
func (r Record) Field(name string) string {
	return docstore.Document{Fields: r.Fields}.Field(name)
}

// isoLayout is RFC 3339 with a fixed nine-digit fraction. RFC3339Nano trims
// trailing fractional zeros, which breaks lexicographic ordering when two
// timestamps carry fractions of different widths; the sort relies on equal
// widths.
const isoLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTime renders a server timestamp as its ISO-8601 form. UTC strings of
// this layout compare lexicographically in time order.
func FormatTime(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

// ParseTime is the inverse of FormatTime.
func ParseTime(v string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, v)
}

func isoTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatTime(*t)
	return &s
}
