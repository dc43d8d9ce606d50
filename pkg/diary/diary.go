// Package diary models the user's private diary entries.
package diary

import (
	"time"

	"tableflip.dev/sphere/pkg/docstore"
)

// CollectionEntries is the diary collection.
const CollectionEntries = "diary"

// Field names.
const (
	FieldUserID = "userId"
	FieldTitle  = "title"
	FieldBody   = "body"
	FieldDate   = "date" // "2006-01-02", the day the entry is about
)

const dateLayout = "2006-01-02"

// Entry is one diary entry.
type Entry struct {
	ID        string
	UserID    string
	Title     string
	Body      string
	Date      time.Time
	CreatedAt *time.Time
}

// Query selects a user's diary entries ordered by the day they are about.
func Query(userID string) docstore.Query {
	return docstore.Query{
		Collection: CollectionEntries,
		Equals:     map[string]string{FieldUserID: userID},
		OrderBy:    FieldDate,
		Descending: true,
	}
}

// FromDocument converts a one-shot read.
func FromDocument(d docstore.Document) Entry {
	e := Entry{
		ID:        d.ID,
		UserID:    d.Field(FieldUserID),
		Title:     d.Field(FieldTitle),
		Body:      d.Field(FieldBody),
		CreatedAt: d.CreateTime,
	}
	if t, err := time.Parse(dateLayout, d.Field(FieldDate)); err == nil {
		e.Date = t
	}
	return e
}

// FormatDate renders the day an entry is about in its stored form.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
