package feed

import (
	"testing"
	"time"

	"tableflip.dev/sphere/pkg/live"
)

func TestPostFromRecordParsesTimes(t *testing.T) {
	created := "2026-07-04T10:30:00Z"
	r := live.Record{
		ID: "p1",
		Fields: map[string]any{
			FieldSphereID: "s1",
			FieldAuthorID: "u1",
			FieldBody:     "fireworks",
		},
		MediaURL:  "memory://spheres/s1/media/m1",
		CreatedAt: &created,
	}

	p := PostFromRecord(r)
	if p.ID != "p1" || p.SphereID != "s1" || p.AuthorID != "u1" || p.Body != "fireworks" {
		t.Fatalf("post = %+v", p)
	}
	if p.MediaURL != r.MediaURL {
		t.Fatalf("media url = %q", p.MediaURL)
	}
	if p.CreatedAt == nil || !p.CreatedAt.Equal(time.Date(2026, time.July, 4, 10, 30, 0, 0, time.UTC)) {
		t.Fatalf("created at = %v", p.CreatedAt)
	}
	if p.UpdatedAt != nil {
		t.Fatalf("updated at = %v, want nil for pending", p.UpdatedAt)
	}
}

func TestPostFromRecordPendingHasNoTime(t *testing.T) {
	p := PostFromRecord(live.Record{ID: "p1"})
	if p.CreatedAt != nil {
		t.Fatal("pending record must convert with a nil created time")
	}
}

func TestPostsFromRecordsPreservesOrder(t *testing.T) {
	posts := PostsFromRecords([]live.Record{{ID: "b"}, {ID: "a"}, {ID: "c"}})
	want := []string{"b", "a", "c"}
	for i, id := range want {
		if posts[i].ID != id {
			t.Fatalf("order[%d] = %s, want %s", i, posts[i].ID, id)
		}
	}
}

func TestMonthsSkipsPendingAndDedupes(t *testing.T) {
	at := func(t time.Time) *time.Time { return &t }
	posts := []Post{
		{ID: "pending"},
		{ID: "a", CreatedAt: at(time.Date(2026, time.March, 5, 8, 0, 0, 0, time.UTC))},
		{ID: "b", CreatedAt: at(time.Date(2026, time.March, 28, 8, 0, 0, 0, time.UTC))},
		{ID: "c", CreatedAt: at(time.Date(2026, time.January, 1, 8, 0, 0, 0, time.UTC))},
	}

	months := Months(posts)
	if len(months) != 2 {
		t.Fatalf("months = %v, want 2 distinct", months)
	}
	if months[0] != time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("first month = %v", months[0])
	}
	if months[1] != time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("second month = %v", months[1])
	}
}

func TestMonthsNormalizesToUTC(t *testing.T) {
	offset := time.FixedZone("UTC+9", 9*60*60)
	// Local midnight on the 1st is still the previous month in UTC.
	created := time.Date(2026, time.May, 1, 3, 0, 0, 0, offset)
	months := Months([]Post{{ID: "a", CreatedAt: &created}})
	if len(months) != 1 || months[0] != time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("months = %v, want April in UTC", months)
	}
}

func TestQueriesSelectTheRightChannel(t *testing.T) {
	pq := PostsQuery("s1")
	if pq.Collection != CollectionPosts || !pq.Descending {
		t.Fatalf("posts query = %+v", pq)
	}
	if pq.Equals[FieldSphereID] != "s1" {
		t.Fatalf("posts filter = %v", pq.Equals)
	}

	cq := CommentsQuery("p1")
	if cq.Collection != CollectionComments || cq.Descending {
		t.Fatalf("comments query = %+v", cq)
	}
	if cq.Equals[FieldPostID] != "p1" {
		t.Fatalf("comments filter = %v", cq.Equals)
	}
}
