package docstore

import (
	"testing"
	"time"
)

func TestQueryMatch(t *testing.T) {
	doc := Document{
		ID:         "p1",
		Collection: "posts",
		Fields:     map[string]any{"sphereId": "s1", "authorId": "u1"},
	}
	tests := []struct {
		name string
		q    Query
		want bool
	}{
		{"collection only", Query{Collection: "posts"}, true},
		{"wrong collection", Query{Collection: "comments"}, false},
		{"matching filter", Query{Collection: "posts", Equals: map[string]string{"sphereId": "s1"}}, true},
		{"two filters", Query{Collection: "posts", Equals: map[string]string{"sphereId": "s1", "authorId": "u1"}}, true},
		{"filter mismatch", Query{Collection: "posts", Equals: map[string]string{"sphereId": "s2"}}, false},
		{"absent field", Query{Collection: "posts", Equals: map[string]string{"deleted": "true"}}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.q.Match(doc); got != tc.want {
				t.Fatalf("Match = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestQueryCanonicalIsOrderIndependent(t *testing.T) {
	a := Query{Collection: "posts", Equals: map[string]string{"b": "2", "a": "1"}, OrderBy: "createTime", Descending: true}
	b := Query{Collection: "posts", Equals: map[string]string{"a": "1", "b": "2"}, OrderBy: "createTime", Descending: true}
	if a.Canonical() != b.Canonical() {
		t.Fatalf("canonical forms differ: %q vs %q", a.Canonical(), b.Canonical())
	}
	if want := "posts|a=1|b=2|order=createTime desc"; a.Canonical() != want {
		t.Fatalf("canonical = %q, want %q", a.Canonical(), want)
	}
}

func TestDocumentFieldCoercion(t *testing.T) {
	doc := Document{Fields: map[string]any{"s": "text", "n": 7}}
	if got := doc.Field("s"); got != "text" {
		t.Fatalf("string field = %q", got)
	}
	if got := doc.Field("n"); got != "7" {
		t.Fatalf("non-string field = %q, want printed form", got)
	}
	if got := doc.Field("missing"); got != "" {
		t.Fatalf("missing field = %q, want empty", got)
	}
	if got := (Document{}).Field("any"); got != "" {
		t.Fatalf("nil fields = %q, want empty", got)
	}
}

func TestCloneIsolatesMutation(t *testing.T) {
	now := time.Now()
	doc := Document{
		ID:         "p1",
		Collection: "posts",
		Fields:     map[string]any{"body": "hello"},
		CreateTime: &now,
	}
	clone := doc.Clone()
	clone.Fields["body"] = "changed"
	*clone.CreateTime = now.Add(time.Hour)

	if doc.Fields["body"] != "hello" {
		t.Fatal("clone shares the fields map")
	}
	if !doc.CreateTime.Equal(now) {
		t.Fatal("clone shares the create time")
	}
}

func TestSortDocsPendingAndTies(t *testing.T) {
	at := func(t time.Time) *time.Time { return &t }
	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	docs := []Document{
		{ID: "pending"},
		{ID: "b", CreateTime: at(base)},
		{ID: "a", CreateTime: at(base)},
		{ID: "later", CreateTime: at(base.Add(time.Hour))},
	}

	SortDocs(docs, Query{OrderBy: "createTime"})
	want := []string{"a", "b", "later", "pending"}
	for i, id := range want {
		if docs[i].ID != id {
			t.Fatalf("asc order[%d] = %s, want %s", i, docs[i].ID, id)
		}
	}

	SortDocs(docs, Query{OrderBy: "createTime", Descending: true})
	wantDesc := []string{"pending", "later", "a", "b"}
	for i, id := range wantDesc {
		if docs[i].ID != id {
			t.Fatalf("desc order[%d] = %s, want %s", i, docs[i].ID, id)
		}
	}
}

func TestSortDocsByFieldValue(t *testing.T) {
	docs := []Document{
		{ID: "x", Fields: map[string]any{"name": "zeta"}},
		{ID: "y", Fields: map[string]any{"name": "alpha"}},
	}
	SortDocs(docs, Query{OrderBy: "name"})
	if docs[0].ID != "y" {
		t.Fatalf("field sort put %s first", docs[0].ID)
	}
}
