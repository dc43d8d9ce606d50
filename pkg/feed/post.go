// Package feed holds the pushed-record types of the home feed: posts and
// their comments, converted from normalized live records.
package feed

import (
	"time"

	"tableflip.dev/sphere/pkg/docstore"
	"tableflip.dev/sphere/pkg/live"
)

// Collection names in the document store.
const (
	CollectionPosts    = "posts"
	CollectionComments = "comments"
)

// Post field names.
const (
	FieldSphereID = "sphereId"
	FieldAuthorID = "authorId"
	FieldBody     = "body"
	FieldPostID   = "postId"
)

// Post is one feed post. CreatedAt is nil while the server has not confirmed
// the write (pending), which renders as "posting…", not as missing.
type Post struct {
	ID        string
	SphereID  string
	AuthorID  string
	Body      string
	MediaURL  string
	CreatedAt *time.Time
	UpdatedAt *time.Time
}

// Comment is one comment on a post.
type Comment struct {
	ID        string
	PostID    string
	AuthorID  string
	Body      string
	CreatedAt *time.Time
}

// PostsQuery selects a sphere's posts, newest first. Its key identifies the
// home feed's live channel for that sphere.
func PostsQuery(sphereID string) docstore.Query {
	return docstore.Query{
		Collection: CollectionPosts,
		Equals:     map[string]string{FieldSphereID: sphereID},
		OrderBy:    "createTime",
		Descending: true,
	}
}

// CommentsQuery selects a post's comments, oldest first.
func CommentsQuery(postID string) docstore.Query {
	return docstore.Query{
		Collection: CollectionComments,
		Equals:     map[string]string{FieldPostID: postID},
		OrderBy:    "createTime",
	}
}

// PostFromRecord converts a normalized live record.
func PostFromRecord(r live.Record) Post {
	return Post{
		ID:        r.ID,
		SphereID:  r.Field(FieldSphereID),
		AuthorID:  r.Field(FieldAuthorID),
		Body:      r.Field(FieldBody),
		MediaURL:  r.MediaURL,
		CreatedAt: parseISO(r.CreatedAt),
		UpdatedAt: parseISO(r.UpdatedAt),
	}
}

// PostsFromRecords converts a whole delivery, preserving its order.
func PostsFromRecords(records []live.Record) []Post {
	posts := make([]Post, len(records))
	for i, r := range records {
		posts[i] = PostFromRecord(r)
	}
	return posts
}

// PostFromDocument converts a one-shot read.
func PostFromDocument(d docstore.Document) Post {
	return Post{
		ID:        d.ID,
		SphereID:  d.Field(FieldSphereID),
		AuthorID:  d.Field(FieldAuthorID),
		Body:      d.Field(FieldBody),
		CreatedAt: d.CreateTime,
		UpdatedAt: d.UpdateTime,
	}
}

// CommentFromDocument converts a one-shot read.
func CommentFromDocument(d docstore.Document) Comment {
	return Comment{
		ID:        d.ID,
		PostID:    d.Field(FieldPostID),
		AuthorID:  d.Field(FieldAuthorID),
		Body:      d.Field(FieldBody),
		CreatedAt: d.CreateTime,
	}
}

// Months returns the distinct months that contain confirmed posts, for the
// timeline cursor. Pending posts have no month yet.
func Months(posts []Post) []time.Time {
	seen := make(map[time.Time]bool)
	out := make([]time.Time, 0)
	for _, p := range posts {
		if p.CreatedAt == nil {
			continue
		}
		t := p.CreatedAt.UTC()
		month := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		if !seen[month] {
			seen[month] = true
			out = append(out, month)
		}
	}
	return out
}

func parseISO(v *string) *time.Time {
	if v == nil {
		return nil
	}
	t, err := live.ParseTime(*v)
	if err != nil {
		return nil
	}
	return &t
}
