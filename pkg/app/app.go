// Package app provides the high-level operations behind the CRUD screens.
// It wraps the document and object stores so the TUI and CLI share logic.
package app

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"tableflip.dev/sphere/pkg/blobstore"
	"tableflip.dev/sphere/pkg/diary"
	"tableflip.dev/sphere/pkg/docstore"
	"tableflip.dev/sphere/pkg/feed"
	"tableflip.dev/sphere/pkg/gallery"
	"tableflip.dev/sphere/pkg/live"
	"tableflip.dev/sphere/pkg/project"
	"tableflip.dev/sphere/pkg/sphere"
)

// InlineMediaLimit is the largest media payload embedded directly in a
// record; anything larger goes to the object store by reference.
const InlineMediaLimit = 32 * 1024

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("app: not found")

// Service provides high-level operations over the collaborator boundaries.
type Service struct {
	Store docstore.Store
	Blobs blobstore.Store

	// NewID supplies document ids; overridable in tests. Defaults to uuid.
	NewID func() string
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *Service) ready() error {
	if s.Store == nil {
		return errors.New("app: no document store configured")
	}
	return nil
}

// ---- Posts ----

// CreatePost writes a feed post. Small media embeds inline as a data URI;
// larger media uploads to the object store and the record carries the
// reference.
func (s *Service) CreatePost(ctx context.Context, sphereID, authorID, body string, media []byte, mediaType string) (feed.Post, error) {
	if err := s.ready(); err != nil {
		return feed.Post{}, err
	}
	fields := map[string]any{
		feed.FieldSphereID: sphereID,
		feed.FieldAuthorID: authorID,
		feed.FieldBody:     body,
	}
	if len(media) > 0 {
		if len(media) <= InlineMediaLimit {
			fields[live.FieldInlineMedia] = dataURI(media, mediaType)
		} else {
			if s.Blobs == nil {
				return feed.Post{}, errors.New("app: no blob store configured")
			}
			ref := mediaRef(sphereID, s.newID())
			if err := s.Blobs.Upload(ctx, ref, bytes.NewReader(media), mediaType); err != nil {
				return feed.Post{}, err
			}
			fields[live.FieldMediaRef] = ref
		}
	}
	doc, err := s.Store.Put(ctx, docstore.Document{
		ID:         s.newID(),
		Collection: feed.CollectionPosts,
		Fields:     fields,
	})
	if err != nil {
		return feed.Post{}, err
	}
	return feed.PostFromDocument(doc), nil
}

// CreatePostFromImage composes a post around an image already in the bank.
// The post shares the image's stored content by reference; deleting the
// post later leaves the bank image alone.
func (s *Service) CreatePostFromImage(ctx context.Context, sphereID, authorID, body, imageID string) (feed.Post, error) {
	if err := s.ready(); err != nil {
		return feed.Post{}, err
	}
	imgDoc, err := s.Store.Get(ctx, gallery.CollectionImages, imageID)
	if err != nil {
		return feed.Post{}, wrapNotFound(err)
	}
	fields := map[string]any{
		feed.FieldSphereID: sphereID,
		feed.FieldAuthorID: authorID,
		feed.FieldBody:     body,
	}
	if ref := imgDoc.Field(live.FieldMediaRef); ref != "" {
		fields[live.FieldMediaRef] = ref
	} else if inline := imgDoc.Field(live.FieldInlineMedia); inline != "" {
		fields[live.FieldInlineMedia] = inline
	}
	doc, err := s.Store.Put(ctx, docstore.Document{
		ID:         s.newID(),
		Collection: feed.CollectionPosts,
		Fields:     fields,
	})
	if err != nil {
		return feed.Post{}, err
	}
	return feed.PostFromDocument(doc), nil
}

// EditPost replaces a post's body.
func (s *Service) EditPost(ctx context.Context, id, body string) (feed.Post, error) {
	if err := s.ready(); err != nil {
		return feed.Post{}, err
	}
	doc, err := s.Store.Get(ctx, feed.CollectionPosts, id)
	if err != nil {
		return feed.Post{}, wrapNotFound(err)
	}
	doc.Fields[feed.FieldBody] = body
	doc, err = s.Store.Put(ctx, doc)
	if err != nil {
		return feed.Post{}, err
	}
	return feed.PostFromDocument(doc), nil
}

// DeletePost removes a post, its comments, and any referenced media.
func (s *Service) DeletePost(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	doc, err := s.Store.Get(ctx, feed.CollectionPosts, id)
	if err != nil {
		return wrapNotFound(err)
	}
	comments, err := s.Store.List(ctx, feed.CommentsQuery(id))
	if err != nil {
		return err
	}
	for _, c := range comments {
		if err := s.Store.Delete(ctx, feed.CollectionComments, c.ID); err != nil {
			return err
		}
	}
	if ref := doc.Field(live.FieldMediaRef); ref != "" && s.Blobs != nil {
		// Posts composed from a bank image share its content; only orphaned
		// refs are collected.
		shared, err := s.Store.List(ctx, docstore.Query{
			Collection: gallery.CollectionImages,
			Equals:     map[string]string{live.FieldMediaRef: ref},
		})
		if err != nil {
			return err
		}
		if len(shared) == 0 {
			if err := s.Blobs.Delete(ctx, ref); err != nil {
				return err
			}
		}
	}
	return s.Store.Delete(ctx, feed.CollectionPosts, id)
}

// Posts lists a sphere's posts one-shot. The home feed itself rides the
// live subscription; this serves the CLI.
func (s *Service) Posts(ctx context.Context, sphereID string) ([]feed.Post, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	docs, err := s.Store.List(ctx, feed.PostsQuery(sphereID))
	if err != nil {
		return nil, err
	}
	posts := make([]feed.Post, len(docs))
	for i, d := range docs {
		posts[i] = feed.PostFromDocument(d)
	}
	return posts, nil
}

// AddComment appends a comment to a post.
func (s *Service) AddComment(ctx context.Context, postID, authorID, body string) (feed.Comment, error) {
	if err := s.ready(); err != nil {
		return feed.Comment{}, err
	}
	if _, err := s.Store.Get(ctx, feed.CollectionPosts, postID); err != nil {
		return feed.Comment{}, wrapNotFound(err)
	}
	doc, err := s.Store.Put(ctx, docstore.Document{
		ID:         s.newID(),
		Collection: feed.CollectionComments,
		Fields: map[string]any{
			feed.FieldPostID:   postID,
			feed.FieldAuthorID: authorID,
			feed.FieldBody:     body,
		},
	})
	if err != nil {
		return feed.Comment{}, err
	}
	return feed.CommentFromDocument(doc), nil
}

// Comments lists a post's comments, oldest first.
func (s *Service) Comments(ctx context.Context, postID string) ([]feed.Comment, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	docs, err := s.Store.List(ctx, feed.CommentsQuery(postID))
	if err != nil {
		return nil, err
	}
	out := make([]feed.Comment, len(docs))
	for i, d := range docs {
		out[i] = feed.CommentFromDocument(d)
	}
	return out, nil
}

// DeleteComment removes one comment.
func (s *Service) DeleteComment(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	return wrapNotFound(s.Store.Delete(ctx, feed.CollectionComments, id))
}

// ---- Image bank ----

// UploadImage stores image content and its bank record.
func (s *Service) UploadImage(ctx context.Context, sphereID, uploaderID, caption string, data []byte, contentType string) (gallery.Image, error) {
	if err := s.ready(); err != nil {
		return gallery.Image{}, err
	}
	if s.Blobs == nil {
		return gallery.Image{}, errors.New("app: no blob store configured")
	}
	if len(data) == 0 {
		return gallery.Image{}, errors.New("app: image content required")
	}
	id := s.newID()
	ref := mediaRef(sphereID, id)
	if err := s.Blobs.Upload(ctx, ref, bytes.NewReader(data), contentType); err != nil {
		return gallery.Image{}, err
	}
	doc, err := s.Store.Put(ctx, docstore.Document{
		ID:         id,
		Collection: gallery.CollectionImages,
		Fields: map[string]any{
			gallery.FieldSphereID:   sphereID,
			gallery.FieldUploaderID: uploaderID,
			gallery.FieldCaption:    caption,
			live.FieldMediaRef:      ref,
		},
	})
	if err != nil {
		return gallery.Image{}, err
	}
	return gallery.FromDocument(doc), nil
}

// Images lists a sphere's image bank one-shot.
func (s *Service) Images(ctx context.Context, sphereID string) ([]gallery.Image, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	docs, err := s.Store.List(ctx, gallery.Query(sphereID))
	if err != nil {
		return nil, err
	}
	out := make([]gallery.Image, len(docs))
	for i, d := range docs {
		out[i] = gallery.FromDocument(d)
	}
	return out, nil
}

// DeleteImage removes an image record and its stored content.
func (s *Service) DeleteImage(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	doc, err := s.Store.Get(ctx, gallery.CollectionImages, id)
	if err != nil {
		return wrapNotFound(err)
	}
	if ref := doc.Field(live.FieldMediaRef); ref != "" && s.Blobs != nil {
		if err := s.Blobs.Delete(ctx, ref); err != nil {
			return err
		}
	}
	return s.Store.Delete(ctx, gallery.CollectionImages, id)
}

// ---- Diary ----

// AddDiaryEntry writes a diary entry for the given day (YYYY-MM-DD).
func (s *Service) AddDiaryEntry(ctx context.Context, userID, date, title, body string) (diary.Entry, error) {
	if err := s.ready(); err != nil {
		return diary.Entry{}, err
	}
	doc, err := s.Store.Put(ctx, docstore.Document{
		ID:         s.newID(),
		Collection: diary.CollectionEntries,
		Fields: map[string]any{
			diary.FieldUserID: userID,
			diary.FieldDate:   date,
			diary.FieldTitle:  title,
			diary.FieldBody:   body,
		},
	})
	if err != nil {
		return diary.Entry{}, err
	}
	return diary.FromDocument(doc), nil
}

// EditDiaryEntry replaces an entry's title and body.
func (s *Service) EditDiaryEntry(ctx context.Context, id, title, body string) (diary.Entry, error) {
	if err := s.ready(); err != nil {
		return diary.Entry{}, err
	}
	doc, err := s.Store.Get(ctx, diary.CollectionEntries, id)
	if err != nil {
		return diary.Entry{}, wrapNotFound(err)
	}
	doc.Fields[diary.FieldTitle] = title
	doc.Fields[diary.FieldBody] = body
	doc, err = s.Store.Put(ctx, doc)
	if err != nil {
		return diary.Entry{}, err
	}
	return diary.FromDocument(doc), nil
}

// DiaryEntries lists a user's entries, newest day first.
func (s *Service) DiaryEntries(ctx context.Context, userID string) ([]diary.Entry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	docs, err := s.Store.List(ctx, diary.Query(userID))
	if err != nil {
		return nil, err
	}
	out := make([]diary.Entry, len(docs))
	for i, d := range docs {
		out[i] = diary.FromDocument(d)
	}
	return out, nil
}

// DeleteDiaryEntry removes one entry.
func (s *Service) DeleteDiaryEntry(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	return wrapNotFound(s.Store.Delete(ctx, diary.CollectionEntries, id))
}

// ---- Projects ----

// CreateProject starts an empty slideshow or album.
func (s *Service) CreateProject(ctx context.Context, sphereID, ownerID, name string, kind project.Kind) (project.Project, error) {
	if err := s.ready(); err != nil {
		return project.Project{}, err
	}
	doc, err := s.Store.Put(ctx, docstore.Document{
		ID:         s.newID(),
		Collection: project.CollectionProjects,
		Fields: map[string]any{
			project.FieldSphereID: sphereID,
			project.FieldOwnerID:  ownerID,
			project.FieldName:     name,
			project.FieldKind:     string(kind),
			project.FieldItems:    []string{},
		},
	})
	if err != nil {
		return project.Project{}, err
	}
	return project.FromDocument(doc), nil
}

// Projects lists a sphere's projects.
func (s *Service) Projects(ctx context.Context, sphereID string) ([]project.Project, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	docs, err := s.Store.List(ctx, project.Query(sphereID))
	if err != nil {
		return nil, err
	}
	out := make([]project.Project, len(docs))
	for i, d := range docs {
		out[i] = project.FromDocument(d)
	}
	return out, nil
}

// AddProjectItem appends an image to a project. Adding an image twice is a
// no-op.
func (s *Service) AddProjectItem(ctx context.Context, projectID, imageID string) (project.Project, error) {
	return s.updateItems(ctx, projectID, func(items []string) ([]string, error) {
		for _, it := range items {
			if it == imageID {
				return items, nil
			}
		}
		return append(items, imageID), nil
	})
}

// RemoveProjectItem drops an image from a project.
func (s *Service) RemoveProjectItem(ctx context.Context, projectID, imageID string) (project.Project, error) {
	return s.updateItems(ctx, projectID, func(items []string) ([]string, error) {
		out := make([]string, 0, len(items))
		for _, it := range items {
			if it != imageID {
				out = append(out, it)
			}
		}
		return out, nil
	})
}

// ReorderProject replaces the item order; the new order must be a
// permutation of the current one.
func (s *Service) ReorderProject(ctx context.Context, projectID string, order []string) (project.Project, error) {
	return s.updateItems(ctx, projectID, func(items []string) ([]string, error) {
		if len(order) != len(items) {
			return nil, fmt.Errorf("app: reorder must include all %d items", len(items))
		}
		have := make(map[string]bool, len(items))
		for _, it := range items {
			have[it] = true
		}
		for _, it := range order {
			if !have[it] {
				return nil, fmt.Errorf("app: unknown project item %s", it)
			}
		}
		return append([]string(nil), order...), nil
	})
}

func (s *Service) updateItems(ctx context.Context, projectID string, mutate func([]string) ([]string, error)) (project.Project, error) {
	if err := s.ready(); err != nil {
		return project.Project{}, err
	}
	doc, err := s.Store.Get(ctx, project.CollectionProjects, projectID)
	if err != nil {
		return project.Project{}, wrapNotFound(err)
	}
	current := project.FromDocument(doc)
	items, err := mutate(append([]string(nil), current.ItemIDs...))
	if err != nil {
		return project.Project{}, err
	}
	doc.Fields[project.FieldItems] = items
	doc, err = s.Store.Put(ctx, doc)
	if err != nil {
		return project.Project{}, err
	}
	return project.FromDocument(doc), nil
}

// PlayOrder resolves a project's items into its play sequence. Images
// missing from the bank are skipped, not an error.
func (s *Service) PlayOrder(ctx context.Context, projectID string) ([]gallery.Image, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	doc, err := s.Store.Get(ctx, project.CollectionProjects, projectID)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	p := project.FromDocument(doc)
	out := make([]gallery.Image, 0, len(p.ItemIDs))
	for _, id := range p.ItemIDs {
		imgDoc, err := s.Store.Get(ctx, gallery.CollectionImages, id)
		if err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, gallery.FromDocument(imgDoc))
	}
	return out, nil
}

// ---- Spheres and invitations ----

// CreateSphere creates a sphere with its owner as first member.
func (s *Service) CreateSphere(ctx context.Context, ownerID, name string) (sphere.Sphere, error) {
	if err := s.ready(); err != nil {
		return sphere.Sphere{}, err
	}
	doc, err := s.Store.Put(ctx, docstore.Document{
		ID:         s.newID(),
		Collection: sphere.CollectionSpheres,
		Fields: map[string]any{
			sphere.FieldName:        name,
			sphere.FieldOwnerID:     ownerID,
			sphere.FieldInviteCount: 0,
		},
	})
	if err != nil {
		return sphere.Sphere{}, err
	}
	if _, err := s.Store.Put(ctx, docstore.Document{
		ID:         s.newID(),
		Collection: sphere.CollectionMembers,
		Fields: map[string]any{
			sphere.FieldSphereID: doc.ID,
			sphere.FieldUserID:   ownerID,
			sphere.FieldRole:     "owner",
		},
	}); err != nil {
		return sphere.Sphere{}, err
	}
	return sphere.FromDocument(doc), nil
}

// Spheres lists the spheres a user belongs to.
func (s *Service) Spheres(ctx context.Context, userID string) ([]sphere.Sphere, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	memberships, err := s.Store.List(ctx, sphere.MembershipsQuery(userID))
	if err != nil {
		return nil, err
	}
	out := make([]sphere.Sphere, 0, len(memberships))
	for _, m := range memberships {
		doc, err := s.Store.Get(ctx, sphere.CollectionSpheres, m.Field(sphere.FieldSphereID))
		if err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, sphere.FromDocument(doc))
	}
	return out, nil
}

// Members lists a sphere's members.
func (s *Service) Members(ctx context.Context, sphereID string) ([]sphere.Member, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	docs, err := s.Store.List(ctx, docstore.Query{
		Collection: sphere.CollectionMembers,
		Equals:     map[string]string{sphere.FieldSphereID: sphereID},
		OrderBy:    "createTime",
	})
	if err != nil {
		return nil, err
	}
	out := make([]sphere.Member, len(docs))
	for i, d := range docs {
		out[i] = sphere.MemberFromDocument(d)
	}
	return out, nil
}

// Invite records an invitation addressed to an email. The live invitation
// subscription is the single authority for open invites; the sphere's
// inviteCount field is a denormalized warm-start hint and is never read
// back as truth.
func (s *Service) Invite(ctx context.Context, sphereID, inviterID, email string) (sphere.Invitation, error) {
	if err := s.ready(); err != nil {
		return sphere.Invitation{}, err
	}
	sphDoc, err := s.Store.Get(ctx, sphere.CollectionSpheres, sphereID)
	if err != nil {
		return sphere.Invitation{}, wrapNotFound(err)
	}
	doc, err := s.Store.Put(ctx, docstore.Document{
		ID:         s.newID(),
		Collection: sphere.CollectionInvitations,
		Fields: map[string]any{
			sphere.FieldSphereID:   sphereID,
			sphere.FieldSphereName: sphDoc.Field(sphere.FieldName),
			sphere.FieldEmail:      email,
			sphere.FieldInviterID:  inviterID,
		},
	})
	if err != nil {
		return sphere.Invitation{}, err
	}
	s.bumpInviteHint(ctx, sphDoc, 1)
	return sphere.InvitationFromDocument(doc), nil
}

// AcceptInvite turns an invitation into a membership.
func (s *Service) AcceptInvite(ctx context.Context, invitationID, userID string) (sphere.Member, error) {
	if err := s.ready(); err != nil {
		return sphere.Member{}, err
	}
	invDoc, err := s.Store.Get(ctx, sphere.CollectionInvitations, invitationID)
	if err != nil {
		return sphere.Member{}, wrapNotFound(err)
	}
	inv := sphere.InvitationFromDocument(invDoc)
	memberDoc, err := s.Store.Put(ctx, docstore.Document{
		ID:         s.newID(),
		Collection: sphere.CollectionMembers,
		Fields: map[string]any{
			sphere.FieldSphereID: inv.SphereID,
			sphere.FieldUserID:   userID,
			sphere.FieldRole:     "member",
		},
	})
	if err != nil {
		return sphere.Member{}, err
	}
	if err := s.Store.Delete(ctx, sphere.CollectionInvitations, invitationID); err != nil {
		return sphere.Member{}, err
	}
	if sphDoc, err := s.Store.Get(ctx, sphere.CollectionSpheres, inv.SphereID); err == nil {
		s.bumpInviteHint(ctx, sphDoc, -1)
	}
	return sphere.MemberFromDocument(memberDoc), nil
}

// Invites lists open invitations for an email one-shot.
func (s *Service) Invites(ctx context.Context, email string) ([]sphere.Invitation, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	docs, err := s.Store.List(ctx, sphere.InvitesQuery(email))
	if err != nil {
		return nil, err
	}
	out := make([]sphere.Invitation, len(docs))
	for i, d := range docs {
		out[i] = sphere.InvitationFromDocument(d)
	}
	return out, nil
}

// bumpInviteHint maintains the warm-start count. Write failures are
// ignored; the hint is allowed to drift because nothing trusts it.
func (s *Service) bumpInviteHint(ctx context.Context, sphDoc docstore.Document, delta int) {
	count := 0
	switch v := sphDoc.Fields[sphere.FieldInviteCount].(type) {
	case int:
		count = v
	case float64:
		count = int(v)
	}
	count += delta
	if count < 0 {
		count = 0
	}
	sphDoc.Fields[sphere.FieldInviteCount] = count
	_, _ = s.Store.Put(ctx, sphDoc)
}

func mediaRef(sphereID, id string) string {
	return "spheres/" + sphereID + "/media/" + id
}

func dataURI(data []byte, mediaType string) string {
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func wrapNotFound(err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
