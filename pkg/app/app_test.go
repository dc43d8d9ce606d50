package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"tableflip.dev/sphere/pkg/blobstore"
	"tableflip.dev/sphere/pkg/docstore"
	"tableflip.dev/sphere/pkg/live"
	"tableflip.dev/sphere/pkg/project"
	"tableflip.dev/sphere/pkg/sphere"
)

func newTestService() (*Service, *docstore.Memory, *blobstore.Memory) {
	store := docstore.NewMemory()
	blobs := blobstore.NewMemory()
	counter := 0
	svc := &Service{
		Store: store,
		Blobs: blobs,
		NewID: func() string {
			counter++
			return fmt.Sprintf("id-%d", counter)
		},
	}
	return svc, store, blobs
}

func TestCreatePostInlinesSmallMedia(t *testing.T) {
	svc, store, blobs := newTestService()
	ctx := context.Background()

	media := bytes.Repeat([]byte{0xAB}, 128)
	post, err := svc.CreatePost(ctx, "s1", "u1", "small one", media, "image/png")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	doc, err := store.Get(ctx, "posts", post.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	inline := doc.Field(live.FieldInlineMedia)
	if !strings.HasPrefix(inline, "data:image/png;base64,") {
		t.Fatalf("inline media = %q, want a data URI", inline)
	}
	if doc.Field(live.FieldMediaRef) != "" {
		t.Fatal("small media must not also carry a reference")
	}
	if blobs.Len() != 0 {
		t.Fatalf("small media leaked into the blob store: %d blobs", blobs.Len())
	}
}

func TestCreatePostUploadsLargeMedia(t *testing.T) {
	svc, store, blobs := newTestService()
	ctx := context.Background()

	media := bytes.Repeat([]byte{0xCD}, InlineMediaLimit+1)
	post, err := svc.CreatePost(ctx, "s1", "u1", "big one", media, "image/jpeg")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	doc, err := store.Get(ctx, "posts", post.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	ref := doc.Field(live.FieldMediaRef)
	if !strings.HasPrefix(ref, "spheres/s1/media/") {
		t.Fatalf("media ref = %q", ref)
	}
	if doc.Field(live.FieldInlineMedia) != "" {
		t.Fatal("large media must not embed inline")
	}
	if blobs.Len() != 1 {
		t.Fatalf("blob count = %d, want 1", blobs.Len())
	}
	if _, err := blobs.ResolveURL(ctx, ref); err != nil {
		t.Fatalf("uploaded content not resolvable: %v", err)
	}
}

func TestCreatePostExactlyAtLimitStaysInline(t *testing.T) {
	svc, _, blobs := newTestService()
	media := bytes.Repeat([]byte{0x01}, InlineMediaLimit)
	if _, err := svc.CreatePost(context.Background(), "s1", "u1", "edge", media, "image/png"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if blobs.Len() != 0 {
		t.Fatal("media at the limit should embed inline")
	}
}

func TestDeletePostRemovesCommentsAndOrphanedMedia(t *testing.T) {
	svc, store, blobs := newTestService()
	ctx := context.Background()

	media := bytes.Repeat([]byte{0x02}, InlineMediaLimit+1)
	post, err := svc.CreatePost(ctx, "s1", "u1", "with media", media, "image/jpeg")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.AddComment(ctx, post.ID, "u2", "nice"); err != nil {
		t.Fatalf("comment: %v", err)
	}

	if err := svc.DeletePost(ctx, post.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := store.Get(ctx, "posts", post.ID); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("post survived delete: %v", err)
	}
	comments, err := svc.Comments(ctx, post.ID)
	if err != nil {
		t.Fatalf("comments: %v", err)
	}
	if len(comments) != 0 {
		t.Fatalf("comments survived delete: %d", len(comments))
	}
	if blobs.Len() != 0 {
		t.Fatalf("orphaned media not collected: %d blobs", blobs.Len())
	}
}

func TestDeletePostKeepsBankImageContent(t *testing.T) {
	svc, _, blobs := newTestService()
	ctx := context.Background()

	data := bytes.Repeat([]byte{0x03}, 64)
	img, err := svc.UploadImage(ctx, "s1", "u1", "sunset", data, "image/jpeg")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	post, err := svc.CreatePostFromImage(ctx, "s1", "u1", "look at this", img.ID)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	if err := svc.DeletePost(ctx, post.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// The bank image still owns the content.
	if blobs.Len() != 1 {
		t.Fatalf("shared content deleted with the post: %d blobs", blobs.Len())
	}
	images, err := svc.Images(ctx, "s1")
	if err != nil {
		t.Fatalf("images: %v", err)
	}
	if len(images) != 1 || images[0].ID != img.ID {
		t.Fatalf("bank changed: %v", images)
	}
}

func TestCreatePostFromImageMissingImage(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.CreatePostFromImage(context.Background(), "s1", "u1", "x", "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestEditPostReplacesBody(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	post, err := svc.CreatePost(ctx, "s1", "u1", "tyop", nil, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	edited, err := svc.EditPost(ctx, post.ID, "typo")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.Body != "typo" {
		t.Fatalf("body = %q", edited.Body)
	}
	if _, err := svc.EditPost(ctx, "nope", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("edit missing: %v, want ErrNotFound", err)
	}
}

func TestCommentsRequireExistingPost(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.AddComment(context.Background(), "nope", "u1", "hi"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUploadImageRequiresContent(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.UploadImage(context.Background(), "s1", "u1", "cap", nil, "image/png"); err == nil {
		t.Fatal("expected error for empty content")
	}
}

func TestDeleteImageRemovesContent(t *testing.T) {
	svc, _, blobs := newTestService()
	ctx := context.Background()
	img, err := svc.UploadImage(ctx, "s1", "u1", "cap", []byte{1, 2, 3}, "image/png")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if err := svc.DeleteImage(ctx, img.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if blobs.Len() != 0 {
		t.Fatalf("content survived delete: %d blobs", blobs.Len())
	}
}

func TestDiaryEntryLifecycle(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	entry, err := svc.AddDiaryEntry(ctx, "u1", "2026-08-30", "Beach day", "sandy")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if entry.Title != "Beach day" {
		t.Fatalf("title = %q", entry.Title)
	}

	edited, err := svc.EditDiaryEntry(ctx, entry.ID, "Beach day", "very sandy")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.Body != "very sandy" {
		t.Fatalf("body = %q", edited.Body)
	}

	entries, err := svc.DiaryEntries(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}

	if err := svc.DeleteDiaryEntry(ctx, entry.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteDiaryEntry(ctx, entry.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: %v, want ErrNotFound", err)
	}
}

func TestProjectItemOperations(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, "s1", "u1", "Summer", project.KindSlideshow)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Kind != project.KindSlideshow {
		t.Fatalf("kind = %q", p.Kind)
	}

	for _, img := range []string{"i1", "i2", "i3"} {
		if p, err = svc.AddProjectItem(ctx, p.ID, img); err != nil {
			t.Fatalf("add %s: %v", img, err)
		}
	}
	// Duplicate add is a no-op.
	p, err = svc.AddProjectItem(ctx, p.ID, "i2")
	if err != nil {
		t.Fatalf("duplicate add: %v", err)
	}
	if len(p.ItemIDs) != 3 {
		t.Fatalf("items = %v, want 3", p.ItemIDs)
	}

	p, err = svc.RemoveProjectItem(ctx, p.ID, "i2")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(p.ItemIDs) != 2 || p.ItemIDs[0] != "i1" || p.ItemIDs[1] != "i3" {
		t.Fatalf("items after remove = %v", p.ItemIDs)
	}

	p, err = svc.ReorderProject(ctx, p.ID, []string{"i3", "i1"})
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if p.ItemIDs[0] != "i3" {
		t.Fatalf("order = %v", p.ItemIDs)
	}
}

func TestReorderProjectRejectsNonPermutations(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	p, err := svc.CreateProject(ctx, "s1", "u1", "Album", project.KindAlbum)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p, err = svc.AddProjectItem(ctx, p.ID, "i1"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if p, err = svc.AddProjectItem(ctx, p.ID, "i2"); err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := svc.ReorderProject(ctx, p.ID, []string{"i1"}); err == nil {
		t.Fatal("short order accepted")
	}
	if _, err := svc.ReorderProject(ctx, p.ID, []string{"i1", "i9"}); err == nil {
		t.Fatal("foreign item accepted")
	}
}

func TestPlayOrderSkipsMissingImages(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	img, err := svc.UploadImage(ctx, "s1", "u1", "keep", []byte{9}, "image/png")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	p, err := svc.CreateProject(ctx, "s1", "u1", "Show", project.KindSlideshow)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p, err = svc.AddProjectItem(ctx, p.ID, "gone"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if p, err = svc.AddProjectItem(ctx, p.ID, img.ID); err != nil {
		t.Fatalf("add: %v", err)
	}

	order, err := svc.PlayOrder(ctx, p.ID)
	if err != nil {
		t.Fatalf("play order: %v", err)
	}
	if len(order) != 1 || order[0].ID != img.ID {
		t.Fatalf("play order = %v, want just the surviving image", order)
	}
}

func TestCreateSphereAddsOwnerMembership(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	sph, err := svc.CreateSphere(ctx, "u1", "Family")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	members, err := svc.Members(ctx, sph.ID)
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if len(members) != 1 || members[0].UserID != "u1" || members[0].Role != "owner" {
		t.Fatalf("members = %v", members)
	}

	spheres, err := svc.Spheres(ctx, "u1")
	if err != nil {
		t.Fatalf("spheres: %v", err)
	}
	if len(spheres) != 1 || spheres[0].Name != "Family" {
		t.Fatalf("spheres = %v", spheres)
	}
}

func TestInviteAndAccept(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	sph, err := svc.CreateSphere(ctx, "u1", "Family")
	if err != nil {
		t.Fatalf("create sphere: %v", err)
	}
	inv, err := svc.Invite(ctx, sph.ID, "u1", "friend@example.com")
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	if inv.SphereName != "Family" {
		t.Fatalf("invitation sphere name = %q", inv.SphereName)
	}

	// The denormalized hint follows the open invitation count.
	sphDoc, err := store.Get(ctx, sphere.CollectionSpheres, sph.ID)
	if err != nil {
		t.Fatalf("get sphere: %v", err)
	}
	if got := sphDoc.Field(sphere.FieldInviteCount); got != "1" {
		t.Fatalf("invite hint = %q, want 1", got)
	}

	open, err := svc.Invites(ctx, "friend@example.com")
	if err != nil {
		t.Fatalf("invites: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("open invites = %d, want 1", len(open))
	}

	member, err := svc.AcceptInvite(ctx, inv.ID, "u2")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if member.SphereID != sph.ID || member.Role != "member" {
		t.Fatalf("member = %+v", member)
	}

	open, err = svc.Invites(ctx, "friend@example.com")
	if err != nil {
		t.Fatalf("invites after accept: %v", err)
	}
	if len(open) != 0 {
		t.Fatalf("invitation survived accept: %d", len(open))
	}
	sphDoc, err = store.Get(ctx, sphere.CollectionSpheres, sph.ID)
	if err != nil {
		t.Fatalf("get sphere: %v", err)
	}
	if got := sphDoc.Field(sphere.FieldInviteCount); got != "0" {
		t.Fatalf("invite hint after accept = %q, want 0", got)
	}

	spheres, err := svc.Spheres(ctx, "u2")
	if err != nil {
		t.Fatalf("spheres: %v", err)
	}
	if len(spheres) != 1 {
		t.Fatalf("accepted user sees %d spheres, want 1", len(spheres))
	}
}

func TestInviteMissingSphere(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Invite(context.Background(), "nope", "u1", "a@b.c"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestServiceRequiresStore(t *testing.T) {
	svc := &Service{}
	if _, err := svc.Posts(context.Background(), "s1"); err == nil {
		t.Fatal("expected configuration error")
	}
}
