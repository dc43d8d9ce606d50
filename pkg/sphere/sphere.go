// Package sphere models private groups and their membership: the unit of
// data partitioning for feed and image-bank content.
package sphere

import (
	"time"

	"tableflip.dev/sphere/pkg/docstore"
	"tableflip.dev/sphere/pkg/live"
)

// Collection names in the document store.
const (
	CollectionSpheres     = "spheres"
	CollectionMembers     = "members"
	CollectionInvitations = "invitations"
)

// Field names.
const (
	FieldName        = "name"
	FieldOwnerID     = "ownerId"
	FieldSphereID    = "sphereId"
	FieldSphereName  = "sphereName"
	FieldUserID      = "userId"
	FieldEmail       = "email"
	FieldInviterID   = "inviterId"
	FieldRole        = "role"
	FieldInviteCount = "inviteCount"
)

// Sphere is one private group. InviteCount is a denormalized warm-start hint
// written alongside invitations; the live invitation subscription is the
// single authority and this field is never read back as truth.
type Sphere struct {
	ID          string
	Name        string
	OwnerID     string
	InviteCount int
	CreatedAt   *time.Time
}

// Member ties a user to a sphere.
type Member struct {
	ID       string
	SphereID string
	UserID   string
	Role     string
}

// Invitation is a pending invite, delivered to the invited email via the
// live subscription.
type Invitation struct {
	ID         string
	SphereID   string
	SphereName string
	Email      string
	InviterID  string
	CreatedAt  *time.Time
}

// InvitesQuery selects the open invitations addressed to an email, oldest
// first. Its key identifies the invitation live channel.
func InvitesQuery(email string) docstore.Query {
	return docstore.Query{
		Collection: CollectionInvitations,
		Equals:     map[string]string{FieldEmail: email},
		OrderBy:    "createTime",
	}
}

// MembershipsQuery selects a user's memberships.
func MembershipsQuery(userID string) docstore.Query {
	return docstore.Query{
		Collection: CollectionMembers,
		Equals:     map[string]string{FieldUserID: userID},
		OrderBy:    "createTime",
	}
}

// FromDocument converts a one-shot sphere read.
func FromDocument(d docstore.Document) Sphere {
	count := 0
	if v, ok := d.Fields[FieldInviteCount].(int); ok {
		count = v
	} else if v, ok := d.Fields[FieldInviteCount].(float64); ok {
		count = int(v)
	}
	return Sphere{
		ID:          d.ID,
		Name:        d.Field(FieldName),
		OwnerID:     d.Field(FieldOwnerID),
		InviteCount: count,
		CreatedAt:   d.CreateTime,
	}
}

// MemberFromDocument converts a one-shot membership read.
func MemberFromDocument(d docstore.Document) Member {
	return Member{
		ID:       d.ID,
		SphereID: d.Field(FieldSphereID),
		UserID:   d.Field(FieldUserID),
		Role:     d.Field(FieldRole),
	}
}

// InvitationFromRecord converts a normalized live record.
func InvitationFromRecord(r live.Record) Invitation {
	return Invitation{
		ID:         r.ID,
		SphereID:   r.Field(FieldSphereID),
		SphereName: r.Field(FieldSphereName),
		Email:      r.Field(FieldEmail),
		InviterID:  r.Field(FieldInviterID),
		CreatedAt:  parseISO(r.CreatedAt),
	}
}

// InvitationsFromRecords converts a whole delivery, preserving its order.
func InvitationsFromRecords(records []live.Record) []Invitation {
	out := make([]Invitation, len(records))
	for i, r := range records {
		out[i] = InvitationFromRecord(r)
	}
	return out
}

// InvitationFromDocument converts a one-shot invitation read.
func InvitationFromDocument(d docstore.Document) Invitation {
	return Invitation{
		ID:         d.ID,
		SphereID:   d.Field(FieldSphereID),
		SphereName: d.Field(FieldSphereName),
		Email:      d.Field(FieldEmail),
		InviterID:  d.Field(FieldInviterID),
		CreatedAt:  d.CreateTime,
	}
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
