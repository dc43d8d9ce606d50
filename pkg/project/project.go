// Package project models slideshow and album projects built from
// image-bank content.
package project

import (
	"time"

	"tableflip.dev/sphere/pkg/docstore"
)

// CollectionProjects is the projects collection.
const CollectionProjects = "projects"

// Kind distinguishes project flavors.
type Kind string

const (
	KindSlideshow Kind = "slideshow"
	KindAlbum     Kind = "album"
)

// Field names.
const (
	FieldSphereID = "sphereId"
	FieldOwnerID  = "ownerId"
	FieldName     = "name"
	FieldKind     = "kind"
	FieldItems    = "items"
)

// Project is one slideshow/album: an ordered list of image ids.
type Project struct {
	ID        string
	SphereID  string
	OwnerID   string
	Name      string
	Kind      Kind
	ItemIDs   []string
	CreatedAt *time.Time
}

// Query selects a sphere's projects by name.
func Query(sphereID string) docstore.Query {
	return docstore.Query{
		Collection: CollectionProjects,
		Equals:     map[string]string{FieldSphereID: sphereID},
		OrderBy:    FieldName,
	}
}

// FromDocument converts a one-shot read.
func FromDocument(d docstore.Document) Project {
	p := Project{
		ID:        d.ID,
		SphereID:  d.Field(FieldSphereID),
		OwnerID:   d.Field(FieldOwnerID),
		Name:      d.Field(FieldName),
		Kind:      Kind(d.Field(FieldKind)),
		CreatedAt: d.CreateTime,
	}
	switch items := d.Fields[FieldItems].(type) {
	case []string:
		p.ItemIDs = append(p.ItemIDs, items...)
	case []any:
		for _, it := range items {
			if s, ok := it.(string); ok {
				p.ItemIDs = append(p.ItemIDs, s)
			}
		}
	}
	return p
}
