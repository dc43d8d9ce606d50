// Package gallery models the sphere image bank.
package gallery

import (
	"time"

	"tableflip.dev/sphere/pkg/docstore"
	"tableflip.dev/sphere/pkg/live"
)

// CollectionImages is the image bank collection.
const CollectionImages = "images"

// Field names.
const (
	FieldSphereID   = "sphereId"
	FieldUploaderID = "uploaderId"
	FieldCaption    = "caption"
)

// Image is one image-bank entry. MediaURL is set only on records that came
// through the live normalization path.
type Image struct {
	ID         string
	SphereID   string
	UploaderID string
	Caption    string
	MediaURL   string
	CreatedAt  *time.Time
}

// Query selects a sphere's images, newest first.
func Query(sphereID string) docstore.Query {
	return docstore.Query{
		Collection: CollectionImages,
		Equals:     map[string]string{FieldSphereID: sphereID},
		OrderBy:    "createTime",
		Descending: true,
	}
}

// FromDocument converts a one-shot read.
func FromDocument(d docstore.Document) Image {
	return Image{
		ID:         d.ID,
		SphereID:   d.Field(FieldSphereID),
		UploaderID: d.Field(FieldUploaderID),
		Caption:    d.Field(FieldCaption),
		CreatedAt:  d.CreateTime,
	}
}

// FromRecord converts a normalized live record.
func FromRecord(r live.Record) Image {
	img := Image{
		ID:         r.ID,
		SphereID:   r.Field(FieldSphereID),
		UploaderID: r.Field(FieldUploaderID),
		Caption:    r.Field(FieldCaption),
		MediaURL:   r.MediaURL,
	}
	if r.CreatedAt != nil {
		if t, err := live.ParseTime(*r.CreatedAt); err == nil {
			img.CreatedAt = &t
		}
	}
	return img
}

// FromRecords converts a whole delivery, preserving its order.
func FromRecords(records []live.Record) []Image {
	out := make([]Image, len(records))
	for i, r := range records {
		out[i] = FromRecord(r)
	}
	return out
}
