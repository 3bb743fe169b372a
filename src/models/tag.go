package models

import (
	"time"

	"github.com/google/uuid"
)

type Tag struct {
	ID        uuid.UUID `json:"id"`
	User      string    `json:"user"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TagPatch struct {
	Name  *string
	Color *string
}

// TagKind tells how a TagRef was obtained.
type TagKind string

const (
	// TagSnapshot is a copy taken at write time. Later edits to the tag do
	// not reach it and deleting the tag does not remove it.
	TagSnapshot TagKind = "snapshot"
	// TagLive is resolved from the current tag on every read.
	TagLive TagKind = "live"
)

// TagRef is a tag as embedded in a finance record or preset.
type TagRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Kind  TagKind   `json:"kind"`
}

// Ref embeds t with the given kind.
func (t Tag) Ref(kind TagKind) TagRef {
	return TagRef{ID: t.ID, Name: t.Name, Color: t.Color, Kind: kind}
}

// ResolveTags keeps the ids present in tags, in the order given, and drops
// the rest. Duplicate ids collapse to one.
func ResolveTags(tags []Tag, ids []uuid.UUID, kind TagKind) []TagRef {
	byID := make(map[uuid.UUID]Tag, len(tags))
	for _, t := range tags {
		byID[t.ID] = t
	}
	refs := make([]TagRef, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		t, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		refs = append(refs, t.Ref(kind))
	}
	return refs
}
