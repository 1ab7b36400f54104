// Package media implements the per-field image lifecycle of a property:
// every image column is independently kept, replaced or cleared.
package media

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/gabriel-vasile/mimetype"
)

// DefaultMIME is served when the stored bytes are not recognised as an image.
const DefaultMIME = "image/jpeg"

// PropertyFields lists the property image columns in display order.
var PropertyFields = []string{
	"img_thub",
	"img_hero",
	"img1",
	"img2",
	"img3",
	"img4",
	"img5",
	"typical_floor_plan",
	"ground_floor_plan",
	"roof_floor_plan",
}

// ThumbnailField is required when a property is created.
const ThumbnailField = "img_thub"

// IsPropertyField reports whether name is one of the property image columns.
func IsPropertyField(name string) bool {
	for _, f := range PropertyFields {
		if f == name {
			return true
		}
	}
	return false
}

// Action is the tag of an Update.
type Action int

const (
	Keep Action = iota
	Replace
	Delete
)

func (a Action) String() string {
	switch a {
	case Replace:
		return "replace"
	case Delete:
		return "delete"
	default:
		return "keep"
	}
}

// Update is what happens to one image column: Keep, Replace(Data) or Delete.
type Update struct {
	Action Action
	Data   []byte
}

// KeepImage leaves the stored value untouched.
func KeepImage() Update { return Update{Action: Keep} }

// ReplaceImage stores data in place of the current value.
func ReplaceImage(data []byte) Update { return Update{Action: Replace, Data: data} }

// DeleteImage sets the column to NULL.
func DeleteImage() Update { return Update{Action: Delete} }

// Updates maps column name to its update. Missing columns are kept.
type Updates map[string]Update

// Get returns the update for column, defaulting to Keep.
func (u Updates) Get(column string) Update {
	if up, ok := u[column]; ok {
		return up
	}
	return KeepImage()
}

// Columns returns the column assignments for a SQL UPDATE.
// Deleted columns map to nil so they are written as NULL; kept columns are omitted.
func (u Updates) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	for column, up := range u {
		switch up.Action {
		case Replace:
			cols[column] = up.Data
		case Delete:
			cols[column] = nil
		}
	}
	return cols
}

// Changed reports whether any column is replaced or deleted.
func (u Updates) Changed() bool {
	for _, up := range u {
		if up.Action != Keep {
			return true
		}
	}
	return false
}

// Apply applies the updates to a set of image columns in memory.
func (u Updates) Apply(images map[string]*[]byte) {
	for column, up := range u {
		ptr, ok := images[column]
		if !ok {
			continue
		}
		switch up.Action {
		case Replace:
			*ptr = up.Data
		case Delete:
			*ptr = nil
		}
	}
}

// Payload is the JSON form of a stored image.
type Payload struct {
	Type string `json:"type"`
	Data []byte `json:"data"`
	Hash string `json:"hash"`
}

// NewPayload wraps stored bytes. It returns nil for a NULL column.
func NewPayload(data []byte) *Payload {
	if data == nil {
		return nil
	}
	return &Payload{
		Type: DetectMIME(data),
		Data: data,
		Hash: ContentHash(data),
	}
}

// Payloads builds the payload map for the given columns, with nil for NULL columns.
func Payloads(images map[string]*[]byte, columns []string) map[string]*Payload {
	out := make(map[string]*Payload, len(columns))
	for _, column := range columns {
		ptr, ok := images[column]
		if !ok {
			continue
		}
		out[column] = NewPayload(*ptr)
	}
	return out
}

// DetectMIME sniffs the image type, falling back to DefaultMIME.
func DetectMIME(data []byte) string {
	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return m.String()
		}
	}
	return DefaultMIME
}

// ContentHash is a hex xxhash64 of the full byte sequence.
func ContentHash(data []byte) string {
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}
