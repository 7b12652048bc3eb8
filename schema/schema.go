package schema

import "fmt"

// Document is a unit of content plus metadata. Splitters read headers from
// Metadata and copy it onto every produced part.
type Document struct {
	PageContent string
	Metadata    map[string]any
}

func (d Document) String() string {
	return d.PageContent
}

func NewDocument(content string, metadata map[string]any) Document {
	if metadata == nil {
		metadata = make(map[string]any)
	}
	return Document{
		PageContent: content,
		Metadata:    metadata,
	}
}

// MetadataString returns the metadata value for key rendered as a string,
// and whether the key was present.
func (d Document) MetadataString(key string) (string, bool) {
	v, ok := d.Metadata[key]
	if !ok || v == nil {
		return "", false
	}
	if s, isString := v.(string); isString {
		return s, true
	}
	return fmt.Sprint(v), true
}
