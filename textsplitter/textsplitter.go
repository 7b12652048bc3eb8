package textsplitter

import (
	"context"

	"github.com/sevigo/splitframe/schema"
)

type TextSplitter interface {
	SplitDocuments(ctx context.Context, docs []schema.Document) ([]schema.Document, error)
}

// TextSplitterWithText is implemented by splitters that also work on raw
// strings without metadata.
type TextSplitterWithText interface {
	TextSplitter
	SplitText(ctx context.Context, text string) ([]string, error)
}
