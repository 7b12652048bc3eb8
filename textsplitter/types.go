package textsplitter

import "errors"

// Metadata keys added to every document produced by TokenSplitter.
const (
	MetadataSplitIndex    = "split_index"
	MetadataSplitSize     = "split_size"
	MetadataSplitComplete = "split_complete"
	MetadataSplitID       = "split_id"
	MetadataSource        = "source"
)

var ErrExpressionRequired = errors.New("tokenize expression is required")
