package tokenize

import "errors"

var (
	// ErrInvalidConfig is returned by Build for structurally invalid options.
	// It is never returned while a sequence is being iterated.
	ErrInvalidConfig = errors.New("invalid tokenizer config")
	// ErrMalformedXML is yielded in XML mode when namespace declarations
	// cannot be located or re-attached to a fragment.
	ErrMalformedXML = errors.New("malformed xml")
	// ErrUnsupportedSource is yielded when the body or header value cannot
	// be converted to text.
	ErrUnsupportedSource = errors.New("unsupported source type")
)
