package textsplitter

import "github.com/google/uuid"

// options holds configuration settings for the token splitter.
type options struct {
	strict    bool
	keepEmpty bool
	newID     func() string
}

func defaultOptions() options {
	return options{
		keepEmpty: true,
		newID:     uuid.NewString,
	}
}

// Option is a function type for configuring the splitter.
type Option func(*options)

// WithStrict makes SplitDocuments return the first error instead of logging
// it and keeping the original document.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithKeepEmpty controls whether empty parts, such as those between two
// adjacent tokens, become documents. Defaults to true.
func WithKeepEmpty(keep bool) Option {
	return func(o *options) {
		o.keepEmpty = keep
	}
}

// WithIDGenerator sets the function producing the split_id shared by all
// parts of one source document.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}
