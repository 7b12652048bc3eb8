package textsplitter

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	"github.com/sevigo/splitframe/schema"
	"github.com/sevigo/splitframe/tokenize"
)

// TokenSplitter splits documents with a tokenize expression. The page
// content is the body; metadata entries are the headers.
type TokenSplitter struct {
	expr   *tokenize.Expression
	logger *slog.Logger
	opts   options
}

var _ TextSplitterWithText = (*TokenSplitter)(nil)

// NewToken builds the tokenizer configuration once and returns a splitter
// for it.
func NewToken(tokenOpts tokenize.Options, logger *slog.Logger, opts ...Option) (*TokenSplitter, error) {
	if logger == nil {
		logger = slog.Default()
	}

	expr, err := tokenize.NewExpression(tokenOpts, tokenize.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create token splitter: %w", err)
	}
	return NewTokenWithExpression(expr, logger, opts...)
}

// NewTokenWithExpression wraps an existing expression.
func NewTokenWithExpression(expr *tokenize.Expression, logger *slog.Logger, opts ...Option) (*TokenSplitter, error) {
	if expr == nil {
		return nil, ErrExpressionRequired
	}
	if logger == nil {
		logger = slog.Default()
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &TokenSplitter{
		expr:   expr,
		logger: logger.With("component", "token_splitter"),
		opts:   o,
	}, nil
}

// SplitText splits a raw string, ignoring any header configuration.
func (s *TokenSplitter) SplitText(ctx context.Context, text string) ([]string, error) {
	var out []string
	for p, err := range s.expr.Split(ctx, text) {
		if err != nil {
			return nil, err
		}
		if p.Text == "" && !s.opts.keepEmpty {
			continue
		}
		out = append(out, p.Text)
	}
	return out, nil
}

func (s *TokenSplitter) SplitDocuments(ctx context.Context, docs []schema.Document) ([]schema.Document, error) {
	finalDocs := make([]schema.Document, 0, len(docs))
	for _, doc := range docs {
		parts, err := s.splitSingleDocument(ctx, doc)
		if err != nil {
			if s.opts.strict || ctx.Err() != nil {
				return nil, fmt.Errorf("failed to split document %v: %w", doc.Metadata[MetadataSource], err)
			}
			s.logger.WarnContext(ctx, "Could not split document, using original.", "source", doc.Metadata[MetadataSource], "error", err)
			finalDocs = append(finalDocs, doc)
			continue
		}
		finalDocs = append(finalDocs, parts...)
	}
	return finalDocs, nil
}

func (s *TokenSplitter) splitSingleDocument(ctx context.Context, doc schema.Document) ([]schema.Document, error) {
	var texts []string
	msg := documentMessage{doc: doc, raw: s.expr.Config().Charset() != ""}
	for p, err := range s.expr.Evaluate(ctx, msg) {
		if err != nil {
			return nil, err
		}
		if p.Text == "" && !s.opts.keepEmpty {
			continue
		}
		texts = append(texts, p.Text)
	}

	id := s.opts.newID()
	splitDocs := make([]schema.Document, 0, len(texts))
	for i, text := range texts {
		metadata := make(map[string]any, len(doc.Metadata)+4)
		maps.Copy(metadata, doc.Metadata)
		metadata[MetadataSplitIndex] = i
		metadata[MetadataSplitSize] = len(texts)
		metadata[MetadataSplitComplete] = i == len(texts)-1
		metadata[MetadataSplitID] = id
		splitDocs = append(splitDocs, schema.NewDocument(text, metadata))
	}

	s.logger.DebugContext(ctx, "Split document", "source", doc.Metadata[MetadataSource], "parts", len(splitDocs), "split_id", id)
	return splitDocs, nil
}

// documentMessage exposes a document to the tokenizer. With raw set the
// page content is handed over as bytes, so a configured charset decodes
// it. Loaders keep file bytes unchanged in PageContent.
type documentMessage struct {
	doc schema.Document
	raw bool
}

func (m documentMessage) Body() any {
	if m.raw {
		return []byte(m.doc.PageContent)
	}
	return m.doc.PageContent
}

func (m documentMessage) Header(name string) (any, bool) {
	v, ok := m.doc.Metadata[name]
	return v, ok
}
