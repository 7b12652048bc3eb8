// Package tokenize splits a message body or header into parts delimited by
// a literal token, a regular expression or a start/end token pair, with
// optional grouping and XML namespace inheritance.
package tokenize

import (
	"context"
	"iter"
	"log/slog"
	"strings"
)

type options struct {
	logger *slog.Logger
}

// Option configures an Expression.
type Option func(*options)

// WithLogger sets the logger used for evaluation diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Expression evaluates a tokenizer configuration against messages. It holds
// no per-evaluation state and is safe for concurrent use.
type Expression struct {
	cfg    *Config
	logger *slog.Logger
}

// NewExpression validates opts once and returns an Expression for them.
func NewExpression(opts Options, eopts ...Option) (*Expression, error) {
	cfg, err := Build(opts)
	if err != nil {
		return nil, err
	}
	return NewExpressionFromConfig(cfg, eopts...), nil
}

func NewExpressionFromConfig(cfg *Config, eopts ...Option) *Expression {
	o := options{logger: slog.Default()}
	for _, opt := range eopts {
		opt(&o)
	}
	return &Expression{
		cfg:    cfg,
		logger: o.logger.With("component", "tokenize"),
	}
}

func (e *Expression) Config() *Config { return e.cfg }

func (e *Expression) String() string { return e.cfg.String() }

// Evaluate returns the lazy sequence of parts for the body, or the configured
// header, of msg. An absent source gives an empty sequence. Every range over
// the sequence scans from the beginning with its own cursor; a consumer may
// stop pulling at any time.
func (e *Expression) Evaluate(ctx context.Context, msg Message) iter.Seq2[Part, error] {
	return func(yield func(Part, error) bool) {
		text, ok, err := resolveSource(e.cfg, msg)
		if err != nil {
			yield(Part{}, err)
			return
		}
		if !ok {
			e.logger.DebugContext(ctx, "No source to tokenize", "expression", e.cfg.String())
			return
		}
		e.split(ctx, text, yield)
	}
}

// Split returns the lazy sequence of parts for text.
func (e *Expression) Split(ctx context.Context, text string) iter.Seq2[Part, error] {
	return func(yield func(Part, error) bool) {
		e.split(ctx, text, yield)
	}
}

func (e *Expression) split(ctx context.Context, text string, yield func(Part, error) bool) {
	src := e.pipeline(text)
	count := 0
	for {
		if err := ctx.Err(); err != nil {
			yield(Part{}, err)
			return
		}
		p, ok, err := src.next()
		if err != nil {
			e.logger.WarnContext(ctx, "Tokenizing stopped", "expression", e.cfg.String(), "parts", count, "error", err)
			yield(Part{}, err)
			return
		}
		if !ok {
			break
		}
		count++
		if !yield(p, nil) {
			return
		}
	}
	e.logger.DebugContext(ctx, "Tokenized source", "expression", e.cfg.String(), "parts", count)
}

// pipeline wires scanner, namespace inheritance and grouping for one run.
// Namespaces are attached per element before grouping so every element in
// a group is standalone.
func (e *Expression) pipeline(text string) partSource {
	var src partSource = newPartScanner(text, e.cfg)
	if e.cfg.xml && e.cfg.inheritTag != "" {
		src = newNamespaceInheritor(src, text, e.cfg.inheritTag)
	}
	if e.cfg.group > 0 {
		src = newGrouper(src, e.cfg.group, joinSeparator(e.cfg))
	}
	return src
}

// Parts drains the sequence for msg.
func (e *Expression) Parts(ctx context.Context, msg Message) ([]Part, error) {
	var parts []Part
	for p, err := range e.Evaluate(ctx, msg) {
		if err != nil {
			return parts, err
		}
		parts = append(parts, p)
	}
	return parts, nil
}

// Value returns all parts joined into one string, for callers that use the
// tokenizer as a single-valued expression.
func (e *Expression) Value(ctx context.Context, msg Message) (string, error) {
	sep := joinSeparator(e.cfg)
	var b strings.Builder
	n := 0
	for p, err := range e.Evaluate(ctx, msg) {
		if err != nil {
			return "", err
		}
		if n > 0 {
			b.WriteString(sep)
		}
		b.WriteString(p.Text)
		n++
	}
	return b.String(), nil
}
