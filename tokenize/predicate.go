package tokenize

import "context"

// Predicate adapts an Expression to a boolean: it matches when the
// expression produces at least one part.
type Predicate struct {
	expr *Expression
}

// NewPredicate validates opts and returns a Predicate for them.
func NewPredicate(opts Options, eopts ...Option) (*Predicate, error) {
	expr, err := NewExpression(opts, eopts...)
	if err != nil {
		return nil, err
	}
	return expr.Predicate(), nil
}

func (e *Expression) Predicate() *Predicate {
	return &Predicate{expr: e}
}

// Matches pulls at most one part from the sequence.
func (p *Predicate) Matches(ctx context.Context, msg Message) (bool, error) {
	for _, err := range p.expr.Evaluate(ctx, msg) {
		if err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func (p *Predicate) String() string {
	return p.expr.String()
}
