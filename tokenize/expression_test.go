package tokenize_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/splitframe/internal/testutil"
	"github.com/sevigo/splitframe/tokenize"
)

type label string

func (l label) String() string { return "label:" + string(l) }

func texts(parts []tokenize.Part) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, p.Text)
	}
	return out
}

func TestExpression_InvalidConfigFailsFast(t *testing.T) {
	expr, err := tokenize.NewExpression(tokenize.Options{Token: tokenize.Some(","), Group: tokenize.Some(0)})
	require.Error(t, err)
	assert.Nil(t, expr)
	assert.ErrorIs(t, err, tokenize.ErrInvalidConfig)

	pred, err := tokenize.NewPredicate(tokenize.Options{})
	require.Error(t, err)
	assert.Nil(t, pred)
	assert.ErrorIs(t, err, tokenize.ErrInvalidConfig)
}

func TestExpression_Sources(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		opts tokenize.Options
		msg  tokenize.Message
		want []string
	}{
		{
			name: "body",
			opts: tokenize.Options{Token: tokenize.Some(",")},
			msg:  tokenize.NewMessage("a,b", map[string]any{"names": "x,y,z"}),
			want: []string{"a", "b"},
		},
		{
			name: "header",
			opts: tokenize.Options{Token: tokenize.Some(","), HeaderName: tokenize.Some("names")},
			msg:  tokenize.NewMessage("a,b", map[string]any{"names": "x,y,z"}),
			want: []string{"x", "y", "z"},
		},
		{
			name: "missing header",
			opts: tokenize.Options{Token: tokenize.Some(","), HeaderName: tokenize.Some("other")},
			msg:  tokenize.NewMessage("a,b", map[string]any{"names": "x,y,z"}),
			want: nil,
		},
		{
			name: "nil body",
			opts: tokenize.Options{Token: tokenize.Some(",")},
			msg:  tokenize.NewMessage(nil, nil),
			want: nil,
		},
		{
			name: "nil message",
			opts: tokenize.Options{Token: tokenize.Some(",")},
			msg:  nil,
			want: nil,
		},
		{
			name: "byte body",
			opts: tokenize.Options{Token: tokenize.Some(" ")},
			msg:  tokenize.NewMessage([]byte("hello world"), nil),
			want: []string{"hello", "world"},
		},
		{
			name: "byte body with charset",
			opts: tokenize.Options{Token: tokenize.Some(","), Charset: tokenize.Some("iso-8859-1")},
			msg:  tokenize.NewMessage([]byte{'c', 'a', 'f', 0xe9, ',', 'x'}, nil),
			want: []string{"café", "x"},
		},
		{
			name: "stringer header",
			opts: tokenize.Options{Token: tokenize.Some(":"), HeaderName: tokenize.Some("l")},
			msg:  tokenize.NewMessage(nil, map[string]any{"l": label("a")}),
			want: []string{"label", "a"},
		},
		{
			name: "numeric body",
			opts: tokenize.Options{Token: tokenize.Some("0")},
			msg:  tokenize.NewMessage(1020, nil),
			want: []string{"1", "2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := tokenize.NewExpression(tt.opts)
			require.NoError(t, err)

			parts, err := expr.Parts(ctx, tt.msg)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, parts)
				return
			}
			assert.Equal(t, tt.want, texts(parts))
		})
	}
}

func TestExpression_UnsupportedSource(t *testing.T) {
	expr, err := tokenize.NewExpression(tokenize.Options{Token: tokenize.Some(",")})
	require.NoError(t, err)

	_, err = expr.Parts(context.Background(), tokenize.NewMessage(struct{ A int }{1}, nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, tokenize.ErrUnsupportedSource)
}

func TestExpression_Value(t *testing.T) {
	ctx := context.Background()

	expr, err := tokenize.NewExpression(tokenize.Options{Token: tokenize.Some(",")})
	require.NoError(t, err)
	value, err := expr.Value(ctx, tokenize.NewMessage("a,b,c", nil))
	require.NoError(t, err)
	assert.Equal(t, "a,b,c", value)

	pair, err := tokenize.NewExpression(tokenize.Options{Token: tokenize.Some("["), EndToken: tokenize.Some("]")})
	require.NoError(t, err)
	value, err = pair.Value(ctx, tokenize.NewMessage("[a] and [b]", nil))
	require.NoError(t, err)
	assert.Equal(t, "ab", value)
}

func TestExpression_ContextCancelled(t *testing.T) {
	expr, err := tokenize.NewExpression(tokenize.Options{Token: tokenize.Some(",")})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var got []string
	var gotErr error
	for p, err := range expr.Evaluate(ctx, tokenize.NewMessage("a,b,c,d", nil)) {
		if err != nil {
			gotErr = err
			break
		}
		got = append(got, p.Text)
		if len(got) == 2 {
			cancel()
		}
	}
	assert.Equal(t, []string{"a", "b"}, got)
	assert.ErrorIs(t, gotErr, context.Canceled)
}

func TestExpression_ConcurrentEvaluations(t *testing.T) {
	expr, err := tokenize.NewExpression(tokenize.Options{Token: tokenize.Some(`\n`), Group: tokenize.Some(3)})
	require.NoError(t, err)

	lines := make([]string, 100)
	for i := range lines {
		lines[i] = strings.Repeat("x", i%7)
	}
	body := strings.Join(lines, "\n")

	want, err := expr.Parts(context.Background(), tokenize.NewMessage(body, nil))
	require.NoError(t, err)
	require.Len(t, want, 34)

	var wg sync.WaitGroup
	results := make([][]tokenize.Part, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			parts, err := expr.Parts(context.Background(), tokenize.NewMessage(body, nil))
			assert.NoError(t, err)
			results[i] = parts
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestExpression_Logging(t *testing.T) {
	logger, buf := testutil.NewTestLogger(t)

	expr, err := tokenize.NewExpression(tokenize.Options{Token: tokenize.Some(",")}, tokenize.WithLogger(logger))
	require.NoError(t, err)

	_, err = expr.Parts(context.Background(), tokenize.NewMessage("a,b,c", nil))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Tokenized source")
	assert.Contains(t, out, "component=tokenize")
	assert.Contains(t, out, "parts=3")
}

func TestPredicate(t *testing.T) {
	ctx := context.Background()

	pred, err := tokenize.NewPredicate(tokenize.Options{Token: tokenize.Some(","), HeaderName: tokenize.Some("ids")})
	require.NoError(t, err)
	assert.Equal(t, "tokenize{header: ids using token: ,}", pred.String())

	ok, err := pred.Matches(ctx, tokenize.NewMessage(nil, map[string]any{"ids": "1,2"}))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = pred.Matches(ctx, tokenize.NewMessage(nil, map[string]any{"ids": ""}))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = pred.Matches(ctx, tokenize.NewMessage("1,2", nil))
	require.NoError(t, err)
	assert.False(t, ok)

	pair, err := tokenize.NewPredicate(tokenize.Options{Token: tokenize.Some("<a>"), EndToken: tokenize.Some("</a>")})
	require.NoError(t, err)
	ok, err = pair.Matches(ctx, tokenize.NewMessage("no pairs here", nil))
	require.NoError(t, err)
	assert.False(t, ok)

	xmlPred, err := tokenize.NewPredicate(xmlOptions("item", "absent"))
	require.NoError(t, err)
	ok, err = xmlPred.Matches(ctx, tokenize.NewMessage("<root><item/></root>", nil))
	assert.ErrorIs(t, err, tokenize.ErrMalformedXML)
	assert.False(t, ok)
}
