package tokenize

import (
	"fmt"
	"strconv"

	"golang.org/x/text/encoding"
)

// Message is the source of a tokenizer evaluation: a body plus named
// headers. The tokenizer never stores or caches either.
type Message interface {
	Body() any
	Header(name string) (any, bool)
}

type message struct {
	body    any
	headers map[string]any
}

// NewMessage returns a Message backed by body and headers. headers may be
// nil.
func NewMessage(body any, headers map[string]any) Message {
	return &message{body: body, headers: headers}
}

func (m *message) Body() any { return m.body }

func (m *message) Header(name string) (any, bool) {
	v, ok := m.headers[name]
	return v, ok
}

// resolveSource returns the text to tokenize. ok is false when the source
// is absent, which yields an empty sequence rather than an error.
func resolveSource(cfg *Config, msg Message) (text string, ok bool, err error) {
	if msg == nil {
		return "", false, nil
	}

	value := msg.Body()
	if name, isHeader := cfg.HeaderName(); isHeader {
		v, found := msg.Header(name)
		if !found {
			return "", false, nil
		}
		value = v
	}
	return toText(value, cfg.encoding)
}

func toText(value any, enc encoding.Encoding) (string, bool, error) {
	switch v := value.(type) {
	case nil:
		return "", false, nil
	case string:
		return v, true, nil
	case []byte:
		if enc == nil {
			return string(v), true, nil
		}
		decoded, err := enc.NewDecoder().Bytes(v)
		if err != nil {
			return "", false, fmt.Errorf("decoding source: %w", err)
		}
		return string(decoded), true, nil
	case fmt.Stringer:
		return v.String(), true, nil
	case int:
		return strconv.Itoa(v), true, nil
	case int64:
		return strconv.FormatInt(v, 10), true, nil
	case bool:
		return strconv.FormatBool(v), true, nil
	default:
		return "", false, fmt.Errorf("%w: %T", ErrUnsupportedSource, value)
	}
}
