package tokenize

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// Options is the user-supplied tokenizer configuration as it arrives from
// the enclosing DSL. Every field is optional until Build validates it.
type Options struct {
	// Token is the (start) token, for example \n for a new line token.
	Token Optional[string] `mapstructure:"token" yaml:"token" validate:"required,min=1"`
	// EndToken switches to start/end pair mode.
	EndToken Optional[string] `mapstructure:"endToken" yaml:"endToken"`
	// HeaderName tokenizes the named header instead of the body.
	HeaderName Optional[string] `mapstructure:"headerName" yaml:"headerName"`
	// InheritNamespaceTagName names the ancestor tag whose namespace
	// declarations are copied onto every XML fragment.
	InheritNamespaceTagName Optional[string] `mapstructure:"inheritNamespaceTagName" yaml:"inheritNamespaceTagName"`
	Regex                   Optional[bool]   `mapstructure:"regex" yaml:"regex"`
	XML                     Optional[bool]   `mapstructure:"xml" yaml:"xml"`
	IncludeTokens           Optional[bool]   `mapstructure:"includeTokens" yaml:"includeTokens"`
	// Group combines N parts together, for example to split big files
	// into chunks of 1000 lines.
	Group Optional[int] `mapstructure:"group" yaml:"group" validate:"omitnil,gt=0"`
	// Charset decodes byte sources. Defaults to UTF-8.
	Charset Optional[string] `mapstructure:"charset" yaml:"charset"`
}

var (
	optStringType = reflect.TypeOf(Optional[string]{})
	optBoolType   = reflect.TypeOf(Optional[bool]{})
	optIntType    = reflect.TypeOf(Optional[int]{})
)

// DecodeOptions binds a raw option mapping. Values are weakly typed, so
// attribute strings such as "true" or "3" bind to bool and int. Unknown
// keys are rejected.
func DecodeOptions(raw map[string]any) (Options, error) {
	var opts Options

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       optionalHook,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &opts,
	})
	if err != nil {
		return Options{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Options{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return opts, nil
}

// ParseOptions reads options from a YAML document.
func ParseOptions(data []byte) (Options, error) {
	var opts Options

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil {
		if errors.Is(err, io.EOF) {
			return Options{}, nil
		}
		return Options{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return opts, nil
}

func optionalHook(from, to reflect.Type, data any) (any, error) {
	if from == to {
		return data, nil
	}

	switch to {
	case optStringType:
		var v string
		if err := mapstructure.WeakDecode(data, &v); err != nil {
			return nil, err
		}
		return Some(v), nil
	case optBoolType:
		var v bool
		if err := mapstructure.WeakDecode(data, &v); err != nil {
			return nil, err
		}
		return Some(v), nil
	case optIntType:
		var v int
		if err := mapstructure.WeakDecode(data, &v); err != nil {
			return nil, err
		}
		return Some(v), nil
	}
	return data, nil
}
