package tokenize

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// escapedNewline is the two-character form a newline token takes when it
// is written in an XML attribute or a YAML single-quoted string.
const escapedNewline = `\n`

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("mapstructure")
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		switch o := field.Interface().(type) {
		case Optional[string]:
			return o.ptr()
		case Optional[bool]:
			return o.ptr()
		case Optional[int]:
			return o.ptr()
		}
		return nil
	}, Optional[string]{}, Optional[bool]{}, Optional[int]{})
	return v
}

// Config is a validated, immutable tokenizer configuration. It is safe for
// concurrent use by any number of evaluations.
type Config struct {
	token         string
	endToken      string
	hasEndToken   bool
	headerName    string
	hasHeader     bool
	inheritTag    string
	regex         bool
	xml           bool
	includeTokens bool
	group         int
	charset       string
	encoding      encoding.Encoding

	matcher matcher
}

// Build validates opts and returns the resulting Config. All failures wrap
// ErrInvalidConfig.
func Build(opts Options) (*Config, error) {
	if err := validate.Struct(opts); err != nil {
		return nil, translateValidationError(err)
	}

	cfg := &Config{
		token:         normalizeToken(opts.Token.OrElse("")),
		regex:         opts.Regex.OrElse(false),
		xml:           opts.XML.OrElse(false),
		includeTokens: opts.IncludeTokens.OrElse(false),
		group:         opts.Group.OrElse(0),
	}
	cfg.endToken, cfg.hasEndToken = opts.EndToken.Get()
	cfg.headerName, cfg.hasHeader = opts.HeaderName.Get()
	cfg.inheritTag = opts.InheritNamespaceTagName.OrElse("")

	if label, ok := opts.Charset.Get(); ok && label != "" {
		enc, err := htmlindex.Get(label)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown charset %q", ErrInvalidConfig, label)
		}
		cfg.charset = label
		cfg.encoding = enc
	}

	m, err := newMatcher(cfg)
	if err != nil {
		return nil, err
	}
	cfg.matcher = m

	return cfg, nil
}

// MustBuild is like Build but panics on error. Intended for static
// configuration in tests and examples.
func MustBuild(opts Options) *Config {
	cfg, err := Build(opts)
	if err != nil {
		panic(err)
	}
	return cfg
}

func newMatcher(cfg *Config) (matcher, error) {
	switch {
	case cfg.xml:
		if cfg.regex {
			return nil, fmt.Errorf("%w: xml mode does not support regex tokens", ErrInvalidConfig)
		}
		if cfg.hasEndToken {
			return nil, fmt.Errorf("%w: xml mode derives the end tag, endToken %q is ambiguous", ErrInvalidConfig, cfg.endToken)
		}
		name := elementName(cfg.token)
		if name == "" {
			return nil, fmt.Errorf("%w: token %q does not name an xml element", ErrInvalidConfig, cfg.token)
		}
		return newElementMatcher(name), nil

	case cfg.regex:
		start, err := compilePattern("token", cfg.token)
		if err != nil {
			return nil, err
		}
		if !cfg.hasEndToken {
			return &regexMatcher{start: start}, nil
		}
		end, err := compilePattern("endToken", cfg.endToken)
		if err != nil {
			return nil, err
		}
		return &regexMatcher{start: start, end: end}, nil

	default:
		if cfg.hasEndToken && cfg.endToken == "" {
			return nil, fmt.Errorf("%w: endToken must not be empty", ErrInvalidConfig)
		}
		return &literalMatcher{start: cfg.token, end: cfg.endToken, pair: cfg.hasEndToken}, nil
	}
}

func compilePattern(field, pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a valid regular expression: %w", ErrInvalidConfig, field, err)
	}
	// A pattern that accepts the empty string can match between any two
	// characters, so part boundaries would be undefined.
	if re.MatchString("") {
		return nil, fmt.Errorf("%w: %s pattern %q matches the empty string", ErrInvalidConfig, field, pattern)
	}
	return re, nil
}

func translateValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must not be empty", fe.Field()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be a positive number, was: %v", fe.Field(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// normalizeToken turns a leading escaped newline into a real one. Only the
// first two characters are treated as the escape.
func normalizeToken(token string) string {
	if strings.HasPrefix(token, escapedNewline) {
		return "\n" + token[len(escapedNewline):]
	}
	return token
}

// elementName accepts "item", "<item>" or "<ns:item/>" and returns the bare
// qualified name.
func elementName(token string) string {
	name := strings.TrimSpace(token)
	name = strings.TrimPrefix(name, "<")
	name = strings.TrimSuffix(name, ">")
	name = strings.TrimSuffix(name, "/")
	name = strings.TrimSpace(name)
	if strings.ContainsAny(name, " \t\r\n<>/") {
		return ""
	}
	return name
}

func (c *Config) Token() string { return c.token }

// EndToken returns the end token and whether pair mode is enabled.
func (c *Config) EndToken() (string, bool) { return c.endToken, c.hasEndToken }

// HeaderName returns the source header and whether one is configured.
func (c *Config) HeaderName() (string, bool) { return c.headerName, c.hasHeader }

func (c *Config) InheritNamespaceTagName() string { return c.inheritTag }
func (c *Config) Regex() bool                     { return c.regex }
func (c *Config) XML() bool                       { return c.xml }
func (c *Config) IncludeTokens() bool             { return c.includeTokens }

// Group returns the group size, or 0 when parts are not grouped.
func (c *Config) Group() int { return c.group }

func (c *Config) Charset() string { return c.charset }

func (c *Config) String() string {
	if c.hasEndToken {
		return "tokenize{body() using tokens: " + c.token + "..." + c.endToken + "}"
	}
	source := "body()"
	if c.hasHeader {
		source = "header: " + c.headerName
	}
	return "tokenize{" + source + " using token: " + c.token + "}"
}
