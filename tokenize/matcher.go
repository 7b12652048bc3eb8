package tokenize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// match is the span [start, end) of a located token.
type match struct {
	start, end int
	// complete marks a start match that is a whole part by itself, such as
	// a self-closing element.
	complete bool
	// name is the qualified element name of an XML start match.
	name string
}

// matcher locates tokens in a text window. Implementations are stateless
// and safe for concurrent use.
type matcher interface {
	// findNext returns the next token, or start token in pair mode, at or
	// after from.
	findNext(text string, from int) (match, bool)
	// findEnd returns the first end token closing open. Nesting is not
	// tracked.
	findEnd(text string, open match) (match, bool)
	paired() bool
}

type literalMatcher struct {
	start string
	end   string
	pair  bool
}

func (m *literalMatcher) findNext(text string, from int) (match, bool) {
	return indexLiteral(text, from, m.start)
}

func (m *literalMatcher) findEnd(text string, open match) (match, bool) {
	return indexLiteral(text, open.end, m.end)
}

func (m *literalMatcher) paired() bool { return m.pair }

func indexLiteral(text string, from int, token string) (match, bool) {
	if from > len(text) {
		return match{}, false
	}
	i := strings.Index(text[from:], token)
	if i < 0 {
		return match{}, false
	}
	start := from + i
	return match{start: start, end: start + len(token)}, true
}

type regexMatcher struct {
	start *regexp.Regexp
	end   *regexp.Regexp
}

func (m *regexMatcher) findNext(text string, from int) (match, bool) {
	return indexPattern(text, from, m.start)
}

func (m *regexMatcher) findEnd(text string, open match) (match, bool) {
	return indexPattern(text, open.end, m.end)
}

func (m *regexMatcher) paired() bool { return m.end != nil }

// indexPattern returns the leftmost non-empty match at or after from.
func indexPattern(text string, from int, re *regexp.Regexp) (match, bool) {
	for from <= len(text) {
		loc := re.FindStringIndex(text[from:])
		if loc == nil {
			return match{}, false
		}
		if loc[1] > loc[0] {
			return match{start: from + loc[0], end: from + loc[1]}, true
		}
		// zero-width, step over one rune and retry
		_, size := utf8.DecodeRuneInString(text[from+loc[0]:])
		if size == 0 {
			return match{}, false
		}
		from += loc[0] + size
	}
	return match{}, false
}

// elementMatcher finds whole XML elements by name. A prefixed name must
// match exactly; an unprefixed name matches the local part of any element,
// the same rule the namespace inheritor uses for its tag.
type elementMatcher struct {
	name  string
	local bool
}

func newElementMatcher(name string) *elementMatcher {
	return &elementMatcher{name: name, local: !strings.Contains(name, ":")}
}

func (m *elementMatcher) paired() bool { return true }

func (m *elementMatcher) matches(qname string) bool {
	if qname == m.name {
		return true
	}
	if !m.local {
		return false
	}
	_, local, ok := strings.Cut(qname, ":")
	return ok && local == m.name
}

// findNext returns the span of the start tag. An unterminated start tag
// runs to the end of text.
func (m *elementMatcher) findNext(text string, from int) (match, bool) {
	for {
		i, ok := nextTag(text, from)
		if !ok {
			return match{}, false
		}
		from = i + 1

		qname := tagName(text, i+1)
		if qname == "" || !m.matches(qname) {
			continue
		}
		gt := tagEnd(text, i+1+len(qname))
		if gt < 0 {
			return match{start: i, end: len(text), name: qname}, true
		}
		return match{start: i, end: gt + 1, complete: text[gt-1] == '/', name: qname}, true
	}
}

// findEnd returns the first end tag with the same qualified name as open.
func (m *elementMatcher) findEnd(text string, open match) (match, bool) {
	from := open.end
	for {
		i, ok := nextTag(text, from)
		if !ok {
			return match{}, false
		}
		from = i + 1

		if i+1 >= len(text) || text[i+1] != '/' || tagName(text, i+2) != open.name {
			continue
		}
		j := i + 2 + len(open.name)
		for j < len(text) && isSpace(text[j]) {
			j++
		}
		if j < len(text) && text[j] == '>' {
			return match{start: i, end: j + 1}, true
		}
	}
}

// nonElementMarkup lists the constructs whose content is never scanned for
// tags. Order matters: "<!" catches declarations such as DOCTYPE last.
var nonElementMarkup = []struct{ open, close string }{
	{"<!--", "-->"},
	{"<![CDATA[", "]]>"},
	{"<?", "?>"},
	{"<!", ">"},
}

// nextTag returns the index of the next '<' at or after from that opens a
// start or end tag. Comments, CDATA sections, processing instructions and
// declarations are skipped; an unterminated one hides the rest of text.
func nextTag(text string, from int) (int, bool) {
	for from < len(text) {
		i := strings.IndexByte(text[from:], '<')
		if i < 0 {
			return 0, false
		}
		i += from

		skipped := false
		for _, mk := range nonElementMarkup {
			if !strings.HasPrefix(text[i:], mk.open) {
				continue
			}
			body := i + len(mk.open)
			j := strings.Index(text[body:], mk.close)
			if j < 0 {
				return 0, false
			}
			from = body + j + len(mk.close)
			skipped = true
			break
		}
		if !skipped {
			return i, true
		}
	}
	return 0, false
}

// tagName returns the qualified name starting at i.
func tagName(text string, i int) string {
	j := i
	for j < len(text) && !isNameEnd(text[j]) && text[j] != '<' {
		j++
	}
	return text[i:j]
}

// tagEnd returns the index of the '>' closing a tag, skipping quoted
// attribute values, or -1.
func tagEnd(text string, from int) int {
	var quote byte
	for i := from; i < len(text); i++ {
		c := text[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			return i
		}
	}
	return -1
}

func isNameEnd(c byte) bool {
	return c == '>' || c == '/' || isSpace(c)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
