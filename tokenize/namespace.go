package tokenize

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// nsDecl is one namespace declaration. An empty prefix is the default
// namespace.
type nsDecl struct {
	prefix string
	uri    string
}

func (d nsDecl) attrName() string {
	if d.prefix == "" {
		return "xmlns"
	}
	return "xmlns:" + d.prefix
}

// namespaceInheritor attaches the declarations in scope at the configured
// ancestor tag to every fragment from src. Declarations are captured on the
// first pull.
type namespaceInheritor struct {
	src      partSource
	document string
	tag      string

	decls    []nsDecl
	captured bool
}

func newNamespaceInheritor(src partSource, document, tag string) *namespaceInheritor {
	return &namespaceInheritor{src: src, document: document, tag: tag}
}

func (n *namespaceInheritor) next() (Part, bool, error) {
	if !n.captured {
		decls, err := captureNamespaces(n.document, n.tag)
		if err != nil {
			return Part{}, false, err
		}
		n.decls = decls
		n.captured = true
	}

	p, ok, err := n.src.next()
	if err != nil || !ok {
		return p, ok, err
	}

	text, err := inheritNamespaces(p.Text, n.decls)
	if err != nil {
		return Part{}, false, fmt.Errorf("%w: part %d: %w", ErrMalformedXML, p.Index, err)
	}
	p.Text = text
	return p, true, nil
}

// captureNamespaces walks the ancestor chain of document down to the first
// element named tag and returns every declaration in scope there. Inner
// declarations replace outer ones with the same prefix.
func captureNamespaces(document, tag string) ([]nsDecl, error) {
	name := elementName(tag)
	if name == "" {
		return nil, fmt.Errorf("%w: %q is not an element name", ErrMalformedXML, tag)
	}

	dec := xml.NewDecoder(strings.NewReader(document))
	var scopes [][]nsDecl
	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: tag <%s> not found", ErrMalformedXML, name)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: locating <%s>: %w", ErrMalformedXML, name, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			decls := declarations(t.Attr)
			if matchesName(t.Name, name) {
				return mergeScopes(append(scopes, decls)), nil
			}
			scopes = append(scopes, decls)
		case xml.EndElement:
			if len(scopes) > 0 {
				scopes = scopes[:len(scopes)-1]
			}
		}
	}
}

func declarations(attrs []xml.Attr) []nsDecl {
	var decls []nsDecl
	for _, a := range attrs {
		switch {
		case a.Name.Space == "xmlns":
			decls = append(decls, nsDecl{prefix: a.Name.Local, uri: a.Value})
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			decls = append(decls, nsDecl{uri: a.Value})
		}
	}
	return decls
}

func mergeScopes(scopes [][]nsDecl) []nsDecl {
	var merged []nsDecl
	pos := make(map[string]int)
	for _, scope := range scopes {
		for _, d := range scope {
			if i, ok := pos[d.prefix]; ok {
				merged[i] = d
				continue
			}
			pos[d.prefix] = len(merged)
			merged = append(merged, d)
		}
	}
	return merged
}

// matchesName compares a raw element name against "local" or
// "prefix:local".
func matchesName(n xml.Name, name string) bool {
	if n.Space == "" {
		return n.Local == name
	}
	return n.Space+":"+n.Local == name || n.Local == name
}

// inheritNamespaces rewrites the start tag of fragment so that it carries
// every declaration in decls it does not already declare itself.
func inheritNamespaces(fragment string, decls []nsDecl) (string, error) {
	if len(decls) == 0 {
		return fragment, nil
	}

	dec := xml.NewDecoder(strings.NewReader(fragment))
	tok, err := dec.RawToken()
	if err != nil {
		return "", fmt.Errorf("reading start tag: %w", err)
	}
	start, ok := tok.(xml.StartElement)
	if !ok {
		return "", errors.New("fragment does not begin with a start tag")
	}

	open := "<" + start.Name.Local
	if start.Name.Space != "" {
		open = "<" + start.Name.Space + ":" + start.Name.Local
	}
	if !strings.HasPrefix(fragment, open) {
		return "", fmt.Errorf("unexpected start tag in %q", truncate(fragment, 40))
	}

	declared := make(map[string]bool)
	for _, d := range declarations(start.Attr) {
		declared[d.prefix] = true
	}

	var b strings.Builder
	b.WriteString(open)
	for _, d := range decls {
		if declared[d.prefix] {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(d.attrName())
		b.WriteString(`="`)
		if err := xml.EscapeText(&b, []byte(d.uri)); err != nil {
			return "", err
		}
		b.WriteByte('"')
	}
	b.WriteString(fragment[len(open):])
	return b.String(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
