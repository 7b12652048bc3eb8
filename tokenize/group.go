package tokenize

import "strings"

// grouper coalesces every size parts of src into one part. A trailing
// partial group is still emitted.
type grouper struct {
	src   partSource
	size  int
	sep   string
	index int
	done  bool
}

func newGrouper(src partSource, size int, sep string) *grouper {
	return &grouper{src: src, size: size, sep: sep}
}

func (g *grouper) next() (Part, bool, error) {
	if g.done {
		return Part{}, false, nil
	}

	var b strings.Builder
	n := 0
	for n < g.size {
		p, ok, err := g.src.next()
		if err != nil {
			return Part{}, false, err
		}
		if !ok {
			g.done = true
			break
		}
		if n > 0 {
			b.WriteString(g.sep)
		}
		b.WriteString(p.Text)
		n++
	}
	if n == 0 {
		return Part{}, false, nil
	}

	p := Part{Index: g.index, Text: b.String()}
	g.index++
	return p, true, nil
}

// joinSeparator is the text placed between parts that are combined into
// one value. Literal single-token parts get their delimiter back so that
// grouped lines stay lines.
func joinSeparator(cfg *Config) string {
	if cfg.regex || cfg.xml || cfg.hasEndToken || cfg.includeTokens {
		return ""
	}
	return cfg.token
}
