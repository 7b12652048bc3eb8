package tokenize

// Part is one fragment produced by a tokenizer run together with its
// 0-based position in the emitted sequence.
type Part struct {
	Index int
	Text  string
}

func (p Part) String() string {
	return p.Text
}

// partSource is one stage of the production pipeline.
type partSource interface {
	// next returns the next part, false once the source is exhausted, or
	// an error. A source is not restartable.
	next() (Part, bool, error)
}

type scanState int

const (
	stateScanning scanState = iota
	stateEmitting
	stateExhausted
)

// partScanner is the cursor over one source text. It is created per
// evaluation and never shared.
type partScanner struct {
	text    string
	m       matcher
	include bool

	offset  int
	state   scanState
	final   bool
	current string
	index   int
}

func newPartScanner(text string, cfg *Config) *partScanner {
	return &partScanner{
		text:    text,
		m:       cfg.matcher,
		include: cfg.includeTokens || cfg.xml,
	}
}

func (s *partScanner) next() (Part, bool, error) {
	for {
		switch s.state {
		case stateExhausted:
			return Part{}, false, nil
		case stateEmitting:
			p := Part{Index: s.index, Text: s.current}
			s.index++
			s.current = ""
			if s.final {
				s.state = stateExhausted
			} else {
				s.state = stateScanning
			}
			return p, true, nil
		default:
			if s.m.paired() {
				s.scanPair()
			} else {
				s.scanSingle()
			}
		}
	}
}

func (s *partScanner) emit(text string, final bool) {
	s.current = text
	s.final = final
	s.state = stateEmitting
}

// scanSingle emits the text up to the next token. An empty token cannot
// move the offset, so it is treated as no token at all.
func (s *partScanner) scanSingle() {
	mt, ok := s.m.findNext(s.text, s.offset)
	if !ok || mt.end == mt.start {
		if s.offset < len(s.text) {
			s.emit(s.text[s.offset:], true)
		} else {
			s.state = stateExhausted
		}
		return
	}

	end := mt.start
	if s.include {
		end = mt.end
	}
	part := s.text[s.offset:end]
	s.offset = mt.end
	s.emit(part, false)
}

// scanPair emits the content of the next start/end pair. Text outside of
// pairs is skipped. A start token without an end token makes the rest of
// the input the final part.
func (s *partScanner) scanPair() {
	open, ok := s.m.findNext(s.text, s.offset)
	if !ok || open.end == open.start {
		s.state = stateExhausted
		return
	}

	if open.complete {
		s.offset = open.end
		s.emit(s.text[open.start:open.end], false)
		return
	}

	closing, ok := s.m.findEnd(s.text, open)
	if !ok || closing.end == closing.start {
		s.offset = len(s.text)
		switch {
		case s.include:
			s.emit(s.text[open.start:], true)
		case open.end < len(s.text):
			s.emit(s.text[open.end:], true)
		default:
			s.state = stateExhausted
		}
		return
	}

	s.offset = closing.end
	if s.include {
		s.emit(s.text[open.start:closing.end], false)
	} else {
		s.emit(s.text[open.end:closing.start], false)
	}
}
