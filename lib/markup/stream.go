package markup

// Stream is a cursor over a Markup.
type Stream struct {
	m   *Markup
	pos int
}

// NewStream returns a stream positioned at the first element of m.
func NewStream(m *Markup) *Stream {
	return &Stream{m: m}
}

// Markup returns the markup the stream walks.
func (s *Stream) Markup() *Markup { return s.m }

// HasMore reports whether the cursor is on an element.
func (s *Stream) HasMore() bool { return s.pos < s.m.Len() }

// Position returns the cursor index.
func (s *Stream) Position() int { return s.pos }

// SetPosition moves the cursor.
func (s *Stream) SetPosition(pos int) { s.pos = pos }

// Get returns the current element, or nil at the end.
func (s *Stream) Get() Element { return s.m.Get(s.pos) }

// Tag returns the current element if it is a component tag.
func (s *Stream) Tag() *ComponentTag { return s.m.Tag(s.pos) }

// Next advances the cursor and returns the new current element.
func (s *Stream) Next() Element {
	if s.pos < s.m.Len() {
		s.pos++
	}
	return s.Get()
}

// SkipToMatchingCloseTag moves the cursor onto the close tag matching the
// open tag at the cursor. Nested tags are skipped with it. Open-close tags and
// tags other than the current one leave the cursor unchanged.
func (s *Stream) SkipToMatchingCloseTag(tag *ComponentTag) {
	if tag == nil || !tag.IsOpen() || s.Tag() != tag {
		return
	}
	if j := s.m.Match(s.pos); j > s.pos {
		s.pos = j
	}
}

// SkipComponent moves the cursor past the current tag and its body.
func (s *Stream) SkipComponent() {
	if t := s.Tag(); t != nil {
		s.SkipToMatchingCloseTag(t)
	}
	s.Next()
}

// Fragment returns the fragment of the tag at the cursor.
func (s *Stream) Fragment() *Markup { return s.m.Fragment(s.pos) }

// Body returns a stream over the elements strictly between the open tag at the
// cursor and its matching close tag. The body of an open-close tag is empty.
func (s *Stream) Body() *Stream {
	f := s.Fragment()
	if f == nil {
		return &Stream{m: &Markup{}}
	}
	if f.Len() <= 2 {
		return &Stream{m: &Markup{off: f.off}}
	}
	return &Stream{m: &Markup{elems: f.elems[1 : f.Len()-1], match: f.match[1 : f.Len()-1], off: f.off + 1}}
}
