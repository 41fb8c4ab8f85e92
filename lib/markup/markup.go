package markup

import "strings"

// Markup is an immutable, flattened markup document. Nesting is implied by
// open/close pairing; the matching close index of every open tag is computed
// once so that skipping a tag body is a constant-time jump.
//
// Fragments share elements with the markup they were cut from, so tag
// pointers can be compared for identity across a document and its fragments.
type Markup struct {
	elems []Element
	match []int // absolute index of the matching tag, -1 when none
	off   int   // absolute index of elems[0]
}

// New builds markup from an element sequence, pairing open and close tags.
// Unbalanced component tags are reported as a *ParseError.
func New(elems []Element) (*Markup, error) {
	m := &Markup{elems: elems, match: make([]int, len(elems))}
	var stack []int
	for i, e := range elems {
		m.match[i] = -1
		tag, ok := e.(*ComponentTag)
		if !ok {
			continue
		}
		switch tag.Type {
		case Open:
			stack = append(stack, i)
		case Close:
			if len(stack) == 0 {
				return nil, &ParseError{Line: tag.Line, Tag: tag.String(), Msg: "close tag without open tag"}
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			openTag := elems[open].(*ComponentTag)
			if openTag.Name != tag.Name {
				return nil, &ParseError{Line: openTag.Line, Tag: openTag.String(), Msg: "tag has no matching close tag"}
			}
			m.match[open] = i
			m.match[i] = open
		}
	}
	if len(stack) > 0 {
		t := elems[stack[len(stack)-1]].(*ComponentTag)
		return nil, &ParseError{Line: t.Line, Tag: t.String(), Msg: "tag has no matching close tag"}
	}
	return m, nil
}

// Len returns the number of elements.
func (m *Markup) Len() int {
	if m == nil {
		return 0
	}
	return len(m.elems)
}

// Get returns the element at index i.
func (m *Markup) Get(i int) Element {
	if m == nil || i < 0 || i >= len(m.elems) {
		return nil
	}
	return m.elems[i]
}

// Tag returns the element at index i if it is a component tag.
func (m *Markup) Tag(i int) *ComponentTag {
	t, _ := m.Get(i).(*ComponentTag)
	return t
}

// Match returns the index of the tag paired with the tag at i, or -1.
func (m *Markup) Match(i int) int {
	if m == nil || i < 0 || i >= len(m.match) {
		return -1
	}
	j := m.match[i] - m.off
	if j < 0 || j >= len(m.elems) {
		return -1
	}
	return j
}

// Fragment returns the markup bounded by the tag at i and its matching close
// tag. For an open-close tag the fragment holds just that tag. It returns nil
// if i is not an open or open-close tag.
func (m *Markup) Fragment(i int) *Markup {
	t := m.Tag(i)
	if t == nil || t.IsClose() {
		return nil
	}
	end := i
	if t.IsOpen() {
		if end = m.Match(i); end < 0 {
			return nil
		}
	}
	return &Markup{
		elems: m.elems[i : end+1],
		match: m.match[i : end+1],
		off:   m.off + i,
	}
}

// First returns the first component tag, or nil.
func (m *Markup) First() *ComponentTag {
	for i := 0; i < m.Len(); i++ {
		if t := m.Tag(i); t != nil {
			return t
		}
	}
	return nil
}

// Find returns the index of the first open or open-close tag with the given
// id at any depth, or -1.
func (m *Markup) Find(id string) int {
	for i := 0; i < m.Len(); i++ {
		if t := m.Tag(i); t != nil && !t.IsClose() && t.ID == id {
			return i
		}
	}
	return -1
}

// FindFramework returns the index of the first open or open-close framework
// tag with the given local name, or -1.
func (m *Markup) FindFramework(local string) int {
	for i := 0; i < m.Len(); i++ {
		if t := m.Tag(i); t != nil && !t.IsClose() && t.Is(local) {
			return i
		}
	}
	return -1
}

// Elements returns a copy of the element slice.
func (m *Markup) Elements() []Element {
	out := make([]Element, m.Len())
	copy(out, m.elems)
	return out
}

func (m *Markup) String() string {
	var sb strings.Builder
	for i := 0; i < m.Len(); i++ {
		sb.WriteString(m.elems[i].String())
	}
	return sb.String()
}
