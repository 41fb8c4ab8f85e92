package markup

import (
	"html"
	"io"
	"strings"
)

// Namespace is the prefix of framework tags and of the component id attribute.
const Namespace = "wicket"

// IDAttr is the attribute that binds a tag to a component.
const IDAttr = Namespace + ":id"

// TagType describes whether a tag opens, closes or opens and closes an element.
type TagType int

const (
	Open TagType = iota + 1
	Close
	OpenClose
)

func (t TagType) String() string {
	switch t {
	case Open:
		return "open"
	case Close:
		return "close"
	case OpenClose:
		return "openclose"
	}
	return "unknown"
}

// Element is a node of a flattened markup document. It is either a
// *ComponentTag or a *Raw.
type Element interface {
	element()
	String() string
}

// Raw is a run of markup copied verbatim from the source.
type Raw struct {
	Text string
}

func (*Raw) element() {}

func (r *Raw) String() string { return r.Text }

// Attr is a single tag attribute. HasValue is false for bare attributes such
// as `disabled`.
type Attr struct {
	Key      string
	Val      string
	HasValue bool
}

// ComponentTag is a tag the framework cares about: either a tag bound to a
// component through the wicket:id attribute or a framework tag in the wicket
// namespace. Tags are immutable once parsed; rendering works on a MutableTag.
type ComponentTag struct {
	Name      string
	Type      TagType
	Attrs     []Attr
	ID        string
	Framework bool
	AutoID    bool
	Line      int
}

func (*ComponentTag) element() {}

// IsOpen reports whether the tag is an open tag that has a separate close tag.
func (t *ComponentTag) IsOpen() bool { return t.Type == Open }

// IsClose reports whether the tag is a close tag.
func (t *ComponentTag) IsClose() bool { return t.Type == Close }

// IsOpenClose reports whether the tag is self-closing.
func (t *ComponentTag) IsOpenClose() bool { return t.Type == OpenClose }

// HasNoCloseTag reports whether the tag has no body and no close tag.
func (t *ComponentTag) HasNoCloseTag() bool { return t.Type == OpenClose }

// LocalName returns the tag name without its namespace prefix.
func (t *ComponentTag) LocalName() string {
	if i := strings.IndexByte(t.Name, ':'); i >= 0 {
		return t.Name[i+1:]
	}
	return t.Name
}

// Is reports whether the tag is the framework tag with the given local name.
func (t *ComponentTag) Is(local string) bool {
	return t.Framework && t.Name == Namespace+":"+local
}

// Attr returns the value of the named attribute.
func (t *ComponentTag) Attr(key string) (string, bool) {
	for _, a := range t.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Mutable returns a writable copy of the tag.
func (t *ComponentTag) Mutable() *MutableTag {
	attrs := make([]Attr, len(t.Attrs))
	copy(attrs, t.Attrs)
	return &MutableTag{Name: t.Name, Type: t.Type, Attrs: attrs, source: t}
}

func (t *ComponentTag) String() string {
	var sb strings.Builder
	writeTag(&sb, t.Name, t.Type, t.Attrs)
	return sb.String()
}

// MutableTag is the render-time copy of a ComponentTag. Behaviors modify it
// before it is written out.
type MutableTag struct {
	Name  string
	Type  TagType
	Attrs []Attr

	source *ComponentTag
}

// Source returns the immutable tag this copy was made from.
func (t *MutableTag) Source() *ComponentTag { return t.source }

// Get returns the value of the named attribute.
func (t *MutableTag) Get(key string) (string, bool) {
	for _, a := range t.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Set sets or replaces an attribute, keeping its position if it exists.
func (t *MutableTag) Set(key, val string) {
	for i := range t.Attrs {
		if t.Attrs[i].Key == key {
			t.Attrs[i].Val = val
			t.Attrs[i].HasValue = true
			return
		}
	}
	t.Attrs = append(t.Attrs, Attr{Key: key, Val: val, HasValue: true})
}

// Append appends val to an attribute using sep, creating it if missing.
func (t *MutableTag) Append(key, val, sep string) {
	if cur, ok := t.Get(key); ok && cur != "" {
		t.Set(key, cur+sep+val)
		return
	}
	t.Set(key, val)
}

// Remove deletes an attribute.
func (t *MutableTag) Remove(key string) {
	out := t.Attrs[:0]
	for _, a := range t.Attrs {
		if a.Key != key {
			out = append(out, a)
		}
	}
	t.Attrs = out
}

// WriteTo writes the tag in its current state.
func (t *MutableTag) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	writeTag(&sb, t.Name, t.Type, t.Attrs)
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

// WriteClose writes the close tag matching t.
func (t *MutableTag) WriteClose(w io.Writer) error {
	_, err := io.WriteString(w, "</"+t.Name+">")
	return err
}

func writeTag(sb *strings.Builder, name string, typ TagType, attrs []Attr) {
	sb.WriteByte('<')
	if typ == Close {
		sb.WriteByte('/')
		sb.WriteString(name)
		sb.WriteByte('>')
		return
	}
	sb.WriteString(name)
	for _, a := range attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.Key)
		if a.HasValue {
			sb.WriteString(`="`)
			sb.WriteString(html.EscapeString(a.Val))
			sb.WriteByte('"')
		}
	}
	if typ == OpenClose {
		sb.WriteString("/>")
		return
	}
	sb.WriteByte('>')
}
