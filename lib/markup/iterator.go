package markup

import "iter"

// Filter accepts or rejects a tag.
type Filter func(*ComponentTag) bool

// Filter presets.
var (
	// FrameworkTagsOnly accepts tags in the framework namespace.
	FrameworkTagsOnly Filter = func(t *ComponentTag) bool { return t.Framework }
	// NonFrameworkTagsOnly accepts tags bound through wicket:id.
	NonFrameworkTagsOnly Filter = func(t *ComponentTag) bool { return !t.Framework }
	// OpenTagsOnly accepts open and open-close tags.
	OpenTagsOnly Filter = func(t *ComponentTag) bool { return !t.IsClose() }
)

// IteratorOption configures an Iterator.
type IteratorOption func(*Iterator)

// DontGoDeeper makes the iterator treat the body of every open tag it passes
// as opaque.
func DontGoDeeper() IteratorOption {
	return func(it *Iterator) { it.dontGoDeeper = true }
}

// WithFilter appends filters. A tag is yielded only if all filters accept it.
func WithFilter(filters ...Filter) IteratorOption {
	return func(it *Iterator) { it.filters = append(it.filters, filters...) }
}

// Iterator yields the component tags of a stream that pass its filters. It
// moves the stream it wraps, so it can be consumed only once.
//
//	it := markup.NewIterator(stream, markup.WithFilter(markup.OpenTagsOnly))
//	for it.HasNext() {
//	    tag := it.Next()
//	    ...
//	}
type Iterator struct {
	stream       *Stream
	filters      []Filter
	dontGoDeeper bool

	// cursor position of the tag found by HasNext, -1 if none
	located int
	// cursor position of the tag handed out by Next, -1 if none is pending
	returned int
}

// NewIterator wraps a stream.
func NewIterator(s *Stream, opts ...IteratorOption) *Iterator {
	it := &Iterator{stream: s, located: -1, returned: -1}
	for _, opt := range opts {
		opt(it)
	}
	return it
}

// AutoComponentTags iterates the top-level open tags of a stream.
func AutoComponentTags(s *Stream) *Iterator {
	return NewIterator(s, WithFilter(OpenTagsOnly), DontGoDeeper())
}

// Stream returns the wrapped stream, positioned at the last located tag.
func (it *Iterator) Stream() *Stream { return it.stream }

// HasNext steps past the tag last returned by Next and locates the next tag
// accepted by every filter.
func (it *Iterator) HasNext() bool {
	s := it.stream
	if it.returned >= 0 && it.returned == s.Position() {
		it.step(s.Tag())
	}
	it.returned = -1
	it.located = -1

	for s.HasMore() {
		if tag := s.Tag(); tag != nil {
			if it.accept(tag) {
				it.located = s.Position()
				return true
			}
			it.step(tag)
			continue
		}
		s.Next()
	}
	return false
}

// Next returns the tag located by HasNext, or nil if HasNext has not located
// one at the current position. It does not advance the stream.
func (it *Iterator) Next() *ComponentTag {
	if it.located < 0 || it.located != it.stream.Position() {
		return nil
	}
	it.returned = it.located
	return it.stream.Tag()
}

// Remove always fails: markup is immutable.
func (it *Iterator) Remove() error {
	return ErrImmutable
}

// All returns the remaining tags as a sequence. The stream is positioned at
// each tag while it is being yielded.
func (it *Iterator) All() iter.Seq[*ComponentTag] {
	return func(yield func(*ComponentTag) bool) {
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

func (it *Iterator) accept(tag *ComponentTag) bool {
	for _, f := range it.filters {
		if !f(tag) {
			return false
		}
	}
	return true
}

// step moves past tag, skipping its body when the iterator does not go deeper.
func (it *Iterator) step(tag *ComponentTag) {
	if it.dontGoDeeper && tag != nil && tag.IsOpen() {
		it.stream.SkipToMatchingCloseTag(tag)
	}
	it.stream.Next()
}
