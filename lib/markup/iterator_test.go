package markup

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func collect(it *Iterator) []string {
	var ids []string
	for tag := range it.All() {
		ids = append(ids, tag.ID)
	}
	return ids
}

func TestStream_SkipToMatchingCloseTag(t *testing.T) {
	m := MustParse(nested)
	s := NewStream(m)

	s.SkipToMatchingCloseTag(s.Tag())
	if s.Position() != 7 {
		t.Fatalf("Position() = %d, want 7", s.Position())
	}
	if !s.Tag().IsClose() {
		t.Error("cursor is not on the close tag")
	}

	// Not the tag under the cursor: no move.
	s.SetPosition(1)
	s.SkipToMatchingCloseTag(m.Tag(0))
	if s.Position() != 1 {
		t.Errorf("Position() = %d, want 1", s.Position())
	}

	// Open-close tags have no body.
	s.SetPosition(6)
	s.SkipToMatchingCloseTag(s.Tag())
	if s.Position() != 6 {
		t.Errorf("Position() = %d, want 6", s.Position())
	}
}

func TestStream_SkipComponentAndBody(t *testing.T) {
	s := NewStream(MustParse(nested))
	body := s.Body()
	if body.Markup().Len() != 6 || body.Tag().ID != "b" {
		t.Errorf("Body() = %v", tagIDs(body.Markup()))
	}
	s.SkipComponent()
	if s.Tag() == nil || s.Tag().ID != "e" {
		t.Errorf("after SkipComponent Tag() = %v", s.Tag())
	}
	for s.HasMore() {
		s.Next()
	}
	if s.Next() != nil {
		t.Error("Next() past the end should return nil")
	}
}

func TestIterator_Filters(t *testing.T) {
	src := `<wicket:panel><span wicket:id="a">x</span><wicket:container wicket:id="b"><i wicket:id="c"/></wicket:container></wicket:panel>`
	tests := []struct {
		name string
		opts []IteratorOption
		want []string
	}{
		{"all tags", nil, []string{"_panel_0", "a", "", "b", "c", "", ""}},
		{"open tags", []IteratorOption{WithFilter(OpenTagsOnly)}, []string{"_panel_0", "a", "b", "c"}},
		{"framework", []IteratorOption{WithFilter(OpenTagsOnly, FrameworkTagsOnly)}, []string{"_panel_0", "b"}},
		{"non framework", []IteratorOption{WithFilter(OpenTagsOnly, NonFrameworkTagsOnly)}, []string{"a", "c"}},
		{"dont go deeper", []IteratorOption{WithFilter(OpenTagsOnly), DontGoDeeper()}, []string{"_panel_0"}},
		{"dont go deeper skips rejected", []IteratorOption{WithFilter(OpenTagsOnly, NonFrameworkTagsOnly), DontGoDeeper()}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := NewIterator(NewStream(MustParse(src)), tt.opts...)
			if diff := cmp.Diff(tt.want, collect(it)); diff != "" {
				t.Errorf("ids (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAutoComponentTags_NeverYieldsNestedTags(t *testing.T) {
	s := NewStream(MustParse(nested))
	if diff := cmp.Diff([]string{"a", "e"}, collect(AutoComponentTags(s))); diff != "" {
		t.Errorf("ids (-want +got):\n%s", diff)
	}

	body := NewStream(MustParse(nested)).Body()
	if diff := cmp.Diff([]string{"b", "d"}, collect(AutoComponentTags(body))); diff != "" {
		t.Errorf("body ids (-want +got):\n%s", diff)
	}
}

func TestIterator_HasNextIsStable(t *testing.T) {
	it := AutoComponentTags(NewStream(MustParse(nested)))
	if !it.HasNext() || !it.HasNext() {
		t.Fatal("HasNext() = false")
	}
	if got := it.Next(); got.ID != "a" {
		t.Fatalf("Next() = %q, want a", got.ID)
	}
	if !it.HasNext() {
		t.Fatal("HasNext() = false after a")
	}
	if got := it.Next(); got.ID != "e" {
		t.Fatalf("Next() = %q, want e", got.ID)
	}
	if it.HasNext() {
		t.Error("HasNext() = true at end")
	}
}

func TestIterator_NextWithoutHasNext(t *testing.T) {
	t.Run("fresh iterator on a close tag", func(t *testing.T) {
		s := NewStream(MustParse(`<p wicket:id="a"></p><b wicket:id="c"></b>`))
		s.Next()
		if tag := s.Tag(); tag == nil || !tag.IsClose() {
			t.Fatalf("stream not on a close tag: %v", s.Get())
		}
		it := AutoComponentTags(s)
		if got := it.Next(); got != nil {
			t.Errorf("Next() = %v, want nil", got)
		}
		if !it.HasNext() || it.Next().ID != "c" {
			t.Error("HasNext() did not locate c")
		}
	})

	t.Run("after exhaustion", func(t *testing.T) {
		it := AutoComponentTags(NewStream(MustParse(`<p wicket:id="a"></p>`)))
		for it.HasNext() {
			it.Next()
		}
		if got := it.Next(); got != nil {
			t.Errorf("Next() = %v, want nil", got)
		}
	})

	t.Run("stream moved after HasNext", func(t *testing.T) {
		s := NewStream(MustParse(`<p wicket:id="a"></p><b wicket:id="c"></b>`))
		it := AutoComponentTags(s)
		if !it.HasNext() {
			t.Fatal("HasNext() = false")
		}
		s.Next()
		if got := it.Next(); got != nil {
			t.Errorf("Next() = %v, want nil", got)
		}
	})
}

func TestIterator_NotRestartable(t *testing.T) {
	it := NewIterator(NewStream(MustParse(nested)), WithFilter(OpenTagsOnly))
	if n := len(collect(it)); n != 5 {
		t.Fatalf("first pass yielded %d tags, want 5", n)
	}
	if n := len(collect(it)); n != 0 {
		t.Errorf("second pass yielded %d tags, want 0", n)
	}
}

func TestIterator_EarlyBreak(t *testing.T) {
	it := NewIterator(NewStream(MustParse(nested)), WithFilter(OpenTagsOnly))
	for tag := range it.All() {
		if tag.ID == "b" {
			break
		}
	}
	if got := it.Stream().Tag().ID; got != "b" {
		t.Errorf("stream left at %q, want b", got)
	}
	if diff := cmp.Diff([]string{"c", "d", "e"}, collect(it)); diff != "" {
		t.Errorf("resumed ids (-want +got):\n%s", diff)
	}
}

func TestIterator_Remove(t *testing.T) {
	it := NewIterator(NewStream(MustParse(nested)))
	if err := it.Remove(); !errors.Is(err, ErrImmutable) {
		t.Errorf("Remove() = %v, want ErrImmutable", err)
	}
}
