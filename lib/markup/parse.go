package markup

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// HeaderTag is the plain HTML tag that is promoted to a framework tag so that
// header contributions can be rendered into it.
const HeaderTag = "head"

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// IsVoid reports whether name is an HTML void element, which never has a
// body or a close tag.
func IsVoid(name string) bool { return voidElements[name] }

// Parse parses markup source into a flattened element sequence.
func Parse(src string) (*Markup, error) {
	return ParseReader(strings.NewReader(src))
}

// MustParse is like Parse but panics on error.
func MustParse(src string) *Markup {
	m, err := Parse(src)
	if err != nil {
		panic(fmt.Sprintf("markup: %v", err))
	}
	return m
}

// openElem is an entry of the parser's stack of open elements.
type openElem struct {
	name      string
	component bool
	line      int
	tag       string
}

// parser builds the element list with the x/net/html tokenizer. It does not
// build an HTML tree: plain elements only matter for pairing close tags.
type parser struct {
	z     *html.Tokenizer
	elems []Element
	raw   strings.Builder
	oe    []openElem
	line  int
	auto  map[string]int
}

// ParseReader parses markup read from r.
func ParseReader(r io.Reader) (*Markup, error) {
	p := &parser{z: html.NewTokenizer(r), line: 1, auto: make(map[string]int)}
	if err := p.run(); err != nil {
		return nil, err
	}
	return New(p.elems)
}

func (p *parser) run() error {
	for {
		tt := p.z.Next()
		if tt == html.ErrorToken {
			if err := p.z.Err(); !errors.Is(err, io.EOF) {
				return err
			}
			break
		}
		raw := string(p.z.Raw())
		line := p.line
		p.line += strings.Count(raw, "\n")

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			if err := p.startTag(tt, raw, line); err != nil {
				return err
			}
		case html.EndTagToken:
			if err := p.endTag(raw, line); err != nil {
				return err
			}
		default:
			p.raw.WriteString(raw)
		}
	}
	if err := p.checkUnclosed(0); err != nil {
		return err
	}
	p.flush()
	return nil
}

func (p *parser) startTag(tt html.TokenType, raw string, line int) error {
	name, hasAttr := p.z.TagName()
	tagName := string(name)
	var attrs []Attr
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = p.z.TagAttr()
		k := string(key)
		attrs = append(attrs, Attr{Key: k, Val: string(val), HasValue: len(val) > 0 || hasAssignment(raw, k)})
	}

	void := tt == html.SelfClosingTagToken || voidElements[tagName]
	tag := p.componentTag(tagName, attrs, line)
	if tag == nil {
		p.raw.WriteString(raw)
		if !void {
			p.oe = append(p.oe, openElem{name: tagName, line: line})
		}
		return nil
	}

	tag.Type = Open
	if void {
		tag.Type = OpenClose
	} else {
		p.oe = append(p.oe, openElem{name: tagName, component: true, line: line, tag: tag.String()})
	}
	p.emit(tag)
	return nil
}

func (p *parser) endTag(raw string, line int) error {
	name, _ := p.z.TagName()
	tagName := string(name)
	k := -1
	for i := len(p.oe) - 1; i >= 0; i-- {
		if p.oe[i].name == tagName {
			k = i
			break
		}
	}
	if k < 0 {
		if strings.HasPrefix(tagName, Namespace+":") {
			return &ParseError{Line: line, Tag: raw, Msg: "close tag without open tag"}
		}
		p.raw.WriteString(raw)
		return nil
	}
	if err := p.checkUnclosed(k + 1); err != nil {
		return err
	}
	open := p.oe[k]
	p.oe = p.oe[:k]
	if !open.component {
		p.raw.WriteString(raw)
		return nil
	}
	p.emit(&ComponentTag{Name: tagName, Type: Close, Line: line, Framework: isFramework(tagName) || tagName == HeaderTag})
	return nil
}

// checkUnclosed fails if a component element above index from is still open.
// Plain HTML elements may be closed implicitly.
func (p *parser) checkUnclosed(from int) error {
	for i := len(p.oe) - 1; i >= from; i-- {
		if p.oe[i].component {
			return &ParseError{Line: p.oe[i].line, Tag: p.oe[i].tag, Msg: "tag has no matching close tag"}
		}
	}
	return nil
}

// componentTag returns the component tag for a start tag, or nil for plain
// markup.
func (p *parser) componentTag(name string, attrs []Attr, line int) *ComponentTag {
	t := &ComponentTag{Name: name, Attrs: attrs, Line: line, Framework: isFramework(name)}
	for _, a := range attrs {
		if a.Key == IDAttr {
			t.ID = a.Val
		}
	}
	switch {
	case t.ID != "":
	case t.Framework:
		t.ID, t.AutoID = p.autoID(t.LocalName()), true
	case name == HeaderTag:
		t.Framework = true
		t.ID, t.AutoID = p.autoID("header"), true
	default:
		return nil
	}
	return t
}

func (p *parser) autoID(local string) string {
	n := p.auto[local]
	p.auto[local] = n + 1
	return fmt.Sprintf("_%s_%d", local, n)
}

func (p *parser) emit(tag *ComponentTag) {
	p.flush()
	p.elems = append(p.elems, tag)
}

func (p *parser) flush() {
	if p.raw.Len() == 0 {
		return
	}
	p.elems = append(p.elems, &Raw{Text: p.raw.String()})
	p.raw.Reset()
}

func isFramework(name string) bool {
	return strings.HasPrefix(name, Namespace+":")
}

// hasAssignment reports whether an attribute with an empty value was written
// with an explicit `=` in the raw tag.
func hasAssignment(raw, key string) bool {
	if key == "" {
		return false
	}
	lower := strings.ToLower(raw)
	idx := 0
	for {
		i := strings.Index(lower[idx:], key)
		if i < 0 {
			return false
		}
		j := idx + i + len(key)
		rest := strings.TrimLeft(lower[j:], " \t\r\n")
		if len(rest) > 0 && rest[0] == '=' {
			return true
		}
		idx = j
	}
}
