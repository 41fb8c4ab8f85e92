package hxpage

import (
	"github.com/pthm/hxpage/lib/markup"
)

// Behavior contributes to the tag of the component it is attached to.
// OnComponentTag runs on a copy of the tag every time the component renders.
type Behavior interface {
	OnComponentTag(c *Component, tag *markup.MutableTag)
}

// EventBehavior is a behavior that also receives the events delivered to its
// component.
type EventBehavior interface {
	Behavior
	OnEvent(c *Component, e *Event)
}

// ListenerBehavior is a behavior that handles requests. Listener URLs for it
// are built with (*Component).BehaviorURL.
type ListenerBehavior interface {
	Behavior
	OnListener(c *Component, rc *RequestCycle) error
}

// AttributeModifier sets, appends to or removes one attribute of the
// component tag.
//
//	label.AddBehavior(hxpage.NewAttributeAppender("class", "error", " "))
type AttributeModifier struct {
	Attr  string
	Value string
	// Separator joins Value to an existing value. Empty means replace.
	Separator string
	// Remove deletes the attribute.
	Remove bool
	// Enabled, when set, decides per render whether the modifier applies.
	Enabled func(c *Component) bool
}

// NewAttributeModifier replaces attr with value.
func NewAttributeModifier(attr, value string) *AttributeModifier {
	return &AttributeModifier{Attr: attr, Value: value}
}

// NewAttributeAppender appends value to attr, joined with sep.
func NewAttributeAppender(attr, value, sep string) *AttributeModifier {
	return &AttributeModifier{Attr: attr, Value: value, Separator: sep}
}

// NewAttributeRemover removes attr.
func NewAttributeRemover(attr string) *AttributeModifier {
	return &AttributeModifier{Attr: attr, Remove: true}
}

// OnComponentTag applies the modification.
func (m *AttributeModifier) OnComponentTag(c *Component, tag *markup.MutableTag) {
	if m.Enabled != nil && !m.Enabled(c) {
		return
	}
	switch {
	case m.Remove:
		tag.Remove(m.Attr)
	case m.Separator != "":
		tag.Append(m.Attr, m.Value, m.Separator)
	default:
		tag.Set(m.Attr, m.Value)
	}
}
