package hxpage

import (
	"fmt"
	"log/slog"

	"github.com/hashicorp/go-multierror"

	"github.com/pthm/hxpage/lib/markup"
)

// Queue registers children with c without deciding their position in the
// tree. When the page is rendered each queued child is moved to the container
// whose markup holds the child's tag, in markup order.
//
// A container's queue holds at most one component per id; queuing a second
// one fails immediately with a *QueueError. Children queued on c may be
// claimed by tags in the markup of c's descendants, up to the next panel or
// border, unless c's own markup has a tag with the same id.
func (c *Component) Queue(children ...*Component) error {
	if !c.IsContainer() {
		return fmt.Errorf("%w: %s", ErrNotContainer, c.describe())
	}
	for _, ch := range children {
		if ch.parent != nil || ch.queuedIn != nil {
			return fmt.Errorf("%w: %q", ErrAlreadyAttached, ch.id)
		}
		if c.queued(ch.id) >= 0 {
			return &QueueError{ID: ch.id, Container: c.describe()}
		}
		ch.queuedIn = c
		c.queue = append(c.queue, ch)
	}
	return nil
}

// Queued returns the components still waiting in c's queue.
func (c *Component) Queued() []*Component {
	out := make([]*Component, len(c.queue))
	copy(out, c.queue)
	return out
}

func (c *Component) queued(id string) int {
	for i, q := range c.queue {
		if q.id == id {
			return i
		}
	}
	return -1
}

func (c *Component) dequeue(i int) *Component {
	q := c.queue[i]
	c.queue = append(c.queue[:i:i], c.queue[i+1:]...)
	q.queuedIn = nil
	return q
}

// isQueueRegion reports whether queue lookups stop at c. Components with
// associated markup start a new region.
func (c *Component) isQueueRegion() bool {
	return c.kind == KindPage || c.kind == KindPanel || c.kind == KindBorder
}

// dequeuer walks page markup, binding tags to live, queued or auto
// components.
type dequeuer struct {
	resolvers []Resolver
	logger    *slog.Logger
	// ids of the top-level tags of a container's own markup
	reserved map[*Component]map[string]bool
}

func newDequeuer(resolvers []Resolver, logger *slog.Logger) *dequeuer {
	return &dequeuer{
		resolvers: resolvers,
		logger:    logger,
		reserved:  make(map[*Component]map[string]bool),
	}
}

func (d *dequeuer) run(p *Page) error {
	if err := d.walk(p.Component, p.bodyStream()); err != nil {
		return err
	}

	var result *multierror.Error
	collect := func(c *Component) {
		for _, q := range c.queue {
			result = multierror.Append(result, &DequeueError{ID: q.id, Container: c.describe()})
		}
	}
	collect(p.Component)
	p.VisitChildren(func(c *Component) Visit {
		collect(c)
		return VisitContinue
	})
	return result.ErrorOrNil()
}

// walk binds the top-level tags of s to children of c and descends into
// each bound child.
func (d *dequeuer) walk(c *Component, s *markup.Stream) error {
	it := markup.AutoComponentTags(s)
	for it.HasNext() {
		tag := it.Next()
		ch, err := d.bind(c, it.Stream(), tag)
		if err != nil {
			return err
		}
		if err := d.descend(ch); err != nil {
			return err
		}
	}
	return nil
}

func (d *dequeuer) bind(c *Component, s *markup.Stream, tag *markup.ComponentTag) (*Component, error) {
	if ch := HasEqualMarkupResolver.Resolve(c, s, tag); ch != nil {
		return ch, nil
	}
	if !tag.AutoID {
		if ch := c.child(tag.ID); ch != nil {
			ch.bind(tag, s.Fragment())
			return ch, nil
		}
		if ch := d.fromQueue(c, tag.ID); ch != nil {
			if err := c.Add(ch); err != nil {
				return nil, err
			}
			ch.bind(tag, s.Fragment())
			return ch, nil
		}
	}
	ch, err := resolveTag(c, s, tag, d.resolvers)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, fmt.Errorf("%w: %q in %s (line %d)", ErrComponentNotFound, tag.ID, c.describe(), tag.Line)
	}
	d.logger.Debug("resolved auto component", "id", ch.id, "kind", ch.kind.String(), "container", c.describe())
	return ch, nil
}

// fromQueue takes the component queued for id from c or, failing that, from
// the nearest ancestor within c's queue region that does not reserve id for a
// tag of its own.
func (d *dequeuer) fromQueue(c *Component, id string) *Component {
	for a := c; a != nil; a = a.parent {
		if i := a.queued(id); i >= 0 && (a == c || !d.reserves(a, id)) {
			return a.dequeue(i)
		}
		if a.isQueueRegion() {
			break
		}
	}
	return nil
}

func (d *dequeuer) reserves(a *Component, id string) bool {
	ids, ok := d.reserved[a]
	if !ok {
		ids = make(map[string]bool)
		collectIDs(a, a.bodyStream(), ids)
		d.reserved[a] = ids
	}
	return ids[id]
}

// collectIDs records the ids of the tags that bind to children of owner,
// looking through transparent tags.
func collectIDs(owner *Component, s *markup.Stream, ids map[string]bool) {
	it := markup.AutoComponentTags(s)
	for tag := range it.All() {
		switch {
		case tag.Is("body") && owner.kind == KindBorder:
			collectIDs(owner, owner.body.bodyStream(), ids)
		case tag.AutoID:
			collectIDs(owner, it.Stream().Body(), ids)
		default:
			ids[tag.ID] = true
		}
	}
}

func (d *dequeuer) descend(ch *Component) error {
	switch ch.kind {
	case KindComponent:
		return nil
	case KindBorderBody:
		return d.walk(ch.parent, ch.bodyStream())
	case KindTransparent, KindHeader:
		return d.walk(ch.owner(), ch.bodyStream())
	case KindPanel, KindBorder:
		if err := d.walk(ch, ch.bodyStream()); err != nil {
			return err
		}
		for _, head := range headSections(ch.markup) {
			if err := d.walk(ch, markup.NewStream(head).Body()); err != nil {
				return err
			}
		}
		return nil
	}
	return d.walk(ch, ch.bodyStream())
}
