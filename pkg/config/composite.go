package config

import (
	"errors"
	"slices"
	"strings"
)

// Composite presents several stores as one configuration. Members are
// borrowed, not owned, and consulted in construction order: the first
// member holding a key answers for it.
type Composite struct {
	schema   *Schema
	members  []Store
	overlaps []Overlap
}

// Overlap records a key held by more than one member. Members are listed
// by index; the first one shadows the rest.
type Overlap struct {
	Key     string
	Members []int
}

// NewComposite builds a composite. Overlapping keys are allowed and
// resolved by member order; inspect them with Overlaps.
func NewComposite(schema *Schema, members ...Store) *Composite {
	c := &Composite{
		schema:  schema,
		members: slices.Clone(members),
	}
	c.overlaps = findOverlaps(members)
	return c
}

// NewStrictComposite is like NewComposite but fails with ErrShadowedKey
// when any key is held by more than one member.
func NewStrictComposite(schema *Schema, members ...Store) (*Composite, error) {
	c := NewComposite(schema, members...)
	if len(c.overlaps) > 0 {
		keys := make([]string, len(c.overlaps))
		for i, o := range c.overlaps {
			keys[i] = o.Key
		}
		return nil, newError(ClassShadowedKey, keys[0], "keys held by several members: %s", strings.Join(keys, ", ")).WithOp("compose")
	}
	return c, nil
}

func findOverlaps(members []Store) []Overlap {
	holders := make(map[string][]int)
	for i, m := range members {
		for _, k := range m.Keys() {
			holders[k] = append(holders[k], i)
		}
	}
	var out []Overlap
	for k, idx := range holders {
		if len(idx) > 1 {
			out = append(out, Overlap{Key: k, Members: idx})
		}
	}
	slices.SortFunc(out, func(a, b Overlap) int { return strings.Compare(a.Key, b.Key) })
	return out
}

// Schema implements Store.
func (c *Composite) Schema() *Schema { return c.schema }

// Members returns the member stores in lookup order.
func (c *Composite) Members() []Store { return slices.Clone(c.members) }

// Overlaps returns the keys shadowed at construction time.
func (c *Composite) Overlaps() []Overlap { return slices.Clone(c.overlaps) }

// Option returns the first member's value for key, resolving aliases.
func (c *Composite) Option(key string) (*OptionValue, error) {
	canon, err := c.schema.resolver.Canonicalize(key)
	if err != nil {
		return nil, err
	}
	for _, m := range c.members {
		v, err := m.Lookup(canon)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, newError(ClassNotFound, key, "no member holds option").WithOp("lookup")
}

// Lookup implements Store.
func (c *Composite) Lookup(key string) (*OptionValue, error) { return c.Option(key) }

// Ensure implements Store. When no member holds key, the first member able
// to create it does.
func (c *Composite) Ensure(key string) (*OptionValue, error) {
	v, err := c.Option(key)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return v, err
	}
	canon, cerr := c.schema.resolver.Canonicalize(key)
	if cerr != nil {
		return nil, cerr
	}
	for _, m := range c.members {
		if v, err := m.Ensure(canon); err == nil {
			return v, nil
		}
	}
	return nil, err
}

func (c *Composite) creates(key string) (RangePolicy, bool) {
	for _, m := range c.members {
		if cr, ok := m.(creator); ok {
			if p, ok := cr.creates(key); ok {
				return p, true
			}
		}
	}
	return RangeReject, false
}

// Keys implements Store: the sorted union of member keys.
func (c *Composite) Keys() []string {
	var keys []string
	for _, m := range c.members {
		keys = append(keys, m.Keys()...)
	}
	slices.Sort(keys)
	return slices.Compact(keys)
}
