package config

import (
	"slices"
)

// Dynamic is a string-keyed configuration holding any subset of the schema.
// Values are created on demand from schema defaults.
type Dynamic struct {
	schema *Schema
	opts   containerOptions
	values map[string]*OptionValue
}

// NewDynamic creates an empty dynamic configuration.
func NewDynamic(schema *Schema, opts ...ContainerOption) *Dynamic {
	return &Dynamic{
		schema: schema,
		opts:   applyContainerOptions(opts),
		values: make(map[string]*OptionValue),
	}
}

// Schema implements Store.
func (d *Dynamic) Schema() *Schema { return d.schema }

// Option returns the value for key, resolving aliases. With create set a
// missing schema-known key is inserted with its default; without it a
// missing key yields ErrNotFound. Keys unknown to the schema always yield
// ErrNotFound.
func (d *Dynamic) Option(key string, create bool) (*OptionValue, error) {
	canon, err := d.schema.resolver.Canonicalize(key)
	if err != nil {
		return nil, err
	}
	if v, ok := d.values[canon]; ok {
		return v, nil
	}
	if !create {
		return nil, newError(ClassNotFound, key, "option not set").WithOp("lookup")
	}
	nv := d.schema.newValue(d.schema.defs[canon], d.opts.policyFor(canon))
	d.values[canon] = &nv
	return &nv, nil
}

// Lookup implements Store.
func (d *Dynamic) Lookup(key string) (*OptionValue, error) { return d.Option(key, false) }

// Ensure implements Store.
func (d *Dynamic) Ensure(key string) (*OptionValue, error) { return d.Option(key, true) }

func (d *Dynamic) creates(key string) (RangePolicy, bool) {
	canon, err := d.schema.resolver.Canonicalize(key)
	if err != nil {
		return RangeReject, false
	}
	return d.opts.policyFor(canon), true
}

// Has reports whether key (or the key it aliases) is present.
func (d *Dynamic) Has(key string) bool {
	canon, err := d.schema.resolver.Canonicalize(key)
	if err != nil {
		return false
	}
	_, ok := d.values[canon]
	return ok
}

// Keys returns the present canonical keys, sorted.
func (d *Dynamic) Keys() []string {
	keys := make([]string, 0, len(d.values))
	for k := range d.values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of present keys.
func (d *Dynamic) Len() int { return len(d.values) }

// Delete removes key and reports whether it was present.
func (d *Dynamic) Delete(key string) bool {
	canon, err := d.schema.resolver.Canonicalize(key)
	if err != nil {
		return false
	}
	_, ok := d.values[canon]
	delete(d.values, canon)
	return ok
}

// Clone returns an independent deep copy.
func (d *Dynamic) Clone() *Dynamic {
	c := &Dynamic{
		schema: d.schema,
		opts:   d.opts,
		values: make(map[string]*OptionValue, len(d.values)),
	}
	for k, v := range d.values {
		c.values[k] = v.Clone()
	}
	return c
}
