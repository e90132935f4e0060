package config

import (
	"fmt"
	"reflect"
	"slices"
)

// tagName is the struct tag that binds an OptionValue field to a key.
const tagName = "config"

var optionValueType = reflect.TypeOf(OptionValue{})

// Shape is the reflected layout of a typed group: a struct whose
// OptionValue fields carry `config:"<key>"` tags. The field table is built
// once, so lookups are a map hit plus a field offset.
type Shape[T any] struct {
	schema *Schema
	fields map[string][]int
	keys   []string
}

// NewShape reflects over T and binds each tagged field to its schema
// definition. Every tag must name a canonical key, at most once.
func NewShape[T any](schema *Schema) (*Shape[T], error) {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("typed group %s is not a struct", rt)
	}
	sh := &Shape[T]{
		schema: schema,
		fields: make(map[string][]int),
	}
	if err := sh.collect(rt, nil); err != nil {
		return nil, err
	}
	slices.Sort(sh.keys)
	return sh, nil
}

// MustShape is like NewShape but panics on error.
func MustShape[T any](schema *Schema) *Shape[T] {
	sh, err := NewShape[T](schema)
	if err != nil {
		panic(err)
	}
	return sh
}

func (sh *Shape[T]) collect(rt reflect.Type, prefix []int) error {
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		idx := append(slices.Clone(prefix), i)
		key, tagged := f.Tag.Lookup(tagName)
		if !tagged {
			if f.Anonymous && f.IsExported() && f.Type.Kind() == reflect.Struct {
				if err := sh.collect(f.Type, idx); err != nil {
					return err
				}
			}
			continue
		}
		if f.Type != optionValueType || !f.IsExported() {
			return fmt.Errorf("field %s.%s: tagged field must be an exported config.OptionValue", rt, f.Name)
		}
		if !sh.schema.Has(key) {
			return newError(ClassNotFound, key, "field %s.%s names an unknown option", rt, f.Name).WithOp("shape")
		}
		if _, dup := sh.fields[key]; dup {
			return newError(ClassDuplicateKey, key, "field %s.%s binds a key already bound", rt, f.Name).WithOp("shape")
		}
		sh.fields[key] = idx
		sh.keys = append(sh.keys, key)
	}
	return nil
}

// Schema returns the schema the shape was built against.
func (sh *Shape[T]) Schema() *Schema { return sh.schema }

// Keys returns the declared keys, sorted.
func (sh *Shape[T]) Keys() []string { return slices.Clone(sh.keys) }

// Has reports whether the canonical key is a field of T.
func (sh *Shape[T]) Has(key string) bool {
	_, ok := sh.fields[key]
	return ok
}

// New allocates a T with every field set to its default.
func (sh *Shape[T]) New(opts ...ContainerOption) *T {
	t := new(T)
	sh.Init(t, opts...)
	return t
}

// Init seeds every declared field of t with its schema default.
func (sh *Shape[T]) Init(t *T, opts ...ContainerOption) {
	o := applyContainerOptions(opts)
	rv := reflect.ValueOf(t).Elem()
	for key, idx := range sh.fields {
		d := sh.schema.defs[key]
		*sh.field(rv, idx) = sh.schema.newValue(d, o.policy)
	}
}

// Option returns the field for key, resolving aliases. Keys outside the
// declared set yield ErrNotFound.
func (sh *Shape[T]) Option(t *T, key string) (*OptionValue, error) {
	canon, err := sh.schema.resolver.Canonicalize(key)
	if err != nil {
		return nil, err
	}
	idx, ok := sh.fields[canon]
	if !ok {
		return nil, newError(ClassNotFound, key, "not a field of %T", t).WithOp("lookup")
	}
	v := sh.field(reflect.ValueOf(t).Elem(), idx)
	if !v.Bound() {
		*v = sh.schema.newValue(sh.schema.defs[canon], RangeReject)
	}
	return v, nil
}

// Copy deep-copies every declared field from src to dst.
func (sh *Shape[T]) Copy(dst, src *T) {
	dv := reflect.ValueOf(dst).Elem()
	sv := reflect.ValueOf(src).Elem()
	for _, idx := range sh.fields {
		sh.field(dv, idx).copyFrom(sh.field(sv, idx))
	}
}

// Clone returns a deep copy of t.
func (sh *Shape[T]) Clone(t *T) *T {
	c := new(T)
	sh.Copy(c, t)
	return c
}

// Bind wraps t as a Store.
func (sh *Shape[T]) Bind(t *T) *Typed[T] {
	return &Typed[T]{shape: sh, ptr: t}
}

func (sh *Shape[T]) field(rv reflect.Value, idx []int) *OptionValue {
	return rv.FieldByIndex(idx).Addr().Interface().(*OptionValue)
}

// Typed adapts a typed group to the Store interface.
type Typed[T any] struct {
	shape *Shape[T]
	ptr   *T
}

// Schema implements Store.
func (t *Typed[T]) Schema() *Schema { return t.shape.schema }

// Keys implements Store.
func (t *Typed[T]) Keys() []string { return t.shape.Keys() }

// Lookup implements Store.
func (t *Typed[T]) Lookup(key string) (*OptionValue, error) {
	return t.shape.Option(t.ptr, key)
}

// Ensure implements Store. Typed groups never grow, so it equals Lookup.
func (t *Typed[T]) Ensure(key string) (*OptionValue, error) {
	return t.shape.Option(t.ptr, key)
}

// Value returns the wrapped struct.
func (t *Typed[T]) Value() *T { return t.ptr }
