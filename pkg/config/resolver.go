package config

import (
	"slices"
)

// Resolver indexes the alias, shortcut and ratio-over relations of a
// schema. It is immutable and safe for concurrent use.
type Resolver struct {
	schema    *Schema
	aliases   map[string]string
	aliasesOf map[string][]string
}

func newResolver(s *Schema) *Resolver {
	r := &Resolver{
		schema:    s,
		aliases:   make(map[string]string),
		aliasesOf: make(map[string][]string),
	}
	for _, key := range s.keys {
		d := s.defs[key]
		for _, a := range d.Aliases {
			r.aliases[a] = key
		}
		if len(d.Aliases) > 0 {
			r.aliasesOf[key] = slices.Clone(d.Aliases)
		}
	}
	return r
}

// Canonicalize maps an alias to its canonical key. Canonical keys map to
// themselves; anything else yields ErrNotFound.
func (r *Resolver) Canonicalize(key string) (string, error) {
	if r.schema.Has(key) {
		return key, nil
	}
	if canon, ok := r.aliases[key]; ok {
		return canon, nil
	}
	return "", newError(ClassNotFound, key, "unknown option").WithOp("canonicalize")
}

// IsAlias reports whether key is a legacy alias.
func (r *Resolver) IsAlias(key string) bool {
	_, ok := r.aliases[key]
	return ok
}

// AliasesOf returns the aliases declared for a canonical key.
func (r *Resolver) AliasesOf(key string) []string {
	return slices.Clone(r.aliasesOf[key])
}

// ExpandShortcut returns the keys a write to key fans out to, or nil when
// key is not a shortcut.
func (r *Resolver) ExpandShortcut(key string) []string {
	canon, err := r.Canonicalize(key)
	if err != nil {
		return nil
	}
	return slices.Clone(r.schema.defs[canon].Shortcut)
}

// RatioBase returns the option a percentage of key is relative to.
func (r *Resolver) RatioBase(key string) (string, bool) {
	canon, err := r.Canonicalize(key)
	if err != nil {
		return "", false
	}
	base := r.schema.defs[canon].RatioOver
	return base, base != ""
}

// RatioChain returns the successive ratio-over targets starting after key.
// Schema construction guarantees the chain terminates.
func (r *Resolver) RatioChain(key string) []string {
	var chain []string
	for {
		base, ok := r.RatioBase(key)
		if !ok {
			return chain
		}
		chain = append(chain, base)
		key = base
	}
}
