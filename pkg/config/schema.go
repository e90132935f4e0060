package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"
)

// Schema is the immutable registry of option definitions and enum codecs.
// It is safe for concurrent reads.
type Schema struct {
	defs     map[string]*OptionDef
	keys     []string
	enums    map[string]*EnumCodec
	resolver *Resolver
}

// Builder accumulates definitions and produces a Schema.
type Builder struct {
	defs   map[string]*OptionDef
	order  []string
	names  map[string]string // every key and alias -> owning key
	enums  map[string]*EnumCodec
	logger zerolog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets the logger used to report schema construction.
func WithLogger(logger zerolog.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = logger.With().Str("component", "schema").Logger()
	}
}

// NewBuilder creates an empty schema builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		defs:   make(map[string]*OptionDef),
		names:  make(map[string]string),
		enums:  make(map[string]*EnumCodec),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// RegisterEnum adds a codec addressable by its name from OptionDef.Enum.
func (b *Builder) RegisterEnum(codec *EnumCodec) error {
	if _, ok := b.enums[codec.Name()]; ok {
		return newError(ClassDuplicateKey, codec.Name(), "enum already registered").WithOp("register")
	}
	b.enums[codec.Name()] = codec
	return nil
}

// Define adds an option definition. The definition is copied.
func (b *Builder) Define(def OptionDef) error {
	if err := validateDef(&def); err != nil {
		return err
	}
	if owner, ok := b.names[def.Key]; ok {
		return newError(ClassDuplicateKey, def.Key, "already defined by %q", owner).WithOp("define")
	}
	seen := map[string]bool{def.Key: true}
	for _, alias := range def.Aliases {
		if owner, ok := b.names[alias]; ok || seen[alias] {
			if owner == "" {
				owner = def.Key
			}
			return newError(ClassDuplicateKey, alias, "alias already used by %q", owner).WithOp("define")
		}
		seen[alias] = true
	}

	d := cloneDef(&def)
	b.defs[d.Key] = d
	b.order = append(b.order, d.Key)
	b.names[d.Key] = d.Key
	for _, alias := range d.Aliases {
		b.names[alias] = d.Key
	}
	return nil
}

// MustDefine is like Define but panics on error.
func (b *Builder) MustDefine(def OptionDef) {
	if err := b.Define(def); err != nil {
		panic(err)
	}
}

// Build checks cross-definition consistency and returns the schema. Every
// problem found is reported, joined. The schema owns copies of the
// definitions, so the builder may keep defining and build again.
func (b *Builder) Build() (*Schema, error) {
	defs := make(map[string]*OptionDef, len(b.defs))
	for k, d := range b.defs {
		defs[k] = cloneDef(d)
	}

	var errs []error
	for _, key := range b.order {
		if err := b.check(defs, defs[key]); err != nil {
			errs = append(errs, err)
		}
	}
	if err := b.checkRatioCycles(defs); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		b.logger.Error().Int("errors", len(errs)).Msg("Schema build failed")
		return nil, errors.Join(errs...)
	}

	s := &Schema{
		defs:  defs,
		keys:  make([]string, 0, len(defs)),
		enums: make(map[string]*EnumCodec, len(b.enums)),
	}
	for k := range defs {
		s.keys = append(s.keys, k)
	}
	slices.Sort(s.keys)
	for k, c := range b.enums {
		s.enums[k] = c
	}
	s.resolver = newResolver(s)

	b.logger.Debug().
		Int("options", len(s.keys)).
		Int("enums", len(s.enums)).
		Msg("Schema built")
	return s, nil
}

// check validates def against the other definitions and normalizes it in
// place: relation targets become canonical keys and the default is filled in.
func (b *Builder) check(defs map[string]*OptionDef, def *OptionDef) error {
	var codec *EnumCodec
	if def.Kind.Base() == KindEnum {
		codec = b.enums[def.Enum]
		if codec == nil {
			return dangling(def.Key, "enum type %q not registered", def.Enum)
		}
		for _, t := range def.EnumValues {
			if _, err := codec.Encode(t); err != nil {
				return dangling(def.Key, "enum value %q not in %s", t, def.Enum)
			}
		}
	}
	if len(def.EnumLabels) > 0 && len(def.EnumLabels) != len(def.EnumValues) {
		return dangling(def.Key, "%d enum labels for %d enum values", len(def.EnumLabels), len(def.EnumValues))
	}

	for i, target := range def.Shortcut {
		owner, ok := b.names[target]
		if !ok {
			return dangling(def.Key, "shortcut target %q not defined", target)
		}
		def.Shortcut[i] = owner
	}

	if def.RatioOver != "" {
		owner, ok := b.names[def.RatioOver]
		if !ok {
			return dangling(def.Key, "ratio_over target %q not defined", def.RatioOver)
		}
		def.RatioOver = owner
		switch defs[owner].Kind {
		case KindFloat, KindFloatOrPercent:
		default:
			return dangling(def.Key, "ratio_over target %q is %s", owner, defs[owner].Kind)
		}
	}

	if def.Default.Kind == KindInvalid {
		def.Default = zeroScalar(def, codec)
	}
	probe := OptionValue{def: &OptionDef{Key: def.Key, Kind: def.Kind.Base(), Min: def.Min, Max: def.Max, Enum: def.Enum, EnumValues: def.EnumValues}, codec: codec}
	norm, err := probe.convert(def.Default)
	if err != nil {
		return &Error{Class: ClassDanglingReference, Key: def.Key, Op: "build", Message: "invalid default", Err: err}
	}
	def.Default = norm
	return nil
}

func (b *Builder) checkRatioCycles(defs map[string]*OptionDef) error {
	for _, key := range b.order {
		seen := map[string]bool{}
		for k := key; k != ""; k = defs[k].RatioOver {
			if seen[k] {
				return dangling(key, "ratio_over chain loops at %q", k)
			}
			seen[k] = true
			if _, ok := defs[k]; !ok {
				break
			}
		}
	}
	return nil
}

func dangling(key, format string, args ...any) error {
	return newError(ClassDanglingReference, key, format, args...).WithOp("build")
}

func zeroScalar(def *OptionDef, codec *EnumCodec) Scalar {
	switch def.Kind.Base() {
	case KindBool:
		return BoolValue(false)
	case KindInt:
		return IntValue(0)
	case KindFloat:
		return FloatValue(0)
	case KindFloatOrPercent:
		return LiteralValue(0)
	case KindString:
		return StringValue("")
	case KindPoint:
		return PointValue(0, 0)
	case KindEnum:
		if len(def.EnumValues) > 0 {
			return StringValue(def.EnumValues[0])
		}
		if codec != nil && codec.Len() > 0 {
			return StringValue(codec.Tokens()[0])
		}
	}
	return Scalar{}
}

func cloneDef(def *OptionDef) *OptionDef {
	d := *def
	d.EnumValues = slices.Clone(def.EnumValues)
	d.EnumLabels = slices.Clone(def.EnumLabels)
	d.Aliases = slices.Clone(def.Aliases)
	d.Shortcut = slices.Clone(def.Shortcut)
	d.Min = cloneBound(def.Min)
	d.Max = cloneBound(def.Max)
	return &d
}

func cloneBound(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

// Lookup returns the definition for a canonical key. Definitions are shared
// by every value of the schema and must not be modified.
func (s *Schema) Lookup(key string) (*OptionDef, error) {
	d, ok := s.defs[key]
	if !ok {
		return nil, newError(ClassNotFound, key, "unknown option").WithOp("lookup")
	}
	return d, nil
}

// Has reports whether key is a canonical key of the schema.
func (s *Schema) Has(key string) bool {
	_, ok := s.defs[key]
	return ok
}

// Keys returns every canonical key in sorted order.
func (s *Schema) Keys() []string {
	return slices.Clone(s.keys)
}

// Len returns the number of options.
func (s *Schema) Len() int { return len(s.keys) }

// Defs returns every definition ordered by key. See Lookup.
func (s *Schema) Defs() []*OptionDef {
	out := make([]*OptionDef, len(s.keys))
	for i, k := range s.keys {
		out[i] = s.defs[k]
	}
	return out
}

// Enum returns the codec registered under tag.
func (s *Schema) Enum(tag string) (*EnumCodec, bool) {
	c, ok := s.enums[tag]
	return c, ok
}

// Categories returns the distinct non-empty categories, sorted.
func (s *Schema) Categories() []string {
	set := make(map[string]struct{})
	for _, d := range s.defs {
		if d.Category != "" {
			set[d.Category] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// Resolver returns the relation index built over the schema.
func (s *Schema) Resolver() *Resolver { return s.resolver }

// NewValue returns a value for the canonical key seeded with its default.
func (s *Schema) NewValue(key string, opts ...ContainerOption) (*OptionValue, error) {
	d, err := s.Lookup(key)
	if err != nil {
		return nil, err
	}
	o := applyContainerOptions(opts)
	v := s.newValue(d, o.policyFor(key))
	return &v, nil
}

func (s *Schema) newValue(d *OptionDef, policy RangePolicy) OptionValue {
	var codec *EnumCodec
	if d.Kind.Base() == KindEnum {
		codec = s.enums[d.Enum]
	}
	return newValue(d, codec, policy)
}

// String summarizes the schema.
func (s *Schema) String() string {
	return fmt.Sprintf("schema(%d options, %d enums)", len(s.keys), len(s.enums))
}
