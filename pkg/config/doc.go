// Package config provides a typed, self-describing option registry and the
// value containers reconciled against it.
//
// # Overview
//
// A Schema holds one OptionDef per option: its kind, presentation metadata,
// numeric bounds, enum codec, legacy aliases, shortcut fan-out and the
// option a percentage is relative to (ratio_over). Schemas are assembled
// with a Builder and are immutable afterwards.
//
// Values live in containers that all implement Store:
//
//   - Typed groups: Go structs whose OptionValue fields are tagged with
//     `config:"<key>"`. A Shape reflects over the struct once and dispatches
//     keys to fields without further reflection on the hot path.
//   - Dynamic: a string-keyed map holding any subset of the schema, creating
//     values from defaults on demand.
//   - Composite: an ordered list of borrowed stores presented as one.
//
// The Accessor is the uniform surface for writes. It resolves aliases, fans
// a shortcut write out to every target (all or nothing) and resolves
// percentages through the ratio_over chain.
//
// # Kinds
//
// Scalars: bool, int, float, float_or_percent, string, point, enum.
// Arrays: bools, ints, floats, strings, points. Arrays hold at least one
// element, and reading past the end yields element 0.
//
// # Errors
//
// Every failure is an *Error carrying an ErrorClass. Match with errors.Is
// against the sentinels:
//
//	if errors.Is(err, config.ErrOutOfRange) {
//	    ...
//	}
//
// # Usage Example
//
//	b := config.NewBuilder()
//	b.MustDefine(config.OptionDef{
//	    Key:     "layer_height",
//	    Kind:    config.KindFloat,
//	    Min:     config.Bound(0),
//	    Default: config.FloatValue(0.4),
//	})
//	schema, err := b.Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cfg := config.NewDynamic(schema)
//	acc := config.NewAccessor(cfg)
//	if err := acc.SetString("layer_height", "0.2"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Concurrency
//
// Schemas, resolvers and codecs are safe for concurrent reads. Containers
// are not synchronized; hand them between goroutines with Clone or
// Shape.Copy.
package config
