// Package printconfig defines the slicer print options on top of package
// config: three enum codecs, about one hundred twenty option definitions
// and the typed groups that hold them.
//
// The process-wide schema is built on first use by Schema. Typed groups
// (PrintObjectConfig, PrintRegionConfig, PrintConfig) are plain structs
// with one config.OptionValue per option, so hot paths read fields
// directly:
//
//	cfg := printconfig.NewPrintConfig()
//	speed := cfg.PerimeterSpeed.Float()
//
// FullPrintConfig presents the three groups as one store, and
// NewDynamicPrintConfig returns a map-backed store for partial
// configurations such as files and presets.
package printconfig
