package printconfig

import (
	"github.com/openfroyo/slicecfg/pkg/config"
)

// Enum type tags referenced by OptionDef.Enum.
const (
	EnumGCodeFlavor            = "gcode_flavor"
	EnumInfillPattern          = "infill_pattern"
	EnumSupportMaterialPattern = "support_material_pattern"
)

// GCodeFlavor selects the firmware dialect of generated G-code.
type GCodeFlavor int

const (
	GCodeFlavorRepRap GCodeFlavor = iota
	GCodeFlavorTeacup
	GCodeFlavorMakerWare
	GCodeFlavorSailfish
	GCodeFlavorMach3
	GCodeFlavorNoExtrusion
)

// InfillPattern selects the infill geometry.
type InfillPattern int

const (
	InfillRectilinear InfillPattern = iota
	InfillLine
	InfillConcentric
	InfillHoneycomb
	InfillHilbertCurve
	InfillArchimedeanChords
	InfillOctagramSpiral
)

// SupportMaterialPattern selects the support geometry.
type SupportMaterialPattern int

const (
	SupportMaterialRectilinear SupportMaterialPattern = iota
	SupportMaterialRectilinearGrid
	SupportMaterialHoneycomb
	SupportMaterialPillars
)

func gcodeFlavorCodec() *config.EnumCodec {
	return config.NewEnumCodec(EnumGCodeFlavor,
		config.EnumEntry{Token: "reprap", Value: int(GCodeFlavorRepRap)},
		config.EnumEntry{Token: "teacup", Value: int(GCodeFlavorTeacup)},
		config.EnumEntry{Token: "makerware", Value: int(GCodeFlavorMakerWare)},
		config.EnumEntry{Token: "sailfish", Value: int(GCodeFlavorSailfish)},
		config.EnumEntry{Token: "mach3", Value: int(GCodeFlavorMach3)},
		config.EnumEntry{Token: "no-extrusion", Value: int(GCodeFlavorNoExtrusion)},
	)
}

func infillPatternCodec() *config.EnumCodec {
	return config.NewEnumCodec(EnumInfillPattern,
		config.EnumEntry{Token: "rectilinear", Value: int(InfillRectilinear)},
		config.EnumEntry{Token: "line", Value: int(InfillLine)},
		config.EnumEntry{Token: "concentric", Value: int(InfillConcentric)},
		config.EnumEntry{Token: "honeycomb", Value: int(InfillHoneycomb)},
		config.EnumEntry{Token: "hilbertcurve", Value: int(InfillHilbertCurve)},
		config.EnumEntry{Token: "archimedeanchords", Value: int(InfillArchimedeanChords)},
		config.EnumEntry{Token: "octagramspiral", Value: int(InfillOctagramSpiral)},
	)
}

func supportMaterialPatternCodec() *config.EnumCodec {
	return config.NewEnumCodec(EnumSupportMaterialPattern,
		config.EnumEntry{Token: "rectilinear", Value: int(SupportMaterialRectilinear)},
		config.EnumEntry{Token: "rectilinear-grid", Value: int(SupportMaterialRectilinearGrid)},
		config.EnumEntry{Token: "honeycomb", Value: int(SupportMaterialHoneycomb)},
		config.EnumEntry{Token: "pillars", Value: int(SupportMaterialPillars)},
	)
}
