package printconfig

import (
	"github.com/openfroyo/slicecfg/pkg/config"
)

// definitions lists every print option. Defaults match the typed groups;
// shortcut options that belong to no group keep the zero value.
func definitions() []config.OptionDef {
	return []config.OptionDef{
		{
			Key:     "avoid_crossing_perimeters",
			Kind:    config.KindBool,
			Label:   "Avoid crossing perimeters",
			Tooltip: "Optimize travel moves in order to minimize the crossing of perimeters. This is mostly useful with Bowden extruders which suffer from oozing. This feature slows down both the print and the G-code generation.",
			CLI:     "avoid-crossing-perimeters!",
			Default: config.BoolValue(false),
		},
		{
			Key:      "bed_size",
			Kind:     config.KindPoint,
			Label:    "Bed size",
			Tooltip:  "Size of your bed. This is used to adjust the preview in the plater and for auto-arranging parts in it.",
			SideText: "mm",
			CLI:      "bed-size=s",
			Default:  config.PointValue(200, 200),
		},
		{
			Key:       "bed_temperature",
			Kind:      config.KindInt,
			Label:     "Other layers",
			FullLabel: "Bed temperature",
			Tooltip:   "Bed temperature for layers after the first one. Set this to zero to disable bed temperature control commands in the output.",
			SideText:  "°C",
			CLI:       "bed-temperature=i",
			Max:       config.Bound(300),
			Default:   config.IntValue(0),
		},
		{
			Key:       "bottom_solid_layers",
			Kind:      config.KindInt,
			Label:     "Bottom",
			FullLabel: "Bottom solid layers",
			Category:  "Layers and Perimeters",
			Tooltip:   "Number of solid layers to generate on bottom surfaces.",
			CLI:       "bottom-solid-layers=i",
			Default:   config.IntValue(3),
		},
		{
			Key:      "bridge_acceleration",
			Kind:     config.KindFloat,
			Label:    "Bridge",
			Tooltip:  "This is the acceleration your printer will use for bridges. Set zero to disable acceleration control for bridges.",
			SideText: "mm/s²",
			CLI:      "bridge-acceleration=f",
			Default:  config.FloatValue(0),
		},
		{
			Key:      "bridge_fan_speed",
			Kind:     config.KindInt,
			Label:    "Bridges fan speed",
			Tooltip:  "This fan speed is enforced during all bridges and overhangs.",
			SideText: "%",
			CLI:      "bridge-fan-speed=i",
			Max:      config.Bound(100),
			Default:  config.IntValue(100),
		},
		{
			Key:     "bridge_flow_ratio",
			Kind:    config.KindFloat,
			Label:   "Bridge flow ratio",
			Tooltip: "This factor affects the amount of plastic for bridging. You can decrease it slightly to pull the extrudates and prevent sagging, although default settings are usually good and you should experiment with cooling (use a fan) before tweaking this.",
			CLI:     "bridge-flow-ratio=f",
			Default: config.FloatValue(1),
		},
		{
			Key:      "bridge_speed",
			Kind:     config.KindFloat,
			Label:    "Bridges",
			Tooltip:  "Speed for printing bridges.",
			SideText: "mm/s",
			CLI:      "bridge-speed=f",
			Aliases:  []string{"bridge_feed_rate"},
			Default:  config.FloatValue(60),
		},
		{
			Key:      "brim_width",
			Kind:     config.KindFloat,
			Label:    "Brim width",
			Tooltip:  "Horizontal width of the brim that will be printed around each object on the first layer.",
			SideText: "mm",
			CLI:      "brim-width=f",
			Default:  config.FloatValue(0),
		},
		{
			Key:     "complete_objects",
			Kind:    config.KindBool,
			Label:   "Complete individual objects",
			Tooltip: "When printing multiple objects or copies, this feature will complete each object before moving onto next one (and starting it from its bottom layer). This feature is useful to avoid the risk of ruined prints. Slic3r should warn and prevent you from extruder collisions, but beware.",
			CLI:     "complete-objects!",
			Default: config.BoolValue(false),
		},
		{
			Key:     "cooling",
			Kind:    config.KindBool,
			Label:   "Enable auto cooling",
			Tooltip: "This flag enables the automatic cooling logic that adjusts print speed and fan speed according to layer printing time.",
			CLI:     "cooling!",
			Default: config.BoolValue(true),
		},
		{
			Key:      "default_acceleration",
			Kind:     config.KindFloat,
			Label:    "Default",
			Tooltip:  "This is the acceleration your printer will be reset to after the role-specific acceleration values are used (perimeter/infill). Set zero to prevent resetting acceleration at all.",
			SideText: "mm/s²",
			CLI:      "default-acceleration=f",
			Default:  config.FloatValue(0),
		},
		{
			Key:      "disable_fan_first_layers",
			Kind:     config.KindInt,
			Label:    "Disable fan for the first",
			Tooltip:  "You can set this to a positive value to disable fan at all during the first layers, so that it does not make adhesion worse.",
			SideText: "layers",
			CLI:      "disable-fan-first-layers=i",
			Max:      config.Bound(1000),
			Default:  config.IntValue(1),
		},
		{
			Key:      "duplicate_distance",
			Kind:     config.KindFloat,
			Label:    "Distance between copies",
			Tooltip:  "Distance used for the auto-arrange feature of the plater.",
			SideText: "mm",
			CLI:      "duplicate-distance=f",
			Aliases:  []string{"multiply_distance"},
			Default:  config.FloatValue(6),
		},
		{
			Key:       "end_gcode",
			Kind:      config.KindString,
			Label:     "End G-code",
			Tooltip:   "This end procedure is inserted at the end of the output file. Note that you can use placeholder variables for all Slic3r settings.",
			CLI:       "end-gcode=s",
			Multiline: true,
			FullWidth: true,
			Height:    120,
			Default:   config.StringValue("M104 S0 ; turn off temperature\nG28 X0  ; home X axis\nM84     ; disable motors\n"),
		},
		{
			Key:       "external_perimeter_speed",
			Kind:      config.KindFloatOrPercent,
			Label:     "External perimeters",
			Tooltip:   "This separate setting will affect the speed of external perimeters (the visible ones). If expressed as percentage (for example: 80%) it will be calculated on the perimeters speed setting above.",
			SideText:  "mm/s or %",
			CLI:       "external-perimeter-speed=s",
			RatioOver: "perimeter_speed",
			Default:   config.PercentValue(70),
		},
		{
			Key:     "external_perimeters_first",
			Kind:    config.KindBool,
			Label:   "External perimeters first",
			Tooltip: "Print contour perimeters from the outermost one to the innermost one instead of the default inverse order.",
			CLI:     "external-perimeters-first!",
			Default: config.BoolValue(false),
		},
		{
			Key:      "extra_perimeters",
			Kind:     config.KindBool,
			Label:    "Extra perimeters if needed",
			Category: "Layers and Perimeters",
			Tooltip:  "Add more perimeters when needed for avoiding gaps in sloping walls.",
			CLI:      "extra-perimeters!",
			Default:  config.BoolValue(true),
		},
		{
			Key:      "extruder",
			Kind:     config.KindInt,
			Label:    "Extruder",
			CLI:      "extruder=i",
			Shortcut: []string{"perimeter_extruder", "infill_extruder", "support_material_extruder", "support_material_interface_extruder"},
		},
		{
			Key:      "extruder_clearance_height",
			Kind:     config.KindFloat,
			Label:    "Height",
			Tooltip:  "Set this to the vertical distance between your nozzle tip and (usually) the X carriage rods. In other words, this is the height of the clearance cylinder around your extruder, and it represents the maximum depth the extruder can peek before colliding with other printed objects.",
			SideText: "mm",
			CLI:      "extruder-clearance-height=f",
			Default:  config.FloatValue(20),
		},
		{
			Key:      "extruder_clearance_radius",
			Kind:     config.KindFloat,
			Label:    "Radius",
			Tooltip:  "Set this to the clearance radius around your extruder. If the extruder is not centered, choose the largest value for safety. This setting is used to check for collisions and to display the graphical preview in the plater.",
			SideText: "mm",
			CLI:      "extruder-clearance-radius=f",
			Default:  config.FloatValue(20),
		},
		{
			Key:      "extruder_offset",
			Kind:     config.KindPoints,
			Label:    "Extruder offset",
			Tooltip:  "If your firmware doesn't handle the extruder displacement you need the G-code to take it into account. This option lets you specify the displacement of each extruder with respect to the first one. It expects positive coordinates (they will be subtracted from the XY coordinate).",
			SideText: "mm",
			CLI:      "extruder-offset=s@",
			Default:  config.PointValue(0, 0),
		},
		{
			Key:     "extrusion_axis",
			Kind:    config.KindString,
			Label:   "Extrusion axis",
			Tooltip: "Use this option to set the axis letter associated to your printer's extruder (usually E but some printers use A).",
			CLI:     "extrusion-axis=s",
			Default: config.StringValue("E"),
		},
		{
			Key:     "extrusion_multiplier",
			Kind:    config.KindFloats,
			Label:   "Extrusion multiplier",
			Tooltip: "This factor changes the amount of flow proportionally. You may need to tweak this setting to get nice surface finish and correct single wall widths. Usual values are between 0.9 and 1.1. If you think you need to change this more, check filament diameter and your firmware E steps.",
			CLI:     "extrusion-multiplier=f@",
			Default: config.FloatValue(1),
		},
		{
			Key:      "extrusion_width",
			Kind:     config.KindFloatOrPercent,
			Label:    "Default extrusion width",
			Category: "Extrusion Width",
			Tooltip:  "Set this to a non-zero value to set a manual extrusion width. If left to zero, Slic3r calculates a width automatically. If expressed as percentage (for example: 230%) it will be computed over layer height.",
			SideText: "mm or % (leave 0 for auto)",
			CLI:      "extrusion-width=s",
			Default:  config.LiteralValue(0),
		},
		{
			Key:     "fan_always_on",
			Kind:    config.KindBool,
			Label:   "Keep fan always on",
			Tooltip: "If this is enabled, fan will never be disabled and will be kept running at least at its minimum speed. Useful for PLA, harmful for ABS.",
			CLI:     "fan-always-on!",
			Default: config.BoolValue(false),
		},
		{
			Key:      "fan_below_layer_time",
			Kind:     config.KindInt,
			Label:    "Enable fan if layer print time is below",
			Tooltip:  "If layer print time is estimated below this number of seconds, fan will be enabled and its speed will be calculated by interpolating the minimum and maximum speeds.",
			SideText: "approximate seconds",
			CLI:      "fan-below-layer-time=i",
			Max:      config.Bound(1000),
			Width:    60,
			Default:  config.IntValue(60),
		},
		{
			Key:      "filament_diameter",
			Kind:     config.KindFloats,
			Label:    "Diameter",
			Tooltip:  "Enter your filament diameter here. Good precision is required, so use a caliper and do multiple measurements along the filament, then compute the average.",
			SideText: "mm",
			CLI:      "filament-diameter=f@",
			Default:  config.FloatValue(3),
		},
		{
			Key:      "fill_angle",
			Kind:     config.KindInt,
			Label:    "Fill angle",
			Category: "Infill",
			Tooltip:  "Default base angle for infill orientation. Cross-hatching will be applied to this. Bridges will be infilled using the best direction Slic3r can detect, so this setting does not affect them.",
			SideText: "°",
			CLI:      "fill-angle=i",
			Max:      config.Bound(359),
			Default:  config.IntValue(45),
		},
		{
			Key:      "fill_density",
			Kind:     config.KindFloat,
			Label:    "Fill density",
			Category: "Infill",
			Tooltip:  "Density of internal infill, expressed in the range 0 - 1.",
			CLI:      "fill-density=f",
			Default:  config.FloatValue(0.4),
		},
		{
			Key:        "fill_pattern",
			Kind:       config.KindEnum,
			Label:      "Fill pattern",
			Category:   "Infill",
			Tooltip:    "Fill pattern for general low-density infill.",
			CLI:        "fill-pattern=s",
			Enum:       EnumInfillPattern,
			EnumValues: []string{"rectilinear", "line", "concentric", "honeycomb", "hilbertcurve", "archimedeanchords", "octagramspiral"},
			EnumLabels: []string{"rectilinear", "line", "concentric", "honeycomb", "hilbertcurve (slow)", "archimedeanchords (slow)", "octagramspiral (slow)"},
			Default:    config.EnumValue(int(InfillHoneycomb)),
		},
		{
			Key:      "first_layer_acceleration",
			Kind:     config.KindFloat,
			Label:    "First layer",
			Tooltip:  "This is the acceleration your printer will use for first layer. Set zero to disable acceleration control for first layer.",
			SideText: "mm/s²",
			CLI:      "first-layer-acceleration=f",
			Default:  config.FloatValue(0),
		},
		{
			Key:      "first_layer_bed_temperature",
			Kind:     config.KindInt,
			Label:    "First layer",
			Tooltip:  "Heated build plate temperature for the first layer. Set this to zero to disable bed temperature control commands in the output.",
			SideText: "°C",
			CLI:      "first-layer-bed-temperature=i",
			Max:      config.Bound(300),
			Default:  config.IntValue(0),
		},
		{
			Key:       "first_layer_extrusion_width",
			Kind:      config.KindFloatOrPercent,
			Label:     "First layer",
			Tooltip:   "Set this to a non-zero value to set a manual extrusion width for first layer. You can use this to force fatter extrudates for better adhesion. If expressed as percentage (for example 120%) if will be computed over first layer height.",
			SideText:  "mm or % (leave 0 for default)",
			CLI:       "first-layer-extrusion-width=s",
			RatioOver: "first_layer_height",
			Default:   config.PercentValue(200),
		},
		{
			Key:       "first_layer_height",
			Kind:      config.KindFloatOrPercent,
			Label:     "First layer height",
			Category:  "Layers and Perimeters",
			Tooltip:   "When printing with very low layer heights, you might still want to print a thicker bottom layer to improve adhesion and tolerance for non perfect build plates. This can be expressed as an absolute value or as a percentage (for example: 150%) over the default layer height.",
			SideText:  "mm or %",
			CLI:       "first-layer-height=s",
			RatioOver: "layer_height",
			Default:   config.LiteralValue(0.35),
		},
		{
			Key:      "first_layer_speed",
			Kind:     config.KindFloatOrPercent,
			Label:    "First layer speed",
			Tooltip:  "If expressed as absolute value in mm/s, this speed will be applied to all the print moves of the first layer, regardless of their type. If expressed as a percentage (for example: 40%) it will scale the default speeds.",
			SideText: "mm/s or %",
			CLI:      "first-layer-speed=s",
			Default:  config.PercentValue(30),
		},
		{
			Key:      "first_layer_temperature",
			Kind:     config.KindInts,
			Label:    "First layer",
			Tooltip:  "Extruder temperature for first layer. If you want to control temperature manually during print, set this to zero to disable temperature control commands in the output file.",
			SideText: "°C",
			CLI:      "first-layer-temperature=i@",
			Max:      config.Bound(400),
			Default:  config.IntValue(200),
		},
		{
			Key:     "g0",
			Kind:    config.KindBool,
			Label:   "Use G0 for travel moves",
			Tooltip: "Only enable this if your firmware supports G0 properly (thus decouples all axes using their maximum speeds instead of synchronizing them). Travel moves and retractions will be combined in single commands, speeding them print up.",
			CLI:     "g0!",
			Default: config.BoolValue(false),
		},
		{
			Key:      "gap_fill_speed",
			Kind:     config.KindFloat,
			Label:    "Gap fill",
			Tooltip:  "Speed for filling small gaps using short zigzag moves. Keep this reasonably low to avoid too much shaking and resonance issues. Set zero to disable gaps filling.",
			SideText: "mm/s",
			CLI:      "gap-fill-speed=f",
			Default:  config.FloatValue(20),
		},
		{
			Key:     "gcode_arcs",
			Kind:    config.KindBool,
			Label:   "Use native G-code arcs",
			Tooltip: "This experimental feature tries to detect arcs from segments and generates G2/G3 arc commands instead of multiple straight G1 commands.",
			CLI:     "gcode-arcs!",
			Default: config.BoolValue(false),
		},
		{
			Key:     "gcode_comments",
			Kind:    config.KindBool,
			Label:   "Verbose G-code",
			Tooltip: "Enable this to get a commented G-code file, with each line explained by a descriptive text. If you print from SD card, the additional weight of the file could make your firmware slow down.",
			CLI:     "gcode-comments!",
			Default: config.BoolValue(false),
		},
		{
			Key:        "gcode_flavor",
			Kind:       config.KindEnum,
			Label:      "G-code flavor",
			Tooltip:    "Some G/M-code commands, including temperature control and others, are not universal. Set this option to your printer's firmware to get a compatible output. The \"No extrusion\" flavor prevents Slic3r from exporting any extrusion value at all.",
			CLI:        "gcode-flavor=s",
			Enum:       EnumGCodeFlavor,
			EnumValues: []string{"reprap", "teacup", "makerware", "sailfish", "mach3", "no-extrusion"},
			EnumLabels: []string{"RepRap (Marlin/Sprinter/Repetier)", "Teacup", "MakerWare (MakerBot)", "Sailfish (MakerBot)", "Mach3/EMC", "No extrusion"},
			Default:    config.EnumValue(int(GCodeFlavorRepRap)),
		},
		{
			Key:      "infill_acceleration",
			Kind:     config.KindFloat,
			Label:    "Infill",
			Tooltip:  "This is the acceleration your printer will use for infill. Set zero to disable acceleration control for infill.",
			SideText: "mm/s²",
			CLI:      "infill-acceleration=f",
			Default:  config.FloatValue(0),
		},
		{
			Key:       "infill_every_layers",
			Kind:      config.KindInt,
			Label:     "Combine infill every",
			FullLabel: "Combine infill every n layers",
			Category:  "Infill",
			Tooltip:   "This feature allows to combine infill and speed up your print by extruding thicker infill layers while preserving thin perimeters, thus accuracy.",
			SideText:  "layers",
			CLI:       "infill-every-layers=i",
			Min:       config.Bound(1),
			Default:   config.IntValue(1),
		},
		{
			Key:      "infill_extruder",
			Kind:     config.KindInt,
			Label:    "Infill extruder",
			Category: "Extruders",
			Tooltip:  "The extruder to use when printing infill.",
			CLI:      "infill-extruder=i",
			Default:  config.IntValue(1),
		},
		{
			Key:      "infill_extrusion_width",
			Kind:     config.KindFloatOrPercent,
			Label:    "Infill",
			Category: "Extrusion Width",
			Tooltip:  "Set this to a non-zero value to set a manual extrusion width for infill. You may want to use fatter extrudates to speed up the infill and make your parts stronger. If expressed as percentage (for example 90%) if will be computed over layer height.",
			SideText: "mm or % (leave 0 for default)",
			CLI:      "infill-extrusion-width=s",
			Default:  config.LiteralValue(0),
		},
		{
			Key:     "infill_first",
			Kind:    config.KindBool,
			Label:   "Infill before perimeters",
			Tooltip: "This option will switch the print order of perimeters and infill, making the latter first.",
			CLI:     "infill-first!",
			Default: config.BoolValue(false),
		},
		{
			Key:      "infill_only_where_needed",
			Kind:     config.KindBool,
			Label:    "Only infill where needed",
			Category: "Infill",
			Tooltip:  "This option will limit infill to the areas actually needed for supporting ceilings (it will act as internal support material).",
			CLI:      "infill-only-where-needed!",
			Default:  config.BoolValue(false),
		},
		{
			Key:      "infill_speed",
			Kind:     config.KindFloat,
			Label:    "Infill",
			Tooltip:  "Speed for printing the internal fill.",
			SideText: "mm/s",
			CLI:      "infill-speed=f",
			Aliases:  []string{"print_feed_rate", "infill_feed_rate"},
			Default:  config.FloatValue(60),
		},
		{
			Key:       "layer_gcode",
			Kind:      config.KindString,
			Label:     "Layer change G-code",
			Tooltip:   "This custom code is inserted at every layer change, right after the Z move and before the extruder moves to the first layer point. Note that you can use placeholder variables for all Slic3r settings.",
			CLI:       "layer-gcode=s",
			Multiline: true,
			FullWidth: true,
			Height:    50,
			Default:   config.StringValue(""),
		},
		{
			Key:      "layer_height",
			Kind:     config.KindFloat,
			Label:    "Layer height",
			Category: "Layers and Perimeters",
			Tooltip:  "This setting controls the height (and thus the total number) of the slices/layers. Thinner layers give better accuracy but take more time to print.",
			SideText: "mm",
			CLI:      "layer-height=f",
			Default:  config.FloatValue(0.4),
		},
		{
			Key:      "max_fan_speed",
			Kind:     config.KindInt,
			Label:    "Max",
			Tooltip:  "This setting represents the maximum speed of your fan.",
			SideText: "%",
			CLI:      "max-fan-speed=i",
			Max:      config.Bound(100),
			Default:  config.IntValue(100),
		},
		{
			Key:      "min_fan_speed",
			Kind:     config.KindInt,
			Label:    "Min",
			Tooltip:  "This setting represents the minimum PWM your fan needs to work.",
			SideText: "%",
			CLI:      "min-fan-speed=i",
			Max:      config.Bound(100),
			Default:  config.IntValue(35),
		},
		{
			Key:      "min_print_speed",
			Kind:     config.KindInt,
			Label:    "Min print speed",
			Tooltip:  "Slic3r will not scale speed down below this speed.",
			SideText: "mm/s",
			CLI:      "min-print-speed=f",
			Max:      config.Bound(1000),
			Default:  config.IntValue(10),
		},
		{
			Key:      "min_skirt_length",
			Kind:     config.KindFloat,
			Label:    "Minimum extrusion length",
			Tooltip:  "Generate no less than the number of skirt loops required to consume the specified amount of filament on the bottom layer. For multi-extruder machines, this minimum applies to each extruder.",
			SideText: "mm",
			CLI:      "min-skirt-length=f",
			Min:      config.Bound(0),
			Default:  config.FloatValue(0),
		},
		{
			Key:       "notes",
			Kind:      config.KindString,
			Label:     "Configuration notes",
			Tooltip:   "You can put here your personal notes. This text will be added to the G-code header comments.",
			CLI:       "notes=s",
			Multiline: true,
			FullWidth: true,
			Height:    130,
			Default:   config.StringValue(""),
		},
		{
			Key:      "nozzle_diameter",
			Kind:     config.KindFloats,
			Label:    "Nozzle diameter",
			Tooltip:  "This is the diameter of your extruder nozzle (for example: 0.5, 0.35 etc.)",
			SideText: "mm",
			CLI:      "nozzle-diameter=f@",
			Default:  config.FloatValue(0.5),
		},
		{
			Key:     "only_retract_when_crossing_perimeters",
			Kind:    config.KindBool,
			Label:   "Only retract when crossing perimeters",
			Tooltip: "Disables retraction when the travel path does not exceed the upper layer's perimeters (and thus any ooze will be probably invisible).",
			CLI:     "only-retract-when-crossing-perimeters!",
			Default: config.BoolValue(true),
		},
		{
			Key:     "ooze_prevention",
			Kind:    config.KindBool,
			Label:   "Enable",
			Tooltip: "This option will drop the temperature of the inactive extruders to prevent oozing. It will enable a tall skirt automatically and move extruders outside such skirt when changing temperatures.",
			CLI:     "ooze-prevention!",
			Default: config.BoolValue(false),
		},
		{
			Key:       "output_filename_format",
			Kind:      config.KindString,
			Label:     "Output filename format",
			Tooltip:   "You can use all configuration options as variables inside this template. For example: [layer_height], [fill_density] etc. You can also use [timestamp], [year], [month], [day], [hour], [minute], [second], [version], [input_filename], [input_filename_base].",
			CLI:       "output-filename-format=s",
			FullWidth: true,
			Default:   config.StringValue("[input_filename_base].gcode"),
		},
		{
			Key:      "overhangs",
			Kind:     config.KindBool,
			Label:    "Detect bridging perimeters",
			Category: "Layers and Perimeters",
			Tooltip:  "Experimental option to adjust flow for overhangs (bridge flow will be used), to apply bridge speed to them and enable fan.",
			CLI:      "overhangs!",
			Default:  config.BoolValue(true),
		},
		{
			Key:      "perimeter_acceleration",
			Kind:     config.KindFloat,
			Label:    "Perimeters",
			Tooltip:  "This is the acceleration your printer will use for perimeters. A high value like 9000 usually gives good results if your hardware is up to the job. Set zero to disable acceleration control for perimeters.",
			SideText: "mm/s²",
			CLI:      "perimeter-acceleration=f",
			Default:  config.FloatValue(0),
		},
		{
			Key:      "perimeter_extruder",
			Kind:     config.KindInt,
			Label:    "Perimeter extruder",
			Category: "Extruders",
			Tooltip:  "The extruder to use when printing perimeters.",
			CLI:      "perimeter-extruder=i",
			Aliases:  []string{"perimeters_extruder"},
			Default:  config.IntValue(1),
		},
		{
			Key:      "perimeter_extrusion_width",
			Kind:     config.KindFloatOrPercent,
			Label:    "Perimeters",
			Category: "Extrusion Width",
			Tooltip:  "Set this to a non-zero value to set a manual extrusion width for perimeters. You may want to use thinner extrudates to get more accurate surfaces. If expressed as percentage (for example 90%) if will be computed over layer height.",
			SideText: "mm or % (leave 0 for default)",
			CLI:      "perimeter-extrusion-width=s",
			Aliases:  []string{"perimeters_extrusion_width"},
			Default:  config.LiteralValue(0),
		},
		{
			Key:      "perimeter_speed",
			Kind:     config.KindFloat,
			Label:    "Perimeters",
			Tooltip:  "Speed for perimeters (contours, aka vertical shells).",
			SideText: "mm/s",
			CLI:      "perimeter-speed=f",
			Aliases:  []string{"perimeter_feed_rate"},
			Default:  config.FloatValue(30),
		},
		{
			Key:      "perimeters",
			Kind:     config.KindInt,
			Label:    "Perimeters (minimum)",
			Category: "Layers and Perimeters",
			Tooltip:  "This option sets the number of perimeters to generate for each layer. Note that Slic3r may increase this number automatically when it detects sloping surfaces which benefit from a higher number of perimeters if the Extra Perimeters option is enabled.",
			CLI:      "perimeters=i",
			Aliases:  []string{"perimeter_offsets"},
			Default:  config.IntValue(3),
		},
		{
			Key:       "post_process",
			Kind:      config.KindStrings,
			Label:     "Post-processing scripts",
			Tooltip:   "If you want to process the output G-code through custom scripts, just list their absolute paths here. Separate multiple scripts with a semicolon. Scripts will be passed the absolute path to the G-code file as the first argument, and they can access the Slic3r config settings by reading environment variables.",
			CLI:       "post-process=s@",
			Multiline: true,
			FullWidth: true,
			Height:    60,
		},
		{
			Key:      "print_center",
			Kind:     config.KindPoint,
			Label:    "Print center",
			Tooltip:  "These G-code coordinates are used to center your plater viewport.",
			SideText: "mm",
			CLI:      "print-center=s",
			Default:  config.PointValue(100, 100),
		},
		{
			Key:      "raft_layers",
			Kind:     config.KindInt,
			Label:    "Raft layers",
			Category: "Support material",
			Tooltip:  "The object will be raised by this number of layers, and support material will be generated under it.",
			SideText: "layers",
			CLI:      "raft-layers=i",
			Default:  config.IntValue(0),
		},
		{
			Key:     "randomize_start",
			Kind:    config.KindBool,
			Label:   "Randomize starting points",
			Tooltip: "Start each layer from a different vertex to prevent plastic build-up on the same corner.",
			CLI:     "randomize-start!",
			Default: config.BoolValue(false),
		},
		{
			Key:      "resolution",
			Kind:     config.KindFloat,
			Label:    "Resolution",
			Tooltip:  "Minimum detail resolution, used to simplify the input file for speeding up the slicing job and reducing memory usage. High-resolution models often carry more detail than printers can render. Set to zero to disable any simplification and use full resolution from input.",
			SideText: "mm",
			CLI:      "resolution=f",
			Min:      config.Bound(0),
			Default:  config.FloatValue(0),
		},
		{
			Key:      "retract_before_travel",
			Kind:     config.KindFloats,
			Label:    "Minimum travel after retraction",
			Tooltip:  "Retraction is not triggered when travel moves are shorter than this length.",
			SideText: "mm",
			CLI:      "retract-before-travel=f@",
			Default:  config.FloatValue(2),
		},
		{
			Key:     "retract_layer_change",
			Kind:    config.KindBools,
			Label:   "Retract on layer change",
			Tooltip: "This flag enforces a retraction whenever a Z move is done.",
			CLI:     "retract-layer-change!",
			Default: config.BoolValue(true),
		},
		{
			Key:      "retract_length",
			Kind:     config.KindFloats,
			Label:    "Length",
			Tooltip:  "When retraction is triggered, filament is pulled back by the specified amount (the length is measured on raw filament, before it enters the extruder).",
			SideText: "mm (zero to disable)",
			CLI:      "retract-length=f@",
			Default:  config.FloatValue(1),
		},
		{
			Key:      "retract_length_toolchange",
			Kind:     config.KindFloats,
			Label:    "Length",
			Tooltip:  "When retraction is triggered before changing tool, filament is pulled back by the specified amount (the length is measured on raw filament, before it enters the extruder).",
			SideText: "mm (zero to disable)",
			CLI:      "retract-length-toolchange=f@",
			Default:  config.FloatValue(10),
		},
		{
			Key:      "retract_lift",
			Kind:     config.KindFloats,
			Label:    "Lift Z",
			Tooltip:  "If you set this to a positive value, Z is quickly raised every time a retraction is triggered. When using multiple extruders, only the setting for the first extruder will be considered.",
			SideText: "mm",
			CLI:      "retract-lift=f@",
			Default:  config.FloatValue(0),
		},
		{
			Key:      "retract_restart_extra",
			Kind:     config.KindFloats,
			Label:    "Extra length on restart",
			Tooltip:  "When the retraction is compensated after the travel move, the extruder will push this additional amount of filament. This setting is rarely needed.",
			SideText: "mm",
			CLI:      "retract-restart-extra=f@",
			Default:  config.FloatValue(0),
		},
		{
			Key:      "retract_restart_extra_toolchange",
			Kind:     config.KindFloats,
			Label:    "Extra length on restart",
			Tooltip:  "When the retraction is compensated after changing tool, the extruder will push this additional amount of filament.",
			SideText: "mm",
			CLI:      "retract-restart-extra-toolchange=f@",
			Default:  config.FloatValue(0),
		},
		{
			Key:      "retract_speed",
			Kind:     config.KindInts,
			Label:    "Speed",
			Tooltip:  "The speed for retractions (it only applies to the extruder motor).",
			SideText: "mm/s",
			CLI:      "retract-speed=f@",
			Max:      config.Bound(1000),
			Default:  config.IntValue(30),
		},
		{
			Key:      "skirt_distance",
			Kind:     config.KindFloat,
			Label:    "Distance from object",
			Tooltip:  "Distance between skirt and object(s). Set this to zero to attach the skirt to the object(s) and get a brim for better adhesion.",
			SideText: "mm",
			CLI:      "skirt-distance=f",
			Default:  config.FloatValue(6),
		},
		{
			Key:      "skirt_height",
			Kind:     config.KindInt,
			Label:    "Skirt height",
			Tooltip:  "Height of skirt expressed in layers. Set this to a tall value to use skirt as a shield against drafts.",
			SideText: "layers",
			CLI:      "skirt-height=i",
			Default:  config.IntValue(1),
		},
		{
			Key:     "skirts",
			Kind:    config.KindInt,
			Label:   "Loops",
			Tooltip: "Number of loops for this skirt, in other words its thickness. Set this to zero to disable skirt.",
			CLI:     "skirts=i",
			Default: config.IntValue(1),
		},
		{
			Key:      "slowdown_below_layer_time",
			Kind:     config.KindInt,
			Label:    "Slow down if layer print time is below",
			Tooltip:  "If layer print time is estimated below this number of seconds, print moves speed will be scaled down to extend duration to this value.",
			SideText: "approximate seconds",
			CLI:      "slowdown-below-layer-time=i",
			Max:      config.Bound(1000),
			Width:    60,
			Default:  config.IntValue(30),
		},
		{
			Key:       "small_perimeter_speed",
			Kind:      config.KindFloatOrPercent,
			Label:     "Small perimeters",
			Tooltip:   "This separate setting will affect the speed of perimeters having radius <= 6.5mm (usually holes). If expressed as percentage (for example: 80%) it will be calculated on the perimeters speed setting above.",
			SideText:  "mm/s or %",
			CLI:       "small-perimeter-speed=s",
			RatioOver: "perimeter_speed",
			Default:   config.LiteralValue(30),
		},
		{
			Key:        "solid_fill_pattern",
			Kind:       config.KindEnum,
			Label:      "Top/bottom fill pattern",
			Category:   "Infill",
			Tooltip:    "Fill pattern for top/bottom infill.",
			CLI:        "solid-fill-pattern=s",
			Enum:       EnumInfillPattern,
			EnumValues: []string{"rectilinear", "concentric", "hilbertcurve", "archimedeanchords", "octagramspiral"},
			EnumLabels: []string{"rectilinear", "concentric", "hilbertcurve (slow)", "archimedeanchords (slow)", "octagramspiral (slow)"},
			Default:    config.EnumValue(int(InfillRectilinear)),
		},
		{
			Key:      "solid_infill_below_area",
			Kind:     config.KindFloat,
			Label:    "Solid infill threshold area",
			Category: "Infill",
			Tooltip:  "Force solid infill for regions having a smaller area than the specified threshold.",
			SideText: "mm²",
			CLI:      "solid-infill-below-area=f",
			Default:  config.FloatValue(70),
		},
		{
			Key:      "solid_infill_every_layers",
			Kind:     config.KindInt,
			Label:    "Solid infill every",
			Category: "Infill",
			Tooltip:  "This feature allows to force a solid layer every given number of layers. Zero to disable.",
			SideText: "layers",
			CLI:      "solid-infill-every-layers=i",
			Min:      config.Bound(0),
			Default:  config.IntValue(0),
		},
		{
			Key:      "solid_infill_extrusion_width",
			Kind:     config.KindFloatOrPercent,
			Label:    "Solid infill",
			Category: "Extrusion Width",
			Tooltip:  "Set this to a non-zero value to set a manual extrusion width for infill for solid surfaces. If expressed as percentage (for example 90%) if will be computed over layer height.",
			SideText: "mm or % (leave 0 for default)",
			CLI:      "solid-infill-extrusion-width=s",
			Default:  config.LiteralValue(0),
		},
		{
			Key:       "solid_infill_speed",
			Kind:      config.KindFloatOrPercent,
			Label:     "Solid infill",
			Tooltip:   "Speed for printing solid regions (top/bottom/internal horizontal shells). This can be expressed as a percentage (for example: 80%) over the default infill speed above.",
			SideText:  "mm/s or %",
			CLI:       "solid-infill-speed=s",
			RatioOver: "infill_speed",
			Aliases:   []string{"solid_infill_feed_rate"},
			Default:   config.LiteralValue(60),
		},
		{
			Key:      "solid_layers",
			Kind:     config.KindInt,
			Label:    "Solid layers",
			Tooltip:  "Number of solid layers to generate on top and bottom surfaces.",
			CLI:      "solid-layers=i",
			Shortcut: []string{"top_solid_layers", "bottom_solid_layers"},
		},
		{
			Key:     "spiral_vase",
			Kind:    config.KindBool,
			Label:   "Spiral vase",
			Tooltip: "This experimental feature will raise Z gradually while printing a single-walled object in order to remove any visible seam. By enabling this option other settings will be overridden to enforce a single perimeter, no infill, no top solid layers, no support material. You can still set any number of bottom solid layers as well as skirt/brim loops. It won't work when printing more than an object.",
			CLI:     "spiral-vase!",
			Default: config.BoolValue(false),
		},
		{
			Key:      "standby_temperature_delta",
			Kind:     config.KindInt,
			Label:    "Temperature variation",
			Tooltip:  "Temperature difference to be applied when an extruder is not active.",
			SideText: "∆°C",
			CLI:      "standby-temperature-delta=i",
			Min:      config.Bound(-400),
			Max:      config.Bound(400),
			Default:  config.IntValue(-5),
		},
		{
			Key:       "start_gcode",
			Kind:      config.KindString,
			Label:     "Start G-code",
			Tooltip:   "This start procedure is inserted at the beginning of the output file, right after the temperature control commands for extruder and bed. If Slic3r detects M104 or M190 in your custom codes, such commands will not be prepended automatically. Note that you can use placeholder variables for all Slic3r settings, so you can put a \"M104 S[first_layer_temperature]\" command wherever you want.",
			CLI:       "start-gcode=s",
			Multiline: true,
			FullWidth: true,
			Height:    120,
			Default:   config.StringValue("G28 ; home all axes\nG1 Z5 F5000 ; lift nozzle\n"),
		},
		{
			Key:     "start_perimeters_at_concave_points",
			Kind:    config.KindBool,
			Label:   "Concave points",
			Tooltip: "Prefer to start perimeters at a concave point.",
			CLI:     "start-perimeters-at-concave-points!",
			Default: config.BoolValue(false),
		},
		{
			Key:     "start_perimeters_at_non_overhang",
			Kind:    config.KindBool,
			Label:   "Non-overhang points",
			Tooltip: "Prefer to start perimeters at non-overhanging points.",
			CLI:     "start-perimeters-at-non-overhang!",
			Default: config.BoolValue(false),
		},
		{
			Key:      "support_material",
			Kind:     config.KindBool,
			Label:    "Generate support material",
			Category: "Support material",
			Tooltip:  "Enable support material generation.",
			CLI:      "support-material!",
			Default:  config.BoolValue(false),
		},
		{
			Key:      "support_material_angle",
			Kind:     config.KindInt,
			Label:    "Pattern angle",
			Category: "Support material",
			Tooltip:  "Use this setting to rotate the support material pattern on the horizontal plane.",
			SideText: "°",
			CLI:      "support-material-angle=i",
			Default:  config.IntValue(0),
		},
		{
			Key:       "support_material_enforce_layers",
			Kind:      config.KindInt,
			Label:     "Enforce support for the first",
			FullLabel: "Enforce support for the first n layers",
			Category:  "Support material",
			Tooltip:   "Generate support material for the specified number of layers counting from bottom, regardless of whether normal support material is enabled or not and regardless of any angle threshold. This is useful for getting more adhesion of objects having a very thin or poor footprint on the build plate.",
			SideText:  "layers",
			CLI:       "support-material-enforce-layers=f",
			Default:   config.IntValue(0),
		},
		{
			Key:      "support_material_extruder",
			Kind:     config.KindInt,
			Label:    "Support material extruder",
			Category: "Extruders",
			Tooltip:  "The extruder to use when printing support material. This affects brim and raft too.",
			CLI:      "support-material-extruder=i",
			Default:  config.IntValue(1),
		},
		{
			Key:      "support_material_extrusion_width",
			Kind:     config.KindFloatOrPercent,
			Label:    "Support material",
			Category: "Extrusion Width",
			Tooltip:  "Set this to a non-zero value to set a manual extrusion width for support material. If expressed as percentage (for example 90%) if will be computed over layer height.",
			SideText: "mm or % (leave 0 for default)",
			CLI:      "support-material-extrusion-width=s",
			Default:  config.LiteralValue(0),
		},
		{
			Key:      "support_material_interface_extruder",
			Kind:     config.KindInt,
			Label:    "Support material interface extruder",
			Category: "Extruders",
			Tooltip:  "The extruder to use when printing support material interface. This affects raft too.",
			CLI:      "support-material-interface-extruder=i",
			Default:  config.IntValue(1),
		},
		{
			Key:      "support_material_interface_layers",
			Kind:     config.KindInt,
			Label:    "Interface layers",
			Category: "Support material",
			Tooltip:  "Number of interface layers to insert between the object(s) and support material.",
			SideText: "layers",
			CLI:      "support-material-interface-layers=i",
			Default:  config.IntValue(3),
		},
		{
			Key:      "support_material_interface_spacing",
			Kind:     config.KindFloat,
			Label:    "Interface pattern spacing",
			Category: "Support material",
			Tooltip:  "Spacing between interface lines. Set zero to get a solid interface.",
			SideText: "mm",
			CLI:      "support-material-interface-spacing=f",
			Default:  config.FloatValue(0),
		},
		{
			Key:        "support_material_pattern",
			Kind:       config.KindEnum,
			Label:      "Pattern",
			Category:   "Support material",
			Tooltip:    "Pattern used to generate support material.",
			CLI:        "support-material-pattern=s",
			Enum:       EnumSupportMaterialPattern,
			EnumValues: []string{"rectilinear", "rectilinear-grid", "honeycomb", "pillars"},
			EnumLabels: []string{"rectilinear", "rectilinear grid", "honeycomb", "pillars"},
			Default:    config.EnumValue(int(SupportMaterialHoneycomb)),
		},
		{
			Key:      "support_material_spacing",
			Kind:     config.KindFloat,
			Label:    "Pattern spacing",
			Category: "Support material",
			Tooltip:  "Spacing between support material lines.",
			SideText: "mm",
			CLI:      "support-material-spacing=f",
			Default:  config.FloatValue(2.5),
		},
		{
			Key:      "support_material_speed",
			Kind:     config.KindFloat,
			Label:    "Support material",
			Category: "Support material",
			Tooltip:  "Speed for printing support material.",
			SideText: "mm/s",
			CLI:      "support-material-speed=f",
			Default:  config.FloatValue(60),
		},
		{
			Key:      "support_material_threshold",
			Kind:     config.KindInt,
			Label:    "Overhang threshold",
			Category: "Support material",
			Tooltip:  "Support material will not be generated for overhangs whose slope angle (90° = vertical) is above the given threshold. In other words, this value represent the most horizontal slope (measured from the horizontal plane) that you can print without support material. Set to zero for automatic detection (recommended).",
			SideText: "°",
			CLI:      "support-material-threshold=i",
			Default:  config.IntValue(0),
		},
		{
			Key:       "temperature",
			Kind:      config.KindInts,
			Label:     "Other layers",
			FullLabel: "Temperature",
			Tooltip:   "Extruder temperature for layers after the first one. Set this to zero to disable temperature control commands in the output.",
			SideText:  "°C",
			CLI:       "temperature=i@",
			Max:       config.Bound(400),
			Default:   config.IntValue(200),
		},
		{
			Key:      "thin_walls",
			Kind:     config.KindBool,
			Label:    "Detect thin walls",
			Category: "Layers and Perimeters",
			Tooltip:  "Detect single-width walls (parts where two extrusions don't fit and we need to collapse them into a single trace).",
			CLI:      "thin-walls!",
			Default:  config.BoolValue(true),
		},
		{
			Key:      "threads",
			Kind:     config.KindInt,
			Label:    "Threads",
			Tooltip:  "Threads are used to parallelize long-running tasks. Optimal threads number is slightly above the number of available cores/processors. Beware that more threads consume more memory.",
			SideText: "(more speed but more memory usage)",
			CLI:      "threads|j=i",
			Min:      config.Bound(1),
			Max:      config.Bound(16),
			ReadOnly: true,
			Default:  config.IntValue(2),
		},
		{
			Key:       "toolchange_gcode",
			Kind:      config.KindString,
			Label:     "Tool change G-code",
			Tooltip:   "This custom code is inserted at every extruder change. Note that you can use placeholder variables for all Slic3r settings as well as [previous_extruder] and [next_extruder].",
			CLI:       "toolchange-gcode=s",
			Multiline: true,
			FullWidth: true,
			Height:    50,
			Default:   config.StringValue(""),
		},
		{
			Key:      "top_infill_extrusion_width",
			Kind:     config.KindFloatOrPercent,
			Label:    "Top solid infill",
			Category: "Extrusion Width",
			Tooltip:  "Set this to a non-zero value to set a manual extrusion width for infill for top surfaces. You may want to use thinner extrudates to fill all narrow regions and get a smoother finish. If expressed as percentage (for example 90%) if will be computed over layer height.",
			SideText: "mm or % (leave 0 for default)",
			CLI:      "top-infill-extrusion-width=s",
			Default:  config.LiteralValue(0),
		},
		{
			Key:       "top_solid_infill_speed",
			Kind:      config.KindFloatOrPercent,
			Label:     "Top solid infill",
			Tooltip:   "Speed for printing top solid regions. You may want to slow down this to get a nicer surface finish. This can be expressed as a percentage (for example: 80%) over the solid infill speed above.",
			SideText:  "mm/s or %",
			CLI:       "top-solid-infill-speed=s",
			RatioOver: "solid_infill_speed",
			Default:   config.LiteralValue(50),
		},
		{
			Key:       "top_solid_layers",
			Kind:      config.KindInt,
			Label:     "Top",
			FullLabel: "Top solid layers",
			Category:  "Layers and Perimeters",
			Tooltip:   "Number of solid layers to generate on top surfaces.",
			CLI:       "top-solid-layers=i",
			Default:   config.IntValue(3),
		},
		{
			Key:      "travel_speed",
			Kind:     config.KindFloat,
			Label:    "Travel",
			Tooltip:  "Speed for travel moves (jumps between distant extrusion points).",
			SideText: "mm/s",
			CLI:      "travel-speed=f",
			Aliases:  []string{"travel_feed_rate"},
			Default:  config.FloatValue(130),
		},
		{
			Key:     "use_firmware_retraction",
			Kind:    config.KindBool,
			Label:   "Use firmware retraction",
			Tooltip: "This experimental setting uses G10 and G11 commands to have the firmware handle the retraction. This is only supported in recent Marlin.",
			CLI:     "use-firmware-retraction!",
			Default: config.BoolValue(false),
		},
		{
			Key:     "use_relative_e_distances",
			Kind:    config.KindBool,
			Label:   "Use relative E distances",
			Tooltip: "If your firmware requires relative E values, check this, otherwise leave it unchecked. Most firmwares use absolute values.",
			CLI:     "use-relative-e-distances!",
			Default: config.BoolValue(false),
		},
		{
			Key:      "vibration_limit",
			Kind:     config.KindFloat,
			Label:    "Vibration limit",
			Tooltip:  "This experimental option will slow down those moves hitting the configured frequency limit. The purpose of limiting vibrations is to avoid mechanical resonance. Set zero to disable.",
			SideText: "Hz",
			CLI:      "vibration-limit=f",
			Default:  config.FloatValue(0),
		},
		{
			Key:     "wipe",
			Kind:    config.KindBools,
			Label:   "Wipe while retracting",
			Tooltip: "This flag will move the nozzle while retracting to minimize the possible blob on leaky extruders.",
			CLI:     "wipe!",
			Default: config.BoolValue(false),
		},
		{
			Key:      "z_offset",
			Kind:     config.KindFloat,
			Label:    "Z offset",
			Tooltip:  "This value will be added (or subtracted) from all the Z coordinates in the output G-code. It is used to compensate for bad Z endstop position: for example, if your endstop zero actually leaves the nozzle 0.3mm far from the print bed, set this to -0.3 (or fix your endstop).",
			SideText: "mm",
			CLI:      "z-offset=f",
			Default:  config.FloatValue(0),
		},
	}
}
