package printconfig

import (
	"sync"

	"github.com/openfroyo/slicecfg/pkg/config"
)

// PrintObjectConfig holds the options that apply to a whole object.
type PrintObjectConfig struct {
	ExtrusionWidth                   config.OptionValue `config:"extrusion_width"`
	FirstLayerHeight                 config.OptionValue `config:"first_layer_height"`
	InfillOnlyWhereNeeded            config.OptionValue `config:"infill_only_where_needed"`
	LayerHeight                      config.OptionValue `config:"layer_height"`
	RaftLayers                       config.OptionValue `config:"raft_layers"`
	SupportMaterial                  config.OptionValue `config:"support_material"`
	SupportMaterialAngle             config.OptionValue `config:"support_material_angle"`
	SupportMaterialEnforceLayers     config.OptionValue `config:"support_material_enforce_layers"`
	SupportMaterialExtruder          config.OptionValue `config:"support_material_extruder"`
	SupportMaterialExtrusionWidth    config.OptionValue `config:"support_material_extrusion_width"`
	SupportMaterialInterfaceExtruder config.OptionValue `config:"support_material_interface_extruder"`
	SupportMaterialInterfaceLayers   config.OptionValue `config:"support_material_interface_layers"`
	SupportMaterialInterfaceSpacing  config.OptionValue `config:"support_material_interface_spacing"`
	SupportMaterialPattern           config.OptionValue `config:"support_material_pattern"`
	SupportMaterialSpacing           config.OptionValue `config:"support_material_spacing"`
	SupportMaterialSpeed             config.OptionValue `config:"support_material_speed"`
	SupportMaterialThreshold         config.OptionValue `config:"support_material_threshold"`
}

// PrintRegionConfig holds the options that may vary per object region.
type PrintRegionConfig struct {
	BottomSolidLayers         config.OptionValue `config:"bottom_solid_layers"`
	ExtraPerimeters           config.OptionValue `config:"extra_perimeters"`
	FillAngle                 config.OptionValue `config:"fill_angle"`
	FillDensity               config.OptionValue `config:"fill_density"`
	FillPattern               config.OptionValue `config:"fill_pattern"`
	InfillExtruder            config.OptionValue `config:"infill_extruder"`
	InfillExtrusionWidth      config.OptionValue `config:"infill_extrusion_width"`
	InfillEveryLayers         config.OptionValue `config:"infill_every_layers"`
	PerimeterExtruder         config.OptionValue `config:"perimeter_extruder"`
	PerimeterExtrusionWidth   config.OptionValue `config:"perimeter_extrusion_width"`
	Perimeters                config.OptionValue `config:"perimeters"`
	SolidFillPattern          config.OptionValue `config:"solid_fill_pattern"`
	SolidInfillBelowArea      config.OptionValue `config:"solid_infill_below_area"`
	SolidInfillExtrusionWidth config.OptionValue `config:"solid_infill_extrusion_width"`
	SolidInfillEveryLayers    config.OptionValue `config:"solid_infill_every_layers"`
	ThinWalls                 config.OptionValue `config:"thin_walls"`
	TopInfillExtrusionWidth   config.OptionValue `config:"top_infill_extrusion_width"`
	TopSolidLayers            config.OptionValue `config:"top_solid_layers"`
}

// PrintConfig holds the machine, filament and job-wide options.
type PrintConfig struct {
	AvoidCrossingPerimeters           config.OptionValue `config:"avoid_crossing_perimeters"`
	BedSize                           config.OptionValue `config:"bed_size"`
	BedTemperature                    config.OptionValue `config:"bed_temperature"`
	BridgeAcceleration                config.OptionValue `config:"bridge_acceleration"`
	BridgeFanSpeed                    config.OptionValue `config:"bridge_fan_speed"`
	BridgeFlowRatio                   config.OptionValue `config:"bridge_flow_ratio"`
	BridgeSpeed                       config.OptionValue `config:"bridge_speed"`
	BrimWidth                         config.OptionValue `config:"brim_width"`
	CompleteObjects                   config.OptionValue `config:"complete_objects"`
	Cooling                           config.OptionValue `config:"cooling"`
	DefaultAcceleration               config.OptionValue `config:"default_acceleration"`
	DisableFanFirstLayers             config.OptionValue `config:"disable_fan_first_layers"`
	DuplicateDistance                 config.OptionValue `config:"duplicate_distance"`
	EndGCode                          config.OptionValue `config:"end_gcode"`
	ExternalPerimeterSpeed            config.OptionValue `config:"external_perimeter_speed"`
	ExternalPerimetersFirst           config.OptionValue `config:"external_perimeters_first"`
	ExtruderClearanceHeight           config.OptionValue `config:"extruder_clearance_height"`
	ExtruderClearanceRadius           config.OptionValue `config:"extruder_clearance_radius"`
	ExtruderOffset                    config.OptionValue `config:"extruder_offset"`
	ExtrusionAxis                     config.OptionValue `config:"extrusion_axis"`
	ExtrusionMultiplier               config.OptionValue `config:"extrusion_multiplier"`
	FanAlwaysOn                       config.OptionValue `config:"fan_always_on"`
	FanBelowLayerTime                 config.OptionValue `config:"fan_below_layer_time"`
	FilamentDiameter                  config.OptionValue `config:"filament_diameter"`
	FirstLayerAcceleration            config.OptionValue `config:"first_layer_acceleration"`
	FirstLayerBedTemperature          config.OptionValue `config:"first_layer_bed_temperature"`
	FirstLayerExtrusionWidth          config.OptionValue `config:"first_layer_extrusion_width"`
	FirstLayerSpeed                   config.OptionValue `config:"first_layer_speed"`
	FirstLayerTemperature             config.OptionValue `config:"first_layer_temperature"`
	G0                                config.OptionValue `config:"g0"`
	GapFillSpeed                      config.OptionValue `config:"gap_fill_speed"`
	GCodeArcs                         config.OptionValue `config:"gcode_arcs"`
	GCodeComments                     config.OptionValue `config:"gcode_comments"`
	GCodeFlavor                       config.OptionValue `config:"gcode_flavor"`
	InfillAcceleration                config.OptionValue `config:"infill_acceleration"`
	InfillFirst                       config.OptionValue `config:"infill_first"`
	InfillSpeed                       config.OptionValue `config:"infill_speed"`
	LayerGCode                        config.OptionValue `config:"layer_gcode"`
	MaxFanSpeed                       config.OptionValue `config:"max_fan_speed"`
	MinFanSpeed                       config.OptionValue `config:"min_fan_speed"`
	MinPrintSpeed                     config.OptionValue `config:"min_print_speed"`
	MinSkirtLength                    config.OptionValue `config:"min_skirt_length"`
	Notes                             config.OptionValue `config:"notes"`
	NozzleDiameter                    config.OptionValue `config:"nozzle_diameter"`
	OnlyRetractWhenCrossingPerimeters config.OptionValue `config:"only_retract_when_crossing_perimeters"`
	OozePrevention                    config.OptionValue `config:"ooze_prevention"`
	OutputFilenameFormat              config.OptionValue `config:"output_filename_format"`
	Overhangs                         config.OptionValue `config:"overhangs"`
	PerimeterAcceleration             config.OptionValue `config:"perimeter_acceleration"`
	PerimeterSpeed                    config.OptionValue `config:"perimeter_speed"`
	PostProcess                       config.OptionValue `config:"post_process"`
	PrintCenter                       config.OptionValue `config:"print_center"`
	RandomizeStart                    config.OptionValue `config:"randomize_start"`
	Resolution                        config.OptionValue `config:"resolution"`
	RetractBeforeTravel               config.OptionValue `config:"retract_before_travel"`
	RetractLayerChange                config.OptionValue `config:"retract_layer_change"`
	RetractLength                     config.OptionValue `config:"retract_length"`
	RetractLengthToolchange           config.OptionValue `config:"retract_length_toolchange"`
	RetractLift                       config.OptionValue `config:"retract_lift"`
	RetractRestartExtra               config.OptionValue `config:"retract_restart_extra"`
	RetractRestartExtraToolchange     config.OptionValue `config:"retract_restart_extra_toolchange"`
	RetractSpeed                      config.OptionValue `config:"retract_speed"`
	SkirtDistance                     config.OptionValue `config:"skirt_distance"`
	SkirtHeight                       config.OptionValue `config:"skirt_height"`
	Skirts                            config.OptionValue `config:"skirts"`
	SlowdownBelowLayerTime            config.OptionValue `config:"slowdown_below_layer_time"`
	SmallPerimeterSpeed               config.OptionValue `config:"small_perimeter_speed"`
	SolidInfillSpeed                  config.OptionValue `config:"solid_infill_speed"`
	SpiralVase                        config.OptionValue `config:"spiral_vase"`
	StandbyTemperatureDelta           config.OptionValue `config:"standby_temperature_delta"`
	StartGCode                        config.OptionValue `config:"start_gcode"`
	StartPerimetersAtConcavePoints    config.OptionValue `config:"start_perimeters_at_concave_points"`
	StartPerimetersAtNonOverhang      config.OptionValue `config:"start_perimeters_at_non_overhang"`
	Temperature                       config.OptionValue `config:"temperature"`
	Threads                           config.OptionValue `config:"threads"`
	ToolchangeGCode                   config.OptionValue `config:"toolchange_gcode"`
	TopSolidInfillSpeed               config.OptionValue `config:"top_solid_infill_speed"`
	TravelSpeed                       config.OptionValue `config:"travel_speed"`
	UseFirmwareRetraction             config.OptionValue `config:"use_firmware_retraction"`
	UseRelativeEDistances             config.OptionValue `config:"use_relative_e_distances"`
	VibrationLimit                    config.OptionValue `config:"vibration_limit"`
	Wipe                              config.OptionValue `config:"wipe"`
	ZOffset                           config.OptionValue `config:"z_offset"`
}

var (
	objectShape = sync.OnceValue(func() *config.Shape[PrintObjectConfig] {
		return config.MustShape[PrintObjectConfig](Schema())
	})
	regionShape = sync.OnceValue(func() *config.Shape[PrintRegionConfig] {
		return config.MustShape[PrintRegionConfig](Schema())
	})
	printShape = sync.OnceValue(func() *config.Shape[PrintConfig] {
		return config.MustShape[PrintConfig](Schema())
	})
)

// ObjectShape returns the field table of PrintObjectConfig.
func ObjectShape() *config.Shape[PrintObjectConfig] { return objectShape() }

// RegionShape returns the field table of PrintRegionConfig.
func RegionShape() *config.Shape[PrintRegionConfig] { return regionShape() }

// PrintShape returns the field table of PrintConfig.
func PrintShape() *config.Shape[PrintConfig] { return printShape() }

// NewPrintObjectConfig returns an object group holding defaults.
func NewPrintObjectConfig(opts ...config.ContainerOption) *PrintObjectConfig {
	return objectShape().New(opts...)
}

// Option returns the value for key or an alias of it.
func (c *PrintObjectConfig) Option(key string) (*config.OptionValue, error) {
	return objectShape().Option(c, key)
}

// Store adapts the group to config.Store.
func (c *PrintObjectConfig) Store() config.Store { return objectShape().Bind(c) }

// NewPrintRegionConfig returns a region group holding defaults.
func NewPrintRegionConfig(opts ...config.ContainerOption) *PrintRegionConfig {
	return regionShape().New(opts...)
}

// Option returns the value for key or an alias of it.
func (c *PrintRegionConfig) Option(key string) (*config.OptionValue, error) {
	return regionShape().Option(c, key)
}

// Store adapts the group to config.Store.
func (c *PrintRegionConfig) Store() config.Store { return regionShape().Bind(c) }

// NewPrintConfig returns a print group holding defaults.
func NewPrintConfig(opts ...config.ContainerOption) *PrintConfig {
	return printShape().New(opts...)
}

// Option returns the value for key or an alias of it.
func (c *PrintConfig) Option(key string) (*config.OptionValue, error) {
	return printShape().Option(c, key)
}

// Store adapts the group to config.Store.
func (c *PrintConfig) Store() config.Store { return printShape().Bind(c) }

// Flavor returns the configured G-code flavor.
func (c *PrintConfig) Flavor() GCodeFlavor {
	return GCodeFlavor(c.GCodeFlavor.Enum())
}

// EffectiveExtrusionAxis returns the axis letter used for extrusion moves:
// "A" for Mach3, nothing when extrusion is disabled, otherwise the
// configured extrusion_axis.
func (c *PrintConfig) EffectiveExtrusionAxis() string {
	switch c.Flavor() {
	case GCodeFlavorMach3:
		return "A"
	case GCodeFlavorNoExtrusion:
		return ""
	default:
		return c.ExtrusionAxis.Str()
	}
}

// FullPrintConfig joins the object, region and print groups. Lookups try
// them in that order.
type FullPrintConfig struct {
	Object PrintObjectConfig
	Region PrintRegionConfig
	Print  PrintConfig

	*config.Composite
}

// NewFullPrintConfig returns a full configuration holding defaults. The
// composite refers to the embedded groups, so the returned value must not
// be copied.
func NewFullPrintConfig(opts ...config.ContainerOption) *FullPrintConfig {
	f := &FullPrintConfig{}
	objectShape().Init(&f.Object, opts...)
	regionShape().Init(&f.Region, opts...)
	printShape().Init(&f.Print, opts...)
	f.Composite = config.NewComposite(Schema(),
		objectShape().Bind(&f.Object),
		regionShape().Bind(&f.Region),
		printShape().Bind(&f.Print),
	)
	return f
}

// NewDynamicPrintConfig returns an empty dynamic configuration over the
// print schema.
func NewDynamicPrintConfig(opts ...config.ContainerOption) *config.Dynamic {
	return config.NewDynamic(Schema(), opts...)
}
