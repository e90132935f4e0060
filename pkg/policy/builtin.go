package policy

// GetBuiltinPolicies returns all built-in policies. Each one reads only the
// keys it needs from input.config, so it stays silent on configurations that
// do not carry them.
func GetBuiltinPolicies() []Policy {
	return []Policy{
		fanSpeedPolicy(),
		temperatureLimitsPolicy(),
		layerHeightPolicy(),
		extruderIndexPolicy(),
	}
}

// fanSpeedPolicy rejects a minimum fan speed above the maximum.
func fanSpeedPolicy() Policy {
	return Policy{
		Name:        "fan-speed",
		Description: "Minimum fan speed must not exceed maximum fan speed",
		Severity:    SeverityError,
		Enabled:     true,
		Tags:        []string{"cooling"},
		Rego: `package slicecfg.policies.fan

import rego.v1

deny contains violation if {
	cfg := input.config
	cfg.min_fan_speed > cfg.max_fan_speed
	violation := {
		"message": sprintf("min_fan_speed (%v%%) is above max_fan_speed (%v%%)", [cfg.min_fan_speed, cfg.max_fan_speed]),
		"key": "min_fan_speed",
	}
}
`,
	}
}

// temperatureLimitsPolicy warns about temperatures few machines can reach.
func temperatureLimitsPolicy() Policy {
	return Policy{
		Name:        "temperature-limits",
		Description: "Warns about extruder temperatures above 300°C and bed temperatures above 120°C",
		Severity:    SeverityWarning,
		Enabled:     true,
		Tags:        []string{"temperature", "safety"},
		Rego: `package slicecfg.policies.temperature

import rego.v1

extruder_keys := ["temperature", "first_layer_temperature"]

bed_keys := ["bed_temperature", "first_layer_bed_temperature"]

deny contains violation if {
	some key in extruder_keys
	some i, t in input.config[key]
	t > 300
	violation := {
		"message": sprintf("%s for extruder %v is %v°C, above 300°C", [key, i + 1, t]),
		"key": key,
	}
}

deny contains violation if {
	some key in bed_keys
	t := input.config[key]
	t > 120
	violation := {
		"message": sprintf("%s is %v°C, above 120°C", [key, t]),
		"key": key,
	}
}
`,
	}
}

// layerHeightPolicy rejects layers thicker than the smallest nozzle.
func layerHeightPolicy() Policy {
	return Policy{
		Name:        "layer-height",
		Description: "Layer heights must not exceed the smallest nozzle diameter",
		Severity:    SeverityError,
		Enabled:     true,
		Tags:        []string{"layers", "extruder"},
		Rego: `package slicecfg.policies.layers

import rego.v1

nozzle := min(input.config.nozzle_diameter)

deny contains violation if {
	input.config.layer_height > nozzle
	violation := {
		"message": sprintf("layer_height %vmm is thicker than the %vmm nozzle", [input.config.layer_height, nozzle]),
		"key": "layer_height",
	}
}

# Percentages are resolved by the slicer and are not checked here.
deny contains violation if {
	h := input.config.first_layer_height
	is_number(h)
	h > nozzle
	violation := {
		"message": sprintf("first_layer_height %vmm is thicker than the %vmm nozzle", [h, nozzle]),
		"key": "first_layer_height",
	}
}
`,
	}
}

// extruderIndexPolicy rejects extruder assignments past the configured
// extruders. The extruder count is the length of nozzle_diameter.
func extruderIndexPolicy() Policy {
	return Policy{
		Name:        "extruder-index",
		Description: "Extruder assignments must refer to a configured extruder",
		Severity:    SeverityError,
		Enabled:     true,
		Tags:        []string{"extruder"},
		Rego: `package slicecfg.policies.extruders

import rego.v1

extruder_keys := [
	"perimeter_extruder",
	"infill_extruder",
	"support_material_extruder",
	"support_material_interface_extruder",
]

deny contains violation if {
	extruders := count(input.config.nozzle_diameter)
	some key in extruder_keys
	e := input.config[key]
	e > extruders
	violation := {
		"message": sprintf("%s is %v but only %v extruders are configured", [key, e, extruders]),
		"key": key,
	}
}
`,
	}
}
