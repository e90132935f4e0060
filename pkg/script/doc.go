// Package script runs Starlark profile scripts against a configuration.
//
// A profile script is ordinary Starlark. Each public global whose name is
// an option key or alias is written to the target store when the script
// finishes; names starting with an underscore are private helpers:
//
//	_nozzle = 0.4
//	layer_height = _nozzle / 2
//	external_perimeter_speed = percent(60)
//	threads = option("threads") * 2
//
// Runs are bounded by a timeout and cancelled through the Starlark thread,
// so runaway loops stop promptly.
package script
