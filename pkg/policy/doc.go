// Package policy checks print configurations against Open Policy Agent
// (OPA) policies written in Rego.
//
// Schema bounds catch a value that is wrong on its own. Policies catch
// combinations that are wrong together, such as a layer height thicker than
// the nozzle or an extruder assignment past the configured extruders.
//
// # Architecture
//
//  1. Engine - Compiles and evaluates Rego policies
//  2. Loader - Loads policies from files, directories and bundles
//  3. Built-in Policies - Checks every print profile should pass
//
// # Usage
//
//	eng, err := policy.NewEngine(logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cfg := printconfig.NewFullPrintConfig()
//	result, err := eng.Evaluate(ctx, cfg, &policy.Context{Profile: "pla.ini"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if !result.Allowed {
//	    for _, v := range result.Violations {
//	        fmt.Printf("%s: %s\n", v.Policy, v.Message)
//	    }
//	}
//
// # Input Document
//
// Policies see the configuration as input.config, a map from canonical
// option key to value. Percentages appear as strings such as "50%", points
// and arrays as lists. input.context carries the profile name and the
// operation being performed.
//
// # Custom Policies
//
// A policy module defines a "deny" set. Each element is a message or an
// object with "message", "key" and "severity":
//
//	package custom.policies.retraction
//
//	import rego.v1
//
//	deny contains violation if {
//	    some i, r in input.config.retract_length
//	    r > 10
//	    violation := {
//	        "message": sprintf("retract_length for extruder %v is %v", [i + 1, r]),
//	        "key": "retract_length",
//	        "severity": "warning",
//	    }
//	}
//
// # Severity Levels
//
//   - info: Informational messages
//   - warning: Likely mistakes that do not block
//   - error: Configurations that must not be used
//
// # Hot Reload
//
// Engine.WatchPolicies loads policy paths and reloads them when a file
// changes. Built-in policies are kept across reloads.
package policy
