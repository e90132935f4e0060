package policy

import (
	"time"
)

// Severity represents the severity level of a policy violation.
type Severity string

const (
	// SeverityInfo is for informational messages.
	SeverityInfo Severity = "info"

	// SeverityWarning is for settings that are legal but likely wrong.
	SeverityWarning Severity = "warning"

	// SeverityError is for configurations that must not be used.
	SeverityError Severity = "error"
)

// Blocking reports whether violations of this severity make a result
// disallowed.
func (s Severity) Blocking() bool {
	return s == SeverityError
}

// Policy represents a policy rule with its Rego code. The module must
// define a "deny" set; each element is a message string or an object with
// "message", "severity" and "key" fields.
type Policy struct {
	// Name is the unique name of the policy.
	Name string `json:"name"`

	// Description provides a human-readable description.
	Description string `json:"description"`

	// Rego contains the Rego policy code.
	Rego string `json:"rego"`

	// Severity is the default severity for violations.
	Severity Severity `json:"severity"`

	// Enabled indicates if the policy is active.
	Enabled bool `json:"enabled"`

	// Tags are labels for organizing policies.
	Tags []string `json:"tags,omitempty"`

	// Metadata contains additional policy metadata.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Violation is one deny result.
type Violation struct {
	// Policy is the name of the policy that was violated.
	Policy string `json:"policy"`

	// Key is the option the violation is about, when the policy names one.
	Key string `json:"key,omitempty"`

	Message  string   `json:"message"`
	Severity Severity `json:"severity"`

	DetectedAt time.Time `json:"detected_at"`
}

// Result represents the result of policy evaluation.
type Result struct {
	// Allowed is false when any violation is blocking.
	Allowed bool `json:"allowed"`

	Violations []Violation `json:"violations,omitempty"`

	// Warnings lists policies that failed to evaluate.
	Warnings []string `json:"warnings,omitempty"`

	EvaluatedAt       time.Time     `json:"evaluated_at"`
	EvaluatedPolicies []string      `json:"evaluated_policies"`
	Duration          time.Duration `json:"duration"`
}

// Count returns the number of violations with severity s.
func (r *Result) Count(s Severity) int {
	n := 0
	for i := range r.Violations {
		if r.Violations[i].Severity == s {
			n++
		}
	}
	return n
}

// Input is the document policies see as "input".
type Input struct {
	// Config maps canonical option keys to native values.
	Config map[string]any `json:"config"`

	Context *Context `json:"context,omitempty"`
}

// Context describes why a configuration is being checked.
type Context struct {
	// Profile names the file or preset under evaluation.
	Profile string `json:"profile,omitempty"`

	// Operation is what the caller is about to do, e.g. "validate" or
	// "export".
	Operation string `json:"operation,omitempty"`

	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Bundle represents a collection of related policies stored as one JSON
// document.
type Bundle struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Policies    []Policy `json:"policies"`
}
