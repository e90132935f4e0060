/*
Package cueschema renders an option schema as a CUE definition and uses it
to validate configurations.

# Overview

Generate emits a closed #Config definition with one optional field per
stored option. Numeric bounds become CUE bound constraints, enum options
become disjunctions of their accepted tokens and float-or-percent options
accept either a number or "N%" text.

A Validator compiles that definition once and checks:

  - stores, through config.Export
  - plain documents of native values
  - CUE source files, which are then applied to a store

# Usage Example

	v, err := cueschema.NewValidator(printconfig.Schema())
	if err != nil {
		return err
	}
	if err := v.Validate(cfg); err != nil {
		var verr *cueschema.ValidationError
		if errors.As(err, &verr) {
			for _, issue := range verr.Issues {
				fmt.Println(issue)
			}
		}
	}
*/
package cueschema
