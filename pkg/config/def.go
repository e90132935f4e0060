package config

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

// OptionDef describes one configuration option. Definitions are immutable
// once added to a schema.
type OptionDef struct {
	// Key is the canonical option name.
	Key string `json:"key" validate:"required,optkey"`

	// Kind is the value kind the option stores.
	Kind Kind `json:"kind" validate:"gte=1,lte=12"`

	Label     string `json:"label,omitempty"`
	FullLabel string `json:"full_label,omitempty"`
	Tooltip   string `json:"tooltip,omitempty"`
	Category  string `json:"category,omitempty"`
	SideText  string `json:"sidetext,omitempty"`

	// Min and Max bound numeric values when set.
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`

	// RatioOver names the option a percentage value is relative to.
	RatioOver string `json:"ratio_over,omitempty" validate:"omitempty,optkey"`

	// Enum is the codec type tag for enum options.
	Enum string `json:"enum,omitempty"`

	// EnumValues restricts the accepted tokens to a subset of the codec.
	EnumValues []string `json:"enum_values,omitempty"`
	EnumLabels []string `json:"enum_labels,omitempty"`

	// Aliases are legacy names resolved to Key.
	Aliases []string `json:"aliases,omitempty" validate:"dive,optkey"`

	// Shortcut lists the keys a write to this option fans out to.
	Shortcut []string `json:"shortcut,omitempty" validate:"dive,optkey"`

	// CLI is the command-line flag spec, see ParseCLISpec.
	CLI string `json:"cli,omitempty" validate:"omitempty,clispec"`

	Multiline bool `json:"multiline,omitempty"`
	FullWidth bool `json:"full_width,omitempty"`
	Width     int  `json:"width,omitempty" validate:"gte=0"`
	Height    int  `json:"height,omitempty" validate:"gte=0"`

	// ReadOnly is presentation metadata; writes are not blocked.
	ReadOnly bool `json:"readonly,omitempty"`

	// Default seeds new values. Array kinds start with one element.
	Default Scalar `json:"-"`
}

// Bounded reports whether the option declares any numeric bound.
func (d *OptionDef) Bounded() bool {
	return d.Min != nil || d.Max != nil
}

// AllowsToken reports whether token is within the declared subset. Without
// a subset every codec token is allowed.
func (d *OptionDef) AllowsToken(token string) bool {
	if len(d.EnumValues) == 0 {
		return true
	}
	for _, v := range d.EnumValues {
		if v == token {
			return true
		}
	}
	return false
}

// DisplayLabel returns FullLabel when set and Label otherwise.
func (d *OptionDef) DisplayLabel() string {
	if d.FullLabel != "" {
		return d.FullLabel
	}
	return d.Label
}

// Bound returns a pointer to f, for populating Min and Max.
func Bound(f float64) *float64 { return &f }

var keyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

var (
	defValidatorOnce sync.Once
	defValidator     *validator.Validate
)

func getValidator() *validator.Validate {
	defValidatorOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("optkey", func(fl validator.FieldLevel) bool {
			return keyPattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("clispec", func(fl validator.FieldLevel) bool {
			_, err := ParseCLISpec(fl.Field().String())
			return err == nil
		})
		defValidator = v
	})
	return defValidator
}

// validateDef checks the structural rules of a definition.
func validateDef(def *OptionDef) error {
	if err := getValidator().Struct(def); err != nil {
		return fmt.Errorf("invalid definition %q: %w", def.Key, err)
	}
	if def.Min != nil && def.Max != nil && *def.Min > *def.Max {
		return fmt.Errorf("invalid definition %q: min %v exceeds max %v", def.Key, *def.Min, *def.Max)
	}
	if def.Kind.Base() == KindEnum && def.Enum == "" {
		return fmt.Errorf("invalid definition %q: enum option without type tag", def.Key)
	}
	if (def.Min != nil || def.Max != nil) && !def.Kind.IsNumeric() {
		return fmt.Errorf("invalid definition %q: bounds on non-numeric kind %s", def.Key, def.Kind)
	}
	return nil
}
