package config

import (
	"fmt"
)

// Kind is the value kind an option stores.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	// KindFloatOrPercent is a float that may instead be a percentage of
	// another option's value.
	KindFloatOrPercent
	KindString
	KindPoint
	KindEnum
	KindBools
	KindInts
	KindFloats
	KindStrings
	KindPoints
)

var kindNames = map[Kind]string{
	KindBool:           "bool",
	KindInt:            "int",
	KindFloat:          "float",
	KindFloatOrPercent: "float_or_percent",
	KindString:         "string",
	KindPoint:          "point",
	KindEnum:           "enum",
	KindBools:          "bools",
	KindInts:           "ints",
	KindFloats:         "floats",
	KindStrings:        "strings",
	KindPoints:         "points",
}

// String returns the stable identifier used in persisted text.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return KindInvalid, fmt.Errorf("unknown option kind %q", s)
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= KindBool && k <= KindPoints
}

// IsArray reports whether k holds a sequence of values.
func (k Kind) IsArray() bool {
	return k >= KindBools && k <= KindPoints
}

// Base returns the element kind of an array kind, or k itself.
func (k Kind) Base() Kind {
	switch k {
	case KindBools:
		return KindBool
	case KindInts:
		return KindInt
	case KindFloats:
		return KindFloat
	case KindStrings:
		return KindString
	case KindPoints:
		return KindPoint
	default:
		return k
	}
}

// IsNumeric reports whether the base kind carries a number subject to
// range checks.
func (k Kind) IsNumeric() bool {
	switch k.Base() {
	case KindInt, KindFloat, KindFloatOrPercent:
		return true
	default:
		return false
	}
}
