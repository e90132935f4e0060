package config

import (
	"fmt"
	"strconv"
)

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// String renders the point as "x,y".
func (p Point) String() string {
	return formatFloat(p.X) + "," + formatFloat(p.Y)
}

// Scalar is a single value of one base kind. Only the field matching Kind is
// meaningful. Enum values carry their numeric code in Int; a write may also
// carry an enum as a String token, which is encoded against the option's codec.
type Scalar struct {
	Kind    Kind
	Bool    bool
	Int     int64
	Float   float64
	Percent bool
	Str     string
	Point   Point
}

// BoolValue returns a bool scalar.
func BoolValue(b bool) Scalar { return Scalar{Kind: KindBool, Bool: b} }

// IntValue returns an int scalar.
func IntValue(i int64) Scalar { return Scalar{Kind: KindInt, Int: i} }

// FloatValue returns a float scalar.
func FloatValue(f float64) Scalar { return Scalar{Kind: KindFloat, Float: f} }

// PercentValue returns a float-or-percent scalar flagged as a percentage.
func PercentValue(f float64) Scalar {
	return Scalar{Kind: KindFloatOrPercent, Float: f, Percent: true}
}

// LiteralValue returns a float-or-percent scalar holding an absolute value.
func LiteralValue(f float64) Scalar { return Scalar{Kind: KindFloatOrPercent, Float: f} }

// StringValue returns a string scalar.
func StringValue(s string) Scalar { return Scalar{Kind: KindString, Str: s} }

// PointValue returns a point scalar.
func PointValue(x, y float64) Scalar { return Scalar{Kind: KindPoint, Point: Point{X: x, Y: y}} }

// EnumValue returns an enum scalar holding a numeric code.
func EnumValue(code int) Scalar { return Scalar{Kind: KindEnum, Int: int64(code)} }

// Number returns the numeric magnitude of an int, float or float-or-percent
// scalar.
func (s Scalar) Number() (float64, bool) {
	switch s.Kind {
	case KindInt:
		return float64(s.Int), true
	case KindFloat, KindFloatOrPercent:
		return s.Float, true
	default:
		return 0, false
	}
}

// Equal reports whether two scalars hold the same kind and value.
func (s Scalar) Equal(o Scalar) bool {
	if s.Kind != o.Kind {
		return false
	}
	switch s.Kind {
	case KindBool:
		return s.Bool == o.Bool
	case KindInt, KindEnum:
		return s.Int == o.Int
	case KindFloat:
		return s.Float == o.Float
	case KindFloatOrPercent:
		return s.Float == o.Float && s.Percent == o.Percent
	case KindString:
		return s.Str == o.Str
	case KindPoint:
		return s.Point == o.Point
	default:
		return true
	}
}

// String renders the scalar for diagnostics. Enum scalars print their code;
// use OptionValue.Serialize for token output.
func (s Scalar) String() string {
	switch s.Kind {
	case KindBool:
		if s.Bool {
			return "1"
		}
		return "0"
	case KindInt, KindEnum:
		return strconv.FormatInt(s.Int, 10)
	case KindFloat:
		return formatFloat(s.Float)
	case KindFloatOrPercent:
		if s.Percent {
			return formatFloat(s.Float) + "%"
		}
		return formatFloat(s.Float)
	case KindString:
		return s.Str
	case KindPoint:
		return s.Point.String()
	default:
		return fmt.Sprintf("<%s>", s.Kind)
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
