package config

import (
	"math"
	"reflect"
)

// Native returns the value as plain Go data suitable for YAML, JSON, CUE or
// script interpreters:
//
//	bool, int64, float64, string   as is
//	float-or-percent               float64, or "50%" for a percentage
//	point                          []float64{x, y}
//	enum                           its token
//	arrays                         []any of the element forms
func (v *OptionValue) Native() any {
	if !v.Kind().IsArray() {
		return v.nativeScalar(v.scalar)
	}
	out := make([]any, len(v.values))
	for i, s := range v.values {
		out[i] = v.nativeScalar(s)
	}
	return out
}

func (v *OptionValue) nativeScalar(s Scalar) any {
	switch s.Kind {
	case KindBool:
		return s.Bool
	case KindInt:
		return s.Int
	case KindFloat:
		return s.Float
	case KindFloatOrPercent:
		if s.Percent {
			return s.String()
		}
		return s.Float
	case KindString:
		return s.Str
	case KindPoint:
		return []float64{s.Point.X, s.Point.Y}
	case KindEnum:
		return v.formatScalar(s)
	default:
		return nil
	}
}

// SetNative stores x, accepting the forms Native produces plus common
// decoder output: any Go integer or float type, text in the option's
// serialized form, Point, Scalar, {x, y} maps and generic slices.
func (v *OptionValue) SetNative(x any) error {
	k := v.Kind()
	if !k.IsArray() {
		s, err := v.nativeToScalar(k, x)
		if err != nil {
			return err
		}
		return v.Set(s)
	}
	if text, ok := x.(string); ok {
		return v.Deserialize(text)
	}
	items, ok := v.nativeItems(x)
	if !ok {
		s, err := v.nativeToScalar(k.Base(), x)
		if err != nil {
			return err
		}
		return v.SetValues([]Scalar{s})
	}
	ss := make([]Scalar, len(items))
	for i, item := range items {
		s, err := v.nativeToScalar(k.Base(), item)
		if err != nil {
			return err
		}
		ss[i] = s
	}
	return v.SetValues(ss)
}

// nativeItems splits x into array elements. A bare pair of numbers given
// to a point array is one point, not two elements.
func (v *OptionValue) nativeItems(x any) ([]any, bool) {
	rv := reflect.ValueOf(x)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	if v.Kind() == KindPoints {
		if _, isPair := pairOf(items); isPair {
			return nil, false
		}
	}
	return items, true
}

func (v *OptionValue) nativeToScalar(base Kind, x any) (Scalar, error) {
	switch t := x.(type) {
	case Scalar:
		return t, nil
	case bool:
		return BoolValue(t), nil
	case string:
		return v.parseScalar(base, t)
	case Point:
		return PointValue(t.X, t.Y), nil
	case map[string]any:
		if base == KindPoint {
			xv, xok := toFloat(t["x"])
			yv, yok := toFloat(t["y"])
			if xok && yok {
				return PointValue(xv, yv), nil
			}
		}
	}

	if n, ok := toInt(x); ok {
		return IntValue(n), nil
	}
	if f, ok := toFloat(x); ok {
		if base == KindInt && f == math.Trunc(f) && !math.IsInf(f, 0) {
			return IntValue(int64(f)), nil
		}
		return FloatValue(f), nil
	}
	if base == KindPoint {
		rv := reflect.ValueOf(x)
		if rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
			items := make([]any, rv.Len())
			for i := range items {
				items[i] = rv.Index(i).Interface()
			}
			if p, ok := pairOf(items); ok {
				return PointValue(p.X, p.Y), nil
			}
		}
	}
	return Scalar{}, newError(ClassTypeMismatch, v.Key(), "cannot store %T in %s option", x, v.Kind()).WithOp("set")
}

func pairOf(items []any) (Point, bool) {
	if len(items) != 2 {
		return Point{}, false
	}
	x, xok := toFloat(items[0])
	y, yok := toFloat(items[1])
	return Point{X: x, Y: y}, xok && yok
}

func toInt(x any) (int64, bool) {
	switch n := x.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}

func toFloat(x any) (float64, bool) {
	switch n := x.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	if i, ok := toInt(x); ok {
		return float64(i), true
	}
	return 0, false
}
