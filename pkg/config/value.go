package config

import (
	"math"
)

// RangePolicy decides what happens to a numeric write outside the declared
// bounds.
type RangePolicy int

const (
	// RangeReject fails the write with ErrOutOfRange.
	RangeReject RangePolicy = iota
	// RangeClamp stores the nearest bound instead.
	RangeClamp
)

// String returns the policy name.
func (p RangePolicy) String() string {
	if p == RangeClamp {
		return "clamp"
	}
	return "reject"
}

// OptionValue holds the current value of one option together with its
// definition. Array kinds always hold at least one element.
//
// An OptionValue is not safe for concurrent use; hand copies to other
// goroutines with Clone.
type OptionValue struct {
	def    *OptionDef
	codec  *EnumCodec
	policy RangePolicy
	scalar Scalar
	values []Scalar
}

func newValue(def *OptionDef, codec *EnumCodec, policy RangePolicy) OptionValue {
	v := OptionValue{def: def, codec: codec, policy: policy}
	v.Reset()
	return v
}

// Def returns the option definition, or nil for an unbound value.
func (v *OptionValue) Def() *OptionDef { return v.def }

// Key returns the canonical option key.
func (v *OptionValue) Key() string {
	if v.def == nil {
		return ""
	}
	return v.def.Key
}

// Kind returns the declared kind.
func (v *OptionValue) Kind() Kind {
	if v.def == nil {
		return KindInvalid
	}
	return v.def.Kind
}

// Bound reports whether the value is attached to a definition.
func (v *OptionValue) Bound() bool { return v.def != nil }

// Policy returns the range policy applied to writes.
func (v *OptionValue) Policy() RangePolicy { return v.policy }

// Reset restores the definition default.
func (v *OptionValue) Reset() {
	if v.def == nil {
		return
	}
	if v.def.Kind.IsArray() {
		v.values = []Scalar{v.def.Default}
		v.scalar = Scalar{}
		return
	}
	v.scalar = v.def.Default
	v.values = nil
}

// Len returns the number of stored elements; scalars report 1.
func (v *OptionValue) Len() int {
	if v.Kind().IsArray() {
		return len(v.values)
	}
	return 1
}

// Get returns the scalar value, or the first element of an array.
func (v *OptionValue) Get() Scalar {
	if v.Kind().IsArray() {
		return v.values[0]
	}
	return v.scalar
}

// GetAt returns element i of an array. An index past the stored length
// yields element 0, so a single value fans out to every slot.
func (v *OptionValue) GetAt(i int) Scalar {
	if !v.Kind().IsArray() {
		return v.scalar
	}
	if i < 0 || i >= len(v.values) {
		return v.values[0]
	}
	return v.values[i]
}

// Values returns a copy of the stored elements.
func (v *OptionValue) Values() []Scalar {
	if !v.Kind().IsArray() {
		return []Scalar{v.scalar}
	}
	out := make([]Scalar, len(v.values))
	copy(out, v.values)
	return out
}

// Set validates and stores s. On array kinds it replaces element 0.
// A rejected write leaves the previous value in place.
func (v *OptionValue) Set(s Scalar) error {
	if v.Kind().IsArray() {
		return v.SetAt(0, s)
	}
	c, err := v.convert(s)
	if err != nil {
		return err
	}
	v.scalar = c
	return nil
}

// SetAt stores s at index i, growing the array to i+1 elements. New slots
// are filled with element 0.
func (v *OptionValue) SetAt(i int, s Scalar) error {
	if !v.Kind().IsArray() {
		if i == 0 {
			return v.Set(s)
		}
		return v.fail(ClassTypeMismatch, "index %d on scalar option", i)
	}
	if i < 0 {
		return v.fail(ClassOutOfRange, "negative index %d", i)
	}
	c, err := v.convert(s)
	if err != nil {
		return err
	}
	for len(v.values) <= i {
		v.values = append(v.values, v.values[0])
	}
	v.values[i] = c
	return nil
}

// SetValues replaces every element. All elements are validated before any
// is stored.
func (v *OptionValue) SetValues(ss []Scalar) error {
	if !v.Kind().IsArray() {
		if len(ss) != 1 {
			return v.fail(ClassTypeMismatch, "%d values for scalar option", len(ss))
		}
		return v.Set(ss[0])
	}
	if len(ss) == 0 {
		return v.fail(ClassOutOfRange, "array option needs at least one element")
	}
	out := make([]Scalar, len(ss))
	for i, s := range ss {
		c, err := v.convert(s)
		if err != nil {
			return err
		}
		out[i] = c
	}
	v.values = out
	return nil
}

// Append adds an element to an array option.
func (v *OptionValue) Append(s Scalar) error {
	if !v.Kind().IsArray() {
		return v.fail(ClassTypeMismatch, "append on scalar option")
	}
	c, err := v.convert(s)
	if err != nil {
		return err
	}
	v.values = append(v.values, c)
	return nil
}

// Resolve returns the absolute magnitude: the literal value, or base scaled
// by the percentage when the value is one.
func (v *OptionValue) Resolve(base float64) (float64, error) {
	s := v.Get()
	n, ok := s.Number()
	if !ok {
		return 0, v.fail(ClassTypeMismatch, "resolve on %s option", v.Kind())
	}
	if s.Kind == KindFloatOrPercent && s.Percent {
		return base * n / 100, nil
	}
	return n, nil
}

// Bool returns the bool value (element 0 for arrays).
func (v *OptionValue) Bool() bool { return v.Get().Bool }

// BoolAt returns element i of a bool array.
func (v *OptionValue) BoolAt(i int) bool { return v.GetAt(i).Bool }

// Int returns the int value.
func (v *OptionValue) Int() int64 { return v.Get().Int }

// IntAt returns element i of an int array.
func (v *OptionValue) IntAt(i int) int64 { return v.GetAt(i).Int }

// Float returns the numeric magnitude. For percentages that is the percent
// figure itself; use Resolve for the absolute value.
func (v *OptionValue) Float() float64 {
	n, _ := v.Get().Number()
	return n
}

// FloatAt returns element i of a float array.
func (v *OptionValue) FloatAt(i int) float64 {
	n, _ := v.GetAt(i).Number()
	return n
}

// Percent reports whether a float-or-percent value is a percentage.
func (v *OptionValue) Percent() bool { return v.Get().Percent }

// Str returns the string value.
func (v *OptionValue) Str() string { return v.Get().Str }

// StrAt returns element i of a string array.
func (v *OptionValue) StrAt(i int) string { return v.GetAt(i).Str }

// Point returns the point value.
func (v *OptionValue) Point() Point { return v.Get().Point }

// PointAt returns element i of a point array.
func (v *OptionValue) PointAt(i int) Point { return v.GetAt(i).Point }

// Enum returns the numeric enum code.
func (v *OptionValue) Enum() int { return int(v.Get().Int) }

// Token returns the enum token, or "" when the code does not decode.
func (v *OptionValue) Token() string {
	if v.codec == nil {
		return ""
	}
	t, err := v.codec.Decode(v.Enum())
	if err != nil {
		return ""
	}
	return t
}

// Clone returns an independent copy sharing the immutable definition.
func (v *OptionValue) Clone() *OptionValue {
	c := *v
	if v.values != nil {
		c.values = make([]Scalar, len(v.values))
		copy(c.values, v.values)
	}
	return &c
}

// copyFrom replaces v's contents with src's.
func (v *OptionValue) copyFrom(src *OptionValue) {
	v.def = src.def
	v.codec = src.codec
	v.policy = src.policy
	v.scalar = src.scalar
	if src.values != nil {
		v.values = make([]Scalar, len(src.values))
		copy(v.values, src.values)
	} else {
		v.values = nil
	}
}

// Equal reports whether both values hold the same elements.
func (v *OptionValue) Equal(o *OptionValue) bool {
	if v.Kind() != o.Kind() {
		return false
	}
	a, b := v.Values(), o.Values()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// convert checks s against the definition and returns it in the stored
// representation of the base kind.
func (v *OptionValue) convert(s Scalar) (Scalar, error) {
	if v.def == nil {
		return Scalar{}, newError(ClassNotFound, "", "value is not bound to an option").WithOp("set")
	}
	base := v.def.Kind.Base()
	var out Scalar
	switch base {
	case KindBool:
		if s.Kind != KindBool {
			return out, v.mismatch(s)
		}
		out = BoolValue(s.Bool)
	case KindInt:
		if s.Kind != KindInt {
			return out, v.mismatch(s)
		}
		out = IntValue(s.Int)
	case KindFloat:
		n, ok := s.Number()
		if !ok || (s.Kind == KindFloatOrPercent && s.Percent) {
			return out, v.mismatch(s)
		}
		out = FloatValue(n)
	case KindFloatOrPercent:
		n, ok := s.Number()
		if !ok {
			return out, v.mismatch(s)
		}
		out = Scalar{Kind: KindFloatOrPercent, Float: n, Percent: s.Kind == KindFloatOrPercent && s.Percent}
	case KindString:
		if s.Kind != KindString {
			return out, v.mismatch(s)
		}
		out = StringValue(s.Str)
	case KindPoint:
		if s.Kind != KindPoint {
			return out, v.mismatch(s)
		}
		out = PointValue(s.Point.X, s.Point.Y)
	case KindEnum:
		code, err := v.enumCode(s)
		if err != nil {
			return out, err
		}
		out = EnumValue(code)
	default:
		return out, v.mismatch(s)
	}
	return v.checkRange(out)
}

func (v *OptionValue) enumCode(s Scalar) (int, error) {
	if v.codec == nil {
		return 0, v.fail(ClassUnknownToken, "no codec for enum %q", v.def.Enum)
	}
	var token string
	var code int
	switch s.Kind {
	case KindEnum:
		t, err := v.codec.Decode(int(s.Int))
		if err != nil {
			return 0, v.wrap(err)
		}
		token, code = t, int(s.Int)
	case KindString:
		c, err := v.codec.Encode(s.Str)
		if err != nil {
			return 0, v.wrap(err)
		}
		token, code = s.Str, c
	default:
		return 0, v.mismatch(s)
	}
	if !v.def.AllowsToken(token) {
		return 0, v.fail(ClassUnknownToken, "token %q not allowed", token)
	}
	return code, nil
}

func (v *OptionValue) checkRange(s Scalar) (Scalar, error) {
	if s.Kind == KindFloatOrPercent && s.Percent {
		return s, nil
	}
	n, ok := s.Number()
	if !ok || !v.def.Bounded() {
		return s, nil
	}
	// NaN compares false against both bounds and cannot be clamped.
	if math.IsNaN(n) {
		return s, v.fail(ClassOutOfRange, "NaN outside bounds")
	}
	lo, hi := math.Inf(-1), math.Inf(1)
	if v.def.Min != nil {
		lo = *v.def.Min
	}
	if v.def.Max != nil {
		hi = *v.def.Max
	}
	if n >= lo && n <= hi {
		return s, nil
	}
	if v.policy != RangeClamp {
		return s, v.fail(ClassOutOfRange, "%s outside [%s, %s]", formatFloat(n), formatFloat(lo), formatFloat(hi))
	}
	n = math.Min(math.Max(n, lo), hi)
	if s.Kind == KindInt {
		s.Int = int64(n)
	} else {
		s.Float = n
	}
	return s, nil
}

func (v *OptionValue) mismatch(s Scalar) error {
	return v.fail(ClassTypeMismatch, "cannot store %s in %s option", s.Kind, v.Kind())
}

func (v *OptionValue) fail(class ErrorClass, format string, args ...any) error {
	return newError(class, v.Key(), format, args...).WithOp("set")
}

func (v *OptionValue) wrap(err error) error {
	if e, ok := err.(*Error); ok {
		c := *e
		c.Key = v.Key()
		c.Op = "set"
		return &c
	}
	return err
}
