package config

import (
	"strconv"
	"strings"
)

// Serialize renders the value in the line-oriented text form used by config
// files and command-line arguments.
//
//	bool      1 / 0
//	point     x,y
//	percent   50%
//	string    newlines escaped as \n
//	enum      token
//	arrays    comma separated; strings use ';', points use "x1xy1,x2xy2"
func (v *OptionValue) Serialize() string {
	k := v.Kind()
	if !k.IsArray() {
		return v.formatScalar(v.scalar)
	}
	parts := make([]string, len(v.values))
	for i, s := range v.values {
		if k == KindPoints {
			parts[i] = formatFloat(s.Point.X) + "x" + formatFloat(s.Point.Y)
			continue
		}
		parts[i] = v.formatScalar(s)
	}
	if k == KindStrings {
		return strings.Join(parts, ";")
	}
	return strings.Join(parts, ",")
}

// Deserialize parses text in the form Serialize produces and stores it with
// the same validation as Set.
func (v *OptionValue) Deserialize(text string) error {
	k := v.Kind()
	if !k.IsArray() {
		s, err := v.parseScalar(k, text)
		if err != nil {
			return err
		}
		return v.Set(s)
	}
	sep := ","
	if k == KindStrings {
		sep = ";"
	}
	items := strings.Split(text, sep)
	ss := make([]Scalar, len(items))
	for i, item := range items {
		s, err := v.parseScalar(k.Base(), item)
		if err != nil {
			return err
		}
		ss[i] = s
	}
	return v.SetValues(ss)
}

// ParseScalar parses text as a scalar of the option's base kind without
// storing it.
func (v *OptionValue) ParseScalar(text string) (Scalar, error) {
	return v.parseScalar(v.Kind().Base(), text)
}

func (v *OptionValue) formatScalar(s Scalar) string {
	switch s.Kind {
	case KindEnum:
		if v.codec != nil {
			if t, err := v.codec.Decode(int(s.Int)); err == nil {
				return t
			}
		}
		return strconv.FormatInt(s.Int, 10)
	case KindString:
		return escapeText(s.Str)
	default:
		return s.String()
	}
}

func (v *OptionValue) parseScalar(k Kind, text string) (Scalar, error) {
	if k != KindString {
		text = strings.TrimSpace(text)
	}
	switch k {
	case KindBool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return Scalar{}, v.syntax(text)
		}
		return BoolValue(b), nil
	case KindInt:
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Scalar{}, v.syntax(text)
		}
		return IntValue(i), nil
	case KindFloat:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Scalar{}, v.syntax(text)
		}
		return FloatValue(f), nil
	case KindFloatOrPercent:
		num, pct := strings.CutSuffix(text, "%")
		f, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil {
			return Scalar{}, v.syntax(text)
		}
		if pct {
			return PercentValue(f), nil
		}
		return LiteralValue(f), nil
	case KindString:
		return StringValue(unescapeText(text)), nil
	case KindPoint:
		p, ok := parsePoint(text)
		if !ok {
			return Scalar{}, v.syntax(text)
		}
		return PointValue(p.X, p.Y), nil
	case KindEnum:
		return StringValue(text), nil
	default:
		return Scalar{}, v.syntax(text)
	}
}

func (v *OptionValue) syntax(text string) error {
	return newError(ClassTypeMismatch, v.Key(), "cannot parse %q as %s", text, v.Kind()).WithOp("deserialize")
}

// parsePoint accepts "x,y" and "xxy".
func parsePoint(text string) (Point, bool) {
	sep := strings.IndexAny(text, ",x")
	if sep <= 0 {
		return Point{}, false
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(text[:sep]), 64)
	if err != nil {
		return Point{}, false
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(text[sep+1:]), 64)
	if err != nil {
		return Point{}, false
	}
	return Point{X: x, Y: y}, true
}

var (
	textEscaper   = strings.NewReplacer("\\", "\\\\", "\n", "\\n", "\r", "\\r")
	textUnescaper = strings.NewReplacer("\\\\", "\\", "\\n", "\n", "\\r", "\r")
)

func escapeText(s string) string   { return textEscaper.Replace(s) }
func unescapeText(s string) string { return textUnescaper.Replace(s) }
