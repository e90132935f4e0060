package cueschema

import (
	"fmt"
	"strconv"
	"strings"

	"cuelang.org/go/cue/format"
	"github.com/openfroyo/slicecfg/pkg/config"
)

// DefinitionName is the CUE definition every generated source declares.
const DefinitionName = "#Config"

// percentPattern matches the text form of a percentage value.
const percentPattern = `^[-+]?[0-9.]+([eE][-+]?[0-9]+)?%$`

// cueKeywords cannot be used as bare field labels.
var cueKeywords = map[string]bool{
	"package": true, "import": true, "for": true, "in": true, "if": true,
	"let": true, "true": true, "false": true, "null": true, "div": true,
	"mod": true, "quo": true, "rem": true,
}

// Generate renders the schema as a closed CUE definition. Every option is
// an optional field, so partial configurations validate. Shortcut options
// are left out because they are never stored.
func Generate(schema *config.Schema) ([]byte, error) {
	var b strings.Builder
	b.WriteString("// Code generated by slicecfg. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "%s: {\n", DefinitionName)

	for _, def := range schema.Defs() {
		if len(def.Shortcut) > 0 {
			continue
		}
		constraint, err := constraintFor(schema, def)
		if err != nil {
			return nil, err
		}
		if doc := comment(def); doc != "" {
			fmt.Fprintf(&b, "\t// %s\n", doc)
		}
		fmt.Fprintf(&b, "\t%s?: %s\n", label(def.Key), constraint)
	}
	b.WriteString("}\n")

	out, err := format.Source([]byte(b.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to format generated cue: %w", err)
	}
	return out, nil
}

func constraintFor(schema *config.Schema, def *config.OptionDef) (string, error) {
	elem, err := scalarConstraint(schema, def, def.Kind.Base())
	if err != nil {
		return "", err
	}
	if def.Kind.IsArray() {
		return "[..." + elem + "]", nil
	}
	return elem, nil
}

func scalarConstraint(schema *config.Schema, def *config.OptionDef, k config.Kind) (string, error) {
	switch k {
	case config.KindBool:
		return "bool", nil
	case config.KindInt:
		return bounded("int", def), nil
	case config.KindFloat:
		return bounded("number", def), nil
	case config.KindFloatOrPercent:
		return fmt.Sprintf("%s | =~%s", bounded("number", def), strconv.Quote(percentPattern)), nil
	case config.KindString:
		return "string", nil
	case config.KindPoint:
		return "[number, number]", nil
	case config.KindEnum:
		codec, ok := schema.Enum(def.Enum)
		if !ok {
			return "", fmt.Errorf("option %s: enum %q not registered", def.Key, def.Enum)
		}
		tokens := def.EnumValues
		if len(tokens) == 0 {
			tokens = codec.Tokens()
		}
		quoted := make([]string, len(tokens))
		for i, t := range tokens {
			quoted[i] = strconv.Quote(t)
		}
		return strings.Join(quoted, " | "), nil
	default:
		return "", fmt.Errorf("option %s: unsupported kind %s", def.Key, k)
	}
}

func bounded(base string, def *config.OptionDef) string {
	parts := []string{base}
	if def.Min != nil {
		parts = append(parts, ">="+number(*def.Min))
	}
	if def.Max != nil {
		parts = append(parts, "<="+number(*def.Max))
	}
	if len(parts) == 1 {
		return base
	}
	return "(" + strings.Join(parts, " & ") + ")"
}

func number(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func label(key string) string {
	if cueKeywords[key] {
		return strconv.Quote(key)
	}
	return key
}

func comment(def *config.OptionDef) string {
	text := def.DisplayLabel()
	if def.Tooltip != "" {
		if text != "" {
			text += ": "
		}
		text += def.Tooltip
	}
	if def.SideText != "" {
		text += " (" + def.SideText + ")"
	}
	return strings.Join(strings.Fields(text), " ")
}
