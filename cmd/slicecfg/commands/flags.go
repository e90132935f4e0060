package commands

import (
	"fmt"

	"github.com/openfroyo/slicecfg/pkg/config"
	"github.com/spf13/pflag"
)

// schemaFlag binds one option to the command-line flag its CLI spec
// describes. Values are kept as text and parsed by the option itself.
type schemaFlag struct {
	key  string
	spec config.CLISpec

	text   *string
	values *[]string
	on     *bool
	off    *bool
}

// schemaFlags is the set of option flags registered on a command.
type schemaFlags struct {
	fs    *pflag.FlagSet
	flags []schemaFlag
}

// registerSchemaFlags adds a flag for every option that declares a CLI
// spec. Switches also get a hidden --no-<name> form. Flags whose names or
// shorthands are already taken by the command are skipped or lose their
// shorthand.
func registerSchemaFlags(fs *pflag.FlagSet, schema *config.Schema) *schemaFlags {
	sf := &schemaFlags{fs: fs}
	for _, def := range schema.Defs() {
		if def.CLI == "" {
			continue
		}
		spec, err := config.ParseCLISpec(def.CLI)
		if err != nil || fs.Lookup(spec.Name) != nil {
			continue
		}
		short := spec.Short
		if short != "" && fs.ShorthandLookup(short) != nil {
			short = ""
		}

		usage := def.DisplayLabel()
		if usage == "" {
			usage = def.Key
		}
		usage = fmt.Sprintf("%s (%s)", usage, def.Key)

		f := schemaFlag{key: def.Key, spec: spec}
		switch {
		case spec.Switch():
			f.on = fs.BoolP(spec.Name, short, false, usage)
			if fs.Lookup("no-"+spec.Name) == nil {
				f.off = fs.Bool("no-"+spec.Name, false, "disable "+spec.Name)
				_ = fs.MarkHidden("no-" + spec.Name)
			}
		case spec.Repeated:
			f.values = fs.StringArrayP(spec.Name, short, nil, usage+", repeat for each element")
		default:
			f.text = fs.StringP(spec.Name, short, "", usage)
		}
		sf.flags = append(sf.flags, f)
	}
	return sf
}

// changed returns the option keys whose flags were given.
func (sf *schemaFlags) changed() []string {
	var keys []string
	for _, f := range sf.flags {
		if sf.set(f) {
			keys = append(keys, f.key)
		}
	}
	return keys
}

func (sf *schemaFlags) set(f schemaFlag) bool {
	if sf.fs.Changed(f.spec.Name) {
		return true
	}
	return f.off != nil && sf.fs.Changed("no-"+f.spec.Name)
}

// apply writes every given flag through acc in option key order.
func (sf *schemaFlags) apply(acc *config.Accessor) error {
	for _, f := range sf.flags {
		if !sf.set(f) {
			continue
		}
		var err error
		switch {
		case f.on != nil:
			value := "0"
			if *f.on && !(f.off != nil && *f.off) {
				value = "1"
			}
			err = acc.SetString(f.key, value)
		case f.values != nil && len(*f.values) == 1:
			// A single occurrence may carry the whole serialized list.
			err = acc.SetString(f.key, (*f.values)[0])
		case f.values != nil:
			items := make([]any, len(*f.values))
			for i, v := range *f.values {
				items[i] = v
			}
			err = acc.SetNative(f.key, items)
		default:
			err = acc.SetString(f.key, *f.text)
		}
		if err != nil {
			return fmt.Errorf("flag --%s: %w", f.spec.Name, err)
		}
	}
	return nil
}
