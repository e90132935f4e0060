package config

import (
	"fmt"
	"regexp"
	"strings"
)

// CLIArg is the argument type a command-line flag takes.
type CLIArg byte

const (
	// CLISwitch is a boolean flag with no argument ("!" suffix).
	CLISwitch CLIArg = '!'
	CLIString CLIArg = 's'
	CLIInt    CLIArg = 'i'
	CLIFloat  CLIArg = 'f'
)

// CLISpec is a decoded command-line flag specification.
type CLISpec struct {
	// Name is the long flag name.
	Name string
	// Short is the optional one-letter alternative.
	Short string
	// Arg is the argument type.
	Arg CLIArg
	// Repeated reports whether the flag may be given several times, each
	// occurrence supplying one array element.
	Repeated bool
}

var cliNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ParseCLISpec decodes "<flag-name>[|<short>]<suffix>" where the suffix is
// "!" for a switch or "=s", "=i", "=f" optionally followed by "@" for a
// repeatable flag.
func ParseCLISpec(spec string) (CLISpec, error) {
	var out CLISpec
	var names string
	switch {
	case strings.HasSuffix(spec, "!"):
		out.Arg = CLISwitch
		names = strings.TrimSuffix(spec, "!")
	default:
		i := strings.LastIndexByte(spec, '=')
		if i < 0 {
			return out, fmt.Errorf("cli spec %q: missing suffix", spec)
		}
		names = spec[:i]
		suffix := spec[i+1:]
		if strings.HasSuffix(suffix, "@") {
			out.Repeated = true
			suffix = strings.TrimSuffix(suffix, "@")
		}
		if len(suffix) != 1 {
			return out, fmt.Errorf("cli spec %q: bad argument type %q", spec, suffix)
		}
		switch arg := CLIArg(suffix[0]); arg {
		case CLIString, CLIInt, CLIFloat:
			out.Arg = arg
		default:
			return out, fmt.Errorf("cli spec %q: bad argument type %q", spec, suffix)
		}
	}

	name, short, hasShort := strings.Cut(names, "|")
	if !cliNamePattern.MatchString(name) {
		return out, fmt.Errorf("cli spec %q: bad flag name %q", spec, name)
	}
	out.Name = name
	if hasShort {
		if len(short) != 1 {
			return out, fmt.Errorf("cli spec %q: short flag must be one character", spec)
		}
		out.Short = short
	}
	return out, nil
}

// Switch reports whether the flag takes no argument.
func (s CLISpec) Switch() bool { return s.Arg == CLISwitch }

// String re-encodes the spec.
func (s CLISpec) String() string {
	var b strings.Builder
	b.WriteString(s.Name)
	if s.Short != "" {
		b.WriteByte('|')
		b.WriteString(s.Short)
	}
	if s.Arg == CLISwitch {
		b.WriteByte('!')
		return b.String()
	}
	b.WriteByte('=')
	b.WriteByte(byte(s.Arg))
	if s.Repeated {
		b.WriteByte('@')
	}
	return b.String()
}
