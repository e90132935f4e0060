package configfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/openfroyo/slicecfg/pkg/config"
)

// Format identifies a configuration file encoding.
type Format int

const (
	// FormatINI is the flat "key = value" layout, one option per line.
	FormatINI Format = iota
	// FormatYAML is a YAML mapping of option keys to native values.
	FormatYAML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatINI:
		return "ini"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat parses a format name as produced by String.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "ini", "":
		return FormatINI, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("unknown config format %q", name)
	}
}

// FormatFor picks the format from a file extension. Anything that is not
// .yaml or .yml is treated as INI.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatINI
	}
}

// Option configures a load.
type Option func(*options)

type options struct {
	ignoreUnknown bool
	accessorOpts  []config.AccessorOption
}

// IgnoreUnknown skips keys the schema does not define instead of failing.
func IgnoreUnknown() Option {
	return func(o *options) { o.ignoreUnknown = true }
}

// WithObserver forwards every write made during a load to obs.
func WithObserver(obs config.Observer) Option {
	return func(o *options) {
		o.accessorOpts = append(o.accessorOpts, config.WithObserver(obs))
	}
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) accessor(store config.Store) *config.Accessor {
	return config.NewAccessor(store, o.accessorOpts...)
}

// skip reports whether err is an unknown key the caller asked to ignore.
func (o options) skip(err error) bool {
	return o.ignoreUnknown && errors.Is(err, config.ErrNotFound)
}

// Read decodes data in format f into store.
func Read(r io.Reader, f Format, store config.Store, opts ...Option) error {
	switch f {
	case FormatINI:
		return ReadINI(r, store, opts...)
	case FormatYAML:
		return ReadYAML(r, store, opts...)
	default:
		return fmt.Errorf("unsupported format %s", f)
	}
}

// Write encodes store to w in format f.
func Write(w io.Writer, f Format, store config.Store) error {
	switch f {
	case FormatINI:
		return WriteINI(w, store)
	case FormatYAML:
		return WriteYAML(w, store)
	default:
		return fmt.Errorf("unsupported format %s", f)
	}
}

// LoadFile reads path into store, choosing the format from its extension.
func LoadFile(path string, store config.Store, opts ...Option) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	if err := Read(file, FormatFor(path), store, opts...); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// SaveFile writes store to path, choosing the format from its extension.
// The file is written to a temporary sibling and renamed into place.
func SaveFile(path string, store config.Store) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, FormatFor(path), store); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
