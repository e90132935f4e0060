package configfile

import (
	"errors"
	"fmt"
	"io"

	"github.com/openfroyo/slicecfg/pkg/config"
	"gopkg.in/yaml.v3"
)

// ReadYAML applies a YAML mapping of option keys to store in document
// order. Values may be native (numbers, bools, lists, {x, y} maps) or the
// option's serialized text.
func ReadYAML(r io.Reader, store config.Store, opts ...Option) error {
	o := applyOptions(opts)

	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to parse yaml: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("yaml config must be a mapping, got line %d", root.Line)
	}

	acc := o.accessor(store)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		var value any
		if err := root.Content[i+1].Decode(&value); err != nil {
			return fmt.Errorf("line %d: %w", root.Content[i+1].Line, err)
		}
		if err := acc.SetNative(key, value); err != nil {
			if o.skip(err) {
				continue
			}
			return fmt.Errorf("line %d: %w", root.Content[i].Line, err)
		}
	}
	return nil
}

// WriteYAML writes store as a YAML mapping sorted by key.
func WriteYAML(w io.Writer, store config.Store) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(config.Export(store)); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}
