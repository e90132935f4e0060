package printconfig

import (
	"fmt"
	"sync"

	"github.com/openfroyo/slicecfg/pkg/config"
)

// NewSchema builds a fresh print schema.
func NewSchema(opts ...config.BuilderOption) (*config.Schema, error) {
	b := config.NewBuilder(opts...)
	for _, codec := range []*config.EnumCodec{
		gcodeFlavorCodec(),
		infillPatternCodec(),
		supportMaterialPatternCodec(),
	} {
		if err := b.RegisterEnum(codec); err != nil {
			return nil, err
		}
	}
	for _, def := range definitions() {
		if err := b.Define(def); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

var schemaOnce = sync.OnceValue(func() *config.Schema {
	s, err := NewSchema()
	if err != nil {
		panic(fmt.Sprintf("printconfig: invalid built-in schema: %v", err))
	}
	return s
})

// Schema returns the process-wide print schema, built on first use.
// A malformed built-in definition is a programming error and panics.
func Schema() *config.Schema {
	return schemaOnce()
}
