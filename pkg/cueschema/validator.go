package cueschema

import (
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/openfroyo/slicecfg/pkg/config"
)

// Issue is one validation failure.
type Issue struct {
	Path    string `json:"path,omitempty"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
	Message string `json:"message"`
}

// String formats the issue as "path: message".
func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// ValidationError collects the issues of a failed validation.
type ValidationError struct {
	Issues []Issue
}

// Error implements error.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		parts[i] = is.String()
	}
	return fmt.Sprintf("config validation failed: %s", strings.Join(parts, "; "))
}

// Validator checks configurations against the CUE rendering of a schema.
type Validator struct {
	ctx    *cue.Context
	schema *config.Schema
	source []byte
	def    cue.Value
}

// NewValidator generates and compiles the CUE definition for schema.
func NewValidator(schema *config.Schema) (*Validator, error) {
	src, err := Generate(schema)
	if err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	val := ctx.CompileBytes(src, cue.Filename("schema.cue"))
	if err := val.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile generated schema: %w", err)
	}
	def := val.LookupPath(cue.ParsePath(DefinitionName))
	if !def.Exists() {
		return nil, fmt.Errorf("generated schema has no %s", DefinitionName)
	}

	return &Validator{
		ctx:    ctx,
		schema: schema,
		source: src,
		def:    def,
	}, nil
}

// Source returns the generated CUE text.
func (v *Validator) Source() []byte { return v.source }

// Validate exports store and checks it against the definition.
func (v *Validator) Validate(store config.Store) error {
	return v.ValidateData(config.Export(store))
}

// ValidateData checks a document of native values keyed by canonical
// option key.
func (v *Validator) ValidateData(data map[string]any) error {
	val := v.ctx.Encode(data)
	if err := val.Err(); err != nil {
		return fmt.Errorf("failed to encode data: %w", err)
	}
	return v.check(v.def.Unify(val))
}

// LoadFile compiles a CUE document of option values, validates it and
// applies every field to store in source order. Aliases are not accepted
// because the definition is closed over canonical keys.
func (v *Validator) LoadFile(path string, store config.Store) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	return v.Load(content, path, store)
}

// Load is LoadFile for in-memory source; filename is used in positions.
func (v *Validator) Load(src []byte, filename string, store config.Store) error {
	val := v.ctx.CompileBytes(src, cue.Filename(filename))
	if err := val.Err(); err != nil {
		return &ValidationError{Issues: issues(err)}
	}
	unified := v.def.Unify(val)
	if err := v.check(unified); err != nil {
		return err
	}

	iter, err := val.Fields()
	if err != nil {
		return fmt.Errorf("failed to iterate fields: %w", err)
	}
	acc := config.NewAccessor(store)
	for iter.Next() {
		key := iter.Selector().Unquoted()
		var native any
		if err := iter.Value().Decode(&native); err != nil {
			return fmt.Errorf("failed to decode %s: %w", key, err)
		}
		if err := acc.SetNative(key, native); err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) check(val cue.Value) error {
	if err := val.Validate(cue.Concrete(true)); err != nil {
		return &ValidationError{Issues: issues(err)}
	}
	return nil
}

// issues flattens a CUE error list.
func issues(err error) []Issue {
	var out []Issue
	for _, e := range cueerrors.Errors(err) {
		is := Issue{
			Path:    strings.Join(e.Path(), "."),
			Message: cueerrors.Details(e, nil),
		}
		if pos := cueerrors.Positions(e); len(pos) > 0 {
			is.File = pos[0].Filename()
			is.Line = pos[0].Line()
			is.Column = pos[0].Column()
		}
		out = append(out, is)
	}
	return out
}
