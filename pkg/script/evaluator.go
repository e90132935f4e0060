package script

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/openfroyo/slicecfg/pkg/config"
	"github.com/rs/zerolog"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// DefaultTimeout bounds a script run when none is configured.
const DefaultTimeout = 30 * time.Second

// Result describes one script run.
type Result struct {
	// Output holds every public global the script defined.
	Output map[string]any `json:"output,omitempty"`

	// Applied lists the canonical keys written to the store, sorted.
	Applied []string `json:"applied,omitempty"`

	// Ignored lists public globals that name no option.
	Ignored []string `json:"ignored,omitempty"`

	ExecutionTime time.Duration `json:"execution_time"`
	Error         string        `json:"error,omitempty"`
}

// Evaluator runs Starlark profile scripts.
type Evaluator struct {
	timeout   time.Duration
	logger    zerolog.Logger
	observers []config.AccessorOption
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithTimeout bounds each run.
func WithTimeout(d time.Duration) Option {
	return func(e *Evaluator) { e.timeout = d }
}

// WithLogger receives script print output at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Evaluator) {
		e.logger = logger.With().Str("component", "script").Logger()
	}
}

// WithObserver is notified of every option write a script makes.
func WithObserver(o config.Observer) Option {
	return func(e *Evaluator) {
		e.observers = append(e.observers, config.WithObserver(o))
	}
}

// NewEvaluator creates an evaluator.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{
		timeout: DefaultTimeout,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.timeout <= 0 {
		e.timeout = DefaultTimeout
	}
	return e
}

// Evaluate runs src with input bound as predeclared names and returns its
// public globals.
func (e *Evaluator) Evaluate(ctx context.Context, filename, src string, input map[string]any) (*Result, error) {
	startTime := time.Now()

	predeclared := starlark.StringDict{
		"struct": starlark.NewBuiltin("struct", starlarkstruct.Make),
	}
	for key, val := range input {
		starlarkVal, err := toStarlarkValue(val)
		if err != nil {
			return nil, fmt.Errorf("failed to convert input %s: %w", key, err)
		}
		predeclared[key] = starlarkVal
	}

	globals, err := e.run(ctx, filename, src, predeclared)
	if err != nil {
		return failed(startTime, err)
	}
	output, err := publicGlobals(globals)
	if err != nil {
		return failed(startTime, err)
	}
	return &Result{Output: output, ExecutionTime: time.Since(startTime)}, nil
}

// Apply runs src against store. Every public global whose name is an
// option key or alias becomes a write of its value; other globals are
// reported as ignored. Writes are validated together first, so a script
// with a bad assignment changes nothing. Globals are applied in name
// order.
//
// Scripts see the current values through the read-only "config" struct
// and the builtins option(key), abs_value(key) and percent(n).
func (e *Evaluator) Apply(ctx context.Context, filename, src string, store config.Store) (*Result, error) {
	startTime := time.Now()
	acc := config.NewAccessor(store)

	current := starlark.StringDict{}
	for key, val := range config.Export(store) {
		sv, err := toStarlarkValue(val)
		if err != nil {
			return nil, fmt.Errorf("failed to convert option %s: %w", key, err)
		}
		current[key] = sv
	}

	predeclared := starlark.StringDict{
		"struct":    starlark.NewBuiltin("struct", starlarkstruct.Make),
		"config":    starlarkstruct.FromStringDict(starlark.String("config"), current),
		"option":    starlark.NewBuiltin("option", optionBuiltin(acc)),
		"abs_value": starlark.NewBuiltin("abs_value", absValueBuiltin(acc)),
		"percent":   starlark.NewBuiltin("percent", percentBuiltin),
	}

	globals, err := e.run(ctx, filename, src, predeclared)
	if err != nil {
		return failed(startTime, err)
	}
	output, err := publicGlobals(globals)
	if err != nil {
		return failed(startTime, err)
	}

	result := &Result{Output: output}
	staged := config.NewDynamic(store.Schema(), config.WithPolicyOf(store))
	stage := config.NewAccessor(staged, e.observers...)
	for _, name := range sortedKeys(output) {
		if _, err := acc.CanonicalKey(name); err != nil {
			if errors.Is(err, config.ErrNotFound) {
				result.Ignored = append(result.Ignored, name)
				continue
			}
			return failed(startTime, err)
		}
		if err := stage.SetNative(name, output[name]); err != nil {
			return failed(startTime, err)
		}
	}
	if err := config.Apply(store, staged, false); err != nil {
		return failed(startTime, err)
	}

	result.Applied = staged.Keys()
	result.ExecutionTime = time.Since(startTime)
	e.logger.Debug().
		Str("script", filename).
		Strs("applied", result.Applied).
		Strs("ignored", result.Ignored).
		Dur("duration", result.ExecutionTime).
		Msg("Script applied")
	return result, nil
}

// run executes src on its own thread, cancelling it when ctx is done or
// the timeout expires.
func (e *Evaluator) run(ctx context.Context, filename, src string, predeclared starlark.StringDict) (starlark.StringDict, error) {
	evalCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	thread := &starlark.Thread{
		Name: filename,
		Print: func(_ *starlark.Thread, msg string) {
			e.logger.Debug().Str("script", filename).Msg(msg)
		},
	}

	type outcome struct {
		globals starlark.StringDict
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		globals, err := starlark.ExecFile(thread, filename, src, predeclared)
		done <- outcome{globals, err}
	}()

	select {
	case <-evalCtx.Done():
		thread.Cancel(evalCtx.Err().Error())
		<-done
		return nil, fmt.Errorf("starlark execution timeout after %v: %w", e.timeout, evalCtx.Err())
	case out := <-done:
		if out.err != nil {
			return nil, fmt.Errorf("starlark execution failed: %w", out.err)
		}
		return out.globals, nil
	}
}

func failed(startTime time.Time, err error) (*Result, error) {
	return &Result{
		ExecutionTime: time.Since(startTime),
		Error:         err.Error(),
	}, err
}

// publicGlobals converts every global not starting with an underscore,
// skipping functions.
func publicGlobals(globals starlark.StringDict) (map[string]any, error) {
	output := make(map[string]any)
	for name, val := range globals {
		if len(name) > 0 && name[0] == '_' {
			continue
		}
		if _, ok := val.(starlark.Callable); ok {
			continue
		}
		goVal, err := fromStarlarkValue(val)
		if err != nil {
			return nil, fmt.Errorf("failed to convert output %s: %w", name, err)
		}
		output[name] = goVal
	}
	return output, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func optionBuiltin(acc *config.Accessor) func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var key string
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "key", &key); err != nil {
			return nil, err
		}
		v, err := acc.Option(key)
		if err != nil {
			if errors.Is(err, config.ErrNotFound) {
				return starlark.None, nil
			}
			return nil, err
		}
		return toStarlarkValue(v.Native())
	}
}

func absValueBuiltin(acc *config.Accessor) func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var key string
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "key", &key); err != nil {
			return nil, err
		}
		f, err := acc.AbsValue(key)
		if err != nil {
			return nil, err
		}
		return starlark.Float(f), nil
	}
}

func percentBuiltin(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var n starlark.Value
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "n", &n); err != nil {
		return nil, err
	}
	f, ok := starlark.AsFloat(n)
	if !ok {
		return nil, fmt.Errorf("%s: expected number, got %s", b.Name(), n.Type())
	}
	return starlark.String(config.PercentValue(f).String()), nil
}
