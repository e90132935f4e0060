package config

import (
	"errors"
	"slices"
)

// Observer is notified after every write made through an Accessor. err is
// nil on success.
type Observer interface {
	ObserveWrite(key string, err error)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(key string, err error)

// ObserveWrite implements Observer.
func (f ObserverFunc) ObserveWrite(key string, err error) { f(key, err) }

// AccessorOption configures an Accessor.
type AccessorOption func(*Accessor)

// WithObserver registers an observer for writes.
func WithObserver(o Observer) AccessorOption {
	return func(a *Accessor) {
		a.observers = append(a.observers, o)
	}
}

// Accessor is the uniform read/write surface over any Store. It resolves
// aliases, fans shortcut writes out to their targets and follows ratio-over
// relations for absolute values.
type Accessor struct {
	store     Store
	resolver  *Resolver
	observers []Observer
}

// NewAccessor wraps store.
func NewAccessor(store Store, opts ...AccessorOption) *Accessor {
	a := &Accessor{
		store:    store,
		resolver: store.Schema().Resolver(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Store returns the wrapped store.
func (a *Accessor) Store() Store { return a.store }

// CanonicalKey resolves an alias to its canonical key.
func (a *Accessor) CanonicalKey(key string) (string, error) {
	return a.resolver.Canonicalize(key)
}

// Option returns the stored value for key without creating it.
func (a *Accessor) Option(key string) (*OptionValue, error) {
	return a.store.Lookup(key)
}

// Set stores s under key.
func (a *Accessor) Set(key string, s Scalar) error {
	return a.write(key, func(v *OptionValue) error { return v.Set(s) })
}

// SetString parses text in the option's text form and stores it.
func (a *Accessor) SetString(key, text string) error {
	return a.write(key, func(v *OptionValue) error { return v.Deserialize(text) })
}

// SetNative stores a Go value such as those produced by YAML or JSON
// decoding, see OptionValue.SetNative.
func (a *Accessor) SetNative(key string, x any) error {
	return a.write(key, func(v *OptionValue) error { return v.SetNative(x) })
}

// ResolvePercentage returns the absolute value of key given base.
func (a *Accessor) ResolvePercentage(key string, base float64) (float64, error) {
	v, err := a.store.Lookup(key)
	if err != nil {
		return 0, err
	}
	return v.Resolve(base)
}

// AbsValue returns the absolute value of key, resolving percentages against
// the current value of the ratio-over target, recursively.
func (a *Accessor) AbsValue(key string) (float64, error) {
	v, err := a.store.Lookup(key)
	if err != nil {
		return 0, err
	}
	if !v.Percent() {
		return v.Resolve(0)
	}
	base, ok := a.resolver.RatioBase(v.Key())
	if !ok {
		return 0, newError(ClassDanglingReference, v.Key(), "percentage without ratio_over").WithOp("abs")
	}
	bv, err := a.AbsValue(base)
	if err != nil {
		return 0, err
	}
	return v.Resolve(bv)
}

// write validates fn against every target on a copy and then commits all
// copies, so a rejected shortcut write changes nothing, including not
// creating missing values.
func (a *Accessor) write(key string, fn func(*OptionValue) error) (err error) {
	canon, err := a.resolver.Canonicalize(key)
	defer func() {
		a.notify(canon, key, err)
	}()
	if err != nil {
		return err
	}

	targets := a.resolver.ExpandShortcut(canon)
	if len(targets) == 0 {
		targets = []string{canon}
	}

	live := make([]*OptionValue, len(targets))
	staged := make([]*OptionValue, len(targets))
	for i, t := range targets {
		v, err := a.store.Lookup(t)
		switch {
		case err == nil:
			live[i], staged[i] = v, v.Clone()
		case errors.Is(err, ErrNotFound):
			c, ok := a.store.(creator)
			if !ok {
				return err
			}
			policy, ok := c.creates(t)
			if !ok {
				return err
			}
			nv := a.store.Schema().newValue(a.store.Schema().defs[t], policy)
			staged[i] = &nv
		default:
			return err
		}
		if err := fn(staged[i]); err != nil {
			return err
		}
	}
	for i, t := range targets {
		if live[i] == nil {
			v, err := a.store.Ensure(t)
			if err != nil {
				return err
			}
			live[i] = v
		}
		live[i].assign(staged[i])
	}
	return nil
}

// creator is implemented by stores whose Ensure can add keys. creates
// reports whether key would be created and with which range policy.
type creator interface {
	creates(key string) (RangePolicy, bool)
}

func (a *Accessor) notify(canon, key string, err error) {
	if canon == "" {
		canon = key
	}
	for _, o := range a.observers {
		o.ObserveWrite(canon, err)
	}
}

// assign copies the stored elements of src, keeping v's own range policy.
func (v *OptionValue) assign(src *OptionValue) {
	p := v.policy
	v.copyFrom(src)
	v.policy = p
}

// Apply copies every value of src into dst. Keys dst cannot hold are
// skipped when ignoreMissing is set and fail the call otherwise.
func Apply(dst, src Store, ignoreMissing bool) error {
	for _, k := range src.Keys() {
		sv, err := src.Lookup(k)
		if err != nil {
			return err
		}
		dv, err := dst.Ensure(k)
		if err != nil {
			if ignoreMissing && errors.Is(err, ErrNotFound) {
				continue
			}
			return err
		}
		dv.assign(sv)
	}
	return nil
}

// Diff returns the sorted keys whose values differ between a and b,
// including keys held by only one of them.
func Diff(a, b Store) []string {
	keys := append(a.Keys(), b.Keys()...)
	slices.Sort(keys)
	keys = slices.Compact(keys)

	var out []string
	for _, k := range keys {
		av, aerr := a.Lookup(k)
		bv, berr := b.Lookup(k)
		switch {
		case aerr != nil && berr != nil:
		case aerr != nil || berr != nil:
			out = append(out, k)
		case !av.Equal(bv):
			out = append(out, k)
		}
	}
	return out
}

// Export renders every value of store as plain Go data keyed by canonical
// key, see OptionValue.Native.
func Export(store Store) map[string]any {
	out := make(map[string]any)
	for _, k := range store.Keys() {
		v, err := store.Lookup(k)
		if err != nil {
			continue
		}
		out[k] = v.Native()
	}
	return out
}
