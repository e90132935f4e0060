package config

// Store is the common surface of every configuration container: typed
// groups, dynamic maps and composites.
type Store interface {
	// Schema returns the schema the store is reconciled against.
	Schema() *Schema

	// Keys returns the canonical keys currently present, sorted.
	Keys() []string

	// Lookup returns the value for key, resolving aliases. It never creates
	// storage and returns ErrNotFound for keys the store does not hold.
	Lookup(key string) (*OptionValue, error)

	// Ensure is like Lookup but creates the value from the schema default
	// when the store supports it.
	Ensure(key string) (*OptionValue, error)
}

// ContainerOption configures a container.
type ContainerOption func(*containerOptions)

type containerOptions struct {
	policy RangePolicy
	source Store
}

// WithRangePolicy sets the range policy inherited by every value the
// container owns.
func WithRangePolicy(p RangePolicy) ContainerOption {
	return func(o *containerOptions) {
		o.policy = p
	}
}

// WithPolicyOf makes the container create each value with the range policy
// s applies to the same key, see PolicyFor. Use it for scratch containers
// that stage writes before copying them into s.
func WithPolicyOf(s Store) ContainerOption {
	return func(o *containerOptions) {
		o.source = s
	}
}

// PolicyFor returns the range policy s applies to writes of key: the policy
// of the value it holds, else the policy it would create the value with.
// Stores that can neither hold nor create key report RangeReject.
func PolicyFor(s Store, key string) RangePolicy {
	if v, err := s.Lookup(key); err == nil {
		return v.Policy()
	}
	if c, ok := s.(creator); ok {
		if p, ok := c.creates(key); ok {
			return p
		}
	}
	return RangeReject
}

func (o containerOptions) policyFor(key string) RangePolicy {
	if o.source != nil {
		return PolicyFor(o.source, key)
	}
	return o.policy
}

func applyContainerOptions(opts []ContainerOption) containerOptions {
	var o containerOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
