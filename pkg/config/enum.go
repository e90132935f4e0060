package config

// EnumEntry pairs a token with its numeric code.
type EnumEntry struct {
	Token string
	Value int
}

// EnumCodec is a bidirectional token/code mapping for one enumerated type.
// It is immutable after construction and safe for concurrent use.
type EnumCodec struct {
	name    string
	entries []EnumEntry
	byToken map[string]int
	byValue map[int]string
}

// NewEnumCodec builds a codec. When a token is declared twice the first code
// wins; when a code is declared twice it decodes to the first token.
func NewEnumCodec(name string, entries ...EnumEntry) *EnumCodec {
	c := &EnumCodec{
		name:    name,
		byToken: make(map[string]int, len(entries)),
		byValue: make(map[int]string, len(entries)),
	}
	for _, e := range entries {
		if _, ok := c.byToken[e.Token]; !ok {
			c.byToken[e.Token] = e.Value
			c.entries = append(c.entries, e)
		}
		if _, ok := c.byValue[e.Value]; !ok {
			c.byValue[e.Value] = e.Token
		}
	}
	return c
}

// Name returns the enum type tag.
func (c *EnumCodec) Name() string { return c.name }

// Len returns the number of distinct tokens.
func (c *EnumCodec) Len() int { return len(c.entries) }

// Encode maps a token to its code. Matching is exact and case-sensitive.
func (c *EnumCodec) Encode(token string) (int, error) {
	v, ok := c.byToken[token]
	if !ok {
		return 0, newError(ClassUnknownToken, "", "unknown %s token %q", c.name, token)
	}
	return v, nil
}

// Decode maps a code back to its token.
func (c *EnumCodec) Decode(value int) (string, error) {
	t, ok := c.byValue[value]
	if !ok {
		return "", newError(ClassUnknownToken, "", "unknown %s value %d", c.name, value)
	}
	return t, nil
}

// Tokens returns the declared tokens in declaration order.
func (c *EnumCodec) Tokens() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Token
	}
	return out
}
