package rbac

// Option adjusts construction-time configuration for NewRegistry and New.
type Option func(*Config)

// WithConfig replaces the whole configuration, usually with one produced by
// LoadConfig. Options after it still apply on top.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		*c = cfg
	}
}

// WithStrict toggles strict claim mapping: when enabled, construction fails
// if two roles claim the same key/value pair.
func WithStrict(strict bool) Option {
	return func(c *Config) {
		c.Strict = strict
	}
}

// WithClaimKeys restricts decisions to the given claim keys instead of
// consulting every key present on an identity.
func WithClaimKeys(keys ...string) Option {
	return func(c *Config) {
		c.ClaimKeys = keys
	}
}

// WithClaimLocation sets the path to the claims object inside identity
// payloads.
func WithClaimLocation(location string) Option {
	return func(c *Config) {
		c.ClaimLocation = location
	}
}
