package rbac

import (
	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
)

// Claims holds an authenticated identity's claims as produced by the host's
// authentication layer. The engine only ever reads claims; it never mutates
// them, so a single Claims value is safe to share across decisions.
type Claims map[string]any

// IsEmpty reports whether the identity carries no claims at all.
func (c Claims) IsEmpty() bool {
	return len(c) == 0
}

// Values returns the claim's values coerced to strings. A scalar claim
// yields one value, a list claim yields one per element, and a missing key
// yields nothing. Values that cannot be represented as strings are skipped
// rather than failing the decision.
func (c Claims) Values(key string) []string {
	raw, ok := c[key]
	if !ok || raw == nil {
		return nil
	}
	switch v := raw.(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			str, err := cast.ToStringE(item)
			if err != nil {
				continue
			}
			out = append(out, str)
		}
		return out
	default:
		str, err := cast.ToStringE(v)
		if err != nil {
			return nil
		}
		return []string{str}
	}
}

// Keys returns the claim keys present on the identity, unordered.
func (c Claims) Keys() []string {
	keys := make([]string, 0, len(c))
	for key := range c {
		keys = append(keys, key)
	}
	return keys
}

// ClaimsFromJSON extracts claims from a JSON payload. When location is
// non-empty it is a gjson path to the object holding the claims (commonly
// "user" in gateway-issued identity payloads); an empty location reads the
// whole document. A missing location yields empty claims so the decision
// layer can report the absence itself.
func ClaimsFromJSON(data []byte, location string) (Claims, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidClaims
	}
	result := gjson.ParseBytes(data)
	if location != "" {
		result = result.Get(location)
	}
	if !result.Exists() {
		return Claims{}, nil
	}
	if !result.IsObject() {
		return nil, ErrInvalidClaims
	}
	claims := make(Claims)
	for key, value := range result.Map() {
		claims[key] = value.Value()
	}
	return claims, nil
}
