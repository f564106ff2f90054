package rbac

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// RoleDecl is one role as declared in a policy document. Declarations are
// plain data: they carry the raw, still-unresolved shape of a role and are
// turned into resolved roles by NewRegistry.
type RoleDecl struct {
	// ID uniquely names the role within a registry.
	ID string `yaml:"id" json:"id"`

	// Description is free-form documentation and plays no part in decisions.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Permissions holds the role's own permission patterns.
	Permissions StringList `yaml:"permissions,omitempty" json:"permissions,omitempty"`

	// Inherit names the roles whose resolved permissions this role absorbs.
	Inherit StringList `yaml:"inherit,omitempty" json:"inherit,omitempty"`

	// Claims maps identity claim keys to the values that grant this role.
	Claims map[string]ClaimValues `yaml:"claims,omitempty" json:"claims,omitempty"`
}

// StringList decodes either a single scalar or a sequence of scalars, so
// policy authors can write `permissions: posts.read` and
// `permissions: [posts.read, posts.write]` interchangeably.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*s = nil
			return nil
		}
		*s = StringList{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make(StringList, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("rbac: string list items must be scalars, got %s", item.Tag)
			}
			out = append(out, item.Value)
		}
		*s = out
		return nil
	default:
		return fmt.Errorf("rbac: expected string or list of strings, got %s", value.Tag)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *StringList) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*s = nil
		return nil
	case []any:
		out := make(StringList, 0, len(v))
		for _, item := range v {
			str, err := cast.ToStringE(item)
			if err != nil {
				return fmt.Errorf("rbac: string list item %v: %w", item, err)
			}
			out = append(out, str)
		}
		*s = out
		return nil
	default:
		str, err := cast.ToStringE(v)
		if err != nil {
			return fmt.Errorf("rbac: string list value %v: %w", v, err)
		}
		*s = StringList{str}
		return nil
	}
}

// ClaimValues is the canonical set of accepted values for one claim key.
// Policy documents may declare them as a single scalar, a list of scalars,
// or a map of value to boolean; all three shapes normalize to a flat value
// list at decode time, and a false flag drops the value. Nothing past the
// decoder ever sees the declared shape.
type ClaimValues []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *ClaimValues) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*c = nil
			return nil
		}
		*c = ClaimValues{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make(ClaimValues, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("rbac: claim values must be scalars, got %s", item.Tag)
			}
			out = append(out, item.Value)
		}
		*c = out
		return nil
	case yaml.MappingNode:
		out := make(ClaimValues, 0, len(value.Content)/2)
		for i := 0; i+1 < len(value.Content); i += 2 {
			key, flag := value.Content[i], value.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				return fmt.Errorf("rbac: claim value keys must be scalars, got %s", key.Tag)
			}
			var enabled bool
			if err := flag.Decode(&enabled); err != nil {
				return fmt.Errorf("rbac: claim value flag for %q: %w", key.Value, err)
			}
			if enabled {
				out = append(out, key.Value)
			}
		}
		*c = out
		return nil
	default:
		return fmt.Errorf("rbac: expected claim value, list, or value map, got %s", value.Tag)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *ClaimValues) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*c = nil
		return nil
	case []any:
		out := make(ClaimValues, 0, len(v))
		for _, item := range v {
			str, err := cast.ToStringE(item)
			if err != nil {
				return fmt.Errorf("rbac: claim value %v: %w", item, err)
			}
			out = append(out, str)
		}
		*c = out
		return nil
	case map[string]any:
		out := make(ClaimValues, 0, len(v))
		for key, flag := range v {
			enabled, err := cast.ToBoolE(flag)
			if err != nil {
				return fmt.Errorf("rbac: claim value flag for %q: %w", key, err)
			}
			if enabled {
				out = append(out, key)
			}
		}
		// JSON objects carry no order, so canonicalize.
		slices.Sort(out)
		*c = out
		return nil
	default:
		str, err := cast.ToStringE(v)
		if err != nil {
			return fmt.Errorf("rbac: claim value %v: %w", v, err)
		}
		*c = ClaimValues{str}
		return nil
	}
}
