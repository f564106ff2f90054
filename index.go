package rbac

import (
	"maps"
	"slices"
)

// claimsIndex is the reverse index from claim key and value to the roles
// that pair grants. It is built once per registry and read-only afterwards,
// which makes candidate lookup a pair of map hits per claim value.
type claimsIndex map[string]map[string][]*Role

// buildClaimsIndex walks roles in sorted id order so both the index slices
// and any strict-mode failure are deterministic across builds.
func buildClaimsIndex(roles map[string]*Role, ids []string, strict bool) (claimsIndex, error) {
	idx := make(claimsIndex)
	for _, id := range ids {
		role := roles[id]
		for _, key := range slices.Sorted(maps.Keys(role.claims)) {
			byValue := idx[key]
			if byValue == nil {
				byValue = make(map[string][]*Role)
				idx[key] = byValue
			}
			for _, value := range slices.Sorted(maps.Keys(role.claims[key])) {
				if strict && len(byValue[value]) > 0 {
					return nil, configurationError(ErrAmbiguousClaim,
						"claim %s=%s maps to both %q and %q", key, value, byValue[value][0].id, role.id)
				}
				byValue[value] = append(byValue[value], role)
			}
		}
	}
	return idx, nil
}

// roles returns the roles granted by one claim key/value pair. The returned
// slice is shared index state and must not be mutated.
func (idx claimsIndex) roles(key, value string) []*Role {
	byValue, ok := idx[key]
	if !ok {
		return nil
	}
	return byValue[value]
}
