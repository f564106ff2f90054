package rbac

import (
	"context"
	"slices"
)

// Source supplies role declarations to New. Implementations load from
// wherever policy lives (files, databases, object storage); the engine only
// asks once, at construction time.
type Source interface {
	Load(ctx context.Context) ([]RoleDecl, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) ([]RoleDecl, error)

// Load implements Source.
func (f SourceFunc) Load(ctx context.Context) ([]RoleDecl, error) {
	return f(ctx)
}

// MemorySource returns a Source serving a fixed set of declarations,
// suitable for tests and for policies compiled into the binary. Load hands
// out deep copies so callers cannot mutate the source's state between
// builds.
func MemorySource(decls ...RoleDecl) Source {
	held := make([]RoleDecl, len(decls))
	for i, decl := range decls {
		held[i] = copyDecl(decl)
	}
	return SourceFunc(func(ctx context.Context) ([]RoleDecl, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out := make([]RoleDecl, len(held))
		for i, decl := range held {
			out[i] = copyDecl(decl)
		}
		return out, nil
	})
}

func copyDecl(decl RoleDecl) RoleDecl {
	out := RoleDecl{
		ID:          decl.ID,
		Description: decl.Description,
		Permissions: slices.Clone(decl.Permissions),
		Inherit:     slices.Clone(decl.Inherit),
	}
	if decl.Claims != nil {
		out.Claims = make(map[string]ClaimValues, len(decl.Claims))
		for key, values := range decl.Claims {
			out.Claims[key] = slices.Clone(values)
		}
	}
	return out
}

// mergeDecls flattens multiple declaration lists into one, later lists
// appended after earlier ones. Duplicate ids stay duplicated; the registry
// reports them as configuration errors.
func mergeDecls(lists ...[]RoleDecl) []RoleDecl {
	var out []RoleDecl
	for _, list := range lists {
		out = append(out, list...)
	}
	return out
}

// MultiSource returns a Source that concatenates the declarations of the
// given sources in order. A failure in any source fails the whole load.
func MultiSource(sources ...Source) Source {
	return SourceFunc(func(ctx context.Context) ([]RoleDecl, error) {
		lists := make([][]RoleDecl, 0, len(sources))
		for _, source := range sources {
			decls, err := source.Load(ctx)
			if err != nil {
				return nil, err
			}
			lists = append(lists, decls)
		}
		return mergeDecls(lists...), nil
	})
}
