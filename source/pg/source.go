package pg

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/danmasta/rbac"
)

const (
	loadQuery = `SELECT id, description, permissions, inherit, claims FROM rbac_roles ORDER BY id`

	saveQuery = `INSERT INTO rbac_roles (id, description, permissions, inherit, claims)
VALUES ($1, $2, COALESCE($3, '{}'::text[]), COALESCE($4, '{}'::text[]), COALESCE($5, '{}'::jsonb))
ON CONFLICT (id) DO UPDATE SET
    description = EXCLUDED.description,
    permissions = EXCLUDED.permissions,
    inherit     = EXCLUDED.inherit,
    claims      = EXCLUDED.claims,
    updated_at  = now()`

	deleteQuery = `DELETE FROM rbac_roles WHERE id = $1`
)

// Source loads role declarations from the rbac_roles table.
type Source struct {
	pool *pgxpool.Pool
}

// New creates a Source over an established connection pool.
func New(pool *pgxpool.Pool) *Source {
	if pool == nil {
		panic("pg: pool cannot be nil")
	}
	return &Source{pool: pool}
}

// Load implements rbac.Source.
func (s *Source) Load(ctx context.Context) ([]rbac.RoleDecl, error) {
	rows, err := s.pool.Query(ctx, loadQuery)
	if err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}
	defer rows.Close()

	var decls []rbac.RoleDecl
	for rows.Next() {
		var (
			decl    rbac.RoleDecl
			perms   []string
			inherit []string
			claims  []byte
		)
		if err := rows.Scan(&decl.ID, &decl.Description, &perms, &inherit, &claims); err != nil {
			return nil, errors.Join(ErrLoadFailed, err)
		}
		decl.Permissions = rbac.StringList(perms)
		decl.Inherit = rbac.StringList(inherit)
		if len(claims) > 0 {
			if err := json.Unmarshal(claims, &decl.Claims); err != nil {
				return nil, errors.Join(ErrLoadFailed, err)
			}
		}
		decls = append(decls, decl)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}
	return decls, nil
}

// Save upserts a role declaration keyed by its id.
func (s *Source) Save(ctx context.Context, decl rbac.RoleDecl) error {
	id := strings.TrimSpace(decl.ID)
	if id == "" {
		return ErrInvalidRole
	}
	var claims []byte
	if len(decl.Claims) > 0 {
		var err error
		claims, err = json.Marshal(decl.Claims)
		if err != nil {
			return errors.Join(ErrSaveFailed, err)
		}
	}
	_, err := s.pool.Exec(ctx, saveQuery, id, decl.Description, []string(decl.Permissions), []string(decl.Inherit), claims)
	if err != nil {
		return errors.Join(ErrSaveFailed, err)
	}
	return nil
}

// Delete removes a role declaration. Deleting an unknown id is a no-op.
func (s *Source) Delete(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, deleteQuery, id); err != nil {
		return errors.Join(ErrDeleteFailed, err)
	}
	return nil
}
