package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/danmasta/rbac"
)

const (
	defaultKeyPrefix = "rbac:"

	fieldDescription = "description"
	fieldPermissions = "permissions"
	fieldInherit     = "inherit"
	fieldClaims      = "claims"
)

// Source reads role declarations from Redis. Role ids live in the set
// <prefix>roles and each role's fields in the hash <prefix>role:<id>, so a
// full load is one SMEMBERS plus a pipelined HGETALL per role.
type Source struct {
	client redis.UniversalClient
	prefix string
}

// Option customizes a Source.
type Option func(*Source)

// WithKeyPrefix overrides the default "rbac:" key namespace, typically from
// Config.KeyPrefix. An empty prefix keeps the default.
func WithKeyPrefix(prefix string) Option {
	return func(s *Source) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// New creates a Source backed by the given client. It panics on a nil client
// because a source without a connection is a programming error, not a
// runtime condition.
func New(client redis.UniversalClient, opts ...Option) *Source {
	if client == nil {
		panic("redis source: client is nil")
	}
	s := &Source{
		client: client,
		prefix: defaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Source) rolesKey() string {
	return s.prefix + "roles"
}

func (s *Source) roleKey(id string) string {
	return s.prefix + "role:" + id
}

// Load implements rbac.Source. Ids are sorted before fetching so registry
// builds see declarations in a stable order regardless of set iteration.
func (s *Source) Load(ctx context.Context) ([]rbac.RoleDecl, error) {
	ids, err := s.client.SMembers(ctx, s.rolesKey()).Result()
	if err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	slices.Sort(ids)

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, s.roleKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}

	decls := make([]rbac.RoleDecl, 0, len(ids))
	for i, cmd := range cmds {
		fields, err := cmd.Result()
		if err != nil {
			return nil, errors.Join(ErrLoadFailed, err)
		}
		if len(fields) == 0 {
			// Membership without a hash means a half-finished delete;
			// treat the role as gone.
			continue
		}
		decl, err := declFromFields(ids[i], fields)
		if err != nil {
			return nil, errors.Join(ErrLoadFailed, err)
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

// Save upserts one role declaration and registers its id, atomically via a
// transactional pipeline.
func (s *Source) Save(ctx context.Context, decl rbac.RoleDecl) error {
	id := strings.TrimSpace(decl.ID)
	if id == "" {
		return ErrInvalidRole
	}

	fields := map[string]any{
		fieldDescription: decl.Description,
	}
	for name, value := range map[string]any{
		fieldPermissions: decl.Permissions,
		fieldInherit:     decl.Inherit,
		fieldClaims:      decl.Claims,
	} {
		encoded, err := json.Marshal(value)
		if err != nil {
			return errors.Join(ErrSaveFailed, fmt.Errorf("encode %s for role %q: %w", name, id, err))
		}
		fields[name] = string(encoded)
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.roleKey(id))
	pipe.HSet(ctx, s.roleKey(id), fields)
	pipe.SAdd(ctx, s.rolesKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Join(ErrSaveFailed, err)
	}
	return nil
}

// Delete removes a role declaration and its set membership. Deleting an
// unknown role is a no-op.
func (s *Source) Delete(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.roleKey(id))
	pipe.SRem(ctx, s.rolesKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Join(ErrDeleteFailed, err)
	}
	return nil
}

func declFromFields(id string, fields map[string]string) (rbac.RoleDecl, error) {
	decl := rbac.RoleDecl{
		ID:          id,
		Description: fields[fieldDescription],
	}
	if raw := fields[fieldPermissions]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &decl.Permissions); err != nil {
			return rbac.RoleDecl{}, fmt.Errorf("decode permissions for role %q: %w", id, err)
		}
	}
	if raw := fields[fieldInherit]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &decl.Inherit); err != nil {
			return rbac.RoleDecl{}, fmt.Errorf("decode inherit for role %q: %w", id, err)
		}
	}
	if raw := fields[fieldClaims]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &decl.Claims); err != nil {
			return rbac.RoleDecl{}, fmt.Errorf("decode claims for role %q: %w", id, err)
		}
	}
	return decl, nil
}
