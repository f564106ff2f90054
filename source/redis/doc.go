// Package redis loads role declarations from Redis using go-redis.
//
// Each role is a hash at <prefix>role:<id> holding the declaration fields,
// with permissions, inherit, and claims JSON-encoded; the set <prefix>roles
// tracks which roles exist. Save and Delete maintain both structures, so an
// admin surface can manage policy without knowing the layout:
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	source := redis.New(client, redis.WithKeyPrefix(cfg.KeyPrefix))
//
//	_ = source.Save(ctx, rbac.RoleDecl{ID: "viewer", Permissions: rbac.StringList{"posts.read"}})
//	authz, err := rbac.New(ctx, source)
//
// Load reads roles in sorted id order so registry builds stay deterministic
// across restarts.
package redis
