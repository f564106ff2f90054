// Package rbac is a claims-driven authorization engine with hierarchical,
// wildcard-capable permissions and role inheritance.
//
// Roles are declared in a policy document (YAML or JSON, or any Source
// implementation) and resolved once into an immutable registry. After that,
// answering "may this identity do X" costs a few map lookups and a walk of a
// permission tree; no decision ever takes a lock or mutates shared state.
//
// Policy documents declare roles like this:
//
//	- id: viewer
//	  description: Read-only access
//	  permissions:
//	    - posts.read
//	    - comments.read
//	  claims:
//	    groups: readers
//
//	- id: editor
//	  inherit: viewer
//	  permissions:
//	    - posts.*
//	    - comments.moderate
//	  claims:
//	    groups: [editors, staff]
//
//	- id: admin
//	  inherit: [editor]
//	  permissions: "*"
//	  claims:
//	    groups:
//	      admins: true
//	      interns: false
//
// Permission patterns are dot-delimited. A "*" segment in the middle of a
// pattern matches exactly one segment; a trailing ".*" matches the remainder
// of the permission at any depth, while "*." pins the match to exactly one
// more segment. Queried permissions are always concrete: wildcards live in
// policy, never in checks.
//
// Claims link authenticated identities to roles. Each role declares the
// claim key/value pairs that grant it, and the registry inverts those into
// an index so candidate roles fall out of the identity's claims directly:
//
//	authz, err := rbac.New(ctx, file.New("roles.yml"))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	claims := rbac.Claims{"groups": []string{"editors"}}
//
//	// Conjunction: every permission must be held, by any candidate role.
//	err = authz.AuthorizeByPermissions(claims, []string{"posts.edit", "comments.read"})
//
//	// Disjunction: holding any one of the roles suffices.
//	err = authz.AuthorizeByRoles(claims, []string{"admin", "editor"})
//
// A denial is an *AuthorizationError carrying the exact permissions or roles
// that were missing, and errors.Is(err, rbac.ErrUnauthorized) holds for all
// of them. Policy defects (missing ids, inheritance cycles, ambiguous claim
// mappings in strict mode) fail construction with errors joined onto
// ErrInvalidConfiguration; a built registry can no longer fail.
//
// For HTTP services, RequirePermissions and RequireRoles guard routes using
// claims placed on the request context by the host's authentication layer:
//
//	r.Use(authmw) // populates context via rbac.SetClaims
//	r.With(rbac.RequirePermissions(authz, "posts.edit")).Post("/posts/{id}", update)
//
// All exported types are safe for concurrent use once constructed. Policy
// updates are a rebuild: construct a new Authorizer and swap the reference.
package rbac
