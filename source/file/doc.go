// Package file loads role declarations from a policy document on disk.
//
// Both YAML and JSON documents are supported, chosen by file extension. A
// policy document is either a bare list of role declarations or an object
// with a top-level "roles" key:
//
//	roles:
//	  - id: viewer
//	    permissions: posts.read
//	  - id: editor
//	    inherit: viewer
//	    permissions: [posts.*]
//
// The filesystem is pluggable through afero, so tests can serve policies
// from memory:
//
//	source := file.New("roles.yml", file.WithFs(afero.NewMemMapFs()))
//	authz, err := rbac.New(ctx, source)
package file
