// Package mongo loads role declarations from a MongoDB collection.
//
// Each document is one role keyed by _id, with permissions, inherit, and
// claims stored in their natural BSON shapes. Save upserts and Delete
// removes, so the collection can double as the storage behind a policy
// admin UI.
//
// # Usage
//
//	import (
//		"context"
//
//		"github.com/danmasta/rbac"
//		"github.com/danmasta/rbac/source/mongo"
//	)
//
//	func main() {
//		cfg := mongo.Config{ConnectionURL: "mongodb://localhost:27017"}
//		db, err := mongo.NewWithDatabase(context.Background(), cfg, "authz")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		source := mongo.NewSource(db, mongo.WithCollection(cfg.Collection))
//		authz, err := rbac.New(context.Background(), source)
//		...
//	}
//
// Connection management mirrors the rest of the source backends:
// environment-driven configuration, retry on connect, and a Healthcheck
// probe for readiness endpoints.
package mongo
