package mongo

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/danmasta/rbac"
)

const defaultCollection = "rbac_roles"

// roleDocument is the BSON shape of one role. Declarations are normalized
// to flat string lists before storage so documents stay queryable without
// the multi-shape decoding the text formats need.
type roleDocument struct {
	ID          string              `bson:"_id"`
	Description string              `bson:"description,omitempty"`
	Permissions []string            `bson:"permissions,omitempty"`
	Inherit     []string            `bson:"inherit,omitempty"`
	Claims      map[string][]string `bson:"claims,omitempty"`
}

// Source reads role declarations from a MongoDB collection.
type Source struct {
	coll *mongo.Collection
}

// SourceOption customizes a Source.
type SourceOption func(*sourceConfig)

type sourceConfig struct {
	collection string
}

// WithCollection overrides the default "rbac_roles" collection name,
// typically from Config.Collection. An empty name keeps the default.
func WithCollection(name string) SourceOption {
	return func(c *sourceConfig) {
		if name != "" {
			c.collection = name
		}
	}
}

// NewSource creates a Source over the given database. It panics on a nil
// database because a source without a connection is a programming error,
// not a runtime condition.
func NewSource(db *mongo.Database, opts ...SourceOption) *Source {
	if db == nil {
		panic("mongo source: database is nil")
	}
	cfg := sourceConfig{collection: defaultCollection}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Source{coll: db.Collection(cfg.collection)}
}

// Load implements rbac.Source. Documents are sorted by _id so registry
// builds see declarations in a stable order.
func (s *Source) Load(ctx context.Context) ([]rbac.RoleDecl, error) {
	cursor, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}

	var docs []roleDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}

	decls := make([]rbac.RoleDecl, 0, len(docs))
	for _, doc := range docs {
		decls = append(decls, declFromDocument(doc))
	}
	return decls, nil
}

// Save upserts one role declaration keyed by its id.
func (s *Source) Save(ctx context.Context, decl rbac.RoleDecl) error {
	id := strings.TrimSpace(decl.ID)
	if id == "" {
		return ErrInvalidRole
	}

	doc := documentFromDecl(id, decl)
	_, err := s.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: id}}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Join(ErrSaveFailed, err)
	}
	return nil
}

// Delete removes a role declaration. Deleting an unknown role is a no-op.
func (s *Source) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}}); err != nil {
		return errors.Join(ErrDeleteFailed, err)
	}
	return nil
}

func declFromDocument(doc roleDocument) rbac.RoleDecl {
	decl := rbac.RoleDecl{
		ID:          doc.ID,
		Description: doc.Description,
		Permissions: rbac.StringList(doc.Permissions),
		Inherit:     rbac.StringList(doc.Inherit),
	}
	if len(doc.Claims) > 0 {
		decl.Claims = make(map[string]rbac.ClaimValues, len(doc.Claims))
		for key, values := range doc.Claims {
			decl.Claims[key] = rbac.ClaimValues(values)
		}
	}
	return decl
}

func documentFromDecl(id string, decl rbac.RoleDecl) roleDocument {
	doc := roleDocument{
		ID:          id,
		Description: decl.Description,
		Permissions: decl.Permissions,
		Inherit:     decl.Inherit,
	}
	if len(decl.Claims) > 0 {
		doc.Claims = make(map[string][]string, len(decl.Claims))
		for key, values := range decl.Claims {
			doc.Claims[key] = values
		}
	}
	return doc
}
