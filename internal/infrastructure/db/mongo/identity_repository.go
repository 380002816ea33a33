package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/identity-service/internal/core/domain"
)

// DefaultCollection holds the identity records when no name is configured.
const DefaultCollection = "users"

// IdentityRepository reads identity records from a MongoDB collection.
// It never writes; enrollment happens elsewhere.
type IdentityRepository struct {
	coll *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database, collection string) *IdentityRepository {
	if collection == "" {
		collection = DefaultCollection
	}
	return &IdentityRepository{coll: db.Collection(collection)}
}

// mongoIdentity mirrors the stored document. Only the fields the snapshot
// needs are projected.
type mongoIdentity struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
}

// ListIdentities returns every document of the collection. Documents are
// mapped as-is; validation belongs to the snapshot.
func (r *IdentityRepository) ListIdentities(ctx context.Context) ([]domain.Identity, error) {
	opts := options.Find().SetProjection(bson.D{
		{Key: "username", Value: 1},
		{Key: "password_hash", Value: 1},
		{Key: "role", Value: 1},
	})

	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find identities: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoIdentity
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode identities: %w", err)
	}

	out := make([]domain.Identity, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.Identity{
			Username:     d.Username,
			PasswordHash: d.PasswordHash,
			Role:         d.Role,
		})
	}
	return out, nil
}

// Ping reports whether the backing database answers.
func (r *IdentityRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}
