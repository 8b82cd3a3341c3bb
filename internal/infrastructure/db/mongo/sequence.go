package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionCounters = "counters"

// sequence hands out monotonically increasing integer IDs, one counter
// document per collection.
type sequence struct {
	col  *mongo.Collection
	name string
}

func newSequence(db *mongo.Database, name string) *sequence {
	return &sequence{col: db.Collection(collectionCounters), name: name}
}

func (s *sequence) next(ctx context.Context) (int64, error) {
	var doc struct {
		Value int64 `bson:"value"`
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": s.name},
		bson.M{"$inc": bson.M{"value": int64(1)}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", s.name, err)
	}
	return doc.Value, nil
}
