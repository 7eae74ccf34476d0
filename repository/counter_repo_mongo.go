package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const counterCollection = "counters"

// MongoCounterRepo keeps one {_id: key, seq} document per sequence.
type MongoCounterRepo struct {
	DB *mongo.Database
}

func NewMongoCounterRepo(db *mongo.Database) *MongoCounterRepo {
	return &MongoCounterRepo{DB: db}
}

// Next sets seq to max(seq, floor)+1 in a single update so concurrent callers
// always get distinct values.
func (r *MongoCounterRepo) Next(ctx context.Context, key string, floor int64) (int64, error) {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "seq", Value: bson.D{{Key: "$add", Value: bson.A{
			bson.D{{Key: "$max", Value: bson.A{
				bson.D{{Key: "$ifNull", Value: bson.A{"$seq", int64(0)}}},
				floor,
			}}},
			int64(1),
		}}}}}}},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc struct {
		Seq int64 `bson:"seq"`
	}
	var err error
	// Two upserts racing on a missing document can lose with a duplicate key.
	for attempt := 0; attempt < 2; attempt++ {
		err = r.DB.Collection(counterCollection).
			FindOneAndUpdate(ctx, bson.M{"_id": key}, update, opts).
			Decode(&doc)
		if err == nil || !mongo.IsDuplicateKeyError(err) {
			break
		}
	}
	if err != nil {
		return 0, mongoErr("next counter "+key, err)
	}
	return doc.Seq, nil
}

func (r *MongoCounterRepo) Release(ctx context.Context, key string, n int64) error {
	_, err := r.DB.Collection(counterCollection).UpdateOne(ctx,
		bson.M{"_id": key, "seq": n},
		bson.M{"$inc": bson.M{"seq": -1}},
	)
	return mongoErr("release counter "+key, err)
}
