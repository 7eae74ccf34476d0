package repository

import (
	"context"
	"time"

	"empresspc/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoPartyRepo struct {
	DB *mongo.Database
}

func NewMongoPartyRepo(db *mongo.Database) *MongoPartyRepo {
	return &MongoPartyRepo{DB: db}
}

func (r *MongoPartyRepo) coll() *mongo.Collection {
	return r.DB.Collection("parties")
}

func (r *MongoPartyRepo) CreateParty(ctx context.Context, p *models.Party) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	_, err := r.coll().InsertOne(ctx, p)
	return mongoErr("insert party", err)
}

func (r *MongoPartyRepo) GetParty(ctx context.Context, id primitive.ObjectID) (*models.Party, error) {
	var p models.Party
	if err := r.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, mongoErr("find party", err)
	}
	return &p, nil
}

func (r *MongoPartyRepo) ListParties(ctx context.Context, f PartyFilter) ([]models.Party, error) {
	filter := bson.M{}
	if f.Owner != nil {
		filter["createdBy"] = *f.Owner
	}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.Search != "" {
		rx := containsRegex(f.Search)
		filter["$or"] = bson.A{
			bson.M{"name": rx},
			bson.M{"phone": rx},
			bson.M{"email": rx},
			bson.M{"gstin": rx},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll().Find(ctx, filter, opts)
	if err != nil {
		return nil, mongoErr("find parties", err)
	}
	out := []models.Party{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, mongoErr("decode parties", err)
	}
	return out, nil
}

func (r *MongoPartyRepo) UpdateParty(ctx context.Context, p *models.Party) error {
	res, err := r.coll().ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return mongoErr("replace party", err)
	}
	if res.MatchedCount == 0 {
		return mongoErr("replace party", mongo.ErrNoDocuments)
	}
	return nil
}

func (r *MongoPartyRepo) DeleteParty(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mongoErr("delete party", err)
	}
	if res.DeletedCount == 0 {
		return mongoErr("delete party", mongo.ErrNoDocuments)
	}
	return nil
}
