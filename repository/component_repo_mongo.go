package repository

import (
	"context"
	"sort"
	"time"

	"empresspc/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoComponentRepo struct {
	DB *mongo.Database
}

func NewMongoComponentRepo(db *mongo.Database) *MongoComponentRepo {
	return &MongoComponentRepo{DB: db}
}

func (r *MongoComponentRepo) coll() *mongo.Collection {
	return r.DB.Collection("components")
}

func (r *MongoComponentRepo) CreateComponent(ctx context.Context, c *models.Component) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}
	_, err := r.coll().InsertOne(ctx, c)
	return mongoErr("insert component", err)
}

func (r *MongoComponentRepo) GetComponent(ctx context.Context, id primitive.ObjectID) (*models.Component, error) {
	var c models.Component
	if err := r.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, mongoErr("find component", err)
	}
	return &c, nil
}

func (r *MongoComponentRepo) ListComponents(ctx context.Context, includeInactive bool) ([]models.Component, error) {
	filter := bson.M{}
	if !includeInactive {
		filter["isActive"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}})
	cur, err := r.coll().Find(ctx, filter, opts)
	if err != nil {
		return nil, mongoErr("find components", err)
	}
	out := []models.Component{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, mongoErr("decode components", err)
	}
	return out, nil
}

func (r *MongoComponentRepo) UpdateComponent(ctx context.Context, c *models.Component) error {
	res, err := r.coll().ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	if err != nil {
		return mongoErr("replace component", err)
	}
	if res.MatchedCount == 0 {
		return mongoErr("replace component", mongo.ErrNoDocuments)
	}
	return nil
}

func (r *MongoComponentRepo) UpsertComponent(ctx context.Context, c *models.Component) error {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"category":    c.Category,
			"hsn":         c.HSN,
			"price":       c.Price,
			"gst":         c.GST,
			"warranty":    c.Warranty,
			"stock":       c.Stock,
			"description": c.Description,
			"isActive":    true,
			"updated_at":  now,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := r.coll().FindOneAndUpdate(ctx, bson.M{"name": c.Name}, update, opts).Decode(c)
	return mongoErr("upsert component "+c.Name, err)
}

func (r *MongoComponentRepo) Categories(ctx context.Context) ([]string, error) {
	values, err := r.coll().Distinct(ctx, "category", bson.M{"isActive": true})
	if err != nil {
		return nil, mongoErr("distinct categories", err)
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out, nil
}
