package repository

import (
	"context"
	"errors"
	"time"

	"empresspc/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoInitialRepo struct {
	DB *mongo.Database
}

func NewMongoInitialRepo(db *mongo.Database) *MongoInitialRepo {
	return &MongoInitialRepo{DB: db}
}

func (r *MongoInitialRepo) SaveInitial(ctx context.Context, initial *models.InitialSetup) error {
	if initial.ID.IsZero() {
		initial.ID = primitive.NewObjectID()
	}
	if initial.CreatedAt.IsZero() {
		initial.CreatedAt = time.Now().UTC()
	}

	_, err := r.DB.Collection("initial_setup").InsertOne(ctx, initial)
	return mongoErr("insert initial setup", err)
}

func (r *MongoInitialRepo) GetInitial(ctx context.Context) (*models.InitialSetup, error) {
	var initial models.InitialSetup
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	err := r.DB.Collection("initial_setup").FindOne(ctx, bson.M{}, opts).Decode(&initial)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, mongoErr("find initial setup", err)
	}
	return &initial, nil
}
