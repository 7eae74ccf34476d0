package repository

import (
	"context"
	"strings"
	"time"

	"empresspc/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoUserRepo struct {
	DB *mongo.Database
}

func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{DB: db}
}

func (r *MongoUserRepo) coll() *mongo.Collection {
	return r.DB.Collection("users")
}

func (r *MongoUserRepo) CreateUser(ctx context.Context, user *models.AppUser) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = user.CreatedAt
	}
	_, err := r.coll().InsertOne(ctx, user)
	return mongoErr("insert user", err)
}

func (r *MongoUserRepo) findOne(ctx context.Context, filter bson.M) (*models.AppUser, error) {
	user := &models.AppUser{}
	if err := r.coll().FindOne(ctx, filter).Decode(user); err != nil {
		return nil, mongoErr("find user", err)
	}
	return user, nil
}

func (r *MongoUserRepo) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.AppUser, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepo) GetUserByUsername(ctx context.Context, username string) (*models.AppUser, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.AppUser, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *MongoUserRepo) ListUsers(ctx context.Context) ([]models.AppUser, error) {
	cur, err := r.coll().Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "username", Value: 1}}))
	if err != nil {
		return nil, mongoErr("find users", err)
	}
	out := []models.AppUser{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, mongoErr("decode users", err)
	}
	return out, nil
}

func (r *MongoUserRepo) UpdateUser(ctx context.Context, user *models.AppUser) error {
	res, err := r.coll().ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return mongoErr("replace user", err)
	}
	if res.MatchedCount == 0 {
		return mongoErr("replace user", mongo.ErrNoDocuments)
	}
	return nil
}
