package repository

import (
	"context"
	"regexp"
	"time"

	"empresspc/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const quotationCollection = "quotations"

type MongoQuotationRepo struct {
	DB *mongo.Database
}

func NewMongoQuotationRepo(db *mongo.Database) *MongoQuotationRepo {
	return &MongoQuotationRepo{DB: db}
}

func (r *MongoQuotationRepo) coll() *mongo.Collection {
	return r.DB.Collection(quotationCollection)
}

func (r *MongoQuotationRepo) CreateQuotation(ctx context.Context, q *models.Quotation) error {
	now := time.Now().UTC()
	if q.ID.IsZero() {
		q.ID = primitive.NewObjectID()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = now
	}
	if q.UpdatedAt.IsZero() {
		q.UpdatedAt = q.CreatedAt
	}
	_, err := r.coll().InsertOne(ctx, q)
	return mongoErr("insert quotation", err)
}

func (r *MongoQuotationRepo) GetQuotation(ctx context.Context, id primitive.ObjectID) (*models.Quotation, error) {
	var q models.Quotation
	if err := r.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&q); err != nil {
		return nil, mongoErr("find quotation", err)
	}
	return &q, nil
}

func quotationFilterBSON(f QuotationFilter) bson.M {
	filter := bson.M{}
	if f.Owner != nil {
		filter["createdBy"] = *f.Owner
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.CustomerID != nil {
		filter["customerDetails.id"] = *f.CustomerID
	}
	if f.Customer != "" {
		filter["customerDetails.name"] = containsRegex(f.Customer)
	}
	if f.Search != "" {
		rx := containsRegex(f.Search)
		filter["$or"] = bson.A{
			bson.M{"quotationNumber": rx},
			bson.M{"customerDetails.name": rx},
			bson.M{"customerDetails.phone": rx},
			bson.M{"items.component": rx},
		}
	}
	if f.From != nil || f.To != nil {
		date := bson.M{}
		if f.From != nil {
			date["$gte"] = *f.From
		}
		if f.To != nil {
			date["$lte"] = *f.To
		}
		filter["date"] = date
	}
	return filter
}

func containsRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func (r *MongoQuotationRepo) ListQuotations(ctx context.Context, f QuotationFilter) ([]models.Quotation, int64, error) {
	filter := quotationFilterBSON(f)

	total, err := r.coll().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, mongoErr("count quotations", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	if f.Skip > 0 {
		opts.SetSkip(f.Skip)
	}
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}
	cur, err := r.coll().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, mongoErr("find quotations", err)
	}
	out := []models.Quotation{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, mongoErr("decode quotations", err)
	}
	return out, total, nil
}

func (r *MongoQuotationRepo) UpdateQuotation(ctx context.Context, q *models.Quotation) error {
	res, err := r.coll().ReplaceOne(ctx, bson.M{"_id": q.ID}, q)
	if err != nil {
		return mongoErr("replace quotation", err)
	}
	if res.MatchedCount == 0 {
		return mongoErr("replace quotation", mongo.ErrNoDocuments)
	}
	return nil
}

func (r *MongoQuotationRepo) DeleteQuotation(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mongoErr("delete quotation", err)
	}
	if res.DeletedCount == 0 {
		return mongoErr("delete quotation", mongo.ErrNoDocuments)
	}
	return nil
}

func (r *MongoQuotationRepo) ListRevisions(ctx context.Context, rootID primitive.ObjectID) ([]models.Quotation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "revisionNumber", Value: 1}})
	cur, err := r.coll().Find(ctx, bson.M{"originalQuotationId": rootID}, opts)
	if err != nil {
		return nil, mongoErr("find revisions", err)
	}
	out := []models.Quotation{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, mongoErr("decode revisions", err)
	}
	return out, nil
}

func (r *MongoQuotationRepo) CountRevisions(ctx context.Context, rootID primitive.ObjectID) (int64, error) {
	n, err := r.coll().CountDocuments(ctx, bson.M{"originalQuotationId": rootID})
	return n, mongoErr("count revisions", err)
}

func (r *MongoQuotationRepo) UpdatePDF(ctx context.Context, id primitive.ObjectID, url string, t time.Time) error {
	res, err := r.coll().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"pdfUrl": url, "pdfCreatedAt": t, "updated_at": t}},
	)
	if err != nil {
		return mongoErr("update quotation pdf", err)
	}
	if res.MatchedCount == 0 {
		return mongoErr("update quotation pdf", mongo.ErrNoDocuments)
	}
	return nil
}
