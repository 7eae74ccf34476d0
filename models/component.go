package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Component struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Category    string             `json:"category" bson:"category"`
	HSN         string             `json:"hsn" bson:"hsn"`
	Price       float64            `json:"price" bson:"price"`
	GST         float64            `json:"gst" bson:"gst"`
	Warranty    string             `json:"warranty" bson:"warranty"`
	Stock       int                `json:"stock" bson:"stock"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	IsActive    bool               `json:"isActive" bson:"isActive"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// CatalogEntry is how a component appears in the grouped catalog listing.
type CatalogEntry struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	HSN      string  `json:"hsn"`
	Price    float64 `json:"price"`
	GST      float64 `json:"gst"`
	Warranty string  `json:"warranty"`
	Stock    int     `json:"stock"`
}

type BulkImportError struct {
	Component string `json:"component"`
	Error     string `json:"error"`
}

type BulkImportResult struct {
	Success int               `json:"success"`
	Errors  []BulkImportError `json:"errors"`
}
