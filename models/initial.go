package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MobileEntry struct {
	Number string `json:"number" bson:"number"`
	Label  string `json:"label" bson:"label"`
}

// InitialSetup is the seller's company profile. New quotations snapshot it
// into BusinessDetails when the caller does not send one.
type InitialSetup struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CompanyName string             `json:"company_name" bson:"company_name"`
	Address     string             `json:"address" bson:"address"`
	Phone       string             `json:"phone" bson:"phone"`
	Email       string             `json:"email" bson:"email"`
	State       string             `json:"state" bson:"state"`
	GSTIN       string             `json:"gstin" bson:"gstin"`
	Footnote    string             `json:"footnote" bson:"footnote"`
	Mobile      []MobileEntry      `json:"mobile" bson:"mobile"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

func (i *InitialSetup) BusinessDetails() BusinessDetails {
	return BusinessDetails{
		CompanyName: i.CompanyName,
		Address:     i.Address,
		Phone:       i.Phone,
		Email:       i.Email,
		GSTIN:       i.GSTIN,
		State:       i.State,
	}
}
