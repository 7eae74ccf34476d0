package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PartyType string

const (
	PartyCustomer PartyType = "customer"
	PartySupplier PartyType = "supplier"
)

func (t PartyType) Valid() bool {
	return t == PartyCustomer || t == PartySupplier
}

const DefaultPartyState = "09-Uttar Pradesh"

type Party struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Phone     string             `json:"phone" bson:"phone"`
	Email     string             `json:"email,omitempty" bson:"email,omitempty"`
	GSTIN     string             `json:"gstin,omitempty" bson:"gstin,omitempty"`
	Address   string             `json:"address,omitempty" bson:"address,omitempty"`
	State     string             `json:"state" bson:"state"`
	Type      PartyType          `json:"type" bson:"type"`
	Notes     string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedBy primitive.ObjectID `json:"createdBy" bson:"createdBy"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// Snapshot copies the fields a quotation keeps about its customer.
func (p *Party) Snapshot() CustomerDetails {
	id := p.ID
	return CustomerDetails{
		ID:      &id,
		Name:    p.Name,
		Phone:   p.Phone,
		Address: p.Address,
		State:   p.State,
	}
}
