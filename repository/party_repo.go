package repository

import (
	"context"

	"empresspc/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PartyFilter struct {
	Owner  *primitive.ObjectID
	Type   models.PartyType
	Search string
}

type PartyRepository interface {
	CreateParty(ctx context.Context, p *models.Party) error
	GetParty(ctx context.Context, id primitive.ObjectID) (*models.Party, error)
	ListParties(ctx context.Context, f PartyFilter) ([]models.Party, error)
	UpdateParty(ctx context.Context, p *models.Party) error
	DeleteParty(ctx context.Context, id primitive.ObjectID) error
}
