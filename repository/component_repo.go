package repository

import (
	"context"

	"empresspc/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ComponentRepository interface {
	CreateComponent(ctx context.Context, c *models.Component) error
	GetComponent(ctx context.Context, id primitive.ObjectID) (*models.Component, error)
	// ListComponents is sorted by category then name.
	ListComponents(ctx context.Context, includeInactive bool) ([]models.Component, error)
	UpdateComponent(ctx context.Context, c *models.Component) error
	// UpsertComponent matches on name and reactivates the component.
	UpsertComponent(ctx context.Context, c *models.Component) error
	Categories(ctx context.Context) ([]string, error)
}
