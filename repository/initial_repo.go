package repository

import (
	"context"

	"empresspc/models"
)

type InitialRepository interface {
	SaveInitial(ctx context.Context, initial *models.InitialSetup) error
	// GetInitial returns the latest profile, or nil when none was saved yet.
	GetInitial(ctx context.Context) (*models.InitialSetup, error)
}
