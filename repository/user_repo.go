package repository

import (
	"context"

	"empresspc/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository defines the interface for user operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.AppUser) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.AppUser, error)
	GetUserByUsername(ctx context.Context, username string) (*models.AppUser, error)
	GetUserByEmail(ctx context.Context, email string) (*models.AppUser, error)
	ListUsers(ctx context.Context) ([]models.AppUser, error)
	UpdateUser(ctx context.Context, user *models.AppUser) error
}
