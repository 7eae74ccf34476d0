package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"empresspc/auth"
	"empresspc/models"
	"empresspc/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Token string             `json:"token"`
	User  models.UserSummary `json:"user"`
}

type RegisterInput struct {
	Username string      `json:"username" validate:"required,min=3,max=50"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=6"`
	Name     string      `json:"name" validate:"required"`
	Role     models.Role `json:"role" validate:"omitempty,oneof=admin staff"`
}

type UpdateUserInput struct {
	Email    *string      `json:"email" validate:"omitempty,email"`
	Name     *string      `json:"name" validate:"omitempty,min=1"`
	Role     *models.Role `json:"role" validate:"omitempty,oneof=admin staff"`
	Active   *bool        `json:"active"`
	Password *string      `json:"password" validate:"omitempty,min=6"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

type UserService struct {
	Repo     repository.UserRepository
	Tokens   *auth.TokenManager
	Denylist auth.Denylist
	Log      *zap.Logger
	now      func() time.Time
}

func NewUserService(repo repository.UserRepository, tokens *auth.TokenManager, denylist auth.Denylist, log *zap.Logger) *UserService {
	if denylist == nil {
		denylist = auth.NopDenylist{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{Repo: repo, Tokens: tokens, Denylist: denylist, Log: log.Named("users"), now: time.Now}
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *UserService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	user, err := s.Repo.GetUserByUsername(ctx, strings.TrimSpace(in.Username))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrInactiveAccount
	}

	token, _, err := s.Tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	s.Log.Info("user logged in", zap.String("user_id", user.ID.Hex()), zap.String("role", string(user.Role)))
	return &LoginResult{Token: token, User: user.Summary()}, nil
}

// Authenticate resolves a bearer token to the identity of an active user.
func (s *UserService) Authenticate(ctx context.Context, raw string) (auth.Identity, *auth.Claims, error) {
	claims, err := s.Tokens.Parse(raw)
	if err != nil {
		return auth.Identity{}, nil, err
	}
	revoked, err := s.Denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return auth.Identity{}, nil, err
	}
	if revoked {
		return auth.Identity{}, nil, fmt.Errorf("%w: revoked", auth.ErrInvalidToken)
	}
	id, err := claims.Identity()
	if err != nil {
		return auth.Identity{}, nil, err
	}
	user, err := s.Repo.GetUserByID(ctx, id.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return auth.Identity{}, nil, fmt.Errorf("%w: user no longer exists", auth.ErrInvalidToken)
	}
	if err != nil {
		return auth.Identity{}, nil, fmt.Errorf("get user: %w", err)
	}
	if !user.Active {
		return auth.Identity{}, nil, ErrInactiveAccount
	}
	// The stored role wins over the one in the token so demotions apply at once.
	return auth.Identity{ID: user.ID, Role: user.Role}, claims, nil
}

func (s *UserService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	return s.Denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (s *UserService) Me(ctx context.Context, id auth.Identity) (*models.AppUser, error) {
	user, err := s.Repo.GetUserByID(ctx, id.ID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.AppUser, error) {
	username := strings.TrimSpace(in.Username)
	if len(username) < 3 {
		return nil, invalid("username must be at least 3 characters")
	}
	if len(in.Password) < 6 {
		return nil, invalid("password must be at least 6 characters")
	}
	role := in.Role
	if role == "" {
		role = models.RoleStaff
	}
	if !role.Valid() {
		return nil, invalid("unknown role %q", role)
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	user := &models.AppUser{
		Username:  username,
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Password:  hash,
		Name:      strings.TrimSpace(in.Name),
		Role:      role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user %q: %w", username, err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.AppUser, error) {
	users, err := s.Repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Update(ctx context.Context, uid primitive.ObjectID, in UpdateUserInput) (*models.AppUser, error) {
	user, err := s.Repo.GetUserByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if in.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, invalid("unknown role %q", *in.Role)
		}
		user.Role = *in.Role
	}
	if in.Active != nil {
		user.Active = *in.Active
	}
	if in.Password != nil {
		if len(*in.Password) < 6 {
			return nil, invalid("password must be at least 6 characters")
		}
		if user.Password, err = HashPassword(*in.Password); err != nil {
			return nil, err
		}
	}
	user.UpdatedAt = s.now().UTC()
	if err := s.Repo.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, id auth.Identity, in ChangePasswordInput) error {
	user, err := s.Repo.GetUserByID(ctx, id.ID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}
	if len(in.NewPassword) < 6 {
		return invalid("password must be at least 6 characters")
	}
	if user.Password, err = HashPassword(in.NewPassword); err != nil {
		return err
	}
	user.UpdatedAt = s.now().UTC()
	if err := s.Repo.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}
