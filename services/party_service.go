package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"empresspc/auth"
	"empresspc/models"
	"empresspc/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PartyInput struct {
	Name    string           `json:"name" validate:"required,max=200"`
	Phone   string           `json:"phone" validate:"required,max=20"`
	Email   string           `json:"email" validate:"omitempty,email"`
	GSTIN   string           `json:"gstin" validate:"omitempty,len=15"`
	Address string           `json:"address"`
	State   string           `json:"state"`
	Type    models.PartyType `json:"type" validate:"required,oneof=customer supplier"`
	Notes   string           `json:"notes"`
}

type UpdatePartyInput struct {
	Name    *string           `json:"name" validate:"omitempty,min=1,max=200"`
	Phone   *string           `json:"phone" validate:"omitempty,min=1,max=20"`
	Email   *string           `json:"email" validate:"omitempty,email"`
	GSTIN   *string           `json:"gstin" validate:"omitempty,len=15"`
	Address *string           `json:"address"`
	State   *string           `json:"state"`
	Type    *models.PartyType `json:"type" validate:"omitempty,oneof=customer supplier"`
	Notes   *string           `json:"notes"`
}

type PartyService struct {
	Repo repository.PartyRepository
	now  func() time.Time
}

func NewPartyService(repo repository.PartyRepository) *PartyService {
	return &PartyService{Repo: repo, now: time.Now}
}

func (s *PartyService) load(ctx context.Context, id auth.Identity, pid primitive.ObjectID) (*models.Party, error) {
	p, err := s.Repo.GetParty(ctx, pid)
	if err != nil {
		return nil, fmt.Errorf("get party: %w", err)
	}
	if !auth.ScopeFor(id).Allows(p.CreatedBy) {
		return nil, fmt.Errorf("party %s: %w", pid.Hex(), ErrForbidden)
	}
	return p, nil
}

func (s *PartyService) List(ctx context.Context, id auth.Identity, typ models.PartyType, search string) ([]models.Party, error) {
	if typ != "" && !typ.Valid() {
		return nil, invalid("unknown party type %q", typ)
	}
	parties, err := s.Repo.ListParties(ctx, repository.PartyFilter{
		Owner:  auth.ScopeFor(id).Owner(),
		Type:   typ,
		Search: strings.TrimSpace(search),
	})
	if err != nil {
		return nil, fmt.Errorf("list parties: %w", err)
	}
	return parties, nil
}

func (s *PartyService) Get(ctx context.Context, id auth.Identity, pid primitive.ObjectID) (*models.Party, error) {
	return s.load(ctx, id, pid)
}

func (s *PartyService) Create(ctx context.Context, id auth.Identity, in PartyInput) (*models.Party, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Phone) == "" {
		return nil, invalid("name and phone are required")
	}
	if !in.Type.Valid() {
		return nil, invalid("unknown party type %q", in.Type)
	}
	state := strings.TrimSpace(in.State)
	if state == "" {
		state = models.DefaultPartyState
	}
	now := s.now().UTC()
	p := &models.Party{
		Name:      strings.TrimSpace(in.Name),
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		GSTIN:     strings.ToUpper(strings.TrimSpace(in.GSTIN)),
		Address:   in.Address,
		State:     state,
		Type:      in.Type,
		Notes:     in.Notes,
		CreatedBy: id.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.CreateParty(ctx, p); err != nil {
		return nil, fmt.Errorf("create party: %w", err)
	}
	return p, nil
}

func (s *PartyService) Update(ctx context.Context, id auth.Identity, pid primitive.ObjectID, in UpdatePartyInput) (*models.Party, error) {
	p, err := s.load(ctx, id, pid)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		p.Phone = strings.TrimSpace(*in.Phone)
	}
	if p.Name == "" || p.Phone == "" {
		return nil, invalid("name and phone are required")
	}
	if in.Email != nil {
		p.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.GSTIN != nil {
		p.GSTIN = strings.ToUpper(strings.TrimSpace(*in.GSTIN))
	}
	if in.Address != nil {
		p.Address = *in.Address
	}
	if in.State != nil {
		p.State = *in.State
	}
	if in.Type != nil {
		if !in.Type.Valid() {
			return nil, invalid("unknown party type %q", *in.Type)
		}
		p.Type = *in.Type
	}
	if in.Notes != nil {
		p.Notes = *in.Notes
	}
	p.UpdatedAt = s.now().UTC()

	if err := s.Repo.UpdateParty(ctx, p); err != nil {
		return nil, fmt.Errorf("update party: %w", err)
	}
	return p, nil
}

func (s *PartyService) Delete(ctx context.Context, id auth.Identity, pid primitive.ObjectID) error {
	if _, err := s.load(ctx, id, pid); err != nil {
		return err
	}
	if err := s.Repo.DeleteParty(ctx, pid); err != nil {
		return fmt.Errorf("delete party: %w", err)
	}
	return nil
}
