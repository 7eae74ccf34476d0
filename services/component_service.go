package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"empresspc/models"
	"empresspc/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ComponentInput struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Category    string  `json:"category" validate:"required,max=100"`
	HSN         string  `json:"hsn" validate:"max=20"`
	Price       float64 `json:"price" validate:"gte=0"`
	GST         float64 `json:"gst" validate:"gte=0,lte=100"`
	Warranty    string  `json:"warranty"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Description string  `json:"description"`
}

type UpdateComponentInput struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Category    *string  `json:"category" validate:"omitempty,min=1,max=100"`
	HSN         *string  `json:"hsn" validate:"omitempty,max=20"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	GST         *float64 `json:"gst" validate:"omitempty,gte=0,lte=100"`
	Warranty    *string  `json:"warranty"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	Description *string  `json:"description"`
	IsActive    *bool    `json:"isActive"`
}

type ComponentService struct {
	Repo repository.ComponentRepository
	Log  *zap.Logger
	now  func() time.Time
}

func NewComponentService(repo repository.ComponentRepository, log *zap.Logger) *ComponentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ComponentService{Repo: repo, Log: log.Named("components"), now: time.Now}
}

func (in ComponentInput) check() error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Category) == "" {
		return invalid("name and category are required")
	}
	if in.Price < 0 || in.Stock < 0 || in.GST < 0 || in.GST > 100 {
		return invalid("price, gst or stock out of range")
	}
	return nil
}

func (in ComponentInput) component() models.Component {
	return models.Component{
		Name:        strings.TrimSpace(in.Name),
		Category:    strings.TrimSpace(in.Category),
		HSN:         strings.TrimSpace(in.HSN),
		Price:       in.Price,
		GST:         in.GST,
		Warranty:    in.Warranty,
		Stock:       in.Stock,
		Description: in.Description,
		IsActive:    true,
	}
}

// Catalog groups active components by category. Categories and the
// components inside them are ordered by name.
func (s *ComponentService) Catalog(ctx context.Context) (map[string][]models.CatalogEntry, error) {
	comps, err := s.Repo.ListComponents(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}
	out := map[string][]models.CatalogEntry{}
	for _, c := range comps {
		out[c.Category] = append(out[c.Category], models.CatalogEntry{
			ID:       c.ID.Hex(),
			Name:     c.Name,
			HSN:      c.HSN,
			Price:    c.Price,
			GST:      c.GST,
			Warranty: c.Warranty,
			Stock:    c.Stock,
		})
	}
	return out, nil
}

func (s *ComponentService) All(ctx context.Context) ([]models.Component, error) {
	comps, err := s.Repo.ListComponents(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}
	return comps, nil
}

func (s *ComponentService) Categories(ctx context.Context) ([]string, error) {
	cats, err := s.Repo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// Get also returns soft-deleted components.
func (s *ComponentService) Get(ctx context.Context, cid primitive.ObjectID) (*models.Component, error) {
	c, err := s.Repo.GetComponent(ctx, cid)
	if err != nil {
		return nil, fmt.Errorf("get component: %w", err)
	}
	return c, nil
}

func (s *ComponentService) Create(ctx context.Context, in ComponentInput) (*models.Component, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	c := in.component()
	now := s.now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	if err := s.Repo.CreateComponent(ctx, &c); err != nil {
		return nil, fmt.Errorf("create component %q: %w", c.Name, err)
	}
	return &c, nil
}

func (s *ComponentService) Update(ctx context.Context, cid primitive.ObjectID, in UpdateComponentInput) (*models.Component, error) {
	c, err := s.Get(ctx, cid)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Category != nil {
		c.Category = strings.TrimSpace(*in.Category)
	}
	if in.HSN != nil {
		c.HSN = strings.TrimSpace(*in.HSN)
	}
	if in.Price != nil {
		c.Price = *in.Price
	}
	if in.GST != nil {
		c.GST = *in.GST
	}
	if in.Warranty != nil {
		c.Warranty = *in.Warranty
	}
	if in.Stock != nil {
		c.Stock = *in.Stock
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	check := ComponentInput{Name: c.Name, Category: c.Category, Price: c.Price, GST: c.GST, Stock: c.Stock}
	if err := check.check(); err != nil {
		return nil, err
	}
	c.UpdatedAt = s.now().UTC()

	if err := s.Repo.UpdateComponent(ctx, c); err != nil {
		return nil, fmt.Errorf("update component %q: %w", c.Name, err)
	}
	return c, nil
}

// Delete hides the component from the catalog. It stays addressable by id.
func (s *ComponentService) Delete(ctx context.Context, cid primitive.ObjectID) error {
	inactive := false
	_, err := s.Update(ctx, cid, UpdateComponentInput{IsActive: &inactive})
	return err
}

// BulkImport upserts every component by name. A failing entry is reported
// and the rest are still imported.
func (s *ComponentService) BulkImport(ctx context.Context, in []ComponentInput) (*models.BulkImportResult, error) {
	if len(in) == 0 {
		return nil, invalid("components list is empty")
	}
	res := &models.BulkImportResult{Errors: []models.BulkImportError{}}
	for _, item := range in {
		err := item.check()
		if err == nil {
			c := item.component()
			err = s.Repo.UpsertComponent(ctx, &c)
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return nil, fmt.Errorf("bulk import: %w", err)
			}
			res.Errors = append(res.Errors, models.BulkImportError{Component: item.Name, Error: err.Error()})
			continue
		}
		res.Success++
	}
	s.Log.Info("components imported", zap.Int("success", res.Success), zap.Int("failed", len(res.Errors)))
	return res, nil
}
