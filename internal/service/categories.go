package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/penwellapp/penwell-server/internal/domain"
	domainerrors "github.com/penwellapp/penwell-server/internal/errors"
	"github.com/penwellapp/penwell-server/internal/policy"
	"github.com/penwellapp/penwell-server/internal/store"
	"github.com/penwellapp/penwell-server/internal/validation"
)

// CategoryService orchestrates category operations. Categories have no owner;
// every change needs an admin.
type CategoryService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(store store.Store, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		store:     store,
		validator: validation.New(),
		logger:    logger,
	}
}

// CreateCategoryRequest contains the fields of a new category.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=100"`
	Description string `json:"description,omitempty" validate:"max=500"`
}

// UpdateCategoryRequest is a partial update.
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,notblank,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// List returns all categories ordered by name, with post counts.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Get returns a single category.
func (s *CategoryService) Get(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return nil, translate(err, "category")
	}
	return category, nil
}

// Create adds a category. Names are unique.
func (s *CategoryService) Create(ctx context.Context, actor policy.Actor, req CreateCategoryRequest) (*domain.Category, error) {
	if !policy.CanPerform(actor, policy.ActionCreate, policy.Category{}) {
		return nil, domainerrors.Forbidden("only admins can create categories")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	category := &domain.Category{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, categoryWriteErr(err, category.Name)
	}

	s.logger.Info("category created", "category_id", category.ID, "name", category.Name)
	return category, nil
}

// Update renames or redescribes a category.
func (s *CategoryService) Update(ctx context.Context, actor policy.Actor, id int64, req UpdateCategoryRequest) (*domain.Category, error) {
	category, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return nil, translate(err, "category")
	}
	if !policy.CanPerform(actor, policy.ActionUpdate, policy.Category{}) {
		return nil, forbidden("update", "category")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		category.Description = strings.TrimSpace(*req.Description)
	}
	if err := s.store.UpdateCategory(ctx, category); err != nil {
		return nil, categoryWriteErr(err, category.Name)
	}

	s.logger.Info("category updated", "category_id", category.ID)
	return category, nil
}

// Delete removes a category. Posts keep existing; only the association goes.
func (s *CategoryService) Delete(ctx context.Context, actor policy.Actor, id int64) error {
	if _, err := s.store.GetCategory(ctx, id); err != nil {
		return translate(err, "category")
	}
	if !policy.CanPerform(actor, policy.ActionDelete, policy.Category{}) {
		return forbidden("delete", "category")
	}
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return translate(err, "category")
	}

	s.logger.Info("category deleted", "category_id", id)
	return nil
}

func categoryWriteErr(err error, name string) error {
	if errors.Is(err, store.ErrAlreadyExists) {
		return domainerrors.Conflictf("category %q already exists", name)
	}
	return translate(err, "category")
}
