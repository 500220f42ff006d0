package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/penwellapp/penwell-server/internal/api/dto"
	"github.com/penwellapp/penwell-server/internal/domain"
	"github.com/penwellapp/penwell-server/internal/service"
)

func (s *Server) registerCategoryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories",
		Summary:     "List categories",
		Description: "Returns all categories ordered by name, with post counts",
		Tags:        []string{"Categories"},
	}, s.handleListCategories)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCategory",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories/{id}",
		Summary:     "Get category",
		Tags:        []string{"Categories"},
	}, s.handleGetCategory)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createCategory",
		Method:        http.MethodPost,
		Path:          "/api/v1/categories",
		Summary:       "Create category",
		Description:   "Creates a category (admin only)",
		Tags:          []string{"Categories"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCategory",
		Method:      http.MethodPut,
		Path:        "/api/v1/categories/{id}",
		Summary:     "Update category",
		Description: "Renames or redescribes a category (admin only)",
		Tags:        []string{"Categories"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteCategory",
		Method:        http.MethodDelete,
		Path:          "/api/v1/categories/{id}",
		Summary:       "Delete category",
		Description:   "Deletes a category. Posts keep existing without it (admin only)",
		Tags:          []string{"Categories"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteCategory)
}

// === DTOs ===

type ListCategoriesOutput struct {
	Body []domain.Category
}

type GetCategoryInput struct {
	ID int64 `path:"id" doc:"Category ID"`
}

type CategoryOutput struct {
	Body *domain.Category
}

type CreateCategoryInput struct {
	dto.Authorized
	Body service.CreateCategoryRequest
}

type UpdateCategoryInput struct {
	dto.Authorized
	ID   int64 `path:"id" doc:"Category ID"`
	Body service.UpdateCategoryRequest
}

type DeleteCategoryInput struct {
	dto.Authorized
	ID int64 `path:"id" doc:"Category ID"`
}

// === Handlers ===

func (s *Server) handleListCategories(ctx context.Context, _ *struct{}) (*ListCategoriesOutput, error) {
	categories, err := s.services.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	return &ListCategoriesOutput{Body: categories}, nil
}

func (s *Server) handleGetCategory(ctx context.Context, input *GetCategoryInput) (*CategoryOutput, error) {
	category, err := s.services.Categories.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &CategoryOutput{Body: category}, nil
}

func (s *Server) handleCreateCategory(ctx context.Context, input *CreateCategoryInput) (*CategoryOutput, error) {
	actor, err := s.actor(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	category, err := s.services.Categories.Create(ctx, actor, input.Body)
	if err != nil {
		return nil, err
	}
	return &CategoryOutput{Body: category}, nil
}

func (s *Server) handleUpdateCategory(ctx context.Context, input *UpdateCategoryInput) (*CategoryOutput, error) {
	actor, err := s.actor(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	category, err := s.services.Categories.Update(ctx, actor, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &CategoryOutput{Body: category}, nil
}

func (s *Server) handleDeleteCategory(ctx context.Context, input *DeleteCategoryInput) (*struct{}, error) {
	actor, err := s.actor(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	return nil, s.services.Categories.Delete(ctx, actor, input.ID)
}
