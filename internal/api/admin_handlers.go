package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/penwellapp/penwell-server/internal/api/dto"
	"github.com/penwellapp/penwell-server/internal/feed"
	"github.com/penwellapp/penwell-server/internal/listing"
	"github.com/penwellapp/penwell-server/internal/service"
)

func (s *Server) registerAdminRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getDashboard",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/dashboard",
		Summary:     "Admin dashboard",
		Description: "Returns site counts with the newest posts and comments (admin only)",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetDashboard)

	huma.Register(s.api, huma.Operation{
		OperationID: "listAllComments",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/comments",
		Summary:     "Browse comments",
		Description: "Returns all comments newest first, optionally filtered by content, author or post title (admin only)",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListAllComments)
}

// === DTOs ===

type DashboardOutput struct {
	Body *service.Dashboard
}

type ListAllCommentsInput struct {
	dto.Authorized
	Search string `query:"search" doc:"Match on content, author name or post title"`
	Page   int    `query:"page" doc:"Page number, starting at 1 (default 1)"`
	Limit  int    `query:"limit" doc:"Items per page (default 10, max 100)"`
}

type CommentFeedOutput struct {
	Body *listing.Result[feed.Entry]
}

// === Handlers ===

func (s *Server) handleGetDashboard(ctx context.Context, input *dto.Authorized) (*DashboardOutput, error) {
	actor, err := s.actor(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	dashboard, err := s.services.Admin.Dashboard(ctx, actor)
	if err != nil {
		return nil, err
	}
	return &DashboardOutput{Body: dashboard}, nil
}

func (s *Server) handleListAllComments(ctx context.Context, input *ListAllCommentsInput) (*CommentFeedOutput, error) {
	actor, err := s.actor(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	result, err := s.services.Admin.Comments(ctx, actor, service.AdminCommentsQuery{
		Search: input.Search,
		Page:   listing.NewPageRequest(input.Page, input.Limit, listing.DefaultLimit),
	})
	if err != nil {
		return nil, err
	}
	return &CommentFeedOutput{Body: result}, nil
}
