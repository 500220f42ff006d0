package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/penwellapp/penwell-server/internal/api/dto"
	"github.com/penwellapp/penwell-server/internal/domain"
	domainerrors "github.com/penwellapp/penwell-server/internal/errors"
	"github.com/penwellapp/penwell-server/internal/listing"
	"github.com/penwellapp/penwell-server/internal/service"
)

func (s *Server) registerPostRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPosts",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts",
		Summary:     "List posts",
		Description: "Returns a page of posts. At most one of search, categoryId or userId narrows the listing.",
		Tags:        []string{"Posts"},
	}, s.handleListPosts)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchPosts",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts/search",
		Summary:     "Search posts",
		Description: "Returns posts whose title or content contains the query, ignoring case",
		Tags:        []string{"Posts"},
	}, s.handleSearchPosts)

	huma.Register(s.api, huma.Operation{
		OperationID: "listPostsByCategory",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts/category/{categoryId}",
		Summary:     "List posts in a category",
		Tags:        []string{"Posts"},
	}, s.handleListPostsByCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "listPostsByUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts/user/{userId}",
		Summary:     "List posts by an author",
		Tags:        []string{"Posts"},
	}, s.handleListPostsByUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPost",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts/{id}",
		Summary:     "Get post",
		Tags:        []string{"Posts"},
	}, s.handleGetPost)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPostBySlug",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts/slug/{slug}",
		Summary:     "Get post by slug",
		Tags:        []string{"Posts"},
	}, s.handleGetPostBySlug)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createPost",
		Method:        http.MethodPost,
		Path:          "/api/v1/posts",
		Summary:       "Create post",
		Description:   "Creates a post. The slug is derived from the title when omitted. HTML content is stored as markdown.",
		Tags:          []string{"Posts"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreatePost)

	huma.Register(s.api, huma.Operation{
		OperationID: "updatePost",
		Method:      http.MethodPut,
		Path:        "/api/v1/posts/{id}",
		Summary:     "Update post",
		Description: "Updates the given fields. category_ids replaces the post's categories when present.",
		Tags:        []string{"Posts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdatePost)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deletePost",
		Method:        http.MethodDelete,
		Path:          "/api/v1/posts/{id}",
		Summary:       "Delete post",
		Description:   "Deletes a post with its comments and cover image",
		Tags:          []string{"Posts"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeletePost)
}

// === DTOs ===

// ListPostsInput contains parameters for the general post listing.
type ListPostsInput struct {
	dto.ListParams
	dto.PostFilterParams
}

// SearchPostsInput contains parameters for searching posts.
type SearchPostsInput struct {
	Query string `query:"q" required:"true" doc:"Search term"`
	dto.ListParams
}

// ListPostsByCategoryInput contains parameters for a category listing.
type ListPostsByCategoryInput struct {
	CategoryID int64 `path:"categoryId" doc:"Category ID"`
	dto.ListParams
}

// ListPostsByUserInput contains parameters for an author listing.
type ListPostsByUserInput struct {
	UserID int64 `path:"userId" doc:"Author user ID"`
	dto.ListParams
}

// PostListOutput wraps a page of posts.
type PostListOutput struct {
	Body *listing.Result[domain.Post]
}

// GetPostInput contains parameters for getting a post.
type GetPostInput struct {
	ID int64 `path:"id" doc:"Post ID"`
}

// GetPostBySlugInput contains parameters for getting a post by slug.
type GetPostBySlugInput struct {
	Slug string `path:"slug" doc:"Post slug"`
}

// PostOutput wraps a single post.
type PostOutput struct {
	Body *domain.Post
}

// CreatePostInput wraps the create post request.
type CreatePostInput struct {
	dto.Authorized
	Body service.CreatePostRequest
}

// UpdatePostInput wraps the update post request.
type UpdatePostInput struct {
	dto.Authorized
	ID   int64 `path:"id" doc:"Post ID"`
	Body service.UpdatePostRequest
}

// DeletePostInput contains parameters for deleting a post.
type DeletePostInput struct {
	dto.Authorized
	ID int64 `path:"id" doc:"Post ID"`
}

// === Handlers ===

func (s *Server) handleListPosts(ctx context.Context, input *ListPostsInput) (*PostListOutput, error) {
	sel, err := input.Selector()
	if err != nil {
		return nil, err
	}
	return s.listPosts(ctx, input.ListParams, sel, listing.DefaultLimit)
}

func (s *Server) handleSearchPosts(ctx context.Context, input *SearchPostsInput) (*PostListOutput, error) {
	term := strings.TrimSpace(input.Query)
	if term == "" {
		return nil, domainerrors.InvalidArgument("search query is required")
	}
	sel := listing.NewState().Search(term).Selector
	return s.listPosts(ctx, input.ListParams, sel, listing.DefaultLimit)
}

func (s *Server) handleListPostsByCategory(ctx context.Context, input *ListPostsByCategoryInput) (*PostListOutput, error) {
	return s.listPosts(ctx, input.ListParams, listing.ByCategory(input.CategoryID), listing.CompactLimit)
}

func (s *Server) handleListPostsByUser(ctx context.Context, input *ListPostsByUserInput) (*PostListOutput, error) {
	return s.listPosts(ctx, input.ListParams, listing.ByUser(input.UserID), listing.CompactLimit)
}

func (s *Server) listPosts(ctx context.Context, params dto.ListParams, sel listing.Selector, defaultLimit int) (*PostListOutput, error) {
	q, err := postQuery(params, sel, defaultLimit)
	if err != nil {
		return nil, err
	}
	result, err := s.services.Posts.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &PostListOutput{Body: result}, nil
}

func (s *Server) handleGetPost(ctx context.Context, input *GetPostInput) (*PostOutput, error) {
	post, err := s.services.Posts.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &PostOutput{Body: post}, nil
}

func (s *Server) handleGetPostBySlug(ctx context.Context, input *GetPostBySlugInput) (*PostOutput, error) {
	post, err := s.services.Posts.GetBySlug(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	return &PostOutput{Body: post}, nil
}

func (s *Server) handleCreatePost(ctx context.Context, input *CreatePostInput) (*PostOutput, error) {
	actor, err := s.actor(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	post, err := s.services.Posts.Create(ctx, actor, input.Body)
	if err != nil {
		return nil, err
	}
	return &PostOutput{Body: post}, nil
}

func (s *Server) handleUpdatePost(ctx context.Context, input *UpdatePostInput) (*PostOutput, error) {
	actor, err := s.actor(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	post, err := s.services.Posts.Update(ctx, actor, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &PostOutput{Body: post}, nil
}

func (s *Server) handleDeletePost(ctx context.Context, input *DeletePostInput) (*struct{}, error) {
	actor, err := s.actor(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := s.services.Posts.Delete(ctx, actor, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}
