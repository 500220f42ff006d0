package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/penwellapp/penwell-server/internal/api/dto"
	"github.com/penwellapp/penwell-server/internal/domain"
	"github.com/penwellapp/penwell-server/internal/service"
)

func (s *Server) registerCommentRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPostComments",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts/{id}/comments",
		Summary:     "List comments on a post",
		Description: "Returns the post's comments newest first, with author names",
		Tags:        []string{"Comments"},
	}, s.handleListPostComments)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createComment",
		Method:        http.MethodPost,
		Path:          "/api/v1/posts/{id}/comments",
		Summary:       "Comment on a post",
		Tags:          []string{"Comments"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "getComment",
		Method:      http.MethodGet,
		Path:        "/api/v1/comments/{id}",
		Summary:     "Get comment",
		Tags:        []string{"Comments"},
	}, s.handleGetComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateComment",
		Method:      http.MethodPut,
		Path:        "/api/v1/comments/{id}",
		Summary:     "Edit comment",
		Description: "Edits a comment (author or admin)",
		Tags:        []string{"Comments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateComment)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteComment",
		Method:        http.MethodDelete,
		Path:          "/api/v1/comments/{id}",
		Summary:       "Delete comment",
		Description:   "Deletes a comment (author, owner of the post, or admin)",
		Tags:          []string{"Comments"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteComment)
}

// === DTOs ===

type ListPostCommentsInput struct {
	PostID int64 `path:"id" doc:"Post ID"`
}

type ListCommentsOutput struct {
	Body []domain.Comment
}

type CreateCommentInput struct {
	dto.Authorized
	PostID int64 `path:"id" doc:"Post ID"`
	Body   service.CommentRequest
}

type GetCommentInput struct {
	ID int64 `path:"id" doc:"Comment ID"`
}

type UpdateCommentInput struct {
	dto.Authorized
	ID   int64 `path:"id" doc:"Comment ID"`
	Body service.CommentRequest
}

type DeleteCommentInput struct {
	dto.Authorized
	ID int64 `path:"id" doc:"Comment ID"`
}

type CommentOutput struct {
	Body *domain.Comment
}

// === Handlers ===

func (s *Server) handleListPostComments(ctx context.Context, input *ListPostCommentsInput) (*ListCommentsOutput, error) {
	comments, err := s.services.Comments.ListForPost(ctx, input.PostID)
	if err != nil {
		return nil, err
	}
	return &ListCommentsOutput{Body: comments}, nil
}

func (s *Server) handleCreateComment(ctx context.Context, input *CreateCommentInput) (*CommentOutput, error) {
	actor, err := s.actor(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	comment, err := s.services.Comments.Create(ctx, actor, input.PostID, input.Body)
	if err != nil {
		return nil, err
	}
	return &CommentOutput{Body: comment}, nil
}

func (s *Server) handleGetComment(ctx context.Context, input *GetCommentInput) (*CommentOutput, error) {
	comment, err := s.services.Comments.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &CommentOutput{Body: comment}, nil
}

func (s *Server) handleUpdateComment(ctx context.Context, input *UpdateCommentInput) (*CommentOutput, error) {
	actor, err := s.actor(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	comment, err := s.services.Comments.Update(ctx, actor, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &CommentOutput{Body: comment}, nil
}

func (s *Server) handleDeleteComment(ctx context.Context, input *DeleteCommentInput) (*struct{}, error) {
	actor, err := s.actor(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	return nil, s.services.Comments.Delete(ctx, actor, input.ID)
}
