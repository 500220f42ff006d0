package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/penwellapp/penwell-server/internal/domain"
	"github.com/penwellapp/penwell-server/internal/policy"
	"github.com/penwellapp/penwell-server/internal/store"
	"github.com/penwellapp/penwell-server/internal/validation"
)

// CommentService orchestrates comments on posts.
type CommentService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewCommentService creates a new comment service.
func NewCommentService(store store.Store, logger *slog.Logger) *CommentService {
	return &CommentService{
		store:     store,
		validator: validation.New(),
		logger:    logger,
	}
}

// CommentRequest carries the body of a new or edited comment.
type CommentRequest struct {
	Content string `json:"content" validate:"required,notblank,max=5000"`
}

// ListForPost returns a post's comments, newest first.
func (s *CommentService) ListForPost(ctx context.Context, postID int64) ([]domain.Comment, error) {
	if _, err := s.store.GetPost(ctx, postID); err != nil {
		return nil, translate(err, "post")
	}
	comments, err := s.store.ListCommentsByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	return comments, nil
}

// Get returns one comment with its author name. Comments are public.
func (s *CommentService) Get(ctx context.Context, id int64) (*domain.Comment, error) {
	return s.reload(ctx, id)
}

// Create adds a comment by the actor. Any signed-in user may comment.
func (s *CommentService) Create(ctx context.Context, actor policy.Actor, postID int64, req CommentRequest) (*domain.Comment, error) {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, translate(err, "post")
	}
	if !policy.CanPerform(actor, policy.ActionCreate, policy.Comment{PostOwnerID: post.UserID}) {
		return nil, forbidden("comment on", "post")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		PostID:  post.ID,
		UserID:  actor.ID,
		Content: strings.TrimSpace(req.Content),
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, translate(err, "comment")
	}

	s.logger.Info("comment added", "comment_id", comment.ID, "post_id", post.ID, "user_id", actor.ID)
	return s.reload(ctx, comment.ID)
}

// Update edits a comment. Only its author or an admin may.
func (s *CommentService) Update(ctx context.Context, actor policy.Actor, id int64, req CommentRequest) (*domain.Comment, error) {
	comment, resource, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanPerform(actor, policy.ActionUpdate, resource) {
		return nil, forbidden("update", "comment")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	comment.Content = strings.TrimSpace(req.Content)
	if err := s.store.UpdateComment(ctx, comment); err != nil {
		return nil, translate(err, "comment")
	}

	s.logger.Info("comment updated", "comment_id", comment.ID, "user_id", actor.ID)
	return s.reload(ctx, comment.ID)
}

// Delete removes a comment. Its author, the post's owner and admins may.
func (s *CommentService) Delete(ctx context.Context, actor policy.Actor, id int64) error {
	_, resource, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanPerform(actor, policy.ActionDelete, resource) {
		return forbidden("delete", "comment")
	}
	if err := s.store.DeleteComment(ctx, id); err != nil {
		return translate(err, "comment")
	}

	s.logger.Info("comment deleted", "comment_id", id, "user_id", actor.ID)
	return nil
}

// load fetches a comment and the owner ids the policy needs.
func (s *CommentService) load(ctx context.Context, id int64) (*domain.Comment, policy.Comment, error) {
	comment, err := s.store.GetComment(ctx, id)
	if err != nil {
		return nil, policy.Comment{}, translate(err, "comment")
	}
	post, err := s.store.GetPost(ctx, comment.PostID)
	if err != nil {
		return nil, policy.Comment{}, translate(err, "post")
	}
	return comment, policy.Comment{AuthorID: comment.UserID, PostOwnerID: post.UserID}, nil
}

func (s *CommentService) reload(ctx context.Context, id int64) (*domain.Comment, error) {
	comment, err := s.store.GetComment(ctx, id)
	if err != nil {
		return nil, translate(err, "comment")
	}
	return comment, nil
}
