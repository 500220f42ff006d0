package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/penwellapp/penwell-server/internal/content"
	"github.com/penwellapp/penwell-server/internal/domain"
	domainerrors "github.com/penwellapp/penwell-server/internal/errors"
	"github.com/penwellapp/penwell-server/internal/listing"
	"github.com/penwellapp/penwell-server/internal/media"
	"github.com/penwellapp/penwell-server/internal/policy"
	"github.com/penwellapp/penwell-server/internal/slug"
	"github.com/penwellapp/penwell-server/internal/store"
	"github.com/penwellapp/penwell-server/internal/validation"
)

// PostService orchestrates post listing, authoring and cover uploads.
type PostService struct {
	store     store.Store
	covers    *media.CoverStorage
	validator *validation.Validator
	logger    *slog.Logger
}

// NewPostService creates a new post service.
func NewPostService(store store.Store, covers *media.CoverStorage, logger *slog.Logger) *PostService {
	return &PostService{
		store:     store,
		covers:    covers,
		validator: validation.New(),
		logger:    logger,
	}
}

// ListPostsQuery selects, orders and pages a post listing.
type ListPostsQuery struct {
	Selector listing.Selector
	Sort     listing.Sort
	Page     listing.PageRequest
}

// CreatePostRequest contains the fields of a new post. Slug is derived from
// the title when empty. Content may be markdown or HTML; HTML is converted.
type CreatePostRequest struct {
	Title       string  `json:"title" validate:"required,notblank,max=200"`
	Content     string  `json:"content" validate:"required,notblank"`
	Slug        string  `json:"slug,omitempty" validate:"omitempty,max=80"`
	CategoryIDs []int64 `json:"category_ids,omitempty" validate:"unique,dive,gt=0"`
}

// UpdatePostRequest is a partial update. A nil CategoryIDs keeps the current
// categories; an empty list removes them all. The slug only changes when one
// is given, so existing links keep working after a retitle.
type UpdatePostRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,notblank,max=200"`
	Content     *string `json:"content,omitempty" validate:"omitempty,notblank"`
	Slug        *string `json:"slug,omitempty" validate:"omitempty,notblank,max=80"`
	CategoryIDs []int64 `json:"category_ids,omitempty" validate:"omitempty,unique,dive,gt=0"`
}

// List returns one page of posts. Listing a category or user that does not
// exist is a not found error rather than an empty page.
func (s *PostService) List(ctx context.Context, q ListPostsQuery) (*listing.Result[domain.Post], error) {
	spec, err := listing.ResolveScope(q.Selector, q.Sort)
	if err != nil {
		return nil, err
	}

	switch spec.Selector.Kind() {
	case listing.ScopeCategory:
		if _, err := s.store.GetCategory(ctx, spec.Selector.CategoryID()); err != nil {
			return nil, translate(err, "category")
		}
	case listing.ScopeUser:
		if _, err := s.store.GetUser(ctx, spec.Selector.UserID()); err != nil {
			return nil, translate(err, "user")
		}
	}

	total, err := s.store.CountPosts(ctx, spec.Selector)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	page, err := q.Page.Paginate(total)
	if err != nil {
		return nil, err
	}

	posts, err := s.store.ListPosts(ctx, spec, page)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	for i := range posts {
		posts[i].Excerpt = content.Excerpt(posts[i].Content)
	}

	s.logger.Debug("listed posts",
		"scope", spec.Selector.Kind(),
		"sort", spec.Sort.Field,
		"direction", spec.Sort.Direction,
		"page", page.Page,
		"total", total,
	)

	result := listing.NewResult(posts, page)
	return &result, nil
}

// Get returns a post by id.
func (s *PostService) Get(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := s.store.GetPost(ctx, id)
	if err != nil {
		return nil, translate(err, "post")
	}
	return post, nil
}

// GetBySlug returns a post by slug.
func (s *PostService) GetBySlug(ctx context.Context, postSlug string) (*domain.Post, error) {
	// Anything not in slug form can never have been stored.
	if !slug.Valid(postSlug) {
		return nil, domainerrors.NotFound("post not found")
	}
	post, err := s.store.GetPostBySlug(ctx, postSlug)
	if err != nil {
		return nil, translate(err, "post")
	}
	return post, nil
}

// Create publishes a post owned by the actor. Admin only.
func (s *PostService) Create(ctx context.Context, actor policy.Actor, req CreatePostRequest) (*domain.Post, error) {
	if !policy.CanPerform(actor, policy.ActionCreate, policy.Post{}) {
		return nil, domainerrors.Forbidden("only admins can create posts")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	postSlug, err := s.resolveSlug(ctx, req.Slug, title, 0)
	if err != nil {
		return nil, err
	}

	post := &domain.Post{
		UserID:  actor.ID,
		Title:   title,
		Content: content.Normalize(req.Content),
		Slug:    postSlug,
	}
	if err := s.store.CreatePost(ctx, post, req.CategoryIDs); err != nil {
		return nil, postWriteErr(err)
	}

	s.logger.Info("post created",
		"post_id", post.ID,
		"slug", post.Slug,
		"user_id", actor.ID,
		"categories", len(req.CategoryIDs),
	)
	return s.Get(ctx, post.ID)
}

// Update edits a post. Owners and admins only.
func (s *PostService) Update(ctx context.Context, actor policy.Actor, id int64, req UpdatePostRequest) (*domain.Post, error) {
	post, err := s.store.GetPost(ctx, id)
	if err != nil {
		return nil, translate(err, "post")
	}
	if !policy.CanPerform(actor, policy.ActionUpdate, policy.Post{OwnerID: post.UserID}) {
		return nil, forbidden("update", "post")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if req.Title != nil {
		post.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		post.Content = content.Normalize(*req.Content)
	}
	if req.Slug != nil && slug.Make(*req.Slug) != post.Slug {
		post.Slug, err = s.resolveSlug(ctx, *req.Slug, post.Title, post.ID)
		if err != nil {
			return nil, err
		}
	}

	if err := s.store.UpdatePost(ctx, post, req.CategoryIDs); err != nil {
		return nil, postWriteErr(err)
	}

	s.logger.Info("post updated", "post_id", post.ID, "user_id", actor.ID)
	return s.Get(ctx, post.ID)
}

// Delete removes a post with its comments, category links and cover file.
func (s *PostService) Delete(ctx context.Context, actor policy.Actor, id int64) error {
	post, err := s.store.GetPost(ctx, id)
	if err != nil {
		return translate(err, "post")
	}
	if !policy.CanPerform(actor, policy.ActionDelete, policy.Post{OwnerID: post.UserID}) {
		return forbidden("delete", "post")
	}
	if err := s.store.DeletePost(ctx, id); err != nil {
		return translate(err, "post")
	}

	s.removeCover(post.ID, post.CoverImage)
	s.logger.Info("post deleted", "post_id", id, "user_id", actor.ID)
	return nil
}

// SetCover stores an uploaded image as the post's cover and drops the old one.
func (s *PostService) SetCover(ctx context.Context, actor policy.Actor, id int64, data []byte) (*domain.Post, error) {
	post, err := s.store.GetPost(ctx, id)
	if err != nil {
		return nil, translate(err, "post")
	}
	if !policy.CanPerform(actor, policy.ActionUpdate, policy.Post{OwnerID: post.UserID}) {
		return nil, forbidden("update", "post")
	}

	url, err := s.covers.Save(data)
	if err != nil {
		switch {
		case errors.Is(err, media.ErrEmpty), errors.Is(err, media.ErrUnsupportedType):
			return nil, domainerrors.InvalidArgument(err.Error())
		case errors.Is(err, media.ErrTooLarge):
			return nil, domainerrors.InvalidArgumentf("%s (limit %d bytes)", err, s.covers.MaxBytes())
		}
		return nil, fmt.Errorf("save cover: %w", err)
	}

	previous := post.CoverImage
	post.CoverImage = url
	if err := s.store.UpdatePost(ctx, post, nil); err != nil {
		s.removeCover(post.ID, url)
		return nil, postWriteErr(err)
	}
	s.removeCover(post.ID, previous)

	s.logger.Info("post cover updated", "post_id", post.ID, "cover", url)
	return s.Get(ctx, post.ID)
}

// resolveSlug returns the slug to store. An explicit slug is normalized and
// must be free; a derived one gets a numeric suffix until it is.
func (s *PostService) resolveSlug(ctx context.Context, requested, title string, excludeID int64) (string, error) {
	exists := func(ctx context.Context, candidate string) (bool, error) {
		return s.store.SlugExists(ctx, candidate, excludeID)
	}

	if strings.TrimSpace(requested) != "" {
		candidate := slug.Make(requested)
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if taken {
			return "", domainerrors.Conflictf("slug %q is already in use", candidate)
		}
		return candidate, nil
	}

	unique, err := slug.Unique(ctx, slug.Make(title), exists)
	if err != nil {
		return "", fmt.Errorf("derive slug: %w", err)
	}
	return unique, nil
}

func (s *PostService) removeCover(postID int64, url string) {
	if url == "" {
		return
	}
	if err := s.covers.Delete(url); err != nil {
		s.logger.Warn("failed to remove cover file", "post_id", postID, "cover", url, "error", err)
	}
}

func postWriteErr(err error) error {
	switch {
	case errors.Is(err, store.ErrInvalidReference):
		return domainerrors.InvalidArgument("one or more categories do not exist")
	case errors.Is(err, store.ErrAlreadyExists):
		return domainerrors.Conflict("slug is already in use")
	}
	return translate(err, "post")
}
