// Package store defines the persistence interface for the Penwell server.
package store

import (
	"context"

	"github.com/penwellapp/penwell-server/internal/domain"
	"github.com/penwellapp/penwell-server/internal/listing"
)

// Store defines all persistence operations. Create methods fill in the
// generated id and timestamps on the value passed in.
type Store interface {
	// Lifecycle
	Close() error
	Ping(ctx context.Context) error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	RegisterUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id int64) error
	ListUsers(ctx context.Context) ([]domain.User, error)
	CountUsers(ctx context.Context) (int, error)

	// Posts. A nil categoryIDs on update leaves associations untouched; a
	// non-nil slice replaces them in the same transaction.
	CreatePost(ctx context.Context, post *domain.Post, categoryIDs []int64) error
	GetPost(ctx context.Context, id int64) (*domain.Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*domain.Post, error)
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	UpdatePost(ctx context.Context, post *domain.Post, categoryIDs []int64) error
	DeletePost(ctx context.Context, id int64) error
	ListPosts(ctx context.Context, spec listing.FilterSpec, page listing.Page) ([]domain.Post, error)
	CountPosts(ctx context.Context, sel listing.Selector) (int, error)

	// Categories
	CreateCategory(ctx context.Context, category *domain.Category) error
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	UpdateCategory(ctx context.Context, category *domain.Category) error
	DeleteCategory(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CountCategories(ctx context.Context) (int, error)

	// Comments
	CreateComment(ctx context.Context, comment *domain.Comment) error
	GetComment(ctx context.Context, id int64) (*domain.Comment, error)
	UpdateComment(ctx context.Context, comment *domain.Comment) error
	DeleteComment(ctx context.Context, id int64) error
	ListCommentsByPost(ctx context.Context, postID int64) ([]domain.Comment, error)
	ListCommentsForPosts(ctx context.Context, postIDs []int64) (map[int64][]domain.Comment, error)
	CountComments(ctx context.Context) (int, error)
}
