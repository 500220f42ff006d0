package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/penwellapp/penwell-server/internal/domain"
	domainerrors "github.com/penwellapp/penwell-server/internal/errors"
	"github.com/penwellapp/penwell-server/internal/feed"
	"github.com/penwellapp/penwell-server/internal/listing"
	"github.com/penwellapp/penwell-server/internal/policy"
	"github.com/penwellapp/penwell-server/internal/store"
)

// DashboardRecent is how many posts and comments the dashboard shows.
const DashboardRecent = 5

// AdminService backs the admin dashboard and comment browser.
type AdminService struct {
	store  store.Store
	logger *slog.Logger
}

// NewAdminService creates a new admin service.
func NewAdminService(store store.Store, logger *slog.Logger) *AdminService {
	return &AdminService{
		store:  store,
		logger: logger,
	}
}

// Dashboard is the admin overview.
type Dashboard struct {
	Stats          domain.Stats  `json:"stats"`
	RecentPosts    []domain.Post `json:"recent_posts"`
	RecentComments []feed.Entry  `json:"recent_comments"`
}

// AdminCommentsQuery filters and pages the comment browser.
type AdminCommentsQuery struct {
	Search string
	Page   listing.PageRequest
}

// Dashboard returns entity counts, the newest posts and the newest comments
// on those posts.
func (s *AdminService) Dashboard(ctx context.Context, actor policy.Actor) (*Dashboard, error) {
	if !policy.CanPerform(actor, policy.ActionRead, policy.Dashboard{}) {
		return nil, domainerrors.Forbidden("admin access required")
	}

	stats, err := s.stats(ctx)
	if err != nil {
		return nil, err
	}

	page, err := listing.Paginate(stats.Posts, 1, DashboardRecent)
	if err != nil {
		return nil, err
	}
	posts, err := s.store.ListPosts(ctx, listing.FilterSpec{Selector: listing.All(), Sort: listing.DefaultSort()}, page)
	if err != nil {
		return nil, fmt.Errorf("list recent posts: %w", err)
	}

	perPost, err := s.store.ListCommentsForPosts(ctx, postIDs(posts))
	if err != nil {
		return nil, fmt.Errorf("list recent comments: %w", err)
	}
	if posts == nil {
		posts = []domain.Post{}
	}

	return &Dashboard{
		Stats:          stats,
		RecentPosts:    posts,
		RecentComments: feed.AggregateRecentComments(posts, perPost, DashboardRecent),
	}, nil
}

// Comments returns every comment on the site, newest first, optionally
// filtered by a term matched against content, author and post title.
// Filtering and paging happen in memory after aggregation.
func (s *AdminService) Comments(ctx context.Context, actor policy.Actor, q AdminCommentsQuery) (*listing.Result[feed.Entry], error) {
	if !policy.CanPerform(actor, policy.ActionRead, policy.Dashboard{}) {
		return nil, domainerrors.Forbidden("admin access required")
	}

	total, err := s.store.CountPosts(ctx, listing.All())
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	everything, err := listing.Paginate(total, 1, max(total, 1))
	if err != nil {
		return nil, err
	}
	posts, err := s.store.ListPosts(ctx, listing.FilterSpec{Selector: listing.All(), Sort: listing.DefaultSort()}, everything)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	perPost, err := s.store.ListCommentsForPosts(ctx, postIDs(posts))
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	var count int
	for _, comments := range perPost {
		count += len(comments)
	}

	entries := feed.FilterComments(feed.AggregateRecentComments(posts, perPost, count), q.Search)
	page, err := q.Page.Paginate(len(entries))
	if err != nil {
		return nil, err
	}

	s.logger.Debug("admin comment browse", "search", q.Search, "matches", len(entries), "page", page.Page)

	result := listing.NewResult(listing.Slice(entries, page), page)
	return &result, nil
}

func (s *AdminService) stats(ctx context.Context) (domain.Stats, error) {
	var (
		stats domain.Stats
		err   error
	)
	counters := []struct {
		name   string
		target *int
		count  func(context.Context) (int, error)
	}{
		{"posts", &stats.Posts, func(ctx context.Context) (int, error) { return s.store.CountPosts(ctx, listing.All()) }},
		{"categories", &stats.Categories, s.store.CountCategories},
		{"comments", &stats.Comments, s.store.CountComments},
		{"users", &stats.Users, s.store.CountUsers},
	}
	for _, c := range counters {
		if *c.target, err = c.count(ctx); err != nil {
			return domain.Stats{}, fmt.Errorf("count %s: %w", c.name, err)
		}
	}
	return stats, nil
}

func postIDs(posts []domain.Post) []int64 {
	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}
