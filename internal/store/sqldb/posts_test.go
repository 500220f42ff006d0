package sqldb

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/penwellapp/penwell-server/internal/domain"
	"github.com/penwellapp/penwell-server/internal/listing"
	"github.com/penwellapp/penwell-server/internal/store"
)

func postIDs(posts []domain.Post) []int64 {
	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

func listAll(t *testing.T, s *Store, sel listing.Selector, sort listing.Sort) []domain.Post {
	t.Helper()
	spec, err := listing.ResolveScope(sel, sort)
	if err != nil {
		t.Fatalf("ResolveScope: %v", err)
	}
	page, err := listing.Paginate(1000, 1, 100)
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	posts, err := s.ListPosts(context.Background(), spec, page)
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	return posts
}

func TestCreatePost_WithCategories(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	author := mustCreateUser(t, s, "ann", domain.RoleAdmin)
	goCat := mustCreateCategory(t, s, "Go")
	apiCat := mustCreateCategory(t, s, "APIs")

	post := mustCreatePost(t, s, author.ID, "Hello World", "body", goCat.ID, apiCat.ID, goCat.ID)

	got, err := s.GetPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if got.Title != "Hello World" || got.Slug != "hello-world" || got.AuthorName != "ann" {
		t.Errorf("GetPost: got %+v", got)
	}
	if want := []int64{apiCat.ID, goCat.ID}; !slices.Equal(got.CategoryIDs, want) {
		t.Errorf("categories: got %v, want %v (sorted by name, deduplicated)", got.CategoryIDs, want)
	}
	if got.CommentCount != 0 {
		t.Errorf("CommentCount: got %d", got.CommentCount)
	}

	bySlug, err := s.GetPostBySlug(ctx, "hello-world")
	if err != nil {
		t.Fatalf("GetPostBySlug: %v", err)
	}
	if bySlug.ID != post.ID {
		t.Errorf("GetPostBySlug: got %d, want %d", bySlug.ID, post.ID)
	}
}

func TestCreatePost_Constraints(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	author := mustCreateUser(t, s, "ann", domain.RoleAdmin)
	mustCreatePost(t, s, author.ID, "Taken", "x")

	dup := &domain.Post{UserID: author.ID, Title: "Other", Content: "x", Slug: "taken"}
	if err := s.CreatePost(ctx, dup, nil); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("duplicate slug: expected ErrAlreadyExists, got %v", err)
	}

	orphan := &domain.Post{UserID: 999, Title: "Orphan", Content: "x", Slug: "orphan"}
	if err := s.CreatePost(ctx, orphan, nil); !errors.Is(err, store.ErrInvalidReference) {
		t.Errorf("unknown user: expected ErrInvalidReference, got %v", err)
	}
}

func TestCreatePost_RollsBackOnBadCategory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	author := mustCreateUser(t, s, "ann", domain.RoleAdmin)
	cat := mustCreateCategory(t, s, "Go")

	post := &domain.Post{UserID: author.ID, Title: "Half", Content: "x", Slug: "half"}
	if err := s.CreatePost(ctx, post, []int64{cat.ID, 999}); !errors.Is(err, store.ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}

	if _, err := s.GetPostBySlug(ctx, "half"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("post must not exist after rollback, got %v", err)
	}
	if c, _ := s.GetCategory(ctx, cat.ID); c.PostCount != 0 {
		t.Errorf("association must not exist after rollback, count %d", c.PostCount)
	}
}

func TestUpdatePost(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	author := mustCreateUser(t, s, "ann", domain.RoleAdmin)
	a := mustCreateCategory(t, s, "A")
	b := mustCreateCategory(t, s, "B")
	post := mustCreatePost(t, s, author.ID, "Draft", "x", a.ID)

	// nil leaves categories untouched.
	post.Title = "Final"
	post.CoverImage = "/uploads/c.png"
	if err := s.UpdatePost(ctx, post, nil); err != nil {
		t.Fatalf("UpdatePost: %v", err)
	}
	got, _ := s.GetPost(ctx, post.ID)
	if got.Title != "Final" || got.CoverImage != "/uploads/c.png" || !slices.Equal(got.CategoryIDs, []int64{a.ID}) {
		t.Errorf("after update: %+v", got)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Errorf("UpdatedAt not bumped")
	}

	// A non-nil slice replaces them.
	if err := s.UpdatePost(ctx, post, []int64{b.ID}); err != nil {
		t.Fatalf("UpdatePost: %v", err)
	}
	got, _ = s.GetPost(ctx, post.ID)
	if !slices.Equal(got.CategoryIDs, []int64{b.ID}) {
		t.Errorf("categories: got %v, want [%d]", got.CategoryIDs, b.ID)
	}

	// An empty slice clears them.
	if err := s.UpdatePost(ctx, post, []int64{}); err != nil {
		t.Fatalf("UpdatePost: %v", err)
	}
	got, _ = s.GetPost(ctx, post.ID)
	if len(got.Categories) != 0 || got.Categories == nil {
		t.Errorf("categories should be empty and non-nil: %#v", got.Categories)
	}

	// A bad category rolls back the title change too.
	post.Title = "Should Not Stick"
	if err := s.UpdatePost(ctx, post, []int64{999}); !errors.Is(err, store.ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}
	got, _ = s.GetPost(ctx, post.ID)
	if got.Title != "Final" {
		t.Errorf("title changed despite rollback: %q", got.Title)
	}

	if err := s.UpdatePost(ctx, &domain.Post{ID: 999, Slug: "nope"}, nil); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing post: expected ErrNotFound, got %v", err)
	}
}

func TestDeletePost_Cascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	author := mustCreateUser(t, s, "ann", domain.RoleAdmin)
	cat := mustCreateCategory(t, s, "Go")
	post := mustCreatePost(t, s, author.ID, "Gone", "x", cat.ID)
	if err := s.CreateComment(ctx, &domain.Comment{PostID: post.ID, UserID: author.ID, Content: "c"}); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}

	if err := s.DeletePost(ctx, post.ID); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	if n, _ := s.CountComments(ctx); n != 0 {
		t.Errorf("comments left: %d", n)
	}
	if c, _ := s.GetCategory(ctx, cat.ID); c.PostCount != 0 {
		t.Errorf("associations left: %d", c.PostCount)
	}
	if err := s.DeletePost(ctx, post.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestSlugExists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	author := mustCreateUser(t, s, "ann", domain.RoleAdmin)
	post := mustCreatePost(t, s, author.ID, "Taken", "x")

	if ok, _ := s.SlugExists(ctx, "taken", 0); !ok {
		t.Error("taken should exist")
	}
	if ok, _ := s.SlugExists(ctx, "taken", post.ID); ok {
		t.Error("a post's own slug should not count")
	}
	if ok, _ := s.SlugExists(ctx, "free", 0); ok {
		t.Error("free should not exist")
	}
}

func TestListPosts_Scopes(t *testing.T) {
	s := newTestStore(t)
	ann := mustCreateUser(t, s, "ann", domain.RoleAdmin)
	bob := mustCreateUser(t, s, "bob", domain.RoleUser)
	goCat := mustCreateCategory(t, s, "Go")
	ops := mustCreateCategory(t, s, "Ops")

	p1 := mustCreatePost(t, s, ann.ID, "Generics in Go", "type parameters", goCat.ID)
	p2 := mustCreatePost(t, s, bob.ID, "Docker Tips", "containers and GO builds", ops.ID)
	p3 := mustCreatePost(t, s, ann.ID, "Release Notes", "100% done with snake_case", goCat.ID, ops.ID)

	tests := []struct {
		name string
		sel  listing.Selector
		want []int64
	}{
		{"all newest first", listing.All(), []int64{p3.ID, p2.ID, p1.ID}},
		{"category", listing.ByCategory(goCat.ID), []int64{p3.ID, p1.ID}},
		{"user", listing.ByUser(bob.ID), []int64{p2.ID}},
		{"search title or content, any case", listing.BySearchTerm("go"), []int64{p2.ID, p1.ID}},
		{"search percent is literal", listing.BySearchTerm("100%"), []int64{p3.ID}},
		{"search underscore is literal", listing.BySearchTerm("e_c"), []int64{p3.ID}},
		{"search percent matches nothing else", listing.BySearchTerm("%"), []int64{p3.ID}},
		{"no matches", listing.BySearchTerm("kubernetes"), []int64{}},
		{"unknown category", listing.ByCategory(999), []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := postIDs(listAll(t, s, tt.sel, listing.DefaultSort()))
			if !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}

			n, err := s.CountPosts(context.Background(), tt.sel)
			if err != nil {
				t.Fatalf("CountPosts: %v", err)
			}
			if n != len(tt.want) {
				t.Errorf("CountPosts = %d, want %d", n, len(tt.want))
			}
		})
	}
}

func TestListPosts_SearchFoldsUnicode(t *testing.T) {
	s := newTestStore(t)
	ann := mustCreateUser(t, s, "ann", domain.RoleAdmin)

	paris := mustCreatePost(t, s, ann.ID, "Été à Paris", "Croissants")
	mustCreatePost(t, s, ann.ID, "Winter in Oslo", "Snow")
	strasse := mustCreatePost(t, s, ann.ID, "Notes", "Die ÖFFENTLICHE Straße")

	tests := []struct {
		term string
		want []int64
	}{
		{"paris", []int64{paris.ID}},
		{"PARIS", []int64{paris.ID}},
		{"Été", []int64{paris.ID}},
		{"été", []int64{paris.ID}},
		{"ÉTÉ À", []int64{paris.ID}},
		{"öffentliche", []int64{strasse.ID}},
		{"STRASSE", []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			sel := listing.BySearchTerm(tt.term)
			got := postIDs(listAll(t, s, sel, listing.DefaultSort()))
			if !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}

			n, err := s.CountPosts(context.Background(), sel)
			if err != nil {
				t.Fatalf("CountPosts: %v", err)
			}
			if n != len(tt.want) {
				t.Errorf("CountPosts = %d, want %d", n, len(tt.want))
			}
		})
	}
}

func TestListPosts_SortAndPages(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ann := mustCreateUser(t, s, "ann", domain.RoleAdmin)

	banana := mustCreatePost(t, s, ann.ID, "banana", "x")
	apple := mustCreatePost(t, s, ann.ID, "Apple", "x")
	cherry := mustCreatePost(t, s, ann.ID, "cherry", "x")

	byTitle := postIDs(listAll(t, s, listing.All(), listing.Sort{Field: listing.SortTitle, Direction: listing.Asc}))
	if want := []int64{apple.ID, banana.ID, cherry.ID}; !slices.Equal(byTitle, want) {
		t.Errorf("title asc (case-insensitive): got %v, want %v", byTitle, want)
	}

	oldest := postIDs(listAll(t, s, listing.All(), listing.Sort{Field: listing.SortCreatedAt, Direction: listing.Asc}))
	if want := []int64{banana.ID, apple.ID, cherry.ID}; !slices.Equal(oldest, want) {
		t.Errorf("created asc: got %v, want %v", oldest, want)
	}

	spec, _ := listing.ResolveScope(listing.All(), listing.DefaultSort())
	var seen []int64
	for pageNum := 1; pageNum <= 2; pageNum++ {
		page, err := listing.Paginate(3, pageNum, 2)
		if err != nil {
			t.Fatalf("Paginate: %v", err)
		}
		posts, err := s.ListPosts(ctx, spec, page)
		if err != nil {
			t.Fatalf("ListPosts: %v", err)
		}
		seen = append(seen, postIDs(posts)...)
	}
	if want := []int64{cherry.ID, apple.ID, banana.ID}; !slices.Equal(seen, want) {
		t.Errorf("pages: got %v, want %v", seen, want)
	}

	page, _ := listing.Paginate(3, 5, 2)
	beyond, err := s.ListPosts(ctx, spec, page)
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if beyond == nil || len(beyond) != 0 {
		t.Errorf("page past the end should be empty and non-nil, got %#v", beyond)
	}
}

func TestListPosts_CommentCounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ann := mustCreateUser(t, s, "ann", domain.RoleAdmin)
	post := mustCreatePost(t, s, ann.ID, "Busy", "x")
	mustCreatePost(t, s, ann.ID, "Quiet", "x")

	for range 3 {
		if err := s.CreateComment(ctx, &domain.Comment{PostID: post.ID, UserID: ann.ID, Content: "c"}); err != nil {
			t.Fatalf("CreateComment: %v", err)
		}
	}

	posts := listAll(t, s, listing.All(), listing.Sort{Field: listing.SortTitle, Direction: listing.Asc})
	if posts[0].CommentCount != 3 || posts[1].CommentCount != 0 {
		t.Errorf("comment counts: %d, %d", posts[0].CommentCount, posts[1].CommentCount)
	}
}
