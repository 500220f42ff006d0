package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwellapp/penwell-server/internal/domain"
)

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func at(sec int) time.Time {
	return epoch.Add(time.Duration(sec) * time.Second)
}

func comment(id, postID int64, sec int, content, author string) domain.Comment {
	return domain.Comment{ID: id, PostID: postID, UserID: 2, Content: content, UserName: author, CreatedAt: at(sec)}
}

func ids(entries []Entry) []int64 {
	out := make([]int64, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestAggregateRecentComments_MergesAcrossPosts(t *testing.T) {
	posts := []domain.Post{
		{ID: 1, Title: "First", Slug: "first"},
		{ID: 2, Title: "Second", Slug: "second"},
	}
	perPost := map[int64][]domain.Comment{
		1: {comment(10, 1, 10, "a", "ann"), comment(30, 1, 30, "b", "bob")},
		2: {comment(20, 2, 20, "c", "cat")},
	}

	got := AggregateRecentComments(posts, perPost, 2)

	require.Len(t, got, 2)
	assert.Equal(t, at(30), got[0].CreatedAt)
	assert.Equal(t, at(20), got[1].CreatedAt)
	assert.Equal(t, "First", got[0].PostTitle)
	assert.Equal(t, "first", got[0].PostSlug)
	assert.Equal(t, "Second", got[1].PostTitle)
	assert.Equal(t, "second", got[1].PostSlug)
}

func TestAggregateRecentComments_TiesBrokenByID(t *testing.T) {
	posts := []domain.Post{{ID: 1}, {ID: 2}}
	perPost := map[int64][]domain.Comment{
		1: {comment(4, 1, 50, "", ""), comment(7, 1, 50, "", "")},
		2: {comment(5, 2, 50, "", ""), comment(3, 2, 60, "", "")},
	}

	got := AggregateRecentComments(posts, perPost, 10)

	assert.Equal(t, []int64{3, 7, 5, 4}, ids(got))
}

func TestAggregateRecentComments_Limits(t *testing.T) {
	posts := []domain.Post{{ID: 1}}
	perPost := map[int64][]domain.Comment{
		1: {comment(1, 1, 1, "", ""), comment(2, 1, 2, "", "")},
	}

	for _, limit := range []int{0, -1} {
		got := AggregateRecentComments(posts, perPost, limit)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}

	assert.Len(t, AggregateRecentComments(posts, perPost, 100), 2)
	assert.Empty(t, AggregateRecentComments(nil, perPost, 5))
	assert.NotNil(t, AggregateRecentComments(nil, nil, 5))
}

func TestAggregateRecentComments_IgnoresUnlistedPosts(t *testing.T) {
	posts := []domain.Post{{ID: 1}, {ID: 1}}
	perPost := map[int64][]domain.Comment{
		1: {comment(1, 1, 1, "", "")},
		9: {comment(2, 9, 99, "", "")},
	}

	got := AggregateRecentComments(posts, perPost, 10)

	assert.Equal(t, []int64{1}, ids(got), "duplicate posts are merged once, post 9 is not listed")
}

func TestAggregateRecentComments_DoesNotMutateInput(t *testing.T) {
	posts := []domain.Post{{ID: 1}}
	original := []domain.Comment{comment(1, 1, 1, "", ""), comment(2, 1, 2, "", "")}
	perPost := map[int64][]domain.Comment{1: original}

	first := AggregateRecentComments(posts, perPost, 10)
	second := AggregateRecentComments(posts, perPost, 10)

	assert.Equal(t, int64(1), original[0].ID)
	assert.Equal(t, first, second)
}

func TestFilterComments(t *testing.T) {
	entries := []Entry{
		{Comment: comment(1, 1, 1, "Great write-up on Go generics", "ann"), PostTitle: "Generics"},
		{Comment: comment(2, 1, 2, "thanks", "Bob Builder"), PostTitle: "Generics"},
		{Comment: comment(3, 2, 3, "meh", "cat"), PostTitle: "Docker Tips"},
	}

	assert.Equal(t, []int64{1}, ids(FilterComments(entries, "GO GEN")))
	assert.Equal(t, []int64{2}, ids(FilterComments(entries, "builder")))
	assert.Equal(t, []int64{3}, ids(FilterComments(entries, "docker")))
	assert.Equal(t, []int64{1, 2}, ids(FilterComments(entries, "generics")))
	assert.Len(t, FilterComments(entries, "  "), 3)
	assert.Empty(t, FilterComments(entries, "nothing matches"))
}
