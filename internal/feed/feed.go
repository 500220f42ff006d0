// Package feed merges comments from several posts into one recency-ordered feed.
package feed

import (
	"cmp"
	"slices"
	"strings"

	"github.com/penwellapp/penwell-server/internal/domain"
)

// Entry is a comment annotated with the post it belongs to.
type Entry struct {
	domain.Comment
	PostTitle string `json:"post_title"`
	PostSlug  string `json:"post_slug"`
}

// AggregateRecentComments merges the comments of posts into one sequence, newest
// first, ties broken by higher comment id first, truncated to limit.
// Comments keyed by a post that is not in posts are ignored. A limit of zero or
// less yields an empty feed. The inputs are not modified.
func AggregateRecentComments(posts []domain.Post, perPost map[int64][]domain.Comment, limit int) []Entry {
	if limit <= 0 {
		return []Entry{}
	}

	var entries []Entry
	seen := make(map[int64]bool, len(posts))
	for _, p := range posts {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true

		for _, c := range perPost[p.ID] {
			entries = append(entries, Entry{Comment: c, PostTitle: p.Title, PostSlug: p.Slug})
		}
	}

	slices.SortStableFunc(entries, newestFirst)

	if len(entries) > limit {
		entries = entries[:limit]
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries
}

func newestFirst(a, b Entry) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}

// FilterComments keeps entries whose content, author name or post title
// contains term, ignoring case. A blank term keeps everything.
func FilterComments(entries []Entry, term string) []Entry {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return entries
	}

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Content), term) ||
			strings.Contains(strings.ToLower(e.UserName), term) ||
			strings.Contains(strings.ToLower(e.PostTitle), term) {
			out = append(out, e)
		}
	}
	return out
}
