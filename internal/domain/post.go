package domain

import "time"

// CategoryRef is the short form of a category embedded in a post.
type CategoryRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Post is a blog article. Content is markdown.
type Post struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Slug       string    `json:"slug"`
	CoverImage string    `json:"cover_image,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Populated on read.
	AuthorName   string        `json:"author_name,omitempty"`
	Excerpt      string        `json:"excerpt,omitempty"`
	Categories   []CategoryRef `json:"categories"`
	CategoryIDs  []int64       `json:"category_ids"` // ids of Categories, same order
	CommentCount int           `json:"comment_count"`
}
