package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/penwellapp/penwell-server/internal/domain"
	"github.com/penwellapp/penwell-server/internal/listing"
	"github.com/penwellapp/penwell-server/internal/store"
)

// postColumns must match the scan order in scanPost.
const postColumns = `p.id, p.user_id, p.title, p.content, p.slug, p.cover_image, p.created_at, p.updated_at,
	u.name, (SELECT COUNT(*) FROM comments cm WHERE cm.post_id = p.id)`

const postFrom = ` FROM posts p JOIN users u ON u.id = p.user_id`

func scanPost(scanner interface{ Scan(dest ...any) error }) (*domain.Post, error) {
	var (
		p         domain.Post
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.Content,
		&p.Slug,
		&p.CoverImage,
		&createdAt,
		&updatedAt,
		&p.AuthorName,
		&p.CommentCount,
	)
	if err != nil {
		return nil, err
	}

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	p.Categories = []domain.CategoryRef{}
	p.CategoryIDs = []int64{}
	return &p, nil
}

// scopeFilter translates a selector into a WHERE clause and its arguments.
// Search folds both the columns and the pattern with the dialect's lowercase
// function so non-ASCII letters compare the same way on both sides.
func (d dialect) scopeFilter(sel listing.Selector) (string, []any) {
	switch sel.Kind() {
	case listing.ScopeCategory:
		return ` WHERE EXISTS (SELECT 1 FROM post_categories pc WHERE pc.post_id = p.id AND pc.category_id = ?)`,
			[]any{sel.CategoryID()}
	case listing.ScopeUser:
		return ` WHERE p.user_id = ?`, []any{sel.UserID()}
	case listing.ScopeSearch:
		pattern := "%" + escapeLike(sel.Term()) + "%"
		match := func(column string) string {
			return d.lower + "(" + column + ") LIKE " + d.lower + "(?) ESCAPE '\\'"
		}
		return ` WHERE (` + match("p.title") + ` OR ` + match("p.content") + `)`,
			[]any{pattern, pattern}
	default:
		return "", nil
	}
}

// escapeLike makes LIKE wildcards in user input match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// orderBy builds the ORDER BY clause. Only whitelisted columns are emitted;
// id breaks ties so pages never overlap.
func (d dialect) orderBy(sort listing.Sort) string {
	dir := "DESC"
	if sort.Direction == listing.Asc {
		dir = "ASC"
	}

	column := "p.created_at"
	if sort.Field == listing.SortTitle {
		column = d.lower + "(p.title)"
	}
	return " ORDER BY " + column + " " + dir + ", p.id " + dir
}

// ListPosts returns one page of posts matching spec, with categories loaded.
func (s *Store) ListPosts(ctx context.Context, spec listing.FilterSpec, page listing.Page) ([]domain.Post, error) {
	where, args := s.dialect.scopeFilter(spec.Selector)
	args = append(args, page.Limit, page.Offset)

	rows, err := s.query(ctx, `SELECT `+postColumns+postFrom+where+s.dialect.orderBy(spec.Sort)+` LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadCategories(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CountPosts returns how many posts the selector matches.
func (s *Store) CountPosts(ctx context.Context, sel listing.Selector) (int, error) {
	where, args := s.dialect.scopeFilter(sel)
	return s.count(ctx, `SELECT COUNT(*) FROM posts p`+where, args...)
}

// GetPost retrieves a post by id.
func (s *Store) GetPost(ctx context.Context, id int64) (*domain.Post, error) {
	return s.getPost(ctx, `p.id = ?`, id)
}

// GetPostBySlug retrieves a post by slug.
func (s *Store) GetPostBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	return s.getPost(ctx, `p.slug = ?`, slug)
}

func (s *Store) getPost(ctx context.Context, cond string, arg any) (*domain.Post, error) {
	p, err := scanPost(s.queryRow(ctx, s.db, `SELECT `+postColumns+postFrom+` WHERE `+cond, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	one := []domain.Post{*p}
	if err := s.loadCategories(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// SlugExists reports whether a post other than excludeID uses slug.
func (s *Store) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	n, err := s.count(ctx, `SELECT COUNT(*) FROM posts WHERE slug = ? AND id <> ?`, slug, excludeID)
	return n > 0, err
}

// CreatePost inserts a post and its category associations in one transaction.
// Returns store.ErrAlreadyExists for a duplicate slug and
// store.ErrInvalidReference for an unknown user or category.
func (s *Store) CreatePost(ctx context.Context, post *domain.Post, categoryIDs []int64) error {
	now := s.now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	err = s.queryRow(ctx, tx, `
		INSERT INTO posts (user_id, title, content, slug, cover_image, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		post.UserID, post.Title, post.Content, post.Slug, post.CoverImage, formatTime(now), formatTime(now),
	).Scan(&post.ID)
	if err != nil {
		return s.translate(err)
	}

	if err := s.insertPostCategories(ctx, tx, post.ID, categoryIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	post.CreatedAt, post.UpdatedAt = now, now
	return nil
}

// UpdatePost writes the post's editable columns. A non-nil categoryIDs
// replaces the associations in the same transaction.
func (s *Store) UpdatePost(ctx context.Context, post *domain.Post, categoryIDs []int64) error {
	now := s.now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := s.exec(ctx, tx, `
		UPDATE posts SET title = ?, content = ?, slug = ?, cover_image = ?, updated_at = ?
		WHERE id = ?`,
		post.Title, post.Content, post.Slug, post.CoverImage, formatTime(now), post.ID,
	)
	if err != nil {
		return s.translate(err)
	}
	if err := mustAffect(res); err != nil {
		return err
	}

	if categoryIDs != nil {
		if _, err := s.exec(ctx, tx, `DELETE FROM post_categories WHERE post_id = ?`, post.ID); err != nil {
			return fmt.Errorf("delete post_categories: %w", err)
		}
		if err := s.insertPostCategories(ctx, tx, post.ID, categoryIDs); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	post.UpdatedAt = now
	return nil
}

func (s *Store) insertPostCategories(ctx context.Context, tx *sql.Tx, postID int64, categoryIDs []int64) error {
	seen := make(map[int64]bool, len(categoryIDs))
	for _, categoryID := range categoryIDs {
		if seen[categoryID] {
			continue
		}
		seen[categoryID] = true

		if _, err := s.exec(ctx, tx, `INSERT INTO post_categories (post_id, category_id) VALUES (?, ?)`, postID, categoryID); err != nil {
			return s.translate(err)
		}
	}
	return nil
}

// DeletePost removes a post. Comments and category associations cascade.
func (s *Store) DeletePost(ctx context.Context, id int64) error {
	res, err := s.exec(ctx, s.db, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return mustAffect(res)
}

// loadCategories fills Categories for each post with one query.
func (s *Store) loadCategories(ctx context.Context, posts []domain.Post) error {
	if len(posts) == 0 {
		return nil
	}

	index := make(map[int64]int, len(posts))
	ids := make([]int64, len(posts))
	for i := range posts {
		index[posts[i].ID] = i
		ids[i] = posts[i].ID
	}

	for _, batch := range chunk(ids) {
		if err := s.loadCategoryBatch(ctx, batch, posts, index); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) loadCategoryBatch(ctx context.Context, ids []int64, posts []domain.Post, index map[int64]int) error {
	rows, err := s.query(ctx, `
		SELECT pc.post_id, c.id, c.name
		FROM post_categories pc JOIN categories c ON c.id = pc.category_id
		WHERE pc.post_id IN (`+placeholders(len(ids))+`)
		ORDER BY c.name, c.id`, int64Args(ids)...)
	if err != nil {
		return fmt.Errorf("load post categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			postID int64
			ref    domain.CategoryRef
		)
		if err := rows.Scan(&postID, &ref.ID, &ref.Name); err != nil {
			return fmt.Errorf("scan post category: %w", err)
		}
		if i, ok := index[postID]; ok {
			posts[i].Categories = append(posts[i].Categories, ref)
			posts[i].CategoryIDs = append(posts[i].CategoryIDs, ref.ID)
		}
	}
	return rows.Err()
}

// chunk splits ids into batches small enough for any driver's placeholder limit.
func chunk(ids []int64) [][]int64 {
	return slices.Collect(slices.Chunk(ids, 500))
}
