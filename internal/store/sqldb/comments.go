package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/penwellapp/penwell-server/internal/domain"
	"github.com/penwellapp/penwell-server/internal/store"
)

// commentColumns must match the scan order in scanComment.
const commentColumns = `cm.id, cm.post_id, cm.user_id, cm.content, cm.created_at, cm.updated_at, u.name`

const commentFrom = ` FROM comments cm JOIN users u ON u.id = cm.user_id`

func scanComment(scanner interface{ Scan(dest ...any) error }) (*domain.Comment, error) {
	var (
		c         domain.Comment
		createdAt string
		updatedAt string
	)
	if err := scanner.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &createdAt, &updatedAt, &c.UserName); err != nil {
		return nil, err
	}

	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateComment inserts a comment.
// Returns store.ErrInvalidReference if the post or user is missing.
func (s *Store) CreateComment(ctx context.Context, comment *domain.Comment) error {
	now := s.now().UTC()

	err := s.queryRow(ctx, s.db, `
		INSERT INTO comments (post_id, user_id, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`,
		comment.PostID, comment.UserID, comment.Content, formatTime(now), formatTime(now),
	).Scan(&comment.ID)
	if err != nil {
		return s.translate(err)
	}

	comment.CreatedAt, comment.UpdatedAt = now, now
	return nil
}

// GetComment retrieves a comment with its author's name.
func (s *Store) GetComment(ctx context.Context, id int64) (*domain.Comment, error) {
	c, err := scanComment(s.queryRow(ctx, s.db, `SELECT `+commentColumns+commentFrom+` WHERE cm.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return c, err
}

// UpdateComment writes the content and bumps updated_at.
func (s *Store) UpdateComment(ctx context.Context, comment *domain.Comment) error {
	now := s.now().UTC()

	res, err := s.exec(ctx, s.db, `UPDATE comments SET content = ?, updated_at = ? WHERE id = ?`,
		comment.Content, formatTime(now), comment.ID)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	if err := mustAffect(res); err != nil {
		return err
	}

	comment.UpdatedAt = now
	return nil
}

// DeleteComment removes a comment.
func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	res, err := s.exec(ctx, s.db, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return mustAffect(res)
}

// ListCommentsByPost returns a post's comments, newest first.
func (s *Store) ListCommentsByPost(ctx context.Context, postID int64) ([]domain.Comment, error) {
	rows, err := s.query(ctx, `SELECT `+commentColumns+commentFrom+`
		WHERE cm.post_id = ?
		ORDER BY cm.created_at DESC, cm.id DESC`, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

// ListCommentsForPosts returns the comments of several posts keyed by post id.
// Posts without comments have no entry.
func (s *Store) ListCommentsForPosts(ctx context.Context, postIDs []int64) (map[int64][]domain.Comment, error) {
	out := make(map[int64][]domain.Comment)

	for _, batch := range chunk(postIDs) {
		rows, err := s.query(ctx, `SELECT `+commentColumns+commentFrom+`
			WHERE cm.post_id IN (`+placeholders(len(batch))+`)
			ORDER BY cm.created_at DESC, cm.id DESC`, int64Args(batch)...)
		if err != nil {
			return nil, fmt.Errorf("list comments for posts: %w", err)
		}

		for rows.Next() {
			c, err := scanComment(rows)
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan comment: %w", err)
			}
			out[c.PostID] = append(out[c.PostID], *c)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// CountComments returns the number of comments.
func (s *Store) CountComments(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM comments`)
}
