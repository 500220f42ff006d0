package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/penwellapp/penwell-server/internal/domain"
	"github.com/penwellapp/penwell-server/internal/store"
)

// categoryColumns must match the scan order in scanCategory.
const categoryColumns = `c.id, c.name, c.description, c.created_at,
	(SELECT COUNT(*) FROM post_categories pc WHERE pc.category_id = c.id)`

func scanCategory(scanner interface{ Scan(dest ...any) error }) (*domain.Category, error) {
	var (
		c         domain.Category
		createdAt string
	)
	if err := scanner.Scan(&c.ID, &c.Name, &c.Description, &createdAt, &c.PostCount); err != nil {
		return nil, err
	}

	var err error
	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCategory inserts a category.
// Returns store.ErrAlreadyExists if the name is taken.
func (s *Store) CreateCategory(ctx context.Context, category *domain.Category) error {
	now := s.now().UTC()

	err := s.queryRow(ctx, s.db, `
		INSERT INTO categories (name, description, created_at)
		VALUES (?, ?, ?)
		RETURNING id`,
		category.Name, category.Description, formatTime(now),
	).Scan(&category.ID)
	if err != nil {
		return s.translate(err)
	}

	category.CreatedAt = now
	category.PostCount = 0
	return nil
}

// GetCategory retrieves a category with its post count.
func (s *Store) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	c, err := scanCategory(s.queryRow(ctx, s.db, `SELECT `+categoryColumns+` FROM categories c WHERE c.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return c, err
}

// UpdateCategory writes name and description.
func (s *Store) UpdateCategory(ctx context.Context, category *domain.Category) error {
	res, err := s.exec(ctx, s.db, `UPDATE categories SET name = ?, description = ? WHERE id = ?`,
		category.Name, category.Description, category.ID)
	if err != nil {
		return s.translate(err)
	}
	return mustAffect(res)
}

// DeleteCategory removes a category and its post associations. Posts stay.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	res, err := s.exec(ctx, s.db, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return mustAffect(res)
}

// ListCategories returns every category ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.query(ctx, `SELECT `+categoryColumns+` FROM categories c ORDER BY c.name, c.id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

// CountCategories returns the number of categories.
func (s *Store) CountCategories(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM categories`)
}
