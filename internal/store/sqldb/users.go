package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/penwellapp/penwell-server/internal/domain"
	"github.com/penwellapp/penwell-server/internal/store"
)

// userColumns must match the scan order in scanUser.
const userColumns = `id, name, email, password_hash, role, created_at, updated_at`

func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var (
		u         domain.User
		role      string
		createdAt string
		updatedAt string
	)

	if err := scanner.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)

	var err error
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a user and sets its id and timestamps.
// Returns store.ErrAlreadyExists if the email is taken.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	now := s.now().UTC()

	err := s.queryRow(ctx, s.db, `
		INSERT INTO users (name, email, password_hash, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`,
		user.Name, user.Email, user.PasswordHash, string(user.Role), formatTime(now), formatTime(now),
	).Scan(&user.ID)
	if err != nil {
		return s.translate(err)
	}

	user.CreatedAt, user.UpdatedAt = now, now
	return nil
}

// RegisterUser inserts a self-registered user. The role is decided in the
// same statement as the insert: admin when the table is empty, user
// otherwise, so two concurrent first registrations cannot both become admin.
// user.Role is set to the stored role.
// Returns store.ErrAlreadyExists if the email is taken.
func (s *Store) RegisterUser(ctx context.Context, user *domain.User) error {
	now := s.now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if s.dialect.lockUsers != "" {
		if _, err := tx.ExecContext(ctx, s.dialect.lockUsers); err != nil {
			return fmt.Errorf("lock users: %w", err)
		}
	}

	var role string
	err = s.queryRow(ctx, tx, `
		INSERT INTO users (name, email, password_hash, role, created_at, updated_at)
		SELECT ?, ?, ?, CASE WHEN EXISTS (SELECT 1 FROM users) THEN ? ELSE ? END, ?, ?
		RETURNING id, role`,
		user.Name, user.Email, user.PasswordHash,
		string(domain.RoleUser), string(domain.RoleAdmin),
		formatTime(now), formatTime(now),
	).Scan(&user.ID, &role)
	if err != nil {
		return s.translate(err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	user.Role = domain.Role(role)
	user.CreatedAt, user.UpdatedAt = now, now
	return nil
}

// GetUser retrieves a user by id.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	u, err := scanUser(s.queryRow(ctx, s.db, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return u, err
}

// GetUserByEmail retrieves a user by exact email. Callers normalize case.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(s.queryRow(ctx, s.db, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return u, err
}

// UpdateUser writes name, email, password hash and role, and bumps updated_at.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	now := s.now().UTC()

	res, err := s.exec(ctx, s.db, `
		UPDATE users SET name = ?, email = ?, password_hash = ?, role = ?, updated_at = ?
		WHERE id = ?`,
		user.Name, user.Email, user.PasswordHash, string(user.Role), formatTime(now), user.ID,
	)
	if err != nil {
		return s.translate(err)
	}
	if err := mustAffect(res); err != nil {
		return err
	}

	user.UpdatedAt = now
	return nil
}

// DeleteUser removes a user. Their posts and comments cascade.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.exec(ctx, s.db, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return mustAffect(res)
}

// ListUsers returns every user, newest first.
func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// CountUsers returns the number of users.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM users`)
}

func (s *Store) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := s.queryRow(ctx, s.db, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}
