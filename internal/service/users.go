package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/penwellapp/penwell-server/internal/auth"
	"github.com/penwellapp/penwell-server/internal/domain"
	domainerrors "github.com/penwellapp/penwell-server/internal/errors"
	"github.com/penwellapp/penwell-server/internal/policy"
	"github.com/penwellapp/penwell-server/internal/store"
	"github.com/penwellapp/penwell-server/internal/validation"
)

// UserService manages accounts after registration.
type UserService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(store store.Store, logger *slog.Logger) *UserService {
	return &UserService{
		store:     store,
		validator: validation.New(),
		logger:    logger,
	}
}

// UpdateUserRequest is a partial update. A nil field leaves the stored value
// unchanged.
type UpdateUserRequest struct {
	Name     *string      `json:"name,omitempty" validate:"omitempty,notblank,max=100"`
	Email    *string      `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Password *string      `json:"password,omitempty" validate:"omitempty,min=6,max=1024"`
	Role     *domain.Role `json:"role,omitempty" validate:"omitempty,oneof=admin user"`
}

// List returns every account, newest first. Admin only.
func (s *UserService) List(ctx context.Context, actor policy.Actor) ([]domain.User, error) {
	if !policy.CanPerform(actor, policy.ActionRead, policy.UserDirectory{}) {
		return nil, domainerrors.Forbidden("only admins can list users")
	}
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Get returns a single account.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, translate(err, "user")
	}
	return user, nil
}

// Update changes an account. Users may edit themselves and admins anyone;
// a role change requested by a non-admin is ignored.
func (s *UserService) Update(ctx context.Context, actor policy.Actor, id int64, req UpdateUserRequest) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, translate(err, "user")
	}
	if !policy.CanPerform(actor, policy.ActionUpdate, policy.User{OwnerID: user.ID}) {
		return nil, forbidden("update", "user")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		user.Email = normalizeEmail(*req.Email)
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	previousRole := user.Role
	user.Role = policy.EffectiveRole(actor, user.Role, req.Role)

	if err := s.store.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("email is already in use")
		}
		return nil, translate(err, "user")
	}

	if user.Role != previousRole {
		s.logger.Info("user role changed", "user_id", user.ID, "role", user.Role, "by", actor.ID)
	}
	s.logger.Info("user updated", "user_id", user.ID)
	return user, nil
}

// Delete removes an account together with its posts and comments.
func (s *UserService) Delete(ctx context.Context, actor policy.Actor, id int64) error {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return translate(err, "user")
	}
	if !policy.CanPerform(actor, policy.ActionDelete, policy.User{OwnerID: user.ID}) {
		return forbidden("delete", "user")
	}
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return translate(err, "user")
	}

	s.logger.Info("user deleted", "user_id", id, "by", actor.ID)
	return nil
}
