package api

import (
	"context"
	"strings"

	"github.com/penwellapp/penwell-server/internal/api/dto"
	"github.com/penwellapp/penwell-server/internal/domain"
	domainerrors "github.com/penwellapp/penwell-server/internal/errors"
	"github.com/penwellapp/penwell-server/internal/listing"
	"github.com/penwellapp/penwell-server/internal/policy"
	"github.com/penwellapp/penwell-server/internal/service"
)

// authenticateRequest validates a bearer token and returns the user it names.
func (s *Server) authenticateRequest(ctx context.Context, authHeader string) (*domain.User, error) {
	if authHeader == "" {
		return nil, domainerrors.Unauthorized("missing authorization header")
	}

	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return nil, domainerrors.Unauthorized("invalid authorization header format")
	}

	return s.services.Auth.Authenticate(ctx, strings.TrimSpace(token))
}

// actor authenticates the request and returns the policy actor.
func (s *Server) actor(ctx context.Context, authHeader string) (policy.Actor, error) {
	user, err := s.authenticateRequest(ctx, authHeader)
	if err != nil {
		return policy.Anonymous(), err
	}
	return policy.ActorFor(user), nil
}

// postQuery turns request parameters into a post listing query.
func postQuery(params dto.ListParams, sel listing.Selector, defaultLimit int) (service.ListPostsQuery, error) {
	state, err := params.State(sel)
	if err != nil {
		return service.ListPostsQuery{}, err
	}
	spec, err := state.Resolve()
	if err != nil {
		return service.ListPostsQuery{}, err
	}
	return service.ListPostsQuery{
		Selector: spec.Selector,
		Sort:     spec.Sort,
		Page:     params.PageRequest(state, defaultLimit),
	}, nil
}
