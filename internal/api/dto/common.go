// Package dto provides request parameter types shared by several Penwell API
// operations. huma reads the struct tags to bind query parameters and build
// the OpenAPI document.
package dto

import (
	"github.com/penwellapp/penwell-server/internal/listing"
)

// ListParams are the paging and ordering parameters of every listing.
type ListParams struct {
	Page      int    `query:"page" doc:"Page number, starting at 1 (default 1)"`
	Limit     int    `query:"limit" doc:"Items per page (default depends on the listing, max 100)"`
	Sort      string `query:"sort" doc:"Sort field: createdAt or title (default createdAt)"`
	Direction string `query:"direction" doc:"Sort direction: asc or desc (default desc)"`
	Toggle    string `query:"toggle" doc:"Sort field to toggle: the current field flips direction, another field sorts descending. Resets to page 1"`
}

// State resolves the parameters against a selector into a listing state.
func (p ListParams) State(sel listing.Selector) (listing.State, error) {
	sort, err := listing.ParseSort(p.Sort, p.Direction)
	if err != nil {
		return listing.State{}, err
	}
	state := listing.NewState()
	state.Selector = sel
	state.Sort = sort
	state = state.GoTo(p.Page)

	if p.Toggle != "" {
		toggled, err := listing.ParseSort(p.Toggle, "")
		if err != nil {
			return listing.State{}, err
		}
		state = state.ToggleSort(toggled.Field)
	}
	return state, nil
}

// PageRequest returns the page to fetch for state, with defaultLimit applied
// when no limit was given.
func (p ListParams) PageRequest(state listing.State, defaultLimit int) listing.PageRequest {
	return listing.NewPageRequest(state.Page, p.Limit, defaultLimit)
}

// PostFilterParams select which posts a listing covers. At most one may be set.
type PostFilterParams struct {
	Search     string `query:"search" doc:"Case-insensitive match on title or content"`
	CategoryID int64  `query:"categoryId" doc:"Only posts in this category"`
	UserID     int64  `query:"userId" doc:"Only posts by this author"`
}

// Selector builds the selector for the filter parameters.
func (f PostFilterParams) Selector() (listing.Selector, error) {
	return listing.NewSelector(f.CategoryID, f.UserID, f.Search)
}
