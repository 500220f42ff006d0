// Package listing computes pagination and the filter/sort scope for every listing
// endpoint. Nothing in this package performs I/O; the store turns a FilterSpec and a
// Page into a query.
package listing

import (
	"math"

	domainerrors "github.com/penwellapp/penwell-server/internal/errors"
)

const (
	// DefaultLimit is the page size when the request does not specify one.
	DefaultLimit = 10
	// CompactLimit is the default page size for category and author listings.
	CompactLimit = 6
	// MaxLimit caps the page size a client can request.
	MaxLimit = 100
)

// Page is the outcome of pagination math for one request.
type Page struct {
	Offset     int
	Page       int
	Limit      int
	TotalCount int
	TotalPages int
}

// Paginate computes offset and page totals.
// A page below 1 is clamped to 1. A limit below 1 is an InvalidArgument error,
// as is a page whose offset (plus one page of items) does not fit in an int.
// Other pages past the end are allowed and simply select nothing.
func Paginate(totalCount, page, limit int) (Page, error) {
	if limit < 1 {
		return Page{}, domainerrors.InvalidArgumentf("limit must be at least 1, got %d", limit)
	}
	if page < 1 {
		page = 1
	}
	if page-1 > (math.MaxInt-limit)/limit {
		return Page{}, domainerrors.InvalidArgumentf("page %d is out of range", page)
	}
	if totalCount < 0 {
		totalCount = 0
	}

	totalPages := 0
	if totalCount > 0 {
		totalPages = (totalCount + limit - 1) / limit
	}

	return Page{
		Offset:     (page - 1) * limit,
		Page:       page,
		Limit:      limit,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}, nil
}

// HasNext reports whether a page follows this one.
func (p Page) HasNext() bool {
	return p.Page < p.TotalPages
}

// HasPrev reports whether a page precedes this one.
func (p Page) HasPrev() bool {
	return p.Page > 1 && p.TotalPages > 0
}

// PageRequest carries the raw page and limit from a request.
type PageRequest struct {
	Page  int
	Limit int
}

// NewPageRequest fills in defaults: a zero page becomes 1 and a zero limit becomes
// defaultLimit. Limits above MaxLimit are capped. Negative limits are kept so that
// Paginate rejects them.
func NewPageRequest(page, limit, defaultLimit int) PageRequest {
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return PageRequest{Page: page, Limit: limit}
}

// Paginate applies the request to a total count.
func (r PageRequest) Paginate(totalCount int) (Page, error) {
	return Paginate(totalCount, r.Page, r.Limit)
}

// Slice returns the items of an in-memory sequence that fall on page p.
func Slice[T any](items []T, p Page) []T {
	if p.Offset < 0 || p.Offset >= len(items) || p.Limit < 1 {
		return []T{}
	}
	end := min(p.Offset+p.Limit, len(items))
	return items[p.Offset:end]
}

// Pagination is the pagination block of a listing response.
type Pagination struct {
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalCount int        `json:"totalCount"`
	TotalPages int        `json:"totalPages"`
	HasNext    bool       `json:"hasNext"`
	HasPrev    bool       `json:"hasPrev"`
	Pages      []PageLink `json:"pages"`
}

// Result is the response shape of every listing endpoint.
type Result[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// NewResult builds a listing response. Items is never nil.
func NewResult[T any](items []T, p Page) Result[T] {
	if items == nil {
		items = []T{}
	}
	return Result[T]{
		Items: items,
		Pagination: Pagination{
			Page:       p.Page,
			Limit:      p.Limit,
			TotalCount: p.TotalCount,
			TotalPages: p.TotalPages,
			HasNext:    p.HasNext(),
			HasPrev:    p.HasPrev(),
			Pages:      Window(p.Page, p.TotalPages),
		},
	}
}
