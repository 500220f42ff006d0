package listing

import (
	"strings"

	domainerrors "github.com/penwellapp/penwell-server/internal/errors"
)

// ScopeKind identifies which subset of posts a listing covers.
type ScopeKind int

const (
	// ScopeAll lists every post.
	ScopeAll ScopeKind = iota
	// ScopeCategory lists posts associated with one category.
	ScopeCategory
	// ScopeUser lists posts owned by one user.
	ScopeUser
	// ScopeSearch lists posts whose title or content contains a term.
	ScopeSearch
)

// String returns the scope name used in logs.
func (k ScopeKind) String() string {
	switch k {
	case ScopeCategory:
		return "category"
	case ScopeUser:
		return "user"
	case ScopeSearch:
		return "search"
	default:
		return "all"
	}
}

// Selector picks the subset of posts a listing covers. Exactly one scope is active.
// Build it with All, ByCategory, ByUser, BySearchTerm or NewSelector.
type Selector struct {
	kind       ScopeKind
	categoryID int64
	userID     int64
	term       string
}

// All selects every post.
func All() Selector {
	return Selector{kind: ScopeAll}
}

// ByCategory selects posts in a category.
func ByCategory(categoryID int64) Selector {
	return Selector{kind: ScopeCategory, categoryID: categoryID}
}

// ByUser selects posts owned by a user.
func ByUser(userID int64) Selector {
	return Selector{kind: ScopeUser, userID: userID}
}

// BySearchTerm selects posts whose title or content contains term, ignoring case.
func BySearchTerm(term string) Selector {
	return Selector{kind: ScopeSearch, term: term}
}

// NewSelector builds a selector from optional request inputs. Zero values mean
// "not given". More than one given input is an InvalidArgument error.
func NewSelector(categoryID, userID int64, term string) (Selector, error) {
	var (
		sel   = All()
		count int
	)
	if categoryID != 0 {
		sel = ByCategory(categoryID)
		count++
	}
	if userID != 0 {
		sel = ByUser(userID)
		count++
	}
	if strings.TrimSpace(term) != "" {
		sel = BySearchTerm(term)
		count++
	}
	if count > 1 {
		return Selector{}, domainerrors.InvalidArgument("only one of categoryId, userId or search may be given")
	}
	return sel, nil
}

// Kind returns the active scope.
func (s Selector) Kind() ScopeKind { return s.kind }

// CategoryID returns the category id for ScopeCategory.
func (s Selector) CategoryID() int64 { return s.categoryID }

// UserID returns the owner id for ScopeUser.
func (s Selector) UserID() int64 { return s.userID }

// Term returns the search term for ScopeSearch.
func (s Selector) Term() string { return s.term }

// SortField is a column a listing can be ordered by.
type SortField string

const (
	// SortCreatedAt orders by creation time.
	SortCreatedAt SortField = "createdAt"
	// SortTitle orders by title.
	SortTitle SortField = "title"
)

// Direction is an ordering direction.
type Direction string

const (
	// Asc orders ascending.
	Asc Direction = "asc"
	// Desc orders descending.
	Desc Direction = "desc"
)

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

// Sort is an ordering for a listing.
type Sort struct {
	Field     SortField `json:"field"`
	Direction Direction `json:"direction"`
}

// DefaultSort is newest first.
func DefaultSort() Sort {
	return Sort{Field: SortCreatedAt, Direction: Desc}
}

// ParseSort reads a sort from request strings. Empty strings take the defaults;
// "created_at" is accepted for createdAt.
func ParseSort(field, direction string) (Sort, error) {
	sort := DefaultSort()

	switch strings.ToLower(strings.TrimSpace(field)) {
	case "":
	case "createdat", "created_at":
		sort.Field = SortCreatedAt
	case "title":
		sort.Field = SortTitle
	default:
		return Sort{}, domainerrors.InvalidArgumentf("unknown sort field %q (must be title or createdAt)", field)
	}

	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "":
	case "asc":
		sort.Direction = Asc
	case "desc":
		sort.Direction = Desc
	default:
		return Sort{}, domainerrors.InvalidArgumentf("unknown sort direction %q (must be asc or desc)", direction)
	}

	return sort, nil
}

// FilterSpec is the declarative description of a listing the store translates
// into a query.
type FilterSpec struct {
	Selector Selector
	Sort     Sort
}

// ResolveScope validates a selector and sort and returns the filter to query with.
// Search terms are trimmed; an empty term is an InvalidArgument error. Category
// and user ids must be positive. Missing sort values take the defaults.
func ResolveScope(sel Selector, sort Sort) (FilterSpec, error) {
	switch sel.kind {
	case ScopeAll:
	case ScopeCategory:
		if sel.categoryID <= 0 {
			return FilterSpec{}, domainerrors.InvalidArgumentf("invalid category id %d", sel.categoryID)
		}
	case ScopeUser:
		if sel.userID <= 0 {
			return FilterSpec{}, domainerrors.InvalidArgumentf("invalid user id %d", sel.userID)
		}
	case ScopeSearch:
		sel.term = strings.TrimSpace(sel.term)
		if sel.term == "" {
			return FilterSpec{}, domainerrors.InvalidArgument("search term is required")
		}
	default:
		return FilterSpec{}, domainerrors.InvalidArgument("unknown listing scope")
	}

	if sort.Field == "" {
		sort.Field = SortCreatedAt
	}
	if sort.Direction == "" {
		sort.Direction = Desc
	}
	if sort.Field != SortCreatedAt && sort.Field != SortTitle {
		return FilterSpec{}, domainerrors.InvalidArgumentf("unknown sort field %q", sort.Field)
	}
	if sort.Direction != Asc && sort.Direction != Desc {
		return FilterSpec{}, domainerrors.InvalidArgumentf("unknown sort direction %q", sort.Direction)
	}

	return FilterSpec{Selector: sel, Sort: sort}, nil
}
