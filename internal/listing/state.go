package listing

import "strings"

// State is a listing as a client navigates it: what is selected, how it is
// ordered and which page is shown. Transitions return a new State.
type State struct {
	Selector Selector
	Sort     Sort
	Page     int
}

// NewState starts a listing of every post, newest first, on page 1.
func NewState() State {
	return State{Selector: All(), Sort: DefaultSort(), Page: 1}
}

// ToggleSort orders by field. Choosing the current field flips the direction;
// a different field starts descending. The page goes back to 1.
func (s State) ToggleSort(field SortField) State {
	if s.Sort.Field == field {
		s.Sort.Direction = s.Sort.Direction.Flip()
	} else {
		s.Sort = Sort{Field: field, Direction: Desc}
	}
	s.Page = 1
	return s
}

// Search switches to a search for term, or back to all posts when term is blank.
// The page goes back to 1.
func (s State) Search(term string) State {
	if strings.TrimSpace(term) == "" {
		s.Selector = All()
	} else {
		s.Selector = BySearchTerm(term)
	}
	s.Page = 1
	return s
}

// GoTo moves to another page of the same listing.
func (s State) GoTo(page int) State {
	s.Page = max(1, page)
	return s
}

// Resolve validates the state and returns the filter to query with.
func (s State) Resolve() (FilterSpec, error) {
	return ResolveScope(s.Selector, s.Sort)
}
