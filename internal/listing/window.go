package listing

// windowSize is the most numbered links a pager shows, first and last included.
const windowSize = 5

// PageLink is one entry of a pager: either a page number or a gap marker.
type PageLink struct {
	Number  int  `json:"number,omitempty"`
	Current bool `json:"current,omitempty"`
	Gap     bool `json:"gap,omitempty"`
}

// Window returns the pager entries for the current page. The first and last pages
// are always present; the current page is shown with one neighbour on each side,
// and skipped ranges collapse into a single gap.
func Window(current, totalPages int) []PageLink {
	if totalPages <= 0 {
		return []PageLink{}
	}
	current = max(1, min(current, totalPages))

	link := func(n int) PageLink {
		return PageLink{Number: n, Current: n == current}
	}

	links := make([]PageLink, 0, windowSize+2)
	if totalPages <= windowSize {
		for n := 1; n <= totalPages; n++ {
			links = append(links, link(n))
		}
		return links
	}

	links = append(links, link(1))

	start := max(2, current-1)
	end := min(totalPages-1, current+1)
	switch {
	case current <= 2:
		end = min(totalPages-1, windowSize-1)
	case current >= totalPages-1:
		start = max(2, totalPages-windowSize+2)
	}

	if start > 2 {
		links = append(links, PageLink{Gap: true})
	}
	for n := start; n <= end; n++ {
		links = append(links, link(n))
	}
	if end < totalPages-1 {
		links = append(links, PageLink{Gap: true})
	}

	return append(links, link(totalPages))
}
