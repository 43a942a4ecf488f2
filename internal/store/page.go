package store

// DefaultPerPage is the number of items returned per collection page.
const DefaultPerPage = 10

// PageRequest selects one page of a collection. Page numbers start at 1;
// values below 1 are normalized to 1. PerPage of 0 means DefaultPerPage.
type PageRequest struct {
	Page    int
	PerPage int
}

// Normalize returns a copy of the request with page and per-page values
// clamped to usable bounds.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	return p
}

// Offset returns the row offset for the requested page.
func (p PageRequest) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PerPage
}

// Page is one page of results plus the counts needed to build pagination
// metadata. Items preserve store iteration order.
type Page[T any] struct {
	Items   []T
	Page    int
	PerPage int
	Total   int64
}

// LastPage returns the number of the final page, at minimum 1.
func (p *Page[T]) LastPage() int {
	if p.Total == 0 || p.PerPage == 0 {
		return 1
	}
	last := int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
	if last < 1 {
		last = 1
	}
	return last
}
