package api

import (
	"fmt"
	"net/http"

	"github.com/scribehq/scribe-api/internal/store"
)

// PaginationLinks navigates between pages of a collection. Prev and Next are
// null on the first and last page respectively.
type PaginationLinks struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

// PaginationMeta describes the collection the page was cut from. From and To
// are null when the page is empty.
type PaginationMeta struct {
	CurrentPage int    `json:"current_page"`
	From        *int   `json:"from"`
	LastPage    int    `json:"last_page"`
	Path        string `json:"path"`
	PerPage     int    `json:"per_page"`
	To          *int   `json:"to"`
	Total       int64  `json:"total"`
}

// CollectionResponse is the envelope of every paginated collection.
type CollectionResponse struct {
	Data  interface{}     `json:"data"`
	Links PaginationLinks `json:"links"`
	Meta  PaginationMeta  `json:"meta"`
}

// newCollectionResponse builds the paginated envelope for one store page,
// serializing each item with transform. Link URLs are derived from the
// request path.
func newCollectionResponse[T, R any](
	r *http.Request,
	page *store.Page[T],
	transform func(T) R,
) CollectionResponse {
	data := make([]R, 0, len(page.Items))
	for _, item := range page.Items {
		data = append(data, transform(item))
	}

	path := requestPath(r)
	lastPage := page.LastPage()

	pageURL := func(n int) string {
		return fmt.Sprintf("%s?page=%d", path, n)
	}

	links := PaginationLinks{
		First: pageURL(1),
		Last:  pageURL(lastPage),
	}
	if page.Page > 1 {
		prev := pageURL(page.Page - 1)
		links.Prev = &prev
	}
	if page.Page < lastPage {
		next := pageURL(page.Page + 1)
		links.Next = &next
	}

	meta := PaginationMeta{
		CurrentPage: page.Page,
		LastPage:    lastPage,
		Path:        path,
		PerPage:     page.PerPage,
		Total:       page.Total,
	}
	if len(page.Items) > 0 {
		from := (page.Page-1)*page.PerPage + 1
		to := from + len(page.Items) - 1
		meta.From = &from
		meta.To = &to
	}

	return CollectionResponse{Data: data, Links: links, Meta: meta}
}

// requestPath reconstructs the absolute URL of the request without its query
// string, for use in pagination links.
func requestPath(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s%s", scheme, r.Host, r.URL.Path)
}
