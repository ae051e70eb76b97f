package api

import (
	"net/url"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/foodgramapp/foodgram-server/internal/store"
)

// PageParams are the page/limit query parameters shared by list endpoints.
// The resolver keeps the request URL so next/previous links can be built.
type PageParams struct {
	Page  int `query:"page" minimum:"1" doc:"Page number, starting at 1"`
	Limit int `query:"limit" minimum:"1" doc:"Page size"`

	self url.URL
}

// Resolve implements huma.Resolver.
func (p *PageParams) Resolve(ctx huma.Context) []error {
	p.self = ctx.URL()
	if p.self.Host == "" {
		p.self.Host = ctx.Host()
	}
	if p.self.Scheme == "" {
		p.self.Scheme = "http"
		if ctx.TLS() != nil {
			p.self.Scheme = "https"
		}
		if proto := ctx.Header("X-Forwarded-Proto"); proto != "" {
			p.self.Scheme = proto
		}
	}
	return nil
}

func (p *PageParams) page(defaultSize, maxSize int) store.Page {
	return store.Page{Number: p.Page, Size: p.Limit}.Normalize(defaultSize, maxSize)
}

// link returns the absolute URL of page number, or nil.
func (p *PageParams) link(number int) *string {
	u := p.self
	q := u.Query()
	if number <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(number))
	}
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}

// Paginated is the list envelope: {count, next, previous, results}.
type Paginated[T any] struct {
	Count    int     `json:"count" doc:"Total number of items"`
	Next     *string `json:"next" doc:"URL of the next page"`
	Previous *string `json:"previous" doc:"URL of the previous page"`
	Results  []T     `json:"results" doc:"Items on this page"`
}

func paginate[T, U any](p *PageParams, result *store.PageResult[T], fn func(T) U) Paginated[U] {
	out := Paginated[U]{Count: result.Total, Results: store.MapPage(result, fn).Items}
	if result.HasNext() {
		out.Next = p.link(result.Page.Number + 1)
	}
	if result.HasPrevious() {
		out.Previous = p.link(result.Page.Number - 1)
	}
	return out
}
