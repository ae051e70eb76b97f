package store

import "math"

// maxOffset bounds the rows a page may skip so Offset never overflows.
const maxOffset = math.MaxInt32

// Page selects one page of a listing. Number is 1-based.
type Page struct {
	Number int
	Size   int
}

// Normalize clamps Size into [1, maxSize], applying defaultSize when Size is
// unset, and clamps Number so the offset stays within maxOffset.
func (p Page) Normalize(defaultSize, maxSize int) Page {
	if p.Size <= 0 {
		p.Size = defaultSize
	}
	if p.Size > maxSize {
		p.Size = maxSize
	}
	if p.Size < 1 {
		p.Size = 1
	}
	if p.Number < 1 {
		p.Number = 1
	}
	if last := maxOffset/p.Size + 1; p.Number > last {
		p.Number = last
	}
	return p
}

// Offset is the number of rows preceding the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// PageResult is one page of items plus the total row count.
type PageResult[T any] struct {
	Items []T
	Total int
	Page  Page
}

// HasNext reports whether rows exist beyond this page.
func (r *PageResult[T]) HasNext() bool {
	return r.Page.Offset()+len(r.Items) < r.Total
}

// HasPrevious reports whether this is not the first page.
func (r *PageResult[T]) HasPrevious() bool {
	return r.Page.Number > 1
}

// MapPage converts the items of r one by one, keeping paging metadata.
func MapPage[T, U any](r *PageResult[T], fn func(T) U) *PageResult[U] {
	out := &PageResult[U]{Items: make([]U, len(r.Items)), Total: r.Total, Page: r.Page}
	for i, item := range r.Items {
		out.Items[i] = fn(item)
	}
	return out
}

// ConvertPage converts all items of r in one call, for conversions that
// batch their lookups. fn must return one item per input, in order.
func ConvertPage[T, U any](r *PageResult[T], fn func([]T) ([]U, error)) (*PageResult[U], error) {
	items, err := fn(r.Items)
	if err != nil {
		return nil, err
	}
	return &PageResult[U]{Items: items, Total: r.Total, Page: r.Page}, nil
}
