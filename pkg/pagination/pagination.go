// Package pagination slices an ordered, lazily evaluated result set into
// fixed-size pages.
package pagination

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
)

// DefaultPageSize is the page size used by ticket listings.
const DefaultPageSize = 10

var (
	ErrInvalidPage     = errors.New("page number must be 1 or greater")
	ErrInvalidPageSize = errors.New("page size must be 1 or greater")
)

// Source is an ordered result set that can be counted and sliced without
// being materialized as a whole. Implementations must return items in the
// same order on every call.
type Source[T any] interface {
	Count(ctx context.Context) (int, error)
	Slice(ctx context.Context, offset, limit int) ([]T, error)
}

// Page is one bounded slice of a Source plus navigation metadata.
type Page[T any] struct {
	Number      int
	Size        int
	Total       int
	Items       []T
	HasPrevious bool
	HasNext     bool
}

// Paginate returns page number (1-indexed) of src. Page numbers below 1 are
// rejected. A page past the end of src is returned empty.
func Paginate[T any](ctx context.Context, number, size int, src Source[T]) (*Page[T], error) {
	if number < 1 {
		return nil, goerr.Wrap(ErrInvalidPage, "invalid page", goerr.V("page", number))
	}
	if size < 1 {
		return nil, goerr.Wrap(ErrInvalidPageSize, "invalid page size", goerr.V("size", size))
	}

	total, err := src.Count(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to count source")
	}

	offset := (number - 1) * size
	page := &Page[T]{
		Number:      number,
		Size:        size,
		Total:       total,
		Items:       []T{},
		HasPrevious: number > 1,
		HasNext:     offset+size < total,
	}

	if offset >= total {
		return page, nil
	}

	items, err := src.Slice(ctx, offset, size)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to slice source", goerr.V("offset", offset), goerr.V("limit", size))
	}
	if len(items) > size {
		items = items[:size]
	}
	page.Items = items

	return page, nil
}

// TotalPages returns the number of pages needed to show every item.
func (p *Page[T]) TotalPages() int {
	if p.Size < 1 || p.Total == 0 {
		return 0
	}
	return (p.Total + p.Size - 1) / p.Size
}

// PreviousNumber returns the previous page number, or 0 on the first page.
func (p *Page[T]) PreviousNumber() int {
	if !p.HasPrevious {
		return 0
	}
	return p.Number - 1
}

// NextNumber returns the next page number, or 0 on the last page.
func (p *Page[T]) NextNumber() int {
	if !p.HasNext {
		return 0
	}
	return p.Number + 1
}

// Map converts the items of p with fn and keeps the navigation metadata.
func Map[T, U any](p *Page[T], fn func(T) U) *Page[U] {
	items := make([]U, len(p.Items))
	for i, item := range p.Items {
		items[i] = fn(item)
	}
	return &Page[U]{
		Number:      p.Number,
		Size:        p.Size,
		Total:       p.Total,
		Items:       items,
		HasPrevious: p.HasPrevious,
		HasNext:     p.HasNext,
	}
}
