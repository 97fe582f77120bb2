package pagination_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/Anoopsmohan/monstor-tickets/pkg/pagination"
)

// countingSource records how the engine touches the underlying query.
type countingSource struct {
	items  []int
	counts int
	slices int
}

func (s *countingSource) Count(_ context.Context) (int, error) {
	s.counts++
	return len(s.items), nil
}

func (s *countingSource) Slice(ctx context.Context, offset, limit int) ([]int, error) {
	s.slices++
	return pagination.SliceSource[int](s.items).Slice(ctx, offset, limit)
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPaginate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		total       int
		page        int
		size        int
		wantItems   []int
		wantPrev    bool
		wantNext    bool
		wantSlicing bool
	}{
		{
			name:        "first page of 100",
			total:       100,
			page:        1,
			size:        10,
			wantItems:   seq(10),
			wantPrev:    false,
			wantNext:    true,
			wantSlicing: true,
		},
		{
			name:        "fourth page of 100",
			total:       100,
			page:        4,
			size:        10,
			wantItems:   []int{31, 32, 33, 34, 35, 36, 37, 38, 39, 40},
			wantPrev:    true,
			wantNext:    true,
			wantSlicing: true,
		},
		{
			name:        "last full page",
			total:       100,
			page:        10,
			size:        10,
			wantItems:   []int{91, 92, 93, 94, 95, 96, 97, 98, 99, 100},
			wantPrev:    true,
			wantNext:    false,
			wantSlicing: true,
		},
		{
			name:        "partial last page",
			total:       25,
			page:        3,
			size:        10,
			wantItems:   []int{21, 22, 23, 24, 25},
			wantPrev:    true,
			wantNext:    false,
			wantSlicing: true,
		},
		{
			name:        "page past the end is empty",
			total:       25,
			page:        9,
			size:        10,
			wantItems:   []int{},
			wantPrev:    true,
			wantNext:    false,
			wantSlicing: false,
		},
		{
			name:        "empty source",
			total:       0,
			page:        1,
			size:        10,
			wantItems:   []int{},
			wantPrev:    false,
			wantNext:    false,
			wantSlicing: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &countingSource{items: seq(tt.total)}

			page, err := pagination.Paginate[int](ctx, tt.page, tt.size, src)
			gt.NoError(t, err).Required()

			gt.A(t, page.Items).Equal(tt.wantItems)
			gt.V(t, page.HasPrevious).Equal(tt.wantPrev)
			gt.V(t, page.HasNext).Equal(tt.wantNext)
			gt.N(t, page.Total).Equal(tt.total)
			gt.N(t, src.counts).Equal(1)
			if tt.wantSlicing {
				gt.N(t, src.slices).Equal(1)
			} else {
				gt.N(t, src.slices).Equal(0)
			}
		})
	}
}

func TestPaginate_InvalidInput(t *testing.T) {
	ctx := context.Background()
	src := pagination.SliceSource[int](seq(5))

	_, err := pagination.Paginate[int](ctx, 0, 10, src)
	gt.Error(t, err).Is(pagination.ErrInvalidPage)

	_, err = pagination.Paginate[int](ctx, -3, 10, src)
	gt.Error(t, err).Is(pagination.ErrInvalidPage)

	_, err = pagination.Paginate[int](ctx, 1, 0, src)
	gt.Error(t, err).Is(pagination.ErrInvalidPageSize)
}

type failingSource struct{}

var errBackend = errors.New("backend unavailable")

func (failingSource) Count(context.Context) (int, error)              { return 0, errBackend }
func (failingSource) Slice(context.Context, int, int) ([]int, error) { return nil, errBackend }

func TestPaginate_SourceError(t *testing.T) {
	_, err := pagination.Paginate[int](context.Background(), 1, 10, failingSource{})
	gt.Error(t, err).Is(errBackend)
}

func TestPaginate_ConcatenationCoversSource(t *testing.T) {
	ctx := context.Background()

	for _, total := range []int{0, 1, 9, 10, 11, 57, 100} {
		for _, size := range []int{1, 3, 10, 25} {
			src := pagination.SliceSource[int](seq(total))

			var all []int
			for n := 1; ; n++ {
				page, err := pagination.Paginate[int](ctx, n, size, src)
				gt.NoError(t, err).Required()
				all = append(all, page.Items...)
				if !page.HasNext {
					break
				}
			}

			gt.N(t, len(all)).Equal(total)
			for i, v := range all {
				gt.N(t, v).Describef("total=%d size=%d index=%d", total, size, i).Equal(i + 1)
			}
		}
	}
}

func TestPage_Navigation(t *testing.T) {
	ctx := context.Background()
	src := pagination.SliceSource[int](seq(25))

	first, err := pagination.Paginate[int](ctx, 1, 10, src)
	gt.NoError(t, err).Required()
	gt.N(t, first.TotalPages()).Equal(3)
	gt.N(t, first.PreviousNumber()).Equal(0)
	gt.N(t, first.NextNumber()).Equal(2)

	last, err := pagination.Paginate[int](ctx, 3, 10, src)
	gt.NoError(t, err).Required()
	gt.N(t, last.PreviousNumber()).Equal(2)
	gt.N(t, last.NextNumber()).Equal(0)

	doubled := pagination.Map(last, func(v int) int { return v * 2 })
	gt.A(t, doubled.Items).Equal([]int{42, 44, 46, 48, 50})
	gt.N(t, doubled.Number).Equal(3)
	gt.B(t, doubled.HasPrevious).True()
}
