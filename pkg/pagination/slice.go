package pagination

import "context"

// SliceSource adapts an already ordered slice to Source.
type SliceSource[T any] []T

func (s SliceSource[T]) Count(_ context.Context) (int, error) {
	return len(s), nil
}

func (s SliceSource[T]) Slice(_ context.Context, offset, limit int) ([]T, error) {
	if offset >= len(s) || limit <= 0 {
		return []T{}, nil
	}
	end := offset + limit
	if end > len(s) {
		end = len(s)
	}
	out := make([]T, end-offset)
	copy(out, s[offset:end])
	return out, nil
}
