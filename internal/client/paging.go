package client

import "context"

// Paging is the Spotify paginated container for list endpoints.
type Paging[T any] struct {
	Items    []T     `json:"items"`
	Total    int     `json:"total"`
	Limit    int     `json:"limit"`
	Offset   int     `json:"offset"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// HasNext reports whether another page follows this one.
func (p *Paging[T]) HasNext() bool {
	return p.Next != nil
}

// maxPageSize is Spotify's upper bound for list page sizes.
const maxPageSize = 50

// clampPage applies Spotify's pagination defaults and bounds.
func clampPage(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

// Collect walks every page of a paginated endpoint and returns the combined
// items.
func Collect[T any](ctx context.Context, fetch func(ctx context.Context, limit, offset int) (*Paging[T], error)) ([]T, error) {
	var all []T
	offset := 0

	for {
		page, err := fetch(ctx, maxPageSize, offset)
		if err != nil {
			return nil, err
		}

		all = append(all, page.Items...)

		if !page.HasNext() {
			return all, nil
		}
		offset += maxPageSize
	}
}
