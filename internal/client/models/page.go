package models

// PagedResult is one page of a server-side result set. The JSON tags follow
// the server's page envelope.
type PagedResult[T any] struct {
	Content       []T   `json:"content"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	CurrentPage   int   `json:"number"`
	IsLastPage    bool  `json:"last"`
}

// Append concatenates next after p and takes the page metadata from next.
// p is left untouched.
func (p PagedResult[T]) Append(next PagedResult[T]) PagedResult[T] {
	content := make([]T, 0, len(p.Content)+len(next.Content))
	content = append(content, p.Content...)
	content = append(content, next.Content...)

	next.Content = content
	return next
}

// HasMore reports whether another page can be requested.
func (p PagedResult[T]) HasMore() bool {
	return !p.IsLastPage && p.CurrentPage+1 < p.TotalPages
}
