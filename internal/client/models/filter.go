package models

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultPageSize is used when a FilterState carries no size.
const DefaultPageSize = 10

// FilterState is the user-editable search state behind the recipe list.
// It lives only in memory.
type FilterState struct {
	Page                int
	Size                int
	Sort                []string
	Name                string
	UserName            string
	Rating              int
	IncludeIngredientID int64
	ExcludeIngredientID int64
	TipoRecetaID        int64
}

// Cleared returns the zero filter keeping only the page size.
func (f FilterState) Cleared() FilterState {
	return FilterState{Size: f.Size}
}

// WithPage returns a copy of f pointing at page.
func (f FilterState) WithPage(page int) FilterState {
	f.Page = page
	f.Sort = append([]string(nil), f.Sort...)
	return f
}

// Query composes the recipe/page query parameters. page and size are always
// present; other parameters are omitted while unset.
func (f FilterState) Query() url.Values {
	q := url.Values{}

	size := f.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	q.Set("page", strconv.Itoa(f.Page))
	q.Set("size", strconv.Itoa(size))

	for _, s := range f.Sort {
		if s = strings.TrimSpace(s); s != "" {
			q.Add("sort", s)
		}
	}
	if name := strings.TrimSpace(f.Name); name != "" {
		q.Set("name", name)
	}
	if user := strings.TrimSpace(f.UserName); user != "" {
		q.Set("userName", user)
	}
	if f.Rating > 0 {
		q.Set("rating", strconv.Itoa(f.Rating))
	}
	if f.IncludeIngredientID > 0 {
		q.Set("includeIngredientId", strconv.FormatInt(f.IncludeIngredientID, 10))
	}
	if f.ExcludeIngredientID > 0 {
		q.Set("excludeIngredientId", strconv.FormatInt(f.ExcludeIngredientID, 10))
	}
	if f.TipoRecetaID > 0 {
		q.Set("tipoRecetaId", strconv.FormatInt(f.TipoRecetaID, 10))
	}
	return q
}
