// Package pagination splits ordered listings into numbered pages.
package pagination

import (
	"strconv"
	"strings"
)

// Window describes one clamped page of a listing of Total items.
type Window struct {
	Number     int `json:"number"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
	Offset     int `json:"-"`
	Limit      int `json:"-"`
}

// NewWindow resolves rawPage against a listing of total items.
// A missing or non-numeric page is page 1, anything below 1 is the first
// page and anything past the end is the last page. An empty listing still
// has one (empty) page.
func NewWindow(total, perPage int, rawPage string) Window {
	if perPage <= 0 {
		perPage = 1
	}
	if total < 0 {
		total = 0
	}

	pages := (total + perPage - 1) / perPage
	if pages == 0 {
		pages = 1
	}

	number := ParseNumber(rawPage)
	if number < 1 {
		number = 1
	}
	if number > pages {
		number = pages
	}

	offset := (number - 1) * perPage
	limit := perPage
	if offset+limit > total {
		limit = total - offset
	}

	return Window{
		Number:     number,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: pages,
		Offset:     offset,
		Limit:      limit,
	}
}

// ParseNumber reads a page number from a request parameter, defaulting to 1.
func ParseNumber(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return n
}

func (w Window) HasNext() bool     { return w.Number < w.TotalPages }
func (w Window) HasPrevious() bool { return w.Number > 1 }

// Page is a slice of a listing together with its position.
type Page[T any] struct {
	Items          []T  `json:"items"`
	Number         int  `json:"number"`
	PerPage        int  `json:"per_page"`
	TotalItems     int  `json:"total_items"`
	TotalPages     int  `json:"total_pages"`
	HasNext        bool `json:"has_next"`
	HasPrevious    bool `json:"has_previous"`
	NextNumber     int  `json:"next_number,omitempty"`
	PreviousNumber int  `json:"previous_number,omitempty"`
}

// NewPage wraps items already fetched for w.
func NewPage[T any](items []T, w Window) Page[T] {
	if items == nil {
		items = []T{}
	}
	p := Page[T]{
		Items:       items,
		Number:      w.Number,
		PerPage:     w.PerPage,
		TotalItems:  w.TotalItems,
		TotalPages:  w.TotalPages,
		HasNext:     w.HasNext(),
		HasPrevious: w.HasPrevious(),
	}
	if p.HasNext {
		p.NextNumber = w.Number + 1
	}
	if p.HasPrevious {
		p.PreviousNumber = w.Number - 1
	}
	return p
}

// Paginate returns the requested page of items. items is not modified and
// the returned page owns its own copy of the selected elements.
func Paginate[T any](items []T, perPage int, rawPage string) Page[T] {
	w := NewWindow(len(items), perPage, rawPage)
	out := make([]T, w.Limit)
	copy(out, items[w.Offset:w.Offset+w.Limit])
	return NewPage(out, w)
}
