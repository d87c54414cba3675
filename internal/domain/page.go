package domain

import (
	"strconv"
	"strings"
)

// Page is one ordered slice of a larger collection
type Page[T any] struct {
	Items      []T `json:"items"`
	Number     int `json:"number"`
	Size       int `json:"size"`
	TotalCount int `json:"total_count"`
	NumPages   int `json:"num_pages"`
}

// ParsePageNumber turns a raw query value into a page number. Anything that
// is not an integer yields the first page.
func ParsePageNumber(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return n
}

// NumPages returns how many pages of size hold total items. An empty
// collection still has one (empty) page.
func NumPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// ClampPage maps a requested page number onto the nearest valid page and
// returns it together with the offset of its first item.
func ClampPage(number, size, total int) (page, offset int) {
	last := NumPages(total, size)
	switch {
	case number < 1:
		page = 1
	case number > last:
		page = last
	default:
		page = number
	}
	if size < 0 {
		size = 0
	}
	return page, (page - 1) * size
}

// NewPage assembles a page from an already sliced set of items
func NewPage[T any](items []T, number, size, total int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:      items,
		Number:     number,
		Size:       size,
		TotalCount: total,
		NumPages:   NumPages(total, size),
	}
}

// HasNext reports whether a later page exists
func (p *Page[T]) HasNext() bool {
	return p.Number < p.NumPages
}

// HasPrevious reports whether an earlier page exists
func (p *Page[T]) HasPrevious() bool {
	return p.Number > 1
}

// StartIndex is the 1-based index of the first item on the page, 0 when empty
func (p *Page[T]) StartIndex() int {
	if p.TotalCount == 0 {
		return 0
	}
	return (p.Number-1)*p.Size + 1
}

// EndIndex is the 1-based index of the last item on the page
func (p *Page[T]) EndIndex() int {
	if p.TotalCount == 0 {
		return 0
	}
	return p.StartIndex() + len(p.Items) - 1
}
