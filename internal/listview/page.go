package listview

import (
	"encoding/json"
	"fmt"
)

// EllipsisMarker is the JSON form of a collapsed run of pages.
const EllipsisMarker = "ellipsis"

// Paginate returns the slice of records shown on a 1-based page. Pages outside
// the valid range, and non-positive page sizes, yield an empty page.
// The returned slice never aliases records.
func Paginate[T any](records []T, page, pageSize int) []T {
	if page < 1 || pageSize < 1 {
		return []T{}
	}
	if len(records) == 0 || page-1 > (len(records)-1)/pageSize {
		return []T{}
	}
	start := (page - 1) * pageSize
	end := len(records)
	if pageSize < end-start {
		end = start + pageSize
	}
	out := make([]T, end-start)
	copy(out, records[start:end])
	return out
}

// TotalPages returns max(1, ceil(totalItems/pageSize)).
func TotalPages(totalItems, pageSize int) int {
	if totalItems <= 0 || pageSize < 1 {
		return 1
	}
	pages := totalItems / pageSize
	if totalItems%pageSize != 0 {
		pages++
	}
	return pages
}

// ClampPage forces page into [1, totalPages].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// PageItem is one pagination control: a page number or an ellipsis.
type PageItem struct {
	Page     int
	Ellipsis bool
}

// Ellipsis returns the ellipsis marker item.
func Ellipsis() PageItem {
	return PageItem{Ellipsis: true}
}

// PageNumber returns a numbered item.
func PageNumber(page int) PageItem {
	return PageItem{Page: page}
}

func (p PageItem) String() string {
	if p.Ellipsis {
		return "..."
	}
	return fmt.Sprintf("%d", p.Page)
}

// MarshalJSON encodes numbered items as numbers and the ellipsis as "ellipsis".
func (p PageItem) MarshalJSON() ([]byte, error) {
	if p.Ellipsis {
		return json.Marshal(EllipsisMarker)
	}
	return json.Marshal(p.Page)
}

// UnmarshalJSON accepts a page number or the ellipsis marker.
func (p *PageItem) UnmarshalJSON(data []byte) error {
	var marker string
	if err := json.Unmarshal(data, &marker); err == nil {
		if marker != EllipsisMarker {
			return fmt.Errorf("unknown page marker %q", marker)
		}
		*p = Ellipsis()
		return nil
	}
	var page int
	if err := json.Unmarshal(data, &page); err != nil {
		return fmt.Errorf("decode page item: %w", err)
	}
	*p = PageNumber(page)
	return nil
}

// DefaultWindowSiblings is the number of pages shown either side of the
// current page.
const DefaultWindowSiblings = 1

// PageWindow computes the compact run of page controls for currentPage out of
// totalPages, keeping the first and last pages and siblings pages around the
// current one. A gap of exactly one page is shown as that page; wider gaps
// collapse into a single ellipsis. With totalPages <= 1 no controls are
// returned.
func PageWindow(currentPage, totalPages int) []PageItem {
	return PageWindowWithSiblings(currentPage, totalPages, DefaultWindowSiblings)
}

// PageWindowWithSiblings is PageWindow with a configurable neighbourhood.
func PageWindowWithSiblings(currentPage, totalPages, siblings int) []PageItem {
	if totalPages <= 1 {
		return nil
	}
	if siblings < 0 {
		siblings = 0
	}
	current := ClampPage(currentPage, totalPages)

	lo := current - siblings
	if lo < 2 {
		lo = 2
	}
	hi := current + siblings
	if hi > totalPages-1 {
		hi = totalPages - 1
	}

	pages := make([]int, 0, hi-lo+3)
	pages = append(pages, 1)
	for p := lo; p <= hi; p++ {
		pages = append(pages, p)
	}
	pages = append(pages, totalPages)

	items := make([]PageItem, 0, len(pages)+2)
	prev := 0
	for _, p := range pages {
		if prev != 0 {
			switch gap := p - prev; {
			case gap == 2:
				items = append(items, PageNumber(prev+1))
			case gap > 2:
				items = append(items, Ellipsis())
			}
		}
		items = append(items, PageNumber(p))
		prev = p
	}
	return items
}
