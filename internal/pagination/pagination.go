// Package pagination slices ordered result sets into fixed-size,
// offset-addressed pages.
package pagination

// DefaultPageSize is the page size used by every listing endpoint.
const DefaultPageSize = 10

// Page describes one page of an ordered result set along with the totals
// the UI needs for navigation.
type Page struct {
	Number     int   `json:"number"`
	Size       int   `json:"size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// New computes the page addressed by number over totalItems items. Out of
// range numbers clamp to the nearest valid page: anything below 1 becomes
// page 1, anything past the end becomes the last page. There is no error
// case. An empty result set yields a single empty page.
func New(totalItems int64, size, number int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}

	totalPages := int((totalItems + int64(size) - 1) / int64(size))
	if totalPages < 1 {
		totalPages = 1
	}

	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	return Page{
		Number:     number,
		Size:       size,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

// Offset is the index of the first item on the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// HasNext reports whether a page follows this one.
func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}

// HasPrev reports whether a page precedes this one.
func (p Page) HasPrev() bool {
	return p.Number > 1
}
