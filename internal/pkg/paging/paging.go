// internal/pkg/paging/paging.go
package paging

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize applies the list defaults: page starts at 1, page size defaults
// to 20 and is capped at 100.
func Normalize(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// TotalPages rounds total/pageSize up.
func TotalPages(total int64, pageSize int) int {
	if pageSize < 1 {
		return 0
	}
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return totalPages
}

// Slice returns the window of items for page. Pages past the end are empty.
func Slice[T any](items []T, page, pageSize int) []T {
	page, pageSize = Normalize(page, pageSize)
	// compare before multiplying so huge page numbers cannot overflow
	if page-1 >= (len(items)+pageSize-1)/pageSize {
		return []T{}
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
