package query

// Page sizes per view.
const (
	UsersPageSize   = 10
	ReportsPageSize = 5
	AlertsPageSize  = 5
)

// Page is one slice of a paginated list.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Page       int  `json:"page"`
	PageSize   int  `json:"pageSize"`
	TotalPages int  `json:"totalPages"`
	TotalItems int  `json:"totalItems"`
	HasPrev    bool `json:"hasPrev"`
	HasNext    bool `json:"hasNext"`
	// From and To are 1-based item positions for "Showing From to To of TotalItems".
	// Both are 0 for an empty list.
	From int `json:"from"`
	To   int `json:"to"`
}

// TotalPages is ceil(n/size); a non-positive size counts as 1.
func TotalPages(n, size int) int {
	if size < 1 {
		size = 1
	}
	return (n + size - 1) / size
}

// ClampPage limits page to [1, max(1, totalPages)].
func ClampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Paginate returns the 1-based page of items. Out-of-range pages are
// clamped to the nearest valid one.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size < 1 {
		size = 1
	}
	n := len(items)
	total := TotalPages(n, size)
	page = ClampPage(page, total)

	start := min((page-1)*size, n)
	end := min(start+size, n)

	p := Page[T]{
		Items:      make([]T, end-start),
		Page:       page,
		PageSize:   size,
		TotalPages: total,
		TotalItems: n,
		HasPrev:    page > 1,
		HasNext:    page < total,
	}
	copy(p.Items, items[start:end])
	if n > 0 {
		p.From, p.To = start+1, end
	}
	return p
}
