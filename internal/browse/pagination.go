package browse

const (
	DefaultPageSize = 24
)

// Window converts a 1-based page into an offset and limit.
func Window(page, pageSize int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return (page - 1) * pageSize, pageSize
}

// TotalPages never reports fewer than one page.
func TotalPages(total int64, pageSize int) int {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		return 1
	}
	return pages
}

// PageItem is one entry of a pagination strip; Ellipsis entries have no page.
type PageItem struct {
	Page     int
	Ellipsis bool
}

// PageItems lists the first two pages, the last two and the neighbours of the
// current page, collapsing every gap into a single ellipsis.
func PageItems(current, totalPages int) []PageItem {
	var items []PageItem
	for p := 1; p <= totalPages; p++ {
		if p <= 2 || p > totalPages-2 || abs(p-current) <= 1 {
			items = append(items, PageItem{Page: p})
			continue
		}
		if len(items) > 0 && !items[len(items)-1].Ellipsis {
			items = append(items, PageItem{Ellipsis: true})
		}
	}
	return items
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
