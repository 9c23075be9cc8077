package pagination

// Page is a single window over an ordered result set. PageNum is the page
// actually served, which may differ from the one requested when the request
// was out of range.
type Page[T any] struct {
	Items      []T
	PageNum    int
	PageSize   int
	TotalItems int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// Paginate windows items into a Page. Out-of-range page numbers clamp to the
// nearest valid page: zero and negative requests serve the first page,
// requests past the end serve the last. An empty input still serves page 1.
func Paginate[T any](items []T, pageNum, pageSize int) Page[T] {
	if pageSize < 1 {
		pageSize = 1
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	if pageNum < 1 {
		pageNum = 1
	}
	if pageNum > totalPages {
		pageNum = totalPages
	}

	start := (pageNum - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      items[start:end],
		PageNum:    pageNum,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
		HasNext:    pageNum < totalPages,
		HasPrev:    pageNum > 1,
	}
}
