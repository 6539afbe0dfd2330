package board

// Page is one page of a filtered listing
type Page[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

// paginate slices items for the 1-based page. Values below 1 fall back to the
// given defaults. A page past the end is empty. Data is never nil.
func paginate[T any](items []T, page, pageSize, defaultPageSize int) *Page[T] {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	total := len(items)
	// page-1 and pageSize are both positive, so compare before multiplying
	start := total
	if page-1 <= total/pageSize {
		start = min((page-1)*pageSize, total)
	}
	end := start + min(pageSize, total-start)

	data := make([]T, 0, end-start)
	data = append(data, items[start:end]...)

	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	return &Page[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
