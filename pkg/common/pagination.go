package common

import (
	"net/http"
	"strconv"
)

const (
	// DefaultPageSize is used when the client does not specify one
	DefaultPageSize = 50
	// MaxPageSize caps the page size a client may request
	MaxPageSize = 500
)

// PageRequest captures pagination parameters from a request
type PageRequest struct {
	Page     int
	PageSize int
}

// ParsePageRequest extracts pagination parameters from query string
func ParsePageRequest(r *http.Request) PageRequest {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	size, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	return PageRequest{Page: page, PageSize: size}
}

// Offset returns the zero-based offset of the first item on the page
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Paginate slices a total count into pagination info
func Paginate(p PageRequest, total int) *PaginationInfo {
	totalPages := total / p.PageSize
	if total%p.PageSize != 0 {
		totalPages++
	}

	return &PaginationInfo{
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
		HasPrev:    p.Page > 1,
	}
}

// PageBounds clamps [start, end) slice bounds for a page over n items
func PageBounds(p PageRequest, n int) (int, int) {
	start := p.Offset()
	if start > n {
		start = n
	}
	end := start + p.PageSize
	if end > n {
		end = n
	}
	return start, end
}
