package pagination

// DefaultPageSize is used when the requested size is out of range.
const DefaultPageSize = 10

// MaxPageSize caps requested page sizes to keep result sets bounded.
const MaxPageSize = 50

// Params is a normalized 1-based page request.
type Params struct {
	Number int
	Size   int
}

// Normalize clamps raw pagination input. Page numbers below 1 become 1;
// sizes outside (0, MaxPageSize] fall back to DefaultPageSize.
func Normalize(number, size int) Params {
	if number < 1 {
		number = 1
	}
	if size < 1 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return Params{Number: number, Size: size}
}

// Offset returns the number of rows to skip for this page.
func (p Params) Offset() int {
	return (p.Number - 1) * p.Size
}

// Page is the transient view returned by every list operation. It is
// constructed fresh per request and never persisted. Contents are a
// best-effort snapshot: the total count and the fetched rows may reflect
// different moments when writes race with the read.
type Page[T any] struct {
	Items       []T    `json:"items"`
	PageNumber  int    `json:"pageNumber"`
	PageSize    int    `json:"pageSize"`
	TotalCount  int    `json:"totalCount"`
	TotalPages  int    `json:"totalPages"`
	HasPrevious bool   `json:"hasPrevious"`
	HasNext     bool   `json:"hasNext"`
	Links       []Link `json:"links"`
}

// NewPage derives the page metadata for the given items and total count.
// An offset past the end yields an empty page, not an error.
func NewPage[T any](items []T, p Params, totalCount int) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if totalCount > 0 {
		totalPages = (totalCount + p.Size - 1) / p.Size
	}
	return Page[T]{
		Items:       items,
		PageNumber:  p.Number,
		PageSize:    p.Size,
		TotalCount:  totalCount,
		TotalPages:  totalPages,
		HasPrevious: p.Number > 1,
		HasNext:     p.Number < totalPages,
	}
}
