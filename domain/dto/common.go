package dto

const (
	DefaultPageNumber = 1
	DefaultPageSize   = 10
	MaxPageSize       = 100
)

// PageQuery ใช้ได้ทั้ง query string (HTTP) และ payload ของ websocket
type PageQuery struct {
	PageNumber int `json:"pageNumber" query:"pageNumber" validate:"omitempty,min=1"`
	PageSize   int `json:"pageSize" query:"pageSize" validate:"omitempty,min=1,max=100"`
}

// Normalize fills in defaults and returns the row offset.
func (q PageQuery) Normalize() (PageQuery, int) {
	if q.PageNumber < 1 {
		q.PageNumber = DefaultPageNumber
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q, (q.PageNumber - 1) * q.PageSize
}

type PageMeta struct {
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
	HasNext     bool  `json:"hasNext"`
	HasPrevious bool  `json:"hasPrevious"`
}

// NewPageMeta expects a normalized query.
func NewPageMeta(q PageQuery, totalItems int64) PageMeta {
	totalPages := int((totalItems + int64(q.PageSize) - 1) / int64(q.PageSize))
	return PageMeta{
		CurrentPage: q.PageNumber,
		PageSize:    q.PageSize,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		HasNext:     q.PageNumber < totalPages,
		HasPrevious: q.PageNumber > 1,
	}
}
