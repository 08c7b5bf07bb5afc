package contract

import (
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	DefaultSort     = "createdAt"
)

// ApiResponse is the envelope every backend response is wrapped in.
type ApiResponse[T any] struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      *T        `json:"data,omitempty"`
	ErrorCode string    `json:"errorCode,omitempty"`
	Timestamp Timestamp `json:"timestamp"`
}

func OK[T any](data T, message string) ApiResponse[T] {
	return ApiResponse[T]{Success: true, Message: message, Data: &data, Timestamp: NewTimestamp(time.Now().UTC())}
}

func Fail(code ErrorCode, message string) ApiResponse[struct{}] {
	return ApiResponse[struct{}]{Message: message, ErrorCode: string(code), Timestamp: NewTimestamp(time.Now().UTC())}
}

type PageResponse[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Size          int   `json:"size"`
	Number        int   `json:"number"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

func (p PageResponse[T]) HasNext() bool { return !p.Last && p.Number+1 < p.TotalPages }

// PageRequest addresses one page. Page is 0-based.
type PageRequest struct {
	Page      int
	Size      int
	Sort      string
	Direction SortDirection
}

// Normalize applies the defaults and clamps Size to MaxPageSize.
func (r PageRequest) Normalize() PageRequest {
	if r.Page < 0 {
		r.Page = 0
	}
	switch {
	case r.Size <= 0:
		r.Size = DefaultPageSize
	case r.Size > MaxPageSize:
		r.Size = MaxPageSize
	}
	if r.Sort == "" {
		r.Sort = DefaultSort
	}
	if !r.Direction.Valid() {
		r.Direction = SortDesc
	}
	return r
}

// SortParam renders the "field,DIRECTION" form the backend expects.
func (r PageRequest) SortParam() string {
	return r.Sort + "," + string(r.Direction)
}

// ParseSortParam is the inverse of SortParam. A missing direction means DESC.
func ParseSortParam(s string) (field string, dir SortDirection) {
	field, d, _ := strings.Cut(s, ",")
	dir = SortDirection(strings.ToUpper(strings.TrimSpace(d)))
	if !dir.Valid() {
		dir = SortDesc
	}
	return strings.TrimSpace(field), dir
}

// Paginate slices items into the page addressed by req.
func Paginate[T any](items []T, req PageRequest) PageResponse[T] {
	req = req.Normalize()
	total := len(items)
	pages := (total + req.Size - 1) / req.Size
	from := total
	if req.Page < pages {
		from = req.Page * req.Size
	}
	to := min(from+req.Size, total)
	content := make([]T, 0, to-from)
	content = append(content, items[from:to]...)
	return PageResponse[T]{
		Content:       content,
		TotalElements: int64(total),
		TotalPages:    pages,
		Size:          req.Size,
		Number:        req.Page,
		First:         req.Page == 0,
		Last:          req.Page >= pages-1,
	}
}

func pageValues(r PageRequest, set func(k, v string)) {
	r = r.Normalize()
	set("page", strconv.Itoa(r.Page))
	set("size", strconv.Itoa(r.Size))
	set("sort", r.SortParam())
}
