package resource

import (
	"strings"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// ParseSortDirection accepts asc/desc and ascending/descending in any case.
func ParseSortDirection(s string) (SortDirection, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return SortAscending, true
	case "desc", "descending":
		return SortDescending, true
	}
	return "", false
}

// PageRequest is the caller-facing list request. Page is zero-indexed.
type PageRequest struct {
	Page           int
	Size           int
	SortBy         string
	SortDirection  string
	IncludeDeleted bool
}

// ListQuery is a PageRequest resolved against a resource's sortable fields.
// SortColumn is always one of the whitelisted store columns.
type ListQuery struct {
	Offset         int
	Limit          int
	SortColumn     string
	Descending     bool
	IncludeDeleted bool
}

type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
}

func NewPage[T any](content []T, page, size int, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	return Page[T]{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}
