package validate

import (
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 50
)

type Page struct {
	Page  int
	Limit int
	Skip  int
}

type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

// ParsePagination never fails: bad input falls back to page 1 and the default size.
func ParsePagination(page, limit string) Page {
	p := atoiOr(page, 1)
	if p < 1 {
		p = 1
	}
	l := atoiOr(limit, DefaultPageSize)
	if l < 1 {
		l = 1
	}
	if l > MaxPageSize {
		l = MaxPageSize
	}
	return Page{Page: p, Limit: l, Skip: (p - 1) * l}
}

func atoiOr(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n == 0 {
		return def
	}
	return n
}

func PaginationMeta(total int64, page, limit int) PageMeta {
	pages := int64(0)
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	return PageMeta{Total: total, Page: page, Limit: limit, TotalPages: pages}
}
