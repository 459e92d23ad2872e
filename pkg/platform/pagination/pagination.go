// Package pagination normalizes list query parameters and defines the one
// canonical paginated response envelope used by every list endpoint.
package pagination

import (
	"net/url"
	"strconv"
)

// MaxPageSize is the hard cap applied to every list endpoint.
const MaxPageSize = 100

// Params is a normalized page request. Page is 1-based.
type Params struct {
	Page     int
	PageSize int
}

// FromQuery reads page/pageSize from query values, coercing page to >= 1
// and clamping pageSize to [1, MaxPageSize] with the given default.
func FromQuery(q url.Values, defaultPageSize int) Params {
	page := atoiDefault(q.Get("page"), 1)
	if page < 1 {
		page = 1
	}
	size := atoiDefault(q.Get("pageSize"), defaultPageSize)
	if size < 1 {
		size = defaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Params{Page: page, PageSize: size}
}

// Offset returns the 0-based row offset for the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Limit returns the row limit for the page.
func (p Params) Limit() int {
	return p.PageSize
}

// Envelope is the canonical list response shape: {items,total,page,pageSize}.
type Envelope[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// NewEnvelope builds an envelope, guaranteeing a non-nil items slice so
// empty pages serialize as [] rather than null.
func NewEnvelope[T any](items []T, total int, p Params) Envelope[T] {
	if items == nil {
		items = []T{}
	}
	return Envelope[T]{Items: items, Total: total, Page: p.Page, PageSize: p.PageSize}
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
