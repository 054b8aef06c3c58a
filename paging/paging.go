package paging

import (
	"math"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params holds page based pagination parameters
type Params struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Result holds one page of items
type Result[T any] struct {
	Items       []T   `json:"items"`
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNext"`
}

// ParseParams reads raw query values. Zero or non-numeric values fall back
// to the defaults before normalization.
func ParseParams(page, limit string) Params {
	p := Params{Page: DefaultPage, Limit: DefaultLimit}
	if n, err := strconv.Atoi(page); err == nil && n != 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(limit); err == nil && n != 0 {
		p.Limit = n
	}
	return NormalizeParams(p)
}

// NormalizeParams clamps Page to >= 1 and Limit to 1..MaxLimit
func NormalizeParams(params Params) Params {
	if params.Page < 1 {
		params.Page = DefaultPage
	}
	if params.Limit < 1 {
		params.Limit = 1
	}
	if params.Limit > MaxLimit {
		params.Limit = MaxLimit
	}
	return params
}

// Offset returns the number of items to skip
func (p Params) Offset() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

// NewResult builds a Result, never returning nil Items
func NewResult[T any](items []T, total int64, params Params) *Result[T] {
	if items == nil {
		items = make([]T, 0)
	}

	pages := 0
	if params.Limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(params.Limit)))
	}

	return &Result[T]{
		Items:       items,
		Total:       total,
		Page:        params.Page,
		Limit:       params.Limit,
		TotalPages:  pages,
		HasNextPage: params.Offset()+int64(len(items)) < total,
	}
}
