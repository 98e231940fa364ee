package common

import (
	"net/http"
	"strconv"
)

// Feed pagination bounds. Limits above MaxLimit are clamped rather than
// rejected; a missing or invalid page falls back to the first page.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 50
)

// PaginationParams represents pagination parameters for feed-style listings
type PaginationParams struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// DefaultPaginationParams returns default pagination parameters
func DefaultPaginationParams() PaginationParams {
	return PaginationParams{
		Page:  DefaultPage,
		Limit: DefaultLimit,
	}
}

// ExtractPaginationParams extracts pagination parameters from request
func ExtractPaginationParams(r *http.Request) PaginationParams {
	params := DefaultPaginationParams()

	if page := r.URL.Query().Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil && p > 0 {
			params.Page = p
		}
	}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil && l > 0 {
			params.Limit = l
		}
	}

	return params.Clamp()
}

// Clamp normalizes the parameters into the allowed range
func (p PaginationParams) Clamp() PaginationParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// CalculateOffset calculates the number of records to skip
func (p PaginationParams) CalculateOffset() int {
	return (p.Page - 1) * p.Limit
}
