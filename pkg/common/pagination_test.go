package common

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPaginationParams(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", 1, 10},
		{"explicit", "?page=3&limit=25", 3, 25},
		{"limit clamped to max", "?limit=500", 1, 50},
		{"zero page falls back", "?page=0", 1, 10},
		{"negative values fall back", "?page=-2&limit=-5", 1, 10},
		{"non-numeric falls back", "?page=abc&limit=xyz", 1, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/v1/feed"+tt.query, nil)
			params := ExtractPaginationParams(r)
			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantLimit, params.Limit)
		})
	}
}
